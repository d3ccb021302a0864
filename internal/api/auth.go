package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// userIDKey is the gin context key holding the authenticated user ID.
const userIDKey = "microscan.user_id"

// ErrInvalidToken is returned for bearer tokens that fail verification.
var ErrInvalidToken = errors.New("invalid token")

// IdentityProvider turns a bearer token into a trusted user ID.
type IdentityProvider interface {
	UserID(token string) (string, error)
}

// Claims are the JWT claims accepted by JWTIdentity. The user ID is read from
// userId when present, otherwise from the subject.
type Claims struct {
	UserID string `json:"userId,omitempty"`
	jwt.RegisteredClaims
}

// JWTIdentity verifies HS256 tokens signed with a shared secret.
type JWTIdentity struct {
	secret []byte
}

// NewJWTIdentity creates a verifier for tokens signed with secret.
func NewJWTIdentity(secret string) *JWTIdentity {
	return &JWTIdentity{secret: []byte(secret)}
}

// UserID verifies token and returns the user it was issued to.
func (j *JWTIdentity) UserID(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(_ *jwt.Token) (any, error) {
		return j.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return "", ErrInvalidToken
	}

	userID := claims.UserID
	if userID == "" {
		userID = claims.Subject
	}
	if strings.TrimSpace(userID) == "" {
		return "", fmt.Errorf("%w: no user in token", ErrInvalidToken)
	}
	return userID, nil
}

// RequireAuth rejects requests without a valid bearer token.
func RequireAuth(identity IdentityProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			RespondError(c, http.StatusUnauthorized, CodeUnauthorized, errors.New("no token provided"))
			return
		}

		userID, err := identity.UserID(token)
		if err != nil {
			RespondError(c, http.StatusUnauthorized, CodeUnauthorized, ErrInvalidToken)
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

func currentUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
