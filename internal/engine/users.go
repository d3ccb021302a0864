package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/microscan/internal/common"
	"github.com/Veraticus/microscan/internal/model"
	"github.com/Veraticus/microscan/internal/service"
	"github.com/google/uuid"
)

// Directory registers users and looks them up.
type Directory struct {
	users service.UserStore
	newID func() string
}

// NewDirectory creates a user directory backed by users.
func NewDirectory(users service.UserStore) *Directory {
	return &Directory{users: users, newID: uuid.NewString}
}

// CreateUser registers a new user. A taken username or email is a validation error.
func (d *Directory) CreateUser(ctx context.Context, username, email string) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" {
		return nil, common.ValidationError("username is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, common.ValidationError("a valid email is required")
	}

	user := &model.User{ID: d.newID(), Username: username, Email: email}
	if err := d.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, common.ErrDuplicateEntry) {
			return nil, fmt.Errorf("%w: username or email already registered: %w", common.ErrValidation, err)
		}
		return nil, err
	}

	slog.Info("Created user", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// GetUser returns the user with id or a common.ErrNotFound error.
func (d *Directory) GetUser(ctx context.Context, id string) (*model.User, error) {
	if err := requireUserID(id); err != nil {
		return nil, err
	}
	return d.users.GetUser(ctx, id)
}
