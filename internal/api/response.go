package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Veraticus/microscan/internal/common"
	"github.com/gin-gonic/gin"
)

// Error codes carried in the error envelope.
const (
	CodeValidation   = "validation_error"
	CodeNotFound     = "not_found"
	CodeUnauthorized = "unauthorized"
	CodeResolution   = "resolution_failed"
	CodeInternal     = "internal_error"
)

// APIError is the body of a failed request.
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ErrorEnvelope wraps APIError as {"error": {...}}.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError writes an error envelope with status.
func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

// RespondOK writes payload with status 200.
func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

// respondErr maps an engine error onto a status code. Server-side failures
// are logged and reported without internal detail.
func respondErr(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, common.ErrValidation):
		RespondError(c, http.StatusBadRequest, CodeValidation, err)
	case errors.Is(err, common.ErrNotFound):
		RespondError(c, http.StatusNotFound, CodeNotFound, err)
	case errors.Is(err, common.ErrResolution):
		slog.Error(fallback, "path", c.FullPath(), "error", err)
		RespondError(c, http.StatusInternalServerError, CodeResolution, errors.New(fallback))
	default:
		slog.Error(fallback, "path", c.FullPath(), "error", err)
		RespondError(c, http.StatusInternalServerError, CodeInternal, errors.New(fallback))
	}
}
