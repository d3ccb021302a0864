// Package common provides shared utilities and types used across the application.
package common

import (
	"context"
	"errors"
	"fmt"
)

// Common application errors.
var (
	// ErrNotFound marks a referenced user or entity that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation marks missing or malformed input. No I/O has happened yet.
	ErrValidation = errors.New("validation failed")
	// ErrResolution marks a failed, timed out, or unparsable external classification.
	ErrResolution = errors.New("resolution failed")
	// ErrPersistence marks a failed store write.
	ErrPersistence = errors.New("persistence failed")
	// ErrDuplicateEntry marks a uniqueness violation in the store.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ValidationError wraps msg with ErrValidation.
func ValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFoundError wraps msg with ErrNotFound.
func NotFoundError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// ResolutionError wraps err with ErrResolution, keeping err in the chain.
func ResolutionError(msg string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", ErrResolution, msg)
	}
	return fmt.Errorf("%w: %s: %w", ErrResolution, msg, err)
}

// PersistenceError wraps err with ErrPersistence, keeping err in the chain.
func PersistenceError(msg string, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", ErrPersistence, msg)
	}
	return fmt.Errorf("%w: %s: %w", ErrPersistence, msg, err)
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// IsRetryable determines if an error should trigger a retry.
// External classifier failures are never retryable.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, ErrResolution) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}

	var retryableErr *RetryableError
	if errors.As(err, &retryableErr) {
		return retryableErr.Retryable
	}

	return false
}
