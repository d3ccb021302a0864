// Package storage provides the SQLite persistence layer for classifications,
// users, and their saved products.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/microscan/internal/common"
	"github.com/Veraticus/microscan/internal/model"
)

// Validation errors.
var (
	ErrNilContext    = fmt.Errorf("%w: context cannot be nil", common.ErrValidation)
	ErrEmptyString   = fmt.Errorf("%w: string parameter cannot be empty", common.ErrValidation)
	ErrNilParameter  = fmt.Errorf("%w: parameter cannot be nil", common.ErrValidation)
	ErrInvalidRecord = errors.New("invalid classification record")
	ErrInvalidEntry  = errors.New("invalid saved product")
	ErrInvalidUser   = errors.New("invalid user")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateRecord rejects records that must never reach the table.
func validateRecord(rec *model.ClassificationRecord) error {
	if rec == nil {
		return fmt.Errorf("%w: record", ErrNilParameter)
	}
	if strings.TrimSpace(rec.Name) == "" {
		return fmt.Errorf("%w: %w: missing name", common.ErrValidation, ErrInvalidRecord)
	}
	if !rec.RiskTier.Valid() {
		return fmt.Errorf("%w: %w: risk tier %q", common.ErrValidation, ErrInvalidRecord, rec.RiskTier)
	}
	return nil
}

func validateEntry(entry *model.SavedProductEntry) error {
	if entry == nil {
		return fmt.Errorf("%w: entry", ErrNilParameter)
	}
	if entry.ID == "" || entry.UserID == "" {
		return fmt.Errorf("%w: %w: missing id", common.ErrValidation, ErrInvalidEntry)
	}
	if strings.TrimSpace(entry.Name) == "" {
		return fmt.Errorf("%w: %w: missing name", common.ErrValidation, ErrInvalidEntry)
	}
	if !entry.RiskTier.Valid() {
		return fmt.Errorf("%w: %w: risk tier %q", common.ErrValidation, ErrInvalidEntry, entry.RiskTier)
	}
	return nil
}

func validateUser(user *model.User) error {
	if user == nil {
		return fmt.Errorf("%w: user", ErrNilParameter)
	}
	if user.ID == "" {
		return fmt.Errorf("%w: %w: missing id", common.ErrValidation, ErrInvalidUser)
	}
	if strings.TrimSpace(user.Username) == "" {
		return fmt.Errorf("%w: %w: missing username", common.ErrValidation, ErrInvalidUser)
	}
	if strings.TrimSpace(user.Email) == "" {
		return fmt.Errorf("%w: %w: missing email", common.ErrValidation, ErrInvalidUser)
	}
	return nil
}
