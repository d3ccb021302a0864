package engine

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/microscan/internal/common"
	"github.com/Veraticus/microscan/internal/model"
	"github.com/Veraticus/microscan/internal/service"
	"github.com/google/uuid"
)

// Ledger keeps each user's saved product snapshots.
type Ledger struct {
	users    service.UserStore
	resolver ProductResolver
	locks    *keyedMutex
	now      func() time.Time
	newID    func() string
	retry    common.RetryOptions
}

// NewLedger creates a ledger that resolves names through resolver.
func NewLedger(users service.UserStore, resolver ProductResolver) *Ledger {
	return &Ledger{
		users:    users,
		resolver: resolver,
		locks:    newKeyedMutex(),
		now:      time.Now,
		newID:    uuid.NewString,
		retry: common.RetryOptions{
			MaxAttempts:  5,
			InitialDelay: 20 * time.Millisecond,
			MaxDelay:     500 * time.Millisecond,
		},
	}
}

// AddProduct resolves name and saves a snapshot of the first match for userID.
func (l *Ledger) AddProduct(ctx context.Context, userID, name string) (model.SavedProductEntry, error) {
	name = strings.TrimSpace(name)
	if err := requireUserID(userID); err != nil {
		return model.SavedProductEntry{}, err
	}
	if name == "" {
		return model.SavedProductEntry{}, common.ValidationError("product name is required")
	}

	if _, err := l.users.GetUser(ctx, userID); err != nil {
		return model.SavedProductEntry{}, err
	}

	records, err := l.resolver.Resolve(ctx, name)
	if err != nil {
		return model.SavedProductEntry{}, err
	}
	if len(records) == 0 {
		return model.SavedProductEntry{}, common.NotFoundError("no classification found for %q", name)
	}

	entry := model.NewSavedProductEntry(l.newID(), userID, records[0], l.now().UTC())

	unlock := l.locks.lock(userID)
	defer unlock()

	err = common.WithRetry(ctx, func() error {
		return l.users.AddSavedProduct(ctx, &entry)
	}, l.retry)
	if err != nil {
		return model.SavedProductEntry{}, err
	}

	common.LogInfo(ctx, "Saved product", common.Fields{
		"user_id":  userID,
		"entry_id": entry.ID,
		"product":  entry.Name,
		"risk":     entry.RiskTier,
	})
	return entry, nil
}

// RemoveProduct deletes an entry. Removing an entry that is not there succeeds.
func (l *Ledger) RemoveProduct(ctx context.Context, userID, entryID string) error {
	if err := requireUserID(userID); err != nil {
		return err
	}
	if strings.TrimSpace(entryID) == "" {
		return common.ValidationError("entry id is required")
	}

	unlock := l.locks.lock(userID)
	defer unlock()

	if _, err := l.users.GetUser(ctx, userID); err != nil {
		return err
	}

	var removed bool
	err := common.WithRetry(ctx, func() error {
		var rmErr error
		removed, rmErr = l.users.RemoveSavedProduct(ctx, userID, entryID)
		return rmErr
	}, l.retry)
	if err != nil {
		return err
	}

	slog.Debug("Removed product", "user_id", userID, "entry_id", entryID, "existed", removed)
	return nil
}

// ListProducts returns the user's saved entries in save order.
func (l *Ledger) ListProducts(ctx context.Context, userID string) ([]model.SavedProductEntry, error) {
	if err := requireUserID(userID); err != nil {
		return nil, err
	}
	if _, err := l.users.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return l.users.ListSavedProducts(ctx, userID)
}

func requireUserID(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return common.ValidationError("user id is required")
	}
	return nil
}
