// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/Veraticus/microscan/internal/model"
)

// ClassificationStore is the append-mostly collection of resolved classifications.
// Name matching is a case-insensitive substring match. Results come back in
// store (insertion) order unless noted.
type ClassificationStore interface {
	FindByNameContains(ctx context.Context, substring string) ([]model.ClassificationRecord, error)
	// InsertMany persists records one by one and returns the committed ones with
	// their IDs and ObservedAt set. On a mid-batch failure it returns the
	// records committed so far alongside the error.
	InsertMany(ctx context.Context, records []model.ClassificationRecord) ([]model.ClassificationRecord, error)
	// FindAlternativeCandidates returns records whose tier differs from
	// excludeTier and whose name contains category.
	FindAlternativeCandidates(ctx context.Context, category string, excludeTier model.RiskTier) ([]model.ClassificationRecord, error)
	// RecentClassifications returns the newest records first.
	RecentClassifications(ctx context.Context, limit int) ([]model.ClassificationRecord, error)
}

// UserStore holds users and their saved product snapshots.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id string) (*model.User, error)
	AddSavedProduct(ctx context.Context, entry *model.SavedProductEntry) error
	// RemoveSavedProduct reports whether a row was deleted.
	RemoveSavedProduct(ctx context.Context, userID, entryID string) (bool, error)
	ListSavedProducts(ctx context.Context, userID string) ([]model.SavedProductEntry, error)
}

// Storage is everything the application persists.
type Storage interface {
	ClassificationStore
	UserStore

	Migrate(ctx context.Context) error
	Close() error
}
