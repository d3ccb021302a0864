// Package testutil provides shared fixtures for tests that need a real database.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Veraticus/microscan/internal/model"
	"github.com/Veraticus/microscan/internal/storage"
)

// TestDB is a migrated SQLite database that is closed when the test ends.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a migrated database in the test's temp directory.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "microscan.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return &TestDB{Storage: store, t: t}
}

// Record returns a classification with no ingredients.
func Record(name string, tier model.RiskTier) model.ClassificationRecord {
	return model.ClassificationRecord{Name: name, RiskTier: tier}
}

// Seed inserts records in order and returns them as stored.
func (db *TestDB) Seed(records ...model.ClassificationRecord) []model.ClassificationRecord {
	db.t.Helper()
	inserted, err := db.Storage.InsertMany(context.Background(), records)
	if err != nil {
		db.t.Fatalf("failed to seed classifications: %v", err)
	}
	return inserted
}

// MustCreateUser inserts a user with the given ID.
func (db *TestDB) MustCreateUser(id, username string) *model.User {
	db.t.Helper()
	user := &model.User{ID: id, Username: username, Email: username + "@example.com"}
	if err := db.Storage.CreateUser(context.Background(), user); err != nil {
		db.t.Fatalf("failed to create user %q: %v", username, err)
	}
	return user
}

// Names returns the names of records in order.
func Names(records []model.ClassificationRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name
	}
	return out
}
