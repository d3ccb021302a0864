package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/microscan/internal/common"
	"github.com/Veraticus/microscan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

func record(name string, tier model.RiskTier) model.ClassificationRecord {
	return model.ClassificationRecord{Name: name, RiskTier: tier}
}

func names(records []model.ClassificationRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name
	}
	return out
}

func TestSQLiteStorage_Migrate(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	version, err := store.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)

	// Running again is a no-op.
	require.NoError(t, store.Migrate(ctx))
}

func TestSQLiteStorage_InsertMany(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	before := time.Now().UTC().Add(-time.Second)
	inserted, err := store.InsertMany(ctx, []model.ClassificationRecord{
		{
			Name:                  "Hydrating Facial Serum",
			RiskTier:              model.RiskHigh,
			HighRiskIngredients:   []string{"polyethylene", "nylon-12"},
			MediumRiskIngredients: []string{"dimethicone"},
			ImageURL:              "https://example.com/serum.png",
		},
		{Name: "Aqua Gel", RiskTier: model.RiskLow},
	})
	require.NoError(t, err)
	require.Len(t, inserted, 2)

	assert.NotZero(t, inserted[0].ID)
	assert.Greater(t, inserted[1].ID, inserted[0].ID)
	assert.True(t, inserted[0].ObservedAt.After(before))
	assert.Equal(t, []string{}, inserted[1].HighRiskIngredients)

	found, err := store.FindByNameContains(ctx, "serum")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, inserted[0].ID, found[0].ID)
	assert.Equal(t, model.RiskHigh, found[0].RiskTier)
	assert.Equal(t, []string{"polyethylene", "nylon-12"}, found[0].HighRiskIngredients)
	assert.Equal(t, []string{"dimethicone"}, found[0].MediumRiskIngredients)
	assert.Equal(t, "https://example.com/serum.png", found[0].ImageURL)
}

func TestSQLiteStorage_InsertManyRejectsInvalidBatch(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.InsertMany(ctx, []model.ClassificationRecord{
		record("Good Cream", model.RiskLow),
		record("Bad Cream", model.RiskTier("severe")),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrValidation)

	found, err := store.FindByNameContains(ctx, "cream")
	require.NoError(t, err)
	assert.Empty(t, found, "validation happens before any row is written")
}

func TestSQLiteStorage_FindByNameContains(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.InsertMany(ctx, []model.ClassificationRecord{
		record("Moisture Cream A", model.RiskHigh),
		record("Body Cream C", model.RiskMedium),
		record("Night OIL", model.RiskLow),
		record("Crème Éclat", model.RiskLow),
		record("100% Pure [Mask]", model.RiskLow),
	})
	require.NoError(t, err)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "case insensitive", query: "CREAM", want: []string{"Moisture Cream A", "Body Cream C"}},
		{name: "substring inside word", query: "oistur", want: []string{"Moisture Cream A"}},
		{name: "unicode folding", query: "éclat", want: []string{"Crème Éclat"}},
		{name: "no wildcard semantics", query: "100%", want: []string{"100% Pure [Mask]"}},
		{name: "underscore is literal", query: "_", want: []string{}},
		{name: "no match", query: "toner", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := store.FindByNameContains(ctx, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, names(found))
		})
	}

	_, err = store.FindByNameContains(ctx, "  ")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestSQLiteStorage_FindAlternativeCandidates(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.InsertMany(ctx, []model.ClassificationRecord{
		record("Moisture Cream A", model.RiskHigh),
		record("Moisture Cream B", model.RiskLow),
		record("Body Cream C", model.RiskMedium),
		record("Hand Cream D", model.RiskHigh),
		record("Face Serum E", model.RiskLow),
	})
	require.NoError(t, err)

	found, err := store.FindAlternativeCandidates(ctx, "cream", model.RiskHigh)
	require.NoError(t, err)
	assert.Equal(t, []string{"Moisture Cream B", "Body Cream C"}, names(found))

	found, err = store.FindAlternativeCandidates(ctx, "cream", model.RiskLow)
	require.NoError(t, err)
	assert.Equal(t, []string{"Moisture Cream A", "Body Cream C", "Hand Cream D"}, names(found))
}

func TestSQLiteStorage_RecentClassifications(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	batch := make([]model.ClassificationRecord, 12)
	for i := range batch {
		batch[i] = record(string(rune('A'+i))+" Toner", model.RiskLow)
	}
	_, err := store.InsertMany(ctx, batch)
	require.NoError(t, err)

	recent, err := store.RecentClassifications(ctx, 0)
	require.NoError(t, err)
	require.Len(t, recent, DefaultRecentLimit)
	assert.Equal(t, "L Toner", recent[0].Name)
	assert.Equal(t, "C Toner", recent[9].Name)

	recent, err = store.RecentClassifications(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"L Toner", "K Toner", "J Toner"}, names(recent))
}

func TestSQLiteStorage_Users(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	user := &model.User{ID: "user-1", Username: "ada", Email: "Ada@Example.com"}
	require.NoError(t, store.CreateUser(ctx, user))
	assert.False(t, user.CreatedAt.IsZero())

	got, err := store.GetUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "ada", got.Username)
	assert.Equal(t, "ada@example.com", got.Email)

	err = store.CreateUser(ctx, &model.User{ID: "user-2", Username: "ada", Email: "other@example.com"})
	assert.ErrorIs(t, err, common.ErrDuplicateEntry)

	_, err = store.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)

	err = store.CreateUser(ctx, &model.User{ID: "user-3", Username: "bob"})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestSQLiteStorage_SavedProducts(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, &model.User{ID: "user-1", Username: "ada", Email: "ada@example.com"}))
	require.NoError(t, store.CreateUser(ctx, &model.User{ID: "user-2", Username: "bob", Email: "bob@example.com"}))

	now := time.Now().UTC()
	first := model.SavedProductEntry{
		ID: "entry-1", UserID: "user-1", Name: "Aqua Gel", RiskTier: model.RiskLow,
		HighRiskIngredients: []string{}, MediumRiskIngredients: []string{"carbomer"}, SavedAt: now,
	}
	second := model.SavedProductEntry{
		ID: "entry-2", UserID: "user-1", Name: "Glow Serum", RiskTier: model.RiskHigh, SavedAt: now,
	}
	require.NoError(t, store.AddSavedProduct(ctx, &first))
	require.NoError(t, store.AddSavedProduct(ctx, &second))

	entries, err := store.ListSavedProducts(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "entry-1", entries[0].ID)
	assert.Equal(t, []string{"carbomer"}, entries[0].MediumRiskIngredients)
	assert.Equal(t, []string{}, entries[1].HighRiskIngredients)

	others, err := store.ListSavedProducts(ctx, "user-2")
	require.NoError(t, err)
	assert.Empty(t, others)

	// Another user's entry is untouched.
	removed, err := store.RemoveSavedProduct(ctx, "user-2", "entry-1")
	require.NoError(t, err)
	assert.False(t, removed)

	removed, err = store.RemoveSavedProduct(ctx, "user-1", "entry-1")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = store.RemoveSavedProduct(ctx, "user-1", "entry-1")
	require.NoError(t, err)
	assert.False(t, removed)

	entries, err = store.ListSavedProducts(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "entry-2", entries[0].ID)

	orphan := model.SavedProductEntry{ID: "entry-3", UserID: "ghost", Name: "X", RiskTier: model.RiskLow, SavedAt: now}
	err = store.AddSavedProduct(ctx, &orphan)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
