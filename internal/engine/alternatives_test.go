package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/Veraticus/microscan/internal/common"
	"github.com/Veraticus/microscan/internal/model"
	"github.com/Veraticus/microscan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCategory(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "keyword word", input: "Hydrating Facial Serum", want: "serum"},
		{name: "first long word", input: "XYZ Product", want: "product"},
		{name: "short keyword", input: "Aqua Gel", want: "gel"},
		{name: "keyword before trailing token", input: "Moisture Cream A", want: "cream"},
		{name: "keyword inside word", input: "Overnight Sheetmask", want: "sheetmask"},
		{name: "keyword order follows words", input: "Serum Cream", want: "serum"},
		{name: "falls back to last word", input: "Ab Cd", want: "cd"},
		{name: "six runes counts as long", input: "Ab Crème Éclat", want: "crème"},
		{name: "blank", input: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractCategory(tt.input))
		})
	}
}

func TestRanker_StoredCandidates(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	seed(t, store,
		testutil.Record("Moisture Cream A", model.RiskHigh),
		testutil.Record("Moisture Cream B", model.RiskLow),
		testutil.Record("Body Cream C", model.RiskMedium),
		testutil.Record("Hand Cream D", model.RiskHigh),
		testutil.Record("Face Serum E", model.RiskLow),
	)
	invoker := NewMockInvoker()
	ranker := NewRanker(store, invoker)

	alts, err := ranker.FindAlternatives(ctx, "Moisture Cream A", model.RiskHigh)
	require.NoError(t, err)
	assert.Equal(t, []string{"Moisture Cream B", "Body Cream C"}, testutil.Names(alts))

	alts, err = ranker.FindAlternatives(ctx, "Moisture Cream A", model.RiskMedium)
	require.NoError(t, err)
	assert.Equal(t, []string{"Moisture Cream B"}, testutil.Names(alts))

	assert.Zero(t, invoker.CallCount())
}

func TestRanker_CapsResults(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	for i := 0; i < 8; i++ {
		seed(t, store, testutil.Record(fmt.Sprintf("Clean Toner %d", i), model.RiskLow))
	}

	alts, err := NewRanker(store, NewMockInvoker()).FindAlternatives(ctx, "Harsh Toner", model.RiskHigh)
	require.NoError(t, err)
	require.Len(t, alts, MaxAlternatives)
	assert.Equal(t, "Clean Toner 0", alts[0].Name)
	for _, alt := range alts {
		assert.True(t, alt.RiskTier.SaferThan(model.RiskHigh))
	}
}

func TestRanker_FallbackPersistsSaferResults(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	invoker := NewMockInvoker()
	invoker.SetResponse("Glow Serum",
		testutil.Record("Glow Serum", model.RiskHigh),
		testutil.Record("Glow Serum Lite", model.RiskLow),
		testutil.Record("Glow Serum Plus", model.RiskMedium),
	)

	alts, err := NewRanker(store, invoker).FindAlternatives(ctx, "Glow Serum", model.RiskMedium)
	require.NoError(t, err)
	assert.Equal(t, []string{"Glow Serum Lite"}, testutil.Names(alts))
	assert.NotZero(t, alts[0].ID)
	assert.Equal(t, []string{"Glow Serum"}, invoker.Calls())

	stored, err := store.FindByNameContains(ctx, "glow serum")
	require.NoError(t, err)
	assert.Equal(t, []string{"Glow Serum Lite"}, testutil.Names(stored), "only safer results are stored")
}

func TestRanker_NothingSafer(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	seed(t, store, testutil.Record("Body Cream C", model.RiskMedium))
	invoker := NewMockInvoker()
	invoker.SetResponse("Body Cream Z", testutil.Record("Body Cream Z", model.RiskLow))

	alts, err := NewRanker(store, invoker).FindAlternatives(ctx, "Body Cream Z", model.RiskLow)
	require.NoError(t, err)
	assert.NotNil(t, alts)
	assert.Empty(t, alts)
	assert.Equal(t, 1, invoker.CallCount())

	stored, err := store.FindByNameContains(ctx, "cream z")
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestRanker_FallbackPersistFailureStillReturnsResults(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	invoker := NewMockInvoker()
	invoker.SetResponse("Jelly Cleanser", testutil.Record("Jelly Cleanser One", model.RiskLow), testutil.Record("Jelly Cleanser Two", model.RiskLow))

	alts, err := NewRanker(&failingStore{Storage: store, failAfter: 0}, invoker).FindAlternatives(ctx, "Jelly Cleanser", model.RiskHigh)
	require.NoError(t, err)
	assert.Equal(t, []string{"Jelly Cleanser One", "Jelly Cleanser Two"}, testutil.Names(alts))
}

func TestRanker_Errors(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := NewRanker(store, NewMockInvoker()).FindAlternatives(ctx, "", model.RiskHigh)
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = NewRanker(store, NewMockInvoker()).FindAlternatives(ctx, "Aqua Gel", model.RiskTier("extreme"))
	assert.ErrorIs(t, err, common.ErrValidation)

	invoker := NewMockInvoker()
	invoker.SetError("Aqua Gel", common.ResolutionError("classifier timed out", context.DeadlineExceeded))
	_, err = NewRanker(store, invoker).FindAlternatives(ctx, "Aqua Gel", model.RiskHigh)
	assert.ErrorIs(t, err, common.ErrResolution)
}
