package model

import "time"

// SavedProductEntry is a user's snapshot of a classification taken at save
// time. It is never updated when the underlying classification changes.
type SavedProductEntry struct {
	SavedAt               time.Time `json:"addedAt"`
	ID                    string    `json:"id"`
	UserID                string    `json:"-"`
	Name                  string    `json:"name"`
	RiskTier              RiskTier  `json:"risk"`
	HighRiskIngredients   []string  `json:"high"`
	MediumRiskIngredients []string  `json:"med"`
}

// NewSavedProductEntry copies rec into a snapshot owned by userID.
// Ingredient slices are cloned so later edits to rec cannot leak in.
func NewSavedProductEntry(id, userID string, rec ClassificationRecord, savedAt time.Time) SavedProductEntry {
	return SavedProductEntry{
		ID:                    id,
		UserID:                userID,
		Name:                  rec.Name,
		RiskTier:              rec.RiskTier,
		HighRiskIngredients:   cloneStrings(rec.HighRiskIngredients),
		MediumRiskIngredients: cloneStrings(rec.MediumRiskIngredients),
		SavedAt:               savedAt,
	}
}

func cloneStrings(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
