package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Veraticus/microscan/internal/model"
)

const classificationColumns = `id, name, risk_tier, high_ingredients, medium_ingredients, image_url, observed_at`

// DefaultRecentLimit is how many records RecentClassifications returns when asked for none.
const DefaultRecentLimit = 10

// FindByNameContains returns every record whose name contains substring,
// ignoring case, oldest first.
func (s *SQLiteStorage) FindByNameContains(ctx context.Context, substring string) ([]model.ClassificationRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(substring, "substring"); err != nil {
		return nil, err
	}

	return s.queryClassifications(ctx, s.db, `
		SELECT `+classificationColumns+`
		FROM classifications
		WHERE contains_fold(name, ?)
		ORDER BY id
	`, substring)
}

// FindAlternativeCandidates returns records in a different tier than
// excludeTier whose name contains category, oldest first.
func (s *SQLiteStorage) FindAlternativeCandidates(ctx context.Context, category string, excludeTier model.RiskTier) ([]model.ClassificationRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(category, "category"); err != nil {
		return nil, err
	}

	return s.queryClassifications(ctx, s.db, `
		SELECT `+classificationColumns+`
		FROM classifications
		WHERE risk_tier != ? AND contains_fold(name, ?)
		ORDER BY id
	`, string(excludeTier), category)
}

// RecentClassifications returns up to limit records, newest first.
func (s *SQLiteStorage) RecentClassifications(ctx context.Context, limit int) ([]model.ClassificationRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	return s.queryClassifications(ctx, s.db, `
		SELECT `+classificationColumns+`
		FROM classifications
		ORDER BY id DESC
		LIMIT ?
	`, limit)
}

// InsertMany appends records one row at a time. A failure part way through
// leaves earlier rows committed; those are returned together with the error.
func (s *SQLiteStorage) InsertMany(ctx context.Context, records []model.ClassificationRecord) ([]model.ClassificationRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	for i := range records {
		if err := validateRecord(&records[i]); err != nil {
			return nil, fmt.Errorf("record at index %d: %w", i, err)
		}
	}

	inserted := make([]model.ClassificationRecord, 0, len(records))
	for i := range records {
		rec, err := s.insertClassification(ctx, s.db, records[i])
		if err != nil {
			return inserted, fmt.Errorf("record %d of %d (%q): %w", i+1, len(records), records[i].Name, err)
		}
		inserted = append(inserted, rec)
	}

	return inserted, nil
}

func (s *SQLiteStorage) insertClassification(ctx context.Context, q queryable, rec model.ClassificationRecord) (model.ClassificationRecord, error) {
	rec.ObservedAt = time.Now().UTC()
	rec.HighRiskIngredients = nonNil(rec.HighRiskIngredients)
	rec.MediumRiskIngredients = nonNil(rec.MediumRiskIngredients)

	highJSON, err := json.Marshal(rec.HighRiskIngredients)
	if err != nil {
		return rec, fmt.Errorf("failed to marshal high risk ingredients: %w", err)
	}
	mediumJSON, err := json.Marshal(rec.MediumRiskIngredients)
	if err != nil {
		return rec, fmt.Errorf("failed to marshal medium risk ingredients: %w", err)
	}

	result, err := q.ExecContext(ctx, `
		INSERT INTO classifications (
			name, risk_tier, high_ingredients, medium_ingredients, image_url, observed_at
		) VALUES (?, ?, ?, ?, ?, ?)
	`,
		rec.Name,
		string(rec.RiskTier),
		string(highJSON),
		string(mediumJSON),
		rec.ImageURL,
		rec.ObservedAt,
	)
	if err != nil {
		return rec, wrapWriteError("insert classification", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return rec, fmt.Errorf("failed to get inserted id: %w", err)
	}
	rec.ID = id

	return rec, nil
}

func (s *SQLiteStorage) queryClassifications(ctx context.Context, q queryable, query string, args ...any) ([]model.ClassificationRecord, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query classifications: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := []model.ClassificationRecord{}
	for rows.Next() {
		var (
			rec        model.ClassificationRecord
			tier       string
			highJSON   string
			mediumJSON string
		)
		if err := rows.Scan(
			&rec.ID,
			&rec.Name,
			&tier,
			&highJSON,
			&mediumJSON,
			&rec.ImageURL,
			&rec.ObservedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan classification: %w", err)
		}

		rec.RiskTier = model.RiskTier(tier)
		if rec.HighRiskIngredients, err = decodeIngredients(highJSON); err != nil {
			return nil, fmt.Errorf("classification %d: %w", rec.ID, err)
		}
		if rec.MediumRiskIngredients, err = decodeIngredients(mediumJSON); err != nil {
			return nil, fmt.Errorf("classification %d: %w", rec.ID, err)
		}

		records = append(records, rec)
	}

	return records, rows.Err()
}

func decodeIngredients(raw string) ([]string, error) {
	out := []string{}
	if raw == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("failed to decode ingredients: %w", err)
	}
	return nonNil(out), nil
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
