package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Veraticus/microscan/internal/model"
)

// AddSavedProduct stores a snapshot under its user.
func (s *SQLiteStorage) AddSavedProduct(ctx context.Context, entry *model.SavedProductEntry) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateEntry(entry); err != nil {
		return err
	}

	entry.HighRiskIngredients = nonNil(entry.HighRiskIngredients)
	entry.MediumRiskIngredients = nonNil(entry.MediumRiskIngredients)

	highJSON, err := json.Marshal(entry.HighRiskIngredients)
	if err != nil {
		return fmt.Errorf("failed to marshal high risk ingredients: %w", err)
	}
	mediumJSON, err := json.Marshal(entry.MediumRiskIngredients)
	if err != nil {
		return fmt.Errorf("failed to marshal medium risk ingredients: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO saved_products (
			id, user_id, name, risk_tier, high_ingredients, medium_ingredients, saved_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		entry.ID,
		entry.UserID,
		entry.Name,
		string(entry.RiskTier),
		string(highJSON),
		string(mediumJSON),
		entry.SavedAt,
	)
	if err != nil {
		return wrapWriteError("save product", err)
	}

	return nil
}

// RemoveSavedProduct deletes one of the user's entries and reports whether it existed.
func (s *SQLiteStorage) RemoveSavedProduct(ctx context.Context, userID, entryID string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return false, err
	}

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM saved_products WHERE user_id = ? AND id = ?
	`, userID, entryID)
	if err != nil {
		return false, wrapWriteError("remove saved product", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected > 0, nil
}

// ListSavedProducts returns the user's entries in save order.
func (s *SQLiteStorage) ListSavedProducts(ctx context.Context, userID string) ([]model.SavedProductEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, name, risk_tier, high_ingredients, medium_ingredients, saved_at
		FROM saved_products
		WHERE user_id = ?
		ORDER BY seq
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query saved products: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := []model.SavedProductEntry{}
	for rows.Next() {
		var (
			entry      model.SavedProductEntry
			tier       string
			highJSON   string
			mediumJSON string
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Name,
			&tier,
			&highJSON,
			&mediumJSON,
			&entry.SavedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan saved product: %w", err)
		}

		entry.RiskTier = model.RiskTier(tier)
		if entry.HighRiskIngredients, err = decodeIngredients(highJSON); err != nil {
			return nil, fmt.Errorf("saved product %s: %w", entry.ID, err)
		}
		if entry.MediumRiskIngredients, err = decodeIngredients(mediumJSON); err != nil {
			return nil, fmt.Errorf("saved product %s: %w", entry.ID, err)
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
