package scraper

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Veraticus/microscan/internal/model"
)

// Keys accepted for each field of a classifier document, in lookup order.
var (
	tierKeys   = []string{"risk", "riskTier", "risk_tier"}
	highKeys   = []string{"high", "highRiskIngredients", "high_risk_ingredients"}
	mediumKeys = []string{"med", "medium", "mediumRiskIngredients", "medium_risk_ingredients"}
	imageKeys  = []string{"image", "imageUrl", "image_url"}
)

// ParseRecords converts the classifier's JSON document list into records.
// Documents without a name take query as their name. A document without a
// resolvable risk tier rejects the whole list.
func ParseRecords(data []byte, query string) ([]model.ClassificationRecord, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty output")
	}

	var docs []map[string]any
	if err := json.Unmarshal(trimmed, &docs); err != nil {
		return nil, fmt.Errorf("output is not a JSON array of objects: %w", err)
	}

	records := make([]model.ClassificationRecord, 0, len(docs))
	for i, doc := range docs {
		rec, err := parseDocument(doc, query)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		records = append(records, rec)
	}

	return records, nil
}

func parseDocument(doc map[string]any, query string) (model.ClassificationRecord, error) {
	if doc == nil {
		return model.ClassificationRecord{}, fmt.Errorf("null document")
	}

	var rec model.ClassificationRecord

	name, err := stringField(doc, "name")
	if err != nil {
		return rec, err
	}
	rec.Name = strings.TrimSpace(name)
	if rec.Name == "" {
		rec.Name = strings.TrimSpace(query)
	}

	rawTier, err := stringField(doc, tierKeys...)
	if err != nil {
		return rec, err
	}
	if rec.RiskTier, err = model.ParseRiskTier(rawTier); err != nil {
		return rec, fmt.Errorf("%q: %w", rec.Name, err)
	}

	if rec.HighRiskIngredients, err = stringListField(doc, highKeys...); err != nil {
		return rec, err
	}
	if rec.MediumRiskIngredients, err = stringListField(doc, mediumKeys...); err != nil {
		return rec, err
	}
	if rec.ImageURL, err = stringField(doc, imageKeys...); err != nil {
		return rec, err
	}

	return rec, nil
}

// lookup returns the first present, non-null value among keys.
func lookup(doc map[string]any, keys ...string) (string, any, bool) {
	for _, k := range keys {
		if v, ok := doc[k]; ok && v != nil {
			return k, v, true
		}
	}
	return "", nil, false
}

func stringField(doc map[string]any, keys ...string) (string, error) {
	key, v, ok := lookup(doc, keys...)
	if !ok {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("field %q: expected string, got %T", key, v)
	}
	return s, nil
}

func stringListField(doc map[string]any, keys ...string) ([]string, error) {
	key, v, ok := lookup(doc, keys...)
	if !ok {
		return []string{}, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("field %q: expected array, got %T", key, v)
	}
	out := make([]string, 0, len(items))
	for j, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("field %q[%d]: expected string, got %T", key, j, item)
		}
		out = append(out, s)
	}
	return out, nil
}
