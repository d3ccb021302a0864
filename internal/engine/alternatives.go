package engine

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/Veraticus/microscan/internal/common"
	"github.com/Veraticus/microscan/internal/model"
	"github.com/Veraticus/microscan/internal/service"
)

// MaxAlternatives caps how many alternatives are returned.
const MaxAlternatives = 5

// categoryKeywords are product-type words, checked in this order.
var categoryKeywords = []string{
	"mask", "serum", "cleanser", "oil", "toner",
	"moisturizer", "facemask", "gel", "exfoliator", "cream",
}

// ExtractCategory picks the keyword used to scope an alternative search:
// the first word containing a product-type keyword, else the first word
// longer than five characters, else the last word.
func ExtractCategory(name string) string {
	words := strings.Fields(strings.ToLower(name))
	if len(words) == 0 {
		return ""
	}

	for _, word := range words {
		for _, kw := range categoryKeywords {
			if strings.Contains(word, kw) {
				return word
			}
		}
	}

	for _, word := range words {
		if utf8.RuneCountInString(word) > 5 {
			return word
		}
	}

	return words[len(words)-1]
}

// Ranker finds lower-risk alternatives for a product.
type Ranker struct {
	store   service.ClassificationStore
	invoker Invoker
}

// NewRanker creates an alternative ranker.
func NewRanker(store service.ClassificationStore, invoker Invoker) *Ranker {
	return &Ranker{store: store, invoker: invoker}
}

// FindAlternatives returns up to MaxAlternatives records strictly safer than
// current, in store order. Stored candidates sharing the name's category are
// preferred; only when none qualify is the classifier run on the full name.
func (r *Ranker) FindAlternatives(ctx context.Context, name string, current model.RiskTier) ([]model.ClassificationRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.ValidationError("product name is required")
	}
	if !current.Valid() {
		return nil, common.ValidationError("unknown risk tier %q", current)
	}

	query := model.AlternativeQuery{
		ProductName:     name,
		CurrentRiskTier: current,
		Category:        ExtractCategory(name),
	}
	slog.Info("Searching alternatives", "product", name, "category", query.Category, "current_risk", current)

	candidates, err := r.store.FindAlternativeCandidates(ctx, query.Category, current)
	if err != nil {
		return nil, err
	}
	if safer := filterSafer(candidates, current); len(safer) > 0 {
		return limit(safer), nil
	}

	slog.Info("No stored alternatives, invoking classifier", "product", name)

	scraped, err := r.invoker.Invoke(context.WithoutCancel(ctx), name)
	if err != nil {
		if errors.Is(err, common.ErrResolution) || errors.Is(err, common.ErrValidation) {
			return nil, err
		}
		return nil, common.ResolutionError("classifier invocation failed", err)
	}

	safer := filterSafer(scraped, current)
	if len(safer) == 0 {
		return []model.ClassificationRecord{}, nil
	}

	inserted, err := r.store.InsertMany(context.WithoutCancel(ctx), safer)
	if err != nil {
		common.LogError(ctx, common.PersistenceError("alternatives", err), "Failed to persist alternatives", common.Fields{
			"product":   name,
			"persisted": len(inserted),
			"total":     len(safer),
		})
		return limit(safer), nil
	}

	return limit(inserted), nil
}

func filterSafer(records []model.ClassificationRecord, current model.RiskTier) []model.ClassificationRecord {
	out := make([]model.ClassificationRecord, 0, len(records))
	for _, rec := range records {
		if rec.RiskTier.SaferThan(current) {
			out = append(out, rec)
		}
	}
	return out
}

func limit(records []model.ClassificationRecord) []model.ClassificationRecord {
	if len(records) > MaxAlternatives {
		return records[:MaxAlternatives]
	}
	return records
}
