package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/Veraticus/microscan/internal/common"
	"github.com/Veraticus/microscan/internal/model"
	"github.com/Veraticus/microscan/internal/service"
	"golang.org/x/sync/singleflight"
)

// Resolver answers classification lookups from the store and falls back to
// the external classifier on a miss.
type Resolver struct {
	store    service.ClassificationStore
	invoker  Invoker
	inflight singleflight.Group
	coalesce bool
}

// NewResolver creates a resolver. With coalesce set, concurrent misses for
// the same name share one classifier invocation.
func NewResolver(store service.ClassificationStore, invoker Invoker, coalesce bool) *Resolver {
	return &Resolver{
		store:    store,
		invoker:  invoker,
		coalesce: coalesce,
	}
}

// Resolve returns the stored classifications matching name, or classifies
// and persists it when nothing matches. An empty result is not an error.
func (r *Resolver) Resolve(ctx context.Context, name string) ([]model.ClassificationRecord, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, common.ValidationError("product name is required")
	}

	cached, err := r.store.FindByNameContains(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to search classifications: %w", err)
	}
	if len(cached) > 0 {
		slog.Debug("Classification cache hit", "product", name, "matches", len(cached))
		return cached, nil
	}

	if !r.coalesce {
		return r.fetch(ctx, name)
	}

	v, err, shared := r.inflight.Do(normalizeName(name), func() (any, error) {
		return r.fetch(ctx, name)
	})
	if shared {
		slog.Debug("Shared in-flight classification", "product", name)
	}
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]model.ClassificationRecord)), nil
}

// fetch invokes the classifier and persists its output. Work continues if
// the caller goes away so that the result is still stored.
func (r *Resolver) fetch(ctx context.Context, name string) ([]model.ClassificationRecord, error) {
	ctx = context.WithoutCancel(ctx)

	slog.Info("No cached classification, invoking classifier", "product", name)

	records, err := r.invoker.Invoke(ctx, name)
	if err != nil {
		if errors.Is(err, common.ErrResolution) || errors.Is(err, common.ErrValidation) {
			return nil, err
		}
		return nil, common.ResolutionError("classifier invocation failed", err)
	}

	if len(records) == 0 {
		return []model.ClassificationRecord{}, nil
	}

	inserted, err := r.store.InsertMany(ctx, records)
	if err != nil {
		common.LogError(ctx, err, "Failed to persist classifications", common.Fields{
			"product":   name,
			"persisted": len(inserted),
			"total":     len(records),
		})
		return nil, common.ResolutionError(
			fmt.Sprintf("persisted %d of %d classifications", len(inserted), len(records)),
			err,
		)
	}

	return inserted, nil
}

func normalizeName(name string) string {
	return strings.ToLower(name)
}
