package engine

import (
	"context"

	"github.com/Veraticus/microscan/internal/model"
)

// Invoker runs the external classifier for a product name.
// Failures are reported as common.ErrResolution.
type Invoker interface {
	Invoke(ctx context.Context, name string) ([]model.ClassificationRecord, error)
}

// ProductResolver resolves a product name to its classifications.
type ProductResolver interface {
	Resolve(ctx context.Context, name string) ([]model.ClassificationRecord, error)
}
