// Package engine resolves products to microplastic risk classifications,
// ranks safer alternatives and keeps per-user saved product lists.
package engine

import (
	"context"

	"github.com/Veraticus/microscan/internal/model"
	"github.com/Veraticus/microscan/internal/service"
)

// Engine wires the resolver, ranker, ledger and user directory over one store.
type Engine struct {
	store     service.Storage
	resolver  *Resolver
	ranker    *Ranker
	ledger    *Ledger
	directory *Directory
	config    Config
}

// Config holds configuration options for the engine.
type Config struct {
	// Coalesce shares one classifier run between concurrent misses for the same name.
	Coalesce bool
	// RecentLimit is the default size of RecentClassifications.
	RecentLimit int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Coalesce:    true,
		RecentLimit: 10,
	}
}

// New creates an engine with the default configuration.
func New(store service.Storage, invoker Invoker) *Engine {
	return NewWithConfig(store, invoker, DefaultConfig())
}

// NewWithConfig creates an engine with custom configuration.
func NewWithConfig(store service.Storage, invoker Invoker, config Config) *Engine {
	if config.RecentLimit <= 0 {
		config.RecentLimit = DefaultConfig().RecentLimit
	}

	resolver := NewResolver(store, invoker, config.Coalesce)
	return &Engine{
		store:     store,
		resolver:  resolver,
		ranker:    NewRanker(store, invoker),
		ledger:    NewLedger(store, resolver),
		directory: NewDirectory(store),
		config:    config,
	}
}

// ResolveProduct returns the classifications matching name.
func (e *Engine) ResolveProduct(ctx context.Context, name string) ([]model.ClassificationRecord, error) {
	return e.resolver.Resolve(ctx, name)
}

// FindAlternatives returns safer products in the same category as name.
func (e *Engine) FindAlternatives(ctx context.Context, name string, current model.RiskTier) ([]model.ClassificationRecord, error) {
	return e.ranker.FindAlternatives(ctx, name, current)
}

// AddUserProduct saves a snapshot of name's classification for userID.
func (e *Engine) AddUserProduct(ctx context.Context, userID, name string) (model.SavedProductEntry, error) {
	return e.ledger.AddProduct(ctx, userID, name)
}

// RemoveUserProduct deletes a saved entry; a missing entry is not an error.
func (e *Engine) RemoveUserProduct(ctx context.Context, userID, entryID string) error {
	return e.ledger.RemoveProduct(ctx, userID, entryID)
}

// ListUserProducts returns userID's saved entries.
func (e *Engine) ListUserProducts(ctx context.Context, userID string) ([]model.SavedProductEntry, error) {
	return e.ledger.ListProducts(ctx, userID)
}

// RecentClassifications returns the newest stored records. A non-positive
// limit uses the configured default.
func (e *Engine) RecentClassifications(ctx context.Context, limit int) ([]model.ClassificationRecord, error) {
	if limit <= 0 {
		limit = e.config.RecentLimit
	}
	return e.store.RecentClassifications(ctx, limit)
}

// CreateUser registers a user.
func (e *Engine) CreateUser(ctx context.Context, username, email string) (*model.User, error) {
	return e.directory.CreateUser(ctx, username, email)
}

// GetUser looks up a user by ID.
func (e *Engine) GetUser(ctx context.Context, id string) (*model.User, error) {
	return e.directory.GetUser(ctx, id)
}
