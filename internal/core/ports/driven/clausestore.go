package driven

import (
	"context"

	"github.com/custodia-labs/clausefinder/internal/core/domain"
)

// ClauseStore persists clause batches produced by extraction runs.
type ClauseStore interface {
	// Save writes a batch and returns where it was written.
	Save(ctx context.Context, batch domain.ClauseBatch) (string, error)

	// Latest returns the most recently saved batch.
	// Returns domain.ErrNotFound when nothing has been saved.
	Latest(ctx context.Context) (domain.ClauseBatch, error)

	// All returns every saved batch, oldest first.
	// Returns domain.ErrNotFound when nothing has been saved.
	All(ctx context.Context) ([]domain.ClauseBatch, error)

	// Load reads a batch from an explicit path.
	Load(ctx context.Context, path string) (domain.ClauseBatch, error)
}
