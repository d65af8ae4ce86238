package driving

import (
	"context"

	"github.com/custodia-labs/clausefinder/internal/core/domain"
)

// RetrievalService answers natural-language queries with ranked clauses.
type RetrievalService interface {
	// Query returns at most k clauses ordered by decreasing similarity.
	// Returns domain.ErrInvalidArgument for empty text or k < 1.
	Query(ctx context.Context, text string, k int) ([]domain.SearchResult, error)
}

// IndexService builds and serves the vector index.
type IndexService interface {
	// Rebuild embeds clauses, builds a fresh index and swaps it in.
	// On failure the previously served index stays live.
	Rebuild(ctx context.Context, clauses []domain.Clause) (domain.IndexStats, error)

	// LoadPersisted loads index artifacts from the configured directory.
	LoadPersisted(ctx context.Context) (domain.IndexStats, error)

	// Stats describes the currently served index.
	// Returns domain.ErrIndexNotBuilt when nothing is served.
	Stats() (domain.IndexStats, error)
}
