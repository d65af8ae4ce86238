package driven

import (
	"context"

	"github.com/custodia-labs/clausefinder/internal/core/domain"
)

// VectorIndex is an immutable, built index over clause embeddings.
// Implementations are safe for concurrent reads.
type VectorIndex interface {
	// Search returns min(k, Len()) hits ordered by decreasing score.
	// Equal scores keep insertion order (lower ordinal first).
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Entry returns the stored entry for an ordinal.
	Entry(ordinal int) (domain.IndexEntry, bool)

	// Len returns the number of stored vectors.
	Len() int

	// Dimensions returns the vector length shared by every entry.
	Dimensions() int

	// Backend names the implementation ("flat", "json").
	Backend() string

	// Persist writes the index artifacts to dir.
	// The structured vectors file is always written so the fallback
	// backend can reconstruct search from it alone.
	Persist(dir string) error
}

// IndexBuilder constructs VectorIndex values for one backend.
type IndexBuilder interface {
	// Name names the backend this builder produces.
	Name() string

	// Build creates an index from records in order. Ordinals are record positions.
	// It fails with domain.ErrEmptyIndex or domain.ErrDimensionMismatch and
	// never returns a partially built index.
	Build(records []domain.EmbeddingRecord) (VectorIndex, error)

	// Load reads a previously persisted index from dir.
	Load(dir string) (VectorIndex, error)
}

// VectorHit represents a similarity search result.
type VectorHit struct {
	// Ordinal is the matched entry position.
	Ordinal int

	// Score is the backend-specific similarity (higher is closer).
	Score float64
}
