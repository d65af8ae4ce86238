// Package mock provides a deterministic embedding service for offline use and tests.
//
// Each text maps to a fixed pseudo-random vector: a PCG generator is seeded
// from the configured seed and the FNV-1a hash of the text, so the same text
// always embeds to the same bits regardless of call order.
package mock

import (
	"context"
	"hash/fnv"
	"math/rand/v2"

	"github.com/custodia-labs/clausefinder/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultDimensions = 1536
	DefaultSeed       = 42
	ModelName         = "mock-embedding"
)

// EmbeddingService produces deterministic vectors with components in [-1, 1).
type EmbeddingService struct {
	dims int
	seed uint64
}

// NewEmbeddingService creates a mock embedder. dims <= 0 selects DefaultDimensions.
func NewEmbeddingService(dims int, seed uint64) *EmbeddingService {
	if dims <= 0 {
		dims = DefaultDimensions
	}
	return &EmbeddingService{dims: dims, seed: seed}
}

// Embed returns the vector for text.
func (s *EmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	return s.vector(text), nil
}

// EmbedBatch returns one vector per text.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = s.vector(t)
	}
	return out, nil
}

func (s *EmbeddingService) vector(text string) []float32 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(text))

	r := rand.New(rand.NewPCG(s.seed, h.Sum64()))
	v := make([]float32, s.dims)
	for i := range v {
		v[i] = r.Float32()*2 - 1
	}
	return v
}

// Dimensions returns the vector length.
func (s *EmbeddingService) Dimensions() int { return s.dims }

// ModelName returns "mock-embedding".
func (s *EmbeddingService) ModelName() string { return ModelName }

// Ping always succeeds.
func (s *EmbeddingService) Ping(_ context.Context) error { return nil }

// Close releases resources.
func (s *EmbeddingService) Close() error { return nil }
