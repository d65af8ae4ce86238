// Package jsonstore is the plain-storage index backend: vectors and metadata
// held in parallel slices, ranked by brute-force cosine similarity and
// persisted as vectors.json.
package jsonstore

import (
	"container/heap"
	"context"

	"github.com/custodia-labs/clausefinder/internal/adapters/driven/vector"
	"github.com/custodia-labs/clausefinder/internal/core/domain"
	"github.com/custodia-labs/clausefinder/internal/core/ports/driven"
)

// BackendName identifies this backend.
const BackendName = "json"

// Verify interface compliance.
var (
	_ driven.VectorIndex  = (*Index)(nil)
	_ driven.IndexBuilder = Builder{}
)

// Builder creates jsonstore indexes.
type Builder struct{}

// Name returns "json".
func (Builder) Name() string { return BackendName }

// Build creates an index from records.
func (Builder) Build(records []domain.EmbeddingRecord) (driven.VectorIndex, error) {
	return New(records)
}

// Load reads vectors.json from dir under the directory's shared lock.
func (Builder) Load(dir string) (driven.VectorIndex, error) {
	var entries []domain.IndexEntry
	err := vector.WithReadLock(dir, func() error {
		var err error
		entries, _, err = vector.ReadEntries(dir)
		return err
	})
	if err != nil {
		return nil, err
	}
	return New(vector.Records(entries))
}

// Index is an immutable cosine index. The zero value is an empty index.
type Index struct {
	dims    int
	entries []domain.IndexEntry
	norms   []float64
}

// New builds an index, copying every vector.
func New(records []domain.EmbeddingRecord) (*Index, error) {
	dims, err := vector.ValidateRecords(records)
	if err != nil {
		return nil, err
	}

	entries := vector.Entries(records)
	norms := make([]float64, len(entries))
	for i, e := range entries {
		norms[i] = vector.Norm(e.Vector)
	}

	return &Index{dims: dims, entries: entries, norms: norms}, nil
}

// Search ranks entries by cosine similarity to query.
func (x *Index) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if x == nil || len(x.entries) == 0 {
		if k <= 0 {
			return nil, domain.InvalidArgument("k must be positive, got %d", k)
		}
		return []driven.VectorHit{}, nil
	}
	if err := vector.CheckQuery(ctx, query, k, x.dims); err != nil {
		return nil, err
	}

	qnorm := vector.Norm(query)
	if k > len(x.entries) {
		k = len(x.entries)
	}

	h := make(worstFirst, 0, k)
	for i, e := range x.entries {
		hit := driven.VectorHit{Ordinal: i, Score: cosine(query, e.Vector, qnorm, x.norms[i])}
		switch {
		case len(h) < k:
			heap.Push(&h, hit)
		case vector.Better(hit, h[0]):
			h[0] = hit
			heap.Fix(&h, 0)
		}
	}

	hits := make([]driven.VectorHit, len(h))
	for i := len(hits) - 1; i >= 0; i-- {
		hits[i] = heap.Pop(&h).(driven.VectorHit)
	}
	vector.LevelTies(hits)
	return hits, nil
}

// Entry returns the stored entry for an ordinal.
func (x *Index) Entry(ordinal int) (domain.IndexEntry, bool) {
	if x == nil || ordinal < 0 || ordinal >= len(x.entries) {
		return domain.IndexEntry{}, false
	}
	return x.entries[ordinal], true
}

// Len returns the number of entries.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.entries)
}

// Dimensions returns the vector length.
func (x *Index) Dimensions() int {
	if x == nil {
		return 0
	}
	return x.dims
}

// Backend returns "json".
func (x *Index) Backend() string { return BackendName }

// Persist writes vectors.json into dir.
func (x *Index) Persist(dir string) error {
	if x.Len() == 0 {
		return domain.ErrEmptyIndex
	}
	return vector.WithLock(dir, func() error {
		_, err := vector.WriteEntries(dir, x.entries)
		return err
	})
}

// cosine returns the cosine similarity in float64. A zero vector is
// orthogonal to everything.
func cosine(a, b []float32, anorm, bnorm float64) float64 {
	if anorm == 0 || bnorm == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (anorm * bnorm)
}

// worstFirst is a min-heap on rank: the root is the weakest kept hit.
type worstFirst []driven.VectorHit

func (h worstFirst) Len() int           { return len(h) }
func (h worstFirst) Less(i, j int) bool { return vector.Better(h[j], h[i]) }
func (h worstFirst) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *worstFirst) Push(x any) { *h = append(*h, x.(driven.VectorHit)) }

func (h *worstFirst) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
