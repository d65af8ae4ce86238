// Package flat is the specialised index backend: exact L2 search over
// L2-normalised float64 rows, persisted as a binary index.flat file next
// to vectors.json.
//
// Rows are normalised at build and load time, so L2 order equals cosine
// order. Hits are ranked on the cosine 1-d²/2, the same scale the
// jsonstore backend ranks on, and reported as 1/(1+d²). Zero vectors are
// treated as orthogonal to everything (d² = 2).
package flat

import (
	"context"

	"github.com/custodia-labs/clausefinder/internal/adapters/driven/vector"
	"github.com/custodia-labs/clausefinder/internal/core/domain"
	"github.com/custodia-labs/clausefinder/internal/core/ports/driven"
	"github.com/custodia-labs/clausefinder/internal/logger"
)

// BackendName identifies this backend.
const BackendName = "flat"

// orthogonal is the squared distance between unit vectors at 90 degrees.
const orthogonal = 2.0

// Verify interface compliance.
var (
	_ driven.VectorIndex  = (*Index)(nil)
	_ driven.IndexBuilder = Builder{}
)

// Builder creates flat indexes.
type Builder struct{}

// Name returns "flat".
func (Builder) Name() string { return BackendName }

// Build creates an index from records.
func (Builder) Build(records []domain.EmbeddingRecord) (driven.VectorIndex, error) {
	return New(records)
}

// Load reads index.flat from dir, falling back to the rows in vectors.json
// when the binary artifact is missing, unreadable or from another
// generation. It holds the directory's shared lock while reading.
func (Builder) Load(dir string) (driven.VectorIndex, error) {
	var entries []domain.IndexEntry
	err := vector.WithReadLock(dir, func() error {
		var gen vector.Generation
		var err error
		entries, gen, err = vector.ReadEntries(dir)
		if err != nil {
			return err
		}

		ff, err := readFlat(dir)
		switch {
		case err != nil:
			logger.Warn("Flat index unavailable, using %s: %v", vector.VectorsFile, err)
		case ff.generation != gen:
			logger.Warn("Flat index is from another generation than %s, using the latter", vector.VectorsFile)
		case len(ff.rows) != len(entries)*ff.dims || ff.dims != len(entries[0].Vector):
			logger.Warn("Flat index disagrees with %s, using the latter", vector.VectorsFile)
		default:
			for i := range entries {
				entries[i].Vector = ff.rows[i*ff.dims : (i+1)*ff.dims : (i+1)*ff.dims]
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return New(vector.Records(entries))
}

// Index is an immutable exact L2 index. The zero value is an empty index.
type Index struct {
	dims    int
	rows    []float64 // len = count*dims, unit length or zero
	zero    []bool
	entries []domain.IndexEntry
}

// New builds an index, copying every vector.
func New(records []domain.EmbeddingRecord) (*Index, error) {
	dims, err := vector.ValidateRecords(records)
	if err != nil {
		return nil, err
	}

	entries := vector.Entries(records)
	rows := make([]float64, len(entries)*dims)
	zero := make([]bool, len(entries))
	for i, e := range entries {
		zero[i] = !normaliseInto(rows[i*dims:(i+1)*dims], e.Vector)
	}

	return &Index{dims: dims, rows: rows, zero: zero, entries: entries}, nil
}

// Search returns the k nearest rows by squared L2 distance.
func (x *Index) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if x == nil || x.Len() == 0 {
		if k <= 0 {
			return nil, domain.InvalidArgument("k must be positive, got %d", k)
		}
		return []driven.VectorHit{}, nil
	}

	if err := vector.CheckQuery(ctx, query, k, x.dims); err != nil {
		return nil, err
	}

	q := make([]float64, x.dims)
	qzero := !normaliseInto(q, query)

	hits := make([]driven.VectorHit, len(x.entries))
	for i := range x.entries {
		d2 := orthogonal
		if !qzero && !x.zero[i] {
			d2 = squaredL2(q, x.rows[i*x.dims:(i+1)*x.dims])
		}
		hits[i] = driven.VectorHit{Ordinal: i, Score: 1 - d2/2}
	}

	// Ties are judged on the cosine; the reported score is a monotone
	// transform of it, so the order survives.
	vector.SortHits(hits)
	if k < len(hits) {
		hits = hits[:k]
	}
	for i := range hits {
		hits[i].Score = similarity(2 - 2*hits[i].Score)
	}
	return hits, nil
}

// Entry returns the stored entry for an ordinal.
func (x *Index) Entry(ordinal int) (domain.IndexEntry, bool) {
	if x == nil {
		return domain.IndexEntry{}, false
	}
	if ordinal < 0 || ordinal >= len(x.entries) {
		return domain.IndexEntry{}, false
	}
	return x.entries[ordinal], true
}

// Len returns the number of rows.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.entries)
}

// Dimensions returns the row length.
func (x *Index) Dimensions() int {
	if x == nil {
		return 0
	}
	return x.dims
}

// Backend returns "flat".
func (x *Index) Backend() string { return BackendName }

// Persist writes vectors.json and then index.flat, stamped with the
// generation of the former, into dir.
func (x *Index) Persist(dir string) error {
	if x.Len() == 0 {
		return domain.ErrEmptyIndex
	}

	return vector.WithLock(dir, func() error {
		gen, err := vector.WriteEntries(dir, x.entries)
		if err != nil {
			return err
		}
		return writeFlat(dir, x.dims, gen, x.entries)
	})
}

// similarity maps a squared L2 distance onto (0, 1].
func similarity(d2 float64) float64 {
	return 1 / (1 + d2)
}

// normaliseInto writes v/|v| into dst and reports whether v was non-zero.
func normaliseInto(dst []float64, v []float32) bool {
	norm := vector.Norm(v)
	if norm == 0 {
		for i := range dst {
			dst[i] = 0
		}
		return false
	}
	for i, f := range v {
		dst[i] = float64(f) / norm
	}
	return true
}

func squaredL2(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
