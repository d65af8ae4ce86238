// Package vector holds what the index backends share: record validation,
// ranking order, the structured vectors file and locked atomic writes.
//
// Backends live in subpackages:
//   - flat: exact L2 search over normalised rows, binary index.flat artifact
//   - jsonstore: brute-force cosine over plain slices, vectors.json artifact
package vector

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gofrs/flock"

	"github.com/custodia-labs/clausefinder/internal/core/domain"
	"github.com/custodia-labs/clausefinder/internal/core/ports/driven"
)

// Artifact file names inside an index directory.
const (
	VectorsFile = "vectors.json"
	FlatFile    = "index.flat"
	LockFile    = ".lock"
)

// TieEpsilon is the score difference below which hits count as tied.
// Tied hits are ordered by ascending ordinal.
const TieEpsilon = 1e-9

// lockTimeout bounds how long a writer waits for another process.
const lockTimeout = 10 * time.Second

// ValidateRecords checks that records are non-empty and share one vector length.
func ValidateRecords(records []domain.EmbeddingRecord) (int, error) {
	if len(records) == 0 {
		return 0, domain.ErrEmptyIndex
	}
	dims := len(records[0].Vector)
	if dims == 0 {
		return 0, domain.NewDimensionError(1, 0)
	}
	for _, r := range records[1:] {
		if len(r.Vector) != dims {
			return 0, domain.NewDimensionError(dims, len(r.Vector))
		}
	}
	return dims, nil
}

// Entries copies records into persisted entries. Ordinals are positions.
func Entries(records []domain.EmbeddingRecord) []domain.IndexEntry {
	entries := make([]domain.IndexEntry, len(records))
	for i, r := range records {
		entries[i] = domain.IndexEntry{
			Ordinal: i,
			Vector:  append([]float32(nil), r.Vector...),
			Clause:  r.Clause.Clone(),
		}
	}
	return entries
}

// CheckQuery validates search arguments against an index of dims.
func CheckQuery(ctx context.Context, query []float32, k, dims int) error {
	if k <= 0 {
		return domain.InvalidArgument("k must be positive, got %d", k)
	}
	if len(query) != dims {
		return domain.NewDimensionError(dims, len(query))
	}
	return ctx.Err()
}

// Better reports whether a ranks before b.
func Better(a, b driven.VectorHit) bool {
	if math.Abs(a.Score-b.Score) <= TieEpsilon {
		return a.Ordinal < b.Ordinal
	}
	return a.Score > b.Score
}

// SortHits orders hits best first.
func SortHits(hits []driven.VectorHit) {
	sort.SliceStable(hits, func(i, j int) bool { return Better(hits[i], hits[j]) })
	LevelTies(hits)
}

// LevelTies makes the scores of ranked hits non-increasing. A tied hit
// ordered after a marginally higher one takes its predecessor's score.
func LevelTies(hits []driven.VectorHit) {
	for i := 1; i < len(hits); i++ {
		if hits[i].Score > hits[i-1].Score {
			hits[i].Score = hits[i-1].Score
		}
	}
}

// Norm returns the Euclidean length of v in float64.
// Vectors with non-finite components have norm 0 and rank as zero vectors.
func Norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if math.IsNaN(sum) || math.IsInf(sum, 0) {
		return 0
	}
	return math.Sqrt(sum)
}

// Generation identifies the exact bytes of one vectors.json. Derived
// artifacts record the generation they were written with.
type Generation [sha256.Size]byte

// WriteEntries writes the structured vectors file into dir and returns
// its generation.
func WriteEntries(dir string, entries []domain.IndexEntry) (Generation, error) {
	data, err := json.Marshal(entries)
	if err != nil {
		return Generation{}, fmt.Errorf("encode %s: %w", VectorsFile, err)
	}
	if err := WriteFileAtomic(filepath.Join(dir, VectorsFile), data); err != nil {
		return Generation{}, err
	}
	return sha256.Sum256(data), nil
}

// ReadEntries reads and validates the structured vectors file in dir.
func ReadEntries(dir string) ([]domain.IndexEntry, Generation, error) {
	data, err := os.ReadFile(filepath.Join(dir, VectorsFile))
	if err != nil {
		return nil, Generation{}, err
	}

	var entries []domain.IndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, Generation{}, fmt.Errorf("decode %s: %w", VectorsFile, err)
	}
	if len(entries) == 0 {
		return nil, Generation{}, domain.ErrEmptyIndex
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Ordinal < entries[j].Ordinal })
	dims := len(entries[0].Vector)
	for i, e := range entries {
		if e.Ordinal != i {
			return nil, Generation{}, fmt.Errorf("decode %s: ordinal %d at position %d", VectorsFile, e.Ordinal, i)
		}
		if len(e.Vector) != dims || dims == 0 {
			return nil, Generation{}, domain.NewDimensionError(dims, len(e.Vector))
		}
	}
	return entries, sha256.Sum256(data), nil
}

// Records converts entries back into build input.
func Records(entries []domain.IndexEntry) []domain.EmbeddingRecord {
	records := make([]domain.EmbeddingRecord, len(entries))
	for i, e := range entries {
		records[i] = domain.EmbeddingRecord{Vector: e.Vector, Clause: e.Clause}
	}
	return records
}

// WithLock creates dir and runs fn while holding the directory's writer lock.
func WithLock(dir string, fn func() error) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create index dir %s: %w", dir, err)
	}

	l := flock.New(filepath.Join(dir, LockFile))
	if err := acquire(l, l.TryLock); err != nil {
		return err
	}
	defer func() { _ = l.Unlock() }()

	return fn()
}

// WithReadLock runs fn while holding a shared lock on dir, so readers never
// see a writer's half-finished artifact set. A missing dir is not locked.
func WithReadLock(dir string, fn func() error) error {
	if _, err := os.Stat(dir); err != nil {
		return fn()
	}

	l := flock.New(filepath.Join(dir, LockFile))
	if err := acquire(l, l.TryRLock); err != nil {
		return err
	}
	defer func() { _ = l.Unlock() }()

	return fn()
}

func acquire(l *flock.Flock, try func() (bool, error)) error {
	deadline := time.Now().Add(lockTimeout)
	for {
		locked, err := try()
		if err != nil {
			return fmt.Errorf("cannot acquire index lock: %w", err)
		}
		if locked {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("another process is writing the index (lock: %s)", l.Path())
		}
		time.Sleep(100 * time.Millisecond)
	}
}

// WriteFileAtomic writes data to a temp file beside path and renames it into place.
func WriteFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
