package vector

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clausefinder/internal/core/domain"
	"github.com/custodia-labs/clausefinder/internal/core/ports/driven"
)

func records(vectors ...[]float32) []domain.EmbeddingRecord {
	out := make([]domain.EmbeddingRecord, len(vectors))
	for i, v := range vectors {
		out[i] = domain.EmbeddingRecord{
			Vector: v,
			Clause: domain.Clause{ID: i + 1, Title: "T", Summary: "S", Keywords: []string{}},
		}
	}
	return out
}

func TestValidateRecords(t *testing.T) {
	_, err := ValidateRecords(nil)
	assert.ErrorIs(t, err, domain.ErrEmptyIndex)

	_, err = ValidateRecords(records([]float32{1, 2}, []float32{1}))
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)

	_, err = ValidateRecords(records([]float32{}))
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)

	dims, err := ValidateRecords(records([]float32{1, 2, 3}, []float32{4, 5, 6}))
	require.NoError(t, err)
	assert.Equal(t, 3, dims)
}

func TestEntries_CopiesInput(t *testing.T) {
	in := records([]float32{1, 2})
	entries := Entries(in)

	in[0].Vector[0] = 99
	in[0].Clause.Keywords = append(in[0].Clause.Keywords, "late")

	assert.Equal(t, []float32{1, 2}, entries[0].Vector)
	assert.Empty(t, entries[0].Clause.Keywords)
	assert.Equal(t, 0, entries[0].Ordinal)
}

func TestCheckQuery(t *testing.T) {
	ctx := context.Background()

	assert.ErrorIs(t, CheckQuery(ctx, []float32{1}, 0, 1), domain.ErrInvalidArgument)
	assert.ErrorIs(t, CheckQuery(ctx, []float32{1}, -3, 1), domain.ErrInvalidArgument)
	assert.ErrorIs(t, CheckQuery(ctx, []float32{1, 2}, 1, 3), domain.ErrDimensionMismatch)
	assert.NoError(t, CheckQuery(ctx, []float32{1, 2, 3}, 1, 3))

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	assert.ErrorIs(t, CheckQuery(cancelled, []float32{1}, 1, 1), context.Canceled)
}

func TestSortHits_TiesByOrdinal(t *testing.T) {
	hits := []driven.VectorHit{
		{Ordinal: 3, Score: 0.5},
		{Ordinal: 1, Score: 0.9},
		{Ordinal: 0, Score: 0.5 + 1e-12},
		{Ordinal: 2, Score: 0.5},
	}

	SortHits(hits)

	ordinals := []int{hits[0].Ordinal, hits[1].Ordinal, hits[2].Ordinal, hits[3].Ordinal}
	assert.Equal(t, []int{1, 0, 2, 3}, ordinals)
}

func TestSortHits_LevelsTiedScores(t *testing.T) {
	hits := []driven.VectorHit{
		{Ordinal: 1, Score: 0.5 + 5e-10},
		{Ordinal: 0, Score: 0.5},
		{Ordinal: 2, Score: 0.25},
	}

	SortHits(hits)

	assert.Equal(t, 0, hits[0].Ordinal)
	assert.Equal(t, 1, hits[1].Ordinal)
	assert.Equal(t, hits[0].Score, hits[1].Score)
	assert.Equal(t, 0.25, hits[2].Score)
}

func TestNorm(t *testing.T) {
	assert.InDelta(t, 5.0, Norm([]float32{3, 4}), 1e-12)
	assert.Zero(t, Norm([]float32{0, 0}))
	assert.Zero(t, Norm([]float32{float32(math.Inf(1)), 1}))
}

func TestEntriesRoundTrip(t *testing.T) {
	dir := t.TempDir()
	entries := Entries(records([]float32{1, 0}, []float32{0, 1}))

	written, err := WriteEntries(dir, entries)
	require.NoError(t, err)
	got, read, err := ReadEntries(dir)

	require.NoError(t, err)
	assert.Equal(t, entries, got)
	assert.Equal(t, written, read)

	_, err = WriteEntries(dir, entries[:1])
	require.NoError(t, err)
	_, again, err := ReadEntries(dir)
	require.NoError(t, err)
	assert.NotEqual(t, written, again)
}

func TestReadEntries_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"not json", "{{"},
		{"empty list", "[]"},
		{"mixed dims", `[{"ordinal":0,"vector":[1,2],"metadata":{}},{"ordinal":1,"vector":[1],"metadata":{}}]`},
		{"ordinal gap", `[{"ordinal":0,"vector":[1],"metadata":{}},{"ordinal":2,"vector":[1],"metadata":{}}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, VectorsFile), []byte(tt.content), 0o600))

			_, _, err := ReadEntries(dir)
			assert.Error(t, err)
		})
	}

	_, _, err := ReadEntries(t.TempDir())
	assert.True(t, os.IsNotExist(err))
}

func TestReadEntries_SortsByOrdinal(t *testing.T) {
	dir := t.TempDir()
	content := `[{"ordinal":1,"vector":[2],"metadata":{"id":2}},{"ordinal":0,"vector":[1],"metadata":{"id":1}}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, VectorsFile), []byte(content), 0o600))

	got, _, err := ReadEntries(dir)

	require.NoError(t, err)
	assert.Equal(t, 1, got[0].Clause.ID)
	assert.Equal(t, 2, got[1].Clause.ID)
}

func TestWithLock_SerialisesWriters(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "index")

	var mu sync.Mutex
	active, maxActive := 0, 0
	var wg sync.WaitGroup
	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := WithLock(dir, func() error {
				mu.Lock()
				active++
				if active > maxActive {
					maxActive = active
				}
				mu.Unlock()

				time.Sleep(5 * time.Millisecond)

				mu.Lock()
				active--
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxActive)
	_, err := os.Stat(filepath.Join(dir, LockFile))
	assert.NoError(t, err)
}

func TestWithReadLock_WaitsForWriter(t *testing.T) {
	dir := t.TempDir()

	var releasedAt time.Time
	readAt := make(chan time.Time, 1)
	err := WithLock(dir, func() error {
		go func() {
			assert.NoError(t, WithReadLock(dir, func() error { return nil }))
			readAt <- time.Now()
		}()
		time.Sleep(150 * time.Millisecond)
		releasedAt = time.Now()
		return nil
	})
	require.NoError(t, err)

	assert.True(t, (<-readAt).After(releasedAt))
}

func TestWithReadLock_MissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "absent")
	called := false

	err := WithReadLock(dir, func() error {
		called = true
		return nil
	})

	require.NoError(t, err)
	assert.True(t, called)
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.bin")

	require.NoError(t, WriteFileAtomic(path, []byte("one")))
	require.NoError(t, WriteFileAtomic(path, []byte("two")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	files, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, files, 1, "temp files are cleaned up")
}
