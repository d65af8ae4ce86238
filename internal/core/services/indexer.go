package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/clausefinder/internal/core/domain"
	"github.com/custodia-labs/clausefinder/internal/core/ports/driven"
	"github.com/custodia-labs/clausefinder/internal/core/ports/driving"
	"github.com/custodia-labs/clausefinder/internal/logger"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// IndexService builds indexes and swaps them into an IndexHandle.
// Rebuilds are serialised; readers keep using the old index until the swap.
type IndexService struct {
	mu       sync.Mutex
	builder  driven.IndexBuilder
	embedder driven.EmbeddingService
	handle   *IndexHandle
	dir      string
	now      func() time.Time
}

// NewIndexService creates an index service.
// dir may be empty, in which case indexes are never persisted.
func NewIndexService(
	builder driven.IndexBuilder,
	embedder driven.EmbeddingService,
	handle *IndexHandle,
	dir string,
) *IndexService {
	return &IndexService{
		builder:  builder,
		embedder: embedder,
		handle:   handle,
		dir:      dir,
		now:      time.Now,
	}
}

// Dir returns the index directory.
func (s *IndexService) Dir() string {
	return s.dir
}

// Rebuild embeds clauses, builds a fresh index, persists it and swaps it in.
// Nothing is swapped unless every step succeeds.
func (s *IndexService) Rebuild(ctx context.Context, clauses []domain.Clause) (domain.IndexStats, error) {
	logger.Section("Index Rebuild")

	indexable := make([]domain.Clause, 0, len(clauses))
	for _, c := range clauses {
		if !c.IsIndexable() {
			logger.Warn("Skipping clause %d without title or summary", c.ID)
			continue
		}
		indexable = append(indexable, c.Clone())
	}
	if len(indexable) == 0 {
		return domain.IndexStats{}, domain.ErrEmptyIndex
	}

	texts := make([]string, len(indexable))
	for i, c := range indexable {
		texts[i] = c.Text()
	}

	logger.Debug("Embedding %d clauses with %s", len(texts), s.embedder.ModelName())
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return domain.IndexStats{}, fmt.Errorf("embed clauses: %w", err)
	}
	if len(vectors) != len(texts) {
		return domain.IndexStats{}, &domain.CapabilityError{
			Capability: "embedding", Op: "embed batch", Item: -1,
			Err: fmt.Errorf("got %d vectors for %d texts", len(vectors), len(texts)),
		}
	}

	want := s.embedder.Dimensions()
	records := make([]domain.EmbeddingRecord, len(indexable))
	for i, v := range vectors {
		if len(v) != want {
			return domain.IndexStats{}, domain.NewDimensionError(want, len(v))
		}
		records[i] = domain.EmbeddingRecord{Vector: v, Clause: indexable[i]}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.builder.Build(records)
	if err != nil {
		return domain.IndexStats{}, fmt.Errorf("build %s index: %w", s.builder.Name(), err)
	}

	if s.dir != "" {
		if err := idx.Persist(s.dir); err != nil {
			return domain.IndexStats{}, fmt.Errorf("persist index: %w", err)
		}
		logger.Debug("Persisted %s index to %s", idx.Backend(), s.dir)
	}

	served := &ServedIndex{Index: idx, BuiltAt: s.now().UTC()}
	s.handle.Swap(served)
	logger.Info("Serving %s index with %d clauses", idx.Backend(), idx.Len())

	return served.Stats(), nil
}

// LoadPersisted loads the index from the configured directory and swaps it in.
func (s *IndexService) LoadPersisted(_ context.Context) (domain.IndexStats, error) {
	if s.dir == "" {
		return domain.IndexStats{}, domain.InvalidArgument("no index directory configured")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx, err := s.builder.Load(s.dir)
	if err != nil {
		return domain.IndexStats{}, fmt.Errorf("load index from %s: %w", s.dir, err)
	}
	if want := s.embedder.Dimensions(); idx.Dimensions() != want {
		return domain.IndexStats{}, domain.NewDimensionError(want, idx.Dimensions())
	}

	served := &ServedIndex{Index: idx, BuiltAt: s.now().UTC()}
	s.handle.Swap(served)
	logger.Info("Loaded %s index with %d clauses from %s", idx.Backend(), idx.Len(), s.dir)

	return served.Stats(), nil
}

// Stats describes the served index.
func (s *IndexService) Stats() (domain.IndexStats, error) {
	served := s.handle.Current()
	if served == nil || served.Index == nil {
		return domain.IndexStats{}, domain.ErrIndexNotBuilt
	}
	return served.Stats(), nil
}

// Reload reloads persisted artifacts, keeping the current index when
// nothing usable is on disk. It is the file watcher callback.
func (s *IndexService) Reload(ctx context.Context) {
	stats, err := s.LoadPersisted(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrDimensionMismatch) {
			logger.Error("Refusing to serve reloaded index: %v", err)
			return
		}
		logger.Warn("Index reload skipped: %v", err)
		return
	}
	logger.Info("Reloaded index: %d clauses", stats.Count)
}
