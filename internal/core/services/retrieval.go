package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/clausefinder/internal/core/domain"
	"github.com/custodia-labs/clausefinder/internal/core/ports/driven"
	"github.com/custodia-labs/clausefinder/internal/core/ports/driving"
	"github.com/custodia-labs/clausefinder/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// RetrievalService ranks indexed clauses against a query.
type RetrievalService struct {
	embedder driven.EmbeddingService
	handle   *IndexHandle
}

// NewRetrievalService creates a retrieval service reading from handle.
func NewRetrievalService(embedder driven.EmbeddingService, handle *IndexHandle) *RetrievalService {
	return &RetrievalService{
		embedder: embedder,
		handle:   handle,
	}
}

// Query returns at most k clauses ordered by decreasing similarity.
// Arguments are validated before anything is embedded or searched.
// With no index served, Query returns an empty slice.
func (s *RetrievalService) Query(ctx context.Context, text string, k int) ([]domain.SearchResult, error) {
	logger.Section("Retrieval")

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, domain.InvalidArgument("query text is empty")
	}
	if k < 1 {
		return nil, domain.InvalidArgument("k must be at least 1, got %d", k)
	}
	logger.Debug("Query: %q, k=%d", text, k)

	served := s.handle.Current()
	if served == nil || served.Index == nil || served.Index.Len() == 0 {
		logger.Debug("No index served, returning no results")
		return []domain.SearchResult{}, nil
	}

	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vec) != served.Index.Dimensions() {
		return nil, domain.NewDimensionError(served.Index.Dimensions(), len(vec))
	}

	hits, err := served.Index.Search(ctx, vec, k)
	if errors.Is(err, domain.ErrIndexNotBuilt) {
		return []domain.SearchResult{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("search %s index: %w", served.Index.Backend(), err)
	}

	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		entry, ok := served.Index.Entry(hit.Ordinal)
		if !ok {
			logger.Warn("Index returned unknown ordinal %d", hit.Ordinal)
			continue
		}
		results = append(results, domain.SearchResult{
			Ordinal: hit.Ordinal,
			Text:    entry.Clause.Text(),
			Clause:  entry.Clause.Clone(),
			Score:   hit.Score,
		})
	}

	logger.Debug("Returning %d results from %s index", len(results), served.Index.Backend())
	return results, nil
}
