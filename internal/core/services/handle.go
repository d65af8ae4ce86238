package services

import (
	"sync/atomic"
	"time"

	"github.com/custodia-labs/clausefinder/internal/core/domain"
	"github.com/custodia-labs/clausefinder/internal/core/ports/driven"
)

// ServedIndex is an index together with when it went live.
type ServedIndex struct {
	Index   driven.VectorIndex
	BuiltAt time.Time
}

// Stats describes the served index.
func (s *ServedIndex) Stats() domain.IndexStats {
	return domain.IndexStats{
		Backend:    s.Index.Backend(),
		Count:      s.Index.Len(),
		Dimensions: s.Index.Dimensions(),
		BuiltAt:    s.BuiltAt,
	}
}

// IndexHandle is the slot readers take the current index from.
// Readers never block; a swap is visible to every later Current call.
type IndexHandle struct {
	current atomic.Pointer[ServedIndex]
}

// NewIndexHandle creates an empty handle.
func NewIndexHandle() *IndexHandle {
	return &IndexHandle{}
}

// Current returns the served index, or nil before the first swap.
func (h *IndexHandle) Current() *ServedIndex {
	return h.current.Load()
}

// Swap installs idx and returns the previously served index.
func (h *IndexHandle) Swap(idx *ServedIndex) *ServedIndex {
	return h.current.Swap(idx)
}
