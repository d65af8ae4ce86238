package services

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/custodia-labs/clausefinder/internal/core/domain"
	"github.com/custodia-labs/clausefinder/internal/core/ports/driven"
)

type mockLLM struct {
	mu       sync.Mutex
	response string
	err      error
	block    bool
	prompts  []string
	opts     []driven.GenerateOptions
}

func (m *mockLLM) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.opts = append(m.opts, opts)
	m.mu.Unlock()

	if m.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return m.response, m.err
}

func (m *mockLLM) ModelName() string            { return "mock-llm" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if p, ok := m.prompts[name]; ok {
		return p, nil
	}
	return "", errors.New("prompt not found")
}

func (m *mockPromptStore) Reload() {}

func defaultPromptStore() *mockPromptStore {
	return &mockPromptStore{prompts: map[string]string{
		driven.PromptClauseExtraction: `Return JSON like [{{"title": "..."}}].
Document:
{document}`,
		driven.PromptExtractionSystem: "JSON only.",
	}}
}

type mockClauseStore struct {
	mu      sync.Mutex
	batches []domain.ClauseBatch
	err     error
}

func (m *mockClauseStore) Save(_ context.Context, batch domain.ClauseBatch) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batches = append(m.batches, batch)
	return "/tmp/clauses.json", nil
}

func (m *mockClauseStore) Latest(_ context.Context) (domain.ClauseBatch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.batches) == 0 {
		return domain.ClauseBatch{}, domain.ErrNotFound
	}
	return m.batches[len(m.batches)-1], nil
}

func (m *mockClauseStore) All(_ context.Context) ([]domain.ClauseBatch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.batches) == 0 {
		return nil, domain.ErrNotFound
	}
	return append([]domain.ClauseBatch(nil), m.batches...), nil
}

func (m *mockClauseStore) Load(ctx context.Context, _ string) (domain.ClauseBatch, error) {
	return m.Latest(ctx)
}

// vectorEmbedder returns fixed vectors per text, or an error for unknown text.
type vectorEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float32
	dims    int
	err     error
	calls   int
}

func (e *vectorEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	out, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (e *vectorEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()

	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, ok := e.vectors[t]
		if !ok {
			return nil, &domain.CapabilityError{Capability: "embedding", Op: "embed", Item: i, Err: errors.New("unknown text")}
		}
		out[i] = v
	}
	return out, nil
}

func (e *vectorEmbedder) Dimensions() int              { return e.dims }
func (e *vectorEmbedder) ModelName() string            { return "vector-stub" }
func (e *vectorEmbedder) Ping(_ context.Context) error { return nil }
func (e *vectorEmbedder) Close() error                 { return nil }

func (e *vectorEmbedder) callCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

// dotIndex ranks by raw dot product. It is enough to exercise the services
// without depending on a real backend.
type dotIndex struct {
	dims    int
	entries []domain.IndexEntry
	err     error
	persist []string
}

func (x *dotIndex) Search(_ context.Context, q []float32, k int) ([]driven.VectorHit, error) {
	if x.err != nil {
		return nil, x.err
	}
	hits := make([]driven.VectorHit, len(x.entries))
	for i, e := range x.entries {
		var dot float64
		for j := range q {
			dot += float64(q[j]) * float64(e.Vector[j])
		}
		hits[i] = driven.VectorHit{Ordinal: i, Score: dot}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

func (x *dotIndex) Entry(i int) (domain.IndexEntry, bool) {
	if i < 0 || i >= len(x.entries) {
		return domain.IndexEntry{}, false
	}
	return x.entries[i], true
}

func (x *dotIndex) Len() int        { return len(x.entries) }
func (x *dotIndex) Dimensions() int { return x.dims }
func (x *dotIndex) Backend() string { return "dot" }

func (x *dotIndex) Persist(dir string) error {
	x.persist = append(x.persist, dir)
	return nil
}

type mockBuilder struct {
	mu       sync.Mutex
	buildErr error
	loaded   driven.VectorIndex
	loadErr  error
	built    []*dotIndex
}

func (b *mockBuilder) Name() string { return "dot" }

func (b *mockBuilder) Build(records []domain.EmbeddingRecord) (driven.VectorIndex, error) {
	if b.buildErr != nil {
		return nil, b.buildErr
	}
	idx := &dotIndex{dims: len(records[0].Vector)}
	for i, r := range records {
		idx.entries = append(idx.entries, domain.IndexEntry{Ordinal: i, Vector: r.Vector, Clause: r.Clause})
	}
	b.mu.Lock()
	b.built = append(b.built, idx)
	b.mu.Unlock()
	return idx, nil
}

func (b *mockBuilder) Load(_ string) (driven.VectorIndex, error) {
	if b.loadErr != nil {
		return nil, b.loadErr
	}
	if b.loaded == nil {
		return nil, domain.ErrNotFound
	}
	return b.loaded, nil
}

type mockRetrieval struct {
	results []domain.SearchResult
	err     error
	calls   int
	lastK   int
}

func (m *mockRetrieval) Query(_ context.Context, _ string, k int) ([]domain.SearchResult, error) {
	m.calls++
	m.lastK = k
	return m.results, m.err
}

type mockExtraction struct {
	result domain.Extraction
	err    error
}

func (m *mockExtraction) Extract(_ context.Context, _ string) (domain.Extraction, error) {
	return m.result, m.err
}
