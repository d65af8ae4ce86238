package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/clausefinder/internal/core/domain"
	"github.com/custodia-labs/clausefinder/internal/core/ports/driven"
	"github.com/custodia-labs/clausefinder/internal/core/ports/driving"
)

var fixedTime = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

func leaveClauses() []domain.Clause {
	return []domain.Clause{
		{ID: 1, Title: "Annual Leave", Summary: "Employees receive 25 days of paid leave.", Keywords: []string{"vacation", "pto"}, Contact: "hr@company.com"},
		{ID: 2, Title: "Parental Leave", Summary: "Parents receive 16 weeks of paid leave.", Keywords: []string{"maternity"}, Contact: "benefits@company.com"},
	}
}

type mockPolicyAPI struct {
	queryResp   driving.QueryResponse
	queryErr    error
	extractResp driving.ExtractResponse
	extractErr  error

	// store receives each extraction as a batch, as the extraction service does.
	store *mockClauseStore

	queries  []driving.QueryRequest
	extracts []driving.ExtractRequest
}

func (m *mockPolicyAPI) Health() driving.HealthResponse {
	return driving.HealthResponse{Status: "ok", Timestamp: fixedTime}
}

func (m *mockPolicyAPI) AnswerQuery(_ context.Context, req driving.QueryRequest) (driving.QueryResponse, error) {
	m.queries = append(m.queries, req)
	if m.queryErr != nil {
		return driving.QueryResponse{}, m.queryErr
	}
	resp := m.queryResp
	resp.Query = req.Query
	return resp, nil
}

func (m *mockPolicyAPI) ExtractClauses(_ context.Context, req driving.ExtractRequest) (driving.ExtractResponse, error) {
	m.extracts = append(m.extracts, req)
	if m.extractErr != nil {
		return driving.ExtractResponse{}, m.extractErr
	}
	resp := m.extractResp
	resp.Text = req.Text
	if m.store != nil {
		_, _ = m.store.Save(context.Background(), domain.ClauseBatch{MockMode: resp.MockMode, Clauses: resp.Clauses})
	}
	return resp, nil
}

type mockIndex struct {
	stats      domain.IndexStats
	statsErr   error
	rebuildErr error
	dir        string

	rebuilt [][]domain.Clause
	reloads int
}

func (m *mockIndex) Rebuild(_ context.Context, clauses []domain.Clause) (domain.IndexStats, error) {
	m.rebuilt = append(m.rebuilt, clauses)
	if m.rebuildErr != nil {
		return domain.IndexStats{}, m.rebuildErr
	}
	m.stats = domain.IndexStats{Backend: "flat", Count: len(clauses), Dimensions: 1536, BuiltAt: fixedTime}
	m.statsErr = nil
	return m.stats, nil
}

func (m *mockIndex) LoadPersisted(context.Context) (domain.IndexStats, error) {
	return m.stats, m.statsErr
}

func (m *mockIndex) Stats() (domain.IndexStats, error) {
	return m.stats, m.statsErr
}

func (m *mockIndex) Dir() string { return m.dir }

func (m *mockIndex) Reload(context.Context) { m.reloads++ }

type mockClauseStore struct {
	batches []domain.ClauseBatch
	allErr  error
	byPath  map[string]domain.ClauseBatch
}

func (m *mockClauseStore) Save(_ context.Context, batch domain.ClauseBatch) (string, error) {
	m.batches = append(m.batches, batch)
	return "/tmp/batch.json", nil
}

func (m *mockClauseStore) Latest(context.Context) (domain.ClauseBatch, error) {
	if len(m.batches) == 0 {
		return domain.ClauseBatch{}, domain.ErrNotFound
	}
	return m.batches[len(m.batches)-1], nil
}

func (m *mockClauseStore) All(context.Context) ([]domain.ClauseBatch, error) {
	if m.allErr != nil {
		return nil, m.allErr
	}
	if len(m.batches) == 0 {
		return nil, domain.ErrNotFound
	}
	return append([]domain.ClauseBatch(nil), m.batches...), nil
}

func (m *mockClauseStore) Load(_ context.Context, path string) (domain.ClauseBatch, error) {
	batch, ok := m.byPath[path]
	if !ok {
		return domain.ClauseBatch{}, fmt.Errorf("open %s: %w", path, domain.ErrNotFound)
	}
	return batch, nil
}

type mockSettings struct {
	settings    domain.AppSettings
	validateErr error
	setErr      error
	pingErr     error

	set       map[string]string
	embedding []domain.AIProvider
	llm       []domain.AIProvider
	apiKeys   []string
}

func newMockSettings() *mockSettings {
	return &mockSettings{settings: domain.DefaultAppSettings(), set: map[string]string{}}
}

func (m *mockSettings) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettings) Save(s *domain.AppSettings) error {
	m.settings = *s
	return nil
}

func (m *mockSettings) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.set[key] = value
	return nil
}

func (m *mockSettings) Display() ([][2]string, error) {
	return [][2]string{
		{"embedding.provider", m.settings.Embedding.Provider.String()},
		{"embedding.api_key", ""},
		{"llm.provider", m.settings.LLM.Provider.String()},
		{"llm.api_key", "********"},
		{"retrieval.top_k", fmt.Sprint(m.settings.TopK)},
	}, nil
}

func (m *mockSettings) SetEmbeddingProvider(p domain.AIProvider, _, apiKey string) error {
	m.embedding = append(m.embedding, p)
	m.apiKeys = append(m.apiKeys, apiKey)
	return nil
}

func (m *mockSettings) SetLLMProvider(p domain.AIProvider, _, apiKey string) error {
	m.llm = append(m.llm, p)
	m.apiKeys = append(m.apiKeys, apiKey)
	return nil
}

func (m *mockSettings) SetIndexBackend(domain.IndexBackend) error { return nil }
func (m *mockSettings) Validate() error                          { return m.validateErr }
func (m *mockSettings) GetDefaults() domain.AppSettings          { return domain.DefaultAppSettings() }
func (m *mockSettings) ValidateEmbeddingConfig() error           { return m.pingErr }
func (m *mockSettings) ValidateLLMConfig() error                 { return m.pingErr }

var (
	_ driving.PolicyAPI       = (*mockPolicyAPI)(nil)
	_ IndexManager            = (*mockIndex)(nil)
	_ driven.ClauseStore      = (*mockClauseStore)(nil)
	_ driving.SettingsService = (*mockSettings)(nil)
)

type testServices struct {
	api      *mockPolicyAPI
	index    *mockIndex
	clauses  *mockClauseStore
	settings *mockSettings
}

// setupTestServices installs fresh mocks and returns them with a cleanup func.
func setupTestServices(t *testing.T) *testServices {
	t.Helper()

	clauses := &mockClauseStore{}
	ts := &testServices{
		api:      &mockPolicyAPI{store: clauses},
		index:    &mockIndex{statsErr: domain.ErrIndexNotBuilt},
		clauses:  clauses,
		settings: newMockSettings(),
	}

	oldAPI, oldIndex, oldClauses, oldSettings := policyAPI, indexService, clauseStore, settingsService
	oldWatcher := newWatcher
	SetServices(Services{API: ts.api, Index: ts.index, Clauses: ts.clauses, Settings: ts.settings})
	t.Cleanup(func() {
		policyAPI, indexService, clauseStore, settingsService = oldAPI, oldIndex, oldClauses, oldSettings
		newWatcher = oldWatcher
		startupWarnings = nil
	})
	return ts
}

// runCommand executes the root command with args and returns combined output.
func runCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		resetFlags(rootCmd)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores every flag in the tree to its default between runs.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}
