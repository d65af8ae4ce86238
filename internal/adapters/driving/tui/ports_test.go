package tui

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/clausefinder/internal/core/domain"
	"github.com/custodia-labs/clausefinder/internal/core/ports/driving"
)

// MockPolicyAPI implements driving.PolicyAPI for testing.
type MockPolicyAPI struct {
	AnswerQueryFunc func(ctx context.Context, req driving.QueryRequest) (driving.QueryResponse, error)
	Queries         []driving.QueryRequest
}

func (m *MockPolicyAPI) Health() driving.HealthResponse {
	return driving.HealthResponse{Status: "ok", Timestamp: time.Now()}
}

func (m *MockPolicyAPI) AnswerQuery(ctx context.Context, req driving.QueryRequest) (driving.QueryResponse, error) {
	m.Queries = append(m.Queries, req)
	if m.AnswerQueryFunc != nil {
		return m.AnswerQueryFunc(ctx, req)
	}
	return driving.QueryResponse{Query: req.Query, Results: []driving.QueryResult{}}, nil
}

func (m *MockPolicyAPI) ExtractClauses(_ context.Context, req driving.ExtractRequest) (driving.ExtractResponse, error) {
	return driving.ExtractResponse{Text: req.Text, Clauses: []domain.Clause{}}, nil
}

// MockIndexService implements driving.IndexService for testing.
type MockIndexService struct {
	StatsValue domain.IndexStats
	StatsErr   error
}

func (m *MockIndexService) Rebuild(context.Context, []domain.Clause) (domain.IndexStats, error) {
	return m.StatsValue, nil
}

func (m *MockIndexService) LoadPersisted(context.Context) (domain.IndexStats, error) {
	return m.StatsValue, nil
}

func (m *MockIndexService) Stats() (domain.IndexStats, error) {
	return m.StatsValue, m.StatsErr
}

var (
	_ driving.PolicyAPI    = (*MockPolicyAPI)(nil)
	_ driving.IndexService = (*MockIndexService)(nil)
)

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name  string
		ports *Ports
		want  error
	}{
		{name: "nil ports", ports: nil, want: ErrInvalidPorts},
		{name: "missing api", ports: &Ports{Index: &MockIndexService{}}, want: ErrMissingPolicyAPI},
		{name: "api only", ports: &Ports{API: &MockPolicyAPI{}}, want: nil},
		{name: "api and index", ports: &Ports{API: &MockPolicyAPI{}, Index: &MockIndexService{}}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
