package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/clausefinder/internal/core/domain"
	"github.com/custodia-labs/clausefinder/internal/core/ports/driving"
)

var fixedTime = time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)

// mockPolicyAPI is a mock implementation of driving.PolicyAPI.
type mockPolicyAPI struct {
	queryResp   driving.QueryResponse
	extractResp driving.ExtractResponse
	err         error
	lastQuery   driving.QueryRequest
}

func (m *mockPolicyAPI) Health() driving.HealthResponse {
	return driving.HealthResponse{Status: "ok", Timestamp: fixedTime}
}

func (m *mockPolicyAPI) AnswerQuery(_ context.Context, req driving.QueryRequest) (driving.QueryResponse, error) {
	m.lastQuery = req
	return m.queryResp, m.err
}

func (m *mockPolicyAPI) ExtractClauses(_ context.Context, _ driving.ExtractRequest) (driving.ExtractResponse, error) {
	return m.extractResp, m.err
}

// mockIndexService is a mock implementation of driving.IndexService.
type mockIndexService struct {
	stats domain.IndexStats
	err   error
}

func (m *mockIndexService) Rebuild(_ context.Context, _ []domain.Clause) (domain.IndexStats, error) {
	return m.stats, m.err
}

func (m *mockIndexService) LoadPersisted(_ context.Context) (domain.IndexStats, error) {
	return m.stats, m.err
}

func (m *mockIndexService) Stats() (domain.IndexStats, error) {
	return m.stats, m.err
}

func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}
