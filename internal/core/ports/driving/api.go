package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/clausefinder/internal/core/domain"
)

// PolicyAPI is the request/response boundary shared by the HTTP, MCP and CLI adapters.
type PolicyAPI interface {
	// Health always succeeds.
	Health() HealthResponse

	// AnswerQuery retrieves clauses for a question.
	AnswerQuery(ctx context.Context, req QueryRequest) (QueryResponse, error)

	// ExtractClauses extracts clauses from a policy document.
	ExtractClauses(ctx context.Context, req ExtractRequest) (ExtractResponse, error)
}

// HealthResponse reports liveness.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// QueryRequest asks for the K clauses closest to Query.
// A nil K selects the configured default.
type QueryRequest struct {
	Query string `json:"query"`
	K     *int   `json:"k,omitempty"`
}

// QueryResult is one ranked clause.
type QueryResult struct {
	Text     string        `json:"text"`
	Metadata domain.Clause `json:"metadata"`
	Score    float64       `json:"score"`
}

// QueryResponse carries ranked clauses for a query.
type QueryResponse struct {
	Query       string        `json:"query"`
	ResultCount int           `json:"result_count"`
	Results     []QueryResult `json:"results"`
	Timestamp   time.Time     `json:"timestamp"`

	// Diagnostic explains an empty result caused by an unavailable capability.
	Diagnostic string `json:"diagnostic,omitempty"`
}

// ExtractRequest carries a policy document.
type ExtractRequest struct {
	Text string `json:"text"`
}

// ExtractResponse carries the extracted clauses.
type ExtractResponse struct {
	Text        string          `json:"text"`
	ClauseCount int             `json:"clause_count"`
	Clauses     []domain.Clause `json:"clauses"`
	MockMode    bool            `json:"mock_mode"`
	Timestamp   time.Time       `json:"timestamp"`

	// Diagnostic explains an empty result caused by an unavailable capability.
	Diagnostic string `json:"diagnostic,omitempty"`
}
