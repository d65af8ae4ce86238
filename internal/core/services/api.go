package services

import (
	"context"
	"time"

	"github.com/custodia-labs/clausefinder/internal/core/domain"
	"github.com/custodia-labs/clausefinder/internal/core/ports/driving"
)

// Ensure PolicyAPI implements the interface.
var _ driving.PolicyAPI = (*PolicyAPI)(nil)

// StatusOK is the health status reported while the process is up.
const StatusOK = "ok"

// PolicyAPI maps boundary requests onto the retrieval and extraction services.
type PolicyAPI struct {
	retrieval  driving.RetrievalService
	extraction driving.ExtractionService
	topK       int
	now        func() time.Time
}

// NewPolicyAPI creates the request boundary. topK <= 0 selects domain.DefaultTopK.
func NewPolicyAPI(retrieval driving.RetrievalService, extraction driving.ExtractionService, topK int) *PolicyAPI {
	if topK <= 0 {
		topK = domain.DefaultTopK
	}
	return &PolicyAPI{
		retrieval:  retrieval,
		extraction: extraction,
		topK:       topK,
		now:        time.Now,
	}
}

// Health always succeeds.
func (a *PolicyAPI) Health() driving.HealthResponse {
	return driving.HealthResponse{Status: StatusOK, Timestamp: a.now().UTC()}
}

// AnswerQuery retrieves clauses for a question.
// A nil K selects the default; K <= 0 is rejected without searching.
func (a *PolicyAPI) AnswerQuery(ctx context.Context, req driving.QueryRequest) (driving.QueryResponse, error) {
	k := a.topK
	if req.K != nil {
		k = *req.K
	}
	if k <= 0 {
		return driving.QueryResponse{}, domain.InvalidArgument("k must be positive, got %d", k)
	}

	results, err := a.retrieval.Query(ctx, req.Query, k)
	if err != nil {
		return driving.QueryResponse{}, err
	}

	out := make([]driving.QueryResult, len(results))
	for i, r := range results {
		out[i] = driving.QueryResult{Text: r.Text, Metadata: r.Clause, Score: r.Score}
	}

	return driving.QueryResponse{
		Query:       req.Query,
		ResultCount: len(out),
		Results:     out,
		Timestamp:   a.now().UTC(),
	}, nil
}

// ExtractClauses extracts clauses from a policy document.
func (a *PolicyAPI) ExtractClauses(ctx context.Context, req driving.ExtractRequest) (driving.ExtractResponse, error) {
	ext, err := a.extraction.Extract(ctx, req.Text)
	if err != nil {
		return driving.ExtractResponse{}, err
	}

	return driving.ExtractResponse{
		Text:        req.Text,
		ClauseCount: len(ext.Clauses),
		Clauses:     ext.Clauses,
		MockMode:    ext.MockMode,
		Timestamp:   a.now().UTC(),
	}, nil
}
