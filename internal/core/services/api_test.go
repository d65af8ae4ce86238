package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clausefinder/internal/core/domain"
	"github.com/custodia-labs/clausefinder/internal/core/ports/driving"
)

func intPtr(v int) *int { return &v }

func TestPolicyAPI_Health(t *testing.T) {
	api := NewPolicyAPI(&mockRetrieval{}, &mockExtraction{}, 0)
	api.now = fixedNow

	resp := api.Health()
	assert.Equal(t, StatusOK, resp.Status)
	assert.Equal(t, fixedNow(), resp.Timestamp)
}

func TestPolicyAPI_AnswerQuery(t *testing.T) {
	retrieval := &mockRetrieval{results: []domain.SearchResult{
		{Ordinal: 1, Text: leaveClauses[1].Text(), Clause: leaveClauses[1], Score: 0.91},
	}}
	api := NewPolicyAPI(retrieval, &mockExtraction{}, 0)
	api.now = fixedNow

	resp, err := api.AnswerQuery(context.Background(), driving.QueryRequest{Query: "maternity?"})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultTopK, retrieval.lastK)
	assert.Equal(t, "maternity?", resp.Query)
	assert.Equal(t, 1, resp.ResultCount)
	assert.Equal(t, driving.QueryResult{Text: leaveClauses[1].Text(), Metadata: leaveClauses[1], Score: 0.91}, resp.Results[0])
	assert.Equal(t, fixedNow(), resp.Timestamp)

	_, err = api.AnswerQuery(context.Background(), driving.QueryRequest{Query: "maternity?", K: intPtr(7)})
	require.NoError(t, err)
	assert.Equal(t, 7, retrieval.lastK)
}

func TestPolicyAPI_AnswerQueryConfiguredDefault(t *testing.T) {
	retrieval := &mockRetrieval{}
	api := NewPolicyAPI(retrieval, &mockExtraction{}, 5)

	resp, err := api.AnswerQuery(context.Background(), driving.QueryRequest{Query: "q"})
	require.NoError(t, err)
	assert.Equal(t, 5, retrieval.lastK)
	assert.NotNil(t, resp.Results)
	assert.Zero(t, resp.ResultCount)
}

func TestPolicyAPI_AnswerQueryRejectsK(t *testing.T) {
	retrieval := &mockRetrieval{}
	api := NewPolicyAPI(retrieval, &mockExtraction{}, 0)

	for _, k := range []int{0, -1} {
		_, err := api.AnswerQuery(context.Background(), driving.QueryRequest{Query: "q", K: intPtr(k)})
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	}
	assert.Zero(t, retrieval.calls)
}

func TestPolicyAPI_AnswerQueryPropagatesErrors(t *testing.T) {
	api := NewPolicyAPI(&mockRetrieval{err: domain.NewDimensionError(3, 2)}, &mockExtraction{}, 0)
	_, err := api.AnswerQuery(context.Background(), driving.QueryRequest{Query: "q"})
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)
}

func TestPolicyAPI_ExtractClauses(t *testing.T) {
	extraction := &mockExtraction{result: domain.Extraction{
		Clauses:  []domain.Clause{leaveClauses[0]},
		MockMode: true,
		Outcome:  domain.ParseSuccess,
	}}
	api := NewPolicyAPI(&mockRetrieval{}, extraction, 0)
	api.now = fixedNow

	resp, err := api.ExtractClauses(context.Background(), driving.ExtractRequest{Text: "Employees get 25 days."})
	require.NoError(t, err)
	assert.Equal(t, "Employees get 25 days.", resp.Text)
	assert.Equal(t, 1, resp.ClauseCount)
	assert.True(t, resp.MockMode)
	assert.Equal(t, fixedNow(), resp.Timestamp)

	extraction.err = errors.New("boom")
	_, err = api.ExtractClauses(context.Background(), driving.ExtractRequest{Text: "x"})
	assert.Error(t, err)
}
