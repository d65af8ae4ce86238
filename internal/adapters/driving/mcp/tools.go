package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/clausefinder/internal/core/domain"
	"github.com/custodia-labs/clausefinder/internal/core/ports/driving"
)

// AnswerQueryInput is the input schema for the answer_query tool.
type AnswerQueryInput struct {
	Query string `json:"query" jsonschema:"the employee question to answer from HR policy"`
	K     *int   `json:"k,omitempty" jsonschema:"number of clauses to return (default 3)"`
}

// AnswerQueryOutput is the output schema for the answer_query tool.
type AnswerQueryOutput struct {
	Query   string         `json:"query"`
	Count   int            `json:"count"`
	Results []ClauseResult `json:"results"`
}

// ClauseResult is one ranked clause.
type ClauseResult struct {
	Text     string   `json:"text"`
	Title    string   `json:"title"`
	Summary  string   `json:"summary"`
	Contact  string   `json:"contact"`
	Keywords []string `json:"keywords"`
	Score    float64  `json:"score"`
}

// ExtractClausesInput is the input schema for the extract_clauses tool.
type ExtractClausesInput struct {
	Text string `json:"text" jsonschema:"the HR policy document text"`
}

// ExtractClausesOutput is the output schema for the extract_clauses tool.
type ExtractClausesOutput struct {
	Count    int             `json:"count"`
	Clauses  []domain.Clause `json:"clauses"`
	MockMode bool            `json:"mock_mode"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "answer_query",
		Description: "Find the HR policy clauses most relevant to a question",
	}, s.handleAnswerQuery)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "extract_clauses",
		Description: "Extract structured policy clauses from an HR document",
	}, s.handleExtractClauses)
}

func (s *Server) handleAnswerQuery(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AnswerQueryInput,
) (*mcp.CallToolResult, AnswerQueryOutput, error) {
	resp, err := s.ports.API.AnswerQuery(ctx, driving.QueryRequest{Query: input.Query, K: input.K})
	if err != nil {
		return nil, AnswerQueryOutput{}, err
	}

	output := AnswerQueryOutput{
		Query:   resp.Query,
		Count:   resp.ResultCount,
		Results: make([]ClauseResult, len(resp.Results)),
	}
	for i, r := range resp.Results {
		output.Results[i] = ClauseResult{
			Text:     r.Text,
			Title:    r.Metadata.Title,
			Summary:  r.Metadata.Summary,
			Contact:  r.Metadata.Contact,
			Keywords: r.Metadata.Keywords,
			Score:    r.Score,
		}
	}

	return nil, output, nil
}

func (s *Server) handleExtractClauses(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ExtractClausesInput,
) (*mcp.CallToolResult, ExtractClausesOutput, error) {
	resp, err := s.ports.API.ExtractClauses(ctx, driving.ExtractRequest{Text: input.Text})
	if err != nil {
		return nil, ExtractClausesOutput{}, err
	}

	return nil, ExtractClausesOutput{
		Count:    resp.ClauseCount,
		Clauses:  resp.Clauses,
		MockMode: resp.MockMode,
	}, nil
}
