package cli

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clausefinder/internal/core/domain"
	"github.com/custodia-labs/clausefinder/internal/core/ports/driving"
)

func leaveResponse() driving.QueryResponse {
	clauses := leaveClauses()
	results := []driving.QueryResult{
		{Text: clauses[1].Text(), Metadata: clauses[1], Score: 0.91},
		{Text: clauses[0].Text(), Metadata: clauses[0], Score: 0.42},
	}
	return driving.QueryResponse{ResultCount: len(results), Results: results, Timestamp: fixedTime}
}

func TestQueryCmd_RequiresExactlyOneArg(t *testing.T) {
	setupTestServices(t)

	_, err := runCommand(t, "", "query")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestQueryCmd_Flags(t *testing.T) {
	k := queryCmd.Flags().Lookup("top-k")
	require.NotNil(t, k)
	assert.Equal(t, "k", k.Shorthand)
	assert.Equal(t, "0", k.DefValue)

	assert.NotNil(t, queryCmd.Flags().Lookup("json"))
}

func TestQueryCmd_UsesConfiguredDefaultK(t *testing.T) {
	ts := setupTestServices(t)
	ts.api.queryResp = leaveResponse()

	out, err := runCommand(t, "", "query", "how long is maternity leave?")

	require.NoError(t, err)
	require.Len(t, ts.api.queries, 1)
	assert.Equal(t, "how long is maternity leave?", ts.api.queries[0].Query)
	assert.Nil(t, ts.api.queries[0].K, "no -k leaves the default to the API")

	assert.Contains(t, out, "[1] Parental Leave (0.910)")
	assert.Contains(t, out, "[2] Annual Leave (0.420)")
	assert.Contains(t, out, "Keywords: maternity")
	assert.Contains(t, out, "Contact: benefits@company.com")
}

func TestQueryCmd_ExplicitK(t *testing.T) {
	ts := setupTestServices(t)
	ts.api.queryResp = leaveResponse()

	_, err := runCommand(t, "", "query", "-k", "5", "leave")

	require.NoError(t, err)
	require.NotNil(t, ts.api.queries[0].K)
	assert.Equal(t, 5, *ts.api.queries[0].K)
}

func TestQueryCmd_ExplicitZeroKIsSent(t *testing.T) {
	ts := setupTestServices(t)
	ts.api.queryErr = domain.InvalidArgument("k must be at least 1, got 0")

	_, err := runCommand(t, "", "query", "-k", "0", "leave")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	require.NotNil(t, ts.api.queries[0].K)
	assert.Equal(t, 0, *ts.api.queries[0].K)
}

func TestQueryCmd_JSONOutput(t *testing.T) {
	ts := setupTestServices(t)
	ts.api.queryResp = leaveResponse()

	out, err := runCommand(t, "", "query", "--json", "leave")

	require.NoError(t, err)
	var resp driving.QueryResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "leave", resp.Query)
	assert.Equal(t, 2, resp.ResultCount)
	assert.Equal(t, "Parental Leave", resp.Results[0].Metadata.Title)
}

func TestQueryCmd_NoResults(t *testing.T) {
	ts := setupTestServices(t)
	ts.api.queryResp = driving.QueryResponse{Results: []driving.QueryResult{}}

	out, err := runCommand(t, "", "query", "pets")

	require.NoError(t, err)
	assert.Contains(t, out, "No matching clauses")
}

func TestQueryCmd_Error(t *testing.T) {
	ts := setupTestServices(t)
	ts.api.queryErr = errors.New("embedding unavailable")

	_, err := runCommand(t, "", "query", "leave")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "query failed")
}

func TestQueryCmd_ServiceNotConfigured(t *testing.T) {
	setupTestServices(t)
	policyAPI = nil

	_, err := runCommand(t, "", "query", "leave")

	assert.ErrorIs(t, err, errAPINotConfigured)
}
