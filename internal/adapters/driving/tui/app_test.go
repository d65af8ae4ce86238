package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clausefinder/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/clausefinder/internal/core/domain"
	"github.com/custodia-labs/clausefinder/internal/core/ports/driving"
)

func leaveAPI() *MockPolicyAPI {
	return &MockPolicyAPI{
		AnswerQueryFunc: func(_ context.Context, req driving.QueryRequest) (driving.QueryResponse, error) {
			c := domain.Clause{ID: 1, Title: "Parental Leave", Summary: "16 weeks paid.", Contact: "hr@company.com"}
			return driving.QueryResponse{
				Query:       req.Query,
				ResultCount: 1,
				Results:     []driving.QueryResult{{Text: c.Text(), Metadata: c, Score: 0.7}},
			}, nil
		},
	}
}

func newTestApp(t *testing.T, api *MockPolicyAPI) *App {
	t.Helper()
	app, err := NewApp(&Ports{API: api}, 3)
	require.NoError(t, err)
	app.SetDimensions(120, 40)
	return app
}

// askQuestion submits a question and feeds the response back into the app.
func askQuestion(t *testing.T, app *App, question string) {
	t.Helper()
	app.SearchView().SetQuery(question)
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	app.Update(cmd())
}

func TestNewApp(t *testing.T) {
	app, err := NewApp(&Ports{API: &MockPolicyAPI{}}, 0)

	require.NoError(t, err)
	assert.Equal(t, messages.ViewSearch, app.CurrentView())
	assert.Equal(t, domain.DefaultTopK, app.SearchView().TopK())
	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{}, 3)

	assert.ErrorIs(t, err, ErrMissingPolicyAPI)
	assert.Nil(t, app)
}

func TestApp_Init(t *testing.T) {
	app, err := NewApp(&Ports{API: &MockPolicyAPI{}}, 3)
	require.NoError(t, err)

	assert.NotNil(t, app.Init())
}

func TestApp_LoadIndex(t *testing.T) {
	index := &MockIndexService{StatsValue: domain.IndexStats{Backend: "flat", Count: 4}}
	app, err := NewApp(&Ports{API: &MockPolicyAPI{}, Index: index}, 3)
	require.NoError(t, err)
	app.SetDimensions(120, 40)

	cmd := app.loadIndex()
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.Contains(t, app.View(), "flat index, 4 clauses")
}

func TestApp_LoadIndexWithoutIndexPort(t *testing.T) {
	app := newTestApp(t, &MockPolicyAPI{})

	assert.Nil(t, app.loadIndex())
}

func TestApp_WindowSize(t *testing.T) {
	app, err := NewApp(&Ports{API: &MockPolicyAPI{}}, 3)
	require.NoError(t, err)

	_, cmd := app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	assert.Nil(t, cmd)
	assert.True(t, app.Ready())
	assert.True(t, app.SearchView().Ready())
}

func TestApp_AskAndOpenClause(t *testing.T) {
	api := leaveAPI()
	app := newTestApp(t, api)

	askQuestion(t, app, "maternity leave")
	require.Len(t, api.Queries, 1)
	assert.Contains(t, app.View(), "Parental Leave")

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.Equal(t, messages.ViewClause, app.CurrentView())
	assert.Contains(t, app.View(), "16 weeks paid.")

	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	app.Update(cmd())
	assert.Equal(t, messages.ViewSearch, app.CurrentView())
}

func TestApp_QueryErrorIsRecorded(t *testing.T) {
	api := &MockPolicyAPI{
		AnswerQueryFunc: func(context.Context, driving.QueryRequest) (driving.QueryResponse, error) {
			return driving.QueryResponse{}, errors.New("embedding unavailable")
		},
	}
	app := newTestApp(t, api)

	askQuestion(t, app, "sick leave")

	require.Error(t, app.Err())
	assert.Contains(t, app.View(), "embedding unavailable")
}

func TestApp_HelpToggle(t *testing.T) {
	app := newTestApp(t, leaveAPI())

	// typed into the question while the input has focus
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	assert.Equal(t, messages.ViewSearch, app.CurrentView())
	assert.Equal(t, "?", app.SearchView().Query())

	askQuestion(t, app, "leave")
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	assert.Equal(t, messages.ViewHelp, app.CurrentView())
	assert.Contains(t, app.View(), "Open clause")

	app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewSearch, app.CurrentView())
}

func TestApp_HelpReturnsToClause(t *testing.T) {
	app := newTestApp(t, leaveAPI())
	app.Update(messages.ClauseSelected{Result: driving.QueryResult{Metadata: domain.Clause{Title: "Remote Work"}}, Rank: 1})

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	require.Equal(t, messages.ViewHelp, app.CurrentView())

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	assert.Equal(t, messages.ViewClause, app.CurrentView())
}

func TestApp_Quit(t *testing.T) {
	app := newTestApp(t, leaveAPI())

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	_, cmd = app.Update(messages.Quit{})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_WithContext(t *testing.T) {
	app := newTestApp(t, &MockPolicyAPI{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	assert.Same(t, app, app.WithContext(ctx))
}
