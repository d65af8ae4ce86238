// Package search provides the question and ranked clauses view for the TUI.
package search

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/clausefinder/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/clausefinder/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/clausefinder/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/clausefinder/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/clausefinder/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/clausefinder/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/clausefinder/internal/core/domain"
	"github.com/custodia-labs/clausefinder/internal/core/ports/driving"
)

// MaxTopK caps how many clauses one question may request.
const MaxTopK = 20

// View is the search view: question input, ranked clauses and a status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QueryInput
	list      *list.ResultList
	statusbar *status.Bar

	api driving.PolicyAPI
	ctx context.Context

	topK      int
	lastQuery string

	width      int
	height     int
	ready      bool
	err        error
	focusInput bool // true = typing a question, false = browsing results
}

// NewView creates a new search view. topK < 1 selects domain.DefaultTopK.
func NewView(s *styles.Styles, km *keymap.KeyMap, api driving.PolicyAPI, topK int) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	if topK < 1 {
		topK = domain.DefaultTopK
	}

	bar := status.NewBar(s, km)
	bar.SetTopK(topK)

	return &View{
		styles:     s,
		keymap:     km,
		input:      input.NewQueryInput(s),
		list:       list.NewResultList(s),
		statusbar:  bar,
		api:        api,
		ctx:        context.Background(),
		topK:       topK,
		width:      80,
		height:     24,
		focusInput: true,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.QueryCompleted:
		v.handleQueryCompleted(msg)
		return v, nil

	case messages.IndexLoaded:
		if msg.Err != nil {
			v.statusbar.SetIndex(nil)
		} else {
			stats := msg.Stats
			v.statusbar.SetIndex(&stats)
		}
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.focusInput {
		return v.handleInputKey(msg)
	}
	return v.handleResultsKey(msg)
}

func (v *View) handleInputKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyEnter:
		query := v.input.Submit()
		if query == "" {
			return v, nil
		}
		return v, v.ask(query)

	case tea.KeyEsc:
		if !v.list.IsEmpty() {
			v.focusResults()
			return v, nil
		}
		v.input.Reset()
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleResultsKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	switch {
	case keymap.Matches(keyStr, v.keymap.Open):
		result := v.list.SelectedResult()
		if result == nil {
			return v, nil
		}
		selected := messages.ClauseSelected{Result: *result, Rank: v.list.Selected() + 1}
		return v, func() tea.Msg { return selected }

	case keymap.Matches(keyStr, v.keymap.Up):
		v.list.MoveUp()
	case keymap.Matches(keyStr, v.keymap.Down):
		v.list.MoveDown()

	case keymap.Matches(keyStr, v.keymap.NewQuery), keymap.Matches(keyStr, v.keymap.Back):
		return v, v.focusQuestion()

	case keymap.Matches(keyStr, v.keymap.MoreResults):
		return v, v.changeTopK(1)
	case keymap.Matches(keyStr, v.keymap.FewerResults):
		return v, v.changeTopK(-1)

	case keyStr == "q":
		return v, func() tea.Msg { return messages.Quit{} }
	}

	return v, nil
}

// changeTopK adjusts k within [1, MaxTopK] and re-asks the last question.
func (v *View) changeTopK(delta int) tea.Cmd {
	k := min(max(v.topK+delta, 1), MaxTopK)
	if k == v.topK {
		return nil
	}
	v.topK = k
	v.statusbar.SetTopK(k)
	if v.lastQuery == "" {
		return nil
	}
	return v.ask(v.lastQuery)
}

func (v *View) ask(query string) tea.Cmd {
	v.lastQuery = query
	v.statusbar.SetState(status.StateQuerying)

	api, ctx, k := v.api, v.ctx, v.topK
	return func() tea.Msg {
		if api == nil {
			return messages.ErrorOccurred{Err: ErrNoPolicyAPI}
		}
		resp, err := api.AnswerQuery(ctx, driving.QueryRequest{Query: query, K: &k})
		return messages.QueryCompleted{Response: resp, Err: err}
	}
}

func (v *View) handleQueryCompleted(msg messages.QueryCompleted) {
	if msg.Err != nil {
		v.setError(msg.Err)
		return
	}

	v.err = nil
	v.list.SetResults(msg.Response.Results)
	v.statusbar.SetMessage("")
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetResultCount(msg.Response.ResultCount)

	if v.list.IsEmpty() {
		v.statusbar.SetState(status.StateReady)
		v.statusbar.SetMessage("No matching clauses")
		return
	}
	v.focusResults()
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

func (v *View) focusResults() {
	v.focusInput = false
	v.input.Blur()
}

func (v *View) focusQuestion() tea.Cmd {
	v.focusInput = true
	v.input.Reset()
	return v.input.Focus()
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)
	sections = append(sections,
		v.styles.Title.Render("clausefinder"),
		v.styles.Muted.Render("Ask a question about your HR policies."),
		"",
		v.input.View(),
		"",
	)

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	sections = append(sections, v.list.View(), "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-10) // header, input and status
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the text in the input box.
func (v *View) Query() string {
	return v.input.Value()
}

// SetQuery sets the text in the input box.
func (v *View) SetQuery(query string) {
	v.input.SetValue(query)
}

// LastQuery returns the most recently asked question.
func (v *View) LastQuery() string {
	return v.lastQuery
}

// TopK returns how many clauses each question requests.
func (v *View) TopK() int {
	return v.topK
}

// Results returns the ranked clauses.
func (v *View) Results() []driving.QueryResult {
	return v.list.Results()
}

// SelectedIndex returns the index of the selected result.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// StatusBar exposes the status bar.
func (v *View) StatusBar() *status.Bar {
	return v.statusbar
}
