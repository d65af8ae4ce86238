package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/clausefinder/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/clausefinder/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/clausefinder/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/clausefinder/internal/adapters/driving/tui/views/clause"
	"github.com/custodia-labs/clausefinder/internal/adapters/driving/tui/views/search"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports  *Ports
	ctx    context.Context
	styles *styles.Styles
	keymap *keymap.KeyMap

	searchView *search.View
	clauseView *clause.View

	currentView messages.ViewType
	// previousView is where help returns to.
	previousView messages.ViewType

	err    error
	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
// topK is the number of clauses requested per question; < 1 selects the default.
func NewApp(ports *Ports, topK int) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		searchView:  search.NewView(s, km, ports.API, topK),
		clauseView:  clause.NewView(s),
		currentView: messages.ViewSearch,
	}, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.searchView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("clausefinder"),
		a.searchView.Init(),
		a.loadIndex(),
	)
}

// loadIndex reports the served index to the status bar.
func (a *App) loadIndex() tea.Cmd {
	if a.ports.Index == nil {
		return nil
	}
	index := a.ports.Index
	return func() tea.Msg {
		stats, err := index.Stats()
		return messages.IndexLoaded{Stats: stats, Err: err}
	}
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case messages.ClauseSelected:
		a.clauseView.SetResult(msg.Result, msg.Rank)
		a.currentView = messages.ViewClause
		return a, nil

	case messages.ViewChanged:
		a.currentView = msg.View
		return a, nil

	case messages.QueryCompleted:
		a.err = msg.Err
		a.searchView, cmd = a.searchView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		a.searchView, cmd = a.searchView.Update(msg)
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	a.searchView, cmd = a.searchView.Update(msg)
	return a, cmd
}

func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewHelp:
		if msg.Type == tea.KeyEsc || msg.String() == "?" {
			a.currentView = a.previousView
		}
		return a, nil

	case messages.ViewClause:
		if msg.String() == "?" {
			a.showHelp()
			return a, nil
		}
		a.clauseView, cmd = a.clauseView.Update(msg)
		return a, cmd

	case messages.ViewSearch:
		// ? is typed into the question while the input has focus.
		if msg.String() == "?" && !a.searchView.InputFocused() {
			a.showHelp()
			return a, nil
		}
		a.searchView, cmd = a.searchView.Update(msg)
		return a, cmd
	}

	return a, nil
}

func (a *App) showHelp() {
	a.previousView = a.currentView
	a.currentView = messages.ViewHelp
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewClause:
		return a.clauseView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.searchView.View()
	}
}

func (a *App) viewHelp() string {
	return a.styles.Title.Render("Help") + `

Question:
  (type)      Enter a question
  enter       Ask
  ↑/↓         Previous questions
  esc         Back to results

Results:
  j/k, ↑/↓    Navigate clauses
  enter       Open clause
  + / -       Request more or fewer clauses
  n, /        New question
  q           Quit

Clause:
  j/k, ↑/↓    Scroll
  esc         Back to results

ctrl+c quits from anywhere. [esc] closes this help.`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SearchView exposes the search view.
func (a *App) SearchView() *search.View {
	return a.searchView
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.searchView.SetDimensions(width, height)
	a.clauseView.SetDimensions(width, height)
}
