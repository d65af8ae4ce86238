// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/clausefinder/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/clausefinder/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/clausefinder/internal/core/domain"
)

// State represents the current application state for display.
type State string

const (
	StateReady    State = "ready"
	StateQuerying State = "querying"
	StateError    State = "error"
	StateResults  State = "results"
)

// Bar displays application status, the served index and keybinding hints.
type Bar struct {
	styles      *styles.Styles
	keymap      *keymap.KeyMap
	state       State
	message     string
	resultCount int
	topK        int
	index       *domain.IndexStats
	width       int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update is a no-op; the bar is driven through its setters.
func (s *Bar) Update(_ tea.Msg) (*Bar, tea.Cmd) {
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := max(s.width-lipgloss.Width(left)-lipgloss.Width(right), 1)

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (s *Bar) renderLeft() string {
	var parts []string

	switch s.state {
	case StateQuerying:
		parts = append(parts, s.styles.Muted.Render("Searching..."))
	case StateError:
		if s.message != "" {
			parts = append(parts, s.styles.Error.Render("Error: "+s.message))
		} else {
			parts = append(parts, s.styles.Error.Render("Error"))
		}
	case StateResults:
		parts = append(parts, s.styles.Normal.Render(fmt.Sprintf("%d clauses", s.resultCount)))
	case StateReady:
		if s.message != "" {
			parts = append(parts, s.styles.Normal.Render(s.message))
		} else {
			parts = append(parts, s.styles.Muted.Render("Ready"))
		}
	}

	if s.topK > 0 {
		parts = append(parts, s.styles.Muted.Render(fmt.Sprintf("k=%d", s.topK)))
	}
	if s.index != nil {
		parts = append(parts, s.styles.Muted.Render(
			fmt.Sprintf("%s index, %d clauses", s.index.Backend, s.index.Count)))
	} else {
		parts = append(parts, s.styles.Warning.Render("no index"))
	}

	return strings.Join(parts, s.styles.Muted.Render(" · "))
}

func (s *Bar) renderRight() string {
	var bindings []key.Binding
	if s.state == StateResults && s.resultCount > 0 {
		bindings = s.keymap.ResultsHelp()
	} else {
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets a custom message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetResultCount sets the result count.
func (s *Bar) SetResultCount(count int) {
	s.resultCount = count
}

// ResultCount returns the current result count.
func (s *Bar) ResultCount() int {
	return s.resultCount
}

// SetTopK shows how many clauses each question requests.
func (s *Bar) SetTopK(k int) {
	s.topK = k
}

// SetIndex shows the served index. nil means none is built.
func (s *Bar) SetIndex(stats *domain.IndexStats) {
	s.index = stats
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets state, message and count. Index and k are kept.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.resultCount = 0
}
