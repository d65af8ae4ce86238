// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/clausefinder/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/clausefinder/internal/core/ports/driving"
)

// linesPerResult is the rendered height of one result.
const linesPerResult = 3

// ResultList displays ranked clauses in a navigable list.
type ResultList struct {
	results  []driving.QueryResult
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the result list.
func (r *ResultList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the result list.
func (r *ResultList) View() string {
	if len(r.results) == 0 {
		return r.styles.Muted.Render("No matching clauses")
	}

	lines := make([]string, 0, len(r.results)+2)
	lines = append(lines, r.styles.Subtitle.Render(fmt.Sprintf("Clauses (%d)", len(r.results))), "")

	visible := max((r.height-2)/linesPerResult, 1)
	start := 0
	if r.selected >= visible {
		start = r.selected - visible + 1
	}
	end := min(start+visible, len(r.results))

	for i := start; i < end; i++ {
		lines = append(lines, r.renderResult(i, r.results[i]))
	}

	return strings.Join(lines, "\n")
}

func (r *ResultList) renderResult(index int, result driving.QueryResult) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	title := result.Metadata.Title
	if title == "" {
		title = "(Untitled clause)"
	}
	maxTitleLen := max(r.width-16, 10)
	title = truncate(title, maxTitleLen)
	score := fmt.Sprintf("%.3f", result.Score)

	var titleLine string
	if index == r.selected {
		titleLine = r.styles.Selected.Render(fmt.Sprintf("%s%d. %-*s  %s", indicator, index+1, maxTitleLen, title, score))
	} else {
		titleLine = r.styles.Normal.Render(fmt.Sprintf("%s%d. %-*s  ", indicator, index+1, maxTitleLen, title)) +
			r.styles.Score.Render(score)
	}

	summary := truncate(result.Metadata.Summary, max(r.width-6, 20))
	summaryLine := r.styles.Muted.Render("     " + summary)

	contactLine := r.styles.Contact.Render("     " + result.Metadata.Contact)

	return titleLine + "\n" + summaryLine + "\n" + contactLine
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// SetResults replaces the list and selects the top result.
func (r *ResultList) SetResults(results []driving.QueryResult) {
	r.results = results
	r.selected = 0
}

// Results returns the current results.
func (r *ResultList) Results() []driving.QueryResult {
	return r.results
}

// Selected returns the index of the selected result.
func (r *ResultList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index. Out-of-range indexes are ignored.
func (r *ResultList) SetSelected(index int) {
	if index >= 0 && index < len(r.results) {
		r.selected = index
	}
}

// SelectedResult returns the currently selected result, or nil if none.
func (r *ResultList) SelectedResult() *driving.QueryResult {
	if len(r.results) == 0 || r.selected < 0 || r.selected >= len(r.results) {
		return nil
	}
	return &r.results[r.selected]
}

// MoveUp moves selection up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.results)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of results.
func (r *ResultList) Count() int {
	return len(r.results)
}

// IsEmpty returns whether the list is empty.
func (r *ResultList) IsEmpty() bool {
	return len(r.results) == 0
}
