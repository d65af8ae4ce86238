// Package clause provides the full clause view for the TUI.
package clause

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/clausefinder/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/clausefinder/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/clausefinder/internal/core/ports/driving"
)

// View shows one ranked clause with all of its metadata.
type View struct {
	styles *styles.Styles

	result       *driving.QueryResult
	rank         int
	scrollOffset int
	width        int
	height       int
	ready        bool
}

// NewView creates a new clause view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles: s,
		width:  80,
		height: 24,
	}
}

// SetResult sets the clause to display.
func (v *View) SetResult(result driving.QueryResult, rank int) {
	v.result = &result
	v.rank = rank
	v.scrollOffset = 0
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the clause view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.scrollOffset > 0 {
			v.scrollOffset--
		}
	case "down", "j":
		if v.scrollOffset < v.maxScrollOffset() {
			v.scrollOffset++
		}
	case "esc", "backspace":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewSearch}
		}
	}

	return v, nil
}

func (v *View) visibleLines() int {
	// title, separator, help and padding
	return max(v.height-6, 1)
}

func (v *View) maxScrollOffset() int {
	return max(len(v.buildContent())-v.visibleLines(), 0)
}

func (v *View) buildContent() []string {
	if v.result == nil {
		return nil
	}
	c := v.result.Metadata

	lines := []string{
		v.formatField("Rank", fmt.Sprintf("%d", v.rank)),
		v.formatField("Score", fmt.Sprintf("%.4f", v.result.Score)),
		v.formatField("Clause", fmt.Sprintf("#%d", c.ID)),
		v.formatField("Contact", c.Contact),
		"",
		"Summary:",
	}
	lines = append(lines, wrap(c.Summary, max(v.width-4, 20))...)

	if len(c.Keywords) > 0 {
		lines = append(lines, "", "Keywords:")
		for _, kw := range c.Keywords {
			lines = append(lines, "  "+kw)
		}
	}

	return lines
}

func (v *View) formatField(label, value string) string {
	return fmt.Sprintf("%-10s %s", label+":", value)
}

// wrap breaks text into lines of at most width runes on word boundaries.
func wrap(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var (
		lines []string
		line  strings.Builder
	)
	for _, w := range words {
		if line.Len() > 0 && len([]rune(line.String()))+1+len([]rune(w)) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(w)
	}
	return append(lines, line.String())
}

// View renders the clause view.
func (v *View) View() string {
	var b strings.Builder

	title := "Clause"
	if v.result != nil && v.result.Metadata.Title != "" {
		title = v.result.Metadata.Title
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", min(max(v.width-4, 1), 60)))
	b.WriteString("\n\n")

	if v.result == nil {
		b.WriteString(v.styles.Muted.Render("No clause selected"))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	lines := v.buildContent()
	visible := v.visibleLines()
	for i := v.scrollOffset; i < len(lines) && i < v.scrollOffset+visible; i++ {
		b.WriteString(v.renderLine(lines[i]))
		b.WriteString("\n")
	}

	if len(lines) > visible {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [Line %d-%d of %d]",
			v.scrollOffset+1, min(v.scrollOffset+visible, len(lines)), len(lines))))
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

func (v *View) renderLine(line string) string {
	switch {
	case line == "Summary:" || line == "Keywords:":
		return v.styles.Subtitle.Render(line)
	case strings.HasPrefix(line, "  "):
		return v.styles.Keyword.Render(strings.TrimSpace(line))
	case strings.HasPrefix(line, "Contact:"):
		return v.styles.Contact.Render(line)
	default:
		return v.styles.Normal.Render(line)
	}
}

func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓] scroll  [esc] back to results")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Result returns the displayed clause, or nil.
func (v *View) Result() *driving.QueryResult {
	return v.result
}

// ScrollOffset returns the first visible content line.
func (v *View) ScrollOffset() int {
	return v.scrollOffset
}
