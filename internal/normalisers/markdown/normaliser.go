// Package markdown normalises Markdown policy documents.
package markdown

import (
	"regexp"
	"strings"

	"github.com/custodia-labs/clausefinder/internal/core/domain"
	"github.com/custodia-labs/clausefinder/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Markdown documents.
type Normaliser struct{}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Format returns domain.FormatMarkdown.
func (n *Normaliser) Format() string {
	return domain.FormatMarkdown
}

// Extensions returns the extensions this normaliser handles.
func (n *Normaliser) Extensions() []string {
	return []string{".md", ".markdown"}
}

// Normalise converts Markdown to plain text. The first H1 heading is the title.
func (n *Normaliser) Normalise(name string, data []byte) (domain.PolicyDocument, error) {
	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	return domain.PolicyDocument{
		Title: extractTitle(content, name),
		Text:  stripMarkdown(content),
	}, nil
}

func extractTitle(content, name string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "#"))
		}
	}
	return domain.TitleFromName(name)
}

var (
	codeBlock     = regexp.MustCompile("(?s)```.*?```")
	inlineCode    = regexp.MustCompile("`([^`]+)`")
	images        = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	links         = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	headings      = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	blockquote    = regexp.MustCompile(`(?m)^>\s*`)
	horizontal    = regexp.MustCompile(`(?m)^\s*[-*_]{3,}\s*$`)
	listMarkers   = regexp.MustCompile(`(?m)^\s*[-*+]\s+`)
	numberedList  = regexp.MustCompile(`(?m)^\s*\d+[.)]\s+`)
	emphasis      = regexp.MustCompile(`(\*\*|__|\*|_)([^*_\n]+)(\*\*|__|\*|_)`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
)

// stripMarkdown removes common Markdown formatting. Code blocks are dropped;
// policies rarely carry code and fences confuse extraction.
func stripMarkdown(content string) string {
	content = codeBlock.ReplaceAllString(content, "")
	content = inlineCode.ReplaceAllString(content, "$1")
	content = images.ReplaceAllString(content, "")
	content = links.ReplaceAllString(content, "$1")
	content = headings.ReplaceAllString(content, "")
	content = blockquote.ReplaceAllString(content, "")
	content = horizontal.ReplaceAllString(content, "")
	content = listMarkers.ReplaceAllString(content, "")
	content = numberedList.ReplaceAllString(content, "")
	content = emphasis.ReplaceAllString(content, "$2")
	content = multiNewlines.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}
