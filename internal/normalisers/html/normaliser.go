// Package html normalises HTML policy pages, such as intranet exports.
package html

import (
	"html"
	"regexp"
	"strings"

	"github.com/custodia-labs/clausefinder/internal/core/domain"
	"github.com/custodia-labs/clausefinder/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles HTML documents.
type Normaliser struct{}

// New creates a new HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Format returns domain.FormatHTML.
func (n *Normaliser) Format() string {
	return domain.FormatHTML
}

// Extensions returns the extensions this normaliser handles.
func (n *Normaliser) Extensions() []string {
	return []string{".html", ".htm", ".xhtml"}
}

// Normalise strips markup, keeping block structure as line breaks.
func (n *Normaliser) Normalise(name string, data []byte) (domain.PolicyDocument, error) {
	content := string(data)
	return domain.PolicyDocument{
		Title: extractTitle(content, name),
		Text:  stripHTML(content),
	}, nil
}

// Pre-compiled tag patterns.
var (
	titleTag          = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	h1Tag             = regexp.MustCompile(`(?is)<h1[^>]*>(.*?)</h1>`)
	scriptTag         = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag          = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptTag       = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	headTag           = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	svgTag            = regexp.MustCompile(`(?is)<svg[^>]*>.*?</svg>`)
	htmlComments      = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockElements     = regexp.MustCompile(`(?i)</(p|div|br|hr|h[1-6]|li|tr|blockquote|pre|table|section|article)>`)
	openBlockElements = regexp.MustCompile(`(?i)<(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)[^>]*>`)
	brTags            = regexp.MustCompile(`(?i)<br\s*/?>`)
	hrTags            = regexp.MustCompile(`(?i)<hr\s*/?>`)
	allTags           = regexp.MustCompile(`<[^>]+>`)
	multiSpaces       = regexp.MustCompile(`[ \t]+`)
)

// extractTitle reads <title>, then the first <h1>, then falls back to the file name.
func extractTitle(content, name string) string {
	for _, re := range []*regexp.Regexp{titleTag, h1Tag} {
		if m := re.FindStringSubmatch(content); len(m) > 1 {
			title := strings.TrimSpace(html.UnescapeString(allTags.ReplaceAllString(m[1], "")))
			if title != "" {
				return title
			}
		}
	}
	return domain.TitleFromName(name)
}

// stripHTML removes markup and returns one trimmed line per text block.
func stripHTML(content string) string {
	for _, re := range []*regexp.Regexp{scriptTag, styleTag, noscriptTag, headTag, svgTag, htmlComments} {
		content = re.ReplaceAllString(content, "")
	}

	// Block elements become line breaks.
	for _, re := range []*regexp.Regexp{openBlockElements, blockElements, brTags, hrTags} {
		content = re.ReplaceAllString(content, "\n")
	}

	content = allTags.ReplaceAllString(content, "")
	content = html.UnescapeString(content)
	content = multiSpaces.ReplaceAllString(content, " ")

	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			result = append(result, line)
		}
	}
	return strings.Join(result, "\n")
}
