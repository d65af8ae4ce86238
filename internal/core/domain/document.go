package domain

import (
	"path/filepath"
	"strings"
)

// Document formats recognised by the normalisers.
const (
	FormatPlainText = "text"
	FormatMarkdown  = "markdown"
	FormatHTML      = "html"
	FormatDOCX      = "docx"
)

// PolicyDocument is a policy document reduced to plain text, ready for extraction.
type PolicyDocument struct {
	// Name is where the document came from (file path, or "-" for stdin).
	Name string

	// Title is the document's own title, or one derived from Name.
	Title string

	// Format is the source format the text was normalised from.
	Format string

	// Text is the full plain text.
	Text string
}

// IsEmpty reports whether the document has no usable text.
func (d PolicyDocument) IsEmpty() bool {
	return strings.TrimSpace(d.Text) == ""
}

// TitleFromName derives a readable title from a file name.
// "annual-leave_policy.md" becomes "annual leave policy".
func TitleFromName(name string) string {
	if name == "" || name == "-" {
		return ""
	}
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.ReplaceAll(base, "_", " ")
	return strings.ReplaceAll(base, "-", " ")
}
