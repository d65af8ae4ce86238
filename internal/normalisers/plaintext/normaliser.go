// Package plaintext normalises plain text policy documents.
package plaintext

import (
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/clausefinder/internal/core/domain"
	"github.com/custodia-labs/clausefinder/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text. It is the registry fallback.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Format returns domain.FormatPlainText.
func (n *Normaliser) Format() string {
	return domain.FormatPlainText
}

// Extensions returns the extensions this normaliser handles.
func (n *Normaliser) Extensions() []string {
	return []string{".txt", ".text", ".policy"}
}

// Normalise strips a byte order mark, unifies line endings and drops
// invalid UTF-8.
func (n *Normaliser) Normalise(name string, data []byte) (domain.PolicyDocument, error) {
	text := string(data)
	text = strings.TrimPrefix(text, "\ufeff")
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "")
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	return domain.PolicyDocument{
		Title: domain.TitleFromName(name),
		Text:  strings.TrimSpace(text),
	}, nil
}
