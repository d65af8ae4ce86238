package normalisers

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clausefinder/internal/core/domain"
	"github.com/custodia-labs/clausefinder/internal/core/ports/driven"
)

type stubNormaliser struct {
	format string
	exts   []string
	err    error
}

func (s *stubNormaliser) Format() string       { return s.format }
func (s *stubNormaliser) Extensions() []string { return s.exts }
func (s *stubNormaliser) Normalise(_ string, data []byte) (domain.PolicyDocument, error) {
	if s.err != nil {
		return domain.PolicyDocument{}, s.err
	}
	return domain.PolicyDocument{Text: s.format + ":" + string(data)}, nil
}

var _ driven.Normaliser = (*stubNormaliser)(nil)

func TestRegistry_For(t *testing.T) {
	text := &stubNormaliser{format: "text", exts: []string{".txt"}}
	md := &stubNormaliser{format: "markdown", exts: []string{".md"}}
	r := NewRegistry(text, md)

	assert.Same(t, md, r.For("policy.md"))
	assert.Same(t, md, r.For("POLICY.MD"), "extensions are case-insensitive")
	assert.Same(t, text, r.For("policy.txt"))
	assert.Same(t, text, r.For("policy.unknown"))
	assert.Same(t, text, r.For("-"))
}

func TestRegistry_LaterRegistrationWins(t *testing.T) {
	first := &stubNormaliser{format: "a", exts: []string{".x"}}
	second := &stubNormaliser{format: "b", exts: []string{".x"}}
	r := NewRegistry(first, second)

	assert.Same(t, second, r.For("file.x"))
}

func TestRegistry_Normalise(t *testing.T) {
	r := NewRegistry(&stubNormaliser{format: "text"}, &stubNormaliser{format: "html", exts: []string{".html"}})

	doc, err := r.Normalise("page.html", []byte("body"))

	require.NoError(t, err)
	assert.Equal(t, "page.html", doc.Name)
	assert.Equal(t, "html", doc.Format)
	assert.Equal(t, "html:body", doc.Text)
}

func TestRegistry_NormaliseError(t *testing.T) {
	fail := errors.New("corrupt")
	r := NewRegistry(&stubNormaliser{format: "text", err: fail})

	_, err := r.Normalise("x.txt", nil)

	assert.ErrorIs(t, err, fail)
}

func TestDefault(t *testing.T) {
	r := Default()

	assert.Equal(t, []string{".docx", ".htm", ".html", ".markdown", ".md", ".policy", ".text", ".txt", ".xhtml"}, r.Extensions())
	assert.Equal(t, domain.FormatDOCX, r.For("handbook.docx").Format())
	assert.Equal(t, domain.FormatHTML, r.For("page.htm").Format())
	assert.Equal(t, domain.FormatMarkdown, r.For("README.md").Format())
	assert.Equal(t, domain.FormatPlainText, r.For("notes.rtf").Format())
}

func TestDefault_MarkdownEndToEnd(t *testing.T) {
	doc, err := Default().Normalise("leave.md", []byte("# Leave\n\n- **25** days of annual leave"))

	require.NoError(t, err)
	assert.Equal(t, "Leave", doc.Title)
	assert.Equal(t, domain.FormatMarkdown, doc.Format)
	assert.Equal(t, "Leave\n\n25 days of annual leave", doc.Text)
}
