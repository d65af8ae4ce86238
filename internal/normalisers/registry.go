package normalisers

import (
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/custodia-labs/clausefinder/internal/core/domain"
	"github.com/custodia-labs/clausefinder/internal/core/ports/driven"
	"github.com/custodia-labs/clausefinder/internal/logger"
	"github.com/custodia-labs/clausefinder/internal/normalisers/docx"
	"github.com/custodia-labs/clausefinder/internal/normalisers/html"
	"github.com/custodia-labs/clausefinder/internal/normalisers/markdown"
	"github.com/custodia-labs/clausefinder/internal/normalisers/plaintext"
)

// Registry maps file extensions to normalisers.
type Registry struct {
	byExt    map[string]driven.Normaliser
	fallback driven.Normaliser
}

// NewRegistry creates a registry. fallback handles unknown extensions and stdin.
// A later normaliser wins when two claim the same extension.
func NewRegistry(fallback driven.Normaliser, normalisers ...driven.Normaliser) *Registry {
	r := &Registry{
		byExt:    make(map[string]driven.Normaliser),
		fallback: fallback,
	}
	for _, n := range append([]driven.Normaliser{fallback}, normalisers...) {
		r.Register(n)
	}
	return r
}

// Default returns a registry with every built-in format.
func Default() *Registry {
	return NewRegistry(plaintext.New(), markdown.New(), html.New(), docx.New())
}

// Register adds n for each of its extensions.
func (r *Registry) Register(n driven.Normaliser) {
	for _, ext := range n.Extensions() {
		r.byExt[strings.ToLower(ext)] = n
	}
}

// For returns the normaliser for name.
func (r *Registry) For(name string) driven.Normaliser {
	if n, ok := r.byExt[strings.ToLower(filepath.Ext(name))]; ok {
		return n
	}
	return r.fallback
}

// Extensions lists the registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	return slices.Sorted(maps.Keys(r.byExt))
}

// Normalise converts data read from name into a policy document.
func (r *Registry) Normalise(name string, data []byte) (domain.PolicyDocument, error) {
	n := r.For(name)
	logger.Debug("Normalising %s as %s", name, n.Format())

	doc, err := n.Normalise(name, data)
	if err != nil {
		return domain.PolicyDocument{}, err
	}
	doc.Name = name
	doc.Format = n.Format()
	return doc, nil
}
