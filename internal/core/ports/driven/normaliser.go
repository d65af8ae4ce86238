package driven

import "github.com/custodia-labs/clausefinder/internal/core/domain"

// Normaliser converts one document format into plain policy text.
type Normaliser interface {
	// Format is the domain format name, e.g. domain.FormatHTML.
	Format() string

	// Extensions lists the lower-case file extensions handled, with the dot.
	Extensions() []string

	// Normalise converts raw bytes read from name.
	Normalise(name string, data []byte) (domain.PolicyDocument, error)
}
