package driving

import (
	"context"

	"github.com/custodia-labs/clausefinder/internal/core/domain"
)

// ExtractionService turns free-text policy documents into clauses.
type ExtractionService interface {
	// Extract returns the clauses found in text.
	// Capability failures fall back to deterministic extraction and set MockMode;
	// only empty input is an error.
	Extract(ctx context.Context, text string) (domain.Extraction, error)
}
