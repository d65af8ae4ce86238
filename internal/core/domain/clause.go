package domain

import (
	"strings"
	"time"
)

// DefaultContact is the fallback contact address for clauses that omit one.
const DefaultContact = "hr@company.com"

// Clause is one extracted HR policy unit.
type Clause struct {
	// ID is positive and unique within an extraction batch.
	ID int `json:"id"`

	// Title is a short, non-empty heading.
	Title string `json:"title"`

	// Summary is a one-sentence description of the policy.
	Summary string `json:"summary"`

	// Keywords are kept in the order the model produced them.
	Keywords []string `json:"keywords"`

	// Contact is who to ask about the clause.
	Contact string `json:"contact"`
}

// IsIndexable reports whether the clause carries both a title and a summary.
func (c Clause) IsIndexable() bool {
	return strings.TrimSpace(c.Title) != "" && strings.TrimSpace(c.Summary) != ""
}

// Text returns the canonical text used for embedding and display.
func (c Clause) Text() string {
	var b strings.Builder
	b.WriteString(c.Title)
	if c.Summary != "" {
		b.WriteString(": ")
		b.WriteString(c.Summary)
	}
	if len(c.Keywords) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(c.Keywords, ", "))
		b.WriteString(")")
	}
	return b.String()
}

// Clone returns a deep copy so index metadata never aliases caller slices.
func (c Clause) Clone() Clause {
	out := c
	out.Keywords = append([]string{}, c.Keywords...)
	return out
}

// ClauseBatch is the set of clauses produced by one extraction run.
type ClauseBatch struct {
	ID        string    `json:"batch_id"`
	CreatedAt time.Time `json:"created_at"`
	MockMode  bool      `json:"mock_mode"`
	Clauses   []Clause  `json:"clauses"`
}

// MergeBatches concatenates the clauses of batches in order. Clause IDs
// stay batch-local; the index ordinal is the corpus-wide position.
func MergeBatches(batches []ClauseBatch) []Clause {
	n := 0
	for _, b := range batches {
		n += len(b.Clauses)
	}
	out := make([]Clause, 0, n)
	for _, b := range batches {
		out = append(out, b.Clauses...)
	}
	return out
}

// Extraction is the result of running the extraction engine over one document.
type Extraction struct {
	// Clauses is never nil; an empty slice means nothing was extracted.
	Clauses []Clause

	// MockMode is true when the deterministic fallback produced the clauses.
	MockMode bool

	// Outcome describes how the model output parsed. Always ParseSuccess in mock mode.
	Outcome ParseOutcome

	// Skipped counts objects dropped during normalisation.
	Skipped int
}
