package domain

import "time"

// EmbeddingRecord pairs a clause with its vector. Records are read-only once created.
type EmbeddingRecord struct {
	Vector []float32
	Clause Clause
}

// IndexEntry is the persisted form of an EmbeddingRecord.
// Ordinal is the insertion position used to map search hits back to metadata.
type IndexEntry struct {
	Ordinal int       `json:"ordinal"`
	Vector  []float32 `json:"vector"`
	Clause  Clause    `json:"metadata"`
}

// SearchResult is a clause ranked against a query.
type SearchResult struct {
	// Ordinal is the clause's position in the index.
	Ordinal int

	// Text is the clause text shown to the user.
	Text string

	// Clause is the stored metadata.
	Clause Clause

	// Score is backend-specific; higher means more similar.
	Score float64
}

// IndexStats describes the currently served vector index.
type IndexStats struct {
	Backend    string
	Count      int
	Dimensions int
	BuiltAt    time.Time
}
