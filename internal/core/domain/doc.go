// Package domain defines the core business entities for clausefinder.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Clause: A structured HR policy unit extracted from a document
//   - ClauseBatch: The clauses produced by one extraction run
//   - ParseResult: The tagged outcome of parsing model output
//   - EmbeddingRecord / IndexEntry: Vectors paired with clause metadata
//   - SearchResult: A ranked clause returned for a query
//   - PolicyDocument: A source document reduced to plain text
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
