// Package clauseparser turns free-form language-model output into clauses.
//
// Parsing is total: every input produces a domain.ParseResult and nothing
// panics or returns an error. Strategies are tried in order:
//
//  1. strict JSON (an array of objects, a single object, or {"clauses": [...]})
//  2. the first balanced [...] substring that parses as an array of objects
//  3. a field-marker heuristic over key/value fragments and lines
//
// Recovered objects are normalised into domain.Clause values.
package clauseparser
