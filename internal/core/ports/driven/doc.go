// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - EmbeddingService: Maps text to fixed-dimension vectors. The mock
//     backend is always available, so this is never nil at runtime.
//   - IndexBuilder / VectorIndex: Builds and searches the clause index.
//   - PromptStore: Extraction prompt templates.
//   - ConfigStore: Application configuration.
//   - Normaliser: Turns policy documents into plain text before extraction.
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Text generation. Without it, extraction uses the
//     deterministic mock rule table.
//   - ClauseStore: Clause batch persistence. Without it, batches are not written.
//   - IndexWatcher: Follows index artifacts on disk. Without it, serve --watch
//     is unavailable.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
