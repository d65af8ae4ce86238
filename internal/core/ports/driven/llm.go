package driven

import "context"

// LLMService provides text generation for clause extraction.
// This is an optional service - when nil, extraction falls back to the
// deterministic mock rule table.
//
// Implementations may include:
//   - OpenAI (gpt-4o-mini, gpt-4o)
//   - Ollama (local models)
//   - Anthropic (claude-3-5-haiku, claude-3-5-sonnet)
type LLMService interface {
	// Generate produces text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	// This is used at startup to decide between live and mock extraction.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness. Extraction always sends 0.
	Temperature float64

	// System is an optional system message sent before the prompt.
	System string
}
