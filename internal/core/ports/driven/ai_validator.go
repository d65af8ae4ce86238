package driven

import "github.com/custodia-labs/clausefinder/internal/core/domain"

// AIConfigValidator checks provider settings before they are saved.
// A mock provider always validates; real providers are pinged.
type AIConfigValidator interface {
	// ValidateEmbedding creates the configured embedder and pings it.
	ValidateEmbedding(config *domain.EmbeddingSettings) error

	// ValidateLLM creates the configured extraction model and pings it.
	ValidateLLM(config *domain.LLMSettings) error
}
