package domain

import "time"

const unknownDescription = "Unknown"

// Configuration defaults.
const (
	DefaultEmbeddingDimensions = 1536
	DefaultEmbeddingModel      = "text-embedding-3-small"
	DefaultLLMModel            = "gpt-4o-mini"
	DefaultMaxTokens           = 600
	DefaultTopK                = 3
	DefaultMockSeed            = 42
	DefaultCapabilityTimeout   = 30 * time.Second
	DefaultRateLimit           = 5.0
)

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderMock is the deterministic, credential-free backend.
	AIProviderMock AIProvider = "mock"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderAnthropic is Anthropic cloud API. It generates text only.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderMock, AIProviderOpenAI, AIProviderOllama, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs on the local machine.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// APIKeyEnv returns the environment variable consulted when no key is stored.
func (p AIProvider) APIKeyEnv() string {
	switch p {
	case AIProviderOpenAI:
		return "OPENAI_API_KEY"
	case AIProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return ""
	}
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderMock:
		return "Mock (deterministic, offline)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderMock,
		AIProviderOpenAI,
		AIProviderOllama,
	}
}

// AllLLMProviders returns providers that support text generation.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderMock,
		AIProviderOpenAI,
		AIProviderOllama,
		AIProviderAnthropic,
	}
}

// SupportsEmbeddings reports whether p appears in AllEmbeddingProviders.
func (p AIProvider) SupportsEmbeddings() bool {
	for _, e := range AllEmbeddingProviders() {
		if e == p {
			return true
		}
	}
	return false
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: DefaultEmbeddingModel,
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    DefaultLLMModel,
		AIProviderAnthropic: "claude-3-5-haiku-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}

// IndexBackend selects the vector index implementation.
type IndexBackend string

// Available index backends.
const (
	// IndexBackendFlat is the specialised exact L2 index with a binary artifact.
	IndexBackendFlat IndexBackend = "flat"

	// IndexBackendJSON is the plain-storage cosine fallback.
	IndexBackendJSON IndexBackend = "json"
)

// IsValid returns true if the backend is recognised.
func (b IndexBackend) IsValid() bool {
	return b == IndexBackendFlat || b == IndexBackendJSON
}

// String returns the string representation.
func (b IndexBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b IndexBackend) Description() string {
	switch b {
	case IndexBackendFlat:
		return "Flat (exact L2, binary index file)"
	case IndexBackendJSON:
		return "JSON (brute-force cosine, structured file)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (empty means the provider default).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions is the vector length for the lifetime of one index.
	Dimensions int
}

// IsConfigured returns true if a real embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() || e.Provider == AIProviderMock {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds text-generation provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the generation model identifier.
	Model string

	// BaseURL is the API endpoint (empty means the provider default).
	BaseURL string

	// APIKey is the API key (for OpenAI and Anthropic).
	APIKey string

	// Temperature is fixed at 0 so extraction output is reproducible.
	Temperature float64

	// MaxTokens bounds the generated output length.
	MaxTokens int
}

// IsConfigured returns true if a real LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() || l.Provider == AIProviderMock {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// IndexSettings holds vector index configuration.
type IndexSettings struct {
	// Backend selects the index implementation.
	Backend IndexBackend

	// Dir is where index artifacts and clause batches are written.
	// Empty keeps everything in memory.
	Dir string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Embedding EmbeddingSettings
	LLM       LLMSettings
	Index     IndexSettings

	// TopK is the default number of results for a query.
	TopK int

	// MockSeed seeds the deterministic mock embedding generator.
	MockSeed uint64

	// DefaultContact fills clauses whose contact is missing.
	DefaultContact string

	// CapabilityTimeout bounds every external capability call.
	CapabilityTimeout time.Duration

	// RateLimit is the maximum capability requests per second (0 disables).
	RateLimit float64
}

// DefaultAppSettings returns settings with sensible defaults.
// AI features default to the mock provider so the pipeline runs offline.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider:   AIProviderMock,
			Model:      DefaultEmbeddingModel,
			Dimensions: DefaultEmbeddingDimensions,
		},
		LLM: LLMSettings{
			Provider:    AIProviderMock,
			Model:       DefaultLLMModel,
			Temperature: 0,
			MaxTokens:   DefaultMaxTokens,
		},
		Index: IndexSettings{
			Backend: IndexBackendFlat,
		},
		TopK:              DefaultTopK,
		MockSeed:          DefaultMockSeed,
		DefaultContact:    DefaultContact,
		CapabilityTimeout: DefaultCapabilityTimeout,
		RateLimit:         DefaultRateLimit,
	}
}
