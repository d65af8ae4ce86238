package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAIProvider_IsValid(t *testing.T) {
	tests := []struct {
		provider AIProvider
		want     bool
	}{
		{AIProviderMock, true},
		{AIProviderOpenAI, true},
		{AIProviderOllama, true},
		{AIProviderAnthropic, true},
		{AIProvider("cohere"), false},
		{AIProvider(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.provider), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.provider.IsValid())
		})
	}
}

func TestAIProvider_Description(t *testing.T) {
	assert.Equal(t, "OpenAI (cloud)", AIProviderOpenAI.Description())
	assert.Equal(t, "Unknown", AIProvider("other").Description())
}

func TestAIProvider_Capabilities(t *testing.T) {
	assert.True(t, AIProviderOllama.SupportsEmbeddings())
	assert.True(t, AIProviderMock.SupportsEmbeddings())
	assert.False(t, AIProviderAnthropic.SupportsEmbeddings())
	assert.Contains(t, AllLLMProviders(), AIProviderAnthropic)

	assert.True(t, AIProviderAnthropic.RequiresAPIKey())
	assert.False(t, AIProviderOllama.RequiresAPIKey())
	assert.Equal(t, "ANTHROPIC_API_KEY", AIProviderAnthropic.APIKeyEnv())
	assert.Equal(t, "OPENAI_API_KEY", AIProviderOpenAI.APIKeyEnv())
	assert.Empty(t, AIProviderOllama.APIKeyEnv())
}

func TestDefaultModels(t *testing.T) {
	dims := EmbeddingDimensions()
	for provider, model := range DefaultEmbeddingModels() {
		assert.Positive(t, dims[model], "default %s model %s has known dimensions", provider, model)
	}
	assert.Equal(t, DefaultEmbeddingDimensions, dims[DefaultEmbeddingModel])
	assert.Equal(t, 768, dims[DefaultEmbeddingModels()[AIProviderOllama]])

	for _, p := range AllLLMProviders() {
		if p == AIProviderMock {
			continue
		}
		assert.NotEmpty(t, DefaultLLMModels()[p], "default model for %s", p)
	}
}

func TestIndexBackend_IsValid(t *testing.T) {
	assert.True(t, IndexBackendFlat.IsValid())
	assert.True(t, IndexBackendJSON.IsValid())
	assert.False(t, IndexBackend("faiss").IsValid())
}

func TestEmbeddingSettings_IsConfigured(t *testing.T) {
	tests := []struct {
		name     string
		settings EmbeddingSettings
		want     bool
	}{
		{"mock is never a real provider", EmbeddingSettings{Provider: AIProviderMock}, false},
		{"openai without key", EmbeddingSettings{Provider: AIProviderOpenAI}, false},
		{"openai with key", EmbeddingSettings{Provider: AIProviderOpenAI, APIKey: "sk-test"}, true},
		{"ollama needs no key", EmbeddingSettings{Provider: AIProviderOllama}, true},
		{"unset", EmbeddingSettings{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.settings.IsConfigured())
		})
	}
}

func TestLLMSettings_IsConfigured(t *testing.T) {
	assert.False(t, LLMSettings{Provider: AIProviderOpenAI}.IsConfigured())
	assert.True(t, LLMSettings{Provider: AIProviderOpenAI, APIKey: "sk-test"}.IsConfigured())
	assert.False(t, LLMSettings{Provider: AIProviderMock}.IsConfigured())
}

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, 1536, s.Embedding.Dimensions)
	assert.Equal(t, AIProviderMock, s.Embedding.Provider)
	assert.Equal(t, 0.0, s.LLM.Temperature)
	assert.Equal(t, 600, s.LLM.MaxTokens)
	assert.Equal(t, 3, s.TopK)
	assert.Equal(t, uint64(42), s.MockSeed)
	assert.Equal(t, "hr@company.com", s.DefaultContact)
	assert.Equal(t, IndexBackendFlat, s.Index.Backend)
}
