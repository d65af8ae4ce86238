// Package ai creates the text-generation and embedding capabilities from settings.
package ai

import (
	"context"
	"fmt"
	"time"

	mockembed "github.com/custodia-labs/clausefinder/internal/adapters/driven/embedding/mock"
	ollamaembed "github.com/custodia-labs/clausefinder/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/clausefinder/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/clausefinder/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/clausefinder/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/clausefinder/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/clausefinder/internal/core/domain"
	"github.com/custodia-labs/clausefinder/internal/core/ports/driven"
	"github.com/custodia-labs/clausefinder/internal/logger"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult contains the capabilities selected at startup.
type InitResult struct {
	// EmbeddingService is never nil; it is the mock embedder when no real
	// provider is configured or reachable.
	EmbeddingService driven.EmbeddingService

	// LLMService is nil when extraction should run in mock mode.
	LLMService driven.LLMService

	Warnings []string // Non-fatal issues that caused fallback.
	FellBack bool     // True if a configured provider was replaced.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		_ = r.EmbeddingService.Close()
	}
	if r.LLMService != nil {
		_ = r.LLMService.Close()
	}
}

// Init creates both capabilities, pinging real providers and falling back to
// mock behaviour when one cannot be created or reached.
func Init(ctx context.Context, settings domain.AppSettings) *InitResult {
	result := &InitResult{}

	embedder, err := CreateEmbeddingService(&settings.Embedding, settings.CapabilityTimeout)
	if err == nil && embedder != nil {
		err = ping(ctx, embedder.Ping)
		if err != nil {
			_ = embedder.Close()
			embedder = nil
		}
	}
	if err != nil {
		result.warn("embedding provider %s unavailable, using mock embeddings: %v", settings.Embedding.Provider, err)
	}
	if embedder == nil {
		embedder = mockembed.NewEmbeddingService(settings.Embedding.Dimensions, settings.MockSeed)
	} else {
		embedder = WithEmbeddingRateLimit(embedder, settings.RateLimit)
	}
	result.EmbeddingService = embedder

	llm, err := CreateLLMService(&settings.LLM, settings.CapabilityTimeout)
	if err == nil && llm != nil {
		err = ping(ctx, llm.Ping)
		if err != nil {
			_ = llm.Close()
			llm = nil
		}
	}
	if err != nil {
		result.warn("llm provider %s unavailable, extraction runs in mock mode: %v", settings.LLM.Provider, err)
	}
	if llm != nil {
		result.LLMService = WithLLMRateLimit(llm, settings.RateLimit)
	}

	return result
}

func (r *InitResult) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	logger.Warn("%s", msg)
	r.Warnings = append(r.Warnings, msg)
	r.FellBack = true
}

func ping(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return fn(ctx)
}

// ValidateEmbeddingConfig creates an embedding service from settings and pings it.
// Mock and unconfigured providers are always valid.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	svc, err := CreateEmbeddingService(settings, 0)
	if err != nil || svc == nil {
		return err
	}
	defer svc.Close()
	return ping(context.Background(), svc.Ping)
}

// ValidateLLMConfig creates an LLM service from settings and pings it.
// Mock and unconfigured providers are always valid.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	svc, err := CreateLLMService(settings, 0)
	if err != nil || svc == nil {
		return err
	}
	defer svc.Close()
	return ping(context.Background(), svc.Ping)
}

// CreateEmbeddingService creates the real embedding service for settings.
// Returns nil when the provider is mock or not configured.
func CreateEmbeddingService(settings *domain.EmbeddingSettings, timeout time.Duration) (driven.EmbeddingService, error) {
	if settings == nil {
		return nil, nil
	}
	if settings.Provider.IsValid() && !settings.Provider.SupportsEmbeddings() {
		return nil, &domain.CapabilityError{
			Capability: settings.Provider.String() + " embedding", Op: "configure", Item: -1,
			Err: fmt.Errorf("%s does not support embeddings, use ollama or openai", settings.Provider),
		}
	}
	if settings.Provider.RequiresAPIKey() && settings.APIKey == "" {
		return nil, &domain.CapabilityError{
			Capability: settings.Provider.String() + " embedding", Op: "configure", Item: -1,
			Err: domain.ErrMissingAPIKey,
		}
	}
	if !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Timeout:    timeout,
			Dimensions: settings.Dimensions,
		}), nil

	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Timeout:    timeout,
			Dimensions: settings.Dimensions,
		})

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateLLMService creates the real LLM service for settings.
// Returns nil when the provider is mock or not configured.
func CreateLLMService(settings *domain.LLMSettings, timeout time.Duration) (driven.LLMService, error) {
	if settings == nil {
		return nil, nil
	}
	if settings.Provider.RequiresAPIKey() && settings.APIKey == "" {
		return nil, &domain.CapabilityError{
			Capability: settings.Provider.String() + " llm", Op: "configure", Item: -1,
			Err: domain.ErrMissingAPIKey,
		}
	}
	if !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: timeout,
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: timeout,
		})

	case domain.AIProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: timeout,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}
