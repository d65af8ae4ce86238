package ai

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/clausefinder/internal/core/domain"
	"github.com/custodia-labs/clausefinder/internal/core/ports/driven"
)

// Verify interface compliance.
var (
	_ driven.LLMService       = (*rateLimitedLLM)(nil)
	_ driven.EmbeddingService = (*rateLimitedEmbedding)(nil)
)

// newLimiter returns a token bucket allowing perSecond calls with a burst of
// one second's worth, or nil when perSecond <= 0.
func newLimiter(perSecond float64) *rate.Limiter {
	if perSecond <= 0 {
		return nil
	}
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(perSecond), burst)
}

func wait(ctx context.Context, l *rate.Limiter, capability string) error {
	if err := l.Wait(ctx); err != nil {
		return &domain.CapabilityError{Capability: capability, Op: "rate limit", Item: -1, Err: err}
	}
	return nil
}

type rateLimitedLLM struct {
	driven.LLMService
	limiter *rate.Limiter
}

// WithLLMRateLimit wraps svc so Generate calls are limited to perSecond.
// perSecond <= 0 returns svc unchanged.
func WithLLMRateLimit(svc driven.LLMService, perSecond float64) driven.LLMService {
	l := newLimiter(perSecond)
	if l == nil || svc == nil {
		return svc
	}
	return &rateLimitedLLM{LLMService: svc, limiter: l}
}

func (r *rateLimitedLLM) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	if err := wait(ctx, r.limiter, "llm"); err != nil {
		return "", err
	}
	return r.LLMService.Generate(ctx, prompt, opts)
}

type rateLimitedEmbedding struct {
	driven.EmbeddingService
	limiter *rate.Limiter
}

// WithEmbeddingRateLimit wraps svc so each Embed or EmbedBatch call takes
// one token. perSecond <= 0 returns svc unchanged.
func WithEmbeddingRateLimit(svc driven.EmbeddingService, perSecond float64) driven.EmbeddingService {
	l := newLimiter(perSecond)
	if l == nil || svc == nil {
		return svc
	}
	return &rateLimitedEmbedding{EmbeddingService: svc, limiter: l}
}

func (r *rateLimitedEmbedding) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := wait(ctx, r.limiter, "embedding"); err != nil {
		return nil, err
	}
	return r.EmbeddingService.Embed(ctx, text)
}

func (r *rateLimitedEmbedding) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := wait(ctx, r.limiter, "embedding"); err != nil {
		return nil, err
	}
	return r.EmbeddingService.EmbedBatch(ctx, texts)
}
