package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/clausefinder/internal/clauseparser"
	"github.com/custodia-labs/clausefinder/internal/core/domain"
	"github.com/custodia-labs/clausefinder/internal/core/ports/driven"
	"github.com/custodia-labs/clausefinder/internal/core/ports/driving"
	"github.com/custodia-labs/clausefinder/internal/logger"
)

var errNotConfigured = errors.New("not configured")

// Ensure ExtractionService implements the interface.
var _ driving.ExtractionService = (*ExtractionService)(nil)

// ExtractionConfig holds extraction settings.
type ExtractionConfig struct {
	// MaxTokens bounds the generated output. Zero selects domain.DefaultMaxTokens.
	MaxTokens int

	// Timeout bounds the capability call. Zero selects domain.DefaultCapabilityTimeout.
	Timeout time.Duration

	// DefaultContact fills clauses without a contact.
	DefaultContact string
}

// ExtractionConfigFromSettings derives an ExtractionConfig.
func ExtractionConfigFromSettings(s *domain.AppSettings) ExtractionConfig {
	return ExtractionConfig{
		MaxTokens:      s.LLM.MaxTokens,
		Timeout:        s.CapabilityTimeout,
		DefaultContact: s.DefaultContact,
	}
}

// ExtractionService turns policy documents into clauses. It uses the LLM
// when one is configured and falls back to deterministic rules otherwise.
type ExtractionService struct {
	llm     driven.LLMService
	prompts driven.PromptStore
	store   driven.ClauseStore
	parser  *clauseparser.Parser
	cfg     ExtractionConfig
	now     func() time.Time
}

// NewExtractionService creates an extraction service.
// llm and prompts may be nil; without both, every call uses mock extraction.
func NewExtractionService(llm driven.LLMService, prompts driven.PromptStore, cfg ExtractionConfig) *ExtractionService {
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = domain.DefaultMaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = domain.DefaultCapabilityTimeout
	}
	if cfg.DefaultContact == "" {
		cfg.DefaultContact = domain.DefaultContact
	}

	return &ExtractionService{
		llm:     llm,
		prompts: prompts,
		parser:  clauseparser.New(cfg.DefaultContact),
		cfg:     cfg,
		now:     time.Now,
	}
}

// SetClauseStore enables persisting each extraction batch.
func (s *ExtractionService) SetClauseStore(store driven.ClauseStore) {
	s.store = store
}

// Extract returns the clauses found in text.
func (s *ExtractionService) Extract(ctx context.Context, text string) (domain.Extraction, error) {
	logger.Section("Clause Extraction")

	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Extraction{}, domain.InvalidArgument("document text is empty")
	}
	logger.Debug("Document length: %d bytes", len(text))

	result, err := s.extractWithLLM(ctx, text)
	if err != nil {
		logger.Warn("Falling back to mock extraction: %v", err)
		result = domain.Extraction{
			Clauses:  mockExtract(text, s.cfg.DefaultContact),
			MockMode: true,
			Outcome:  domain.ParseSuccess,
		}
	}
	logger.Info("Extracted %d clauses (mock=%t)", len(result.Clauses), result.MockMode)

	s.save(ctx, result)
	return result, nil
}

func (s *ExtractionService) extractWithLLM(ctx context.Context, text string) (domain.Extraction, error) {
	if s.llm == nil || s.prompts == nil {
		return domain.Extraction{}, &domain.CapabilityError{
			Capability: "llm", Op: "generate", Item: -1, Err: errNotConfigured,
		}
	}

	tmpl, err := s.prompts.Load(driven.PromptClauseExtraction)
	if err != nil {
		return domain.Extraction{}, fmt.Errorf("load prompt: %w", err)
	}
	prompt, err := renderPrompt(tmpl, map[string]string{"document": text})
	if err != nil {
		return domain.Extraction{}, fmt.Errorf("render prompt: %w", err)
	}
	system, _ := s.prompts.Load(driven.PromptExtractionSystem)

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	logger.Debug("Calling %s (max_tokens=%d, timeout=%s)", s.llm.ModelName(), s.cfg.MaxTokens, s.cfg.Timeout)
	raw, err := s.llm.Generate(ctx, prompt, driven.GenerateOptions{
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: 0,
		System:      system,
	})
	if err != nil {
		return domain.Extraction{}, &domain.CapabilityError{
			Capability: "llm", Op: "generate", Item: -1, Err: err,
		}
	}

	parsed := s.parser.Parse(raw)
	if parsed.Outcome == domain.ParseEmpty {
		// Unparseable output is an empty result, not an LLM failure.
		logger.Warn("%v", fmt.Errorf("%w: strategy=%s skipped=%d",
			domain.ErrParseFailure, parsed.Strategy, parsed.Skipped))
		return domain.Extraction{
			Clauses: []domain.Clause{},
			Outcome: domain.ParseEmpty,
			Skipped: parsed.Skipped,
		}, nil
	}
	if parsed.Outcome == domain.ParsePartial {
		logger.Warn("Dropped %d clause objects without title or summary", parsed.Skipped)
	}

	return domain.Extraction{
		Clauses: parsed.Clauses,
		Outcome: parsed.Outcome,
		Skipped: parsed.Skipped,
	}, nil
}

func (s *ExtractionService) save(ctx context.Context, result domain.Extraction) {
	if s.store == nil {
		return
	}
	batch := domain.ClauseBatch{
		CreatedAt: s.now().UTC(),
		MockMode:  result.MockMode,
		Clauses:   result.Clauses,
	}
	path, err := s.store.Save(ctx, batch)
	if err != nil {
		logger.Error("Failed to save clause batch: %v", err)
		return
	}
	logger.Debug("Saved clause batch to %s", path)
}
