package services

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/clausefinder/internal/core/domain"
	"github.com/custodia-labs/clausefinder/internal/core/ports/driven"
	"github.com/custodia-labs/clausefinder/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	KeyEmbedProvider  = "embedding.provider"
	KeyEmbedModel     = "embedding.model"
	KeyEmbedBaseURL   = "embedding.base_url"
	KeyEmbedAPIKey    = "embedding.api_key"
	KeyEmbedDims      = "embedding.dimensions"
	KeyLLMProvider    = "llm.provider"
	KeyLLMModel       = "llm.model"
	KeyLLMBaseURL     = "llm.base_url"
	KeyLLMAPIKey      = "llm.api_key"
	KeyLLMMaxTokens   = "llm.max_tokens"
	KeyIndexBackend   = "index.backend"
	KeyIndexDir       = "index.dir"
	KeyTopK           = "retrieval.top_k"
	KeyMockSeed       = "retrieval.mock_seed"
	KeyDefaultContact = "extraction.default_contact"
	KeyCapTimeout     = "capability.timeout"
	KeyCapRateLimit   = "capability.rate_limit"
)

const (
	defaultOllamaURL  = "http://localhost:11434"
	secretPlaceholder = "********"
	secretKeySuffix   = ".api_key"

	errUnknownKeyFmt   = "unknown setting %q"
	errInvalidValueFmt = "invalid value %q for %s: %w"
)

// SettingKeys lists every key accepted by Set, in display order.
var SettingKeys = []string{
	KeyEmbedProvider, KeyEmbedModel, KeyEmbedBaseURL, KeyEmbedAPIKey, KeyEmbedDims,
	KeyLLMProvider, KeyLLMModel, KeyLLMBaseURL, KeyLLMAPIKey, KeyLLMMaxTokens,
	KeyIndexBackend, KeyIndexDir,
	KeyTopK, KeyMockSeed, KeyDefaultContact,
	KeyCapTimeout, KeyCapRateLimit,
}

// IsSecretKey reports whether a setting holds a credential.
func IsSecretKey(key string) bool {
	return strings.HasSuffix(key, secretKeySuffix)
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
// aiValidator may be nil, in which case the Validate*Config methods are no-ops.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings.
// Missing or invalid values fall back to defaults. A key missing from the
// config file is taken from the provider's environment variable
// (OPENAI_API_KEY, ANTHROPIC_API_KEY).
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider:   s.getProvider(KeyEmbedProvider, defaults.Embedding.Provider),
			Model:      s.getString(KeyEmbedModel, defaults.Embedding.Model),
			BaseURL:    s.configStore.GetString(KeyEmbedBaseURL),
			APIKey:     s.configStore.GetString(KeyEmbedAPIKey),
			Dimensions: s.getPositiveInt(KeyEmbedDims, defaults.Embedding.Dimensions),
		},
		LLM: domain.LLMSettings{
			Provider:    s.getProvider(KeyLLMProvider, defaults.LLM.Provider),
			Model:       s.getString(KeyLLMModel, defaults.LLM.Model),
			BaseURL:     s.configStore.GetString(KeyLLMBaseURL),
			APIKey:      s.configStore.GetString(KeyLLMAPIKey),
			Temperature: defaults.LLM.Temperature,
			MaxTokens:   s.getPositiveInt(KeyLLMMaxTokens, defaults.LLM.MaxTokens),
		},
		Index: domain.IndexSettings{
			Backend: s.getBackend(defaults.Index.Backend),
			Dir:     s.configStore.GetString(KeyIndexDir),
		},
		TopK:              s.getPositiveInt(KeyTopK, defaults.TopK),
		MockSeed:          s.getSeed(defaults.MockSeed),
		DefaultContact:    s.getString(KeyDefaultContact, defaults.DefaultContact),
		CapabilityTimeout: s.getDuration(KeyCapTimeout, defaults.CapabilityTimeout),
		RateLimit:         s.getRate(defaults.RateLimit),
	}

	if settings.Embedding.APIKey == "" {
		settings.Embedding.APIKey = s.envKey(settings.Embedding.Provider)
	}
	if settings.LLM.APIKey == "" {
		settings.LLM.APIKey = s.envKey(settings.LLM.Provider)
	}

	return settings, nil
}

// Save persists application settings.
// API keys are only written when set, so keys from the environment are never copied to disk
// unless the caller asks for it explicitly.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{KeyEmbedProvider, settings.Embedding.Provider.String()},
		{KeyEmbedModel, settings.Embedding.Model},
		{KeyEmbedBaseURL, settings.Embedding.BaseURL},
		{KeyEmbedDims, settings.Embedding.Dimensions},
		{KeyLLMProvider, settings.LLM.Provider.String()},
		{KeyLLMModel, settings.LLM.Model},
		{KeyLLMBaseURL, settings.LLM.BaseURL},
		{KeyLLMMaxTokens, settings.LLM.MaxTokens},
		{KeyIndexBackend, settings.Index.Backend.String()},
		{KeyIndexDir, settings.Index.Dir},
		{KeyTopK, settings.TopK},
		{KeyMockSeed, int64(settings.MockSeed)}, //nolint:gosec // seeds are small
		{KeyDefaultContact, settings.DefaultContact},
		{KeyCapTimeout, settings.CapabilityTimeout.String()},
		{KeyCapRateLimit, settings.RateLimit},
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	if settings.Embedding.APIKey != "" && settings.Embedding.APIKey != s.envKey(settings.Embedding.Provider) {
		if err := s.configStore.Set(KeyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", KeyEmbedAPIKey, err)
		}
	}
	if settings.LLM.APIKey != "" && settings.LLM.APIKey != s.envKey(settings.LLM.Provider) {
		if err := s.configStore.Set(KeyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", KeyLLMAPIKey, err)
		}
	}

	return nil
}

// Set parses value for key and persists it.
func (s *SettingsService) Set(key, value string) error {
	value = strings.TrimSpace(value)

	var stored any
	switch key {
	case KeyEmbedProvider, KeyLLMProvider:
		provider := domain.AIProvider(strings.ToLower(value))
		if !provider.IsValid() || (key == KeyEmbedProvider && !provider.SupportsEmbeddings()) {
			return fmt.Errorf(errInvalidValueFmt, value, key, domain.ErrInvalidArgument)
		}
		stored = provider.String()
	case KeyIndexBackend:
		backend := domain.IndexBackend(strings.ToLower(value))
		if !backend.IsValid() {
			return fmt.Errorf(errInvalidValueFmt, value, key, domain.ErrInvalidArgument)
		}
		stored = backend.String()
	case KeyEmbedDims, KeyLLMMaxTokens, KeyTopK:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf(errInvalidValueFmt, value, key, domain.ErrInvalidArgument)
		}
		stored = n
	case KeyMockSeed:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil || n < 0 {
			return fmt.Errorf(errInvalidValueFmt, value, key, domain.ErrInvalidArgument)
		}
		stored = n
	case KeyCapTimeout:
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return fmt.Errorf(errInvalidValueFmt, value, key, domain.ErrInvalidArgument)
		}
		stored = d.String()
	case KeyCapRateLimit:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return fmt.Errorf(errInvalidValueFmt, value, key, domain.ErrInvalidArgument)
		}
		stored = f
	case KeyEmbedModel, KeyEmbedBaseURL, KeyEmbedAPIKey,
		KeyLLMModel, KeyLLMBaseURL, KeyLLMAPIKey,
		KeyIndexDir, KeyDefaultContact:
		stored = value
	default:
		return fmt.Errorf(errUnknownKeyFmt+": %w", key, domain.ErrInvalidArgument)
	}

	if err := s.configStore.Set(key, stored); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Display returns every setting as key/value strings with secrets masked.
func (s *SettingsService) Display() ([][2]string, error) {
	settings, err := s.Get()
	if err != nil {
		return nil, err
	}

	mask := func(v string) string {
		if v == "" {
			return ""
		}
		return secretPlaceholder
	}

	return [][2]string{
		{KeyEmbedProvider, settings.Embedding.Provider.String()},
		{KeyEmbedModel, settings.Embedding.Model},
		{KeyEmbedBaseURL, settings.Embedding.BaseURL},
		{KeyEmbedAPIKey, mask(settings.Embedding.APIKey)},
		{KeyEmbedDims, strconv.Itoa(settings.Embedding.Dimensions)},
		{KeyLLMProvider, settings.LLM.Provider.String()},
		{KeyLLMModel, settings.LLM.Model},
		{KeyLLMBaseURL, settings.LLM.BaseURL},
		{KeyLLMAPIKey, mask(settings.LLM.APIKey)},
		{KeyLLMMaxTokens, strconv.Itoa(settings.LLM.MaxTokens)},
		{KeyIndexBackend, settings.Index.Backend.String()},
		{KeyIndexDir, settings.Index.Dir},
		{KeyTopK, strconv.Itoa(settings.TopK)},
		{KeyMockSeed, strconv.FormatUint(settings.MockSeed, 10)},
		{KeyDefaultContact, settings.DefaultContact},
		{KeyCapTimeout, settings.CapabilityTimeout.String()},
		{KeyCapRateLimit, strconv.FormatFloat(settings.RateLimit, 'f', -1, 64)},
	}, nil
}

// SetEmbeddingProvider configures the embedding provider.
// An empty model selects the provider's default, and the dimensions follow
// the model whenever it is a known one.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}
	if !provider.SupportsEmbeddings() {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" && s.envKey(provider) == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Embedding.Model = model
	} else if defaultModel, ok := domain.DefaultEmbeddingModels()[provider]; ok {
		settings.Embedding.Model = defaultModel
	}

	settings.Embedding.BaseURL = localBaseURL(provider, settings.Embedding.BaseURL)
	settings.Embedding.APIKey = apiKey

	if d, ok := domain.EmbeddingDimensions()[settings.Embedding.Model]; ok {
		settings.Embedding.Dimensions = d
	}

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
// An empty model selects the provider's default.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" && s.envKey(provider) == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider
	if model != "" {
		settings.LLM.Model = model
	} else if defaultModel, ok := domain.DefaultLLMModels()[provider]; ok {
		settings.LLM.Model = defaultModel
	}
	settings.LLM.BaseURL = localBaseURL(provider, settings.LLM.BaseURL)
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetIndexBackend selects the vector index backend.
func (s *SettingsService) SetIndexBackend(backend domain.IndexBackend) error {
	if !backend.IsValid() {
		return fmt.Errorf("invalid index backend: %s", backend)
	}
	return s.configStore.Set(KeyIndexBackend, backend.String())
}

// Validate checks that current settings are internally consistent.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Embedding.Provider.SupportsEmbeddings() {
		return fmt.Errorf("provider %q does not support embeddings: %w",
			settings.Embedding.Provider.Description(), domain.ErrInvalidArgument)
	}
	if settings.Embedding.Provider.RequiresAPIKey() && settings.Embedding.APIKey == "" {
		return fmt.Errorf("embedding provider %q requires an API key (set %s or %s)",
			settings.Embedding.Provider.Description(), KeyEmbedAPIKey, settings.Embedding.Provider.APIKeyEnv())
	}
	if settings.LLM.Provider.RequiresAPIKey() && settings.LLM.APIKey == "" {
		return fmt.Errorf("LLM provider %q requires an API key (set %s or %s)",
			settings.LLM.Provider.Description(), KeyLLMAPIKey, settings.LLM.Provider.APIKeyEnv())
	}
	if settings.Embedding.Dimensions < 1 {
		return fmt.Errorf("embedding dimensions must be positive: %w", domain.ErrInvalidArgument)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

func (s *SettingsService) envKey(provider domain.AIProvider) string {
	if name := provider.APIKeyEnv(); name != "" {
		return s.getenv(name)
	}
	return ""
}

func localBaseURL(provider domain.AIProvider, current string) string {
	if !provider.IsLocal() {
		return ""
	}
	if current == "" {
		return defaultOllamaURL
	}
	return current
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getPositiveInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val < 1 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getSeed(defaultVal uint64) uint64 {
	if _, ok := s.configStore.Get(KeyMockSeed); !ok {
		return defaultVal
	}
	val := s.configStore.GetInt(KeyMockSeed)
	if val < 0 {
		return defaultVal
	}
	return uint64(val)
}

func (s *SettingsService) getRate(defaultVal float64) float64 {
	if _, ok := s.configStore.Get(KeyCapRateLimit); !ok {
		return defaultVal
	}
	val := s.configStore.GetFloat(KeyCapRateLimit)
	if val < 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	d, err := time.ParseDuration(s.configStore.GetString(key))
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(key))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getBackend(defaultVal domain.IndexBackend) domain.IndexBackend {
	backend := domain.IndexBackend(s.configStore.GetString(KeyIndexBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
