// ABOUTME: Provider factory selecting an adapter by configuration tag
// ABOUTME: Holds default models and the known model dimension table
package embedding

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultTimeout is the per-request timeout for embedding calls
const DefaultTimeout = 30 * time.Second

var knownDimensions = map[string]int{
	"gemini/text-embedding-004":     768,
	"openai/text-embedding-3-small": 1536,
	"openai/text-embedding-3-large": 3072,
	"ollama/nomic-embed-text":       768,
	"ollama/mxbai-embed-large":      1024,
}

// Config selects and configures an embedding provider
type Config struct {
	Provider   string
	Model      string
	APIKey     string
	BaseURL    string
	Dimension  int
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
	// RequestsPerSecond throttles calls when positive
	RequestsPerSecond float64
	Burst             int
}

// Providers lists the supported provider tags
func Providers() []string {
	return []string{providerOpenAI, providerOllama, providerGemini}
}

// DefaultModel returns the default embedding model for a provider tag
func DefaultModel(provider string) string {
	switch strings.ToLower(provider) {
	case providerOpenAI:
		return DefaultOpenAIModel
	case providerOllama:
		return DefaultOllamaModel
	default:
		return DefaultGeminiModel
	}
}

// DimensionFor returns the vector length of a known provider/model pair.
// Unlisted models return 0, meaning the length is unknown and not checked.
func DimensionFor(provider, model string) int {
	return knownDimensions[strings.ToLower(provider)+"/"+model]
}

// New builds the adapter named by cfg.Provider and wraps it with the
// retry and rate-limit decorators when they are configured
func New(cfg Config, logger *log.Logger) (Provider, error) {
	if logger == nil {
		logger = log.Default()
	}

	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if cfg.Model == "" {
		cfg.Model = DefaultModel(provider)
	}

	var (
		p   Provider
		err error
	)

	switch provider {
	case providerOpenAI:
		p, err = NewOpenAIProvider(OpenAIConfig{
			APIKey:    cfg.APIKey,
			BaseURL:   cfg.BaseURL,
			Model:     cfg.Model,
			Dimension: cfg.Dimension,
			Timeout:   cfg.Timeout,
		})
	case providerOllama:
		p = NewOllamaProvider(OllamaConfig{
			Host:      cfg.BaseURL,
			Model:     cfg.Model,
			Dimension: cfg.Dimension,
			Timeout:   cfg.Timeout,
		})
	case providerGemini:
		p, err = NewGeminiProvider(GeminiConfig{
			APIKey:    cfg.APIKey,
			BaseURL:   cfg.BaseURL,
			Model:     cfg.Model,
			Dimension: cfg.Dimension,
			Timeout:   cfg.Timeout,
		})
	default:
		return nil, fmt.Errorf("unknown embedding provider %q (want one of %s)",
			cfg.Provider, strings.Join(Providers(), ", "))
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("embedding provider ready", "provider", provider, "model", cfg.Model, "dimension", p.Dimension())

	// every attempt, retries included, passes through the limiter
	p = WithRateLimit(p, cfg.RequestsPerSecond, cfg.Burst)
	p = WithRetry(p, cfg.MaxRetries, cfg.RetryDelay, logger)

	return p, nil
}
