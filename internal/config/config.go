// ABOUTME: Centralized configuration for the recall CLI and MCP server
// ABOUTME: Defaults, then an optional YAML file, then environment variables, then validation
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/harper/omnirecall/internal/core"
	"github.com/harper/omnirecall/internal/embedding"
	"github.com/harper/omnirecall/internal/storage/sqlite"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the retrieval engine
type Config struct {
	// Storage settings
	DBPath string `yaml:"db_path"`

	// Embedding settings
	Provider          string        `yaml:"provider"`
	EmbeddingModel    string        `yaml:"embedding_model"`
	Dimension         int           `yaml:"dimension"`
	OpenAIKey         string        `yaml:"openai_api_key"`
	OpenAIBaseURL     string        `yaml:"openai_base_url"`
	GeminiKey         string        `yaml:"gemini_api_key"`
	OllamaHost        string        `yaml:"ollama_host"`
	Timeout           time.Duration `yaml:"timeout"`
	MaxRetries        int           `yaml:"max_retries"`
	RetryDelay        time.Duration `yaml:"retry_delay"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Concurrency       int           `yaml:"concurrency"`

	// Chunking settings
	ChunkTokens  int `yaml:"chunk_tokens"`
	ChunkOverlap int `yaml:"chunk_overlap"`

	// Retrieval settings
	SearchTopK       int     `yaml:"search_top_k"`
	ContextMaxTokens int     `yaml:"context_max_tokens"`
	ContextSearchK   int     `yaml:"context_search_k"`
	RelevanceCutoff  float64 `yaml:"relevance_cutoff"`
	MinResults       int     `yaml:"min_results"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		DBPath:           sqlite.DefaultDBPath(),
		Provider:         "openai",
		Timeout:          embedding.DefaultTimeout,
		MaxRetries:       3,
		RetryDelay:       2 * time.Second,
		Concurrency:      1,
		ChunkTokens:      core.DefaultChunkTokens,
		ChunkOverlap:     core.DefaultChunkOverlap,
		SearchTopK:       core.DefaultSearchTopK,
		ContextMaxTokens: core.DefaultContextMaxTokens,
		ContextSearchK:   core.DefaultContextSearchK,
		RelevanceCutoff:  core.DefaultRelevanceCutoff,
		MinResults:       core.DefaultMinResults,
	}
}

// Load builds a Config from defaults, the YAML file at path (skipped when path
// is empty), and environment variables, in that order
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	return cfg, cfg.Validate()
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.DBPath = getEnv("RECALL_DB_PATH", c.DBPath)
	c.Provider = getEnv("RECALL_EMBEDDING_PROVIDER", c.Provider)
	c.EmbeddingModel = getEnv("RECALL_EMBEDDING_MODEL", c.EmbeddingModel)
	c.Dimension = getEnvInt("RECALL_EMBEDDING_DIMENSION", c.Dimension)
	c.OpenAIKey = getEnv("OPENAI_API_KEY", c.OpenAIKey)
	c.OpenAIBaseURL = getEnv("OPENAI_BASE_URL", c.OpenAIBaseURL)
	c.GeminiKey = getEnv("GEMINI_API_KEY", c.GeminiKey)
	c.OllamaHost = getEnv("OLLAMA_HOST", c.OllamaHost)
	c.Timeout = getEnvDuration("RECALL_EMBED_TIMEOUT", c.Timeout)
	c.MaxRetries = getEnvInt("RECALL_MAX_RETRIES", c.MaxRetries)
	c.RetryDelay = getEnvDuration("RECALL_RETRY_DELAY", c.RetryDelay)
	c.RequestsPerSecond = getEnvFloat("RECALL_EMBED_RPS", c.RequestsPerSecond)
	c.Concurrency = getEnvInt("RECALL_EMBED_CONCURRENCY", c.Concurrency)
	c.ChunkTokens = getEnvInt("RECALL_CHUNK_TOKENS", c.ChunkTokens)
	c.ChunkOverlap = getEnvInt("RECALL_CHUNK_OVERLAP", c.ChunkOverlap)
	c.SearchTopK = getEnvInt("RECALL_SEARCH_TOP_K", c.SearchTopK)
	c.ContextMaxTokens = getEnvInt("RECALL_CONTEXT_MAX_TOKENS", c.ContextMaxTokens)
	c.ContextSearchK = getEnvInt("RECALL_CONTEXT_SEARCH_K", c.ContextSearchK)
	c.RelevanceCutoff = getEnvFloat("RECALL_RELEVANCE_CUTOFF", c.RelevanceCutoff)
	c.MinResults = getEnvInt("RECALL_MIN_RESULTS", c.MinResults)
}

func (c *Config) Validate() error {
	if !isKnownProvider(c.Provider) {
		return fmt.Errorf("RECALL_EMBEDDING_PROVIDER must be one of %s, got %q",
			strings.Join(embedding.Providers(), ", "), c.Provider)
	}
	if c.DBPath == "" {
		return errors.New("RECALL_DB_PATH cannot be empty")
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("RECALL_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.ChunkTokens <= 0 {
		return fmt.Errorf("RECALL_CHUNK_TOKENS must be positive, got %d", c.ChunkTokens)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkTokens {
		return fmt.Errorf("RECALL_CHUNK_OVERLAP must be 0-%d, got %d", c.ChunkTokens-1, c.ChunkOverlap)
	}
	if c.RelevanceCutoff < -1 || c.RelevanceCutoff > 1 {
		return fmt.Errorf("RECALL_RELEVANCE_CUTOFF must be -1 to 1, got %f", c.RelevanceCutoff)
	}
	if c.Concurrency < 1 || c.Concurrency > 32 {
		return fmt.Errorf("RECALL_EMBED_CONCURRENCY must be 1-32, got %d", c.Concurrency)
	}
	if c.RequestsPerSecond < 0 {
		return fmt.Errorf("RECALL_EMBED_RPS cannot be negative, got %f", c.RequestsPerSecond)
	}
	return nil
}

// APIKey returns the credential for the configured provider
func (c *Config) APIKey() string {
	switch strings.ToLower(c.Provider) {
	case "openai":
		return c.OpenAIKey
	case "gemini":
		return c.GeminiKey
	default:
		return ""
	}
}

// EmbeddingConfig translates the settings into an embedding factory config
func (c *Config) EmbeddingConfig() embedding.Config {
	baseURL := c.OpenAIBaseURL
	if strings.EqualFold(c.Provider, "ollama") {
		baseURL = c.OllamaHost
	} else if strings.EqualFold(c.Provider, "gemini") {
		baseURL = ""
	}

	return embedding.Config{
		Provider:          c.Provider,
		Model:             c.EmbeddingModel,
		APIKey:            c.APIKey(),
		BaseURL:           baseURL,
		Dimension:         c.Dimension,
		Timeout:           c.Timeout,
		MaxRetries:        c.MaxRetries,
		RetryDelay:        c.RetryDelay,
		RequestsPerSecond: c.RequestsPerSecond,
		Burst:             1,
	}
}

// IndexerConfig returns chunking and fan-out settings
func (c *Config) IndexerConfig() core.IndexerConfig {
	return core.IndexerConfig{
		ChunkTokens:  c.ChunkTokens,
		ChunkOverlap: c.ChunkOverlap,
		Concurrency:  c.Concurrency,
	}
}

// ContextOptions returns the default context assembly settings
func (c *Config) ContextOptions() core.ContextOptions {
	return core.ContextOptions{
		MaxTokens:       c.ContextMaxTokens,
		SearchK:         c.ContextSearchK,
		RelevanceCutoff: c.RelevanceCutoff,
		MinResults:      c.MinResults,
	}
}

func isKnownProvider(name string) bool {
	for _, p := range embedding.Providers() {
		if strings.EqualFold(p, name) {
			return true
		}
	}
	return false
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
