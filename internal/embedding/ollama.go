// ABOUTME: Ollama embedding adapter using the local /api/embeddings endpoint
// ABOUTME: No API key; the host defaults to localhost:11434
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultOllamaHost is the default Ollama API base URL
	DefaultOllamaHost = "http://localhost:11434"
	// DefaultOllamaModel is the default Ollama embedding model
	DefaultOllamaModel = "nomic-embed-text"

	providerOllama = "ollama"
)

// OllamaConfig holds configuration for the Ollama adapter
type OllamaConfig struct {
	Host      string
	Model     string
	Dimension int
	Timeout   time.Duration
}

// OllamaProvider generates embeddings with a local Ollama server
type OllamaProvider struct {
	client    *http.Client
	host      string
	model     string
	dimension int
}

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaResponse struct {
	Embedding []float32 `json:"embedding"`
}

// NewOllamaProvider creates an Ollama adapter
func NewOllamaProvider(cfg OllamaConfig) *OllamaProvider {
	if cfg.Host == "" {
		cfg.Host = DefaultOllamaHost
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOllamaModel
	}
	if cfg.Dimension == 0 {
		cfg.Dimension = DimensionFor(providerOllama, cfg.Model)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &OllamaProvider{
		client:    &http.Client{Timeout: cfg.Timeout},
		host:      strings.TrimRight(cfg.Host, "/"),
		model:     cfg.Model,
		dimension: cfg.Dimension,
	}
}

// Embed generates an embedding for text
func (p *OllamaProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(ollamaRequest{Model: p.model, Prompt: text})
	if err != nil {
		return nil, badResponse(providerOllama, fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.host+"/api/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, networkError(providerOllama, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, networkError(providerOllama, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, statusError(providerOllama, resp.StatusCode, string(msg))
	}

	var out ollamaResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, badResponse(providerOllama, fmt.Errorf("decode response: %w", err))
	}

	return checkVector(providerOllama, out.Embedding)
}

// Dimension returns the configured vector length
func (p *OllamaProvider) Dimension() int {
	return p.dimension
}

// Model returns the embedding model name
func (p *OllamaProvider) Model() string {
	return p.model
}
