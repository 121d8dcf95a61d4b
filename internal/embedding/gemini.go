// ABOUTME: Gemini embedding adapter calling the generativelanguage embedContent endpoint
// ABOUTME: Authenticates with an API key header
package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultGeminiBaseURL is the Gemini API base URL
	DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	// DefaultGeminiModel is the default Gemini embedding model
	DefaultGeminiModel = "text-embedding-004"

	providerGemini = "gemini"
)

// GeminiConfig holds configuration for the Gemini adapter
type GeminiConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	Dimension int
	Timeout   time.Duration
}

// GeminiProvider generates embeddings with the Gemini API
type GeminiProvider struct {
	client    *http.Client
	apiKey    string
	baseURL   string
	model     string
	dimension int
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Model   string        `json:"model"`
	Content geminiContent `json:"content"`
}

type geminiResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
}

// NewGeminiProvider creates a Gemini adapter; an API key is required
func NewGeminiProvider(cfg GeminiConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultGeminiBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultGeminiModel
	}
	if cfg.Dimension == 0 {
		cfg.Dimension = DimensionFor(providerGemini, cfg.Model)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &GeminiProvider{
		client:    &http.Client{Timeout: cfg.Timeout},
		apiKey:    cfg.APIKey,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		model:     cfg.Model,
		dimension: cfg.Dimension,
	}, nil
}

// Embed generates an embedding for text
func (p *GeminiProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := json.Marshal(geminiRequest{
		Model:   "models/" + p.model,
		Content: geminiContent{Parts: []geminiPart{{Text: text}}},
	})
	if err != nil {
		return nil, badResponse(providerGemini, fmt.Errorf("marshal request: %w", err))
	}

	endpoint := fmt.Sprintf("%s/models/%s:embedContent", p.baseURL, url.PathEscape(p.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, networkError(providerGemini, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, networkError(providerGemini, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		embErr := statusError(providerGemini, resp.StatusCode, string(msg))
		// Gemini reports a bad key as 400 INVALID_ARGUMENT
		if resp.StatusCode == http.StatusBadRequest && strings.Contains(string(msg), "API_KEY_INVALID") {
			embErr.Kind = KindInvalidKey
		}
		return nil, embErr
	}

	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, badResponse(providerGemini, fmt.Errorf("decode response: %w", err))
	}

	return checkVector(providerGemini, out.Embedding.Values)
}

// Dimension returns the configured vector length
func (p *GeminiProvider) Dimension() int {
	return p.dimension
}

// Model returns the embedding model name
func (p *GeminiProvider) Model() string {
	return p.model
}
