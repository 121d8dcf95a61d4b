// ABOUTME: OpenAI embedding adapter built on go-openai
// ABOUTME: Also serves OpenAI-compatible endpoints through a custom base URL
package embedding

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultOpenAIModel is the default OpenAI embedding model
	DefaultOpenAIModel = string(openai.SmallEmbedding3)

	providerOpenAI = "openai"
)

// OpenAIConfig holds configuration for the OpenAI adapter
type OpenAIConfig struct {
	APIKey    string
	BaseURL   string
	Model     string
	Dimension int
	Timeout   time.Duration
}

// OpenAIProvider generates embeddings with the OpenAI embeddings API
type OpenAIProvider struct {
	client    *openai.Client
	model     openai.EmbeddingModel
	dimension int
}

// NewOpenAIProvider creates an OpenAI adapter; an API key is required
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}
	if cfg.Dimension == 0 {
		cfg.Dimension = DimensionFor(providerOpenAI, cfg.Model)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	clientConfig.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &OpenAIProvider{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     openai.EmbeddingModel(cfg.Model),
		dimension: cfg.Dimension,
	}, nil
}

// Embed generates an embedding for text
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: []string{text},
		Model: p.model,
	})
	if err != nil {
		return nil, classifyOpenAIError(err)
	}

	if len(resp.Data) == 0 {
		return nil, badResponse(providerOpenAI, errors.New("no embeddings returned"))
	}

	return checkVector(providerOpenAI, resp.Data[0].Embedding)
}

// Dimension returns the configured vector length
func (p *OpenAIProvider) Dimension() int {
	return p.dimension
}

// Model returns the embedding model name
func (p *OpenAIProvider) Model() string {
	return string(p.model)
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode != 0 {
		return &Error{
			Kind:       classifyStatus(apiErr.HTTPStatusCode),
			Provider:   providerOpenAI,
			StatusCode: apiErr.HTTPStatusCode,
			Err:        err,
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode != 0 {
		return &Error{
			Kind:       classifyStatus(reqErr.HTTPStatusCode),
			Provider:   providerOpenAI,
			StatusCode: reqErr.HTTPStatusCode,
			Err:        err,
		}
	}

	return networkError(providerOpenAI, err)
}
