package provider

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	apperrors "vidseek/internal/app/errors"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	openAIDimension      = 1536
)

// OpenAIProvider implements EmbeddingProvider using the OpenAI embeddings API
type OpenAIProvider struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

// NewOpenAIProvider creates a new OpenAI embedding provider.
// baseURL may be empty for the public endpoint.
func NewOpenAIProvider(apiKey, baseURL string, httpClient *http.Client) *OpenAIProvider {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(cfg),
		model:  openai.SmallEmbedding3,
	}
}

// GenerateEmbedding generates an embedding using OpenAI API
func (o *OpenAIProvider) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.ErrEmptyText
	}

	response, err := o.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: o.model,
		Input: text,
	})
	if err != nil {
		return nil, o.translateError(ctx, err)
	}

	if len(response.Data) == 0 || len(response.Data[0].Embedding) == 0 {
		return nil, malformed(string(OpenAI), http.StatusOK, "no embedding data")
	}
	return response.Data[0].Embedding, nil
}

func (o *OpenAIProvider) translateError(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &apperrors.ProviderError{Provider: string(OpenAI), Status: apiErr.HTTPStatusCode, Message: apiErr.Message, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &apperrors.ProviderError{Provider: string(OpenAI), Status: reqErr.HTTPStatusCode, Message: reqErr.Error(), Err: err}
	}
	return &apperrors.ProviderError{Provider: string(OpenAI), Message: err.Error(), Err: err}
}

// GetProviderInfo returns information about the OpenAI provider
func (o *OpenAIProvider) GetProviderInfo() ProviderInfo {
	return ProviderInfo{
		Name:      string(OpenAI),
		Model:     string(o.model),
		Dimension: openAIDimension,
	}
}
