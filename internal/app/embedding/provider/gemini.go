package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	apperrors "vidseek/internal/app/errors"
)

const (
	defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"
	geminiModel          = "models/embedding-001"
	geminiDimension      = 768
)

// GeminiProvider implements EmbeddingProvider using the Gemini embedContent endpoint
type GeminiProvider struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

type geminiRequest struct {
	Model   string        `json:"model"`
	Content geminiContent `json:"content"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Embedding *struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
}

// NewGeminiProvider creates a new Gemini embedding provider
func NewGeminiProvider(apiKey, baseURL string, client *http.Client) *GeminiProvider {
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &GeminiProvider{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   geminiModel,
		client:  client,
	}
}

// GenerateEmbedding generates an embedding using Gemini API
func (g *GeminiProvider) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.ErrEmptyText
	}

	endpoint := g.baseURL + "/v1beta/" + g.model + ":embedContent?key=" + url.QueryEscape(g.apiKey)
	body, err := postJSON(ctx, g.client, string(Gemini), endpoint, nil, geminiRequest{
		Model:   g.model,
		Content: geminiContent{Parts: []geminiPart{{Text: text}}},
	})
	if err != nil {
		return nil, err
	}

	var resp geminiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, malformed(string(Gemini), http.StatusOK, err.Error())
	}
	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, malformed(string(Gemini), http.StatusOK, "missing embedding.values")
	}
	return resp.Embedding.Values, nil
}

// GetProviderInfo returns information about the Gemini provider
func (g *GeminiProvider) GetProviderInfo() ProviderInfo {
	return ProviderInfo{
		Name:      string(Gemini),
		Model:     g.model,
		Dimension: geminiDimension,
	}
}
