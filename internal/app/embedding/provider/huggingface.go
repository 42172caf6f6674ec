package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	apperrors "vidseek/internal/app/errors"
)

const (
	defaultHuggingFaceBaseURL = "https://api-inference.huggingface.co"
	huggingFaceModel          = "BAAI/bge-base-en-v1.5"
	huggingFaceDimension      = 768
)

// HuggingFaceProvider calls the hosted inference API for a sentence embedding model
type HuggingFaceProvider struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

type huggingFaceRequest struct {
	Inputs  string             `json:"inputs"`
	Options huggingFaceOptions `json:"options"`
}

type huggingFaceOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

// NewHuggingFaceProvider creates a new HuggingFace embedding provider
func NewHuggingFaceProvider(apiKey, baseURL string, client *http.Client) *HuggingFaceProvider {
	if baseURL == "" {
		baseURL = defaultHuggingFaceBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HuggingFaceProvider{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   huggingFaceModel,
		client:  client,
	}
}

// GenerateEmbedding posts the text to the model endpoint and returns the raw vector
func (h *HuggingFaceProvider) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, apperrors.ErrEmptyText
	}

	body, err := postJSON(ctx, h.client, string(HuggingFace), h.baseURL+"/models/"+h.model,
		map[string]string{"Authorization": "Bearer " + h.apiKey},
		huggingFaceRequest{Inputs: text, Options: huggingFaceOptions{WaitForModel: true}})
	if err != nil {
		return nil, err
	}

	return decodeHuggingFaceVector(body)
}

// decodeHuggingFaceVector accepts a flat vector or a single-row matrix
func decodeHuggingFaceVector(body []byte) ([]float32, error) {
	var flat []float32
	if err := json.Unmarshal(body, &flat); err == nil {
		if len(flat) == 0 {
			return nil, malformed(string(HuggingFace), http.StatusOK, "empty vector")
		}
		return flat, nil
	}

	var nested [][]float32
	if err := json.Unmarshal(body, &nested); err != nil {
		return nil, malformed(string(HuggingFace), http.StatusOK, err.Error())
	}
	if len(nested) == 0 || len(nested[0]) == 0 {
		return nil, malformed(string(HuggingFace), http.StatusOK, "empty vector")
	}
	return nested[0], nil
}

// GetProviderInfo returns information about the HuggingFace provider
func (h *HuggingFaceProvider) GetProviderInfo() ProviderInfo {
	return ProviderInfo{
		Name:      string(HuggingFace),
		Model:     h.model,
		Dimension: huggingFaceDimension,
	}
}
