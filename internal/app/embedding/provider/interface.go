package provider

import "context"

// EmbeddingProvider turns text into a vector through one remote service
type EmbeddingProvider interface {
	// GenerateEmbedding generates an embedding vector for the given text
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)

	// GetProviderInfo returns metadata about the provider
	GetProviderInfo() ProviderInfo
}

// ProviderInfo contains metadata about an embedding provider
type ProviderInfo struct {
	Name      string // Provider name (e.g., "openai", "gemini")
	Model     string // Model identifier (e.g., "text-embedding-3-small")
	Dimension int    // Expected embedding dimension, 0 when unknown
}

// ID names one of the supported embedding services
type ID string

const (
	OpenAI      ID = "openai"
	HuggingFace ID = "huggingface"
	Gemini      ID = "gemini"
)
