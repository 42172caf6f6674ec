package config

import "time"

// Default configuration constants
const (
	// Timeout defaults
	DefaultEmbeddingTimeout = 30 * time.Second
	DefaultDeepgramTimeout  = 5 * time.Minute
	DefaultPageTimeout      = 30 * time.Second

	// Network defaults
	DefaultHost     = "127.0.0.1"
	DefaultHTTPPort = "8080"

	// Service endpoints
	DefaultOpenAIBaseURL      = "https://api.openai.com/v1"
	DefaultHuggingFaceBaseURL = "https://api-inference.huggingface.co"
	DefaultGeminiBaseURL      = "https://generativelanguage.googleapis.com"
	DefaultDeepgramBaseURL    = "https://api.deepgram.com"
	DefaultYouTubeBaseURL     = "https://www.youtube.com"
)

// ProviderDefaults holds the default endpoint and timeout of a remote service
type ProviderDefaults struct {
	BaseURL string
	Timeout time.Duration
}

// GetProviderDefaults returns default configuration for a given provider type
func GetProviderDefaults(providerType string) ProviderDefaults {
	switch providerType {
	case "openai":
		return ProviderDefaults{BaseURL: DefaultOpenAIBaseURL, Timeout: DefaultEmbeddingTimeout}
	case "huggingface":
		return ProviderDefaults{BaseURL: DefaultHuggingFaceBaseURL, Timeout: DefaultEmbeddingTimeout}
	case "gemini":
		return ProviderDefaults{BaseURL: DefaultGeminiBaseURL, Timeout: DefaultEmbeddingTimeout}
	case "deepgram":
		return ProviderDefaults{BaseURL: DefaultDeepgramBaseURL, Timeout: DefaultDeepgramTimeout}
	case "youtube":
		return ProviderDefaults{BaseURL: DefaultYouTubeBaseURL, Timeout: DefaultPageTimeout}
	default:
		return ProviderDefaults{Timeout: 60 * time.Second}
	}
}
