package provider

import (
	"net/http"
	"strings"
	"time"

	apperrors "vidseek/internal/app/errors"
)

// priority is the fallback order when no usable preference is stored
var priority = []ID{OpenAI, Gemini, HuggingFace}

// Credentials holds whichever embedding API keys are configured
type Credentials struct {
	OpenAI      string
	HuggingFace string
	Gemini      string
}

func (c Credentials) key(id ID) string {
	switch id {
	case OpenAI:
		return strings.TrimSpace(c.OpenAI)
	case HuggingFace:
		return strings.TrimSpace(c.HuggingFace)
	case Gemini:
		return strings.TrimSpace(c.Gemini)
	}
	return ""
}

// Configured lists the providers that have a key, in priority order
func (c Credentials) Configured() []ID {
	var ids []ID
	for _, id := range priority {
		if c.key(id) != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// Config is one resolved (provider, key) pair
type Config struct {
	ID     ID
	APIKey string
}

// ParseID validates a provider name. The empty string means no preference.
func ParseID(s string) (ID, error) {
	switch id := ID(strings.ToLower(strings.TrimSpace(s))); id {
	case "", OpenAI, HuggingFace, Gemini:
		return id, nil
	}
	return "", apperrors.Wrapf(apperrors.ErrUnknownProvider, "%q", s)
}

// Resolve picks the provider for a session. A stored preference wins when its
// key is configured; otherwise the first configured provider in priority order.
func Resolve(creds Credentials, preference ID) (Config, error) {
	if preference != "" {
		if _, err := ParseID(string(preference)); err != nil {
			return Config{}, apperrors.Configuration("embedding provider preference: %v", err)
		}
		if key := creds.key(preference); key != "" {
			return Config{ID: preference, APIKey: key}, nil
		}
	}

	for _, id := range priority {
		if key := creds.key(id); key != "" {
			return Config{ID: id, APIKey: key}, nil
		}
	}
	return Config{}, apperrors.Configuration("no embedding provider API key configured (set OPENAI_API_KEY, GEMINI_API_KEY or HUGGINGFACE_API_KEY)")
}

// Options carries endpoint overrides and transport settings for New
type Options struct {
	OpenAIBaseURL      string
	HuggingFaceBaseURL string
	GeminiBaseURL      string
	Timeout            time.Duration
	HTTPClient         *http.Client
}

func (o Options) client() *http.Client {
	if o.HTTPClient != nil {
		return o.HTTPClient
	}
	timeout := o.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// New builds the provider named by cfg
func New(cfg Config, opts Options) (EmbeddingProvider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, apperrors.Configuration("missing API key for %s", cfg.ID)
	}

	client := opts.client()
	switch cfg.ID {
	case OpenAI:
		return NewOpenAIProvider(cfg.APIKey, opts.OpenAIBaseURL, client), nil
	case HuggingFace:
		return NewHuggingFaceProvider(cfg.APIKey, opts.HuggingFaceBaseURL, client), nil
	case Gemini:
		return NewGeminiProvider(cfg.APIKey, opts.GeminiBaseURL, client), nil
	}
	return nil, apperrors.Wrapf(apperrors.ErrUnknownProvider, "%q", cfg.ID)
}
