package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	apperrors "vidseek/internal/app/errors"
)

// Environment variable names
const (
	EnvOpenAIKey         = "OPENAI_API_KEY"
	EnvHuggingFaceKey    = "HUGGINGFACE_API_KEY"
	EnvGeminiKey         = "GEMINI_API_KEY"
	EnvDeepgramKey       = "DEEPGRAM_API_KEY"
	EnvEmbeddingProvider = "VIDSEEK_EMBEDDING_PROVIDER"
)

// APIKeys holds all API keys loaded from environment
type APIKeys struct {
	OpenAI      string
	HuggingFace string
	Gemini      string
	Deepgram    string
	// Preference is the stored embedding provider choice, possibly empty
	Preference string
}

// envPaths lists the .env files LoadEnv looks for, first match wins
func envPaths() []string {
	paths := []string{".env", ".env.local", "../.env"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".vidseek.env"))
	}
	return paths
}

// LoadEnv loads the first .env file found. Variables already set in the
// environment are left alone. It returns the loaded path, or "" when no file
// exists.
func LoadEnv() (string, error) {
	for _, envPath := range envPaths() {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err != nil {
			return "", fmt.Errorf("error loading %s file: %w", envPath, err)
		}
		return envPath, nil
	}
	return "", nil
}

// GetAPIKeys reads API keys from environment variables
func GetAPIKeys() *APIKeys {
	return &APIKeys{
		OpenAI:      strings.TrimSpace(os.Getenv(EnvOpenAIKey)),
		HuggingFace: strings.TrimSpace(os.Getenv(EnvHuggingFaceKey)),
		Gemini:      strings.TrimSpace(os.Getenv(EnvGeminiKey)),
		Deepgram:    strings.TrimSpace(os.Getenv(EnvDeepgramKey)),
		Preference:  strings.TrimSpace(os.Getenv(EnvEmbeddingProvider)),
	}
}

// Warnings checks the format of every configured key. Keys with an
// unexpected shape are still used; providers have changed formats before.
func (k *APIKeys) Warnings() []string {
	var warnings []string
	check := func(key, keyType string) {
		if key == "" {
			return
		}
		if err := ValidateAPIKey(key, keyType); err != nil {
			warnings = append(warnings, err.Error())
		}
	}
	check(k.OpenAI, "OpenAI")
	check(k.HuggingFace, "HuggingFace")
	check(k.Gemini, "Gemini")
	check(k.Deepgram, "Deepgram")
	return warnings
}

// Available names the services that have a key
func (k *APIKeys) Available() []string {
	var available []string
	if k.OpenAI != "" {
		available = append(available, "OpenAI")
	}
	if k.Gemini != "" {
		available = append(available, "Gemini")
	}
	if k.HuggingFace != "" {
		available = append(available, "HuggingFace")
	}
	if k.Deepgram != "" {
		available = append(available, "Deepgram")
	}
	return available
}

// RequireEmbeddingKey fails unless at least one embedding provider has a key
func RequireEmbeddingKey(k *APIKeys) error {
	if k.OpenAI == "" && k.HuggingFace == "" && k.Gemini == "" {
		return apperrors.Configuration("semantic search requires an embedding API key: set %s, %s or %s in the environment or a .env file",
			EnvOpenAIKey, EnvGeminiKey, EnvHuggingFaceKey)
	}
	return nil
}

// InitializeConfig loads the environment and reads API keys. Format problems
// come back as warnings, not errors.
func InitializeConfig() (*APIKeys, []string, error) {
	if _, err := LoadEnv(); err != nil {
		return nil, nil, fmt.Errorf("failed to load environment: %w", err)
	}

	apiKeys := GetAPIKeys()
	return apiKeys, apiKeys.Warnings(), nil
}
