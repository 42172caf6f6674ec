package config

import (
	"fmt"
	"strings"
	"time"
)

// ValidateTimeout validates timeout duration
func ValidateTimeout(timeout time.Duration, name string) error {
	if timeout <= 0 {
		return fmt.Errorf("%s timeout must be positive", name)
	}
	if timeout > 30*time.Minute {
		return fmt.Errorf("%s timeout too large (max 30 minutes)", name)
	}
	return nil
}

// ValidateAPIKey validates API key format
func ValidateAPIKey(apiKey string, keyType string) error {
	if apiKey == "" {
		return fmt.Errorf("%s API key is required", keyType)
	}

	switch keyType {
	case "OpenAI":
		if !strings.HasPrefix(apiKey, "sk-") {
			return fmt.Errorf("invalid OpenAI API key format: must start with 'sk-'")
		}
		if len(apiKey) < 20 {
			return fmt.Errorf("invalid OpenAI API key format: too short")
		}
	case "Gemini":
		if !strings.HasPrefix(apiKey, "AIza") {
			return fmt.Errorf("invalid Gemini API key format: must start with 'AIza'")
		}
		if len(apiKey) < 30 {
			return fmt.Errorf("invalid Gemini API key format: too short")
		}
	case "HuggingFace":
		if !strings.HasPrefix(apiKey, "hf_") {
			return fmt.Errorf("invalid HuggingFace API key format: must start with 'hf_'")
		}
	case "Deepgram":
		if len(apiKey) < 32 {
			return fmt.Errorf("invalid Deepgram API key format: too short")
		}
	}

	return nil
}

// ValidatePort validates port number
func ValidatePort(port string, name string) error {
	if port == "" {
		return fmt.Errorf("%s port is required", name)
	}
	n := 0
	for _, r := range port {
		if r < '0' || r > '9' {
			return fmt.Errorf("%s port invalid", name)
		}
		n = n*10 + int(r-'0')
		if n > 65535 {
			return fmt.Errorf("%s port invalid", name)
		}
	}
	if n == 0 {
		return fmt.Errorf("%s port invalid", name)
	}
	return nil
}
