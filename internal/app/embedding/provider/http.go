package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "vidseek/internal/app/errors"
)

const maxErrorBody = 512

// postJSON sends body as JSON and returns the raw response body of a 2xx reply.
// Transport failures and non-2xx replies come back as *ProviderError.
func postJSON(ctx context.Context, client *http.Client, name, url string, headers map[string]string, body interface{}) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s request: %w", name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &apperrors.ProviderError{Provider: name, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperrors.ProviderError{Provider: name, Status: resp.StatusCode, Message: "failed to read response body", Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.NewProviderError(name, resp.StatusCode, errorMessage(data, resp.Status))
	}
	return data, nil
}

// errorMessage pulls a readable message out of an error body
func errorMessage(body []byte, fallback string) string {
	var shaped struct {
		Error interface{} `json:"error"`
	}
	if json.Unmarshal(body, &shaped) == nil && shaped.Error != nil {
		switch e := shaped.Error.(type) {
		case string:
			return e
		case map[string]interface{}:
			if msg, ok := e["message"].(string); ok {
				return msg
			}
		}
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return fallback
	}
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody]
	}
	return msg
}

func malformed(name string, status int, reason string) error {
	return apperrors.NewProviderError(name, status, "malformed response: "+reason)
}
