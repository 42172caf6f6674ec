package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "vidseek/internal/app/errors"
)

func TestGeminiProviderGenerateEmbedding(t *testing.T) {
	// Arrange
	var got geminiRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/embedding-001:embedContent", r.URL.Path)
		assert.Equal(t, "AIzaTestKey", r.URL.Query().Get("key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"embedding":{"values":[0.5,0.25,-0.125]}}`))
	}))
	defer server.Close()
	p := NewGeminiProvider("AIzaTestKey", server.URL, server.Client())

	// Act
	vec, err := p.GenerateEmbedding(context.Background(), "gradient descent")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, 0.25, -0.125}, vec)
	assert.Equal(t, "models/embedding-001", got.Model)
	require.Len(t, got.Content.Parts, 1)
	assert.Equal(t, "gradient descent", got.Content.Parts[0].Text)
}

func TestGeminiProviderErrors(t *testing.T) {
	testCases := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantMsg    string
	}{
		{"bad key", http.StatusBadRequest, `{"error":{"code":400,"message":"API key not valid","status":"INVALID_ARGUMENT"}}`, 400, "API key not valid"},
		{"quota", http.StatusTooManyRequests, `{"error":{"code":429,"message":"Resource has been exhausted"}}`, 429, "exhausted"},
		{"missing values", http.StatusOK, `{"embedding":{}}`, 200, "missing embedding.values"},
		{"not json", http.StatusOK, `<html></html>`, 200, "malformed response"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()
			p := NewGeminiProvider("AIzaTestKey", server.URL, server.Client())

			_, err := p.GenerateEmbedding(context.Background(), "hello")

			var pe *apperrors.ProviderError
			require.True(t, errors.As(err, &pe), "got %v", err)
			assert.Equal(t, tc.wantStatus, pe.Status)
			assert.Contains(t, pe.Message, tc.wantMsg)
		})
	}
}

func TestGeminiProviderHonorsContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()
	p := NewGeminiProvider("AIzaTestKey", server.URL, server.Client())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.GenerateEmbedding(ctx, "hello")

	assert.ErrorIs(t, err, context.Canceled)
}
