package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorders(t *testing.T) {
	// Arrange
	m := New()

	// Act
	m.ObserveEmbedding("openai", 120*time.Millisecond, nil)
	m.ObserveEmbedding("openai", 80*time.Millisecond, errors.New("429"))
	m.ObserveEmbedding("gemini", 10*time.Millisecond, nil)
	m.CacheLookup("transcripts", true)
	m.CacheLookup("transcripts", false)
	m.CacheLookup("transcripts", false)
	m.TranscriptAcquisition("captions", "error")
	m.TranscriptAcquisition("dom", "success")
	m.ChunkDropped("openai")
	m.ObserveHTTP(http.MethodPost, "/api/v1/videos/:videoId/search", 200)

	// Assert
	assert.Equal(t, 1.0, testutil.ToFloat64(m.providerRequests.WithLabelValues("openai", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.providerRequests.WithLabelValues("openai", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.providerRequests.WithLabelValues("gemini", "success")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.providerDuration))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("transcripts", "hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("transcripts", "miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.acquisitions.WithLabelValues("captions", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.chunksDropped.WithLabelValues("openai")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "/api/v1/videos/:videoId/search", "200")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ChunkDropped("huggingface")
	rec := httptest.NewRecorder()

	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `vidseek_chunks_dropped_total{provider="huggingface"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestInstancesAreIndependent(t *testing.T) {
	a, b := New(), New()

	a.ChunkDropped("openai")

	assert.Equal(t, 0.0, testutil.ToFloat64(b.chunksDropped.WithLabelValues("openai")))
}
