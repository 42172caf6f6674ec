package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidseek/internal/app/cache"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{"VIDSEEK_HOST", "VIDSEEK_PORT", "DATABASE_URL", "REDIS_URL", "MINIO_ENDPOINT", "VIDSEEK_EMBEDDING_PROVIDER"} {
		t.Setenv(key, "")
	}
	t.Setenv("HOME", t.TempDir())
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	// Arrange
	clearEnv(t)

	// Act
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, cache.BackendSQLite, c.Cache.Backend)
	assert.True(t, filepath.IsAbs(c.Cache.SQLitePath))
	assert.Equal(t, 168, c.Cache.RetentionHours)
	assert.Equal(t, 0.3, c.Search.MinThreshold)
	assert.Equal(t, 0.6, c.Search.RelativeThreshold)
	assert.Equal(t, 8, c.Search.MaxResults)
	assert.Equal(t, 100*time.Millisecond, c.Batch.Delay)
	assert.Equal(t, 10, c.Transcription.DOMPoll.Attempts)
	assert.Equal(t, time.Second, c.Transcription.DOMPoll.Initial)
	assert.Equal(t, "127.0.0.1:8080", c.Server.Address())
	assert.Equal(t, "info", c.Log.Level)
}

func TestLoadFileWithEnvExpansion(t *testing.T) {
	// Arrange
	clearEnv(t)
	t.Setenv("TEST_REDIS", "redis://cache:6379/2")
	path := writeConfig(t, `
embedding:
  preference: gemini
  timeout: 45s
cache:
  backend: redis
  redis_url: ${TEST_REDIS}
  retention_hours: 24
search:
  max_results: 5
batch:
  delay: 250ms
server:
  port: "9090"
log:
  level: debug
  development: true
`)

	// Act
	c, err := Load(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "gemini", c.Embedding.Preference)
	assert.Equal(t, 45*time.Second, c.Embedding.Timeout)
	assert.Equal(t, "redis://cache:6379/2", c.Cache.RedisURL)
	assert.Equal(t, 24*time.Hour, c.Cache.Retention())
	assert.Equal(t, 5, c.Search.MaxResults)
	assert.Equal(t, 0.3, c.Search.MinThreshold)
	assert.Equal(t, 250*time.Millisecond, c.Batch.Delay)
	assert.Equal(t, "127.0.0.1:9090", c.Server.Address())
	assert.True(t, c.Log.Development)
}

func TestLoadEnvironmentFillsLocations(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://u:p@db/vidseek?sslmode=disable")
	t.Setenv("VIDSEEK_PORT", "7000")
	t.Setenv("VIDSEEK_EMBEDDING_PROVIDER", "huggingface")
	path := writeConfig(t, "cache:\n  backend: postgres\n")

	c, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db/vidseek?sslmode=disable", c.Cache.PostgresDSN)
	assert.Equal(t, "7000", c.Server.Port)
	assert.Equal(t, "huggingface", c.Embedding.Preference)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{"unknown provider", "embedding:\n  preference: cohere\n"},
		{"unknown backend", "cache:\n  backend: cassandra\n"},
		{"postgres without dsn", "cache:\n  backend: postgres\n"},
		{"minio without credentials", "cache:\n  backend: minio\n  minio:\n    endpoint: localhost:9000\n"},
		{"bad port", "server:\n  port: \"http\"\n"},
		{"bad log level", "log:\n  level: loud\n"},
		{"bad url", "embedding:\n  openai_base_url: not a url\n"},
		{"malformed yaml", "cache: [\n"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)

			_, err := Load(writeConfig(t, tc.content))

			assert.Error(t, err)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	original := Default()
	original.Embedding.Preference = "openai"
	original.Cache.Backend = cache.BackendMemory
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	require.NoError(t, Save(original, path))
	loaded, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("VIDSEEK_CONFIG", "/etc/vidseek.yaml")
	assert.Equal(t, "/etc/vidseek.yaml", DefaultPath())

	t.Setenv("VIDSEEK_CONFIG", "")
	t.Setenv("HOME", "/home/someone")
	assert.Equal(t, "/home/someone/.vidseek/config.yaml", DefaultPath())
}
