package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelMatchingThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("acquire dQw4w9WgXcQ: %w", ErrNoTranscriptAvailable)

	assert.True(t, stderrors.Is(wrapped, ErrNoTranscriptAvailable))
	assert.False(t, stderrors.Is(wrapped, ErrNoEmbeddingsAvailable))
}

func TestConfiguration(t *testing.T) {
	err := Configuration("no credential for %s", "openai")

	assert.True(t, stderrors.Is(err, ErrConfiguration))
	assert.Contains(t, err.Error(), "no credential for openai")
}

func TestProviderError(t *testing.T) {
	// Arrange
	err := fmt.Errorf("embed chunk 3: %w", NewProviderError("gemini", 429, "quota exceeded"))

	// Act
	var pe *ProviderError
	ok := stderrors.As(err, &pe)

	// Assert
	assert.True(t, ok)
	assert.Equal(t, 429, pe.Status)
	assert.Equal(t, "gemini provider error (status 429): quota exceeded", pe.Error())
	assert.True(t, IsProviderError(err))
	assert.False(t, IsCacheError(err))
}

func TestCacheError(t *testing.T) {
	cause := stderrors.New("disk full")
	err := &CacheError{Op: "set", Bucket: "transcripts", VideoID: "abc", Err: cause}

	assert.Equal(t, "cache set transcripts/abc: disk full", err.Error())
	assert.True(t, stderrors.Is(err, cause))
	assert.True(t, IsCacheError(fmt.Errorf("save: %w", err)))
}

func TestIsCanceled(t *testing.T) {
	assert.True(t, IsCanceled(fmt.Errorf("batch 2: %w", context.Canceled)))
	assert.True(t, IsCanceled(context.DeadlineExceeded))
	assert.False(t, IsCanceled(ErrEmptyQuery))
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, "ignored"))
	assert.Nil(t, Wrapf(nil, "ignored %d", 1))
}
