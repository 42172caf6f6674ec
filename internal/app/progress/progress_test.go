package progress

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidseek/internal/app/embedding/orchestrator"
)

func TestDisabledManagerHandsOutNoopBars(t *testing.T) {
	// Arrange
	m := NewManager(Config{Enabled: false})

	// Act
	bar := m.CreateBar(10, "Embedding")
	bar.SetCurrent(5)
	bar.Complete()
	bar.Abort()
	m.Wait()

	// Assert
	assert.False(t, bar.enabled)
	assert.Nil(t, bar.bar)
}

func TestEmbeddingTrackerFollowsBatches(t *testing.T) {
	// Arrange
	var out bytes.Buffer
	m := NewManager(Config{Enabled: true, Writer: &out})
	tracker := NewEmbeddingTracker(m, "Embedding chunks")

	// Act
	tracker.OnProgress(orchestrator.Progress{Batch: 1, Batches: 2, First: 1, Last: 5, Total: 10})
	tracker.OnProgress(orchestrator.Progress{Batch: 2, Batches: 2, First: 6, Last: 10, Total: 10})
	tracker.Finish(nil)
	m.Wait()

	// Assert
	require.NotNil(t, tracker.bar)
	assert.Equal(t, 10, tracker.total)
	assert.True(t, tracker.bar.bar.Completed())
	assert.Equal(t, int64(10), tracker.bar.bar.Current())
}

func TestEmbeddingTrackerAbortsOnError(t *testing.T) {
	// Arrange
	var out bytes.Buffer
	m := NewManager(Config{Enabled: true, Writer: &out})
	tracker := NewEmbeddingTracker(m, "Embedding chunks")
	tracker.OnProgress(orchestrator.Progress{Batch: 1, Batches: 3, First: 1, Last: 1, Total: 3})

	// Act
	tracker.Finish(errors.New("canceled"))
	m.Wait()

	// Assert
	assert.True(t, tracker.bar.bar.Aborted())
}

func TestFinishWithoutProgressIsNoop(t *testing.T) {
	tracker := NewEmbeddingTracker(NewManager(Config{}), "idle")
	assert.NotPanics(t, func() { tracker.Finish(nil) })
	assert.Nil(t, tracker.bar)
}

func TestIsTTY(t *testing.T) {
	assert.False(t, IsTTY(nil))
	assert.False(t, IsTTY(&bytes.Buffer{}))
	assert.True(t, ShouldShowProgress(true))
}
