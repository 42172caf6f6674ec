package transcript

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"vidseek/internal/app/api/deepgram"
	apperrors "vidseek/internal/app/errors"
)

type MockTranscriber struct {
	mock.Mock
}

func (m *MockTranscriber) Configured() bool {
	return m.Called().Bool(0)
}

func (m *MockTranscriber) Transcribe(ctx context.Context, audioURL string) (*deepgram.Response, error) {
	args := m.Called(ctx, audioURL)
	resp, _ := args.Get(0).(*deepgram.Response)
	return resp, args.Error(1)
}

// tenWords returns ten words, one per second
func tenWords() *deepgram.Response {
	ws := make([]deepgram.Word, 10)
	for i := range ws {
		ws[i] = deepgram.Word{Word: "w", Start: float64(i), End: float64(i) + 0.5}
	}
	return responseWith(deepgram.Alternative{Words: ws})
}

func TestAudioStrategyTranscribesBestStream(t *testing.T) {
	// Arrange
	transcriber := &MockTranscriber{}
	transcriber.On("Configured").Return(true)
	transcriber.On("Transcribe", mock.Anything, "https://cdn.example/medium-b.webm").Return(tenWords(), nil)
	strategy := NewAudioStrategy(transcriber, nil)
	page := NewSnapshotPage(playerPage)

	// Act
	got, err := strategy.Fetch(context.Background(), NewTarget(Request{VideoID: "abc123", Page: page}, nil))

	// Assert
	require.NoError(t, err)
	// 754s from videoDetails falls in the 10-30 minute bucket: 8s / 12 words
	assert.Equal(t, []string{"w w w w w w w w", "w w"}, segmentTexts(got))
	transcriber.AssertExpectations(t)
}

func TestAudioStrategySessionDurationWins(t *testing.T) {
	transcriber := &MockTranscriber{}
	transcriber.On("Configured").Return(true)
	transcriber.On("Transcribe", mock.Anything, mock.Anything).Return(tenWords(), nil)
	strategy := NewAudioStrategy(transcriber, nil)

	got, err := strategy.Fetch(context.Background(),
		NewTarget(Request{VideoID: "abc123", Duration: "4:10", Page: NewSnapshotPage(playerPage)}, nil))

	require.NoError(t, err)
	// under ten minutes: 5s / 8 words
	assert.Equal(t, []string{"w w w w w", "w w w w w"}, segmentTexts(got))
}

func TestAudioStrategyFallsBackToVideoSrc(t *testing.T) {
	transcriber := &MockTranscriber{}
	transcriber.On("Configured").Return(true)
	transcriber.On("Transcribe", mock.Anything, "blob-free.mp4").Return(tenWords(), nil)
	strategy := NewAudioStrategy(transcriber, nil)
	page := NewSnapshotPage(`<html><body><video src="blob-free.mp4"></video></body></html>`)

	got, err := strategy.Fetch(context.Background(), NewTarget(Request{VideoID: "abc123", Page: page}, nil))

	require.NoError(t, err)
	assert.NotEmpty(t, got)
	transcriber.AssertExpectations(t)
}

func TestAudioStrategyFailures(t *testing.T) {
	t.Run("skipped without credentials", func(t *testing.T) {
		transcriber := &MockTranscriber{}
		transcriber.On("Configured").Return(false)

		_, err := NewAudioStrategy(transcriber, nil).Fetch(context.Background(),
			NewTarget(Request{VideoID: "abc123", Page: NewSnapshotPage(playerPage)}, nil))

		assert.ErrorIs(t, err, errSkipped)
		transcriber.AssertNotCalled(t, "Transcribe", mock.Anything, mock.Anything)
	})

	t.Run("no stream in page", func(t *testing.T) {
		transcriber := &MockTranscriber{}
		transcriber.On("Configured").Return(true)

		_, err := NewAudioStrategy(transcriber, nil).Fetch(context.Background(),
			NewTarget(Request{VideoID: "abc123", Page: NewSnapshotPage("<html></html>")}, nil))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no audio stream")
	})

	t.Run("provider error propagates", func(t *testing.T) {
		transcriber := &MockTranscriber{}
		transcriber.On("Configured").Return(true)
		transcriber.On("Transcribe", mock.Anything, mock.Anything).
			Return(nil, apperrors.NewProviderError("deepgram", 402, "insufficient credits"))

		_, err := NewAudioStrategy(transcriber, nil).Fetch(context.Background(),
			NewTarget(Request{VideoID: "abc123", Page: NewSnapshotPage(playerPage)}, nil))

		assert.True(t, apperrors.IsProviderError(err))
	})
}
