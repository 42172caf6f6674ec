package transcript

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"vidseek/internal/app/api/deepgram"
	"vidseek/internal/app/model"
)

// Transcriber turns a remote audio URL into a word-timed transcription
type Transcriber interface {
	Configured() bool
	Transcribe(ctx context.Context, audioURL string) (*deepgram.Response, error)
}

// AudioStrategy finds the page's audio stream and sends it to a speech to
// text provider.
type AudioStrategy struct {
	transcriber Transcriber
	logger      *zap.Logger
}

// NewAudioStrategy creates the audio fallback strategy
func NewAudioStrategy(transcriber Transcriber, logger *zap.Logger) *AudioStrategy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AudioStrategy{transcriber: transcriber, logger: logger}
}

// Name implements Strategy
func (s *AudioStrategy) Name() string { return model.SourceAudio }

// Fetch implements Strategy
func (s *AudioStrategy) Fetch(ctx context.Context, target *Target) ([]model.TranscriptSegment, error) {
	if s.transcriber == nil || !s.transcriber.Configured() {
		return nil, fmt.Errorf("%w: no speech to text credentials", errSkipped)
	}

	page, err := target.HostPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("host page: %w", err)
	}
	doc, err := page.Document(ctx)
	if err != nil {
		return nil, fmt.Errorf("host page: %w", err)
	}

	duration := target.DurationSeconds()
	var audioURL string
	if pr, err := findPlayerResponse(doc); err == nil {
		audioURL = pr.bestAudioURL()
		if duration == 0 {
			duration = pr.lengthSeconds()
		}
	} else {
		s.logger.Debug("No player response in page", zap.String("video_id", target.VideoID), zap.Error(err))
	}
	if audioURL == "" {
		audioURL = doc.Find("video[src]").First().AttrOr("src", "")
	}
	if audioURL == "" {
		return nil, errors.New("no audio stream url in page")
	}

	resp, err := s.transcriber.Transcribe(ctx, audioURL)
	if err != nil {
		return nil, err
	}

	params := ChunkingParamsFor(duration)
	s.logger.Debug("Grouping transcribed words",
		zap.String("video_id", target.VideoID),
		zap.Int("duration", duration),
		zap.Int("segment_duration", params.SegmentDuration),
		zap.Int("max_words", params.MaxWords))
	return SegmentsFromResponse(resp, params), nil
}
