// Package transcript acquires a time-stamped transcript for a video by trying
// several sources in order and normalizing whatever the first one returns.
package transcript

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	apperrors "vidseek/internal/app/errors"
	"vidseek/internal/app/model"
)

// Acquisition outcomes reported to the Recorder
const (
	OutcomeSuccess = "success"
	OutcomeEmpty   = "empty"
	OutcomeError   = "error"
	OutcomeSkipped = "skipped"
)

// errSkipped marks a strategy that could not run at all (missing credentials)
var errSkipped = errors.New("strategy skipped")

// Request describes the video to acquire
type Request struct {
	VideoID string
	// Duration as displayed by the player (MM:SS or HH:MM:SS); may be empty
	Duration string
	// Page is the caller's view of the host page; loaded on demand when nil
	Page Page
}

// Target is a Request bound to a page loader. The page is loaded at most once
// per acquisition and shared by every strategy that needs it.
type Target struct {
	Request

	loader  PageLoader
	loaded  bool
	pageErr error
}

// NewTarget binds req to loader
func NewTarget(req Request, loader PageLoader) *Target {
	return &Target{Request: req, loader: loader, loaded: req.Page != nil}
}

// HostPage returns the request page, loading it on first use
func (t *Target) HostPage(ctx context.Context) (Page, error) {
	if t.loaded {
		return t.Page, t.pageErr
	}
	t.loaded = true
	if t.loader == nil {
		t.pageErr = errors.New("no host page available")
		return nil, t.pageErr
	}
	t.Page, t.pageErr = t.loader.Load(ctx, t.VideoID)
	return t.Page, t.pageErr
}

// DurationSeconds parses the displayed duration; unparsable values are zero
func (t *Target) DurationSeconds() int {
	seconds, err := ParseDuration(t.Duration)
	if err != nil {
		return 0
	}
	return seconds
}

// Strategy is one way of obtaining a transcript
type Strategy interface {
	Name() string
	Fetch(ctx context.Context, target *Target) ([]model.TranscriptSegment, error)
}

// Recorder is told the outcome of every strategy attempt
type Recorder interface {
	TranscriptAcquisition(strategy, outcome string)
}

// Acquirer runs strategies in priority order; the first non-empty result wins
type Acquirer struct {
	strategies []Strategy
	loader     PageLoader
	logger     *zap.Logger
	recorder   Recorder
}

// AcquirerOption configures an Acquirer
type AcquirerOption func(*Acquirer)

// WithRecorder reports strategy outcomes to rec
func WithRecorder(rec Recorder) AcquirerOption {
	return func(a *Acquirer) { a.recorder = rec }
}

// WithPageLoader sets the loader used when a request carries no page
func WithPageLoader(loader PageLoader) AcquirerOption {
	return func(a *Acquirer) { a.loader = loader }
}

// NewAcquirer creates an acquirer over strategies, tried in the given order
func NewAcquirer(logger *zap.Logger, strategies []Strategy, opts ...AcquirerOption) *Acquirer {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Acquirer{strategies: strategies, logger: logger}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Acquire returns the transcript from the first strategy that yields one.
// Strategy failures are logged and skipped; ErrNoTranscriptAvailable is
// returned once all of them are exhausted.
func (a *Acquirer) Acquire(ctx context.Context, req Request) (model.Transcript, error) {
	target := NewTarget(req, a.loader)
	log := a.logger.With(zap.String("video_id", req.VideoID))

	for _, s := range a.strategies {
		if err := ctx.Err(); err != nil {
			return model.Transcript{}, err
		}

		segments, err := s.Fetch(ctx, target)
		if err != nil && ctx.Err() != nil {
			return model.Transcript{}, ctx.Err()
		}
		segments = normalize(segments)

		switch {
		case errors.Is(err, errSkipped):
			a.record(s.Name(), OutcomeSkipped)
			log.Debug("Transcript strategy skipped", zap.String("strategy", s.Name()), zap.Error(err))
			continue
		case err != nil:
			a.record(s.Name(), OutcomeError)
			log.Info("Transcript strategy failed", zap.String("strategy", s.Name()), zap.Error(err))
			continue
		case len(segments) == 0:
			a.record(s.Name(), OutcomeEmpty)
			log.Info("Transcript strategy returned nothing", zap.String("strategy", s.Name()))
			continue
		}

		a.record(s.Name(), OutcomeSuccess)
		log.Info("Transcript acquired",
			zap.String("strategy", s.Name()),
			zap.Int("segments", len(segments)))
		return model.Transcript{VideoID: req.VideoID, Source: s.Name(), Segments: segments}, nil
	}

	return model.Transcript{}, fmt.Errorf("video %s: %w", req.VideoID, apperrors.ErrNoTranscriptAvailable)
}

func (a *Acquirer) record(strategy, outcome string) {
	if a.recorder != nil {
		a.recorder.TranscriptAcquisition(strategy, outcome)
	}
}

// normalize trims text, drops empty segments, clamps end times and orders by start
func normalize(segments []model.TranscriptSegment) []model.TranscriptSegment {
	out := make([]model.TranscriptSegment, 0, len(segments))
	for _, s := range segments {
		s.Text = strings.Join(strings.Fields(s.Text), " ")
		if s.Text == "" {
			continue
		}
		if s.StartTime < 0 {
			s.StartTime = 0
		}
		if s.EndTime < s.StartTime {
			s.EndTime = s.StartTime
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out
}
