package transcript

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"vidseek/internal/app/model"
	"vidseek/internal/app/retry"
)

// DOMSegmentDuration is the duration given to rendered segments, which only
// show their start time.
const DOMSegmentDuration = 5

var (
	segmentSelectors = []string{
		"ytd-transcript-segment-renderer",
		".segment",
		"[data-start-time]",
		`[class*="transcript-segment"]`,
		`[class*="caption-segment"]`,
	}
	timestampSelectors = []string{".segment-timestamp", "button[aria-label]", "button", `[role="button"]`}
	textSelectors      = []string{".segment-text", `[class*="segment-text"]`, "yt-formatted-string"}
	timeAttributes     = []string{"data-start-time", "data-time", "start-time"}

	timestampRE = regexp.MustCompile(`\d+(?::\d+){1,2}`)

	errNotRendered = errors.New("transcript panel not rendered")
)

// DOMStrategy reads the transcript panel rendered in the host page. When the
// panel is closed it asks the page to open it and polls until segments show up.
type DOMStrategy struct {
	policy retry.Policy
	logger *zap.Logger
}

// DefaultPollPolicy waits 1s, 1.5s, 2s, ... between ten looks at the page
func DefaultPollPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts: 10,
		Backoff:     retry.LinearBackoff(time.Second, 500*time.Millisecond),
	}
}

// NewDOMStrategy creates the DOM strategy. A zero policy means DefaultPollPolicy.
func NewDOMStrategy(policy retry.Policy, logger *zap.Logger) *DOMStrategy {
	if policy.MaxAttempts == 0 {
		policy = DefaultPollPolicy()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DOMStrategy{policy: policy, logger: logger}
}

// Name implements Strategy
func (s *DOMStrategy) Name() string { return model.SourceDOM }

// Fetch implements Strategy
func (s *DOMStrategy) Fetch(ctx context.Context, target *Target) ([]model.TranscriptSegment, error) {
	page, err := target.HostPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("host page: %w", err)
	}

	if segments, err := renderedSegments(ctx, page); err != nil || len(segments) > 0 {
		return segments, err
	}

	if err := page.OpenTranscriptPanel(ctx); err != nil {
		if errors.Is(err, ErrPanelUnsupported) {
			return nil, errNotRendered
		}
		s.logger.Debug("Opening transcript panel failed", zap.String("video_id", target.VideoID), zap.Error(err))
	}

	return retry.Do(ctx, s.policy, func(ctx context.Context, attempt int) ([]model.TranscriptSegment, error) {
		segments, err := renderedSegments(ctx, page)
		if err != nil {
			return nil, retry.Permanent(err)
		}
		if len(segments) == 0 {
			s.logger.Debug("Waiting for transcript panel",
				zap.String("video_id", target.VideoID),
				zap.Int("attempt", attempt+1))
			return nil, errNotRendered
		}
		return segments, nil
	})
}

func renderedSegments(ctx context.Context, page Page) ([]model.TranscriptSegment, error) {
	doc, err := page.Document(ctx)
	if err != nil {
		return nil, err
	}
	return ParseRenderedSegments(doc), nil
}

// ParseRenderedSegments extracts segments from the first selector that
// matches anything. Elements without a readable timestamp or text are skipped.
func ParseRenderedSegments(doc *goquery.Document) []model.TranscriptSegment {
	for _, selector := range segmentSelectors {
		elements := doc.Find(selector)
		if elements.Length() == 0 {
			continue
		}

		var segments []model.TranscriptSegment
		elements.Each(func(_ int, el *goquery.Selection) {
			start, ok := segmentStart(el)
			if !ok {
				return
			}
			text := segmentText(el)
			if text == "" {
				return
			}
			segments = append(segments, model.TranscriptSegment{
				StartTime: start,
				EndTime:   start + DOMSegmentDuration,
				Text:      text,
			})
		})
		if len(segments) > 0 {
			return segments
		}
	}
	return nil
}

func segmentStart(el *goquery.Selection) (int, bool) {
	for _, selector := range timestampSelectors {
		found := el.Find(selector).First()
		if found.Length() == 0 {
			continue
		}
		for _, candidate := range []string{strings.TrimSpace(found.Text()), found.AttrOr("aria-label", "")} {
			if m := timestampRE.FindString(candidate); m != "" {
				if seconds, err := ParseTimestamp(m); err == nil {
					return seconds, true
				}
			}
		}
	}

	for _, attr := range timeAttributes {
		if raw, ok := el.Attr(attr); ok {
			if v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil && v >= 0 {
				return int(v), true
			}
		}
	}

	if m := timestampRE.FindString(el.Text()); m != "" {
		if seconds, err := ParseTimestamp(m); err == nil {
			return seconds, true
		}
	}
	return 0, false
}

func segmentText(el *goquery.Selection) string {
	for _, selector := range textSelectors {
		found := el.Find(selector).First()
		if found.Length() == 0 {
			continue
		}
		if text := strings.Join(strings.Fields(found.Text()), " "); text != "" {
			return text
		}
	}
	return ""
}
