package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"vidseek/internal/app/model"
	"vidseek/internal/app/retry"
)

const (
	innertubeClientName    = "WEB"
	innertubeClientVersion = "2.20250222.10.00"
	defaultCaptionDuration = 5.0
)

// getTranscriptRE pulls the get_transcript continuation out of a /next reply
var getTranscriptRE = regexp.MustCompile(`"getTranscriptEndpoint":\{"params":"([^"]+)"`)

// CaptionsStrategy reads the platform's own captions: first through the
// Innertube transcript panel endpoints, then through the caption tracks
// listed in the watch page.
type CaptionsStrategy struct {
	baseURL string
	client  *http.Client
	policy  retry.Policy
	logger  *zap.Logger
}

// NewCaptionsStrategy creates the captions strategy against baseURL
func NewCaptionsStrategy(baseURL string, client *http.Client, logger *zap.Logger) *CaptionsStrategy {
	if baseURL == "" {
		baseURL = DefaultYouTubeURL
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CaptionsStrategy{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		policy:  networkPolicy(),
		logger:  logger,
	}
}

// Name implements Strategy
func (s *CaptionsStrategy) Name() string { return model.SourceCaptions }

// Fetch implements Strategy
func (s *CaptionsStrategy) Fetch(ctx context.Context, target *Target) ([]model.TranscriptSegment, error) {
	segments, err := s.fromTranscriptPanel(ctx, target.VideoID)
	if err == nil && len(segments) > 0 {
		return segments, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	s.logger.Debug("Innertube transcript unavailable, trying caption tracks",
		zap.String("video_id", target.VideoID), zap.Error(err))

	page, err := target.HostPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("host page: %w", err)
	}
	doc, err := page.Document(ctx)
	if err != nil {
		return nil, fmt.Errorf("host page: %w", err)
	}

	track, ok := pickTrack(findCaptionTracks(doc))
	if !ok {
		return nil, errors.New("no caption tracks in page")
	}
	return s.fromTrack(ctx, track)
}

// fromTranscriptPanel calls /next for the transcript continuation and then
// /get_transcript with it.
func (s *CaptionsStrategy) fromTranscriptPanel(ctx context.Context, videoID string) ([]model.TranscriptSegment, error) {
	nextData, err := s.postInnertube(ctx, "next", map[string]interface{}{
		"videoId": videoID,
		"context": innertubeContext(),
	})
	if err != nil {
		return nil, fmt.Errorf("/next: %w", err)
	}

	m := getTranscriptRE.FindSubmatch(nextData)
	if len(m) < 2 {
		return nil, errors.New("transcript endpoint not offered for this video")
	}
	params, err := url.QueryUnescape(string(m[1]))
	if err != nil {
		params = string(m[1])
	}

	data, err := s.postInnertube(ctx, "get_transcript", map[string]interface{}{
		"params":  params,
		"context": innertubeContext(),
	})
	if err != nil {
		return nil, fmt.Errorf("/get_transcript: %w", err)
	}

	var resp getTranscriptResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}
	return resp.segments(), nil
}

func innertubeContext() map[string]interface{} {
	return map[string]interface{}{
		"client": map[string]string{
			"clientName":    innertubeClientName,
			"clientVersion": innertubeClientVersion,
			"hl":            "en",
			"gl":            "US",
		},
	}
}

func (s *CaptionsStrategy) postInnertube(ctx context.Context, endpoint string, payload interface{}) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	target := s.baseURL + "/youtubei/v1/" + endpoint + "?prettyPrint=false"

	return retry.Do(ctx, s.policy, func(ctx context.Context, _ int) ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
		if err != nil {
			return nil, retry.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("X-Youtube-Client-Name", "1")
		req.Header.Set("X-Youtube-Client-Version", innertubeClientVersion)
		req.Header.Set("Origin", s.baseURL)

		resp, err := s.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			return nil, &retry.StatusError{StatusCode: resp.StatusCode, Body: truncate(string(data), 256)}
		}
		return data, nil
	})
}

// fromTrack downloads a timedtext XML track
func (s *CaptionsStrategy) fromTrack(ctx context.Context, track captionTrack) ([]model.TranscriptSegment, error) {
	trackURL := track.BaseURL
	if strings.HasPrefix(trackURL, "/") {
		trackURL = s.baseURL + trackURL
	}

	data, err := retry.Do(ctx, s.policy, func(ctx context.Context, _ int) ([]byte, error) {
		return getBody(ctx, s.client, trackURL, maxCaptionBytes, "")
	})
	if err != nil {
		return nil, fmt.Errorf("caption track %s: %w", track.LanguageCode, err)
	}
	return ParseTimedText(data)
}

// ParseTimedText reads <text start="s" dur="d"> entries of a timedtext
// document. A missing dur counts as five seconds; times are floored to whole
// seconds.
func ParseTimedText(data []byte) ([]model.TranscriptSegment, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse timedtext: %w", err)
	}

	var segments []model.TranscriptSegment
	doc.Find("text").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(html.UnescapeString(sel.Text()))
		if text == "" {
			return
		}
		start := attrFloat(sel, "start", 0)
		dur := attrFloat(sel, "dur", defaultCaptionDuration)
		segments = append(segments, model.TranscriptSegment{
			StartTime: floorSeconds(start),
			EndTime:   floorSeconds(start + dur),
			Text:      text,
		})
	})
	return segments, nil
}

func attrFloat(sel *goquery.Selection, name string, fallback float64) float64 {
	raw, ok := sel.Attr(name)
	if !ok {
		return fallback
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

type transcriptSegmentRenderer struct {
	StartMs string `json:"startMs"`
	EndMs   string `json:"endMs"`
	Snippet struct {
		Runs []struct {
			Text string `json:"text"`
		} `json:"runs"`
	} `json:"snippet"`
}

type getTranscriptResponse struct {
	Actions []struct {
		UpdateEngagementPanelAction *struct {
			Content struct {
				TranscriptRenderer struct {
					Content struct {
						TranscriptSearchPanelRenderer struct {
							Body struct {
								TranscriptSegmentListRenderer struct {
									InitialSegments []struct {
										TranscriptSegmentRenderer *transcriptSegmentRenderer `json:"transcriptSegmentRenderer"`
									} `json:"initialSegments"`
								} `json:"transcriptSegmentListRenderer"`
							} `json:"body"`
						} `json:"transcriptSearchPanelRenderer"`
					} `json:"content"`
				} `json:"transcriptRenderer"`
			} `json:"content"`
		} `json:"updateEngagementPanelAction"`
	} `json:"actions"`
}

func (r getTranscriptResponse) segments() []model.TranscriptSegment {
	var segments []model.TranscriptSegment
	for _, action := range r.Actions {
		if action.UpdateEngagementPanelAction == nil {
			continue
		}
		initial := action.UpdateEngagementPanelAction.Content.
			TranscriptRenderer.Content.
			TranscriptSearchPanelRenderer.Body.
			TranscriptSegmentListRenderer.InitialSegments
		for _, seg := range initial {
			if seg.TranscriptSegmentRenderer == nil {
				continue
			}
			renderer := seg.TranscriptSegmentRenderer
			parts := make([]string, 0, len(renderer.Snippet.Runs))
			for _, run := range renderer.Snippet.Runs {
				parts = append(parts, run.Text)
			}
			text := strings.TrimSpace(strings.Join(parts, ""))
			if text == "" {
				continue
			}
			startMs, _ := strconv.Atoi(renderer.StartMs)
			endMs, err := strconv.Atoi(renderer.EndMs)
			if err != nil {
				endMs = startMs + int(defaultCaptionDuration*1000)
			}
			segments = append(segments, model.TranscriptSegment{
				StartTime: startMs / 1000,
				EndTime:   endMs / 1000,
				Text:      text,
			})
		}
	}
	return segments
}
