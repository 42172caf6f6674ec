package transcript

import (
	"math"
	"strings"

	"vidseek/internal/app/api/deepgram"
	"vidseek/internal/app/model"
)

// SegmentsFromResponse turns a transcription response into segments. Word
// timings are grouped with params; without them the sentence breakdown is
// used, and as a last resort the whole transcript becomes one segment.
func SegmentsFromResponse(resp *deepgram.Response, params ChunkingParams) []model.TranscriptSegment {
	alt := resp.Primary()
	if alt == nil {
		return nil
	}

	if segments := GroupWords(alt.Words, params); len(segments) > 0 {
		return segments
	}

	var segments []model.TranscriptSegment
	if alt.Paragraphs != nil {
		for _, p := range alt.Paragraphs.Paragraphs {
			for _, s := range p.Sentences {
				text := strings.TrimSpace(s.Text)
				if text == "" {
					continue
				}
				segments = append(segments, model.TranscriptSegment{
					StartTime: floorSeconds(s.Start),
					EndTime:   floorSeconds(s.End),
					Text:      text,
				})
			}
		}
	}
	if len(segments) > 0 {
		return segments
	}

	if text := strings.TrimSpace(alt.Transcript); text != "" {
		return []model.TranscriptSegment{{StartTime: 0, EndTime: 0, Text: text}}
	}
	return nil
}

// GroupWords accumulates words into segments. A segment closes before the
// next word once that word starts SegmentDuration or more seconds after the
// segment began, or once the segment holds MaxWords words.
func GroupWords(words []deepgram.Word, params ChunkingParams) []model.TranscriptSegment {
	var (
		segments []model.TranscriptSegment
		text     []string
		start    float64
		end      float64
	)

	flush := func() {
		if len(text) == 0 {
			return
		}
		segments = append(segments, model.TranscriptSegment{
			StartTime: floorSeconds(start),
			EndTime:   floorSeconds(end),
			Text:      strings.TrimSpace(strings.Join(text, " ")),
		})
		text = text[:0]
	}

	for _, w := range words {
		word := strings.TrimSpace(w.Text())
		if word == "" {
			continue
		}
		if len(text) > 0 && (w.Start-start >= float64(params.SegmentDuration) || len(text) >= params.MaxWords) {
			flush()
		}
		if len(text) == 0 {
			start = w.Start
		}
		end = w.End
		text = append(text, word)
	}
	flush()

	return segments
}

func floorSeconds(v float64) int {
	if v <= 0 {
		return 0
	}
	return int(math.Floor(v))
}
