package transcript

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vidseek/internal/app/api/deepgram"
	"vidseek/internal/app/model"
)

func words(timings ...float64) []deepgram.Word {
	out := make([]deepgram.Word, 0, len(timings)/2)
	for i := 0; i+1 < len(timings); i += 2 {
		out = append(out, deepgram.Word{Word: "w", Start: timings[i], End: timings[i+1]})
	}
	return out
}

func TestGroupWordsClosesOnDuration(t *testing.T) {
	// Arrange
	input := words(0.2, 0.5, 1.0, 1.4, 4.9, 5.1, 5.2, 5.6, 9.0, 9.3, 10.3, 10.9)

	// Act
	got := GroupWords(input, ChunkingParams{SegmentDuration: 5, MaxWords: 8})

	// Assert
	assert.Equal(t, []model.TranscriptSegment{
		{StartTime: 0, EndTime: 5, Text: "w w w"},
		{StartTime: 5, EndTime: 9, Text: "w w"},
		{StartTime: 10, EndTime: 10, Text: "w"},
	}, got)
}

func TestGroupWordsClosesOnWordCount(t *testing.T) {
	input := make([]deepgram.Word, 0, 10)
	texts := []string{"one", "two", "three", "four", "five", "six", "seven"}
	for i, text := range texts {
		input = append(input, deepgram.Word{Word: text, Start: float64(i) * 0.3, End: float64(i)*0.3 + 0.2})
	}

	got := GroupWords(input, ChunkingParams{SegmentDuration: 15, MaxWords: 3})

	assert.Equal(t, []string{"one two three", "four five six", "seven"}, segmentTexts(got))
}

func TestGroupWordsPrefersPunctuatedWord(t *testing.T) {
	input := []deepgram.Word{
		{Word: "hello", PunctuatedWord: "Hello,", Start: 0, End: 0.4},
		{Word: "world", PunctuatedWord: "world.", Start: 0.5, End: 0.9},
		{Word: " ", Start: 1.0, End: 1.1},
	}

	got := GroupWords(input, ChunkingParams{SegmentDuration: 5, MaxWords: 8})

	assert.Equal(t, []string{"Hello, world."}, segmentTexts(got))
}

func TestSegmentsFromResponseFallbacks(t *testing.T) {
	params := ChunkingParams{SegmentDuration: 5, MaxWords: 8}

	t.Run("sentences when words are missing", func(t *testing.T) {
		resp := responseWith(deepgram.Alternative{
			Transcript: "First one. Second one.",
			Paragraphs: &deepgram.Paragraphs{Paragraphs: []deepgram.Paragraph{{
				Sentences: []deepgram.Sentence{
					{Text: "First one.", Start: 0.4, End: 2.7},
					{Text: "Second one.", Start: 3.1, End: 6.8},
				},
			}}},
		})

		got := SegmentsFromResponse(resp, params)

		assert.Equal(t, []model.TranscriptSegment{
			{StartTime: 0, EndTime: 2, Text: "First one."},
			{StartTime: 3, EndTime: 6, Text: "Second one."},
		}, got)
	})

	t.Run("whole transcript as last resort", func(t *testing.T) {
		resp := responseWith(deepgram.Alternative{Transcript: "  everything at once  "})

		got := SegmentsFromResponse(resp, params)

		assert.Equal(t, []model.TranscriptSegment{{StartTime: 0, EndTime: 0, Text: "everything at once"}}, got)
	})

	t.Run("nothing at all", func(t *testing.T) {
		assert.Empty(t, SegmentsFromResponse(&deepgram.Response{}, params))
		assert.Empty(t, SegmentsFromResponse(responseWith(deepgram.Alternative{}), params))
	})
}

func responseWith(alt deepgram.Alternative) *deepgram.Response {
	resp := &deepgram.Response{}
	resp.Results.Channels = []deepgram.Channel{{Alternatives: []deepgram.Alternative{alt}}}
	return resp
}

func segmentTexts(segments []model.TranscriptSegment) []string {
	out := make([]string, len(segments))
	for i, s := range segments {
		out[i] = s.Text
	}
	return out
}
