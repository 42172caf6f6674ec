package testutil

import (
	"fmt"
	"html"
	"strings"

	"vidseek/internal/app/model"
)

// TestVideoID is a syntactically valid watch id
const TestVideoID = "dQw4w9WgXcQ"

// TestSegments is a short cooking transcript with sentence boundaries
var TestSegments = []model.TranscriptSegment{
	{StartTime: 0, EndTime: 4, Text: "Welcome back to the kitchen."},
	{StartTime: 4, EndTime: 9, Text: "Today we are baking a sourdough loaf from scratch."},
	{StartTime: 9, EndTime: 15, Text: "First, feed the starter with equal parts flour and water."},
	{StartTime: 15, EndTime: 22, Text: "Let it rise until it doubles, usually four to six hours."},
	{StartTime: 22, EndTime: 30, Text: "Then mix the dough and fold it every thirty minutes."},
	{StartTime: 30, EndTime: 38, Text: "Bake at two hundred fifty degrees with the lid on."},
}

// TestTranscript returns a copy of TestSegments as a transcript for videoID
func TestTranscript(videoID string) model.Transcript {
	segments := make([]model.TranscriptSegment, len(TestSegments))
	copy(segments, TestSegments)
	return model.Transcript{VideoID: videoID, Source: model.SourceCaptions, Segments: segments}
}

// TestSearchResults is a ranked result list for TestVideoID
func TestSearchResults() []model.SearchResult {
	return []model.SearchResult{
		{StartTime: 9, EndTime: 22, Text: TestSegments[2].Text + " " + TestSegments[3].Text, Similarity: 0.91,
			SeekURL: model.SeekURL(TestVideoID, 9)},
		{StartTime: 0, EndTime: 9, Text: TestSegments[0].Text + " " + TestSegments[1].Text, Similarity: 0.74,
			SeekURL: model.SeekURL(TestVideoID, 0)},
	}
}

// RenderedTranscriptPage builds a watch page whose transcript panel is
// already rendered with segments, the way the player shows them.
func RenderedTranscriptPage(segments []model.TranscriptSegment) string {
	var b strings.Builder
	b.WriteString(`<html><body><ytd-transcript-renderer><div id="segments-container">`)
	for _, seg := range segments {
		fmt.Fprintf(&b,
			`<ytd-transcript-segment-renderer><div class="segment-timestamp">%d:%02d</div><yt-formatted-string class="segment-text">%s</yt-formatted-string></ytd-transcript-segment-renderer>`,
			seg.StartTime/60, seg.StartTime%60, html.EscapeString(seg.Text))
	}
	b.WriteString(`</div></ytd-transcript-renderer></body></html>`)
	return b.String()
}
