package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeekURL(t *testing.T) {
	assert.Equal(t, "https://www.youtube.com/watch?v=abc123&t=95s", SeekURL("abc123", 95))
	assert.Equal(t, "https://www.youtube.com/watch?v=abc123&t=0s", SeekURL("abc123", -4))
}

func TestTranscriptDuration(t *testing.T) {
	var nilTranscript *Transcript
	assert.True(t, nilTranscript.Empty())
	assert.Equal(t, 0, nilTranscript.Duration())

	tr := &Transcript{Segments: []TranscriptSegment{
		{StartTime: 0, EndTime: 5, Text: "a"},
		{StartTime: 5, EndTime: 12, Text: "b"},
	}}
	assert.False(t, tr.Empty())
	assert.Equal(t, 12, tr.Duration())
}
