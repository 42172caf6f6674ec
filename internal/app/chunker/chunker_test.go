package chunker

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidseek/internal/app/model"
)

func seg(start, end int, text string) model.TranscriptSegment {
	return model.TranscriptSegment{StartTime: start, EndTime: end, Text: text}
}

func TestSelectMaxChars(t *testing.T) {
	tests := []struct {
		segments int
		want     int
	}{
		{0, 350},
		{40, 350},
		{49, 350},
		{50, 500},
		{100, 500},
		{199, 500},
		{200, 750},
		{300, 750},
		{500, 1000},
		{600, 1000},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d segments", tt.segments), func(t *testing.T) {
			assert.Equal(t, tt.want, SelectMaxChars(tt.segments))
		})
	}
}

func TestChunkMergesUntilBudget(t *testing.T) {
	// Arrange
	segments := []model.TranscriptSegment{
		seg(0, 5, "  hello there "),
		seg(5, 10, "general kenobi"),
		seg(10, 15, ""),
		seg(15, 20, "you are a bold one"),
	}

	// Act
	chunks := Chunk(segments, 350)

	// Assert
	require.Len(t, chunks, 1)
	assert.Equal(t, "hello there general kenobi you are a bold one", chunks[0].Text)
	assert.Equal(t, 0, chunks[0].StartTime)
	assert.Equal(t, 20, chunks[0].EndTime)
}

func TestChunkCarriesRemainderAtSentenceBoundary(t *testing.T) {
	// Arrange
	segments := []model.TranscriptSegment{
		seg(0, 4, "First sentence here is short."),
		seg(4, 11, "Second sentence is a bit longer than the first one."),
		seg(11, 15, "Third part without end"),
	}

	// Act
	chunks := Chunk(segments, 100)

	// Assert
	require.Len(t, chunks, 2)
	assert.Equal(t, model.Chunk{Text: "First sentence here is short.", StartTime: 0, EndTime: 4}, chunks[0])
	assert.Equal(t, model.Chunk{
		Text:      "Second sentence is a bit longer than the first one. Third part without end",
		StartTime: 4,
		EndTime:   15,
	}, chunks[1])
}

func TestChunkKeepsTerminators(t *testing.T) {
	segments := []model.TranscriptSegment{
		seg(0, 3, "Is this real?"),
		seg(3, 6, "Yes it is!"),
		seg(6, 9, "and then some more words follow"),
	}

	chunks := Chunk(segments, 30)

	require.NotEmpty(t, chunks)
	assert.Equal(t, "Is this real?", chunks[0].Text)
	joined := strings.Join(texts(chunks), " ")
	assert.Contains(t, joined, "Yes it is!")
}

func TestSentenceCutNeedsWhitespaceAfterTerminator(t *testing.T) {
	tests := []struct {
		name  string
		buf   string
		limit int
		want  string
	}{
		{name: "decimal number", buf: "It costs 3.5 dollars now", limit: 100, want: ""},
		{name: "domain name", buf: "Visit youtube.com for more", limit: 100, want: ""},
		{name: "real boundary after decimal", buf: "Add 2.5 cups. Then stir well", limit: 100, want: "Add 2.5 cups."},
		{name: "ellipsis run", buf: "Wait... what happened", limit: 100, want: "Wait..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			cut := sentenceCut(tt.buf, tt.limit)

			// Assert
			assert.Equal(t, tt.want, tt.buf[:cut])
		})
	}
}

func TestChunkKeepsDecimalsWhole(t *testing.T) {
	// Arrange
	segments := []model.TranscriptSegment{
		seg(0, 5, "The ratio is 3.5 parts flour to one part water and"),
		seg(5, 9, "it rises overnight"),
	}

	// Act
	chunks := Chunk(segments, 60)

	// Assert
	for _, c := range chunks {
		assert.False(t, strings.HasSuffix(c.Text, "3."), "chunk %q splits a decimal", c.Text)
	}
	assert.Contains(t, strings.Join(texts(chunks), " "), "3.5")
}

func TestChunkCutsAsIsWithoutSentenceBoundary(t *testing.T) {
	segments := []model.TranscriptSegment{
		seg(0, 5, "alpha beta gamma"),
		seg(5, 9, "delta epsilon"),
	}

	chunks := Chunk(segments, 20)

	assert.Equal(t, []model.Chunk{
		{Text: "alpha beta gamma", StartTime: 0, EndTime: 5},
		{Text: "delta epsilon", StartTime: 5, EndTime: 9},
	}, chunks)
}

func TestChunkCutsAsIsWhenFirstSentenceTooLong(t *testing.T) {
	segments := []model.TranscriptSegment{
		seg(0, 5, "this opening sentence is far too long. x"),
		seg(5, 9, "tail words"),
	}

	chunks := Chunk(segments, 45)

	require.Len(t, chunks, 2)
	assert.Equal(t, "this opening sentence is far too long. x", chunks[0].Text)
	assert.Equal(t, 9, chunks[1].EndTime)
}

func TestChunkOversizedSegment(t *testing.T) {
	long := strings.Repeat("word ", 100)
	chunks := Chunk([]model.TranscriptSegment{seg(0, 30, long), seg(30, 31, "next")}, 50)

	require.Len(t, chunks, 2)
	assert.Equal(t, strings.TrimSpace(long), chunks[0].Text)
	assert.Equal(t, "next", chunks[1].Text)
}

func TestChunkEmpty(t *testing.T) {
	assert.Empty(t, Chunk(nil, 350))
	assert.Empty(t, Chunk([]model.TranscriptSegment{seg(0, 1, "   ")}, 350))
}

func TestChunkCoverageAndMonotonicity(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	words := []string{"the", "model", "learns", "quickly.", "why?", "because", "data!", "and", "time", "matters"}

	for round := 0; round < 200; round++ {
		// Arrange
		n := 1 + rng.Intn(120)
		segments := make([]model.TranscriptSegment, 0, n)
		at := 0
		for i := 0; i < n; i++ {
			count := 1 + rng.Intn(12)
			parts := make([]string, count)
			for j := range parts {
				parts[j] = words[rng.Intn(len(words))]
			}
			dur := rng.Intn(6)
			segments = append(segments, seg(at, at+dur, strings.Join(parts, " ")))
			at += dur
		}
		maxChars := []int{40, 120, 350}[rng.Intn(3)]

		// Act
		chunks := Chunk(segments, maxChars)

		// Assert
		assert.Equal(t, strings.Fields(strings.Join(segmentTexts(segments), " ")),
			strings.Fields(strings.Join(texts(chunks), " ")), "round %d", round)
		for i, c := range chunks {
			assert.GreaterOrEqual(t, c.EndTime, c.StartTime, "round %d chunk %d", round, i)
			if i > 0 {
				assert.GreaterOrEqual(t, c.StartTime, chunks[i-1].StartTime, "round %d chunk %d", round, i)
			}
		}
	}
}

func texts(chunks []model.Chunk) []string {
	out := make([]string, len(chunks))
	for i, c := range chunks {
		out[i] = c.Text
	}
	return out
}

func segmentTexts(segments []model.TranscriptSegment) []string {
	out := make([]string, len(segments))
	for i, s := range segments {
		out[i] = s.Text
	}
	return out
}
