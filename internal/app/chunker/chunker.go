// Package chunker merges transcript segments into time-addressed chunks sized
// for embedding.
package chunker

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"vidseek/internal/app/model"
)

// carryRatio bounds the finished part of a buffer split at a sentence boundary
const carryRatio = 0.8

// SelectMaxChars picks the chunk character budget from the segment count
func SelectMaxChars(segmentCount int) int {
	switch {
	case segmentCount < 50:
		return 350
	case segmentCount < 200:
		return 500
	case segmentCount < 500:
		return 750
	default:
		return 1000
	}
}

// span records where a segment's text starts inside the running buffer
type span struct {
	offset    int
	startTime int
	endTime   int
}

// Chunk greedily merges segments into chunks of at most maxChars characters.
// A segment longer than maxChars on its own becomes a single oversized chunk.
func Chunk(segments []model.TranscriptSegment, maxChars int) []model.Chunk {
	if maxChars <= 0 {
		maxChars = SelectMaxChars(len(segments))
	}

	var (
		chunks []model.Chunk
		buf    string
		spans  []span
	)

	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}

		if buf != "" && utf8.RuneCountInString(buf)+1+utf8.RuneCountInString(text) > maxChars {
			var c model.Chunk
			c, buf, spans = split(buf, spans, maxChars)
			chunks = append(chunks, c)
		}

		if buf == "" {
			buf = text
			spans = []span{{offset: 0, startTime: seg.StartTime, endTime: seg.EndTime}}
			continue
		}
		spans = append(spans, span{offset: len(buf) + 1, startTime: seg.StartTime, endTime: seg.EndTime})
		buf += " " + text
	}

	if strings.TrimSpace(buf) != "" {
		chunks = append(chunks, whole(buf, spans))
	}
	return chunks
}

// split finishes a chunk out of buf. The returned buffer and spans hold the
// carried-over remainder, if any.
func split(buf string, spans []span, maxChars int) (model.Chunk, string, []span) {
	limit := int(carryRatio * float64(maxChars))
	cut := sentenceCut(buf, limit)
	if cut <= 0 {
		return whole(buf, spans), "", nil
	}

	head := strings.TrimSpace(buf[:cut])
	rest := strings.TrimLeftFunc(buf[cut:], unicode.IsSpace)
	restOffset := len(buf) - len(rest)

	c := newChunk(head, spans[0].startTime, spans[spanAt(spans, cut-1)].endTime)

	carried := spans[spanAt(spans, restOffset):]
	rebased := make([]span, len(carried))
	for i, s := range carried {
		s.offset -= restOffset
		if s.offset < 0 {
			s.offset = 0
		}
		rebased[i] = s
	}
	return c, rest, rebased
}

func whole(buf string, spans []span) model.Chunk {
	return newChunk(strings.TrimSpace(buf), spans[0].startTime, spans[len(spans)-1].endTime)
}

func newChunk(text string, start, end int) model.Chunk {
	if end < start {
		end = start
	}
	return model.Chunk{Text: text, StartTime: start, EndTime: end}
}

// spanAt returns the index of the segment containing byte offset off
func spanAt(spans []span, off int) int {
	idx := 0
	for i, s := range spans {
		if s.offset > off {
			break
		}
		idx = i
	}
	return idx
}

func isTerminator(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// sentenceCut returns the byte offset of the last internal sentence boundary
// whose prefix fits in limit characters. A boundary is a run of terminators
// followed by whitespace. Zero means the buffer holds a single
// sentence or even the first sentence is too long.
func sentenceCut(buf string, limit int) int {
	best := 0
	inRun := false
	for i, r := range buf {
		if isTerminator(r) {
			inRun = true
			continue
		}
		if !inRun {
			continue
		}
		inRun = false
		// "3.5" and "youtube.com" are not boundaries
		if !unicode.IsSpace(r) {
			continue
		}

		// i is the first byte after a run of terminators
		if strings.TrimSpace(buf[i:]) == "" {
			break
		}
		head := buf[:i]
		if strings.TrimFunc(head, func(r rune) bool { return isTerminator(r) || unicode.IsSpace(r) }) == "" {
			continue
		}
		if utf8.RuneCountInString(strings.TrimSpace(head)) > limit {
			break
		}
		best = i
	}
	return best
}
