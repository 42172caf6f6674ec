package transcript

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseTimestamp converts a displayed timestamp into seconds. Two-part values
// are always MM:SS, even when the minutes exceed 59; three-part values are
// HH:MM:SS.
func ParseTimestamp(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid timestamp %q", s)
	}

	values := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 {
			return 0, fmt.Errorf("invalid timestamp %q", s)
		}
		values[i] = v
	}

	if len(values) == 2 {
		return values[0]*60 + values[1], nil
	}
	return values[0]*3600 + values[1]*60 + values[2], nil
}

// ParseDuration accepts a player duration in MM:SS or HH:MM:SS form, or a
// plain number of seconds. An empty string is zero.
func ParseDuration(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if !strings.Contains(s, ":") {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		return v, nil
	}
	return ParseTimestamp(s)
}

// ChunkingParams bound how many words of an audio transcription are grouped
// into one segment.
type ChunkingParams struct {
	SegmentDuration int // seconds
	MaxWords        int
}

// ChunkingParamsFor picks grouping bounds from the video duration in seconds.
// Longer videos get longer segments.
func ChunkingParamsFor(durationSeconds int) ChunkingParams {
	minutes := float64(durationSeconds) / 60
	switch {
	case minutes < 10:
		return ChunkingParams{SegmentDuration: 5, MaxWords: 8}
	case minutes < 30:
		return ChunkingParams{SegmentDuration: 8, MaxWords: 12}
	case minutes < 60:
		return ChunkingParams{SegmentDuration: 12, MaxWords: 18}
	default:
		return ChunkingParams{SegmentDuration: 15, MaxWords: 25}
	}
}
