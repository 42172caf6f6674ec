package model

// TranscriptSegment is one timed piece of spoken text. Times are whole seconds.
type TranscriptSegment struct {
	StartTime int    `json:"startTime"`
	EndTime   int    `json:"endTime"`
	Text      string `json:"text"`
}

// Transcript sources
const (
	SourceCaptions = "captions"
	SourceDOM      = "dom"
	SourceAudio    = "audio"
)

// Transcript is the ordered segment list acquired for one video
type Transcript struct {
	VideoID  string              `json:"videoId"`
	Source   string              `json:"source,omitempty"`
	Segments []TranscriptSegment `json:"segments"`
}

// Empty reports whether the transcript carries no segments
func (t *Transcript) Empty() bool {
	return t == nil || len(t.Segments) == 0
}

// Duration returns the end time of the last segment
func (t *Transcript) Duration() int {
	if t.Empty() {
		return 0
	}
	return t.Segments[len(t.Segments)-1].EndTime
}
