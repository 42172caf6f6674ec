package transcript

import (
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	playerResponseMarker = "ytInitialPlayerResponse"
	captionTracksMarker  = `"captionTracks":`
)

// playerResponse is the part of ytInitialPlayerResponse the strategies read
type playerResponse struct {
	StreamingData struct {
		AdaptiveFormats []streamFormat `json:"adaptiveFormats"`
	} `json:"streamingData"`
	VideoDetails struct {
		VideoID       string `json:"videoId"`
		LengthSeconds string `json:"lengthSeconds"`
	} `json:"videoDetails"`
	Captions *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

type streamFormat struct {
	URL          string `json:"url"`
	MimeType     string `json:"mimeType"`
	AudioQuality string `json:"audioQuality"`
	Bitrate      int    `json:"bitrate"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" for auto-generated
}

// lengthSeconds returns videoDetails.lengthSeconds, or zero
func (p *playerResponse) lengthSeconds() int {
	v, err := strconv.Atoi(p.VideoDetails.LengthSeconds)
	if err != nil {
		return 0
	}
	return v
}

var audioQualityRank = map[string]int{
	"AUDIO_QUALITY_HIGH":     4,
	"AUDIO_QUALITY_MEDIUM":   3,
	"AUDIO_QUALITY_LOW":      2,
	"AUDIO_QUALITY_ULTRALOW": 1,
}

// bestAudioURL picks the direct URL of the highest quality audio-only stream
func (p *playerResponse) bestAudioURL() string {
	var candidates []streamFormat
	for _, f := range p.StreamingData.AdaptiveFormats {
		if f.URL != "" && strings.Contains(f.MimeType, "audio") {
			candidates = append(candidates, f)
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		ri, rj := audioQualityRank[candidates[i].AudioQuality], audioQualityRank[candidates[j].AudioQuality]
		if ri != rj {
			return ri > rj
		}
		return candidates[i].Bitrate > candidates[j].Bitrate
	})
	return candidates[0].URL
}

// findPlayerResponse decodes the ytInitialPlayerResponse assignment from the
// page scripts.
func findPlayerResponse(doc *goquery.Document) (*playerResponse, error) {
	var raw string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		idx := strings.Index(text, playerResponseMarker)
		if idx < 0 {
			return true
		}
		rest := text[idx+len(playerResponseMarker):]
		eq := strings.Index(rest, "=")
		if eq < 0 {
			return true
		}
		raw = extractBalanced(rest[eq+1:], '{', '}')
		return raw == ""
	})
	if raw == "" {
		return nil, errors.New("ytInitialPlayerResponse not found")
	}

	var pr playerResponse
	if err := json.Unmarshal([]byte(raw), &pr); err != nil {
		return nil, err
	}
	return &pr, nil
}

// findCaptionTracks returns the caption track list embedded in the page
func findCaptionTracks(doc *goquery.Document) []captionTrack {
	var tracks []captionTrack
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		idx := strings.Index(text, captionTracksMarker)
		if idx < 0 {
			return true
		}
		raw := extractBalanced(text[idx+len(captionTracksMarker):], '[', ']')
		if raw == "" {
			return true
		}
		if err := json.Unmarshal([]byte(raw), &tracks); err != nil {
			tracks = nil
			return true
		}
		return len(tracks) == 0
	})
	return tracks
}

// pickTrack prefers a manual English track, then an auto-generated English
// one, then whatever comes first.
func pickTrack(tracks []captionTrack) (captionTrack, bool) {
	if len(tracks) == 0 {
		return captionTrack{}, false
	}
	isEnglish := func(t captionTrack) bool { return strings.HasPrefix(t.LanguageCode, "en") }
	for _, t := range tracks {
		if isEnglish(t) && t.Kind != "asr" && t.BaseURL != "" {
			return t, true
		}
	}
	for _, t := range tracks {
		if isEnglish(t) && t.BaseURL != "" {
			return t, true
		}
	}
	for _, t := range tracks {
		if t.BaseURL != "" {
			return t, true
		}
	}
	return captionTrack{}, false
}

// extractBalanced returns the JSON value starting at the first open byte in s,
// up to its matching close byte. Brackets inside strings are ignored.
func extractBalanced(s string, open, close byte) string {
	start := strings.IndexByte(s, open)
	if start < 0 {
		return ""
	}
	if prefix := strings.TrimSpace(s[:start]); prefix != "" {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
