package model

import (
	"fmt"
	"net/url"
)

// WatchURL is the base used when building seek links
const WatchURL = "https://www.youtube.com/watch"

// SearchResult is one ranked match for a query. Not persisted.
type SearchResult struct {
	StartTime  int     `json:"startTime"`
	EndTime    int     `json:"endTime"`
	Text       string  `json:"text"`
	Similarity float64 `json:"similarity"`
	SeekURL    string  `json:"seekUrl,omitempty"`
}

// SeekURL returns a watch link that starts playback at the given second
func SeekURL(videoID string, seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%s?v=%s&t=%ds", WatchURL, url.QueryEscape(videoID), seconds)
}
