package dto

import (
	"time"

	"vidseek/internal/app/model"
)

// SearchRequest is the body of POST /videos/:videoId/search
type SearchRequest struct {
	Query string `json:"query" binding:"required,max=500"`
	// Duration as shown by the player, MM:SS or HH:MM:SS
	Duration string `json:"duration" binding:"max=16"`
	// PageHTML is an optional snapshot of the watch page
	PageHTML string `json:"pageHtml"`
}

// PageRequest is the optional body of the index and transcript endpoints
type PageRequest struct {
	Duration string `json:"duration" binding:"max=16"`
	PageHTML string `json:"pageHtml"`
}

// SearchResponse lists the ranked matches for one query
type SearchResponse struct {
	VideoID  string               `json:"videoId"`
	Provider string               `json:"provider"`
	Results  []model.SearchResult `json:"results"`
}

// IndexResponse describes a built or reused chunk index
type IndexResponse struct {
	VideoID   string `json:"videoId"`
	Provider  string `json:"provider"`
	Model     string `json:"model"`
	Source    string `json:"source"`
	Segments  int    `json:"segments"`
	Chunks    int    `json:"chunks"`
	Dimension int    `json:"dimension"`
	Cached    bool   `json:"cached"`
}

// TranscriptResponse is a transcript as returned to clients
type TranscriptResponse struct {
	VideoID  string                    `json:"videoId"`
	Source   string                    `json:"source"`
	Duration int                       `json:"duration"`
	Segments []model.TranscriptSegment `json:"segments"`
}

// SweepResponse reports how many cache entries a sweep removed
type SweepResponse struct {
	Removed int       `json:"removed"`
	SweptAt time.Time `json:"sweptAt"`
}

// ExportRequest selects the export format
type ExportRequest struct {
	Format string `form:"format" binding:"omitempty,oneof=csv json xlsx"`
}
