package services

import (
	"context"
	"io"

	"vidseek/internal/api/v1/dto"
)

// VideoService answers searches and manages the per-video index
type VideoService interface {
	Search(ctx context.Context, videoID string, req dto.SearchRequest) (*dto.SearchResponse, error)
	BuildIndex(ctx context.Context, videoID string, req dto.PageRequest) (*dto.IndexResponse, error)
	GetTranscript(ctx context.Context, videoID string, req dto.PageRequest) (*dto.TranscriptResponse, error)
}

// CacheService manages cached transcripts and embeddings
type CacheService interface {
	Invalidate(ctx context.Context, videoID string) error
	Sweep(ctx context.Context) (*dto.SweepResponse, error)
}

// ExportService writes a video's transcript and index in a download format
type ExportService interface {
	Export(ctx context.Context, videoID string, format string, writer io.Writer) error
}
