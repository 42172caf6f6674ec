package services

import (
	"context"

	"vidseek/internal/app/cache"
	"vidseek/internal/app/model"
	"vidseek/internal/app/videosearch"
)

// Sessions is the part of videosearch.Service the API layer uses
type Sessions interface {
	Search(ctx context.Context, session videosearch.SearchSession) (*videosearch.Response, error)
	BuildIndex(ctx context.Context, session videosearch.SearchSession) (*videosearch.Index, error)
	Transcript(ctx context.Context, session videosearch.SearchSession) (*model.Transcript, error)
	Embeddings(ctx context.Context, videoID string) (*cache.EmbeddingSet, error)
	Invalidate(ctx context.Context, videoID string) error
	Sweep(ctx context.Context) (int, error)
}

var _ Sessions = (*videosearch.Service)(nil)
