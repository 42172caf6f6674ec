package services

import (
	"context"

	"vidseek/internal/api/v1/dto"
	"vidseek/internal/app/videosearch"
)

// VideoServiceImpl implements VideoService on top of the session service
type VideoServiceImpl struct {
	sessions Sessions
}

// NewVideoService creates a new video service
func NewVideoService(sessions Sessions) VideoService {
	return &VideoServiceImpl{sessions: sessions}
}

// Search runs one query against the video's index
func (s *VideoServiceImpl) Search(ctx context.Context, videoID string, req dto.SearchRequest) (*dto.SearchResponse, error) {
	resp, err := s.sessions.Search(ctx, videosearch.SearchSession{
		VideoID:  videoID,
		Query:    req.Query,
		Duration: req.Duration,
		PageHTML: req.PageHTML,
	})
	if err != nil {
		return nil, err
	}
	return &dto.SearchResponse{VideoID: resp.VideoID, Provider: resp.Provider, Results: resp.Results}, nil
}

// BuildIndex makes sure the video is ready to search
func (s *VideoServiceImpl) BuildIndex(ctx context.Context, videoID string, req dto.PageRequest) (*dto.IndexResponse, error) {
	idx, err := s.sessions.BuildIndex(ctx, videosearch.SearchSession{
		VideoID:  videoID,
		Duration: req.Duration,
		PageHTML: req.PageHTML,
	})
	if err != nil {
		return nil, err
	}

	resp := &dto.IndexResponse{
		VideoID:  videoID,
		Provider: idx.Provider.Name,
		Model:    idx.Provider.Model,
		Source:   idx.Transcript.Source,
		Segments: len(idx.Transcript.Segments),
		Chunks:   len(idx.Embeddings),
		Cached:   idx.Cached,
	}
	if len(idx.Embeddings) > 0 {
		resp.Dimension = len(idx.Embeddings[0].Embedding)
	}
	return resp, nil
}

// GetTranscript returns the cached or freshly acquired transcript
func (s *VideoServiceImpl) GetTranscript(ctx context.Context, videoID string, req dto.PageRequest) (*dto.TranscriptResponse, error) {
	t, err := s.sessions.Transcript(ctx, videosearch.SearchSession{
		VideoID:  videoID,
		Duration: req.Duration,
		PageHTML: req.PageHTML,
	})
	if err != nil {
		return nil, err
	}
	return &dto.TranscriptResponse{
		VideoID:  t.VideoID,
		Source:   t.Source,
		Duration: t.Duration(),
		Segments: t.Segments,
	}, nil
}
