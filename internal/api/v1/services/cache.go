package services

import (
	"context"
	"time"

	"vidseek/internal/api/v1/dto"
)

// CacheServiceImpl implements CacheService
type CacheServiceImpl struct {
	sessions Sessions
	now      func() time.Time
}

// NewCacheService creates a new cache service
func NewCacheService(sessions Sessions) CacheService {
	return &CacheServiceImpl{sessions: sessions, now: time.Now}
}

func (s *CacheServiceImpl) Invalidate(ctx context.Context, videoID string) error {
	return s.sessions.Invalidate(ctx, videoID)
}

func (s *CacheServiceImpl) Sweep(ctx context.Context) (*dto.SweepResponse, error) {
	removed, err := s.sessions.Sweep(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.SweepResponse{Removed: removed, SweptAt: s.now().UTC()}, nil
}
