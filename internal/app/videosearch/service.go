// Package videosearch runs a semantic search session against one video: it
// acquires (or reuses) the transcript, builds (or reuses) the chunk index and
// ranks the chunks against the query.
package videosearch

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"vidseek/internal/app/cache"
	"vidseek/internal/app/chunker"
	"vidseek/internal/app/embedding/orchestrator"
	"vidseek/internal/app/embedding/provider"
	apperrors "vidseek/internal/app/errors"
	"vidseek/internal/app/model"
	"vidseek/internal/app/search"
	"vidseek/internal/app/transcript"
)

var videoIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// ValidateVideoID checks the 11 character watch id format
func ValidateVideoID(videoID string) error {
	if !videoIDPattern.MatchString(videoID) {
		return apperrors.Wrapf(apperrors.ErrInvalidVideoID, "%q", videoID)
	}
	return nil
}

// SearchSession carries everything one search needs. Sessions are independent;
// nothing about the "current video" is kept between calls.
type SearchSession struct {
	VideoID string
	Query   string
	// Duration as shown by the player, MM:SS or HH:MM:SS
	Duration string
	// PageHTML is the caller's snapshot of the watch page, if it has one
	PageHTML string
	// OnProgress is called before each embedding batch
	OnProgress orchestrator.ProgressFunc
}

// Response is the outcome of a search
type Response struct {
	VideoID  string               `json:"videoId"`
	Provider string               `json:"provider"`
	Results  []model.SearchResult `json:"results"`
}

// Index is the searchable state of one video
type Index struct {
	Transcript model.Transcript
	Provider   provider.ProviderInfo
	Embeddings []model.ChunkEmbedding
	// Cached is true when the embeddings came from the cache unchanged
	Cached bool
}

// ProviderFunc resolves the embedding provider for a session
type ProviderFunc func() (provider.EmbeddingProvider, error)

// ProviderSource resolves providers from configured keys
type ProviderSource struct {
	Credentials provider.Credentials
	Preference  provider.ID
	Options     provider.Options
	Recorder    provider.Recorder
}

// Resolve picks and builds the provider; failures are configuration errors
func (s ProviderSource) Resolve() (provider.EmbeddingProvider, error) {
	cfg, err := provider.Resolve(s.Credentials, s.Preference)
	if err != nil {
		return nil, err
	}
	p, err := provider.New(cfg, s.Options)
	if err != nil {
		return nil, err
	}
	return provider.Instrument(p, s.Recorder), nil
}

// Service coordinates acquisition, caching, embedding and search
type Service struct {
	acquirer *transcript.Acquirer
	repo     *cache.Repository
	embedder *orchestrator.BatchEmbedder
	engine   *search.Engine
	provider ProviderFunc
	logger   *zap.Logger

	flights flights
}

// NewService wires a Service
func NewService(
	acquirer *transcript.Acquirer,
	repo *cache.Repository,
	embedder *orchestrator.BatchEmbedder,
	engine *search.Engine,
	providers ProviderFunc,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		acquirer: acquirer,
		repo:     repo,
		embedder: embedder,
		engine:   engine,
		provider: providers,
		logger:   logger,
	}
}

// Search answers session.Query against session.VideoID
func (s *Service) Search(ctx context.Context, session SearchSession) (*Response, error) {
	if err := ValidateVideoID(session.VideoID); err != nil {
		return nil, err
	}
	query := strings.TrimSpace(session.Query)
	if query == "" {
		return nil, apperrors.ErrEmptyQuery
	}

	p, err := s.provider()
	if err != nil {
		return nil, err
	}

	idx, err := s.index(ctx, session, p)
	if err != nil {
		return nil, err
	}

	results, err := s.engine.Search(ctx, query, idx.Embeddings, p)
	if err != nil {
		return nil, err
	}
	for i := range results {
		results[i].SeekURL = model.SeekURL(session.VideoID, results[i].StartTime)
	}

	s.logger.Info("Search complete",
		zap.String("video_id", session.VideoID),
		zap.String("provider", idx.Provider.Name),
		zap.Int("chunks", len(idx.Embeddings)),
		zap.Int("results", len(results)))

	return &Response{VideoID: session.VideoID, Provider: idx.Provider.Name, Results: results}, nil
}

// BuildIndex makes sure the transcript and embeddings for the session's video
// are cached and returns them.
func (s *Service) BuildIndex(ctx context.Context, session SearchSession) (*Index, error) {
	if err := ValidateVideoID(session.VideoID); err != nil {
		return nil, err
	}
	p, err := s.provider()
	if err != nil {
		return nil, err
	}
	return s.index(ctx, session, p)
}

// index runs at most one build per video at a time. Later callers for the
// same video share the running build's result; each stops waiting when its
// own context ends, and the build is canceled once nobody waits for it.
func (s *Service) index(ctx context.Context, session SearchSession, p provider.EmbeddingProvider) (*Index, error) {
	v, shared, err := s.flights.do(ctx, "index/"+session.VideoID, func(ctx context.Context) (interface{}, error) {
		return s.build(ctx, session, p)
	})
	if err != nil {
		return nil, err
	}
	if shared {
		s.logger.Debug("Shared index build", zap.String("video_id", session.VideoID))
	}
	return v.(*Index), nil
}

func (s *Service) build(ctx context.Context, session SearchSession, p provider.EmbeddingProvider) (*Index, error) {
	t, err := s.transcript(ctx, session)
	if err != nil {
		return nil, err
	}

	info := p.GetProviderInfo()
	fingerprint := cache.Fingerprint(t)

	set, err := s.repo.GetEmbeddings(ctx, session.VideoID)
	if err != nil {
		return nil, err
	}
	if set != nil && len(set.Embeddings) > 0 {
		if set.Provider == info.Name && set.Model == info.Model && set.TranscriptHash == fingerprint {
			return &Index{Transcript: t, Provider: info, Embeddings: set.Embeddings, Cached: true}, nil
		}
		s.logger.Info("Rebuilding stale embeddings",
			zap.String("video_id", session.VideoID),
			zap.String("cached_provider", set.Provider),
			zap.String("cached_model", set.Model),
			zap.String("provider", info.Name),
			zap.String("model", info.Model))
	}

	chunks := chunker.Chunk(t.Segments, chunker.SelectMaxChars(len(t.Segments)))
	embeddings, err := s.embedder.EmbedAll(ctx, chunks, p, session.OnProgress)
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("video %s: %d chunks, none embedded: %w",
			session.VideoID, len(chunks), apperrors.ErrNoEmbeddingsAvailable)
	}

	dimension := len(embeddings[0].Embedding)
	if err := s.repo.SaveEmbeddings(ctx, session.VideoID, cache.EmbeddingSet{
		Provider:       info.Name,
		Model:          info.Model,
		Dimension:      dimension,
		TranscriptHash: fingerprint,
		Embeddings:     embeddings,
	}); err != nil {
		return nil, err
	}

	s.logger.Info("Index built",
		zap.String("video_id", session.VideoID),
		zap.String("provider", info.Name),
		zap.Int("chunks", len(chunks)),
		zap.Int("embedded", len(embeddings)),
		zap.Int("dimension", dimension))

	return &Index{Transcript: t, Provider: info, Embeddings: embeddings}, nil
}

// Transcript returns the cached transcript or acquires and caches a new one.
// No embedding provider is needed.
func (s *Service) Transcript(ctx context.Context, session SearchSession) (*model.Transcript, error) {
	if err := ValidateVideoID(session.VideoID); err != nil {
		return nil, err
	}
	t, err := s.transcript(ctx, session)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// transcript returns the cached transcript or acquires one. Concurrent
// acquisitions of one video, from searches or transcript requests, share a
// single run of the strategy chain.
func (s *Service) transcript(ctx context.Context, session SearchSession) (model.Transcript, error) {
	v, _, err := s.flights.do(ctx, "transcript/"+session.VideoID, func(ctx context.Context) (interface{}, error) {
		return s.loadTranscript(ctx, session)
	})
	if err != nil {
		return model.Transcript{}, err
	}
	return v.(model.Transcript), nil
}

func (s *Service) loadTranscript(ctx context.Context, session SearchSession) (model.Transcript, error) {
	cached, err := s.repo.GetTranscript(ctx, session.VideoID)
	if err != nil {
		return model.Transcript{}, err
	}
	if cached != nil && !cached.Transcript.Empty() {
		return cached.Transcript, nil
	}

	req := transcript.Request{VideoID: session.VideoID, Duration: session.Duration}
	if session.PageHTML != "" {
		req.Page = transcript.NewSnapshotPage(session.PageHTML)
	}
	t, err := s.acquirer.Acquire(ctx, req)
	if err != nil {
		return model.Transcript{}, err
	}
	if err := s.repo.SaveTranscript(ctx, t); err != nil {
		return model.Transcript{}, err
	}
	return t, nil
}

// Embeddings returns the cached chunk index without building one
func (s *Service) Embeddings(ctx context.Context, videoID string) (*cache.EmbeddingSet, error) {
	if err := ValidateVideoID(videoID); err != nil {
		return nil, err
	}
	return s.repo.GetEmbeddings(ctx, videoID)
}

// Invalidate drops everything cached for videoID
func (s *Service) Invalidate(ctx context.Context, videoID string) error {
	if err := ValidateVideoID(videoID); err != nil {
		return err
	}
	return s.repo.Invalidate(ctx, videoID)
}

// StartSweeper sweeps the cache in the background every interval until ctx ends
func (s *Service) StartSweeper(ctx context.Context, interval time.Duration) {
	s.repo.StartSweeper(ctx, interval)
}

// Sweep removes expired cache entries and reports how many went
func (s *Service) Sweep(ctx context.Context) (int, error) {
	return s.repo.Sweep(ctx)
}
