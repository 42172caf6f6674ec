package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	apperrors "vidseek/internal/app/errors"
	"vidseek/internal/app/model"
)

// DefaultRetention is how long transcripts and embeddings stay cached
const DefaultRetention = 7 * 24 * time.Hour

// LookupRecorder is told about every cache read
type LookupRecorder interface {
	CacheLookup(bucket string, hit bool)
}

// CachedTranscript is a transcript read back from the cache
type CachedTranscript struct {
	Transcript model.Transcript
	CreatedAt  time.Time
}

// EmbeddingSet is the cached chunk index for one video, tagged with the
// provider that produced it and the transcript it was built from.
type EmbeddingSet struct {
	Provider       string
	Model          string
	Dimension      int
	TranscriptHash string
	Embeddings     []model.ChunkEmbedding
	CreatedAt      time.Time
}

type transcriptRecord struct {
	Transcript []model.TranscriptSegment `json:"transcript"`
	Source     string                    `json:"source,omitempty"`
	Timestamp  int64                     `json:"timestamp"`
}

type embeddingsRecord struct {
	Embeddings     []model.ChunkEmbedding `json:"embeddings"`
	Provider       string                 `json:"provider"`
	Model          string                 `json:"model"`
	Dimension      int                    `json:"dimension"`
	TranscriptHash string                 `json:"transcriptHash"`
	Timestamp      int64                  `json:"timestamp"`
}

// Repository stores typed records on top of a Store. Writes for the same video
// are serialized; entries older than the retention window read as misses.
type Repository struct {
	store     Store
	retention time.Duration
	now       func() time.Time
	logger    *zap.Logger
	recorder  LookupRecorder
	locks     sync.Map // videoID -> *sync.Mutex
}

// RepositoryOption configures a Repository
type RepositoryOption func(*Repository)

// WithRetention overrides DefaultRetention
func WithRetention(d time.Duration) RepositoryOption {
	return func(r *Repository) {
		if d > 0 {
			r.retention = d
		}
	}
}

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) RepositoryOption {
	return func(r *Repository) { r.now = now }
}

// WithLookupRecorder reports hits and misses to rec
func WithLookupRecorder(rec LookupRecorder) RepositoryOption {
	return func(r *Repository) { r.recorder = rec }
}

// NewRepository creates a repository over store
func NewRepository(store Store, logger *zap.Logger, opts ...RepositoryOption) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Repository{
		store:     store,
		retention: DefaultRetention,
		now:       time.Now,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Retention returns the configured retention window
func (r *Repository) Retention() time.Duration {
	return r.retention
}

func (r *Repository) lock(videoID string) func() {
	v, _ := r.locks.LoadOrStore(videoID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func cacheErr(op string, bucket Bucket, videoID string, err error) error {
	if err == nil {
		return nil
	}
	return &apperrors.CacheError{Op: op, Bucket: string(bucket), VideoID: videoID, Err: err}
}

// Fingerprint identifies a transcript's content
func Fingerprint(t model.Transcript) string {
	data, _ := json.Marshal(t.Segments)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// SaveTranscript replaces whatever transcript is cached for t.VideoID
func (r *Repository) SaveTranscript(ctx context.Context, t model.Transcript) error {
	unlock := r.lock(t.VideoID)
	defer unlock()

	now := r.now()
	payload, err := json.Marshal(transcriptRecord{Transcript: t.Segments, Source: t.Source, Timestamp: now.UnixMilli()})
	if err != nil {
		return cacheErr("encode", BucketTranscripts, t.VideoID, err)
	}
	return cacheErr("set", BucketTranscripts, t.VideoID,
		r.store.Set(ctx, BucketTranscripts, t.VideoID, Entry{Payload: payload, Timestamp: now}))
}

// GetTranscript returns the cached transcript, or nil when absent or expired
func (r *Repository) GetTranscript(ctx context.Context, videoID string) (*CachedTranscript, error) {
	entry, err := r.get(ctx, BucketTranscripts, videoID)
	if err != nil || entry == nil {
		return nil, err
	}

	var rec transcriptRecord
	if err := json.Unmarshal(entry.Payload, &rec); err != nil {
		return nil, cacheErr("decode", BucketTranscripts, videoID, err)
	}
	return &CachedTranscript{
		Transcript: model.Transcript{VideoID: videoID, Source: rec.Source, Segments: rec.Transcript},
		CreatedAt:  entry.Timestamp,
	}, nil
}

// SaveEmbeddings replaces the cached chunk index for videoID
func (r *Repository) SaveEmbeddings(ctx context.Context, videoID string, set EmbeddingSet) error {
	unlock := r.lock(videoID)
	defer unlock()

	now := r.now()
	payload, err := json.Marshal(embeddingsRecord{
		Embeddings:     set.Embeddings,
		Provider:       set.Provider,
		Model:          set.Model,
		Dimension:      set.Dimension,
		TranscriptHash: set.TranscriptHash,
		Timestamp:      now.UnixMilli(),
	})
	if err != nil {
		return cacheErr("encode", BucketEmbeddings, videoID, err)
	}
	return cacheErr("set", BucketEmbeddings, videoID,
		r.store.Set(ctx, BucketEmbeddings, videoID, Entry{Payload: payload, Timestamp: now}))
}

// GetEmbeddings returns the cached chunk index, or nil when absent or expired
func (r *Repository) GetEmbeddings(ctx context.Context, videoID string) (*EmbeddingSet, error) {
	entry, err := r.get(ctx, BucketEmbeddings, videoID)
	if err != nil || entry == nil {
		return nil, err
	}

	var rec embeddingsRecord
	if err := json.Unmarshal(entry.Payload, &rec); err != nil {
		return nil, cacheErr("decode", BucketEmbeddings, videoID, err)
	}
	return &EmbeddingSet{
		Provider:       rec.Provider,
		Model:          rec.Model,
		Dimension:      rec.Dimension,
		TranscriptHash: rec.TranscriptHash,
		Embeddings:     rec.Embeddings,
		CreatedAt:      entry.Timestamp,
	}, nil
}

func (r *Repository) get(ctx context.Context, bucket Bucket, videoID string) (*Entry, error) {
	entry, err := r.store.Get(ctx, bucket, videoID)
	if err != nil {
		return nil, cacheErr("get", bucket, videoID, err)
	}
	if entry != nil && r.now().Sub(entry.Timestamp) > r.retention {
		r.logger.Debug("Cache entry expired",
			zap.String("bucket", string(bucket)),
			zap.String("video_id", videoID),
			zap.Time("created_at", entry.Timestamp))
		entry = nil
	}
	if r.recorder != nil {
		r.recorder.CacheLookup(string(bucket), entry != nil)
	}
	return entry, nil
}

// Invalidate drops both records for videoID
func (r *Repository) Invalidate(ctx context.Context, videoID string) error {
	unlock := r.lock(videoID)
	defer unlock()

	for _, b := range Buckets {
		if err := r.store.Delete(ctx, b, videoID); err != nil {
			return cacheErr("delete", b, videoID, err)
		}
	}
	return nil
}

// DeleteEmbeddings drops only the chunk index for videoID
func (r *Repository) DeleteEmbeddings(ctx context.Context, videoID string) error {
	unlock := r.lock(videoID)
	defer unlock()

	return cacheErr("delete", BucketEmbeddings, videoID, r.store.Delete(ctx, BucketEmbeddings, videoID))
}

// Sweep removes every entry older than the retention window
func (r *Repository) Sweep(ctx context.Context) (int, error) {
	cutoff := r.now().Add(-r.retention)
	total := 0
	for _, b := range Buckets {
		n, err := r.store.Sweep(ctx, b, cutoff)
		total += n
		if err != nil {
			return total, cacheErr("sweep", b, "", err)
		}
	}
	if total > 0 {
		r.logger.Info("Swept expired cache entries", zap.Int("removed", total))
	}
	return total, nil
}

// StartSweeper sweeps once immediately and then every interval until ctx ends
func (r *Repository) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			if _, err := r.Sweep(ctx); err != nil && ctx.Err() == nil {
				r.logger.Warn("Cache sweep failed", zap.Error(err))
			}
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()
}

// Close releases the underlying store
func (r *Repository) Close() error {
	return r.store.Close()
}
