package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	apperrors "vidseek/internal/app/errors"
	"vidseek/internal/app/model"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type lookups struct {
	mu   sync.Mutex
	hits map[string]int
	miss map[string]int
}

func (l *lookups) CacheLookup(bucket string, hit bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if hit {
		l.hits[bucket]++
	} else {
		l.miss[bucket]++
	}
}

// failingStore fails every call with err
type failingStore struct {
	err error
}

func (f failingStore) Get(context.Context, Bucket, string) (*Entry, error) { return nil, f.err }
func (f failingStore) Set(context.Context, Bucket, string, Entry) error    { return f.err }
func (f failingStore) Delete(context.Context, Bucket, string) error        { return f.err }
func (f failingStore) Sweep(context.Context, Bucket, time.Time) (int, error) {
	return 0, f.err
}
func (f failingStore) Close() error { return nil }

func newTestRepository(t *testing.T) (*Repository, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	return NewRepository(NewMemoryStore(), zaptest.NewLogger(t), WithClock(clock.Now)), clock
}

func transcript(videoID string, texts ...string) model.Transcript {
	segments := make([]model.TranscriptSegment, len(texts))
	for i, text := range texts {
		segments[i] = model.TranscriptSegment{StartTime: i * 5, EndTime: i*5 + 5, Text: text}
	}
	return model.Transcript{VideoID: videoID, Source: model.SourceCaptions, Segments: segments}
}

func TestRepositoryTranscriptRoundTrip(t *testing.T) {
	// Arrange
	repo, clock := newTestRepository(t)
	ctx := context.Background()
	original := transcript("abc", "hello", "world")

	// Act
	require.NoError(t, repo.SaveTranscript(ctx, original))
	got, err := repo.GetTranscript(ctx, "abc")

	// Assert
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, original, got.Transcript)
	assert.Equal(t, clock.Now().UnixMilli(), got.CreatedAt.UnixMilli())
}

func TestRepositorySecondSaveOverwrites(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveTranscript(ctx, transcript("abc", "one", "two", "three")))
	require.NoError(t, repo.SaveTranscript(ctx, transcript("abc", "replacement")))

	got, err := repo.GetTranscript(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, transcript("abc", "replacement").Segments, got.Transcript.Segments)
}

func TestRepositoryExpiredEntriesAreMisses(t *testing.T) {
	repo, clock := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.SaveTranscript(ctx, transcript("abc", "hello")))

	clock.Advance(DefaultRetention)
	got, err := repo.GetTranscript(ctx, "abc")
	require.NoError(t, err)
	assert.NotNil(t, got, "exactly at retention is still fresh")

	clock.Advance(time.Millisecond)
	got, err = repo.GetTranscript(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRepositoryEmbeddingsRoundTrip(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	tr := transcript("abc", "hello")
	set := EmbeddingSet{
		Provider:       "gemini",
		Model:          "models/embedding-001",
		Dimension:      2,
		TranscriptHash: Fingerprint(tr),
		Embeddings: []model.ChunkEmbedding{
			{Chunk: model.Chunk{Text: "hello", StartTime: 0, EndTime: 5}, Embedding: []float32{0.5, -0.25}},
		},
	}

	require.NoError(t, repo.SaveEmbeddings(ctx, "abc", set))
	got, err := repo.GetEmbeddings(ctx, "abc")

	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, set.Provider, got.Provider)
	assert.Equal(t, set.Model, got.Model)
	assert.Equal(t, set.Dimension, got.Dimension)
	assert.Equal(t, set.TranscriptHash, got.TranscriptHash)
	assert.Equal(t, set.Embeddings, got.Embeddings)
}

func TestRepositoryInvalidateAndSweep(t *testing.T) {
	repo, clock := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.SaveTranscript(ctx, transcript("old", "a")))
	require.NoError(t, repo.SaveEmbeddings(ctx, "old", EmbeddingSet{Provider: "openai"}))
	clock.Advance(5 * 24 * time.Hour)
	require.NoError(t, repo.SaveTranscript(ctx, transcript("new", "b")))
	require.NoError(t, repo.SaveTranscript(ctx, transcript("doomed", "c")))
	clock.Advance(3 * 24 * time.Hour)

	removed, err := repo.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	require.NoError(t, repo.Invalidate(ctx, "doomed"))
	got, err := repo.GetTranscript(ctx, "doomed")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = repo.GetTranscript(ctx, "new")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestRepositoryDeleteEmbeddingsKeepsTranscript(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()
	require.NoError(t, repo.SaveTranscript(ctx, transcript("abc", "a")))
	require.NoError(t, repo.SaveEmbeddings(ctx, "abc", EmbeddingSet{Provider: "openai"}))

	require.NoError(t, repo.DeleteEmbeddings(ctx, "abc"))

	emb, err := repo.GetEmbeddings(ctx, "abc")
	require.NoError(t, err)
	assert.Nil(t, emb)
	tr, err := repo.GetTranscript(ctx, "abc")
	require.NoError(t, err)
	assert.NotNil(t, tr)
}

func TestRepositoryStoreErrorsBecomeCacheErrors(t *testing.T) {
	boom := errors.New("disk on fire")
	repo := NewRepository(failingStore{err: boom}, nil)
	ctx := context.Background()

	testCases := []struct {
		name string
		call func() error
		op   string
	}{
		{"save transcript", func() error { return repo.SaveTranscript(ctx, transcript("abc", "a")) }, "set"},
		{"get transcript", func() error { _, err := repo.GetTranscript(ctx, "abc"); return err }, "get"},
		{"save embeddings", func() error { return repo.SaveEmbeddings(ctx, "abc", EmbeddingSet{}) }, "set"},
		{"get embeddings", func() error { _, err := repo.GetEmbeddings(ctx, "abc"); return err }, "get"},
		{"invalidate", func() error { return repo.Invalidate(ctx, "abc") }, "delete"},
		{"sweep", func() error { _, err := repo.Sweep(ctx); return err }, "sweep"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call()

			var ce *apperrors.CacheError
			require.True(t, errors.As(err, &ce), "got %v", err)
			assert.Equal(t, tc.op, ce.Op)
			assert.ErrorIs(t, err, boom)
		})
	}
}

func TestRepositoryCorruptPayload(t *testing.T) {
	store := NewMemoryStore()
	repo := NewRepository(store, nil)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, BucketTranscripts, "abc", Entry{Payload: []byte("not json"), Timestamp: time.Now()}))

	_, err := repo.GetTranscript(ctx, "abc")

	var ce *apperrors.CacheError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "decode", ce.Op)
}

func TestRepositoryRecordsLookups(t *testing.T) {
	rec := &lookups{hits: map[string]int{}, miss: map[string]int{}}
	repo := NewRepository(NewMemoryStore(), nil, WithLookupRecorder(rec))
	ctx := context.Background()

	_, _ = repo.GetTranscript(ctx, "abc")
	require.NoError(t, repo.SaveTranscript(ctx, transcript("abc", "a")))
	_, _ = repo.GetTranscript(ctx, "abc")
	_, _ = repo.GetEmbeddings(ctx, "abc")

	assert.Equal(t, 1, rec.hits["transcripts"])
	assert.Equal(t, 1, rec.miss["transcripts"])
	assert.Equal(t, 1, rec.miss["embeddings"])
}

func TestRepositoryConcurrentWritesSameVideo(t *testing.T) {
	repo, _ := newTestRepository(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, repo.SaveTranscript(ctx, transcript("abc", fmt.Sprintf("writer %d", i))))
		}(i)
	}
	wg.Wait()

	got, err := repo.GetTranscript(ctx, "abc")
	require.NoError(t, err)
	require.Len(t, got.Transcript.Segments, 1)
	assert.Contains(t, got.Transcript.Segments[0].Text, "writer ")
}

func TestRepositoryStartSweeper(t *testing.T) {
	repo, clock := newTestRepository(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, repo.SaveTranscript(context.Background(), transcript("abc", "a")))
	clock.Advance(DefaultRetention + time.Hour)

	repo.StartSweeper(ctx, time.Hour)

	assert.Eventually(t, func() bool {
		entry, err := repo.store.Get(context.Background(), BucketTranscripts, "abc")
		return err == nil && entry == nil
	}, time.Second, 10*time.Millisecond)
}

func TestFingerprint(t *testing.T) {
	a := transcript("abc", "hello")
	b := transcript("xyz", "hello")
	c := transcript("abc", "hello!")

	assert.Equal(t, Fingerprint(a), Fingerprint(b))
	assert.NotEqual(t, Fingerprint(a), Fingerprint(c))
}
