// Package orchestrator drives an embedding provider across every chunk of a
// transcript in rate-limited concurrent batches.
package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"vidseek/internal/app/embedding/provider"
	"vidseek/internal/app/model"
)

// DefaultBatchDelay is the pause inserted between consecutive batches
const DefaultBatchDelay = 100 * time.Millisecond

// BatchSizeFor picks how many embedding calls run together for n chunks
func BatchSizeFor(n int) int {
	switch {
	case n < 50:
		return 1
	case n < 200:
		return 5
	case n < 500:
		return 10
	default:
		return 15
	}
}

// Progress describes the batch about to run. Chunk numbers are 1-based.
type Progress struct {
	Batch   int
	Batches int
	First   int
	Last    int
	Total   int
}

func (p Progress) String() string {
	return fmt.Sprintf("batch %d/%d, chunks %d-%d/%d", p.Batch, p.Batches, p.First, p.Last, p.Total)
}

// ProgressFunc receives one Progress per batch
type ProgressFunc func(Progress)

// DropRecorder is told about every chunk whose embedding call failed
type DropRecorder interface {
	ChunkDropped(provider string)
}

// BatchEmbedder embeds chunks in order-preserving concurrent batches
type BatchEmbedder struct {
	logger  *zap.Logger
	delay   time.Duration
	dropped DropRecorder
}

// Option configures a BatchEmbedder
type Option func(*BatchEmbedder)

// WithDelay overrides the inter-batch delay
func WithDelay(d time.Duration) Option {
	return func(b *BatchEmbedder) { b.delay = d }
}

// WithDropRecorder reports dropped chunks to r
func WithDropRecorder(r DropRecorder) Option {
	return func(b *BatchEmbedder) { b.dropped = r }
}

// NewBatchEmbedder creates a batch embedder
func NewBatchEmbedder(logger *zap.Logger, opts ...Option) *BatchEmbedder {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &BatchEmbedder{logger: logger, delay: DefaultBatchDelay}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

type indexedChunk struct {
	index int
	chunk model.Chunk
}

type indexedEmbedding struct {
	index     int
	embedding model.ChunkEmbedding
}

// EmbedAll returns one ChunkEmbedding per chunk whose call succeeded, in input
// order. Failed chunks are dropped. The only error is ctx's, checked before
// every batch and after each one completes.
func (b *BatchEmbedder) EmbedAll(ctx context.Context, chunks []model.Chunk, p provider.EmbeddingProvider, onProgress ProgressFunc) ([]model.ChunkEmbedding, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	name := p.GetProviderInfo().Name
	size := BatchSizeFor(len(chunks))
	batches := lo.Chunk(lo.Map(chunks, func(c model.Chunk, i int) indexedChunk {
		return indexedChunk{index: i, chunk: c}
	}), size)

	b.logger.Info("Embedding chunks",
		zap.String("provider", name),
		zap.Int("chunks", len(chunks)),
		zap.Int("batch_size", size),
		zap.Int("batches", len(batches)))

	results := make([]indexedEmbedding, 0, len(chunks))
	var mu sync.Mutex

	for n, batch := range batches {
		if n > 0 && b.delay > 0 {
			if err := sleep(ctx, b.delay); err != nil {
				return nil, err
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		progress := Progress{
			Batch:   n + 1,
			Batches: len(batches),
			First:   batch[0].index + 1,
			Last:    batch[len(batch)-1].index + 1,
			Total:   len(chunks),
		}
		if onProgress != nil {
			onProgress(progress)
		}
		b.logger.Debug("Embedding batch", zap.Stringer("progress", progress))

		var wg sync.WaitGroup
		for _, item := range batch {
			wg.Add(1)
			go func(item indexedChunk) {
				defer wg.Done()

				vec, err := p.GenerateEmbedding(ctx, item.chunk.Text)
				if err != nil {
					if ctx.Err() == nil {
						b.drop(name, item.index, err)
					}
					return
				}

				mu.Lock()
				results = append(results, indexedEmbedding{
					index:     item.index,
					embedding: model.ChunkEmbedding{Chunk: item.chunk, Embedding: vec},
				})
				mu.Unlock()
			}(item)
		}
		wg.Wait()
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].index < results[j].index })

	embeddings := lo.Map(results, func(r indexedEmbedding, _ int) model.ChunkEmbedding { return r.embedding })
	if dropped := len(chunks) - len(embeddings); dropped > 0 {
		b.logger.Warn("Some chunks were not embedded",
			zap.String("provider", name),
			zap.Int("dropped", dropped),
			zap.Int("embedded", len(embeddings)))
	}
	return embeddings, nil
}

func (b *BatchEmbedder) drop(name string, index int, err error) {
	b.logger.Warn("Dropping chunk after embedding failure",
		zap.String("provider", name),
		zap.Int("chunk", index),
		zap.Error(err))
	if b.dropped != nil {
		b.dropped.ChunkDropped(name)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
