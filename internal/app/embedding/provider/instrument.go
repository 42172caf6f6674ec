package provider

import (
	"context"
	"time"
)

// Recorder receives one observation per embedding call
type Recorder interface {
	ObserveEmbedding(provider string, elapsed time.Duration, err error)
}

type instrumented struct {
	EmbeddingProvider
	recorder Recorder
}

// Instrument reports every GenerateEmbedding call on p to r
func Instrument(p EmbeddingProvider, r Recorder) EmbeddingProvider {
	if r == nil {
		return p
	}
	return &instrumented{EmbeddingProvider: p, recorder: r}
}

func (i *instrumented) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()
	vec, err := i.EmbeddingProvider.GenerateEmbedding(ctx, text)
	i.recorder.ObserveEmbedding(i.GetProviderInfo().Name, time.Since(start), err)
	return vec, err
}
