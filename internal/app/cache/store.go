// Package cache keeps acquired transcripts and their chunk embeddings per
// video, evicting them after a retention window.
package cache

import (
	"context"
	"time"
)

// Bucket separates the two record kinds kept per video
type Bucket string

const (
	BucketTranscripts Bucket = "transcripts"
	BucketEmbeddings  Bucket = "embeddings"
)

// Buckets lists every bucket the repository writes to
var Buckets = []Bucket{BucketTranscripts, BucketEmbeddings}

// Entry is one stored record and the time it was written
type Entry struct {
	Payload   []byte
	Timestamp time.Time
}

// Store is a durable key-value backend for cache entries.
// Get returns nil, nil on a miss.
type Store interface {
	Get(ctx context.Context, bucket Bucket, videoID string) (*Entry, error)
	Set(ctx context.Context, bucket Bucket, videoID string, entry Entry) error
	Delete(ctx context.Context, bucket Bucket, videoID string) error
	// Sweep removes entries written before cutoff and reports how many went
	Sweep(ctx context.Context, bucket Bucket, cutoff time.Time) (int, error)
	Close() error
}
