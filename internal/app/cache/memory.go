package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps entries in process memory
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[Bucket]map[string]Entry
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[Bucket]map[string]Entry)}
}

func (m *MemoryStore) Get(ctx context.Context, bucket Bucket, videoID string) (*Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[bucket][videoID]
	if !ok {
		return nil, nil
	}
	e.Payload = append([]byte(nil), e.Payload...)
	return &e, nil
}

func (m *MemoryStore) Set(ctx context.Context, bucket Bucket, videoID string, entry Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.entries[bucket] == nil {
		m.entries[bucket] = make(map[string]Entry)
	}
	entry.Payload = append([]byte(nil), entry.Payload...)
	m.entries[bucket][videoID] = entry
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, bucket Bucket, videoID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries[bucket], videoID)
	return nil
}

func (m *MemoryStore) Sweep(ctx context.Context, bucket Bucket, cutoff time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, e := range m.entries[bucket] {
		if e.Timestamp.Before(cutoff) {
			delete(m.entries[bucket], id)
			removed++
		}
	}
	return removed, nil
}

func (m *MemoryStore) Close() error {
	return nil
}
