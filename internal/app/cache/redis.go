package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "vidseek"

// RedisStore keeps each entry in a hash with a native key TTL
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore connects to redisURL (redis://...) and pings it.
// ttl is applied to every key; zero disables expiry.
func NewRedisStore(ctx context.Context, redisURL string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis unreachable at %s: %w", opts.Addr, err)
	}
	return NewRedisStoreWithClient(client, defaultRedisPrefix, ttl), nil
}

// NewRedisStoreWithClient wraps an existing client
func NewRedisStoreWithClient(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (r *RedisStore) key(bucket Bucket, videoID string) string {
	return fmt.Sprintf("%s:%s:%s", r.prefix, bucket, videoID)
}

func (r *RedisStore) Get(ctx context.Context, bucket Bucket, videoID string) (*Entry, error) {
	fields, err := r.client.HGetAll(ctx, r.key(bucket, videoID)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return parseRedisEntry(fields)
}

func parseRedisEntry(fields map[string]string) (*Entry, error) {
	payload, ok := fields["payload"]
	if !ok {
		return nil, errors.New("redis cache entry missing payload")
	}
	millis, err := strconv.ParseInt(fields["timestamp"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("redis cache entry has bad timestamp: %w", err)
	}
	return &Entry{Payload: []byte(payload), Timestamp: time.UnixMilli(millis)}, nil
}

func (r *RedisStore) Set(ctx context.Context, bucket Bucket, videoID string, entry Entry) error {
	key := r.key(bucket, videoID)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, "payload", entry.Payload, "timestamp", entry.Timestamp.UnixMilli())
		if r.ttl > 0 {
			pipe.Expire(ctx, key, r.ttl)
		}
		return nil
	})
	return err
}

func (r *RedisStore) Delete(ctx context.Context, bucket Bucket, videoID string) error {
	return r.client.Del(ctx, r.key(bucket, videoID)).Err()
}

// Sweep scans the bucket's keys. Expired keys normally vanish on their own;
// this catches entries written with a longer TTL or none.
func (r *RedisStore) Sweep(ctx context.Context, bucket Bucket, cutoff time.Time) (int, error) {
	removed := 0
	iter := r.client.Scan(ctx, 0, fmt.Sprintf("%s:%s:*", r.prefix, bucket), 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		ts, err := r.client.HGet(ctx, key, "timestamp").Int64()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return removed, err
		}
		if time.UnixMilli(ts).Before(cutoff) {
			if err := r.client.Del(ctx, key).Err(); err != nil {
				return removed, err
			}
			removed++
		}
	}
	return removed, iter.Err()
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
