package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreContract exercises behaviour every backend must share
func runStoreContract(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()
	base := time.UnixMilli(1_700_000_000_000)

	t.Run("miss", func(t *testing.T) {
		entry, err := store.Get(ctx, BucketTranscripts, "missing")
		require.NoError(t, err)
		assert.Nil(t, entry)
	})

	t.Run("set get overwrite", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, BucketTranscripts, "abc", Entry{Payload: []byte(`{"v":1}`), Timestamp: base}))
		require.NoError(t, store.Set(ctx, BucketTranscripts, "abc", Entry{Payload: []byte(`{"v":2}`), Timestamp: base.Add(time.Minute)}))

		entry, err := store.Get(ctx, BucketTranscripts, "abc")
		require.NoError(t, err)
		require.NotNil(t, entry)
		assert.JSONEq(t, `{"v":2}`, string(entry.Payload))
		assert.Equal(t, base.Add(time.Minute).UnixMilli(), entry.Timestamp.UnixMilli())
	})

	t.Run("buckets are separate", func(t *testing.T) {
		entry, err := store.Get(ctx, BucketEmbeddings, "abc")
		require.NoError(t, err)
		assert.Nil(t, entry)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, BucketEmbeddings, "gone", Entry{Payload: []byte(`{}`), Timestamp: base}))
		require.NoError(t, store.Delete(ctx, BucketEmbeddings, "gone"))
		require.NoError(t, store.Delete(ctx, BucketEmbeddings, "never-existed"))

		entry, err := store.Get(ctx, BucketEmbeddings, "gone")
		require.NoError(t, err)
		assert.Nil(t, entry)
	})

	t.Run("sweep", func(t *testing.T) {
		require.NoError(t, store.Set(ctx, BucketEmbeddings, "old", Entry{Payload: []byte(`{}`), Timestamp: base.Add(-48 * time.Hour)}))
		require.NoError(t, store.Set(ctx, BucketEmbeddings, "fresh", Entry{Payload: []byte(`{}`), Timestamp: base}))

		removed, err := store.Sweep(ctx, BucketEmbeddings, base.Add(-time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 1, removed)

		old, err := store.Get(ctx, BucketEmbeddings, "old")
		require.NoError(t, err)
		assert.Nil(t, old)
		fresh, err := store.Get(ctx, BucketEmbeddings, "fresh")
		require.NoError(t, err)
		assert.NotNil(t, fresh)
	})
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	runStoreContract(t, store)
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer store.Close()

	runStoreContract(t, store)
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("VIDSEEK_TEST_REDIS_URL")
	if url == "" {
		t.Skip("VIDSEEK_TEST_REDIS_URL not set")
	}
	store, err := NewRedisStore(context.Background(), url, 0)
	require.NoError(t, err)
	store.prefix = "vidseek-test-" + time.Now().Format("150405.000")
	defer store.Close()

	runStoreContract(t, store)
}

func TestMinioStore(t *testing.T) {
	endpoint := os.Getenv("VIDSEEK_TEST_MINIO_ENDPOINT")
	if endpoint == "" {
		t.Skip("VIDSEEK_TEST_MINIO_ENDPOINT not set")
	}
	store, err := NewMinioStore(context.Background(), MinioConfig{
		Endpoint:  endpoint,
		AccessKey: os.Getenv("VIDSEEK_TEST_MINIO_ACCESS_KEY"),
		SecretKey: os.Getenv("VIDSEEK_TEST_MINIO_SECRET_KEY"),
		Bucket:    "vidseek-test",
	})
	require.NoError(t, err)

	runStoreContract(t, store)
}

func TestParseRedisEntry(t *testing.T) {
	entry, err := parseRedisEntry(map[string]string{"payload": `{"a":1}`, "timestamp": "1700000000000"})
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000000), entry.Timestamp.UnixMilli())

	_, err = parseRedisEntry(map[string]string{"timestamp": "1"})
	assert.Error(t, err)

	_, err = parseRedisEntry(map[string]string{"payload": "x", "timestamp": "soon"})
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	store, err := Open(context.Background(), Config{Backend: BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)

	store, err = Open(context.Background(), Config{Backend: BackendSQLite, SQLitePath: filepath.Join(t.TempDir(), "nested", "c.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLStore{}, store)
	require.NoError(t, store.Close())

	_, err = Open(context.Background(), Config{Backend: "etcd"})
	assert.Error(t, err)
}

func TestConfigDurations(t *testing.T) {
	assert.Equal(t, DefaultRetention, Config{}.Retention())
	assert.Equal(t, 48*time.Hour, Config{RetentionHours: 48}.Retention())
	assert.Equal(t, 30*time.Minute, Config{SweepIntervalMinutes: 30}.SweepInterval())
}
