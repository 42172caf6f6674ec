package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Dialect selects the SQL flavour of a SQLStore
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite3"
	DialectPostgres Dialect = "postgres"
)

type queries struct {
	schema []string
	get    string
	upsert string
	delete string
	sweep  string
}

var dialectQueries = map[Dialect]queries{
	DialectSQLite: {
		schema: []string{
			`CREATE TABLE IF NOT EXISTS cache_entries (
	bucket TEXT NOT NULL,
	video_id TEXT NOT NULL,
	payload BLOB NOT NULL,
	created_at INTEGER NOT NULL,
	PRIMARY KEY (bucket, video_id)
)`,
			`CREATE INDEX IF NOT EXISTS idx_cache_entries_created_at ON cache_entries (bucket, created_at)`,
		},
		get: `SELECT payload, created_at FROM cache_entries WHERE bucket = ? AND video_id = ?`,
		upsert: `INSERT INTO cache_entries (bucket, video_id, payload, created_at) VALUES (?, ?, ?, ?)
ON CONFLICT (bucket, video_id) DO UPDATE SET payload = excluded.payload, created_at = excluded.created_at`,
		delete: `DELETE FROM cache_entries WHERE bucket = ? AND video_id = ?`,
		sweep:  `DELETE FROM cache_entries WHERE bucket = ? AND created_at < ?`,
	},
	DialectPostgres: {
		schema: []string{
			`CREATE TABLE IF NOT EXISTS cache_entries (
	bucket TEXT NOT NULL,
	video_id TEXT NOT NULL,
	payload BYTEA NOT NULL,
	created_at BIGINT NOT NULL,
	PRIMARY KEY (bucket, video_id)
)`,
			`CREATE INDEX IF NOT EXISTS idx_cache_entries_created_at ON cache_entries (bucket, created_at)`,
		},
		get: `SELECT payload, created_at FROM cache_entries WHERE bucket = $1 AND video_id = $2`,
		upsert: `INSERT INTO cache_entries (bucket, video_id, payload, created_at) VALUES ($1, $2, $3, $4)
ON CONFLICT (bucket, video_id) DO UPDATE SET payload = EXCLUDED.payload, created_at = EXCLUDED.created_at`,
		delete: `DELETE FROM cache_entries WHERE bucket = $1 AND video_id = $2`,
		sweep:  `DELETE FROM cache_entries WHERE bucket = $1 AND created_at < $2`,
	},
}

// SQLStore keeps entries in a single cache_entries table. Timestamps are
// stored as unix milliseconds.
type SQLStore struct {
	db *sql.DB
	q  queries
}

// NewSQLiteStore opens (creating if needed) a sqlite database file
func NewSQLiteStore(ctx context.Context, path string) (*SQLStore, error) {
	db, err := sql.Open(string(DialectSQLite), fmt.Sprintf("file:%s?cache=shared&mode=rwc&_busy_timeout=5000", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite cache %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	return openSQLStore(ctx, db, DialectSQLite)
}

// NewPostgresStore connects to postgres with a lib/pq DSN
func NewPostgresStore(ctx context.Context, dsn string) (*SQLStore, error) {
	db, err := sql.Open(string(DialectPostgres), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres cache: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to reach postgres cache: %w", err)
	}
	return openSQLStore(ctx, db, DialectPostgres)
}

// NewSQLStore wraps an open database without touching the schema
func NewSQLStore(db *sql.DB, dialect Dialect) (*SQLStore, error) {
	q, ok := dialectQueries[dialect]
	if !ok {
		return nil, fmt.Errorf("unsupported sql dialect %q", dialect)
	}
	return &SQLStore{db: db, q: q}, nil
}

func openSQLStore(ctx context.Context, db *sql.DB, dialect Dialect) (*SQLStore, error) {
	s, err := NewSQLStore(db, dialect)
	if err == nil {
		err = s.Migrate(ctx)
	}
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates the cache table and index if missing
func (s *SQLStore) Migrate(ctx context.Context) error {
	for _, stmt := range s.q.schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create cache schema: %w", err)
		}
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, bucket Bucket, videoID string) (*Entry, error) {
	var (
		payload []byte
		millis  int64
	)
	err := s.db.QueryRowContext(ctx, s.q.get, string(bucket), videoID).Scan(&payload, &millis)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &Entry{Payload: payload, Timestamp: time.UnixMilli(millis)}, nil
}

func (s *SQLStore) Set(ctx context.Context, bucket Bucket, videoID string, entry Entry) error {
	_, err := s.db.ExecContext(ctx, s.q.upsert, string(bucket), videoID, entry.Payload, entry.Timestamp.UnixMilli())
	return err
}

func (s *SQLStore) Delete(ctx context.Context, bucket Bucket, videoID string) error {
	_, err := s.db.ExecContext(ctx, s.q.delete, string(bucket), videoID)
	return err
}

func (s *SQLStore) Sweep(ctx context.Context, bucket Bucket, cutoff time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, s.q.sweep, string(bucket), cutoff.UnixMilli())
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
