package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Backend names accepted by Open
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMinio    = "minio"
)

// Config selects and locates the cache backend
type Config struct {
	Backend              string      `yaml:"backend" validate:"oneof=memory sqlite postgres redis minio"`
	SQLitePath           string      `yaml:"sqlite_path" validate:"required_if=Backend sqlite"`
	PostgresDSN          string      `yaml:"postgres_dsn" validate:"required_if=Backend postgres"`
	RedisURL             string      `yaml:"redis_url" validate:"required_if=Backend redis"`
	Minio                MinioConfig `yaml:"minio"`
	RetentionHours       int         `yaml:"retention_hours" validate:"gte=1"`
	SweepIntervalMinutes int         `yaml:"sweep_interval_minutes" validate:"gte=0"`
}

// Retention converts RetentionHours, falling back to DefaultRetention
func (c Config) Retention() time.Duration {
	if c.RetentionHours <= 0 {
		return DefaultRetention
	}
	return time.Duration(c.RetentionHours) * time.Hour
}

// SweepInterval converts SweepIntervalMinutes; zero disables the sweeper
func (c Config) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalMinutes) * time.Minute
}

// Open builds the Store named by cfg.Backend
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendSQLite:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create cache directory: %w", err)
			}
		}
		return NewSQLiteStore(ctx, cfg.SQLitePath)
	case BackendPostgres:
		return NewPostgresStore(ctx, cfg.PostgresDSN)
	case BackendRedis:
		return NewRedisStore(ctx, cfg.RedisURL, cfg.Retention())
	case BackendMinio:
		return NewMinioStore(ctx, cfg.Minio)
	}
	return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
}
