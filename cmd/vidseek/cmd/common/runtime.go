// Package common holds what every vidseek subcommand shares: the global
// flags and the wiring from them to a search service.
package common

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"vidseek/internal/app"
	appconfig "vidseek/internal/app/config"
	"vidseek/internal/app/logger"
	"vidseek/internal/app/metrics"
	"vidseek/internal/app/videosearch"
	envconfig "vidseek/internal/config"
)

var (
	// Verbose switches to development logging at debug level
	Verbose bool
	// ConfigPath overrides appconfig.DefaultPath
	ConfigPath string
)

// Runtime is the loaded configuration of one CLI invocation
type Runtime struct {
	Config  *appconfig.Config
	Keys    *envconfig.APIKeys
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// ResolvedConfigPath is the file Load reads
func ResolvedConfigPath() string {
	if ConfigPath != "" {
		return ConfigPath
	}
	return appconfig.DefaultPath()
}

// Load reads configuration and API keys and builds the logger
func Load() (*Runtime, error) {
	cfg, err := appconfig.Load(ResolvedConfigPath())
	if err != nil {
		return nil, err
	}
	if Verbose {
		cfg.Log = logger.Options{Level: "debug", Development: true}
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return &Runtime{
		Config:  cfg,
		Keys:    envconfig.GetAPIKeys(),
		Logger:  log,
		Metrics: metrics.New(),
	}, nil
}

// Service builds the search service. The returned cleanup closes the cache
// and flushes the logger.
func (r *Runtime) Service(ctx context.Context) (*videosearch.Service, func(), error) {
	svc, cleanup, err := app.InitializeService(ctx, r.Config, r.Keys, r.Logger, r.Metrics)
	if err != nil {
		return nil, nil, err
	}
	return svc, func() {
		cleanup()
		_ = r.Logger.Sync()
	}, nil
}

// WithService loads the runtime, builds the service and hands both to fn
func WithService(ctx context.Context, fn func(*Runtime, *videosearch.Service) error) error {
	rt, err := Load()
	if err != nil {
		return err
	}
	svc, cleanup, err := rt.Service(ctx)
	if err != nil {
		return err
	}
	defer cleanup()
	return fn(rt, svc)
}
