//go:build wireinject
// +build wireinject

package app

import (
	"context"

	"github.com/google/wire"
	"go.uber.org/zap"

	"vidseek/internal/app/config"
	"vidseek/internal/app/metrics"
	"vidseek/internal/app/videosearch"
	envconfig "vidseek/internal/config"
)

// InitializeService builds the search service. The cleanup closes the cache store.
func InitializeService(ctx context.Context, cfg *config.Config, keys *envconfig.APIKeys, logger *zap.Logger, m *metrics.Metrics) (*videosearch.Service, func(), error) {
	wire.Build(ServiceSet)
	return nil, nil, nil
}

// InitializeAPI builds the HTTP API over a fresh search service
func InitializeAPI(ctx context.Context, cfg *config.Config, keys *envconfig.APIKeys, logger *zap.Logger, m *metrics.Metrics) (*API, func(), error) {
	wire.Build(ServerSet)
	return nil, nil, nil
}
