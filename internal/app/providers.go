package app

import (
	"context"
	"net/http"

	"github.com/google/wire"
	"go.uber.org/zap"

	"vidseek/internal/api/server"
	"vidseek/internal/api/v1/services"
	"vidseek/internal/app/api/deepgram"
	"vidseek/internal/app/cache"
	"vidseek/internal/app/config"
	"vidseek/internal/app/embedding/orchestrator"
	"vidseek/internal/app/embedding/provider"
	"vidseek/internal/app/embedding/similarity"
	"vidseek/internal/app/metrics"
	"vidseek/internal/app/retry"
	"vidseek/internal/app/search"
	"vidseek/internal/app/transcript"
	"vidseek/internal/app/videosearch"
	envconfig "vidseek/internal/config"
)

// Version is stamped at build time
var Version = "v0.1.0"

// ServiceSet builds a videosearch.Service from configuration
var ServiceSet = wire.NewSet(
	provideStore,
	provideRepository,
	provideDeepgram,
	provideStrategies,
	provideAcquirer,
	provideEmbedder,
	provideEngine,
	provideProviderFunc,
	videosearch.NewService,
)

// ServerSet adds the HTTP API on top of ServiceSet
var ServerSet = wire.NewSet(
	ServiceSet,
	provideServerConfig,
	server.NewServer,
	wire.Bind(new(services.Sessions), new(*videosearch.Service)),
	wire.Struct(new(API), "*"),
)

// API is the HTTP server together with the service it serves
type API struct {
	Server  *server.Server
	Service *videosearch.Service
}

func provideStore(ctx context.Context, cfg *config.Config) (cache.Store, func(), error) {
	store, err := cache.Open(ctx, cfg.Cache)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}

func provideRepository(store cache.Store, cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) *cache.Repository {
	return cache.NewRepository(store, logger.Named("cache"),
		cache.WithRetention(cfg.Cache.Retention()),
		cache.WithLookupRecorder(m))
}

func provideDeepgram(cfg *config.Config, keys *envconfig.APIKeys) *deepgram.Client {
	return deepgram.NewClient(deepgram.Config{
		APIKey:  keys.Deepgram,
		BaseURL: cfg.Transcription.DeepgramBaseURL,
		Timeout: cfg.Transcription.DeepgramTimeout,
	}, nil)
}

// pollPolicy converts the configured DOM poll; zero attempts means the default
func pollPolicy(p config.PollConfig) retry.Policy {
	return retry.Policy{
		MaxAttempts: p.Attempts,
		Backoff:     retry.LinearBackoff(p.Initial, p.Step),
	}
}

func provideStrategies(cfg *config.Config, dg *deepgram.Client, logger *zap.Logger) []transcript.Strategy {
	client := &http.Client{Timeout: cfg.Transcription.PageTimeout}
	log := logger.Named("transcript")
	return []transcript.Strategy{
		transcript.NewCaptionsStrategy(cfg.Transcription.YouTubeBaseURL, client, log),
		transcript.NewDOMStrategy(pollPolicy(cfg.Transcription.DOMPoll), log),
		transcript.NewAudioStrategy(dg, log),
	}
}

func provideAcquirer(strategies []transcript.Strategy, cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) *transcript.Acquirer {
	client := &http.Client{Timeout: cfg.Transcription.PageTimeout}
	return transcript.NewAcquirer(logger.Named("transcript"), strategies,
		transcript.WithRecorder(m),
		transcript.WithPageLoader(transcript.NewHTTPPageLoader(cfg.Transcription.YouTubeBaseURL, client)))
}

func provideEmbedder(cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) *orchestrator.BatchEmbedder {
	return orchestrator.NewBatchEmbedder(logger.Named("embedding"),
		orchestrator.WithDelay(cfg.Batch.Delay),
		orchestrator.WithDropRecorder(m))
}

func provideEngine(cfg *config.Config, logger *zap.Logger) *search.Engine {
	return search.NewEngine(similarity.NewCosine(), cfg.Search, logger.Named("search"))
}

func provideProviderFunc(cfg *config.Config, keys *envconfig.APIKeys, m *metrics.Metrics) videosearch.ProviderFunc {
	preference := cfg.Embedding.Preference
	if preference == "" {
		preference = keys.Preference
	}
	source := videosearch.ProviderSource{
		Credentials: provider.Credentials{
			OpenAI:      keys.OpenAI,
			HuggingFace: keys.HuggingFace,
			Gemini:      keys.Gemini,
		},
		Preference: provider.ID(preference),
		Options: provider.Options{
			OpenAIBaseURL:      cfg.Embedding.OpenAIBaseURL,
			HuggingFaceBaseURL: cfg.Embedding.HuggingFaceBaseURL,
			GeminiBaseURL:      cfg.Embedding.GeminiBaseURL,
			Timeout:            cfg.Embedding.Timeout,
		},
		Recorder: m,
	}
	return source.Resolve
}

func provideServerConfig(cfg *config.Config) server.Config {
	return server.Config{
		Host:         cfg.Server.Host,
		Port:         cfg.Server.Port,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		Environment:  environment(cfg),
		Version:      Version,
	}
}

func environment(cfg *config.Config) string {
	if cfg.Log.Development {
		return "development"
	}
	return "production"
}
