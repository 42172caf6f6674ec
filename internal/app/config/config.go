// Package config loads vidseek's YAML application configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"vidseek/internal/app/cache"
	"vidseek/internal/app/logger"
	"vidseek/internal/app/search"
	envconfig "vidseek/internal/config"
)

// Config is the whole application configuration
type Config struct {
	Embedding     EmbeddingConfig     `yaml:"embedding"`
	Transcription TranscriptionConfig `yaml:"transcription"`
	Cache         cache.Config        `yaml:"cache"`
	Search        search.Config       `yaml:"search"`
	Batch         BatchConfig         `yaml:"batch"`
	Server        ServerConfig        `yaml:"server"`
	Log           logger.Options      `yaml:"log"`
}

// EmbeddingConfig selects and locates the embedding providers
type EmbeddingConfig struct {
	// Preference is used when several providers have keys
	Preference         string        `yaml:"preference" validate:"omitempty,oneof=openai huggingface gemini"`
	OpenAIBaseURL      string        `yaml:"openai_base_url" validate:"omitempty,url"`
	HuggingFaceBaseURL string        `yaml:"huggingface_base_url" validate:"omitempty,url"`
	GeminiBaseURL      string        `yaml:"gemini_base_url" validate:"omitempty,url"`
	Timeout            time.Duration `yaml:"timeout" validate:"gte=0"`
}

// TranscriptionConfig locates the transcript sources
type TranscriptionConfig struct {
	YouTubeBaseURL  string        `yaml:"youtube_base_url" validate:"omitempty,url"`
	DeepgramBaseURL string        `yaml:"deepgram_base_url" validate:"omitempty,url"`
	DeepgramTimeout time.Duration `yaml:"deepgram_timeout" validate:"gte=0"`
	PageTimeout     time.Duration `yaml:"page_timeout" validate:"gte=0"`
	DOMPoll         PollConfig    `yaml:"dom_poll"`
}

// PollConfig is the linear DOM polling policy
type PollConfig struct {
	Attempts int           `yaml:"attempts" validate:"gte=0,lte=50"`
	Initial  time.Duration `yaml:"initial" validate:"gte=0"`
	Step     time.Duration `yaml:"step" validate:"gte=0"`
}

// BatchConfig tunes the batch embedder
type BatchConfig struct {
	Delay time.Duration `yaml:"delay" validate:"gte=0"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         string        `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" validate:"gte=0"`
	WriteTimeout time.Duration `yaml:"write_timeout" validate:"gte=0"`
}

// Address joins host and port
func (s ServerConfig) Address() string {
	return (&envconfig.NetworkConfig{Host: s.Host, Port: s.Port}).Address()
}

// Default returns the configuration used when no file exists
func Default() *Config {
	c := &Config{}
	c.setDefaults()
	return c
}

// Load reads path, expands ${VAR} references, fills defaults and validates.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	var c Config
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal([]byte(expandEnv(string(data))), &c); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	c.applyEnvironment(envconfig.GetNetworkConfig())
	c.setDefaults()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &c, nil
}

// Save writes c to path as YAML
func Save(c *Config, path string) error {
	path = os.ExpandEnv(path)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnv replaces ${VAR} references, leaving bare $ alone
func expandEnv(s string) string {
	return envRef.ReplaceAllStringFunc(s, func(ref string) string {
		return os.Getenv(envRef.FindStringSubmatch(ref)[1])
	})
}

// applyEnvironment lets environment variables fill locations the file left empty
func (c *Config) applyEnvironment(nc *envconfig.NetworkConfig) {
	if c.Server.Host == "" && os.Getenv("VIDSEEK_HOST") != "" {
		c.Server.Host = nc.Host
	}
	if c.Server.Port == "" && os.Getenv("VIDSEEK_PORT") != "" {
		c.Server.Port = nc.Port
	}
	if c.Cache.PostgresDSN == "" {
		c.Cache.PostgresDSN = nc.DatabaseURL
	}
	if c.Cache.RedisURL == "" {
		c.Cache.RedisURL = nc.RedisURL
	}
	if c.Cache.Minio.Endpoint == "" {
		c.Cache.Minio.Endpoint = nc.MinioEndpoint
	}
	if c.Embedding.Preference == "" {
		c.Embedding.Preference = os.Getenv(envconfig.EnvEmbeddingProvider)
	}
}

func (c *Config) setDefaults() {
	c.Embedding.OpenAIBaseURL = orDefault(c.Embedding.OpenAIBaseURL, envconfig.GetProviderDefaults("openai").BaseURL)
	c.Embedding.HuggingFaceBaseURL = orDefault(c.Embedding.HuggingFaceBaseURL, envconfig.GetProviderDefaults("huggingface").BaseURL)
	c.Embedding.GeminiBaseURL = orDefault(c.Embedding.GeminiBaseURL, envconfig.GetProviderDefaults("gemini").BaseURL)
	if c.Embedding.Timeout == 0 {
		c.Embedding.Timeout = envconfig.GetProviderDefaults("openai").Timeout
	}

	deepgram := envconfig.GetProviderDefaults("deepgram")
	youtube := envconfig.GetProviderDefaults("youtube")
	c.Transcription.YouTubeBaseURL = orDefault(c.Transcription.YouTubeBaseURL, youtube.BaseURL)
	c.Transcription.DeepgramBaseURL = orDefault(c.Transcription.DeepgramBaseURL, deepgram.BaseURL)
	if c.Transcription.DeepgramTimeout == 0 {
		c.Transcription.DeepgramTimeout = deepgram.Timeout
	}
	if c.Transcription.PageTimeout == 0 {
		c.Transcription.PageTimeout = youtube.Timeout
	}
	if c.Transcription.DOMPoll.Attempts == 0 {
		c.Transcription.DOMPoll.Attempts = 10
	}
	if c.Transcription.DOMPoll.Initial == 0 {
		c.Transcription.DOMPoll.Initial = time.Second
	}
	if c.Transcription.DOMPoll.Step == 0 {
		c.Transcription.DOMPoll.Step = 500 * time.Millisecond
	}

	if c.Cache.Backend == "" {
		c.Cache.Backend = cache.BackendSQLite
	}
	if c.Cache.Backend == cache.BackendSQLite && c.Cache.SQLitePath == "" {
		c.Cache.SQLitePath = defaultDataPath("cache.db")
	}
	if c.Cache.Minio.Bucket == "" {
		c.Cache.Minio.Bucket = "vidseek-cache"
	}
	if c.Cache.RetentionHours == 0 {
		c.Cache.RetentionHours = int(cache.DefaultRetention / time.Hour)
	}
	if c.Cache.SweepIntervalMinutes == 0 {
		c.Cache.SweepIntervalMinutes = 60
	}

	defaults := search.DefaultConfig()
	if c.Search.MinThreshold == 0 {
		c.Search.MinThreshold = defaults.MinThreshold
	}
	if c.Search.RelativeThreshold == 0 {
		c.Search.RelativeThreshold = defaults.RelativeThreshold
	}
	if c.Search.MaxResults == 0 {
		c.Search.MaxResults = defaults.MaxResults
	}

	if c.Batch.Delay == 0 {
		c.Batch.Delay = 100 * time.Millisecond
	}

	if c.Server.Host == "" {
		c.Server.Host = envconfig.DefaultHost
	}
	if c.Server.Port == "" {
		c.Server.Port = envconfig.DefaultHTTPPort
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10 * time.Minute
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks struct tags and the cross-field rules tags cannot express
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}
	if err := envconfig.ValidatePort(c.Server.Port, "server"); err != nil {
		return err
	}
	if err := envconfig.ValidateTimeout(c.Embedding.Timeout, "embedding"); err != nil {
		return err
	}
	if c.Cache.Backend == cache.BackendMinio {
		m := c.Cache.Minio
		if m.Endpoint == "" || m.AccessKey == "" || m.SecretKey == "" {
			return fmt.Errorf("minio cache needs endpoint, access_key and secret_key")
		}
	}
	return nil
}

// DefaultPath returns the config file location, honoring VIDSEEK_CONFIG
func DefaultPath() string {
	if path := os.Getenv("VIDSEEK_CONFIG"); path != "" {
		return path
	}
	return defaultDataPath("config.yaml")
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

func defaultDataPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, ".vidseek", name)
}
