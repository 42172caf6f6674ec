package config

import (
	"net"
	"os"
)

// NetworkConfig holds network-related configuration taken from the environment
type NetworkConfig struct {
	Host string
	Port string

	// Cache backend locations
	DatabaseURL   string
	RedisURL      string
	MinioEndpoint string
}

// GetNetworkConfig returns network configuration from environment or defaults
func GetNetworkConfig() *NetworkConfig {
	return &NetworkConfig{
		Host:          getEnvOrDefault("VIDSEEK_HOST", DefaultHost),
		Port:          getEnvOrDefault("VIDSEEK_PORT", DefaultHTTPPort),
		DatabaseURL:   getEnvOrDefault("DATABASE_URL", ""),
		RedisURL:      getEnvOrDefault("REDIS_URL", ""),
		MinioEndpoint: getEnvOrDefault("MINIO_ENDPOINT", ""),
	}
}

// Address joins host and port for net.Listen
func (nc *NetworkConfig) Address() string {
	return net.JoinHostPort(nc.Host, nc.Port)
}

// getEnvOrDefault returns environment variable value or default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
