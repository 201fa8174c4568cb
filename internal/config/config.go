// Package config provides configuration for the timeline service.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the timeline service configuration.
type Config struct {
	// Server settings
	HTTPPort     int
	InternalPort int

	// Database
	DatabaseURL string

	// Upstream orchestration platform (optional poll feed)
	UpstreamURL  string
	PollInterval time.Duration

	// Engine timing
	LiveRefresh       time.Duration
	RecomputeDebounce time.Duration

	// Geometry defaults
	BaseGridWidth float64
	EventPageSize int

	// Logging
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() *Config {
	cfg := &Config{
		HTTPPort:          getEnvInt("HTTP_PORT", 8080),
		InternalPort:      getEnvInt("INTERNAL_PORT", 8081),
		DatabaseURL:       getEnv("DATABASE_URL", "file:timeline.db?cache=shared&mode=rwc"),
		UpstreamURL:       getEnv("UPSTREAM_URL", ""),
		PollInterval:      time.Duration(getEnvInt("POLL_INTERVAL_MS", 0)) * time.Millisecond,
		LiveRefresh:       time.Duration(getEnvInt("LIVE_REFRESH_MS", 1000)) * time.Millisecond,
		RecomputeDebounce: time.Duration(getEnvInt("RECOMPUTE_DEBOUNCE_MS", 150)) * time.Millisecond,
		BaseGridWidth:     float64(getEnvInt("BASE_GRID_WIDTH", 1200)),
		EventPageSize:     getEnvInt("EVENT_PAGE_SIZE", 500),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
