package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all service settings, populated from environment variables.
type AppConfig struct {
	Port        string
	HTTPTimeout time.Duration
	LogLevel    string

	// ArchiveBaseURL / ClimateBaseURL override the upstream Open-Meteo
	// endpoints; empty means the defaults.
	ArchiveBaseURL string
	ClimateBaseURL string

	// FetchDelay is the minimum spacing between archive year requests.
	FetchDelay time.Duration

	// Cache lifetimes and sweep cadence.
	HistoryCacheTTL    time.Duration
	ProjectionCacheTTL time.Duration
	CacheSweepInterval time.Duration
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{
		Port:           getenvDefault("PORT", "8080"),
		LogLevel:       getenvDefault("LOG_LEVEL", "info"),
		ArchiveBaseURL: os.Getenv("ARCHIVE_BASE_URL"),
		ClimateBaseURL: os.Getenv("CLIMATE_BASE_URL"),
	}

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "30s"); err != nil {
		return nil, err
	}

	// Archive quota pacing: ~2s between year requests.
	if cfg.FetchDelay, err = getenvDuration("FETCH_DELAY", "2s"); err != nil {
		return nil, err
	}

	if cfg.HistoryCacheTTL, err = getenvDuration("HISTORY_CACHE_TTL", "24h"); err != nil {
		return nil, err
	}
	if cfg.ProjectionCacheTTL, err = getenvDuration("PROJECTION_CACHE_TTL", "6h"); err != nil {
		return nil, err
	}
	if cfg.CacheSweepInterval, err = getenvDuration("CACHE_SWEEP_INTERVAL", "30m"); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
