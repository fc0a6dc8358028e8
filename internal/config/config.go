// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/ingest.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Table names — single source of truth, matches db.Schema
// --------------------------------------------------------------------------

const (
	HeroesTable = "heroes"
	ItemsTable  = "items"
)

// --------------------------------------------------------------------------
// Config struct — populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Database (optional; enables the seeded catalog store)
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool
	LogLevel    slog.Level

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Upstream provider
	OpenDotaBaseURL           string
	OpenDotaAPIKey            string
	OpenDotaRequestsPerMinute int
	UpstreamTimeout           time.Duration
	BreakerFailureRatio       float64
	BreakerOpenTimeout        time.Duration

	// Analytics
	EnrichMaxConcurrency int
	DefaultMatchLimit    int
	MaxMatchLimit        int
	RollingWindows       []int

	// Cache
	CacheEnabled      bool
	RedisURL          string
	CacheTTLMatchList time.Duration
	CacheTTLMatch     time.Duration
	CacheTTLCatalog   time.Duration

	// Maintenance tickers; zero disables a task
	CatalogRefreshInterval time.Duration
	CatalogReseedInterval  time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	windows, err := envInts("ROLLING_WINDOWS", []int{5, 10})
	if err != nil {
		return nil, err
	}
	level, err := parseLevel(envOr("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DatabaseURL:    envOr("DATABASE_URL", ""),
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 1),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 5),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),
		LogLevel:    level,

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:4321",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		OpenDotaBaseURL:           envOr("OPENDOTA_BASE_URL", "https://api.opendota.com/api"),
		OpenDotaAPIKey:            envOr("OPENDOTA_API_KEY", ""),
		OpenDotaRequestsPerMinute: envInt("OPENDOTA_REQUESTS_PER_MINUTE", 1200),
		UpstreamTimeout:           time.Duration(envInt("UPSTREAM_TIMEOUT_SECONDS", 8)) * time.Second,
		BreakerFailureRatio:       envFloat("BREAKER_FAILURE_RATIO", 0.6),
		BreakerOpenTimeout:        time.Duration(envInt("BREAKER_OPEN_SECONDS", 30)) * time.Second,

		EnrichMaxConcurrency: envInt("ENRICH_MAX_CONCURRENCY", 20),
		DefaultMatchLimit:    envInt("DEFAULT_MATCH_LIMIT", 20),
		MaxMatchLimit:        envInt("MAX_MATCH_LIMIT", 50),
		RollingWindows:       windows,

		CacheEnabled:      envBool("CACHE_ENABLED", true),
		RedisURL:          envOr("REDIS_URL", ""),
		CacheTTLMatchList: time.Duration(envInt("CACHE_TTL_MATCH_LIST_SECONDS", 120)) * time.Second,
		CacheTTLMatch:     time.Duration(envInt("CACHE_TTL_MATCH_SECONDS", 3600)) * time.Second,
		CacheTTLCatalog:   time.Duration(envInt("CACHE_TTL_CATALOG_HOURS", 24)) * time.Hour,

		CatalogRefreshInterval: time.Duration(envInt("CATALOG_REFRESH_HOURS", 6)) * time.Hour,
		CatalogReseedInterval:  time.Duration(envInt("CATALOG_RESEED_HOURS", 24)) * time.Hour,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.UpstreamTimeout <= 0:
		return fmt.Errorf("UPSTREAM_TIMEOUT_SECONDS must be positive")
	case c.EnrichMaxConcurrency <= 0:
		return fmt.Errorf("ENRICH_MAX_CONCURRENCY must be positive")
	case c.DefaultMatchLimit <= 0 || c.MaxMatchLimit <= 0:
		return fmt.Errorf("DEFAULT_MATCH_LIMIT and MAX_MATCH_LIMIT must be positive")
	case c.DefaultMatchLimit > c.MaxMatchLimit:
		return fmt.Errorf("DEFAULT_MATCH_LIMIT (%d) exceeds MAX_MATCH_LIMIT (%d)", c.DefaultMatchLimit, c.MaxMatchLimit)
	case c.BreakerFailureRatio <= 0 || c.BreakerFailureRatio > 1:
		return fmt.Errorf("BREAKER_FAILURE_RATIO must be in (0, 1]")
	}
	for _, w := range c.RollingWindows {
		if w <= 0 || w > c.MaxMatchLimit {
			return fmt.Errorf("ROLLING_WINDOWS entry %d must be between 1 and MAX_MATCH_LIMIT (%d)", w, c.MaxMatchLimit)
		}
	}
	return nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// HasDatabase reports whether a Postgres catalog store is configured.
func (c *Config) HasDatabase() bool {
	return c.DatabaseURL != ""
}

// ClampLimit applies the default and maximum match limits to a requested
// limit.
func (c *Config) ClampLimit(n int) int {
	if n <= 0 {
		return c.DefaultMatchLimit
	}
	if n > c.MaxMatchLimit {
		return c.MaxMatchLimit
	}
	return n
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}

// envInts parses a comma-separated integer list. Unlike the scalar helpers a
// malformed value is an error, since a silently dropped window changes every
// trend result.
func envInts(key string, fallback []int) ([]int, error) {
	parts := envList(key, nil)
	if parts == nil {
		return fallback, nil
	}
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid integer %q", key, p)
		}
		out = append(out, n)
	}
	return out, nil
}

// ParseInts parses a comma-separated list of positive integers, as used by
// the windows query parameter.
func ParseInts(s string) ([]int, error) {
	var out []int
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid positive integer %q", p)
		}
		out = append(out, n)
	}
	return out, nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return level, nil
}
