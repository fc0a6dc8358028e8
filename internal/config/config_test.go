package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.APIPort)
	assert.Equal(t, 8*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, 20, cfg.EnrichMaxConcurrency)
	assert.Equal(t, 20, cfg.DefaultMatchLimit)
	assert.Equal(t, 50, cfg.MaxMatchLimit)
	assert.Equal(t, []int{5, 10}, cfg.RollingWindows)
	assert.Equal(t, 2*time.Minute, cfg.CacheTTLMatchList)
	assert.Equal(t, time.Hour, cfg.CacheTTLMatch)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTLCatalog)
	assert.Equal(t, 6*time.Hour, cfg.CatalogRefreshInterval)
	assert.Equal(t, 24*time.Hour, cfg.CatalogReseedInterval)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.False(t, cfg.HasDatabase())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ROLLING_WINDOWS", "3, 7,15")
	t.Setenv("UPSTREAM_TIMEOUT_SECONDS", "4")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DATABASE_URL", "postgres://localhost/dotalens")
	t.Setenv("CORS_ALLOW_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.APIPort)
	assert.Equal(t, []int{3, 7, 15}, cfg.RollingWindows)
	assert.Equal(t, 4*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.True(t, cfg.HasDatabase())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowOrigins)
}

func TestLoadValidation(t *testing.T) {
	cases := map[string]map[string]string{
		"bad window":        {"ROLLING_WINDOWS": "5,x"},
		"zero window":       {"ROLLING_WINDOWS": "0,10"},
		"window over max":   {"ROLLING_WINDOWS": "5,80"},
		"default over max":  {"DEFAULT_MATCH_LIMIT": "60"},
		"zero timeout":      {"UPSTREAM_TIMEOUT_SECONDS": "0"},
		"bad breaker ratio": {"BREAKER_FAILURE_RATIO": "1.5"},
		"bad log level":     {"LOG_LEVEL": "loud"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestClampLimit(t *testing.T) {
	cfg := &Config{DefaultMatchLimit: 20, MaxMatchLimit: 50}
	assert.Equal(t, 20, cfg.ClampLimit(0))
	assert.Equal(t, 20, cfg.ClampLimit(-3))
	assert.Equal(t, 12, cfg.ClampLimit(12))
	assert.Equal(t, 50, cfg.ClampLimit(500))
}

func TestParseInts(t *testing.T) {
	got, err := ParseInts("5, 10,,20")
	require.NoError(t, err)
	assert.Equal(t, []int{5, 10, 20}, got)

	_, err = ParseInts("5,-1")
	assert.Error(t, err)
	_, err = ParseInts("five")
	assert.Error(t, err)
}
