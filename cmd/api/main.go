// Command api is the Dotalens match analytics API server.
//
// Usage:
//
//	dotalens-api
//	API_PORT=8080 REDIS_URL=redis://localhost:6379/0 dotalens-api

// @title Dotalens API
// @version 1.0.0
// @description Match analytics for Dota 2 players: rolling trends, phase breakdowns, item timings, role benchmarks and win-rate projections computed from OpenDota match data.
// @host localhost:8000
// @BasePath /api/v1
// @schemes http https
// @contact.name Dotalens
// @license.name MIT
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/albapepper/dotalens/internal/api"
	"github.com/albapepper/dotalens/internal/api/handler"
	"github.com/albapepper/dotalens/internal/cache"
	"github.com/albapepper/dotalens/internal/catalog"
	"github.com/albapepper/dotalens/internal/config"
	"github.com/albapepper/dotalens/internal/db"
	"github.com/albapepper/dotalens/internal/engine"
	"github.com/albapepper/dotalens/internal/listener"
	"github.com/albapepper/dotalens/internal/maintenance"
	"github.com/albapepper/dotalens/internal/provider/opendota"

	_ "github.com/albapepper/dotalens/docs" // swagger docs
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Response cache: Redis when configured, otherwise in-process.
	var backend cache.Backend
	if cfg.CacheEnabled && cfg.RedisURL != "" {
		rc, err := cache.NewRedis(ctx, cfg.RedisURL, logger)
		if err != nil {
			logger.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer rc.Close()
		backend = rc
		logger.Info("Cache initialized", "backend", "redis")
	} else {
		backend = cache.New(cfg.CacheEnabled)
		logger.Info("Cache initialized", "backend", "memory", "enabled", cfg.CacheEnabled)
	}

	client := opendota.NewClient(opendota.Options{
		BaseURL:             cfg.OpenDotaBaseURL,
		APIKey:              cfg.OpenDotaAPIKey,
		RequestsPerMinute:   cfg.OpenDotaRequestsPerMinute,
		Timeout:             cfg.UpstreamTimeout,
		BreakerFailureRatio: cfg.BreakerFailureRatio,
		BreakerOpenTimeout:  cfg.BreakerOpenTimeout,
	}, logger)

	// Catalog: seeded database first (if configured), then the provider.
	deps := handler.Deps{Cache: backend, Upstream: client, Config: cfg, Logger: logger}
	upstream := catalog.UpstreamLoader{Source: client}
	var loaders catalog.ChainLoader
	var tasks []maintenance.Task
	if cfg.HasDatabase() {
		logger.Info("Connecting to database...")
		pool, err := db.New(ctx, cfg)
		if err != nil {
			logger.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		logger.Info("Database connected",
			"min_conns", cfg.DBPoolMinConns,
			"max_conns", cfg.DBPoolMaxConns)
		loaders = append(loaders, db.NewCatalogStore(pool))
		deps.DB = pool
		tasks = append(tasks, maintenance.CatalogReseed(pool.Pool, upstream, cfg.CatalogReseedInterval, logger))
	} else {
		logger.Info("No DATABASE_URL, catalog served from provider")
	}
	loaders = append(loaders, upstream)

	cat := catalog.New(loaders, cfg.CacheTTLCatalog, logger)
	if err := cat.Refresh(ctx); err != nil {
		logger.Warn("Initial catalog load failed, will retry on first use", "error", err)
	}

	// Background catalog refresh and reseed
	tasks = append(tasks, maintenance.CatalogRefresh(cat, cfg.CatalogRefreshInterval))
	go maintenance.Start(ctx, tasks, logger)

	// Reload the catalog whenever a seed run publishes catalog_updated
	if cfg.HasDatabase() {
		go listener.Start(ctx, cfg.DatabaseURL, func(ctx context.Context, _ listener.CatalogEvent) {
			if err := cat.Refresh(ctx); err != nil {
				logger.Warn("Catalog reload after notify failed", "error", err)
			}
		}, logger)
	}

	source := engine.NewCachedSource(client, backend, cfg.CacheTTLMatchList, cfg.CacheTTLMatch, logger)
	deps.Analyzer = engine.New(source, cat, engine.Options{
		DefaultLimit:   cfg.DefaultMatchLimit,
		MaxLimit:       cfg.MaxMatchLimit,
		Windows:        cfg.RollingWindows,
		MaxConcurrency: cfg.EnrichMaxConcurrency,
		FetchTimeout:   cfg.UpstreamTimeout,
	}, logger)
	deps.Catalog = cat

	// Create router
	router := api.NewRouter(deps)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting Dotalens API",
			"addr", addr,
			"environment", cfg.Environment,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
