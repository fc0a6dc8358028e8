// Package handler provides HTTP handlers for all API endpoints.
// Analytics handlers call the engine, marshal the report once, and serve it
// through the response cache with ETag support.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/albapepper/dotalens/internal/api/respond"
	"github.com/albapepper/dotalens/internal/cache"
	"github.com/albapepper/dotalens/internal/catalog"
	"github.com/albapepper/dotalens/internal/config"
	"github.com/albapepper/dotalens/internal/engine"
)

// Analyzer is the engine surface the handlers use.
type Analyzer interface {
	Trends(ctx context.Context, accountID int64, windows []int, limit int) (*engine.TrendReport, error)
	Phases(ctx context.Context, accountID int64, limit int) (*engine.PhaseReport, error)
	ItemTimings(ctx context.Context, accountID, matchID int64, slot *int) (*engine.ItemTimingReport, error)
	Benchmarks(ctx context.Context, accountID int64, role string, window int) (*engine.BenchmarkReport, error)
	Projections(ctx context.Context, accountID int64, role string, window int, deltas map[string]float64) (*engine.ProjectionReport, error)
	Overview(ctx context.Context, accountID int64, role string, limit int) (*engine.Overview, error)
	Limit(n int) int
}

// CatalogReader is the catalog surface the handlers use.
type CatalogReader interface {
	EnsureFresh(ctx context.Context)
	Heroes() []catalog.Hero
	Items() []catalog.Item
	LoadedAt() time.Time
}

// HealthChecker verifies a dependency is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// BreakerReporter exposes the upstream circuit breaker state.
type BreakerReporter interface {
	BreakerState() string
}

// Deps are the handler dependencies. DB and Upstream may be nil.
type Deps struct {
	Analyzer Analyzer
	Catalog  CatalogReader
	Cache    cache.Backend
	DB       HealthChecker
	Upstream BreakerReporter
	Config   *config.Config
	Logger   *slog.Logger
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	analyzer Analyzer
	catalog  CatalogReader
	cache    cache.Backend
	db       HealthChecker
	upstream BreakerReporter
	cfg      *config.Config
	logger   *slog.Logger
}

// New creates a Handler with shared dependencies.
func New(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		analyzer: d.Analyzer,
		catalog:  d.Catalog,
		cache:    d.Cache,
		db:       d.DB,
		upstream: d.Upstream,
		cfg:      d.Config,
		logger:   logger,
	}
}

// serveCached serves key from the cache, or computes, stores and serves it.
func (h *Handler) serveCached(w http.ResponseWriter, r *http.Request, key string, ttl time.Duration, compute func(ctx context.Context) (interface{}, error)) {
	ctx := r.Context()
	if data, etag, ok := h.cache.Get(ctx, key); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	v, err := compute(ctx)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		h.logger.Error("Response encode failed", "path", r.URL.Path, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to encode response")
		return
	}

	etag := h.cache.Set(ctx, key, data, ttl)
	respond.WriteJSON(w, data, etag, ttl, false)
}

// writeError maps engine errors onto HTTP responses.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, engine.ErrInvalidAccount):
		respond.WriteError(w, http.StatusBadRequest, "INVALID_ACCOUNT", "Account id must be a positive, non-anonymous id")
	case errors.Is(err, engine.ErrMatchNotFound):
		respond.WriteErrorDetail(w, http.StatusNotFound, "MATCH_NOT_FOUND", "Match not found", err.Error())
	case errors.Is(err, engine.ErrUpstreamUnavailable):
		respond.WriteError(w, http.StatusBadGateway, "UPSTREAM_UNAVAILABLE", "Match provider is unavailable, try again later")
	case errors.Is(err, errCatalogEmpty):
		respond.WriteError(w, http.StatusServiceUnavailable, "CATALOG_UNAVAILABLE", "Hero and item catalog could not be loaded")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respond.WriteError(w, http.StatusGatewayTimeout, "TIMEOUT", "Request timed out")
	default:
		h.logger.Error("Request failed", "path", r.URL.Path, "error", err)
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, status, and available endpoints.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "dotalens",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs",
		"analyses": []string{
			"trends",
			"phases",
			"items",
			"benchmarks",
			"projections",
			"overview",
		},
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status, upstream circuit breaker state and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	body := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if h.upstream != nil {
		body["upstream_breaker"] = h.upstream.BreakerState()
	}
	respond.WriteJSONObject(w, http.StatusOK, body)
}

// HealthCheckDB verifies database connectivity.
// @Summary Database health check
// @Description Verifies Postgres connectivity. Reports not_configured when no DATABASE_URL is set.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	if h.db == nil {
		respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
			"status":    "healthy",
			"database":  "not_configured",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	if err := h.db.HealthCheck(r.Context()); err != nil {
		h.logger.Warn("Database health check failed", "error", err)
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     "Database connection check failed",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns response cache statistics for the memory or Redis backend.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(r.Context()),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
