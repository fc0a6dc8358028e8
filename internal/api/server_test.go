package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/dotalens/internal/api/handler"
	"github.com/albapepper/dotalens/internal/api/respond"
	"github.com/albapepper/dotalens/internal/cache"
	"github.com/albapepper/dotalens/internal/catalog"
	"github.com/albapepper/dotalens/internal/config"
	"github.com/albapepper/dotalens/internal/engine"
)

type fakeAnalyzer struct {
	mu         sync.Mutex
	calls      int
	err        error
	gotWindows []int
	gotLimit   int
	gotRole    string
	gotWindow  int
	gotDeltas  map[string]float64
	gotSlot    *int
}

func (f *fakeAnalyzer) record() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func (f *fakeAnalyzer) Trends(_ context.Context, id int64, windows []int, limit int) (*engine.TrendReport, error) {
	f.gotWindows, f.gotLimit = windows, limit
	if err := f.record(); err != nil {
		return nil, err
	}
	return &engine.TrendReport{Meta: engine.Meta{AccountID: id, AnalysisID: "a1"}}, nil
}

func (f *fakeAnalyzer) Phases(_ context.Context, id int64, limit int) (*engine.PhaseReport, error) {
	f.gotLimit = limit
	if err := f.record(); err != nil {
		return nil, err
	}
	return &engine.PhaseReport{Meta: engine.Meta{AccountID: id}}, nil
}

func (f *fakeAnalyzer) ItemTimings(_ context.Context, id, matchID int64, slot *int) (*engine.ItemTimingReport, error) {
	f.gotSlot = slot
	if err := f.record(); err != nil {
		return nil, err
	}
	return &engine.ItemTimingReport{Meta: engine.Meta{AccountID: id}, MatchID: matchID}, nil
}

func (f *fakeAnalyzer) Benchmarks(_ context.Context, id int64, role string, window int) (*engine.BenchmarkReport, error) {
	f.gotRole, f.gotWindow = role, window
	if err := f.record(); err != nil {
		return nil, err
	}
	return &engine.BenchmarkReport{Meta: engine.Meta{AccountID: id}}, nil
}

func (f *fakeAnalyzer) Projections(_ context.Context, id int64, role string, window int, deltas map[string]float64) (*engine.ProjectionReport, error) {
	f.gotRole, f.gotWindow, f.gotDeltas = role, window, deltas
	if err := f.record(); err != nil {
		return nil, err
	}
	return &engine.ProjectionReport{Meta: engine.Meta{AccountID: id}, Role: role}, nil
}

func (f *fakeAnalyzer) Overview(_ context.Context, id int64, role string, limit int) (*engine.Overview, error) {
	f.gotRole, f.gotLimit = role, limit
	if err := f.record(); err != nil {
		return nil, err
	}
	return &engine.Overview{Meta: engine.Meta{AccountID: id}}, nil
}

func (f *fakeAnalyzer) Limit(n int) int {
	switch {
	case n <= 0:
		return 20
	case n > 50:
		return 50
	}
	return n
}

type fakeCatalog struct {
	heroes []catalog.Hero
	items  []catalog.Item
}

func (c *fakeCatalog) EnsureFresh(context.Context) {}

func (c *fakeCatalog) Heroes() []catalog.Hero { return c.heroes }

func (c *fakeCatalog) Items() []catalog.Item { return c.items }

func (c *fakeCatalog) LoadedAt() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }

type fakeBreaker struct{}

func (fakeBreaker) BreakerState() string { return "closed" }

func testConfig() *config.Config {
	return &config.Config{
		CORSAllowOrigins:  []string{"*"},
		DefaultMatchLimit: 20,
		MaxMatchLimit:     50,
		CacheTTLMatchList: 2 * time.Minute,
		CacheTTLMatch:     time.Hour,
		CacheTTLCatalog:   24 * time.Hour,
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
	}
}

func newTestServer(t *testing.T, a *fakeAnalyzer, cfg *config.Config) http.Handler {
	t.Helper()
	return NewRouter(handler.Deps{
		Analyzer: a,
		Catalog: &fakeCatalog{
			heroes: []catalog.Hero{{ID: 1, Name: "npc_dota_hero_antimage", LocalizedName: "Anti-Mage"}},
		},
		Cache:    cache.New(true),
		Upstream: fakeBreaker{},
		Config:   cfg,
	})
}

func do(t *testing.T, h http.Handler, method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp respond.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	return resp.Error.Code
}

func TestTrendsCacheAndETag(t *testing.T) {
	a := &fakeAnalyzer{}
	srv := newTestServer(t, a, testConfig())

	rec := do(t, srv, http.MethodGet, "/api/v1/players/42/trends?windows=5,10&limit=80", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	assert.NotEmpty(t, rec.Header().Get("X-Process-Time"))
	assert.Equal(t, []int{5, 10}, a.gotWindows)
	assert.Equal(t, 50, a.gotLimit)
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)

	var rep engine.TrendReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
	assert.Equal(t, int64(42), rep.Meta.AccountID)

	// limit=80 and limit=50 clamp to the same key.
	rec = do(t, srv, http.MethodGet, "/api/v1/players/42/trends?windows=5,10&limit=50", "", nil)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))

	rec = do(t, srv, http.MethodGet, "/api/v1/players/42/trends?windows=5,10&limit=50", "", map[string]string{"If-None-Match": etag})
	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Equal(t, 1, a.calls)
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("%w: dial tcp", engine.ErrUpstreamUnavailable), http.StatusBadGateway, "UPSTREAM_UNAVAILABLE"},
		{engine.ErrInvalidAccount, http.StatusBadRequest, "INVALID_ACCOUNT"},
		{fmt.Errorf("%w: 99", engine.ErrMatchNotFound), http.StatusNotFound, "MATCH_NOT_FOUND"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			a := &fakeAnalyzer{err: tc.err}
			srv := newTestServer(t, a, testConfig())

			rec := do(t, srv, http.MethodGet, "/api/v1/players/42/phases", "", nil)
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.code, errorCode(t, rec))

			// Failures are not cached.
			do(t, srv, http.MethodGet, "/api/v1/players/42/phases", "", nil)
			assert.Equal(t, 2, a.calls)
		})
	}
}

func TestInvalidParameters(t *testing.T) {
	srv := newTestServer(t, &fakeAnalyzer{}, testConfig())
	cases := map[string]string{
		"/api/v1/players/abc/trends":                       "INVALID_ACCOUNT",
		"/api/v1/players/-3/phases":                        "INVALID_ACCOUNT",
		"/api/v1/players/42/trends?windows=5,x":            "INVALID_WINDOWS",
		"/api/v1/players/42/trends?windows=5,80":           "INVALID_WINDOWS",
		"/api/v1/players/42/phases?limit=ten":              "INVALID_LIMIT",
		"/api/v1/players/42/benchmarks?window=0":           "INVALID_WINDOW",
		"/api/v1/players/42/projections?deltas=speed:10":   "INVALID_DELTAS",
		"/api/v1/players/42/projections?deltas=gpm":        "INVALID_DELTAS",
		"/api/v1/players/42/matches/zero/items":            "INVALID_MATCH",
		"/api/v1/players/42/matches/7000/items?slot=-1":    "INVALID_SLOT",
		"/api/v1/players/42/overview?limit=-5":             "INVALID_LIMIT",
		"/api/v1/players/42/benchmarks?window=51&role=mid": "INVALID_WINDOW",
	}
	for target, code := range cases {
		t.Run(target, func(t *testing.T) {
			rec := do(t, srv, http.MethodGet, target, "", nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, code, errorCode(t, rec))
		})
	}
}

func TestItemTimingsSlot(t *testing.T) {
	a := &fakeAnalyzer{}
	srv := newTestServer(t, a, testConfig())

	rec := do(t, srv, http.MethodGet, "/api/v1/players/42/matches/7000/items?slot=130", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, a.gotSlot)
	assert.Equal(t, 130, *a.gotSlot)

	rec = do(t, srv, http.MethodGet, "/api/v1/players/42/matches/7000/items", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, a.gotSlot)
}

func TestProjections(t *testing.T) {
	a := &fakeAnalyzer{}
	srv := newTestServer(t, a, testConfig())

	rec := do(t, srv, http.MethodGet, "/api/v1/players/42/projections?role=Mid&window=10&deltas=gold_per_min:50,deaths:-1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Mid", a.gotRole)
	assert.Equal(t, 10, a.gotWindow)
	assert.Equal(t, map[string]float64{"gold_per_min": 50, "deaths": -1}, a.gotDeltas)

	rec = do(t, srv, http.MethodPost, "/api/v1/players/42/projections", `{"deltas":{"kda":0.5}}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, map[string]float64{"kda": 0.5}, a.gotDeltas)

	rec = do(t, srv, http.MethodPost, "/api/v1/players/42/projections", `{"deltas":`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCatalogEndpoints(t *testing.T) {
	srv := newTestServer(t, &fakeAnalyzer{}, testConfig())

	rec := do(t, srv, http.MethodGet, "/api/v1/catalog/heroes", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var heroes handler.HeroCatalog
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &heroes))
	assert.Equal(t, 1, heroes.Count)
	assert.Equal(t, "Anti-Mage", heroes.Heroes[0].LocalizedName)

	rec = do(t, srv, http.MethodGet, "/api/v1/catalog/items", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "CATALOG_UNAVAILABLE", errorCode(t, rec))
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &fakeAnalyzer{}, testConfig())

	rec := do(t, srv, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"upstream_breaker":"closed"`)

	rec = do(t, srv, http.MethodGet, "/health/db", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_configured")

	rec = do(t, srv, http.MethodGet, "/health/cache", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"backend":"memory"`)
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitEnabled = true
	cfg.RateLimitRequests = 2
	srv := newTestServer(t, &fakeAnalyzer{}, cfg)

	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/health", "", nil).Code)
	rec := do(t, srv, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
}

func TestIPLimiterSweep(t *testing.T) {
	l := newIPLimiter(10, time.Minute)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.getLimiter("10.0.0.1")
	now = now.Add(limiterIdleTTL / 2)
	l.getLimiter("10.0.0.2")
	now = now.Add(limiterIdleTTL/2 + time.Second)
	l.sweep()

	assert.NotContains(t, l.visitors, "10.0.0.1")
	assert.Contains(t, l.visitors, "10.0.0.2")
}
