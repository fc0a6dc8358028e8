package handler

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/albapepper/dotalens/internal/api/respond"
	"github.com/albapepper/dotalens/internal/benchmark"
	"github.com/albapepper/dotalens/internal/config"
)

// maxBodyBytes bounds the projection request body.
const maxBodyBytes = 1 << 16

// ProjectionRequest is the POST body for projections.
type ProjectionRequest struct {
	Deltas map[string]float64 `json:"deltas"`
}

// GetTrends returns rolling-window aggregates and the short-vs-long trend.
// @Summary Get rolling trends
// @Description Fetches the player's recent matches, enriches each with its full payload, and reports windowed means (win rate, KDA, GPM, XPM, deaths, last hits, hero damage) plus the difference between the two smallest windows.
// @Tags analytics
// @Produce json
// @Param accountID path int true "Player account ID"
// @Param windows query string false "Comma-separated window sizes (default 5,10)"
// @Param limit query int false "Matches to fetch (clamped to MAX_MATCH_LIMIT)"
// @Success 200 {object} engine.TrendReport
// @Failure 400 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse
// @Router /players/{accountID}/trends [get]
func (h *Handler) GetTrends(w http.ResponseWriter, r *http.Request) {
	accountID, ok := parseAccountID(w, r)
	if !ok {
		return
	}
	limit, ok := h.parseLimit(w, r)
	if !ok {
		return
	}
	var windows []int
	if raw := r.URL.Query().Get("windows"); raw != "" {
		var err error
		windows, err = config.ParseInts(raw)
		if err != nil {
			respond.WriteErrorDetail(w, http.StatusBadRequest, "INVALID_WINDOWS", "windows must be comma-separated positive integers", err.Error())
			return
		}
		for _, win := range windows {
			if win > h.cfg.MaxMatchLimit {
				respond.WriteError(w, http.StatusBadRequest, "INVALID_WINDOWS",
					fmt.Sprintf("Window %d exceeds the maximum of %d matches", win, h.cfg.MaxMatchLimit))
				return
			}
		}
	}

	key := fmt.Sprintf("trends:%d:%s:%d", accountID, joinInts(windows), limit)
	h.serveCached(w, r, key, h.cfg.CacheTTLMatchList, func(ctx context.Context) (interface{}, error) {
		return h.analyzer.Trends(ctx, accountID, windows, limit)
	})
}

// GetPhases returns early/mid/late estimates for each recent match.
// @Summary Get phase breakdown
// @Description Splits each recent match into early (0-10 min), mid (10-25 min) and late phases and attributes kills, deaths, assists, farm, gold and XP to each. Event logs are used when they account for every event; otherwise counts are split by phase duration.
// @Tags analytics
// @Produce json
// @Param accountID path int true "Player account ID"
// @Param limit query int false "Matches to fetch (clamped to MAX_MATCH_LIMIT)"
// @Success 200 {object} engine.PhaseReport
// @Failure 400 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse
// @Router /players/{accountID}/phases [get]
func (h *Handler) GetPhases(w http.ResponseWriter, r *http.Request) {
	accountID, ok := parseAccountID(w, r)
	if !ok {
		return
	}
	limit, ok := h.parseLimit(w, r)
	if !ok {
		return
	}

	key := fmt.Sprintf("phases:%d:%d", accountID, limit)
	h.serveCached(w, r, key, h.cfg.CacheTTLMatchList, func(ctx context.Context) (interface{}, error) {
		return h.analyzer.Phases(ctx, accountID, limit)
	})
}

// GetItemTimings returns purchase times for the player's items in one match.
// @Summary Get item purchase timings
// @Description Resolves when each item the player held at the end of the match was bought: from the purchase log, else from the event log, else estimated from a gold-accumulation curve. Each item is classified early, on_time or late against a reference timing.
// @Tags analytics
// @Produce json
// @Param accountID path int true "Player account ID"
// @Param matchID path int true "Match ID"
// @Param slot query int false "Player slot, for players with a hidden account"
// @Success 200 {object} engine.ItemTimingReport
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse
// @Router /players/{accountID}/matches/{matchID}/items [get]
func (h *Handler) GetItemTimings(w http.ResponseWriter, r *http.Request) {
	accountID, ok := parseAccountID(w, r)
	if !ok {
		return
	}
	matchID, err := strconv.ParseInt(chi.URLParam(r, "matchID"), 10, 64)
	if err != nil || matchID <= 0 {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_MATCH", "Match ID must be a positive integer")
		return
	}
	var slot *int
	slotKey := "any"
	if s := r.URL.Query().Get("slot"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			respond.WriteError(w, http.StatusBadRequest, "INVALID_SLOT", "slot must be a non-negative integer")
			return
		}
		slot, slotKey = &n, s
	}

	key := fmt.Sprintf("items:%d:%d:%s", accountID, matchID, slotKey)
	h.serveCached(w, r, key, h.cfg.CacheTTLMatch, func(ctx context.Context) (interface{}, error) {
		return h.analyzer.ItemTimings(ctx, accountID, matchID, slot)
	})
}

// GetBenchmarks compares the player's recent window against a role benchmark.
// @Summary Get role benchmarks
// @Description Scores the player's windowed means against role percentiles (P50/P75/P90) and lists the three weakest metrics as improvement areas. The role is inferred from recent matches when omitted; unknown roles fall back to carry.
// @Tags analytics
// @Produce json
// @Param accountID path int true "Player account ID"
// @Param role query string false "Role" Enums(carry, mid, offlane, support)
// @Param window query int false "Window size (default: largest configured window)"
// @Success 200 {object} engine.BenchmarkReport
// @Failure 400 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse
// @Router /players/{accountID}/benchmarks [get]
func (h *Handler) GetBenchmarks(w http.ResponseWriter, r *http.Request) {
	accountID, ok := parseAccountID(w, r)
	if !ok {
		return
	}
	role := strings.TrimSpace(r.URL.Query().Get("role"))
	window, ok := h.parseWindow(w, r)
	if !ok {
		return
	}

	key := fmt.Sprintf("benchmarks:%d:%s:%d", accountID, strings.ToLower(role), window)
	h.serveCached(w, r, key, h.cfg.CacheTTLMatchList, func(ctx context.Context) (interface{}, error) {
		return h.analyzer.Benchmarks(ctx, accountID, role, window)
	})
}

// GetProjections simulates win-rate changes from metric improvements.
// @Summary Get improvement projections
// @Description Projects win rate for each metric delta and for all deltas combined, capped at max(70, current win rate). With no deltas the default delta of each improvement area is simulated. Deltas may be given as a query parameter (deltas=gold_per_min:50,deaths:-1) or, with POST, as a JSON body.
// @Tags analytics
// @Accept json
// @Produce json
// @Param accountID path int true "Player account ID"
// @Param role query string false "Role" Enums(carry, mid, offlane, support)
// @Param window query int false "Window size (default: largest configured window)"
// @Param deltas query string false "Comma-separated metric:delta pairs"
// @Param body body ProjectionRequest false "Metric deltas (POST only)"
// @Success 200 {object} engine.ProjectionReport
// @Failure 400 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse
// @Router /players/{accountID}/projections [get]
// @Router /players/{accountID}/projections [post]
func (h *Handler) GetProjections(w http.ResponseWriter, r *http.Request) {
	accountID, ok := parseAccountID(w, r)
	if !ok {
		return
	}
	role := strings.TrimSpace(r.URL.Query().Get("role"))
	window, ok := h.parseWindow(w, r)
	if !ok {
		return
	}

	deltas, err := parseDeltas(r.URL.Query().Get("deltas"))
	if err == nil && r.Method == http.MethodPost && r.ContentLength != 0 {
		var req ProjectionRequest
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err = dec.Decode(&req); err == nil {
			deltas = req.Deltas
		}
	}
	if err == nil {
		err = validateDeltas(deltas)
	}
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusBadRequest, "INVALID_DELTAS", "deltas must map known metrics to numbers", err.Error())
		return
	}

	key := fmt.Sprintf("projections:%d:%s:%d:%s", accountID, strings.ToLower(role), window, deltaKey(deltas))
	h.serveCached(w, r, key, h.cfg.CacheTTLMatchList, func(ctx context.Context) (interface{}, error) {
		return h.analyzer.Projections(ctx, accountID, role, window, deltas)
	})
}

// GetOverview runs every list-derived analysis over one enrichment pass.
// @Summary Get player overview
// @Description Trends, average phase profile, hero usage, role benchmark and default projections in one response.
// @Tags analytics
// @Produce json
// @Param accountID path int true "Player account ID"
// @Param role query string false "Role" Enums(carry, mid, offlane, support)
// @Param limit query int false "Matches to fetch (clamped to MAX_MATCH_LIMIT)"
// @Success 200 {object} engine.Overview
// @Failure 400 {object} respond.ErrorResponse
// @Failure 502 {object} respond.ErrorResponse
// @Router /players/{accountID}/overview [get]
func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	accountID, ok := parseAccountID(w, r)
	if !ok {
		return
	}
	limit, ok := h.parseLimit(w, r)
	if !ok {
		return
	}
	role := strings.TrimSpace(r.URL.Query().Get("role"))

	key := fmt.Sprintf("overview:%d:%s:%d", accountID, strings.ToLower(role), limit)
	h.serveCached(w, r, key, h.cfg.CacheTTLMatchList, func(ctx context.Context) (interface{}, error) {
		return h.analyzer.Overview(ctx, accountID, role, limit)
	})
}

// --------------------------------------------------------------------------
// Parameter parsing
// --------------------------------------------------------------------------

func parseAccountID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "accountID"), 10, 64)
	if err != nil || id <= 0 {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_ACCOUNT", "Account ID must be a positive integer")
		return 0, false
	}
	return id, true
}

// parseLimit reads ?limit and clamps it, so equivalent requests share a
// cache key.
func (h *Handler) parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	n := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		var err error
		n, err = strconv.Atoi(s)
		if err != nil || n < 0 {
			respond.WriteError(w, http.StatusBadRequest, "INVALID_LIMIT", "limit must be a non-negative integer")
			return 0, false
		}
	}
	return h.analyzer.Limit(n), true
}

func (h *Handler) parseWindow(w http.ResponseWriter, r *http.Request) (int, bool) {
	s := r.URL.Query().Get("window")
	if s == "" {
		return 0, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 || n > h.cfg.MaxMatchLimit {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_WINDOW",
			fmt.Sprintf("window must be between 1 and %d", h.cfg.MaxMatchLimit))
		return 0, false
	}
	return n, true
}

// parseDeltas parses "metric:delta,metric:delta".
func parseDeltas(s string) (map[string]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	out := map[string]float64{}
	for _, pair := range strings.Split(s, ",") {
		metric, val, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok {
			return nil, fmt.Errorf("expected metric:delta, got %q", pair)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid delta for %s: %q", metric, val)
		}
		out[strings.TrimSpace(metric)] = f
	}
	return out, nil
}

func validateDeltas(deltas map[string]float64) error {
	known := make(map[string]bool, len(benchmark.Metrics))
	for _, m := range benchmark.Metrics {
		known[m] = true
	}
	for m := range deltas {
		if !known[m] {
			return fmt.Errorf("unknown metric %q", m)
		}
	}
	return nil
}

func deltaKey(deltas map[string]float64) string {
	if len(deltas) == 0 {
		return "default"
	}
	parts := make([]string, 0, len(deltas))
	for m, d := range deltas {
		parts = append(parts, m+"="+strconv.FormatFloat(d, 'g', -1, 64))
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

func joinInts(v []int) string {
	if len(v) == 0 {
		return "default"
	}
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}
