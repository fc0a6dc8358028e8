// Package engine orchestrates one analysis request: fetch the subject's
// recent matches, enrich them with full match payloads, and run the
// requested computations over the enriched sequence.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/albapepper/dotalens/internal/benchmark"
	"github.com/albapepper/dotalens/internal/catalog"
	"github.com/albapepper/dotalens/internal/enrich"
	"github.com/albapepper/dotalens/internal/identity"
	"github.com/albapepper/dotalens/internal/itemtiming"
	"github.com/albapepper/dotalens/internal/match"
	"github.com/albapepper/dotalens/internal/phase"
	"github.com/albapepper/dotalens/internal/projection"
	"github.com/albapepper/dotalens/internal/provider/opendota"
	"github.com/albapepper/dotalens/internal/rolling"
)

var (
	// ErrUpstreamUnavailable means the primary match-list fetch failed. It
	// is the only upstream failure surfaced to callers.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrInvalidAccount is returned for non-positive or anonymous ids.
	ErrInvalidAccount = errors.New("invalid account id")
	// ErrMatchNotFound is returned when a match, or the subject within it,
	// does not exist.
	ErrMatchNotFound = errors.New("match not found")
)

// Source is the upstream the engine reads from.
type Source interface {
	RecentMatches(ctx context.Context, accountID int64, limit int) ([]match.MatchSummary, error)
	Match(ctx context.Context, matchID int64) (*match.MatchDetail, error)
}

// Options configures a Service. Zero values fall back to defaults.
type Options struct {
	DefaultLimit   int
	MaxLimit       int
	Windows        []int
	MaxConcurrency int
	FetchTimeout   time.Duration

	Benchmarks    benchmark.Table
	Sensitivities projection.Sensitivities
	Deltas        map[string]float64
	Optimal       itemtiming.OptimalTimings
}

const (
	defaultLimit    = 20
	defaultMaxLimit = 50
)

// Service runs analyses. It holds no per-request state.
type Service struct {
	source     Source
	catalog    *catalog.Catalog
	enricher   *enrich.Enricher
	comparator *benchmark.Comparator
	simulator  *projection.Simulator
	resolver   *itemtiming.Resolver

	defaultLimit int
	maxLimit     int
	windows      []int
	logger       *slog.Logger
}

// New creates a Service.
func New(source Source, cat *catalog.Catalog, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = defaultMaxLimit
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = defaultLimit
	}
	if opts.DefaultLimit > opts.MaxLimit {
		opts.DefaultLimit = opts.MaxLimit
	}
	if len(opts.Windows) == 0 {
		opts.Windows = rolling.DefaultWindows
	}
	if opts.Optimal == nil {
		opts.Optimal = itemtiming.DefaultOptimalTimings()
	}

	return &Service{
		source:  source,
		catalog: cat,
		enricher: enrich.New(source, enrich.Options{
			MaxConcurrency: opts.MaxConcurrency,
			FetchTimeout:   opts.FetchTimeout,
		}, logger),
		comparator:   benchmark.NewComparator(opts.Benchmarks),
		simulator:    projection.NewSimulator(opts.Sensitivities, opts.Deltas),
		resolver:     itemtiming.NewResolver(cat, opts.Optimal),
		defaultLimit: opts.DefaultLimit,
		maxLimit:     opts.MaxLimit,
		windows:      opts.Windows,
		logger:       logger,
	}
}

// Meta describes the data an analysis ran over.
type Meta struct {
	AnalysisID       string `json:"analysis_id"`
	AccountID        int64  `json:"account_id"`
	MatchesRequested int    `json:"matches_requested"`
	MatchesEnriched  int    `json:"matches_enriched"`
	InsufficientData bool   `json:"insufficient_data"`
}

// ValidAccount reports whether id can identify a player.
func ValidAccount(id int64) bool {
	return id > 0 && id != match.AnonymousAccountID
}

// Limit clamps a requested match count to the configured bounds.
func (s *Service) Limit(n int) int {
	switch {
	case n <= 0:
		return s.defaultLimit
	case n > s.maxLimit:
		return s.maxLimit
	}
	return n
}

// Windows returns the default rolling windows.
func (s *Service) Windows() []int {
	return append([]int(nil), s.windows...)
}

// load fetches and enriches the subject's recent matches. A failed list
// fetch is the only error; an empty list is reported through Meta.
func (s *Service) load(ctx context.Context, accountID int64, limit int) ([]match.EnrichedMatch, Meta, error) {
	if !ValidAccount(accountID) {
		return nil, Meta{}, ErrInvalidAccount
	}
	meta := Meta{AnalysisID: uuid.NewString(), AccountID: accountID}

	summaries, err := s.source.RecentMatches(ctx, accountID, limit)
	if err != nil {
		s.logger.Error("Match list fetch failed", "analysis_id", meta.AnalysisID, "account_id", accountID, "error", err)
		return nil, meta, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	if len(summaries) > limit {
		summaries = summaries[:limit]
	}
	meta.MatchesRequested = len(summaries)
	if len(summaries) == 0 {
		meta.InsufficientData = true
		return nil, meta, nil
	}

	start := time.Now()
	matches, stats := s.enricher.Enrich(ctx, summaries, accountID)
	meta.MatchesEnriched = stats.Enriched
	s.logger.Debug("Matches enriched",
		"analysis_id", meta.AnalysisID,
		"account_id", accountID,
		"requested", stats.Requested,
		"enriched", stats.Enriched,
		"failed", stats.Failed,
		"elapsed", time.Since(start),
	)
	return matches, meta, nil
}

// largest returns the biggest positive window, or 0.
func largest(windows []int) int {
	n := 0
	for _, w := range windows {
		if w > n {
			n = w
		}
	}
	return n
}

// --------------------------------------------------------------------------
// Trends
// --------------------------------------------------------------------------

// TrendReport holds rolling-window means and the short-vs-long trend.
type TrendReport struct {
	Meta    Meta                  `json:"meta"`
	Windows []rolling.WindowStats `json:"windows"`
	Trend   *rolling.Delta        `json:"trend,omitempty"`
}

// Trends aggregates windows over the subject's recent matches. With no
// windows the configured defaults are used; the fetch covers at least the
// largest window, bounded by the maximum limit.
func (s *Service) Trends(ctx context.Context, accountID int64, windows []int, limit int) (*TrendReport, error) {
	if len(windows) == 0 {
		windows = s.windows
	}
	limit = s.Limit(limit)
	if w := largest(windows); w > limit {
		limit = s.Limit(w)
	}

	matches, meta, err := s.load(ctx, accountID, limit)
	if err != nil {
		return nil, err
	}
	res := rolling.Aggregate(matches, windows)
	return &TrendReport{Meta: meta, Windows: res.Windows, Trend: res.Trend}, nil
}

// --------------------------------------------------------------------------
// Phases
// --------------------------------------------------------------------------

// PhaseReport holds per-match phase breakdowns and their average.
type PhaseReport struct {
	Meta    Meta              `json:"meta"`
	Matches []phase.Breakdown `json:"matches"`
	Average phase.Average     `json:"average"`
}

// Phases estimates the per-phase profile of each recent match.
func (s *Service) Phases(ctx context.Context, accountID int64, limit int) (*PhaseReport, error) {
	matches, meta, err := s.load(ctx, accountID, s.Limit(limit))
	if err != nil {
		return nil, err
	}
	breakdowns, avg := phase.EstimateAll(matches)
	return &PhaseReport{Meta: meta, Matches: breakdowns, Average: avg}, nil
}

// --------------------------------------------------------------------------
// Item timings
// --------------------------------------------------------------------------

// ItemTimingReport lists the purchase time of each item the subject held
// at the end of one match.
type ItemTimingReport struct {
	Meta       Meta                  `json:"meta"`
	MatchID    int64                 `json:"match_id"`
	HeroID     int                   `json:"hero_id"`
	HeroName   string                `json:"hero_name"`
	Duration   int                   `json:"duration"`
	GoldPerMin float64               `json:"gold_per_min"`
	ResolvedBy string                `json:"resolved_by"`
	Items      []itemtiming.Estimate `json:"items"`
}

// ItemTimings resolves item purchase times for the subject in one match.
// slot may be nil; when the account id alone cannot locate the subject the
// recent match list is consulted for the slot and hero.
func (s *Service) ItemTimings(ctx context.Context, accountID, matchID int64, slot *int) (*ItemTimingReport, error) {
	if !ValidAccount(accountID) {
		return nil, ErrInvalidAccount
	}
	if matchID <= 0 {
		return nil, ErrMatchNotFound
	}
	meta := Meta{AnalysisID: uuid.NewString(), AccountID: accountID, MatchesRequested: 1}

	detail, err := s.source.Match(ctx, matchID)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %d", ErrMatchNotFound, matchID)
		}
		s.logger.Error("Match fetch failed", "analysis_id", meta.AnalysisID, "match_id", matchID, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}

	summary := match.MatchSummary{MatchID: matchID, Duration: detail.Duration, RadiantWin: detail.RadiantWin}
	subject := identityFor(accountID, slot)
	rec, method := identity.Resolve(detail, subject)
	if rec == nil && slot == nil {
		if sm, ok := s.findSummary(ctx, accountID, matchID); ok {
			summary = sm
			rec, method = identity.Resolve(detail, identity.SubjectFromSummary(accountID, sm))
		}
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: subject not in match %d", ErrMatchNotFound, matchID)
	}

	s.catalog.EnsureFresh(ctx)
	m := match.NewEnrichedMatch(summary)
	enrich.Merge(&m, detail, rec, method)
	if m.Enriched {
		meta.MatchesEnriched = 1
	}

	items := s.resolver.Resolve(itemtiming.Input{
		Record:     rec,
		Events:     detail.Events,
		Duration:   m.Duration,
		GoldPerMin: m.GoldPerMin,
	})
	return &ItemTimingReport{
		Meta:       meta,
		MatchID:    matchID,
		HeroID:     m.HeroID,
		HeroName:   s.catalog.Hero(m.HeroID).LocalizedName,
		Duration:   m.Duration,
		GoldPerMin: m.GoldPerMin,
		ResolvedBy: method,
		Items:      items,
	}, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, opendota.ErrNotFound) || errors.Is(err, ErrMatchNotFound)
}

func identityFor(accountID int64, slot *int) identity.Subject {
	s := identity.Subject{AccountID: accountID}
	if slot != nil {
		s.PlayerSlot, s.HasSlot = *slot, true
	}
	return s
}

// findSummary looks the match up in the subject's recent list. Failures are
// not fatal; the caller already has the detail.
func (s *Service) findSummary(ctx context.Context, accountID, matchID int64) (match.MatchSummary, bool) {
	summaries, err := s.source.RecentMatches(ctx, accountID, s.maxLimit)
	if err != nil {
		s.logger.Warn("Match list lookup failed", "account_id", accountID, "match_id", matchID, "error", err)
		return match.MatchSummary{}, false
	}
	for _, sm := range summaries {
		if sm.MatchID == matchID {
			return sm, true
		}
	}
	return match.MatchSummary{}, false
}

// --------------------------------------------------------------------------
// Benchmarks
// --------------------------------------------------------------------------

// BenchmarkReport compares one window's aggregates against a role benchmark.
type BenchmarkReport struct {
	Meta         Meta                 `json:"meta"`
	RoleInferred bool                 `json:"role_inferred"`
	Window       rolling.WindowStats  `json:"window"`
	Comparison   benchmark.Comparison `json:"comparison"`
}

// Benchmarks compares the subject's most recent window matches against the
// benchmark for role. An empty role is inferred from the matches; window 0
// means the largest default window.
func (s *Service) Benchmarks(ctx context.Context, accountID int64, role string, window int) (*BenchmarkReport, error) {
	matches, meta, stats, err := s.loadWindow(ctx, accountID, window)
	if err != nil {
		return nil, err
	}
	role, inferred := s.role(matches, role)
	return &BenchmarkReport{
		Meta:         meta,
		RoleInferred: inferred,
		Window:       stats,
		Comparison:   s.comparator.Compare(stats, role),
	}, nil
}

func (s *Service) loadWindow(ctx context.Context, accountID int64, window int) ([]match.EnrichedMatch, Meta, rolling.WindowStats, error) {
	if window <= 0 {
		window = largest(s.windows)
	}
	window = s.Limit(window)
	matches, meta, err := s.load(ctx, accountID, window)
	if err != nil {
		return nil, meta, rolling.WindowStats{}, err
	}
	res := rolling.Aggregate(matches, []int{window})
	return matches, meta, res.Windows[0], nil
}

func (s *Service) role(matches []match.EnrichedMatch, requested string) (string, bool) {
	if requested != "" {
		return requested, false
	}
	return benchmark.InferRole(matches), true
}

// --------------------------------------------------------------------------
// Projections
// --------------------------------------------------------------------------

// ProjectionReport holds win-rate scenarios built from a benchmark comparison.
type ProjectionReport struct {
	Meta             Meta                        `json:"meta"`
	Role             string                      `json:"role"`
	RoleInferred     bool                        `json:"role_inferred"`
	WindowSize       int                         `json:"window_size"`
	ImprovementAreas []benchmark.ImprovementArea `json:"improvement_areas"`
	Projection       projection.Result           `json:"projection"`
}

// Projections simulates win-rate changes. With no deltas the default delta
// of each improvement area is simulated.
func (s *Service) Projections(ctx context.Context, accountID int64, role string, window int, deltas map[string]float64) (*ProjectionReport, error) {
	matches, meta, stats, err := s.loadWindow(ctx, accountID, window)
	if err != nil {
		return nil, err
	}
	role, inferred := s.role(matches, role)
	cmp := s.comparator.Compare(stats, role)
	return &ProjectionReport{
		Meta:             meta,
		Role:             cmp.Role,
		RoleInferred:     inferred,
		WindowSize:       stats.Size,
		ImprovementAreas: cmp.ImprovementAreas,
		Projection:       s.simulator.Simulate(stats.WinRate, cmp.ImprovementAreas, deltas),
	}, nil
}

// --------------------------------------------------------------------------
// Overview
// --------------------------------------------------------------------------

// HeroUsage counts matches and wins on one hero.
type HeroUsage struct {
	HeroID  int     `json:"hero_id"`
	Name    string  `json:"name"`
	Matches int     `json:"matches"`
	Wins    int     `json:"wins"`
	WinRate float64 `json:"win_rate"`
}

// Overview combines every list-derived analysis over one enrichment pass.
type Overview struct {
	Meta         Meta                  `json:"meta"`
	Role         string                `json:"role"`
	RoleInferred bool                  `json:"role_inferred"`
	Windows      []rolling.WindowStats `json:"windows"`
	Trend        *rolling.Delta        `json:"trend,omitempty"`
	Phases       phase.Average         `json:"phases"`
	Heroes       []HeroUsage           `json:"heroes"`
	Comparison   benchmark.Comparison  `json:"comparison"`
	Projection   projection.Result     `json:"projection"`
}

// Overview runs trends, phases, benchmarks and projections together.
func (s *Service) Overview(ctx context.Context, accountID int64, role string, limit int) (*Overview, error) {
	limit = s.Limit(limit)
	if w := largest(s.windows); w > limit {
		limit = s.Limit(w)
	}
	matches, meta, err := s.load(ctx, accountID, limit)
	if err != nil {
		return nil, err
	}

	trends := rolling.Aggregate(matches, s.windows)
	var stats rolling.WindowStats
	if n := len(trends.Windows); n > 0 {
		stats = trends.Windows[n-1]
	}
	_, avg := phase.EstimateAll(matches)
	role, inferred := s.role(matches, role)
	cmp := s.comparator.Compare(stats, role)

	s.catalog.EnsureFresh(ctx)
	return &Overview{
		Meta:         meta,
		Role:         cmp.Role,
		RoleInferred: inferred,
		Windows:      trends.Windows,
		Trend:        trends.Trend,
		Phases:       avg,
		Heroes:       s.heroUsage(matches),
		Comparison:   cmp,
		Projection:   s.simulator.Simulate(stats.WinRate, cmp.ImprovementAreas, nil),
	}, nil
}

// heroUsage groups matches by hero, most played first.
func (s *Service) heroUsage(matches []match.EnrichedMatch) []HeroUsage {
	byHero := map[int]*HeroUsage{}
	for i := range matches {
		m := &matches[i]
		if m.HeroID == 0 {
			continue
		}
		u, ok := byHero[m.HeroID]
		if !ok {
			u = &HeroUsage{HeroID: m.HeroID, Name: s.catalog.Hero(m.HeroID).LocalizedName}
			byHero[m.HeroID] = u
		}
		u.Matches++
		if m.Won() {
			u.Wins++
		}
	}

	out := make([]HeroUsage, 0, len(byHero))
	for _, u := range byHero {
		u.WinRate = float64(u.Wins) * 100 / float64(u.Matches)
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Matches != out[j].Matches {
			return out[i].Matches > out[j].Matches
		}
		return out[i].HeroID < out[j].HeroID
	})
	return out
}
