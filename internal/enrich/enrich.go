// Package enrich joins recent-match summaries with their full match payloads.
//
// Every summary gets one detail fetch, run concurrently with a bounded
// fan-out. A failed or slow fetch leaves that match on its summary fields;
// the batch as a whole never fails.
package enrich

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/albapepper/dotalens/internal/identity"
	"github.com/albapepper/dotalens/internal/match"
)

// DetailFetcher loads one full match payload.
type DetailFetcher interface {
	Match(ctx context.Context, matchID int64) (*match.MatchDetail, error)
}

// Options configures an Enricher. Zero values fall back to defaults.
type Options struct {
	MaxConcurrency int
	FetchTimeout   time.Duration
}

const (
	defaultMaxConcurrency = 20
	defaultFetchTimeout   = 8 * time.Second
)

// Stats summarizes one Enrich call.
type Stats struct {
	Requested int `json:"requested"`
	Enriched  int `json:"enriched"`
	Failed    int `json:"failed"`
}

// Enricher merges summaries with match details.
type Enricher struct {
	fetcher        DetailFetcher
	maxConcurrency int
	fetchTimeout   time.Duration
	logger         *slog.Logger
}

// New creates an Enricher over fetcher.
func New(fetcher DetailFetcher, opts Options, logger *slog.Logger) *Enricher {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = defaultMaxConcurrency
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = defaultFetchTimeout
	}
	return &Enricher{
		fetcher:        fetcher,
		maxConcurrency: opts.MaxConcurrency,
		fetchTimeout:   opts.FetchTimeout,
		logger:         logger,
	}
}

// Enrich returns one EnrichedMatch per summary, in the same order. accountID
// is the subject whose record is looked up in each detail.
func (e *Enricher) Enrich(ctx context.Context, summaries []match.MatchSummary, accountID int64) ([]match.EnrichedMatch, Stats) {
	out := make([]match.EnrichedMatch, len(summaries))
	for i, s := range summaries {
		out[i] = match.NewEnrichedMatch(s)
	}

	// Each goroutine owns out[i]; none returns an error so one failure
	// never cancels the others.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.maxConcurrency)
	for i := range summaries {
		i := i
		g.Go(func() error {
			e.enrichOne(gctx, &out[i], accountID)
			return nil
		})
	}
	_ = g.Wait()

	stats := Stats{Requested: len(out)}
	for i := range out {
		if out[i].Enriched {
			stats.Enriched++
		} else {
			stats.Failed++
		}
	}
	return out, stats
}

func (e *Enricher) enrichOne(ctx context.Context, m *match.EnrichedMatch, accountID int64) {
	fctx, cancel := context.WithTimeout(ctx, e.fetchTimeout)
	defer cancel()

	detail, err := e.fetcher.Match(fctx, m.MatchID)
	if err != nil {
		e.logger.Warn("Match enrichment failed", "match_id", m.MatchID, "error", err)
		return
	}

	rec, method := identity.Resolve(detail, identity.SubjectFromSummary(accountID, m.MatchSummary))
	if rec == nil {
		e.logger.Warn("Subject not found in match", "match_id", m.MatchID, "account_id", accountID)
		return
	}
	Merge(m, detail, rec, method)
}

// Merge fills m from a resolved detail record. It only touches m.
func Merge(m *match.EnrichedMatch, detail *match.MatchDetail, rec *match.PlayerRecord, method string) {
	if m.Duration <= 0 {
		m.Duration = detail.Duration
	}
	if m.HeroID == 0 {
		m.HeroID = rec.HeroID
	}

	m.GoldPerMin = pickRate(rec.GoldPerMin, rec.TotalGold, m.Duration, m.GoldPerMin)
	m.XPPerMin = pickRate(rec.XPPerMin, rec.TotalXP, m.Duration, m.XPPerMin)

	if m.LastHits == 0 {
		m.LastHits = rec.LastHits
	}
	if m.Denies == 0 {
		m.Denies = rec.Denies
	}
	if m.HeroDamage == 0 {
		m.HeroDamage = rec.HeroDamage
	}
	if m.LaneRole == 0 {
		m.LaneRole = rec.LaneRole
	}

	m.Record = rec
	m.Events = detail.Events
	m.ResolvedBy = method
	m.Enriched = m.Duration > 0 && m.HeroID != 0
}

// pickRate chooses a per-minute rate: the detail's own nonzero value, then
// total / minutes played, then the summary's value.
func pickRate(detailRate float64, total, durationSec int, fallback float64) float64 {
	if detailRate > 0 {
		return detailRate
	}
	if total > 0 && durationSec > 0 {
		return float64(total) / (float64(durationSec) / 60.0)
	}
	return fallback
}
