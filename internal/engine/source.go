package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"

	"github.com/albapepper/dotalens/internal/cache"
	"github.com/albapepper/dotalens/internal/match"
)

// CachedSource memoizes upstream payloads in a cache backend. Match lists
// use a short TTL; a finished match never changes and is kept longer.
type CachedSource struct {
	next     Source
	backend  cache.Backend
	listTTL  time.Duration
	matchTTL time.Duration
	logger   *slog.Logger
}

// NewCachedSource wraps next. Zero TTLs use the cache package defaults.
func NewCachedSource(next Source, backend cache.Backend, listTTL, matchTTL time.Duration, logger *slog.Logger) *CachedSource {
	if logger == nil {
		logger = slog.Default()
	}
	if listTTL <= 0 {
		listTTL = cache.TTLMatchList
	}
	if matchTTL <= 0 {
		matchTTL = cache.TTLMatch
	}
	return &CachedSource{next: next, backend: backend, listTTL: listTTL, matchTTL: matchTTL, logger: logger}
}

// RecentMatches implements Source.
func (c *CachedSource) RecentMatches(ctx context.Context, accountID int64, limit int) ([]match.MatchSummary, error) {
	key := fmt.Sprintf("source:matches:%d:%d", accountID, limit)
	var out []match.MatchSummary
	if c.load(ctx, key, &out) {
		return out, nil
	}
	out, err := c.next.RecentMatches(ctx, accountID, limit)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, out, c.listTTL)
	return out, nil
}

// Match implements Source. Not-found answers are not cached.
func (c *CachedSource) Match(ctx context.Context, matchID int64) (*match.MatchDetail, error) {
	key := fmt.Sprintf("source:match:%d", matchID)
	var out match.MatchDetail
	if c.load(ctx, key, &out) {
		return &out, nil
	}
	detail, err := c.next.Match(ctx, matchID)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, detail, c.matchTTL)
	return detail, nil
}

func (c *CachedSource) load(ctx context.Context, key string, out interface{}) bool {
	data, _, ok := c.backend.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		c.logger.Warn("Discarding undecodable cache entry", "key", key, "error", err)
		return false
	}
	return true
}

func (c *CachedSource) store(ctx context.Context, key string, v interface{}, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("Cache encode failed", "key", key, "error", err)
		return
	}
	c.backend.Set(ctx, key, data, ttl)
}
