// Package catalog serves the hero and item reference data.
//
// The catalogs change only with game patches, so they are loaded once and
// refreshed on a long interval. A failed refresh keeps serving the last good
// copy, and ids with no entry get a synthesized placeholder instead of an
// error.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Hero is a hero reference entry.
type Hero struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	LocalizedName string   `json:"localized_name"`
	PrimaryAttr   string   `json:"primary_attr,omitempty"`
	Roles         []string `json:"roles,omitempty"`
	Placeholder   bool     `json:"placeholder,omitempty"`
}

// Item is an item reference entry. Key is the internal name without the
// "item_" prefix.
type Item struct {
	ID          int    `json:"id"`
	Key         string `json:"key"`
	DisplayName string `json:"display_name"`
	Cost        int    `json:"cost"`
	Placeholder bool   `json:"placeholder,omitempty"`
}

// Loader fetches the full catalogs from a backing source.
type Loader interface {
	LoadHeroes(ctx context.Context) ([]Hero, error)
	LoadItems(ctx context.Context) ([]Item, error)
}

// DefaultRefreshInterval is how long a loaded catalog is served before the
// next access triggers a reload.
const DefaultRefreshInterval = 24 * time.Hour

// Catalog is a concurrency-safe, lazily refreshed hero/item lookup.
type Catalog struct {
	loader   Loader
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time

	mu         sync.RWMutex
	heroes     map[int]Hero
	items      map[int]Item
	itemsByKey map[string]Item
	loadedAt   time.Time
}

// New creates a catalog over loader. Nothing is loaded until Refresh or the
// first lookup through EnsureFresh.
func New(loader Loader, interval time.Duration, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	return &Catalog{
		loader:   loader,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
}

// Refresh reloads both catalogs. On error the previous contents are kept.
func (c *Catalog) Refresh(ctx context.Context) error {
	heroes, err := c.loader.LoadHeroes(ctx)
	if err != nil {
		return fmt.Errorf("load heroes: %w", err)
	}
	items, err := c.loader.LoadItems(ctx)
	if err != nil {
		return fmt.Errorf("load items: %w", err)
	}

	heroMap := make(map[int]Hero, len(heroes))
	for _, h := range heroes {
		heroMap[h.ID] = h
	}
	itemMap := make(map[int]Item, len(items))
	byKey := make(map[string]Item, len(items))
	for _, it := range items {
		it.Key = NormalizeKey(it.Key)
		itemMap[it.ID] = it
		byKey[it.Key] = it
	}

	c.mu.Lock()
	c.heroes, c.items, c.itemsByKey = heroMap, itemMap, byKey
	c.loadedAt = c.now()
	c.mu.Unlock()

	c.logger.Info("Catalog loaded", "heroes", len(heroMap), "items", len(itemMap))
	return nil
}

// EnsureFresh reloads the catalog when it was never loaded or is older than
// the refresh interval. Errors are logged; lookups fall back to whatever is
// loaded, or to placeholders.
func (c *Catalog) EnsureFresh(ctx context.Context) {
	c.mu.RLock()
	stale := c.loadedAt.IsZero() || c.now().Sub(c.loadedAt) >= c.interval
	c.mu.RUnlock()
	if !stale {
		return
	}
	if err := c.Refresh(ctx); err != nil {
		c.logger.Warn("Catalog refresh failed, serving last good copy", "error", err)
	}
}

// Hero returns the hero for id, or a placeholder.
func (c *Catalog) Hero(id int) Hero {
	c.mu.RLock()
	h, ok := c.heroes[id]
	c.mu.RUnlock()
	if ok {
		return h
	}
	return PlaceholderHero(id)
}

// Item returns the item for id, or a placeholder.
func (c *Catalog) Item(id int) Item {
	c.mu.RLock()
	it, ok := c.items[id]
	c.mu.RUnlock()
	if ok {
		return it
	}
	return PlaceholderItem(id)
}

// ItemByKey looks up an item by internal name, with or without prefix.
func (c *Catalog) ItemByKey(key string) (Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	it, ok := c.itemsByKey[NormalizeKey(key)]
	return it, ok
}

// Heroes returns all loaded heroes ordered by id.
func (c *Catalog) Heroes() []Hero {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Hero, 0, len(c.heroes))
	for _, h := range c.heroes {
		out = append(out, h)
	}
	sortByID(out, func(h Hero) int { return h.ID })
	return out
}

// Items returns all loaded items ordered by id.
func (c *Catalog) Items() []Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Item, 0, len(c.items))
	for _, it := range c.items {
		out = append(out, it)
	}
	sortByID(out, func(it Item) int { return it.ID })
	return out
}

// LoadedAt reports when the catalog was last loaded (zero if never).
func (c *Catalog) LoadedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadedAt
}

// PlaceholderHero synthesizes an entry for an unknown hero id.
func PlaceholderHero(id int) Hero {
	name := fmt.Sprintf("Hero %d", id)
	return Hero{ID: id, Name: fmt.Sprintf("hero_%d", id), LocalizedName: name, Placeholder: true}
}

// PlaceholderItem synthesizes an entry for an unknown item id.
func PlaceholderItem(id int) Item {
	return Item{ID: id, Key: fmt.Sprintf("item_%d", id), DisplayName: fmt.Sprintf("Item %d", id), Placeholder: true}
}

// NormalizeKey lowercases an internal item name and strips the "item_"
// prefix, except for placeholder keys whose remainder is numeric.
func NormalizeKey(key string) string {
	k := strings.ToLower(strings.TrimSpace(key))
	rest := strings.TrimPrefix(k, "item_")
	if rest == k || rest == "" || isDigits(rest) {
		return k
	}
	return rest
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
