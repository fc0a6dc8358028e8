package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/albapepper/dotalens/internal/catalog"
	"github.com/albapepper/dotalens/internal/db"
	"github.com/albapepper/dotalens/internal/listener"
)

// Execer runs a statement. *db.Pool satisfies it.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// UpsertHero writes one hero through the prepared upsert statement.
func UpsertHero(ctx context.Context, ex Execer, h catalog.Hero) error {
	roles := h.Roles
	if roles == nil {
		roles = []string{}
	}
	_, err := ex.Exec(ctx, db.StmtUpsertHero, h.ID, h.Name, h.LocalizedName, h.PrimaryAttr, roles)
	return err
}

// UpsertItem writes one item through the prepared upsert statement.
func UpsertItem(ctx context.Context, ex Execer, it catalog.Item) error {
	_, err := ex.Exec(ctx, db.StmtUpsertItem, it.ID, catalog.NormalizeKey(it.Key), it.DisplayName, it.Cost)
	return err
}

// SeedHeroes loads heroes from source and upserts each one. A failed row is
// recorded and the rest continue.
func SeedHeroes(ctx context.Context, ex Execer, source catalog.Loader, logger *slog.Logger) SeedResult {
	var result SeedResult

	logger.Info("Seeding heroes...")
	heroes, err := source.LoadHeroes(ctx)
	if err != nil {
		result.AddErrorf("fetch heroes: %v", err)
		return result
	}
	for _, h := range heroes {
		if h.ID <= 0 {
			result.AddErrorf("hero %q has no id", h.Name)
			continue
		}
		if err := UpsertHero(ctx, ex, h); err != nil {
			result.AddErrorf("upsert hero %d: %v", h.ID, err)
		} else {
			result.HeroesUpserted++
		}
	}
	logger.Info("Heroes done", "count", result.HeroesUpserted)
	return result
}

// SeedItems loads items from source and upserts each one.
func SeedItems(ctx context.Context, ex Execer, source catalog.Loader, logger *slog.Logger) SeedResult {
	var result SeedResult

	logger.Info("Seeding items...")
	items, err := source.LoadItems(ctx)
	if err != nil {
		result.AddErrorf("fetch items: %v", err)
		return result
	}
	for i, it := range items {
		if it.ID <= 0 {
			result.AddErrorf("item %q has no id", it.Key)
			continue
		}
		if err := UpsertItem(ctx, ex, it); err != nil {
			result.AddErrorf("upsert item %d: %v", it.ID, err)
		} else {
			result.ItemsUpserted++
		}
		if (i+1)%100 == 0 {
			logger.Info("Items progress", "processed", i+1)
		}
	}
	logger.Info("Items done", "count", result.ItemsUpserted)
	return result
}

// SeedAll seeds heroes then items.
func SeedAll(ctx context.Context, ex Execer, source catalog.Loader, logger *slog.Logger) SeedResult {
	var result SeedResult
	result.Add(SeedHeroes(ctx, ex, source, logger))
	result.Add(SeedItems(ctx, ex, source, logger))
	logger.Info("Catalog seed complete", "summary", result.Summary())
	return result
}

// NotifyCatalogUpdated publishes the seed counts on the catalog channel so
// running API instances reload their catalog.
func NotifyCatalogUpdated(ctx context.Context, ex Execer, r SeedResult) error {
	payload, err := json.Marshal(listener.CatalogEvent{
		Heroes:    r.HeroesUpserted,
		Items:     r.ItemsUpserted,
		Timestamp: time.Now().Unix(),
	})
	if err != nil {
		return err
	}
	if _, err := ex.Exec(ctx, "SELECT pg_notify($1, $2)", listener.Channel, string(payload)); err != nil {
		return fmt.Errorf("notify %s: %w", listener.Channel, err)
	}
	return nil
}
