package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/albapepper/dotalens/internal/catalog"
	"github.com/albapepper/dotalens/internal/seed"
)

// Refresher reloads an in-memory catalog.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// CatalogRefresh reloads the served hero/item catalog ahead of its expiry so
// requests never wait on a lazy reload.
func CatalogRefresh(cat Refresher, interval time.Duration) Task {
	return Task{
		Name:     "catalog_refresh",
		Interval: interval,
		Run:      cat.Refresh,
	}
}

// CatalogReseed upserts the provider's current heroes and items into the
// catalog tables, picking up new heroes and item patches, then notifies
// listeners.
func CatalogReseed(ex seed.Execer, source catalog.Loader, interval time.Duration, logger *slog.Logger) Task {
	return Task{
		Name:     "catalog_reseed",
		Interval: interval,
		Run: func(ctx context.Context) error {
			result := seed.SeedAll(ctx, ex, source, logger)
			if result.Failed() {
				return fmt.Errorf("reseed: %d errors, first: %s", len(result.Errors), result.Errors[0])
			}
			return seed.NotifyCatalogUpdated(ctx, ex, result)
		},
	}
}
