package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/albapepper/dotalens/internal/catalog"
)

// CatalogStore reads the seeded hero and item tables. It implements
// catalog.Loader.
type CatalogStore struct {
	pool *Pool
}

// NewCatalogStore creates a store over pool.
func NewCatalogStore(pool *Pool) *CatalogStore {
	return &CatalogStore{pool: pool}
}

// LoadHeroes implements catalog.Loader.
func (s *CatalogStore) LoadHeroes(ctx context.Context) ([]catalog.Hero, error) {
	rows, err := s.pool.Query(ctx, "catalog_heroes")
	if err != nil {
		return nil, fmt.Errorf("query heroes: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (catalog.Hero, error) {
		var h catalog.Hero
		err := row.Scan(&h.ID, &h.Name, &h.LocalizedName, &h.PrimaryAttr, &h.Roles)
		return h, err
	})
}

// LoadItems implements catalog.Loader.
func (s *CatalogStore) LoadItems(ctx context.Context) ([]catalog.Item, error) {
	rows, err := s.pool.Query(ctx, "catalog_items")
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (catalog.Item, error) {
		var it catalog.Item
		err := row.Scan(&it.ID, &it.Key, &it.DisplayName, &it.Cost)
		return it, err
	})
}

// Counts returns the number of seeded heroes and items.
func (s *CatalogStore) Counts(ctx context.Context) (heroes, items int, err error) {
	err = s.pool.QueryRow(ctx, "catalog_counts").Scan(&heroes, &items)
	return heroes, items, err
}
