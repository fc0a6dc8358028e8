package opendota

import (
	"context"
	"fmt"
	"sort"

	"github.com/albapepper/dotalens/internal/provider"
)

// Hero is one entry of the hero reference catalog.
type Hero struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	LocalizedName string   `json:"localized_name"`
	PrimaryAttr   string   `json:"primary_attr"`
	Roles         []string `json:"roles"`
}

// Item is one entry of the item reference catalog.
type Item struct {
	ID          int    `json:"id"`
	Key         string `json:"key"`
	DisplayName string `json:"display_name"`
	Cost        int    `json:"cost"`
}

type heroRaw struct {
	ID            provider.Number `json:"id"`
	Name          string          `json:"name"`
	LocalizedName string          `json:"localized_name"`
	PrimaryAttr   string          `json:"primary_attr"`
	Roles         []string        `json:"roles"`
}

type itemRaw struct {
	ID    provider.Number `json:"id"`
	DName string          `json:"dname"`
	Cost  provider.Number `json:"cost"`
}

// Heroes fetches the hero catalog, ordered by id.
func (c *Client) Heroes(ctx context.Context) ([]Hero, error) {
	var raw map[string]heroRaw
	if err := c.get(ctx, "/constants/heroes", nil, &raw); err != nil {
		return nil, fmt.Errorf("fetch heroes: %w", err)
	}
	heroes := make([]Hero, 0, len(raw))
	for _, h := range raw {
		if !h.ID.Valid {
			continue
		}
		heroes = append(heroes, Hero{
			ID:            h.ID.Int(),
			Name:          h.Name,
			LocalizedName: h.LocalizedName,
			PrimaryAttr:   h.PrimaryAttr,
			Roles:         h.Roles,
		})
	}
	sort.Slice(heroes, func(i, j int) bool { return heroes[i].ID < heroes[j].ID })
	return heroes, nil
}

// Items fetches the item catalog, ordered by id. The provider keys the
// catalog by internal name; the key is copied onto each item.
func (c *Client) Items(ctx context.Context) ([]Item, error) {
	var raw map[string]itemRaw
	if err := c.get(ctx, "/constants/items", nil, &raw); err != nil {
		return nil, fmt.Errorf("fetch items: %w", err)
	}
	items := make([]Item, 0, len(raw))
	for key, it := range raw {
		if !it.ID.Valid {
			continue
		}
		items = append(items, Item{
			ID:          it.ID.Int(),
			Key:         key,
			DisplayName: it.DName,
			Cost:        it.Cost.Int(),
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items, nil
}
