package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/albapepper/dotalens/internal/catalog"
)

var errCatalogEmpty = errors.New("catalog not loaded")

// HeroCatalog is the hero catalog response.
type HeroCatalog struct {
	Count    int            `json:"count"`
	LoadedAt time.Time      `json:"loaded_at"`
	Heroes   []catalog.Hero `json:"heroes"`
}

// ItemCatalog is the item catalog response.
type ItemCatalog struct {
	Count    int            `json:"count"`
	LoadedAt time.Time      `json:"loaded_at"`
	Items    []catalog.Item `json:"items"`
}

// GetHeroes returns the hero reference catalog.
// @Summary Get hero catalog
// @Description Returns every hero with its internal name, display name, primary attribute and roles. Served from the seeded database when available, otherwise from the provider.
// @Tags catalog
// @Produce json
// @Success 200 {object} HeroCatalog
// @Failure 503 {object} respond.ErrorResponse
// @Router /catalog/heroes [get]
func (h *Handler) GetHeroes(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, "catalog:heroes", h.cfg.CacheTTLCatalog, func(ctx context.Context) (interface{}, error) {
		h.catalog.EnsureFresh(ctx)
		heroes := h.catalog.Heroes()
		if len(heroes) == 0 {
			return nil, errCatalogEmpty
		}
		return HeroCatalog{Count: len(heroes), LoadedAt: h.catalog.LoadedAt(), Heroes: heroes}, nil
	})
}

// GetItems returns the item reference catalog.
// @Summary Get item catalog
// @Description Returns every item with its internal key, display name and gold cost.
// @Tags catalog
// @Produce json
// @Success 200 {object} ItemCatalog
// @Failure 503 {object} respond.ErrorResponse
// @Router /catalog/items [get]
func (h *Handler) GetItems(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, "catalog:items", h.cfg.CacheTTLCatalog, func(ctx context.Context) (interface{}, error) {
		h.catalog.EnsureFresh(ctx)
		items := h.catalog.Items()
		if len(items) == 0 {
			return nil, errCatalogEmpty
		}
		return ItemCatalog{Count: len(items), LoadedAt: h.catalog.LoadedAt(), Items: items}, nil
	})
}
