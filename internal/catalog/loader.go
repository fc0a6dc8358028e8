package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/albapepper/dotalens/internal/provider/opendota"
)

// ErrEmpty is returned by a loader whose source has no rows yet.
var ErrEmpty = errors.New("catalog: source is empty")

// ConstantsSource is the part of the OpenDota client the upstream loader needs.
type ConstantsSource interface {
	Heroes(ctx context.Context) ([]opendota.Hero, error)
	Items(ctx context.Context) ([]opendota.Item, error)
}

// UpstreamLoader reads the catalogs straight from the provider.
type UpstreamLoader struct {
	Source ConstantsSource
}

// LoadHeroes implements Loader.
func (l UpstreamLoader) LoadHeroes(ctx context.Context) ([]Hero, error) {
	raw, err := l.Source.Heroes(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Hero, 0, len(raw))
	for _, h := range raw {
		out = append(out, Hero{
			ID:            h.ID,
			Name:          h.Name,
			LocalizedName: h.LocalizedName,
			PrimaryAttr:   h.PrimaryAttr,
			Roles:         h.Roles,
		})
	}
	return out, nil
}

// LoadItems implements Loader.
func (l UpstreamLoader) LoadItems(ctx context.Context) ([]Item, error) {
	raw, err := l.Source.Items(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Item, 0, len(raw))
	for _, it := range raw {
		out = append(out, Item{
			ID:          it.ID,
			Key:         NormalizeKey(it.Key),
			DisplayName: it.DisplayName,
			Cost:        it.Cost,
		})
	}
	return out, nil
}

// ChainLoader tries each loader in order and returns the first non-empty
// result. Used to prefer the seeded database over the provider.
type ChainLoader []Loader

// LoadHeroes implements Loader.
func (c ChainLoader) LoadHeroes(ctx context.Context) ([]Hero, error) {
	return firstNonEmpty(c, func(l Loader) ([]Hero, error) { return l.LoadHeroes(ctx) })
}

// LoadItems implements Loader.
func (c ChainLoader) LoadItems(ctx context.Context) ([]Item, error) {
	return firstNonEmpty(c, func(l Loader) ([]Item, error) { return l.LoadItems(ctx) })
}

func firstNonEmpty[T any](loaders []Loader, load func(Loader) ([]T, error)) ([]T, error) {
	var errs []error
	for i, l := range loaders {
		out, err := load(l)
		if err != nil {
			errs = append(errs, fmt.Errorf("loader %d: %w", i, err))
			continue
		}
		if len(out) > 0 {
			return out, nil
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return nil, ErrEmpty
}

func sortByID[T any](s []T, id func(T) int) {
	sort.Slice(s, func(i, j int) bool { return id(s[i]) < id(s[j]) })
}
