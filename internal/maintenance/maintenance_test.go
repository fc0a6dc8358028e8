package maintenance

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albapepper/dotalens/internal/catalog"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestStartRunsEnabledTasksUntilCancelled(t *testing.T) {
	var ticks, disabled atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		Start(ctx, []Task{
			{Name: "tick", Interval: 5 * time.Millisecond, Run: func(context.Context) error {
				ticks.Add(1)
				return errors.New("failures are logged, not fatal")
			}},
			{Name: "off", Interval: 0, Run: func(context.Context) error {
				disabled.Add(1)
				return nil
			}},
		}, quiet)
		close(done)
	}()

	require.Eventually(t, func() bool { return ticks.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start did not return after cancel")
	}
	assert.Zero(t, disabled.Load())
}

type refresher struct{ calls int }

func (r *refresher) Refresh(context.Context) error {
	r.calls++
	return nil
}

func TestCatalogRefresh(t *testing.T) {
	r := &refresher{}
	task := CatalogRefresh(r, time.Hour)

	assert.Equal(t, "catalog_refresh", task.Name)
	require.NoError(t, task.Run(context.Background()))
	assert.Equal(t, 1, r.calls)
}

type fakeExec struct {
	rows int
	err  error
}

func (f *fakeExec) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	f.rows++
	return pgconn.NewCommandTag("INSERT 0 1"), f.err
}

type fakeLoader struct{}

func (fakeLoader) LoadHeroes(context.Context) ([]catalog.Hero, error) {
	return []catalog.Hero{{ID: 1, Name: "npc_dota_hero_antimage", LocalizedName: "Anti-Mage"}}, nil
}

func (fakeLoader) LoadItems(context.Context) ([]catalog.Item, error) {
	return []catalog.Item{{ID: 1, Key: "blink", DisplayName: "Blink Dagger", Cost: 2250}}, nil
}

func TestCatalogReseed(t *testing.T) {
	ex := &fakeExec{}
	require.NoError(t, CatalogReseed(ex, fakeLoader{}, time.Hour, quiet).Run(context.Background()))
	assert.Equal(t, 3, ex.rows, "two upserts and one notify")

	failing := &fakeExec{err: errors.New("connection reset")}
	err := CatalogReseed(failing, fakeLoader{}, time.Hour, quiet).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 errors")
}
