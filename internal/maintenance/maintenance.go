// Package maintenance runs periodic background tasks as Go tickers.
package maintenance

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Task is one periodic job. A non-positive Interval disables it.
type Task struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context) error
}

// Start launches a ticker per enabled task. Blocks until ctx is cancelled
// and every running task has returned. Intended to be called with `go`.
func Start(ctx context.Context, tasks []Task, logger *slog.Logger) {
	var wg sync.WaitGroup
	for _, task := range tasks {
		if task.Interval <= 0 {
			logger.Info("Maintenance task disabled", "task", task.Name)
			continue
		}
		t := time.NewTicker(task.Interval)
		wg.Add(1)
		go func(task Task) {
			defer wg.Done()
			defer t.Stop()
			runLoop(ctx, t.C, func() { run(ctx, task, logger) })
		}(task)
		logger.Info("Maintenance task scheduled", "task", task.Name, "interval", task.Interval)
	}

	<-ctx.Done()
	wg.Wait()
	logger.Info("Maintenance tickers stopped")
}

func runLoop(ctx context.Context, ch <-chan time.Time, fn func()) {
	for {
		select {
		case <-ch:
			fn()
		case <-ctx.Done():
			return
		}
	}
}

func run(ctx context.Context, task Task, logger *slog.Logger) {
	start := time.Now()
	err := task.Run(ctx)
	dur := time.Since(start).Round(time.Millisecond)
	if err != nil {
		logger.Warn("Maintenance task failed", "task", task.Name, "duration", dur, "error", err)
		return
	}
	logger.Debug("Maintenance task finished", "task", task.Name, "duration", dur)
}
