// Package listener provides a Postgres LISTEN/NOTIFY consumer for catalog
// change events. It holds a dedicated pgx connection (not from the pool)
// listening on the `catalog_updated` channel.
//
// The seed command fires pg_notify after upserting heroes and items, and the
// API reloads its in-memory catalog without waiting for the next refresh tick.
package listener

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/jackc/pgx/v5"
)

const (
	// Channel is the NOTIFY channel catalog writers publish to.
	Channel = "catalog_updated"

	reconnectBackoff = 5 * time.Second
	maxReconnect     = 30 * time.Second
)

// CatalogEvent is the JSON payload from pg_notify('catalog_updated', ...).
type CatalogEvent struct {
	Heroes    int   `json:"heroes"`
	Items     int   `json:"items"`
	Timestamp int64 `json:"ts"`
}

// Handler processes one event. It runs on its own goroutine.
type Handler func(ctx context.Context, event CatalogEvent)

// ParseEvent decodes a notification payload. An empty payload is a valid
// event with no counts.
func ParseEvent(payload string) (CatalogEvent, error) {
	var event CatalogEvent
	if payload == "" {
		return event, nil
	}
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return event, fmt.Errorf("parse catalog event: %w", err)
	}
	return event, nil
}

// Start opens a dedicated connection and listens on the catalog_updated
// channel. It reconnects automatically on connection loss. Blocks until ctx
// is cancelled. Intended to be called with `go`.
func Start(ctx context.Context, dbURL string, handle Handler, logger *slog.Logger) {
	backoff := reconnectBackoff

	for {
		err := listenLoop(ctx, dbURL, handle, logger)
		if ctx.Err() != nil {
			logger.Info("Catalog listener stopped (context cancelled)")
			return
		}

		logger.Error("Catalog listener disconnected, reconnecting...",
			"error", err, "backoff", backoff)

		select {
		case <-time.After(backoff):
			backoff = min(backoff*2, maxReconnect)
		case <-ctx.Done():
			return
		}
	}
}

// listenLoop runs a single listen session. Returns when the connection drops
// or the context is cancelled.
func listenLoop(ctx context.Context, dbURL string, handle Handler, logger *slog.Logger) error {
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+Channel); err != nil {
		return fmt.Errorf("LISTEN %s: %w", Channel, err)
	}
	logger.Info("Catalog listener connected", "channel", Channel)

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return fmt.Errorf("wait for notification: %w", err)
		}

		event, err := ParseEvent(notification.Payload)
		if err != nil {
			logger.Warn("Failed to parse catalog event",
				"payload", notification.Payload, "error", err)
			continue
		}

		logger.Info("Catalog event received", "heroes", event.Heroes, "items", event.Items)

		// Process asynchronously to avoid blocking the listener
		go handle(ctx, event)
	}
}
