// Package db provides a pgxpool-based connection pool with prepared statement
// registration and health checking, plus the hero/item catalog store.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/albapepper/dotalens/internal/config"
)

// Schema creates the catalog tables. Every statement is idempotent.
const Schema = `
CREATE TABLE IF NOT EXISTS ` + config.HeroesTable + ` (
	id             INTEGER PRIMARY KEY,
	name           TEXT NOT NULL,
	localized_name TEXT NOT NULL,
	primary_attr   TEXT NOT NULL DEFAULT '',
	roles          TEXT[] NOT NULL DEFAULT '{}',
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS ` + config.ItemsTable + ` (
	id           INTEGER PRIMARY KEY,
	key          TEXT NOT NULL,
	display_name TEXT NOT NULL,
	cost         INTEGER NOT NULL DEFAULT 0,
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS items_key_idx ON ` + config.ItemsTable + ` (key);
`

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New applies the schema and creates a validated connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	if err := EnsureSchema(ctx, cfg.DatabaseURL); err != nil {
		return nil, err
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// EnsureSchema creates the catalog tables over a single short-lived
// connection. It must run before any pooled connection prepares statements
// against those tables.
func EnsureSchema(ctx context.Context, databaseURL string) error {
	conn, err := pgx.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("connect for schema: %w", err)
	}
	defer conn.Close(ctx)

	if _, err := conn.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// Statement names shared with the seed package.
const (
	StmtUpsertHero = "upsert_hero"
	StmtUpsertItem = "upsert_item"
)

// registerPreparedStatements registers all statements the API and ingestion
// layers use.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// API: catalog
		"catalog_heroes": "SELECT id, name, localized_name, primary_attr, roles FROM " + config.HeroesTable + " ORDER BY id",
		"catalog_items":  "SELECT id, key, display_name, cost FROM " + config.ItemsTable + " ORDER BY id",
		"catalog_counts": "SELECT (SELECT count(*) FROM " + config.HeroesTable + "), (SELECT count(*) FROM " + config.ItemsTable + ")",

		// Ingestion: catalog upserts
		StmtUpsertHero: `INSERT INTO ` + config.HeroesTable + ` (id, name, localized_name, primary_attr, roles)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				localized_name = EXCLUDED.localized_name,
				primary_attr = EXCLUDED.primary_attr,
				roles = EXCLUDED.roles,
				updated_at = NOW()`,
		StmtUpsertItem: `INSERT INTO ` + config.ItemsTable + ` (id, key, display_name, cost)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE SET
				key = EXCLUDED.key,
				display_name = EXCLUDED.display_name,
				cost = EXCLUDED.cost,
				updated_at = NOW()`,
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
