// Command ingest is the Dotalens catalog seeding and reporting CLI.
//
// Usage:
//
//	dotalens-ingest seed heroes
//	dotalens-ingest seed all
//	dotalens-ingest report --account 86745912 --role mid --limit 30
//	dotalens-ingest report items --account 86745912 --match 7890123456
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/goccy/go-json"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/albapepper/dotalens/internal/catalog"
	"github.com/albapepper/dotalens/internal/config"
	"github.com/albapepper/dotalens/internal/db"
	"github.com/albapepper/dotalens/internal/engine"
	"github.com/albapepper/dotalens/internal/provider/opendota"
	"github.com/albapepper/dotalens/internal/report"
	"github.com/albapepper/dotalens/internal/seed"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "dotalens-ingest",
		Short: "Dotalens catalog seeding and reporting CLI",
	}

	root.AddCommand(seedCmd())
	root.AddCommand(reportCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// seed command
// --------------------------------------------------------------------------

type seedFunc func(ctx context.Context, ex seed.Execer, source catalog.Loader, logger *slog.Logger) seed.SeedResult

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the hero and item catalogs from OpenDota",
	}
	cmd.AddCommand(seedTargetCmd("heroes", "Seed heroes", seed.SeedHeroes))
	cmd.AddCommand(seedTargetCmd("items", "Seed items", seed.SeedItems))
	cmd.AddCommand(seedTargetCmd("all", "Seed heroes and items", seed.SeedAll))
	return cmd
}

func seedTargetCmd(use, short string, fn seedFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				source := catalog.UpstreamLoader{Source: newClient(cfg)}
				start := time.Now()
				result := fn(ctx, pool.Pool, source, logger)
				logger.Info("Seed finished",
					"target", use,
					"duration", time.Since(start).Round(time.Millisecond),
					"summary", result.Summary())
				for _, e := range result.Errors {
					logger.Error("seed error", "error", e)
				}
				if result.HeroesUpserted+result.ItemsUpserted > 0 {
					if err := seed.NotifyCatalogUpdated(ctx, pool.Pool, result); err != nil {
						logger.Warn("Catalog notify failed", "error", err)
					}
				}

				heroes, items, err := db.NewCatalogStore(pool).Counts(ctx)
				if err != nil {
					return fmt.Errorf("count catalog rows: %w", err)
				}
				logger.Info("Catalog rows", "heroes", heroes, "items", items)
				if result.Failed() {
					return fmt.Errorf("seed %s: %d errors", use, len(result.Errors))
				}
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// report command
// --------------------------------------------------------------------------

func reportCmd() *cobra.Command {
	var (
		accountID int64
		role      string
		limit     int
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a player overview",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(func(ctx context.Context, svc *engine.Service) error {
				o, err := svc.Overview(ctx, accountID, role, limit)
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, o)
				}
				report.PrintOverview(cmd.OutOrStdout(), o)
				return nil
			})
		},
	}
	cmd.PersistentFlags().Int64Var(&accountID, "account", 0, "Player account ID")
	cmd.PersistentFlags().BoolVar(&asJSON, "json", false, "Print JSON instead of tables")
	cmd.Flags().StringVar(&role, "role", "", "Role (carry, mid, offlane, support); empty = infer")
	cmd.Flags().IntVar(&limit, "limit", 0, "Matches to analyse; 0 = DEFAULT_MATCH_LIMIT")
	_ = cmd.MarkPersistentFlagRequired("account")

	cmd.AddCommand(reportItemsCmd(&accountID, &asJSON))
	cmd.AddCommand(reportPhasesCmd(&accountID, &asJSON))
	return cmd
}

func reportItemsCmd(accountID *int64, asJSON *bool) *cobra.Command {
	var (
		matchID int64
		slot    int
	)
	cmd := &cobra.Command{
		Use:   "items",
		Short: "Print item purchase timings for one match",
		RunE: func(cmd *cobra.Command, args []string) error {
			if matchID <= 0 {
				return fmt.Errorf("--match is required")
			}
			var slotPtr *int
			if cmd.Flags().Changed("slot") {
				slotPtr = &slot
			}
			return runReport(func(ctx context.Context, svc *engine.Service) error {
				r, err := svc.ItemTimings(ctx, *accountID, matchID, slotPtr)
				if err != nil {
					return err
				}
				if *asJSON {
					return writeJSON(cmd, r)
				}
				report.PrintItemTimings(cmd.OutOrStdout(), r)
				return nil
			})
		},
	}
	cmd.Flags().Int64Var(&matchID, "match", 0, "Match ID")
	cmd.Flags().IntVar(&slot, "slot", 0, "Player slot, for hidden accounts")
	return cmd
}

func reportPhasesCmd(accountID *int64, asJSON *bool) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "phases",
		Short: "Print the phase breakdown of recent matches",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(func(ctx context.Context, svc *engine.Service) error {
				r, err := svc.Phases(ctx, *accountID, limit)
				if err != nil {
					return err
				}
				if *asJSON {
					return writeJSON(cmd, r)
				}
				out := cmd.OutOrStdout()
				report.PrintPhases(out, r.Matches)
				fmt.Fprintln(out)
				report.PrintPhaseAverage(out, r.Average)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Matches to analyse; 0 = DEFAULT_MATCH_LIMIT")
	return cmd
}

func writeJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

func newClient(cfg *config.Config) *opendota.Client {
	return opendota.NewClient(opendota.Options{
		BaseURL:             cfg.OpenDotaBaseURL,
		APIKey:              cfg.OpenDotaAPIKey,
		RequestsPerMinute:   cfg.OpenDotaRequestsPerMinute,
		Timeout:             cfg.UpstreamTimeout,
		BreakerFailureRatio: cfg.BreakerFailureRatio,
		BreakerOpenTimeout:  cfg.BreakerOpenTimeout,
	}, logger)
}

// runSeed handles config loading, DB connection, and context cancellation.
func runSeed(fn func(ctx context.Context, cfg *config.Config, pool *db.Pool) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if !cfg.HasDatabase() {
		return fmt.Errorf("DATABASE_URL is required")
	}

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	return fn(ctx, cfg, pool)
}

// runReport builds an analysis service without the HTTP layer. The catalog
// prefers the seeded database when DATABASE_URL is set.
func runReport(fn func(ctx context.Context, svc *engine.Service) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	client := newClient(cfg)
	var loaders catalog.ChainLoader
	if cfg.HasDatabase() {
		pool, err := db.New(ctx, cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer pool.Close()
		loaders = append(loaders, db.NewCatalogStore(pool))
	}
	loaders = append(loaders, catalog.UpstreamLoader{Source: client})

	svc := engine.New(client, catalog.New(loaders, cfg.CacheTTLCatalog, logger), engine.Options{
		DefaultLimit:   cfg.DefaultMatchLimit,
		MaxLimit:       cfg.MaxMatchLimit,
		Windows:        cfg.RollingWindows,
		MaxConcurrency: cfg.EnrichMaxConcurrency,
		FetchTimeout:   cfg.UpstreamTimeout,
	}, logger)
	return fn(ctx, svc)
}
