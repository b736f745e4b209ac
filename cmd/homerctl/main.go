// Command homerctl is the Homerlab operations CLI.
//
// Usage:
//
//	homerctl migrate
//	homerctl dataset summary
//	homerctl search "Aaron Judge"
//	homerctl favorites seed "Aaron Judge" "Shohei Ohtani" --workers 4 --refresh
//	homerctl favorites refresh
//	homerctl vote 592450
//	homerctl cache purge-failed
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/albapepper/homerlab/internal/app"
	"github.com/albapepper/homerlab/internal/config"
	"github.com/albapepper/homerlab/internal/db"
	"github.com/albapepper/homerlab/internal/maintenance"
	"github.com/albapepper/homerlab/internal/seed"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "homerctl",
		Short: "Homerlab operations CLI",
	}

	root.AddCommand(migrateCmd())
	root.AddCommand(datasetCmd())
	root.AddCommand(searchCmd())
	root.AddCommand(favoritesCmd())
	root.AddCommand(voteCmd())
	root.AddCommand(cacheCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// migrate command
// --------------------------------------------------------------------------

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the document store schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := db.Migrate(ctx, cfg.DatabaseURL); err != nil {
				return err
			}
			logger.Info("Schema applied")
			return nil
		},
	}
}

// --------------------------------------------------------------------------
// dataset command
// --------------------------------------------------------------------------

func datasetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Inspect the home-run datasets",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "summary",
		Short: "Load every source and print its row count",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, a *app.App) error {
				snap, err := a.Dataset.Load(ctx)
				if err != nil {
					return err
				}
				for _, src := range snap.Sources() {
					fmt.Fprintf(cmd.OutOrStdout(), "%-12s %6d  %s\n", src.Label, src.Rows, src.URL)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %6d\n", "total", snap.Len())
				return nil
			})
		},
	})
	return cmd
}

// --------------------------------------------------------------------------
// search command
// --------------------------------------------------------------------------

func searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <name>",
		Short: "Fuzzy-match a player name against the league list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, a *app.App) error {
				m, err := a.Resolver.SearchPlayers(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\tscore=%d\n", m.Person.ID, m.Person.FullName, m.Score)
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// favorites command
// --------------------------------------------------------------------------

func favoritesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "favorites",
		Short: "Manage the favorite players list",
	}
	cmd.AddCommand(favoritesSeedCmd())
	cmd.AddCommand(favoritesRefreshCmd())
	return cmd
}

func favoritesSeedCmd() *cobra.Command {
	var workers int
	var warm, refresh bool
	cmd := &cobra.Command{
		Use:   "seed <name>...",
		Short: "Add players to favorites by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, a *app.App) error {
				start := time.Now()
				var result seed.Result
				if refresh {
					result = seed.SyncFavorites(ctx, a.Resolver, args, workers, logger)
				} else {
					result = seed.SeedFavorites(ctx, a.Resolver, args, workers, logger)
				}
				logResult("Favorites seed finished", start, result)
				if warm {
					if _, err := maintenance.WarmFavorites(ctx, a.Resolver, logger); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&workers, "workers", 4, "Concurrent name lookups")
	cmd.Flags().BoolVar(&warm, "warm", false, "Resolve every favorite's profile after seeding")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Refresh every favorite after seeding")
	return cmd
}

func favoritesRefreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Re-fetch profile fields for every favorite, keeping votes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, a *app.App) error {
				start := time.Now()
				result := seed.RefreshFavorites(ctx, a.Resolver, logger)
				logResult("Favorites refresh finished", start, result)
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// vote command
// --------------------------------------------------------------------------

func voteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vote <player-id>",
		Short: "Add one vote to a favorite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, a *app.App) error {
				votes, err := a.Resolver.Vote(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\tvotes=%d\n", args[0], votes)
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// cache command
// --------------------------------------------------------------------------

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Document cache maintenance",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "purge-failed",
		Short: "Delete failed analysis placeholders past their retry window",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, a *app.App) error {
				n, err := a.Resolver.PurgeFailedAnalyses(ctx)
				if err != nil {
					return err
				}
				logger.Info("Purged failed analyses", "count", n)
				return nil
			})
		},
	})
	return cmd
}

// --------------------------------------------------------------------------
// helpers
// --------------------------------------------------------------------------

func run(fn func(ctx context.Context, a *app.App) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	a, err := app.New(ctx, cfg, app.Options{}, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(ctx, a)
}

func logResult(msg string, start time.Time, result seed.Result) {
	logger.Info(msg, "duration", time.Since(start).Round(time.Millisecond), "summary", result.Summary())
	for _, e := range result.Errors {
		logger.Error("seed error", "error", e)
	}
}
