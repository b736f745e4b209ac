// Package app wires the document store, upstream clients, dataset and
// resolver from configuration. Both binaries build on it.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/albapepper/homerlab/internal/config"
	"github.com/albapepper/homerlab/internal/dataset"
	"github.com/albapepper/homerlab/internal/db"
	"github.com/albapepper/homerlab/internal/docstore"
	"github.com/albapepper/homerlab/internal/external"
	"github.com/albapepper/homerlab/internal/metrics"
	"github.com/albapepper/homerlab/internal/provider/mlb"
	"github.com/albapepper/homerlab/internal/resolver"
)

// App holds the wired components.
type App struct {
	Config   *config.Config
	Pool     *db.Pool // nil with the memory backend
	Store    docstore.Store
	MLB      *mlb.Client
	Gemini   *external.GeminiService
	Dataset  *dataset.Provider
	Metrics  metrics.Recorder
	Resolver *resolver.Resolver
}

// Options select optional parts of the wiring.
type Options struct {
	// LoadDataset fetches the home-run sources before returning. A failed
	// load is logged and leaves an empty snapshot; Video lookups retry it.
	LoadDataset bool
	// Metrics enables the Prometheus recorder.
	Metrics bool
}

// New connects the document store and builds every client.
func New(ctx context.Context, cfg *config.Config, opts Options, logger *slog.Logger) (*App, error) {
	a := &App{Config: cfg, Metrics: metrics.New(opts.Metrics)}

	switch cfg.StoreBackend {
	case "memory":
		a.Store = docstore.NewMemory()
		logger.Info("Using in-memory document store")
	default:
		logger.Info("Connecting to database...")
		pool, err := db.New(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		a.Pool = pool
		a.Store = docstore.NewPostgres(pool)
		logger.Info("Database connected",
			"min_conns", cfg.DBPoolMinConns,
			"max_conns", cfg.DBPoolMaxConns)
	}
	if cfg.L1CacheMB > 0 {
		a.Store = docstore.NewTiered(a.Store, cfg.L1CacheMB, cfg.L1CacheTTL,
			config.PlayerCacheCollection,
			config.RosterCacheCollection,
			config.VideoCacheCollection,
			config.AnalysisCacheCollection,
			config.PlayerStatsCollection,
		)
		logger.Info("L1 document cache enabled", "size_mb", cfg.L1CacheMB, "ttl", cfg.L1CacheTTL)
	}

	a.MLB = mlb.NewClient(mlb.Config{
		BaseURL:           cfg.MLBBaseURL,
		Timeout:           cfg.MLBTimeout,
		RequestsPerMinute: cfg.MLBRPM,
	}, logger)

	gemini, err := external.NewGeminiService(ctx, external.GeminiConfig{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		Timeout: cfg.GeminiTimeout,
	}, logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	a.Gemini = gemini

	a.Dataset = dataset.New(cfg.DatasetSources, cfg.DatasetTimeout, logger)
	if opts.LoadDataset {
		if snap, err := a.Dataset.Load(ctx); err != nil {
			logger.Warn("Initial dataset load failed, starting empty", "error", err)
		} else {
			a.Metrics.DatasetRows(snap.Len())
		}
	}

	a.Resolver = resolver.New(a.Store, a.MLB, a.Gemini, a.Dataset, a.Metrics, logger,
		resolver.Options{CurrentSeason: cfg.CurrentSeason})
	return a, nil
}

// Close releases the database pool.
func (a *App) Close() {
	if a.Pool != nil {
		a.Pool.Close()
	}
}
