// Package maintenance runs periodic background tasks as Go tickers: purging
// failed analysis placeholders, reloading the home-run datasets and
// publishing document store gauges.
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/albapepper/homerlab/internal/config"
	"github.com/albapepper/homerlab/internal/docstore"
	"github.com/albapepper/homerlab/internal/metrics"
	"github.com/albapepper/homerlab/internal/resolver"
)

// Collections are the document collections reported by the gauge task.
var Collections = []string{
	config.PlayerCacheCollection,
	config.RosterCacheCollection,
	config.VideoCacheCollection,
	config.AnalysisCacheCollection,
	config.PlayerStatsCollection,
	config.FavoritesCollection,
}

// Config controls maintenance task intervals. Zero duration disables a task.
type Config struct {
	PurgeInterval  time.Duration // Failed analysis placeholders past their retry window
	ReloadInterval time.Duration // Home-run dataset refresh
	GaugeInterval  time.Duration // Document counts and dataset rows
}

// DefaultConfig returns sensible production defaults.
func DefaultConfig() Config {
	return Config{
		PurgeInterval:  30 * time.Minute,
		ReloadInterval: 6 * time.Hour,
		GaugeInterval:  1 * time.Minute,
	}
}

// Purger removes stale failure records. *resolver.Resolver implements it.
type Purger interface {
	PurgeFailedAnalyses(ctx context.Context) (int, error)
}

// Deps are the components the tasks operate on.
type Deps struct {
	Purger  Purger
	Store   docstore.Store
	Dataset resolver.Dataset
	Metrics metrics.Recorder
}

// Start launches all configured maintenance tickers. Gauges are published
// once immediately. Blocks until ctx is cancelled. Intended to be called
// with `go`.
func Start(ctx context.Context, d Deps, cfg Config, logger *slog.Logger) {
	logger = logger.With("component", "maintenance")
	if d.Metrics == nil {
		d.Metrics = metrics.Noop{}
	}
	logger.Info("Maintenance tickers started",
		"purge", cfg.PurgeInterval,
		"reload", cfg.ReloadInterval,
		"gauges", cfg.GaugeInterval)

	tickers := make([]*time.Ticker, 0, 3)
	defer func() {
		for _, t := range tickers {
			t.Stop()
		}
	}()

	if cfg.PurgeInterval > 0 {
		t := time.NewTicker(cfg.PurgeInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() { PurgeFailed(ctx, d.Purger, logger) })
	}

	if cfg.ReloadInterval > 0 {
		t := time.NewTicker(cfg.ReloadInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() { ReloadDataset(ctx, d.Dataset, d.Metrics, logger) })
	}

	if cfg.GaugeInterval > 0 {
		PublishGauges(ctx, d.Store, d.Dataset, d.Metrics, logger)
		t := time.NewTicker(cfg.GaugeInterval)
		tickers = append(tickers, t)
		go runLoop(ctx, t.C, func() { PublishGauges(ctx, d.Store, d.Dataset, d.Metrics, logger) })
	}

	<-ctx.Done()
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

// --------------------------------------------------------------------------
// Task implementations
// --------------------------------------------------------------------------

// PurgeFailed deletes failed analysis placeholders past their retry window.
func PurgeFailed(ctx context.Context, p Purger, logger *slog.Logger) {
	n, err := p.PurgeFailedAnalyses(ctx)
	if err != nil {
		logger.Warn("Purge: failed to delete failed analyses", "purged", n, "error", err)
		return
	}
	if n > 0 {
		logger.Info("Purge: deleted failed analyses", "count", n)
	}
}

// ReloadDataset refetches every home-run source. A failed reload keeps the
// current snapshot.
func ReloadDataset(ctx context.Context, data resolver.Dataset, rec metrics.Recorder, logger *slog.Logger) {
	snap, err := data.Reload(ctx)
	if err != nil {
		logger.Warn("Dataset reload failed, keeping current snapshot", "error", err)
		return
	}
	rec.DatasetRows(snap.Len())
	logger.Info("Dataset reloaded", "rows", snap.Len())
}

// PublishGauges sets the per-collection document counts and the dataset
// row count.
func PublishGauges(ctx context.Context, store docstore.Store, data resolver.Dataset, rec metrics.Recorder, logger *slog.Logger) {
	for _, coll := range Collections {
		n, err := store.Count(ctx, coll)
		if err != nil {
			logger.Warn("Gauges: failed to count documents", "collection", coll, "error", err)
			continue
		}
		rec.SetDocuments(coll, n)
	}
	rec.DatasetRows(data.Snapshot().Len())
}
