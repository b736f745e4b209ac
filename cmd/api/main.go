// Command api is the Homerlab API server.
//
// Usage:
//
//	homerlab-api
//	API_PORT=8080 STORE_BACKEND=memory homerlab-api

// @title Homerlab API
// @version 1.0.0
// @description MLB home-run highlight backend: favorite players with votes, player search and profiles, career stats, home-run videos and AI analysis. Upstream lookups are cached in a document store.
// @host localhost:8000
// @BasePath /api/v1
// @schemes http https
// @contact.name Homerlab
// @license.name MIT
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/albapepper/homerlab/internal/api"
	"github.com/albapepper/homerlab/internal/api/handler"
	"github.com/albapepper/homerlab/internal/app"
	"github.com/albapepper/homerlab/internal/cache"
	"github.com/albapepper/homerlab/internal/config"
	"github.com/albapepper/homerlab/internal/listener"
	"github.com/albapepper/homerlab/internal/maintenance"

	_ "github.com/albapepper/homerlab/docs" // swagger docs
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	a, err := app.New(ctx, cfg, app.Options{LoadDataset: true, Metrics: cfg.MetricsEnabled}, logger)
	if err != nil {
		logger.Error("Failed to initialize", "error", err)
		os.Exit(1)
	}
	defer a.Close()
	logger.Info("Dataset loaded", "rows", a.Dataset.Snapshot().Len())

	// Initialize response cache
	appCache := cache.New(cfg.ResponseCacheEnabled)
	defer appCache.Close()
	logger.Info("Response cache initialized", "enabled", cfg.ResponseCacheEnabled)

	// Cross-instance invalidation needs LISTEN/NOTIFY, so only Postgres gets it.
	if a.Pool != nil {
		go listener.Start(ctx, cfg.DatabaseURL, appCache, logger)
	}

	// Start maintenance tickers (purge, dataset reload, gauges)
	go maintenance.Start(ctx, maintenance.Deps{
		Purger:  a.Resolver,
		Store:   a.Store,
		Dataset: a.Dataset,
		Metrics: a.Metrics,
	}, maintenance.DefaultConfig(), logger)

	go func() {
		if _, err := maintenance.WarmFavorites(ctx, a.Resolver, logger); err != nil {
			logger.Warn("Favorite warm-up failed", "error", err)
		}
	}()

	h := handler.New(handler.Deps{
		Resolver: a.Resolver,
		Store:    a.Store,
		Dataset:  a.Dataset,
		AI:       a.Gemini,
		MLB:      a.MLB,
		Cache:    appCache,
		Config:   cfg,
		Logger:   logger,
	})

	// Create router
	router := api.NewRouter(h, a.Metrics, cfg)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second, // analysis generation can be slow
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting Homerlab API",
			"addr", addr,
			"environment", cfg.Environment,
			"store", cfg.StoreBackend,
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
