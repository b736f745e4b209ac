// Package handler provides HTTP handlers for all API endpoints.
// Handlers call the resolver and render its records as JSON; the favorites
// leaderboard and player profiles also go through the response cache.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/albapepper/homerlab/internal/api/respond"
	"github.com/albapepper/homerlab/internal/cache"
	"github.com/albapepper/homerlab/internal/config"
	"github.com/albapepper/homerlab/internal/docstore"
	"github.com/albapepper/homerlab/internal/resolver"
)

// statsReporter is implemented by stores that expose L1 statistics.
type statsReporter interface {
	Stats() map[string]interface{}
}

// statusReporter is implemented by the AI client.
type statusReporter interface {
	Status() map[string]interface{}
}

// breakerReporter is implemented by the MLB Stats client.
type breakerReporter interface {
	BreakerState() string
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	resolver *resolver.Resolver
	store    docstore.Store
	data     resolver.Dataset
	ai       statusReporter
	mlb      breakerReporter
	cache    *cache.Cache
	cfg      *config.Config
	logger   *slog.Logger
}

// Deps are the collaborators a Handler needs. AI and MLB may be nil.
type Deps struct {
	Resolver *resolver.Resolver
	Store    docstore.Store
	Dataset  resolver.Dataset
	AI       statusReporter
	MLB      breakerReporter
	Cache    *cache.Cache
	Config   *config.Config
	Logger   *slog.Logger
}

// New creates a Handler with shared dependencies.
func New(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		resolver: d.Resolver,
		store:    d.Store,
		data:     d.Dataset,
		ai:       d.AI,
		mlb:      d.MLB,
		cache:    d.Cache,
		cfg:      d.Config,
		logger:   logger.With("component", "api"),
	}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, status, and the upstream services in use.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "Homerlab API",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs",
		"season":  h.cfg.CurrentSeason,
		"sources": []string{
			"mlb_stats_api",
			"gemini",
			"homerun_datasets",
		},
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies document store connectivity.
// @Summary Document store health check
// @Description Pings the document store backend.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("Store health check failed", "error", err)
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"backend":   h.cfg.StoreBackend,
			"error":     "Document store check failed",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"backend":   h.cfg.StoreBackend,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns response cache and L1 document cache statistics.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	body := map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if sr, ok := h.store.(statsReporter); ok {
		body["l1"] = sr.Stats()
	}
	if h.ai != nil {
		body["gemini"] = h.ai.Status()
	}
	if h.mlb != nil {
		body["mlb"] = map[string]interface{}{"circuit": h.mlb.BreakerState()}
	}
	respond.WriteJSONObject(w, http.StatusOK, body)
}

// HealthCheckDataset reports the loaded home-run snapshot.
// @Summary Dataset health check
// @Description Returns per-source row counts of the current home-run snapshot. 503 while empty.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/dataset [get]
func (h *Handler) HealthCheckDataset(w http.ResponseWriter, r *http.Request) {
	snap := h.data.Snapshot()
	status, code := "healthy", http.StatusOK
	if snap.Len() == 0 {
		status, code = "empty", http.StatusServiceUnavailable
	}
	body := map[string]interface{}{
		"status":    status,
		"rows":      snap.Len(),
		"sources":   snap.Sources(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if !snap.LoadedAt().IsZero() {
		body["loaded_at"] = snap.LoadedAt().UTC().Format(time.RFC3339)
	}
	respond.WriteJSONObject(w, code, body)
}

// cached serves key from the response cache, honoring If-None-Match, and on
// a miss renders produce's value and stores it for ttl. Errors are never
// cached.
func (h *Handler) cached(w http.ResponseWriter, r *http.Request, key string, ttl time.Duration, produce func() (any, error)) {
	if data, etag, ok := h.cache.Get(key); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	v, err := produce()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	etag := h.cache.Set(key, data, ttl)
	if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
		respond.WriteNotModified(w, etag)
		return
	}
	respond.WriteJSON(w, data, etag, ttl, false)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Warn("Request failed", "path", r.URL.Path, "error", err)
	respond.WriteResolverError(w, err)
}
