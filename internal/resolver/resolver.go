// Package resolver implements the cache-aside lookups behind every API route.
//
// Each entity kind lives in its own document store collection with a fixed
// staleness threshold:
//
//	player_cache      24h
//	roster_cache      12h
//	player_stats       6h
//	video_cache       valid while the stored title matches the current row
//	analysis_cache    same, and failure placeholders expire after 15m
//	favorite_players  never expires
//
// A lookup reads the store, returns the record when fresh, and otherwise
// fetches from the source and writes the result back. The only cached
// negative result is a roster scan that checked every team; write-back is
// best effort, and a store read failure counts as a miss. There is no per-key locking: concurrent misses both fetch and
// the last write wins.
package resolver

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/albapepper/homerlab/internal/docstore"
	"github.com/albapepper/homerlab/internal/metrics"
)

// Staleness thresholds per collection.
const (
	PlayerTTL         = 24 * time.Hour
	RosterTTL         = 12 * time.Hour
	StatsTTL          = 6 * time.Hour
	FailedAnalysisTTL = 15 * time.Minute
)

// ReloadCooldown is the minimum gap between dataset reloads triggered by
// out-of-range video indices.
const ReloadCooldown = time.Minute

// Options tunes a Resolver.
type Options struct {
	// CurrentSeason scopes roster lookups.
	CurrentSeason int
	// Now replaces time.Now for staleness checks. Tests only.
	Now func() time.Time
}

// Resolver is safe for concurrent use.
type Resolver struct {
	store   docstore.Store
	stats   StatsSource
	ai      Generator
	data    Dataset
	metrics metrics.Recorder
	logger  *slog.Logger
	season  int
	now     func() time.Time

	reloadMu   sync.Mutex
	lastReload time.Time
}

// New wires a Resolver. A nil recorder disables metrics.
func New(store docstore.Store, stats StatsSource, ai Generator, data Dataset,
	rec metrics.Recorder, logger *slog.Logger, opts Options) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	if rec == nil {
		rec = metrics.Noop{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.CurrentSeason == 0 {
		opts.CurrentSeason = time.Now().Year()
	}
	return &Resolver{
		store:   store,
		stats:   stats,
		ai:      ai,
		data:    data,
		metrics: rec,
		logger:  logger.With("component", "resolver"),
		season:  opts.CurrentSeason,
		now:     opts.Now,
	}
}

// ---------------------------------------------------------------------------
// Cache-aside core
// ---------------------------------------------------------------------------

// freshFunc decides whether a cached value may be served given its age.
type freshFunc[T any] func(v *T, age time.Duration) bool

func within[T any](ttl time.Duration) freshFunc[T] {
	return func(_ *T, age time.Duration) bool { return age < ttl }
}

// resolve returns the cached value when fresh, otherwise fetches it and
// writes it back. Fetch errors propagate unchanged and are never cached.
func resolve[T any](ctx context.Context, r *Resolver, collection, key string,
	fresh freshFunc[T], fetch func(context.Context) (*T, error)) (*T, error) {
	if v, ok := lookup(ctx, r, collection, key, fresh); ok {
		return v, nil
	}

	v, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	r.writeBack(ctx, collection, key, v)
	return v, nil
}

func lookup[T any](ctx context.Context, r *Resolver, collection, key string, fresh freshFunc[T]) (*T, bool) {
	doc, err := r.store.Get(ctx, collection, key)
	if err != nil {
		if !errors.Is(err, docstore.ErrNotFound) {
			r.logger.Warn("Cache read failed, treating as miss",
				"collection", collection, "key", key, "error", err)
		}
		r.metrics.CacheMiss(collection)
		return nil, false
	}

	var v T
	if err := json.Unmarshal(doc.Body, &v); err != nil {
		r.logger.Warn("Cached document undecodable, treating as miss",
			"collection", collection, "key", key, "error", err)
		r.metrics.CacheMiss(collection)
		return nil, false
	}
	if !fresh(&v, doc.Age(r.now())) {
		r.metrics.CacheMiss(collection)
		return nil, false
	}
	r.metrics.CacheHit(collection)
	return &v, true
}

// writeBack stores v, logging and counting a failure without returning it.
func (r *Resolver) writeBack(ctx context.Context, collection, key string, v any) {
	body, err := json.Marshal(v)
	if err == nil {
		_, err = r.store.Put(ctx, collection, key, body)
	}
	if err != nil {
		werr := &CacheWriteError{Collection: collection, Key: key, Err: err}
		r.logger.Warn("Cache write failed", "collection", collection, "key", key, "error", werr)
		r.metrics.CacheWriteFailure(collection)
	}
}

// invalidate deletes a cached document so the next lookup refetches it. A
// failure is logged; the stale entry then expires by TTL.
func (r *Resolver) invalidate(ctx context.Context, collection, key string) {
	if err := r.store.Delete(ctx, collection, key); err != nil {
		r.logger.Warn("Cache delete failed", "collection", collection, "key", key, "error", err)
	}
}

// observe times an upstream call and reports its outcome.
func observe[T any](r *Resolver, service, operation string, fn func() (T, error)) (T, error) {
	start := time.Now()
	v, err := fn()
	r.metrics.ObserveUpstream(service, operation, err, time.Since(start))
	return v, err
}
