// Package docstore holds keyed JSON documents grouped into named collections.
// Every write stamps the document with a store-assigned cached_at time.
//
// Backends:
//   - Postgres: one JSONB table, prepared statements, atomic increments
//   - Memory: mutex-guarded maps, used for local runs and tests
//   - Tiered: a freecache L1 in front of either backend
package docstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("docstore: document not found")

// Document is a stored JSON object. Body is always a JSON object.
type Document struct {
	Collection string
	Key        string
	Body       []byte
	CachedAt   time.Time
}

// Store is the document store contract shared by all backends.
type Store interface {
	// Get returns the document or ErrNotFound.
	Get(ctx context.Context, collection, key string) (*Document, error)
	// Put overwrites the document and returns the assigned cached_at.
	Put(ctx context.Context, collection, key string, body []byte) (time.Time, error)
	// Create inserts the document only if the key is free.
	Create(ctx context.Context, collection, key string, body []byte) (bool, error)
	// Update merges the top-level fields of patch into an existing document.
	Update(ctx context.Context, collection, key string, patch []byte) error
	// Increment atomically adds delta to a numeric field and returns the new value.
	Increment(ctx context.Context, collection, key, field string, delta int64) (int64, error)
	// List returns every document in a collection ordered by key.
	List(ctx context.Context, collection string) ([]Document, error)
	Delete(ctx context.Context, collection, key string) error
	Count(ctx context.Context, collection string) (int, error)
	Ping(ctx context.Context) error
}

// Age is the elapsed wall-clock time since the document was written.
func (d *Document) Age(now time.Time) time.Duration {
	return now.Sub(d.CachedAt)
}
