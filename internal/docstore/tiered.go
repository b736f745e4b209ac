package docstore

import (
	"context"
	"time"

	"github.com/coocood/freecache"
	"github.com/goccy/go-json"
)

// Tiered puts a freecache L1 in front of a backing Store for the cache
// collections. Collections not listed in cached (favorites, whose votes
// change under other writers) always go to the backing store.
type Tiered struct {
	next   Store
	l1     *freecache.Cache
	ttl    int
	cached map[string]bool
}

type l1Entry struct {
	Body     json.RawMessage `json:"b"`
	CachedAt time.Time       `json:"t"`
}

// NewTiered wraps next with an L1 of sizeMB megabytes. Entries live for ttl
// in L1 regardless of the collection's staleness threshold, which is still
// judged from CachedAt by the caller.
func NewTiered(next Store, sizeMB int, ttl time.Duration, collections ...string) *Tiered {
	cached := make(map[string]bool, len(collections))
	for _, c := range collections {
		cached[c] = true
	}
	return &Tiered{
		next:   next,
		l1:     freecache.NewCache(max(sizeMB, 1) * 1024 * 1024),
		ttl:    max(int(ttl.Seconds()), 1),
		cached: cached,
	}
}

func l1Key(collection, key string) []byte {
	return []byte(collection + "/" + key)
}

func (t *Tiered) Get(ctx context.Context, collection, key string) (*Document, error) {
	if !t.cached[collection] {
		return t.next.Get(ctx, collection, key)
	}
	if raw, err := t.l1.Get(l1Key(collection, key)); err == nil {
		var e l1Entry
		if json.Unmarshal(raw, &e) == nil {
			return &Document{Collection: collection, Key: key, Body: e.Body, CachedAt: e.CachedAt}, nil
		}
	}
	d, err := t.next.Get(ctx, collection, key)
	if err != nil {
		return nil, err
	}
	t.remember(collection, key, d.Body, d.CachedAt)
	return d, nil
}

func (t *Tiered) Put(ctx context.Context, collection, key string, body []byte) (time.Time, error) {
	at, err := t.next.Put(ctx, collection, key, body)
	if err != nil {
		t.forget(collection, key)
		return at, err
	}
	if t.cached[collection] {
		t.remember(collection, key, body, at)
	}
	return at, nil
}

func (t *Tiered) Create(ctx context.Context, collection, key string, body []byte) (bool, error) {
	t.forget(collection, key)
	return t.next.Create(ctx, collection, key, body)
}

func (t *Tiered) Update(ctx context.Context, collection, key string, patch []byte) error {
	t.forget(collection, key)
	return t.next.Update(ctx, collection, key, patch)
}

func (t *Tiered) Increment(ctx context.Context, collection, key, field string, delta int64) (int64, error) {
	t.forget(collection, key)
	return t.next.Increment(ctx, collection, key, field, delta)
}

func (t *Tiered) List(ctx context.Context, collection string) ([]Document, error) {
	return t.next.List(ctx, collection)
}

func (t *Tiered) Delete(ctx context.Context, collection, key string) error {
	t.forget(collection, key)
	return t.next.Delete(ctx, collection, key)
}

func (t *Tiered) Count(ctx context.Context, collection string) (int, error) {
	return t.next.Count(ctx, collection)
}

func (t *Tiered) Ping(ctx context.Context) error { return t.next.Ping(ctx) }

// Stats returns L1 statistics for the cache health endpoint.
func (t *Tiered) Stats() map[string]interface{} {
	return map[string]interface{}{
		"entries":  t.l1.EntryCount(),
		"hits":     t.l1.HitCount(),
		"misses":   t.l1.MissCount(),
		"hit_rate": t.l1.HitRate(),
		"ttl_secs": t.ttl,
	}
}

func (t *Tiered) remember(collection, key string, body []byte, at time.Time) {
	raw, err := json.Marshal(l1Entry{Body: body, CachedAt: at})
	if err != nil {
		return
	}
	_ = t.l1.Set(l1Key(collection, key), raw, t.ttl)
}

func (t *Tiered) forget(collection, key string) {
	t.l1.Del(l1Key(collection, key))
}
