package docstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// Memory is an in-process Store. Safe for concurrent use.
type Memory struct {
	mu    sync.Mutex
	docs  map[string]map[string]Document
	clock func() time.Time
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		docs:  make(map[string]map[string]Document),
		clock: time.Now,
	}
}

// WithClock replaces the time source used for cached_at. Tests only.
func (m *Memory) WithClock(clock func() time.Time) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clock = clock
	return m
}

func (m *Memory) Get(_ context.Context, collection, key string) (*Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[collection][key]
	if !ok {
		return nil, ErrNotFound
	}
	d.Body = append([]byte(nil), d.Body...)
	return &d, nil
}

func (m *Memory) Put(_ context.Context, collection, key string, body []byte) (time.Time, error) {
	if !json.Valid(body) {
		return time.Time{}, fmt.Errorf("put %s/%s: body is not valid JSON", collection, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.put(collection, key, body), nil
}

func (m *Memory) Create(_ context.Context, collection, key string, body []byte) (bool, error) {
	if !json.Valid(body) {
		return false, fmt.Errorf("create %s/%s: body is not valid JSON", collection, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.docs[collection][key]; exists {
		return false, nil
	}
	m.put(collection, key, body)
	return true, nil
}

func (m *Memory) Update(_ context.Context, collection, key string, patch []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(patch, &fields); err != nil {
		return fmt.Errorf("update %s/%s: decode patch: %w", collection, key, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[collection][key]
	if !ok {
		return ErrNotFound
	}
	var body map[string]json.RawMessage
	if err := json.Unmarshal(d.Body, &body); err != nil {
		return fmt.Errorf("update %s/%s: decode body: %w", collection, key, err)
	}
	for k, v := range fields {
		body[k] = v
	}
	merged, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, key, err)
	}
	m.put(collection, key, merged)
	return nil
}

func (m *Memory) Increment(_ context.Context, collection, key, field string, delta int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.docs[collection][key]
	if !ok {
		return 0, ErrNotFound
	}
	var body map[string]json.RawMessage
	if err := json.Unmarshal(d.Body, &body); err != nil {
		return 0, fmt.Errorf("increment %s/%s: decode body: %w", collection, key, err)
	}
	var current int64
	if raw, ok := body[field]; ok && string(raw) != "null" {
		if err := json.Unmarshal(raw, &current); err != nil {
			return 0, fmt.Errorf("increment %s/%s: field %q is not an integer: %w", collection, key, field, err)
		}
	}
	current += delta
	body[field], _ = json.Marshal(current)
	merged, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("increment %s/%s: %w", collection, key, err)
	}
	m.put(collection, key, merged)
	return current, nil
}

func (m *Memory) List(_ context.Context, collection string) ([]Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	docs := make([]Document, 0, len(m.docs[collection]))
	for _, d := range m.docs[collection] {
		d.Body = append([]byte(nil), d.Body...)
		docs = append(docs, d)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Key < docs[j].Key })
	return docs, nil
}

func (m *Memory) Delete(_ context.Context, collection, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs[collection], key)
	return nil
}

func (m *Memory) Count(_ context.Context, collection string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.docs[collection]), nil
}

func (m *Memory) Ping(context.Context) error { return nil }

// put stores a copy of body. Caller holds mu.
func (m *Memory) put(collection, key string, body []byte) time.Time {
	now := m.clock()
	if m.docs[collection] == nil {
		m.docs[collection] = make(map[string]Document)
	}
	m.docs[collection][key] = Document{
		Collection: collection,
		Key:        key,
		Body:       append([]byte(nil), body...),
		CachedAt:   now,
	}
	return now
}
