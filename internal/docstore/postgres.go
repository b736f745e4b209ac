package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgxpool.Pool used by the Postgres store. The
// statement names it executes are prepared on every pooled connection by
// db.New.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// Postgres stores documents in the documents JSONB table.
type Postgres struct {
	pool Querier
}

// NewPostgres wraps a connection pool.
func NewPostgres(pool Querier) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) Get(ctx context.Context, collection, key string) (*Document, error) {
	d := Document{Collection: collection, Key: key}
	err := p.pool.QueryRow(ctx, "doc_get", collection, key).Scan(&d.Body, &d.CachedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, key, err)
	}
	return &d, nil
}

func (p *Postgres) Put(ctx context.Context, collection, key string, body []byte) (time.Time, error) {
	var cachedAt time.Time
	if err := p.pool.QueryRow(ctx, "doc_put", collection, key, body).Scan(&cachedAt); err != nil {
		return time.Time{}, fmt.Errorf("put %s/%s: %w", collection, key, err)
	}
	return cachedAt, nil
}

func (p *Postgres) Create(ctx context.Context, collection, key string, body []byte) (bool, error) {
	tag, err := p.pool.Exec(ctx, "doc_create", collection, key, body)
	if err != nil {
		return false, fmt.Errorf("create %s/%s: %w", collection, key, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (p *Postgres) Update(ctx context.Context, collection, key string, patch []byte) error {
	tag, err := p.pool.Exec(ctx, "doc_update", collection, key, patch)
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, key, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Increment runs a single UPDATE ... RETURNING, so concurrent increments
// serialize on the row lock and none are lost.
func (p *Postgres) Increment(ctx context.Context, collection, key, field string, delta int64) (int64, error) {
	var n int64
	err := p.pool.QueryRow(ctx, "doc_increment", collection, key, field, delta).Scan(&n)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("increment %s/%s.%s: %w", collection, key, field, err)
	}
	return n, nil
}

func (p *Postgres) List(ctx context.Context, collection string) ([]Document, error) {
	rows, err := p.pool.Query(ctx, "doc_list", collection)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		d := Document{Collection: collection}
		if err := rows.Scan(&d.Key, &d.Body, &d.CachedAt); err != nil {
			return nil, fmt.Errorf("scan %s: %w", collection, err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (p *Postgres) Delete(ctx context.Context, collection, key string) error {
	if _, err := p.pool.Exec(ctx, "doc_delete", collection, key); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, key, err)
	}
	return nil
}

func (p *Postgres) Count(ctx context.Context, collection string) (int, error) {
	var n int
	if err := p.pool.QueryRow(ctx, "doc_count", collection).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", collection, err)
	}
	return n, nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}
