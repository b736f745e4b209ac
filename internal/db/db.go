// Package db provides a pgxpool-based connection pool with schema migration,
// prepared statement registration and health checking.
package db

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/albapepper/homerlab/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New applies the schema, then creates and validates a connection pool.
// The schema must exist before the pool connects because every new
// connection prepares statements against the documents table.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	if err := Migrate(ctx, cfg.DatabaseURL); err != nil {
		return nil, err
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// Migrate applies the embedded schema on a dedicated connection. Safe to run
// repeatedly.
func Migrate(ctx context.Context, dbURL string) error {
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("connect for migration: %w", err)
	}
	defer conn.Close(context.Background())

	// No arguments: pgx uses the simple protocol, which allows multiple statements.
	if _, err := conn.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// registerPreparedStatements registers the statements used by the document
// store. Prepared statements eliminate parse overhead on every request.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Documents: reads
		"doc_get":   "SELECT body, cached_at FROM documents WHERE collection = $1 AND key = $2",
		"doc_list":  "SELECT key, body, cached_at FROM documents WHERE collection = $1 ORDER BY key",
		"doc_count": "SELECT count(*) FROM documents WHERE collection = $1",

		// Documents: writes (cached_at is always server time)
		"doc_put": `INSERT INTO documents (collection, key, body, cached_at)
			VALUES ($1, $2, $3::jsonb, NOW())
			ON CONFLICT (collection, key) DO UPDATE SET body = EXCLUDED.body, cached_at = EXCLUDED.cached_at
			RETURNING cached_at`,
		"doc_create": `INSERT INTO documents (collection, key, body, cached_at)
			VALUES ($1, $2, $3::jsonb, NOW())
			ON CONFLICT (collection, key) DO NOTHING`,
		"doc_update": `UPDATE documents SET body = body || $3::jsonb, cached_at = NOW()
			WHERE collection = $1 AND key = $2`,
		"doc_delete": "DELETE FROM documents WHERE collection = $1 AND key = $2",

		// Documents: atomic numeric increment
		"doc_increment": `UPDATE documents
			SET body = jsonb_set(body, ARRAY[$3::text],
				to_jsonb(COALESCE((body->>$3::text)::bigint, 0) + $4::bigint)),
			    cached_at = NOW()
			WHERE collection = $1 AND key = $2
			RETURNING (body->>$3::text)::bigint`,
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
