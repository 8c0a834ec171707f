package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool создаёт пул соединений и проверяет доступность БД.
func NewPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, ErrNoDSN
	}

	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.MaxConns = 4
	cfg.HealthCheckPeriod = 30 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("new pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}
	return pool, nil
}

// schema — таблицы истории запусков.
const schema = `
CREATE TABLE IF NOT EXISTS iguana_runs (
	id          uuid PRIMARY KEY,
	workflow    text        NOT NULL,
	status      text        NOT NULL,
	dry_run     boolean     NOT NULL DEFAULT false,
	started_at  timestamptz,
	finished_at timestamptz,
	error       text
);

CREATE TABLE IF NOT EXISTS iguana_job_results (
	run_id      uuid        NOT NULL REFERENCES iguana_runs (id) ON DELETE CASCADE,
	seq         integer     NOT NULL,
	name        text        NOT NULL,
	status      text        NOT NULL,
	error       text,
	started_at  timestamptz NOT NULL,
	finished_at timestamptz NOT NULL,
	PRIMARY KEY (run_id, seq)
);

CREATE INDEX IF NOT EXISTS iguana_runs_started_at_idx ON iguana_runs (started_at DESC);
`

// EnsureSchema создаёт таблицы истории, если их нет.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
