package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Iguana/internal/domain"
)

// HistoryRepo — история запусков workflow.
//
// Реализует orchestrator.Sink: run записывается при старте,
// результаты jobs по мере завершения, итог при окончании.
type HistoryRepo struct {
	pool *pgxpool.Pool
}

// NewHistoryRepo создаёт новый HistoryRepo.
func NewHistoryRepo(pool *pgxpool.Pool) *HistoryRepo {
	return &HistoryRepo{pool: pool}
}

// RunStarted сохраняет новый run.
func (r *HistoryRepo) RunStarted(ctx context.Context, run *domain.Run) error {
	query := `
		INSERT INTO iguana_runs (id, workflow, status, dry_run, started_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		run.ID,
		run.Workflow,
		run.Status,
		run.DryRun,
		run.StartedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// JobFinished сохраняет результат job.
func (r *HistoryRepo) JobFinished(ctx context.Context, run *domain.Run, result domain.JobResult) error {
	query := `
		INSERT INTO iguana_job_results (run_id, seq, name, status, error, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.pool.Exec(ctx, query,
		run.ID,
		len(run.Jobs),
		result.Name,
		result.Status,
		nullString(result.Error),
		result.StartedAt,
		result.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert job result: %w", err)
	}
	return nil
}

// RunFinished обновляет статус run.
func (r *HistoryRepo) RunFinished(ctx context.Context, run *domain.Run) error {
	query := `
		UPDATE iguana_runs
		SET status = $2, finished_at = $3, error = $4
		WHERE id = $1
	`
	result, err := r.pool.Exec(ctx, query,
		run.ID,
		run.Status,
		run.FinishedAt,
		nullString(run.Error),
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetByID возвращает run вместе с результатами jobs.
func (r *HistoryRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Run, error) {
	query := `
		SELECT id, workflow, status, dry_run, started_at, finished_at, error
		FROM iguana_runs
		WHERE id = $1
	`
	run, err := scanRun(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}

	jobs, err := r.listJobResults(ctx, id)
	if err != nil {
		return nil, err
	}
	run.Jobs = jobs
	return run, nil
}

// ListRecent возвращает последние runs без результатов jobs.
func (r *HistoryRepo) ListRecent(ctx context.Context, limit int) ([]domain.Run, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, workflow, status, dry_run, started_at, finished_at, error
		FROM iguana_runs
		ORDER BY started_at DESC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// listJobResults возвращает результаты jobs run в порядке выполнения.
func (r *HistoryRepo) listJobResults(ctx context.Context, runID uuid.UUID) ([]domain.JobResult, error) {
	query := `
		SELECT name, status, error, started_at, finished_at
		FROM iguana_job_results
		WHERE run_id = $1
		ORDER BY seq ASC
	`
	rows, err := r.pool.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("list job results: %w", err)
	}
	defer rows.Close()

	results := make([]domain.JobResult, 0)
	for rows.Next() {
		var res domain.JobResult
		var jobErr *string
		if err := rows.Scan(&res.Name, &res.Status, &jobErr, &res.StartedAt, &res.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan job result: %w", err)
		}
		if jobErr != nil {
			res.Error = *jobErr
		}
		results = append(results, res)
	}
	return results, rows.Err()
}

// --- Helpers ---

// scanRun сканирует одну строку в Run.
func scanRun(row pgx.Row) (*domain.Run, error) {
	var run domain.Run
	var runError *string

	err := row.Scan(
		&run.ID,
		&run.Workflow,
		&run.Status,
		&run.DryRun,
		&run.StartedAt,
		&run.FinishedAt,
		&runError,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}

	if runError != nil {
		run.Error = *runError
	}
	return &run, nil
}

// nullString возвращает nil для пустой строки.
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
