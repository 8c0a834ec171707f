package repo

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/shaiso/Iguana/internal/domain"
)

func TestNewPool_NoDSN(t *testing.T) {
	_, err := NewPool(context.Background(), "")
	if !errors.Is(err, ErrNoDSN) {
		t.Errorf("expected ErrNoDSN, got %v", err)
	}
}

func TestNewPool_InvalidDSN(t *testing.T) {
	_, err := NewPool(context.Background(), "postgres://%zz")
	if err == nil {
		t.Error("expected parse error")
	}
}

func TestNullString(t *testing.T) {
	if nullString("") != nil {
		t.Error("empty string should be NULL")
	}
	if v := nullString("boom"); v == nil || *v != "boom" {
		t.Errorf("unexpected value: %v", v)
	}
}

// TestHistoryRepo_Roundtrip требует PostgreSQL: IGUANA_TEST_DB_URL.
func TestHistoryRepo_Roundtrip(t *testing.T) {
	dsn := os.Getenv("IGUANA_TEST_DB_URL")
	if dsn == "" {
		t.Skip("IGUANA_TEST_DB_URL is not set")
	}

	ctx := context.Background()
	pool, err := NewPool(ctx, dsn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer pool.Close()

	if err := EnsureSchema(ctx, pool); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r := NewHistoryRepo(pool)
	run := domain.NewRun("ci", true)

	if err := r.RunStarted(ctx, run); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result := domain.JobResult{
		Name:       "build",
		Status:     domain.JobStatusFailed,
		Error:      "exit 1",
		StartedAt:  *run.StartedAt,
		FinishedAt: *run.StartedAt,
	}
	run.AddJobResult(result)
	if err := r.JobFinished(ctx, run, result); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	run.MarkFailed("job build failed")
	if err := r.RunFinished(ctx, run); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := r.GetByID(ctx, run.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != domain.RunStatusFailed || got.Error != "job build failed" || !got.DryRun {
		t.Errorf("unexpected run: %+v", got)
	}
	if len(got.Jobs) != 1 || got.Jobs[0].Status != domain.JobStatusFailed || got.Jobs[0].Error != "exit 1" {
		t.Errorf("unexpected job results: %+v", got.Jobs)
	}

	recent, err := r.ListRecent(ctx, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recent) == 0 {
		t.Error("expected at least one recent run")
	}

	if _, err := r.GetByID(ctx, uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
