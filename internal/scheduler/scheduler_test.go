package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shaiso/Iguana/internal/telemetry"
)

func TestParseSchedule(t *testing.T) {
	tests := []struct {
		expr    string
		wantErr error
	}{
		{"*/5 * * * *", nil},
		{"@hourly", nil},
		{"@every 10m", nil},
		{"", ErrEmptySchedule},
		{"not a cron", ErrInvalidSchedule},
		{"* * * * * *", ErrInvalidSchedule},
	}

	for _, tt := range tests {
		_, err := ParseSchedule(tt.expr)
		if tt.wantErr == nil && err != nil {
			t.Errorf("ParseSchedule(%q): unexpected error: %v", tt.expr, err)
		}
		if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
			t.Errorf("ParseSchedule(%q): expected %v, got %v", tt.expr, tt.wantErr, err)
		}
	}
}

func TestNextDue(t *testing.T) {
	schedule, err := ParseSchedule("0 * * * *")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	from := time.Date(2024, 5, 1, 10, 20, 0, 0, time.UTC)
	next := NextDue(schedule, from, time.UTC)

	want := time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("expected %v, got %v", want, next)
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Config{Expr: "@hourly"}); !errors.Is(err, ErrNoTrigger) {
		t.Errorf("expected ErrNoTrigger, got %v", err)
	}
	if _, err := New(Config{Expr: "bad", Trigger: func(context.Context) error { return nil }}); !errors.Is(err, ErrInvalidSchedule) {
		t.Errorf("expected ErrInvalidSchedule, got %v", err)
	}
}

// immediate — after, который срабатывает сразу.
func immediate(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Now()
	return ch
}

func TestLoop_MaxRuns(t *testing.T) {
	calls := 0
	loop, err := New(Config{
		Expr:    "@every 1h",
		MaxRuns: 3,
		Logger:  telemetry.Discard(),
		Trigger: func(context.Context) error {
			calls++
			if calls == 2 {
				return errors.New("job failed")
			}
			return nil
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	loop.after = immediate

	if err := loop.Run(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Ошибка второго запуска не останавливает цикл
	if calls != 3 {
		t.Errorf("expected 3 runs, got %d", calls)
	}
}

func TestLoop_Cancel(t *testing.T) {
	loop, err := New(Config{
		Expr:    "@every 1h",
		Logger:  telemetry.Discard(),
		Trigger: func(context.Context) error { return nil },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	loop.after = func(time.Duration) <-chan time.Time { return nil }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := loop.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
