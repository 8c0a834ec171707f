package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Trigger запускает один run workflow.
type Trigger func(ctx context.Context) error

// Loop запускает Trigger по cron-расписанию.
//
// Запуски не перекрываются: следующее время считается после
// завершения предыдущего run. Пропущенные за время run тики не догоняются.
type Loop struct {
	expr     string
	schedule cron.Schedule
	trigger  Trigger
	location *time.Location
	maxRuns  int
	logger   *slog.Logger

	now   func() time.Time
	after func(time.Duration) <-chan time.Time
}

// Config — конфигурация Loop.
type Config struct {
	// Expr — cron-выражение (обязательно).
	Expr string

	// Trigger — что запускать (обязателен).
	Trigger Trigger

	// Location — часовой пояс расписания (default: time.Local).
	Location *time.Location

	// MaxRuns — остановиться после N запусков (0 — без ограничения).
	MaxRuns int

	// Logger
	Logger *slog.Logger
}

// New создаёт Loop и проверяет расписание.
func New(cfg Config) (*Loop, error) {
	schedule, err := ParseSchedule(cfg.Expr)
	if err != nil {
		return nil, err
	}
	if cfg.Trigger == nil {
		return nil, ErrNoTrigger
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	loc := cfg.Location
	if loc == nil {
		loc = time.Local
	}

	return &Loop{
		expr:     cfg.Expr,
		schedule: schedule,
		trigger:  cfg.Trigger,
		location: loc,
		maxRuns:  cfg.MaxRuns,
		logger:   logger.With("schedule", cfg.Expr),
		now:      time.Now,
		after:    time.After,
	}, nil
}

// Run ждёт очередного тика и вызывает Trigger до отмены ctx.
//
// Ошибка Trigger логируется и не останавливает цикл.
// Возвращает nil после MaxRuns запусков, иначе ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	runs := 0

	for {
		next := NextDue(l.schedule, l.now(), l.location)
		wait := next.Sub(l.now())
		l.logger.Info("next scheduled run", "at", next, "in", wait.Round(time.Second))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.after(wait):
		}

		runs++
		started := l.now()
		if err := l.trigger(ctx); err != nil {
			l.logger.Error("scheduled run failed", "run", runs, "error", err, "duration", l.now().Sub(started))
		} else {
			l.logger.Info("scheduled run finished", "run", runs, "duration", l.now().Sub(started))
		}

		if l.maxRuns > 0 && runs >= l.maxRuns {
			return nil
		}
	}
}
