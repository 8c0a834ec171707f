package scheduler

import "errors"

// Ошибки планировщика.
var (
	// ErrEmptySchedule — cron-выражение не задано.
	ErrEmptySchedule = errors.New("empty schedule")

	// ErrInvalidSchedule — cron-выражение не распарсилось.
	ErrInvalidSchedule = errors.New("invalid cron expression")

	// ErrNoTrigger — Loop создан без Trigger.
	ErrNoTrigger = errors.New("no trigger configured")
)
