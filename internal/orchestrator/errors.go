package orchestrator

import (
	"errors"
	"fmt"
)

// Ошибки оркестратора.
var (
	// ErrJobFailed — job упал без continue_on_error, run прерван.
	ErrJobFailed = errors.New("job failed")

	// ErrNoExecutor — Orchestrator создан без Executor.
	ErrNoExecutor = errors.New("no job executor configured")
)

// JobError — run прерван из-за конкретного job.
type JobError struct {
	Job string // имя job
	Err error  // ошибка executor'а
}

// Error реализует интерфейс error.
func (e *JobError) Error() string {
	return fmt.Sprintf("job %s failed: %v", e.Job, e.Err)
}

// Unwrap позволяет проверять как ErrJobFailed, так и причину.
func (e *JobError) Unwrap() []error {
	return []error{ErrJobFailed, e.Err}
}
