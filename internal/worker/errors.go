package worker

import (
	"errors"
	"fmt"
)

// Ошибки выполнения job.
var (
	// ErrServiceFailed — не удалось подготовить или запустить один из сервисов.
	ErrServiceFailed = errors.New("service startup failed")

	// ErrPrepareFailed — не удалось скачать образ основного контейнера.
	ErrPrepareFailed = errors.New("image preparation failed")

	// ErrRunFailed — основной контейнер не запустился или завершился с ошибкой.
	ErrRunFailed = errors.New("container run failed")
)

// JobError — ошибка выполнения конкретного job.
type JobError struct {
	Job      string   // имя job
	Services []string // упавшие сервисы (для ErrServiceFailed)
	Err      error    // базовая ошибка
}

// Error реализует интерфейс error.
func (e *JobError) Error() string {
	if len(e.Services) > 0 {
		return fmt.Sprintf("job %s: %v: %v", e.Job, e.Err, e.Services)
	}
	return fmt.Sprintf("job %s: %v", e.Job, e.Err)
}

// Unwrap возвращает базовую ошибку.
func (e *JobError) Unwrap() error {
	return e.Err
}
