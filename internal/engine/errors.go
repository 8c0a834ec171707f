package engine

import "errors"

// Ошибки загрузки и валидации workflow.
var (
	// ErrNoWorkflow — файл workflow не найден или недоступен.
	ErrNoWorkflow = errors.New("no such workflow")

	// ErrParseWorkflow — описание workflow не удалось распарсить.
	ErrParseWorkflow = errors.New("unable to parse provided workflow file")

	// ErrNoJobs — workflow не содержит jobs.
	ErrNoJobs = errors.New("no jobs in control file")

	// ErrEmptyJobName — job без имени.
	ErrEmptyJobName = errors.New("job has empty name")

	// ErrEmptyImage — у контейнера не указан образ.
	// Проверяется при запуске job, а не при загрузке.
	ErrEmptyImage = errors.New("no image specified")
)

// ValidationError — ошибка валидации с контекстом.
type ValidationError struct {
	Job     string // имя job, где произошла ошибка
	Field   string // поле, вызвавшее ошибку
	Message string // описание ошибки
	Err     error  // базовая ошибка
}

// Error реализует интерфейс error.
func (e *ValidationError) Error() string {
	if e.Job != "" {
		return "job " + e.Job + ": " + e.Message
	}
	return e.Message
}

// Unwrap возвращает базовую ошибку.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError создаёт новую ошибку валидации.
func NewValidationError(job, field, message string, err error) *ValidationError {
	return &ValidationError{
		Job:     job,
		Field:   field,
		Message: message,
		Err:     err,
	}
}
