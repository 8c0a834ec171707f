package domain

import (
	"time"

	"github.com/google/uuid"
)

// Run — один запуск workflow.
//
// Run создаётся при старте выполнения и заполняется по мере
// завершения jobs. Используется для истории, событий и вывода итогов.
type Run struct {
	// ID — уникальный идентификатор run.
	ID uuid.UUID `json:"id"`

	// Workflow — отображаемое имя workflow.
	Workflow string `json:"workflow"`

	// Status — текущий статус выполнения.
	Status RunStatus `json:"status"`

	// DryRun — run выполнен без реальных вызовов runtime.
	DryRun bool `json:"dry_run,omitempty"`

	// Jobs — результаты jobs в порядке выполнения.
	Jobs []JobResult `json:"jobs"`

	// StartedAt — время начала выполнения.
	StartedAt *time.Time `json:"started_at,omitempty"`

	// FinishedAt — время завершения.
	FinishedAt *time.Time `json:"finished_at,omitempty"`

	// Error — текст ошибки, если run завершился с FAILED.
	Error string `json:"error,omitempty"`
}

// JobResult — итог выполнения одного job.
type JobResult struct {
	// Name — имя job.
	Name string `json:"name"`

	// Status — финальный статус job.
	Status JobStatus `json:"status"`

	// Error — текст ошибки для FAILED.
	Error string `json:"error,omitempty"`

	// StartedAt — время начала обработки job планировщиком.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt — время фиксации статуса.
	FinishedAt time.Time `json:"finished_at"`
}

// Duration возвращает продолжительность выполнения job.
func (r *JobResult) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// NewRun создаёт run в статусе RUNNING.
func NewRun(workflow string, dryRun bool) *Run {
	now := time.Now()
	return &Run{
		ID:        uuid.New(),
		Workflow:  workflow,
		Status:    RunStatusRunning,
		DryRun:    dryRun,
		Jobs:      make([]JobResult, 0),
		StartedAt: &now,
	}
}

// Duration возвращает продолжительность выполнения.
// Возвращает 0, если run ещё не завершён.
func (r *Run) Duration() time.Duration {
	if r.StartedAt == nil || r.FinishedAt == nil {
		return 0
	}
	return r.FinishedAt.Sub(*r.StartedAt)
}

// IsFinished возвращает true, если run завершён.
func (r *Run) IsFinished() bool {
	return r.Status.IsTerminal()
}

// AddJobResult добавляет результат job.
func (r *Run) AddJobResult(result JobResult) {
	r.Jobs = append(r.Jobs, result)
}

// FailedJobs возвращает имена упавших jobs.
func (r *Run) FailedJobs() []string {
	names := make([]string, 0)
	for _, j := range r.Jobs {
		if j.Status == JobStatusFailed {
			names = append(names, j.Name)
		}
	}
	return names
}

// MarkSucceeded переводит run в статус SUCCEEDED.
func (r *Run) MarkSucceeded() {
	now := time.Now()
	r.Status = RunStatusSucceeded
	r.FinishedAt = &now
}

// MarkFailed переводит run в статус FAILED с ошибкой.
func (r *Run) MarkFailed(err string) {
	now := time.Now()
	r.Status = RunStatusFailed
	r.FinishedAt = &now
	r.Error = err
}
