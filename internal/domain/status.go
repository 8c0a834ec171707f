package domain

// JobStatus — статус job в рамках одного run.
//
// Жизненный цикл:
//
//	NO_STATUS → SUCCESS
//	          ↘ FAILED
//	          ↘ SKIPPED (упала одна из зависимостей needs)
//
// Статус меняется ровно один раз и дальше не меняется.
type JobStatus string

const (
	// JobStatusNone — job посещён планировщиком, но ещё не оценён.
	JobStatusNone JobStatus = "NO_STATUS"

	// JobStatusSkipped — job пропущен из-за упавшей зависимости.
	JobStatusSkipped JobStatus = "SKIPPED"

	// JobStatusSuccess — job успешно выполнен.
	JobStatusSuccess JobStatus = "SUCCESS"

	// JobStatusFailed — job завершился с ошибкой.
	JobStatusFailed JobStatus = "FAILED"
)

// IsTerminal возвращает true, если статус финальный.
func (s JobStatus) IsTerminal() bool {
	switch s {
	case JobStatusSkipped, JobStatusSuccess, JobStatusFailed:
		return true
	default:
		return false
	}
}

// String возвращает строковое представление JobStatus.
func (s JobStatus) String() string {
	return string(s)
}

// RunStatus — статус выполнения workflow целиком.
//
// Жизненный цикл:
//
//	RUNNING → SUCCEEDED
//	        ↘ FAILED
type RunStatus string

const (
	// RunStatusRunning — run в процессе выполнения.
	RunStatusRunning RunStatus = "RUNNING"

	// RunStatusSucceeded — все jobs отработали или были корректно пропущены.
	RunStatusSucceeded RunStatus = "SUCCEEDED"

	// RunStatusFailed — run прерван ошибкой конфигурации или job без continue_on_error.
	RunStatusFailed RunStatus = "FAILED"
)

// IsTerminal возвращает true, если статус финальный (run завершён).
func (s RunStatus) IsTerminal() bool {
	switch s {
	case RunStatusSucceeded, RunStatusFailed:
		return true
	default:
		return false
	}
}
