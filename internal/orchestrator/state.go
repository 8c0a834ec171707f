package orchestrator

import (
	"maps"
	"sync"

	"github.com/shaiso/Iguana/internal/domain"
)

// RunState — статусы jobs одного run.
//
// Меняется только циклом Run. Мьютекс нужен для чтения снимка
// из других горутин (status server).
type RunState struct {
	statuses map[string]domain.JobStatus
	order    []string
	mu       sync.RWMutex
}

// NewRunState создаёт пустой RunState.
func NewRunState() *RunState {
	return &RunState{
		statuses: make(map[string]domain.JobStatus),
	}
}

// Begin регистрирует job со статусом NO_STATUS.
func (s *RunState) Begin(job string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.statuses[job]; !ok {
		s.order = append(s.order, job)
	}
	s.statuses[job] = domain.JobStatusNone
}

// Finish фиксирует финальный статус job.
// Возвращает false, если job не зарегистрирован или уже завершён.
func (s *RunState) Finish(job string, status domain.JobStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.statuses[job]
	if !ok || current.IsTerminal() || !status.IsTerminal() {
		return false
	}
	s.statuses[job] = status
	return true
}

// Status возвращает статус job.
// Второе значение false, если job ещё не обрабатывался.
func (s *RunState) Status(job string) (domain.JobStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	status, ok := s.statuses[job]
	return status, ok
}

// Snapshot возвращает копию карты статусов.
func (s *RunState) Snapshot() map[string]domain.JobStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return maps.Clone(s.statuses)
}

// Order возвращает имена jobs в порядке обработки.
func (s *RunState) Order() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Failed возвращает имена упавших jobs в порядке обработки.
func (s *RunState) Failed() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	failed := make([]string, 0)
	for _, job := range s.order {
		if s.statuses[job] == domain.JobStatusFailed {
			failed = append(failed, job)
		}
	}
	return failed
}
