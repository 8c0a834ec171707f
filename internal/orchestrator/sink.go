package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/shaiso/Iguana/internal/domain"
)

// Sink — наблюдатель за выполнением run.
//
// Реализации: repo.HistoryRepo (PostgreSQL), mq.EventSink (RabbitMQ),
// Tracker (последний run в памяти для status server).
type Sink interface {
	// RunStarted вызывается перед первым job.
	RunStarted(ctx context.Context, run *domain.Run) error

	// JobFinished вызывается после фиксации статуса job.
	JobFinished(ctx context.Context, run *domain.Run, result domain.JobResult) error

	// RunFinished вызывается после завершения run (успешного или прерванного).
	RunFinished(ctx context.Context, run *domain.Run) error
}

// Tracker хранит копию последнего run.
type Tracker struct {
	last *domain.Run
	mu   sync.RWMutex
}

// NewTracker создаёт пустой Tracker.
func NewTracker() *Tracker {
	return &Tracker{}
}

// RunStarted реализует Sink.
func (t *Tracker) RunStarted(_ context.Context, run *domain.Run) error {
	t.store(run)
	return nil
}

// JobFinished реализует Sink.
func (t *Tracker) JobFinished(_ context.Context, run *domain.Run, _ domain.JobResult) error {
	t.store(run)
	return nil
}

// RunFinished реализует Sink.
func (t *Tracker) RunFinished(_ context.Context, run *domain.Run) error {
	t.store(run)
	return nil
}

// Last возвращает копию последнего run.
func (t *Tracker) Last() (domain.Run, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.last == nil {
		return domain.Run{}, false
	}
	return *t.last, true
}

// store сохраняет копию run, чтобы читатели не видели последующих изменений.
func (t *Tracker) store(run *domain.Run) {
	cp := *run
	cp.Jobs = append([]domain.JobResult(nil), run.Jobs...)
	cp.StartedAt = copyTime(run.StartedAt)
	cp.FinishedAt = copyTime(run.FinishedAt)

	t.mu.Lock()
	t.last = &cp
	t.mu.Unlock()
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
