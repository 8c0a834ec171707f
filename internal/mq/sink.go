package mq

import (
	"context"

	"github.com/shaiso/Iguana/internal/domain"
)

// publisher — то, что нужно EventSink от Publisher.
type publisher interface {
	Publish(ctx context.Context, exchange Exchange, routingKey RoutingKey, msg *Message) error
}

// EventSink публикует события выполнения run.
// Реализует orchestrator.Sink.
type EventSink struct {
	pub publisher
}

// NewEventSink создаёт EventSink поверх Publisher.
func NewEventSink(pub *Publisher) *EventSink {
	return &EventSink{pub: pub}
}

// RunStarted публикует run.started.
func (s *EventSink) RunStarted(ctx context.Context, run *domain.Run) error {
	msg := NewMessage(MessageTypeRunStarted, runPayload(run))
	return s.pub.Publish(ctx, ExchangeEvents, RoutingKeyRunStarted, msg)
}

// JobFinished публикует job.finished.
func (s *EventSink) JobFinished(ctx context.Context, run *domain.Run, result domain.JobResult) error {
	msg := NewMessage(MessageTypeJobFinished, JobPayload{
		RunID:      run.ID,
		Workflow:   run.Workflow,
		Job:        result.Name,
		Status:     string(result.Status),
		Error:      result.Error,
		DurationMS: result.Duration().Milliseconds(),
	})
	return s.pub.Publish(ctx, ExchangeEvents, RoutingKeyJobFinished, msg)
}

// RunFinished публикует run.finished.
func (s *EventSink) RunFinished(ctx context.Context, run *domain.Run) error {
	payload := runPayload(run)
	payload.FailedJobs = run.FailedJobs()
	payload.Error = run.Error

	msg := NewMessage(MessageTypeRunFinished, payload)
	return s.pub.Publish(ctx, ExchangeEvents, RoutingKeyRunFinished, msg)
}

func runPayload(run *domain.Run) RunPayload {
	return RunPayload{
		RunID:    run.ID,
		Workflow: run.Workflow,
		Status:   string(run.Status),
		DryRun:   run.DryRun,
	}
}
