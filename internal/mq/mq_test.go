package mq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shaiso/Iguana/internal/domain"
)

// fakePublisher запоминает опубликованные сообщения.
type fakePublisher struct {
	keys     []RoutingKey
	messages []*Message
	err      error
}

func (f *fakePublisher) Publish(_ context.Context, exchange Exchange, key RoutingKey, msg *Message) error {
	if exchange != ExchangeEvents {
		return errors.New("unexpected exchange " + string(exchange))
	}
	f.keys = append(f.keys, key)
	f.messages = append(f.messages, msg)
	return f.err
}

func TestEventSink_PublishesLifecycle(t *testing.T) {
	pub := &fakePublisher{}
	sink := &EventSink{pub: pub}
	ctx := context.Background()

	run := domain.NewRun("ci", false)
	if err := sink.RunStarted(ctx, run); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	now := time.Now()
	result := domain.JobResult{
		Name:       "build",
		Status:     domain.JobStatusFailed,
		Error:      "exit 1",
		StartedAt:  now.Add(-1500 * time.Millisecond),
		FinishedAt: now,
	}
	run.AddJobResult(result)
	if err := sink.JobFinished(ctx, run, result); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	run.MarkSucceeded()
	if err := sink.RunFinished(ctx, run); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantKeys := []RoutingKey{RoutingKeyRunStarted, RoutingKeyJobFinished, RoutingKeyRunFinished}
	if len(pub.keys) != 3 {
		t.Fatalf("expected 3 events, got %d", len(pub.keys))
	}
	for i, k := range wantKeys {
		if pub.keys[i] != k {
			t.Errorf("event %d: expected %s, got %s", i, k, pub.keys[i])
		}
		if string(pub.messages[i].Type) != string(k) {
			t.Errorf("event %d: type %s should match routing key", i, pub.messages[i].Type)
		}
	}

	job, ok := pub.messages[1].Payload.(JobPayload)
	if !ok {
		t.Fatalf("expected JobPayload, got %T", pub.messages[1].Payload)
	}
	if job.Job != "build" || job.Status != "FAILED" || job.DurationMS != 1500 {
		t.Errorf("unexpected job payload: %+v", job)
	}

	finished := pub.messages[2].Payload.(RunPayload)
	if finished.Status != "SUCCEEDED" || len(finished.FailedJobs) != 1 {
		t.Errorf("unexpected run payload: %+v", finished)
	}
}

func TestEventSink_PropagatesPublishError(t *testing.T) {
	pub := &fakePublisher{err: ErrNoChannel}
	sink := &EventSink{pub: pub}

	err := sink.RunStarted(context.Background(), domain.NewRun("ci", false))
	if !errors.Is(err, ErrNoChannel) {
		t.Errorf("expected ErrNoChannel, got %v", err)
	}
}

func TestDecodeMessage_RoundTrip(t *testing.T) {
	run := domain.NewRun("ci", true)
	msg := NewMessage(MessageTypeRunStarted, runPayload(run))

	body, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	decoded, err := DecodeMessage(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decoded.ID != msg.ID || decoded.Type != MessageTypeRunStarted {
		t.Errorf("unexpected message: %+v", decoded)
	}

	payload, err := ParsePayload[RunPayload](decoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.RunID != run.ID || payload.Workflow != "ci" || !payload.DryRun {
		t.Errorf("unexpected payload: %+v", payload)
	}
}

func TestDecodeMessage_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "{"},
		{name: "no type", body: `{"id":"1","payload":{}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeMessage([]byte(tt.body)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestNewConsumer_Defaults(t *testing.T) {
	c := NewConsumer(nil, nil, ConsumerConfig{})

	if c.queue != QueueJobs {
		t.Errorf("expected default queue %s, got %s", QueueJobs, c.queue)
	}
	if c.prefetch != 10 {
		t.Errorf("expected prefetch 10, got %d", c.prefetch)
	}
}
