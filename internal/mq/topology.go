package mq

import (
	"context"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Exchange — имя обменника.
type Exchange string

// Queue — имя очереди.
type Queue string

// RoutingKey — ключ маршрутизации.
type RoutingKey string

// ExchangeEvents — topic exchange для событий выполнения.
const ExchangeEvents Exchange = "iguana.events"

// QueueJobs — очередь по умолчанию для команды events.
const QueueJobs Queue = "iguana.jobs"

// Routing keys совпадают с типами сообщений.
const (
	RoutingKeyRunStarted  RoutingKey = "run.started"
	RoutingKeyJobFinished RoutingKey = "job.finished"
	RoutingKeyRunFinished RoutingKey = "run.finished"
)

// bindingPatterns — что получает очередь событий.
var bindingPatterns = []string{"run.*", "job.*"}

// SetupTopology объявляет exchange событий.
func SetupTopology(ctx context.Context, conn *Connection) error {
	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		return declareExchange(ch)
	})
}

// DeclareQueue объявляет очередь и привязывает её к exchange событий.
func DeclareQueue(ctx context.Context, conn *Connection, queue Queue) error {
	return conn.WithChannel(ctx, func(ch *amqp.Channel) error {
		if err := declareExchange(ch); err != nil {
			return err
		}

		_, err := ch.QueueDeclare(
			string(queue), // name
			true,          // durable
			false,         // delete when unused
			false,         // exclusive
			false,         // no-wait
			nil,           // arguments
		)
		if err != nil {
			return fmt.Errorf("declare queue %s: %w", queue, err)
		}

		for _, pattern := range bindingPatterns {
			if err := ch.QueueBind(string(queue), pattern, string(ExchangeEvents), false, nil); err != nil {
				return fmt.Errorf("bind queue %s to %s: %w", queue, pattern, err)
			}
		}
		return nil
	})
}

// declareExchange объявляет durable topic exchange.
func declareExchange(ch *amqp.Channel) error {
	err := ch.ExchangeDeclare(
		string(ExchangeEvents), // name
		"topic",                // type
		true,                   // durable
		false,                  // auto-deleted
		false,                  // internal
		false,                  // no-wait
		nil,                    // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange %s: %w", ExchangeEvents, err)
	}
	return nil
}
