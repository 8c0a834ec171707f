// Package mq публикует и читает события выполнения через RabbitMQ.
//
// Структура:
//   - connection.go — соединение с RabbitMQ (reconnect, graceful shutdown)
//   - topology.go   — exchange iguana.events и очередь iguana.jobs
//   - publisher.go  — публикация событий
//   - sink.go       — EventSink: наблюдатель run, публикующий события
//   - consumer.go   — чтение событий (команда iguana events)
//
// Типы событий:
//   - run.started   — run начат
//   - job.finished  — job получил финальный статус
//   - run.finished  — run завершён
//
// Публикация не влияет на выполнение: если брокер недоступен,
// ошибка только логируется оркестратором.
package mq
