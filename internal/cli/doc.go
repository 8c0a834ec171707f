// Package cli реализует команды iguana.
//
// # Команды
//
//   - run: загрузить workflow и выполнить его один раз или по cron (--schedule)
//   - validate: разобрать workflow и показать jobs без запуска
//   - events: читать события run/job из RabbitMQ
//   - status: спросить status server запущенного runner'а
//
// run собирает компоненты сам: runtime.Adapter → worker.Executor →
// orchestrator.Orchestrator. История в PostgreSQL и публикация событий
// включаются, только если заданы DB_URL и RABBITMQ_URL.
//
// # Вывод
//
// Output пишет данные в stdout (таблица или JSON с --json),
// сообщения и предупреждения в stderr:
//
//	iguana run --dry-run --json | jq '.jobs[].status'
//
// status ходит в status server по HTTP и не импортирует internal/api,
// типы ответов продублированы в client.go.
package cli
