// Package telemetry обеспечивает наблюдаемость runner'а.
//
// Включает:
//   - logging.go — structured logging через slog
//   - metrics.go — Prometheus метрики jobs, runs и вызовов runtime
//
// Логгер не хранится глобально в компонентах: он передаётся через
// Config каждого компонента, что позволяет тестам перехватывать вывод.
package telemetry
