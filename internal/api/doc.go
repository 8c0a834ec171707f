// Package api содержит HTTP сервер статуса runner'а.
//
// Структура:
//   - handler.go     — Handler с зависимостями (tracker, history, metrics)
//   - routes.go      — chi router и маршруты
//   - middleware.go  — logging и recovery
//   - response.go    — унифицированные JSON-ответы
//   - dto.go         — ответы API
//   - run_handler.go — обработчики /api/v1/runs
//   - server.go      — запуск и graceful shutdown
//
// Маршруты:
//
//	GET /healthz
//	GET /metrics
//	GET /api/v1/runs/last
//	GET /api/v1/runs          (нужна история в PostgreSQL)
//	GET /api/v1/runs/{id}     (нужна история в PostgreSQL)
//
// Сервер только читает состояние и не влияет на выполнение.
package api
