// Package engine превращает описание workflow в готовую к выполнению модель.
//
// Включает:
//   - source.go — загрузка описания из файла или по URL
//   - parser.go — парсинг YAML в domain.Workflow и валидация
//   - env.go    — слияние слоёв переменных окружения
//
// Engine ничего не запускает: он отвечает только за то, чтобы
// orchestrator получил корректный workflow с сохранённым порядком jobs.
package engine
