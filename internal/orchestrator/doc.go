// Package orchestrator управляет выполнением workflow.
//
// Orchestrator отвечает за:
//   - Обход jobs в порядке объявления
//   - Пропуск job, если одна из его зависимостей (needs) упала
//   - Вызов Executor'а и очистку после каждого выполненного job
//   - Решение, продолжать или прерывать run (continue_on_error)
//   - Уведомление наблюдателей (Sink) о ходе выполнения
//
// Orchestrator — это "мозг" runner'а: только он меняет статусы jobs.
//
// # Статусы
//
// Каждый job переходит из NO_STATUS в один финальный статус ровно один раз:
//
//	NO_STATUS → SKIPPED   (зависимость в FAILED, executor не вызывается)
//	NO_STATUS → SUCCESS
//	NO_STATUS → FAILED
//
// Зависимость, которая ещё не выполнялась (объявлена позже или не
// существует), не проверяется: пишется предупреждение, job выполняется.
//
// # Прерывание
//
// Если job упал и у него нет continue_on_error, Run очищает этот job и
// возвращает (nil, *JobError). Частичная карта статусов отбрасывается.
// Пропущенные jobs не очищаются: для них ничего не запускалось.
//
// # Наблюдатели
//
// Sink получает начало run, результат каждого job и завершение run.
// Ошибки Sink'ов логируются и никогда не влияют на выполнение.
package orchestrator
