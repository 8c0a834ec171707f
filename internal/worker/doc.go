// Package worker выполняет отдельные jobs.
//
// # Обзор
//
// Executor получает один job и проводит его через жизненный цикл:
//
//  1. Проверка, что у основного контейнера указан образ
//  2. Слияние окружения (workflow env, затем env контейнера)
//  3. Сервисы: pull + run --detach для каждого, в порядке объявления
//  4. Основной контейнер: pull + run --interactive
//
// После job (успешного или упавшего) планировщик вызывает Cleanup:
// остановка сервисов и удаление образов. Ошибки очистки только логируются.
//
//	exec := worker.New(worker.Config{
//	    Runtime: adapter,
//	    Logger:  logger,
//	})
//
//	err := exec.Execute(ctx, "build", job, wf.Env)
//	exec.Cleanup(ctx, "build", job)
//
// # Сервисы
//
// Запуск сервисов best-effort: если один сервис упал, остальные всё равно
// запускаются. Если упал хотя бы один, job завершается с ErrServiceFailed
// до запуска основного контейнера. Каждый сервис получает только
// workflow env и свой собственный env.
//
// # Ошибки
//
// Все ошибки Execute — *JobError с одной из причин:
//   - engine.ErrEmptyImage — образ не указан, runtime не вызывается
//   - ErrServiceFailed — упал хотя бы один сервис
//   - ErrPrepareFailed — pull основного образа
//   - ErrRunFailed — запуск основного контейнера
//
// Таймаутов нет: зависший интерактивный контейнер блокирует Execute,
// пока не будет отменён ctx.
package worker
