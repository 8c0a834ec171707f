// Package runtime — адаптер внешнего container runtime (podman/docker CLI).
//
// Структура:
//   - runtime.go    — интерфейс Runtime и Adapter, который строит вызовы
//   - invocation.go — Invocation и построение аргументов командной строки
//   - exec.go       — ExecInvoker: реальный запуск через os/exec
//   - recorder.go   — Recorder: dry-run и тесты, только логирует и запоминает
//
// Named volume создаётся для source из "source:target". Source, начинающийся
// с "/" или ".", считается путём на хосте и передаётся в --volume как есть.
//
// Набор флагов каждой операции — это контракт с runtime. Тесты проверяют
// построенные Invocation, а не реальный запуск процессов.
//
// Таймаутов нет: интерактивный контейнер, который не завершается,
// блокирует выполнение workflow, пока не будет отменён ctx (SIGINT/SIGTERM).
package runtime
