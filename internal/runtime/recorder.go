package runtime

import (
	"context"
	"log/slog"
	"slices"
	"sync"
)

// Recorder — Invoker, который ничего не запускает.
//
// Используется в dry-run режиме и в тестах: логирует вызов,
// запоминает его и считает успешным. Для тестов можно
// заранее задать ошибки через FailOn.
type Recorder struct {
	logger *slog.Logger

	mu       sync.Mutex
	calls    []Invocation
	failures []failure
}

// failure — заранее заданная ошибка вызова.
type failure struct {
	op  string
	arg string
	err error
}

// NewRecorder создаёт новый Recorder.
func NewRecorder(logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{logger: logger}
}

// FailOn задаёт ошибку для вызовов операции op, среди аргументов которых есть arg.
func (r *Recorder) FailOn(op, arg string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, failure{op: op, arg: arg, err: err})
}

// Invoke логирует и запоминает вызов.
func (r *Recorder) Invoke(_ context.Context, inv Invocation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, inv)
	r.logger.Info("dry run: would invoke", "op", inv.Op, "command", inv.String())

	for _, f := range r.failures {
		if f.op == inv.Op && slices.Contains(inv.Args, f.arg) {
			return &InvocationError{
				Op:       inv.Op,
				Command:  inv.String(),
				ExitCode: 1,
				Err:      f.err,
			}
		}
	}

	return nil
}

// Invocations возвращает копию записанных вызовов.
func (r *Recorder) Invocations() []Invocation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.calls)
}

// Commands возвращает записанные вызовы как командные строки.
func (r *Recorder) Commands() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	cmds := make([]string, len(r.calls))
	for i, inv := range r.calls {
		cmds[i] = inv.String()
	}
	return cmds
}

// Count возвращает количество записанных вызовов.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

// Reset очищает записанные вызовы (заданные ошибки сохраняются).
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
}
