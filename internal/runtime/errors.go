package runtime

import (
	"errors"
	"fmt"
)

// Ошибки runtime.
var (
	// ErrInvocationFailed — вызов runtime не запустился или завершился с ненулевым кодом.
	ErrInvocationFailed = errors.New("runtime invocation failed")
)

// InvocationError — ошибка конкретного вызова runtime.
type InvocationError struct {
	Op       string // операция: pull, run, stop, ...
	Command  string // командная строка целиком
	ExitCode int    // код выхода, -1 если процесс не запустился
	Err      error  // базовая ошибка
}

// Error реализует интерфейс error.
func (e *InvocationError) Error() string {
	if e.ExitCode >= 0 {
		return fmt.Sprintf("%s: %q exited with code %d", e.Op, e.Command, e.ExitCode)
	}
	return fmt.Sprintf("%s: %q: %v", e.Op, e.Command, e.Err)
}

// Unwrap позволяет проверять как ErrInvocationFailed, так и исходную ошибку.
func (e *InvocationError) Unwrap() []error {
	return []error{ErrInvocationFailed, e.Err}
}
