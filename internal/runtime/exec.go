package runtime

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"
)

// ExecInvoker запускает runtime как внешний процесс.
//
// Вывод процесса не перехватывается: он идёт в Stdout/Stderr.
// Интерактивные запуски получают Stdin.
type ExecInvoker struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	logger *slog.Logger
}

// NewExecInvoker создаёт ExecInvoker со стандартными потоками процесса.
func NewExecInvoker(logger *slog.Logger) *ExecInvoker {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExecInvoker{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		logger: logger,
	}
}

// Invoke запускает процесс и ждёт его завершения.
func (e *ExecInvoker) Invoke(ctx context.Context, inv Invocation) error {
	e.logger.Debug("invoking runtime", "op", inv.Op, "command", inv.String())

	cmd := exec.CommandContext(ctx, inv.Binary, inv.Args...)
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr
	if inv.Attach {
		cmd.Stdin = e.Stdin
	}

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return &InvocationError{
			Op:       inv.Op,
			Command:  inv.String(),
			ExitCode: exitCode,
			Err:      err,
		}
	}

	return nil
}
