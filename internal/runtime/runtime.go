package runtime

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shaiso/Iguana/internal/domain"
	"github.com/shaiso/Iguana/internal/telemetry"
)

// Runtime — операции над контейнерами, которые нужны executor'у.
//
// Реализации: Adapter (через Invoker). В тестах executor'а
// используется Adapter с Recorder.
type Runtime interface {
	// Pull скачивает образ.
	Pull(ctx context.Context, image string) error

	// Run запускает контейнер. Для сервисов возвращается после старта,
	// а для основного контейнера после его завершения.
	Run(ctx context.Context, c ContainerRun) error

	// Stop останавливает контейнер по имени. Отсутствие контейнера не ошибка.
	Stop(ctx context.Context, name string) error

	// RemoveImage удаляет образ. В debug режиме ничего не делает.
	RemoveImage(ctx context.Context, image string) error

	// CreateVolume создаёт named volume, если его нет.
	CreateVolume(ctx context.Context, name string) error
}

// Invoker выполняет построенный вызов runtime.
//
// Реализации: ExecInvoker (реальный запуск), Recorder (dry-run и тесты).
type Invoker interface {
	Invoke(ctx context.Context, inv Invocation) error
}

// Adapter строит вызовы runtime и передаёт их Invoker'у.
type Adapter struct {
	invoker Invoker
	options domain.WorkflowOptions
	metrics *telemetry.Metrics
	logger  *slog.Logger
}

// Config — конфигурация Adapter.
type Config struct {
	// Invoker — исполнитель вызовов (опционально).
	// Если nil: Recorder при DryRun, иначе ExecInvoker.
	Invoker Invoker

	// Options — настройки запуска workflow.
	Options domain.WorkflowOptions

	// Metrics — метрики (опционально).
	Metrics *telemetry.Metrics

	// Logger
	Logger *slog.Logger
}

// NewAdapter создаёт новый Adapter.
func NewAdapter(cfg Config) *Adapter {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	options := cfg.Options.WithDefaults()

	invoker := cfg.Invoker
	if invoker == nil {
		if options.DryRun {
			invoker = NewRecorder(logger)
		} else {
			invoker = NewExecInvoker(logger)
		}
	}

	return &Adapter{
		invoker: invoker,
		options: options,
		metrics: cfg.Metrics,
		logger:  logger,
	}
}

// Options возвращает настройки, с которыми работает адаптер.
func (a *Adapter) Options() domain.WorkflowOptions {
	return a.options
}

// Pull скачивает образ.
func (a *Adapter) Pull(ctx context.Context, image string) error {
	return a.invoke(ctx, a.invocation(OpPull, pullArgs(image), false))
}

// Run создаёт тома и запускает контейнер.
func (a *Adapter) Run(ctx context.Context, c ContainerRun) error {
	for _, v := range c.Volumes {
		name := VolumeName(v)
		if name == "" {
			continue
		}
		if err := a.CreateVolume(ctx, name); err != nil {
			return fmt.Errorf("create volume %s: %w", name, err)
		}
	}

	args := runArgs(c, a.options.Privileged, a.options.Debug, a.options.SharedDir)
	return a.invoke(ctx, a.invocation(OpRun, args, !c.Service))
}

// Stop останавливает контейнер.
func (a *Adapter) Stop(ctx context.Context, name string) error {
	return a.invoke(ctx, a.invocation(OpStop, stopArgs(name), false))
}

// RemoveImage удаляет образ.
// В debug режиме только логирует: артефакты остаются для разбора.
func (a *Adapter) RemoveImage(ctx context.Context, image string) error {
	inv := a.invocation(OpRemoveImage, removeImageArgs(image), false)
	if a.options.Debug {
		a.logger.Debug("debug mode, keeping image", "image", image, "command", inv.String())
		return nil
	}
	return a.invoke(ctx, inv)
}

// CreateVolume создаёт named volume.
func (a *Adapter) CreateVolume(ctx context.Context, name string) error {
	return a.invoke(ctx, a.invocation(OpCreateVolume, createVolumeArgs(name), false))
}

// invocation собирает Invocation для текущего runtime.
func (a *Adapter) invocation(op string, args []string, attach bool) Invocation {
	return Invocation{
		Op:     op,
		Binary: a.options.Runtime,
		Args:   args,
		Attach: attach,
	}
}

// invoke выполняет вызов и учитывает его в метриках.
func (a *Adapter) invoke(ctx context.Context, inv Invocation) error {
	err := a.invoker.Invoke(ctx, inv)
	a.metrics.ObserveInvocation(inv.Op, err)
	return err
}
