package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shaiso/Iguana/internal/domain"
	"github.com/shaiso/Iguana/internal/engine"
	"github.com/shaiso/Iguana/internal/runtime"
	"github.com/shaiso/Iguana/internal/telemetry"
)

// Executor выполняет jobs через container runtime.
//
// Executor не хранит состояния между вызовами: один экземпляр
// можно использовать для всех jobs одного или нескольких runs.
type Executor struct {
	runtime runtime.Runtime
	logger  *slog.Logger
}

// Config — конфигурация Executor.
type Config struct {
	// Runtime — адаптер container runtime (обязателен).
	Runtime runtime.Runtime

	// Logger
	Logger *slog.Logger
}

// New создаёт новый Executor.
func New(cfg Config) *Executor {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Executor{
		runtime: cfg.Runtime,
		logger:  logger,
	}
}

// Execute выполняет job.
//
// inherited — окружение уровня workflow. Возвращает *JobError.
func (e *Executor) Execute(ctx context.Context, name string, job *domain.Job, inherited map[string]string) error {
	logger := telemetry.WithJob(e.logger, name)

	if job.Container.Image == "" {
		logger.Error("no image specified for job")
		return &JobError{Job: name, Err: engine.ErrEmptyImage}
	}

	logger.Info("starting job", "image", job.Container.Image, "services", len(job.Services))

	if failed := e.startServices(ctx, logger, name, job, inherited); len(failed) > 0 {
		logger.Error("services failed to start", "failed", failed)
		return &JobError{Job: name, Services: failed, Err: ErrServiceFailed}
	}

	if err := e.runtime.Pull(ctx, job.Container.Image); err != nil {
		logger.Error("failed to pull image", "image", job.Container.Image, "error", err)
		return &JobError{Job: name, Err: fmt.Errorf("%w: %w", ErrPrepareFailed, err)}
	}

	err := e.runtime.Run(ctx, runtime.ContainerRun{
		Image:   job.Container.Image,
		Env:     engine.MergeEnv(inherited, job.Container.Env),
		Volumes: job.Container.Volumes,
	})
	if err != nil {
		logger.Error("container run failed", "image", job.Container.Image, "error", err)
		return &JobError{Job: name, Err: fmt.Errorf("%w: %w", ErrRunFailed, err)}
	}

	logger.Info("job finished")
	return nil
}

// startServices запускает сервисы job в порядке объявления.
// Возвращает имена упавших сервисов.
func (e *Executor) startServices(ctx context.Context, logger *slog.Logger, name string, job *domain.Job, inherited map[string]string) []string {
	var failed []string

	for _, svc := range job.Services {
		svcLogger := logger.With("service", svc.Name)

		if err := e.startService(ctx, name, svc, inherited); err != nil {
			svcLogger.Warn("service failed", "image", svc.Container.Image, "error", err)
			failed = append(failed, svc.Name)
			continue
		}

		svcLogger.Info("service started", "image", svc.Container.Image)
	}

	return failed
}

// startService скачивает образ сервиса и запускает его в фоне.
func (e *Executor) startService(ctx context.Context, job string, svc domain.NamedContainer, inherited map[string]string) error {
	if svc.Container.Image == "" {
		return engine.ErrEmptyImage
	}

	if err := e.runtime.Pull(ctx, svc.Container.Image); err != nil {
		return fmt.Errorf("%w: %w", ErrPrepareFailed, err)
	}

	err := e.runtime.Run(ctx, runtime.ContainerRun{
		Name:    domain.ServiceContainerName(job, svc.Name),
		Image:   svc.Container.Image,
		Env:     engine.MergeEnv(inherited, svc.Container.Env),
		Volumes: svc.Container.Volumes,
		Service: true,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRunFailed, err)
	}

	return nil
}

// Cleanup останавливает сервисы job и удаляет образы.
//
// Best-effort: каждая ошибка логируется, ничего не возвращается.
// Отмена ctx не прерывает очистку, чтобы прерванный job не оставлял контейнеров.
//
// Job без образа отклоняется в Execute до обращения к runtime,
// поэтому убирать за ним нечего.
func (e *Executor) Cleanup(ctx context.Context, name string, job *domain.Job) {
	if job.Container.Image == "" {
		return
	}

	ctx = context.WithoutCancel(ctx)
	logger := telemetry.WithJob(e.logger, name)

	for _, svc := range job.Services {
		container := domain.ServiceContainerName(name, svc.Name)
		if err := e.runtime.Stop(ctx, container); err != nil {
			logger.Warn("failed to stop service", "service", svc.Name, "container", container, "error", err)
		}

		if svc.Container.Image == "" {
			continue
		}
		if err := e.runtime.RemoveImage(ctx, svc.Container.Image); err != nil {
			logger.Warn("failed to remove service image", "service", svc.Name, "image", svc.Container.Image, "error", err)
		}
	}

	if err := e.runtime.RemoveImage(ctx, job.Container.Image); err != nil {
		logger.Warn("failed to remove image", "image", job.Container.Image, "error", err)
	}
}
