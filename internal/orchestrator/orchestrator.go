package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shaiso/Iguana/internal/domain"
	"github.com/shaiso/Iguana/internal/engine"
	"github.com/shaiso/Iguana/internal/telemetry"
)

// JobExecutor выполняет один job и убирает за ним.
//
// Реализация: worker.Executor.
type JobExecutor interface {
	Execute(ctx context.Context, name string, job *domain.Job, inherited map[string]string) error
	Cleanup(ctx context.Context, name string, job *domain.Job)
}

// Orchestrator выполняет jobs workflow последовательно, в порядке объявления.
type Orchestrator struct {
	executor JobExecutor
	sinks    []Sink
	metrics  *telemetry.Metrics
	dryRun   bool
	logger   *slog.Logger
}

// Config — конфигурация Orchestrator.
type Config struct {
	// Executor — исполнитель jobs (обязателен).
	Executor JobExecutor

	// Sinks — наблюдатели (опционально).
	Sinks []Sink

	// Metrics — метрики (опционально).
	Metrics *telemetry.Metrics

	// DryRun — помечать runs как dry-run.
	DryRun bool

	// Logger
	Logger *slog.Logger
}

// New создаёт новый Orchestrator.
func New(cfg Config) *Orchestrator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		executor: cfg.Executor,
		sinks:    cfg.Sinks,
		metrics:  cfg.Metrics,
		dryRun:   cfg.DryRun,
		logger:   logger,
	}
}

// Run выполняет jobs и возвращает финальные статусы.
//
// env — окружение уровня workflow, наследуется каждым job.
// При прерывании возвращает (nil, *JobError): частичные статусы отбрасываются.
func (o *Orchestrator) Run(ctx context.Context, jobs domain.JobList, env map[string]string) (map[string]domain.JobStatus, error) {
	state, err := o.run(ctx, o.logger, jobs, env, nil)
	if err != nil {
		return nil, err
	}
	return state.Snapshot(), nil
}

// RunWorkflow выполняет workflow целиком и возвращает запись о run.
//
// Пустой список jobs отклоняется с engine.ErrNoJobs до любых вызовов runtime.
// Запись о run возвращается и при ошибке: в ней статус FAILED и результаты
// jobs, выполненных до прерывания.
func (o *Orchestrator) RunWorkflow(ctx context.Context, wf *domain.Workflow) (*domain.Run, error) {
	if wf == nil || len(wf.Jobs) == 0 {
		return nil, engine.ErrNoJobs
	}

	run := domain.NewRun(wf.DisplayName(), o.dryRun)
	logger := telemetry.WithRunID(o.logger, run.ID.String())

	logger.Info("loaded workflow",
		"workflow", run.Workflow,
		"jobs", len(wf.Jobs),
		"dry_run", o.dryRun,
	)
	for _, w := range engine.Lint(wf) {
		logger.Warn(w)
	}

	o.notify(logger, "run started", func(s Sink) error {
		return s.RunStarted(ctx, run)
	})

	onResult := func(result domain.JobResult) {
		run.AddJobResult(result)
		o.notify(logger, "job finished", func(s Sink) error {
			return s.JobFinished(ctx, run, result)
		})
	}

	state, err := o.run(ctx, logger, wf.Jobs, wf.Env, onResult)
	if err != nil {
		run.MarkFailed(err.Error())
		logger.Error("workflow aborted", "error", err, "duration", run.Duration())
	} else {
		run.MarkSucceeded()
		if failed := state.Failed(); len(failed) > 0 {
			logger.Warn("workflow finished with failed jobs", "failed", failed, "duration", run.Duration())
		} else {
			logger.Info("workflow finished", "duration", run.Duration())
		}
	}

	o.metrics.ObserveRun(string(run.Status))
	finishCtx := context.WithoutCancel(ctx)
	o.notify(logger, "run finished", func(s Sink) error {
		return s.RunFinished(finishCtx, run)
	})

	return run, err
}

// run — цикл планировщика.
//
// onResult вызывается после фиксации статуса каждого job (может быть nil).
func (o *Orchestrator) run(
	ctx context.Context,
	logger *slog.Logger,
	jobs domain.JobList,
	env map[string]string,
	onResult func(domain.JobResult),
) (*RunState, error) {
	if o.executor == nil {
		return nil, ErrNoExecutor
	}

	state := NewRunState()

	for i := range jobs {
		name, job := jobs[i].Name, &jobs[i].Job

		if err := ctx.Err(); err != nil {
			logger.Warn("run interrupted", "next_job", name, "error", err)
			return nil, fmt.Errorf("run interrupted before job %s: %w", name, err)
		}

		jobLogger := telemetry.WithJob(logger, name)
		started := time.Now()
		state.Begin(name)

		if dep, skip := o.failedDependency(jobLogger, state, job); skip {
			jobLogger.Warn("skipping job because a dependency failed", "dependency", dep)
			o.finish(state, name, domain.JobStatusSkipped, nil, started, onResult)
			continue
		}

		err := o.executor.Execute(ctx, name, job, env)
		if err != nil {
			o.finish(state, name, domain.JobStatusFailed, err, started, onResult)
		} else {
			o.finish(state, name, domain.JobStatusSuccess, nil, started, onResult)
		}

		o.executor.Cleanup(ctx, name, job)

		if err != nil {
			if !job.ContinueOnError {
				jobLogger.Error("job failed, aborting run", "error", err)
				return nil, &JobError{Job: name, Err: err}
			}
			jobLogger.Warn("job failed, continuing", "error", err)
		}
	}

	return state, nil
}

// failedDependency проверяет зависимости job.
// Возвращает имя первой упавшей зависимости.
func (o *Orchestrator) failedDependency(logger *slog.Logger, state *RunState, job *domain.Job) (string, bool) {
	for _, need := range job.Needs {
		status, ok := state.Status(need)
		if !ok {
			logger.Warn("job requires a job that was not scheduled yet, skipping check", "dependency", need)
			continue
		}
		if status == domain.JobStatusFailed {
			return need, true
		}
	}
	return "", false
}

// finish фиксирует статус, обновляет метрики и сообщает результат.
func (o *Orchestrator) finish(
	state *RunState,
	name string,
	status domain.JobStatus,
	err error,
	started time.Time,
	onResult func(domain.JobResult),
) {
	state.Finish(name, status)

	result := domain.JobResult{
		Name:       name,
		Status:     status,
		StartedAt:  started,
		FinishedAt: time.Now(),
	}
	if err != nil {
		result.Error = err.Error()
	}

	o.metrics.ObserveJob(string(status), status != domain.JobStatusSkipped, result.Duration())

	if onResult != nil {
		onResult(result)
	}
}

// notify вызывает fn для каждого Sink. Ошибки только логируются.
func (o *Orchestrator) notify(logger *slog.Logger, event string, fn func(Sink) error) {
	for _, s := range o.sinks {
		if err := fn(s); err != nil {
			logger.Warn("sink failed", "event", event, "sink", fmt.Sprintf("%T", s), "error", err)
		}
	}
}
