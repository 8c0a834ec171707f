package cli

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shaiso/Iguana/internal/api"
	"github.com/shaiso/Iguana/internal/domain"
	"github.com/shaiso/Iguana/internal/engine"
	"github.com/shaiso/Iguana/internal/mq"
	"github.com/shaiso/Iguana/internal/orchestrator"
	"github.com/shaiso/Iguana/internal/repo"
	"github.com/shaiso/Iguana/internal/runtime"
	"github.com/shaiso/Iguana/internal/scheduler"
	"github.com/shaiso/Iguana/internal/telemetry"
	"github.com/shaiso/Iguana/internal/worker"
)

const (
	defaultWorkflow = "control.yaml"
	defaultNewRoot  = "/sysroot"
)

// runFlags — флаги команды run.
type runFlags struct {
	workflow    string
	newRoot     string
	dryRun      bool
	debug       bool
	privileged  bool
	runtime     string
	sharedDir   string
	schedule    string
	maxRuns     int
	metricsAddr string
}

func (f *runFlags) options() domain.WorkflowOptions {
	return domain.WorkflowOptions{
		DryRun:     f.dryRun,
		Debug:      f.debug,
		Privileged: f.privileged,
		Runtime:    f.runtime,
		SharedDir:  f.sharedDir,
	}.WithDefaults()
}

func newRunCmd(a *app) *cobra.Command {
	f := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a workflow",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if f.schedule != "" {
				if err := scheduler.ValidateCronExpr(f.schedule); err != nil {
					return err
				}
			}
			return a.runWorkflow(cmd, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.workflow, "workflow", "f", defaultWorkflow, "Workflow file or URL")
	flags.StringVar(&f.newRoot, "newroot", defaultNewRoot, "Root of the target system")
	flags.BoolVar(&f.dryRun, "dry-run", false, "Print runtime commands instead of executing them")
	flags.BoolVar(&f.debug, "debug", false, "Keep containers and images after the run")
	flags.BoolVar(&f.privileged, "privileged", false, "Run containers privileged with /dev mounted")
	flags.StringVar(&f.runtime, "runtime", domain.DefaultRuntime, "Container runtime binary")
	flags.StringVar(&f.sharedDir, "shared-dir", domain.DefaultSharedDir, "Host directory mounted into every container")
	flags.StringVar(&f.schedule, "schedule", "", "Cron expression to run the workflow repeatedly")
	flags.IntVar(&f.maxRuns, "max-runs", 0, "Stop after N scheduled runs (0 = unlimited)")
	flags.StringVar(&f.metricsAddr, "metrics-addr", "", "Serve /metrics and run status on this address")

	return cmd
}

// runWorkflow собирает компоненты и выполняет workflow один раз или по расписанию.
func (a *app) runWorkflow(cmd *cobra.Command, f *runFlags) error {
	ctx := cmd.Context()
	out := a.output(cmd)
	logger := a.logger
	opts := f.options()

	if f.newRoot != "" {
		logger.Debug("newroot is recorded only, containers run in the current root", "newroot", f.newRoot)
	}

	load := func(ctx context.Context) (*domain.Workflow, error) {
		return engine.Load(ctx, a.cfg.HTTPClient, f.workflow)
	}

	// Ошибку конфигурации показываем сразу, а не при первом тике расписания.
	wf, err := load(ctx)
	if err != nil {
		return err
	}

	metrics := telemetry.NewMetrics()
	tracker := orchestrator.NewTracker()

	b := a.connectBackends(ctx)
	defer b.close()

	rt := runtime.NewAdapter(runtime.Config{
		Options: opts,
		Metrics: metrics,
		Logger:  logger,
	})

	orch := orchestrator.New(orchestrator.Config{
		Executor: worker.New(worker.Config{Runtime: rt, Logger: logger}),
		Sinks:    append([]orchestrator.Sink{tracker}, b.sinks...),
		Metrics:  metrics,
		DryRun:   opts.DryRun,
		Logger:   logger,
	})

	if f.metricsAddr != "" {
		srvCtx, stop := context.WithCancel(ctx)
		done := make(chan struct{})
		defer func() {
			stop()
			<-done
		}()

		h := api.NewHandler(api.Config{
			Runs:    tracker,
			History: b.historyReader(),
			Metrics: metrics,
			Logger:  logger,
		})
		go func() {
			defer close(done)
			if err := api.Serve(srvCtx, f.metricsAddr, h); err != nil {
				logger.Error("status server failed", "error", err)
			}
		}()
	}

	runOnce := func(ctx context.Context, wf *domain.Workflow) error {
		run, err := orch.RunWorkflow(ctx, wf)
		if run != nil {
			printRun(out, runSummary(run))
		}
		return err
	}

	if f.schedule == "" {
		return runOnce(ctx, wf)
	}

	loop, err := scheduler.New(scheduler.Config{
		Expr:    f.schedule,
		Trigger: func(ctx context.Context) error {
			wf, err := load(ctx)
			if err != nil {
				return err
			}
			return runOnce(ctx, wf)
		},
		MaxRuns: f.maxRuns,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	err = loop.Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Info("schedule stopped")
		return nil
	}
	return err
}

// backends — необязательные внешние наблюдатели run.
type backends struct {
	history *repo.HistoryRepo
	sinks   []orchestrator.Sink
	closers []func()
}

// connectBackends подключает PostgreSQL и RabbitMQ, если заданы их URL.
// Недоступный backend пропускается с предупреждением.
func (a *app) connectBackends(ctx context.Context) *backends {
	b := &backends{}
	logger := a.logger

	if a.cfg.DatabaseURL != "" {
		if err := b.connectHistory(ctx, a.cfg.DatabaseURL); err != nil {
			logger.Warn("run history disabled", "error", err)
		} else {
			logger.Info("run history enabled")
		}
	}

	if a.cfg.RabbitMQURL != "" {
		if err := b.connectEvents(ctx, a.cfg.RabbitMQURL, logger); err != nil {
			logger.Warn("event publishing disabled", "error", err)
		} else {
			logger.Info("event publishing enabled")
		}
	}

	return b
}

func (b *backends) connectHistory(ctx context.Context, dsn string) error {
	pool, err := repo.NewPool(ctx, dsn)
	if err != nil {
		return err
	}
	if err := repo.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return err
	}

	b.history = repo.NewHistoryRepo(pool)
	b.sinks = append(b.sinks, b.history)
	b.closers = append(b.closers, pool.Close)
	return nil
}

func (b *backends) connectEvents(ctx context.Context, url string, logger *slog.Logger) error {
	conn, err := mq.NewConnection(url, logger)
	if err != nil {
		return err
	}
	if err := mq.SetupTopology(ctx, conn); err != nil {
		conn.Close()
		return err
	}

	b.sinks = append(b.sinks, mq.NewEventSink(mq.NewPublisher(conn, logger)))
	b.closers = append(b.closers, func() { conn.Close() })
	return nil
}

// historyReader возвращает nil-интерфейс, если история не подключена.
func (b *backends) historyReader() api.HistoryReader {
	if b.history == nil {
		return nil
	}
	return b.history
}

func (b *backends) close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}
