package cli

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/shaiso/Iguana/internal/telemetry"
)

// Config — зависимости команд.
type Config struct {
	// Version — версия бинаря.
	Version string

	// Logger — если nil, создаётся из LOG_LEVEL/LOG_FORMAT в stderr.
	Logger *slog.Logger

	// HTTPClient — клиент для загрузки workflow по URL.
	HTTPClient *http.Client

	// DatabaseURL — PostgreSQL для истории runs (DB_URL). Пусто — без истории.
	DatabaseURL string

	// RabbitMQURL — брокер событий (RABBITMQ_URL). Пусто — события не публикуются.
	RabbitMQURL string
}

// app — общее состояние команд после парсинга флагов.
type app struct {
	cfg        Config
	jsonOutput bool
	logger     *slog.Logger
}

// output создаёт Output для команды.
func (a *app) output(cmd *cobra.Command) *Output {
	return NewOutput(cmd.OutOrStdout(), cmd.ErrOrStderr(), a.jsonOutput)
}

// NewRootCmd создаёт корневую команду iguana.
func NewRootCmd(cfg Config) *cobra.Command {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	a := &app{cfg: cfg}

	root := &cobra.Command{
		Use:           "iguana",
		Short:         "Run container workflows on a single host",
		Version:       cfg.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			a.logger = a.cfg.Logger
			if a.logger == nil {
				a.logger = telemetry.SetupLogger(cmd.ErrOrStderr())
			}
		},
	}

	root.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "Output in JSON format")

	root.AddCommand(
		newRunCmd(a),
		newValidateCmd(a),
		newEventsCmd(a),
		newStatusCmd(a),
	)

	return root
}
