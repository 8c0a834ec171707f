// Iguana — запускает workflow из контейнерных jobs на одном хосте.
//
// Использование:
//
//	iguana [--json] <command> [flags]
//
// Команды:
//
//	run       Выполнить workflow (один раз или по --schedule)
//	validate  Проверить workflow без запуска
//	events    Читать события run/job из RabbitMQ
//	status    Показать runs запущенного runner'а
//
// Окружение: LOG_LEVEL, LOG_FORMAT, DB_URL, RABBITMQ_URL.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/shaiso/Iguana/internal/cli"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	// graceful shutdown: отмена ctx останавливает дочерний процесс runtime
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rootCmd := cli.NewRootCmd(cli.Config{
		Version:     version,
		DatabaseURL: os.Getenv("DB_URL"),
		RabbitMQURL: os.Getenv("RABBITMQ_URL"),
	})

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		cancel()
		os.Exit(1)
	}
}
