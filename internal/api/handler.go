package api

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shaiso/Iguana/internal/domain"
	"github.com/shaiso/Iguana/internal/telemetry"
)

// RunSource — источник последнего run (orchestrator.Tracker).
type RunSource interface {
	Last() (domain.Run, bool)
}

// HistoryReader — чтение истории runs (repo.HistoryRepo).
type HistoryReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Run, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Run, error)
}

// Handler — обработчик API с зависимостями.
type Handler struct {
	runs    RunSource
	history HistoryReader
	metrics *telemetry.Metrics
	logger  *slog.Logger
}

// Config — конфигурация Handler.
type Config struct {
	// Runs — последний run (обязателен).
	Runs RunSource

	// History — история runs (опционально, без неё /runs отвечает 404).
	History HistoryReader

	// Metrics — метрики для /metrics (опционально).
	Metrics *telemetry.Metrics

	// Logger
	Logger *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		runs:    cfg.Runs,
		history: cfg.History,
		metrics: cfg.Metrics,
		logger:  logger,
	}
}
