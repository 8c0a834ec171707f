package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics — Prometheus метрики runner'а.
//
// Метрики регистрируются в собственном Registry, поэтому несколько
// экземпляров (например, в тестах) не конфликтуют между собой.
// Все методы безопасны для nil-получателя.
type Metrics struct {
	registry *prometheus.Registry

	jobs        *prometheus.CounterVec
	runs        *prometheus.CounterVec
	invocations *prometheus.CounterVec
	jobDuration prometheus.Histogram
}

// NewMetrics создаёт и регистрирует метрики.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		jobs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "iguana_jobs_total",
			Help: "Jobs processed by the scheduler, by final status",
		}, []string{"status"}),
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "iguana_runs_total",
			Help: "Workflow runs, by final status",
		}, []string{"status"}),
		invocations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "iguana_runtime_invocations_total",
			Help: "Container runtime invocations, by operation and result",
		}, []string{"op", "result"}),
		jobDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "iguana_job_duration_seconds",
			Help:    "Wall time of executed jobs",
			Buckets: []float64{1, 5, 15, 60, 300, 900, 3600},
		}),
	}
}

// Registry возвращает registry с метриками.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler возвращает http.Handler для /metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveJob учитывает финальный статус job.
// duration учитывается только для выполненных jobs (не для пропущенных).
func (m *Metrics) ObserveJob(status string, executed bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.jobs.WithLabelValues(status).Inc()
	if executed {
		m.jobDuration.Observe(duration.Seconds())
	}
}

// ObserveRun учитывает финальный статус run.
func (m *Metrics) ObserveRun(status string) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(status).Inc()
}

// ObserveInvocation учитывает вызов runtime.
func (m *Metrics) ObserveInvocation(op string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.invocations.WithLabelValues(op, result).Inc()
}
