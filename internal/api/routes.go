package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes возвращает router со всеми маршрутами.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(Recovery(h.logger), Logging(h.logger))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		NotFound(w, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		MethodNotAllowed(w)
	})

	r.Get("/healthz", h.Health)
	r.Method(http.MethodGet, "/metrics", h.metrics.Handler())

	r.Route("/api/v1/runs", func(r chi.Router) {
		r.Get("/", h.ListRuns)
		r.Get("/last", h.GetLastRun)
		r.Get("/{id}", h.GetRun)
	})

	return r
}

// Health — проверка живости.
// GET /healthz
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
