package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	defaultListLimit = 20
	maxListLimit     = 200
)

// GetLastRun возвращает последний (или текущий) run этого процесса.
// GET /api/v1/runs/last
func (h *Handler) GetLastRun(w http.ResponseWriter, _ *http.Request) {
	run, ok := h.runs.Last()
	if !ok {
		NotFound(w, "no runs yet")
		return
	}
	Success(w, RunFromDomain(run))
}

// ListRuns возвращает последние runs из истории.
// GET /api/v1/runs?limit=...
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		Unavailable(w, "run history is not configured")
		return
	}

	limit := defaultListLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			BadRequest(w, "invalid limit")
			return
		}
		limit = min(n, maxListLimit)
	}

	runs, err := h.history.ListRecent(r.Context(), limit)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]RunResponse, len(runs))
	for i := range runs {
		result[i] = RunFromDomain(runs[i])
	}
	List(w, result, len(result))
}

// GetRun возвращает run из истории с результатами jobs.
// GET /api/v1/runs/{id}
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		Unavailable(w, "run history is not configured")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		BadRequest(w, "invalid run id")
		return
	}

	run, err := h.history.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "run not found") {
		return
	}
	Success(w, RunFromDomain(*run))
}
