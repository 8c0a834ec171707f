package api

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Iguana/internal/domain"
	"github.com/shaiso/Iguana/internal/orchestrator"
	"github.com/shaiso/Iguana/internal/repo"
	"github.com/shaiso/Iguana/internal/telemetry"
)

// fakeHistory — история в памяти.
type fakeHistory struct {
	runs []domain.Run
	err  error
}

func (f *fakeHistory) GetByID(_ context.Context, id uuid.UUID) (*domain.Run, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.runs {
		if f.runs[i].ID == id {
			return &f.runs[i], nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeHistory) ListRecent(_ context.Context, limit int) ([]domain.Run, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.runs[:min(limit, len(f.runs))], nil
}

func finishedRun() *domain.Run {
	run := domain.NewRun("ci", false)
	now := time.Now()
	run.AddJobResult(domain.JobResult{
		Name: "build", Status: domain.JobStatusFailed, Error: "exit 1",
		StartedAt: now.Add(-time.Second), FinishedAt: now,
	})
	run.AddJobResult(domain.JobResult{
		Name: "test", Status: domain.JobStatusSkipped,
		StartedAt: now, FinishedAt: now,
	})
	run.MarkSucceeded()
	return run
}

func newTestHandler(history HistoryReader) (*Handler, *orchestrator.Tracker, *telemetry.Metrics) {
	tracker := orchestrator.NewTracker()
	metrics := telemetry.NewMetrics()
	h := NewHandler(Config{
		Runs:    tracker,
		History: history,
		Metrics: metrics,
		Logger:  telemetry.Discard(),
	})
	return h, tracker, metrics
}

func do(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestHealth(t *testing.T) {
	h, _, _ := newTestHandler(nil)

	rec := do(t, h.Routes(), http.MethodGet, "/healthz")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestGetLastRun(t *testing.T) {
	h, tracker, _ := newTestHandler(nil)
	routes := h.Routes()

	rec := do(t, routes, http.MethodGet, "/api/v1/runs/last")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 before any run, got %d", rec.Code)
	}

	run := finishedRun()
	tracker.RunFinished(context.Background(), run)

	rec = do(t, routes, http.MethodGet, "/api/v1/runs/last")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Data RunResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.ID != run.ID || resp.Data.Status != domain.RunStatusSucceeded {
		t.Errorf("unexpected run: %+v", resp.Data)
	}
	if len(resp.Data.Jobs) != 2 || resp.Data.Jobs[0].DurationMS != 1000 {
		t.Errorf("unexpected jobs: %+v", resp.Data.Jobs)
	}
	if len(resp.Data.FailedJobs) != 1 || resp.Data.FailedJobs[0] != "build" {
		t.Errorf("unexpected failed jobs: %v", resp.Data.FailedJobs)
	}
}

func TestMetricsRoute(t *testing.T) {
	h, _, metrics := newTestHandler(nil)
	metrics.ObserveRun("FAILED")

	rec := do(t, h.Routes(), http.MethodGet, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `iguana_runs_total{status="FAILED"} 1`) {
		t.Errorf("metrics missing run counter:\n%s", rec.Body.String())
	}
}

func TestHistoryRoutes_NotConfigured(t *testing.T) {
	h, _, _ := newTestHandler(nil)
	routes := h.Routes()

	for _, path := range []string{"/api/v1/runs", "/api/v1/runs/" + uuid.NewString()} {
		rec := do(t, routes, http.MethodGet, path)
		if rec.Code != http.StatusServiceUnavailable {
			t.Errorf("%s: expected 503, got %d", path, rec.Code)
		}
	}
}

func TestListRuns(t *testing.T) {
	history := &fakeHistory{runs: []domain.Run{*finishedRun(), *finishedRun(), *finishedRun()}}
	h, _, _ := newTestHandler(history)
	routes := h.Routes()

	rec := do(t, routes, http.MethodGet, "/api/v1/runs?limit=2")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		Data  []RunResponse `json:"data"`
		Total int           `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 2 || len(resp.Data) != 2 {
		t.Errorf("expected 2 runs, got %d", resp.Total)
	}

	rec = do(t, routes, http.MethodGet, "/api/v1/runs?limit=abc")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for invalid limit, got %d", rec.Code)
	}
}

func TestGetRun(t *testing.T) {
	run := finishedRun()
	history := &fakeHistory{runs: []domain.Run{*run}}
	h, _, _ := newTestHandler(history)
	routes := h.Routes()

	tests := []struct {
		name string
		path string
		want int
	}{
		{name: "found", path: "/api/v1/runs/" + run.ID.String(), want: http.StatusOK},
		{name: "not found", path: "/api/v1/runs/" + uuid.NewString(), want: http.StatusNotFound},
		{name: "invalid id", path: "/api/v1/runs/nope", want: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, routes, http.MethodGet, tt.path)
			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestGetRun_RepoError(t *testing.T) {
	h, _, _ := newTestHandler(&fakeHistory{err: errors.New("connection refused")})

	rec := do(t, h.Routes(), http.MethodGet, "/api/v1/runs/"+uuid.NewString())
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "connection refused") {
		t.Error("internal errors must not leak to clients")
	}
}

func TestUnknownRouteAndMethod(t *testing.T) {
	h, _, _ := newTestHandler(nil)
	routes := h.Routes()

	if rec := do(t, routes, http.MethodGet, "/nope"); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if rec := do(t, routes, http.MethodPost, "/healthz"); rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rec.Code)
	}
}

func TestRecovery(t *testing.T) {
	handler := Recovery(telemetry.Discard())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := do(t, handler, http.MethodGet, "/")
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 after panic, got %d", rec.Code)
	}
}

func TestServe_Shutdown(t *testing.T) {
	h, _, _ := newTestHandler(nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, ln, h) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
