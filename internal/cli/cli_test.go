package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/shaiso/Iguana/internal/engine"
	"github.com/shaiso/Iguana/internal/mq"
	"github.com/shaiso/Iguana/internal/orchestrator"
	"github.com/shaiso/Iguana/internal/scheduler"
	"github.com/shaiso/Iguana/internal/telemetry"
)

const testWorkflow = `
name: demo
env:
  STAGE: test
jobs:
  build:
    container:
      image: build:1
    services:
      db:
        image: postgres:16
  test:
    container:
      image: test:1
    needs: [build]
`

func writeWorkflow(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "control.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write workflow: %v", err)
	}
	return path
}

// execute запускает корневую команду и возвращает stdout и stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	root := NewRootCmd(Config{Version: "test", Logger: telemetry.Discard()})

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestValidateCmd(t *testing.T) {
	path := writeWorkflow(t, testWorkflow)

	stdout, stderr, err := execute(t, "validate", "-f", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"build", "test", "postgres:16", "db"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output should contain %q:\n%s", want, stdout)
		}
	}
	if !strings.Contains(stderr, "workflow demo is valid") {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

func TestValidateCmd_ForwardReferenceWarns(t *testing.T) {
	path := writeWorkflow(t, `
jobs:
  test:
    container:
      image: t
    needs: [build]
  build:
    container:
      image: b
`)

	_, stderr, err := execute(t, "validate", "-f", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stderr, "Warning:") {
		t.Errorf("expected a warning for forward reference, got %q", stderr)
	}
}

func TestValidateCmd_MissingWorkflow(t *testing.T) {
	_, _, err := execute(t, "validate", "-f", filepath.Join(t.TempDir(), "absent.yaml"))
	if !errors.Is(err, engine.ErrNoWorkflow) {
		t.Errorf("expected ErrNoWorkflow, got %v", err)
	}
}

func TestRunCmd_DryRun(t *testing.T) {
	path := writeWorkflow(t, testWorkflow)

	stdout, _, err := execute(t, "run", "-f", path, "--dry-run")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Count(stdout, "SUCCESS") < 2 {
		t.Errorf("both jobs should succeed:\n%s", stdout)
	}
	if !strings.Contains(stdout, "(dry run): SUCCEEDED") {
		t.Errorf("summary line missing:\n%s", stdout)
	}
}

func TestRunCmd_DryRunJSON(t *testing.T) {
	path := writeWorkflow(t, testWorkflow)

	stdout, _, err := execute(t, "run", "-f", path, "--dry-run", "--json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var run RunResponse
	if err := json.Unmarshal([]byte(stdout), &run); err != nil {
		t.Fatalf("output should be JSON: %v\n%s", err, stdout)
	}
	if run.Status != "SUCCEEDED" || !run.DryRun {
		t.Errorf("unexpected run: %+v", run)
	}
	if len(run.Jobs) != 2 || run.Jobs[0].Name != "build" || run.Jobs[1].Name != "test" {
		t.Errorf("unexpected jobs: %+v", run.Jobs)
	}
}

func TestRunCmd_AbortOnFailure(t *testing.T) {
	path := writeWorkflow(t, `
jobs:
  broken:
    container:
      image: ""
  after:
    container:
      image: a
`)

	stdout, _, err := execute(t, "run", "-f", path, "--dry-run", "--json")
	if !errors.Is(err, orchestrator.ErrJobFailed) {
		t.Fatalf("expected ErrJobFailed, got %v", err)
	}
	if !errors.Is(err, engine.ErrEmptyImage) {
		t.Errorf("expected ErrEmptyImage in chain, got %v", err)
	}

	var run RunResponse
	if err := json.Unmarshal([]byte(stdout), &run); err != nil {
		t.Fatalf("failed run should still be printed: %v", err)
	}
	if run.Status != "FAILED" {
		t.Errorf("expected FAILED, got %s", run.Status)
	}
}

func TestRunCmd_ContinueOnErrorExitsCleanly(t *testing.T) {
	path := writeWorkflow(t, `
jobs:
  flaky:
    container:
      image: ""
    continue_on_error: true
  dependent:
    container:
      image: d
    needs: [flaky]
`)

	stdout, stderr, err := execute(t, "run", "-f", path, "--dry-run")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "SKIPPED") {
		t.Errorf("dependent job should be skipped:\n%s", stdout)
	}
	if !strings.Contains(stderr, "failed jobs: flaky") {
		t.Errorf("expected warning about failed jobs, got %q", stderr)
	}
}

func TestRunCmd_InvalidSchedule(t *testing.T) {
	path := writeWorkflow(t, testWorkflow)

	_, _, err := execute(t, "run", "-f", path, "--dry-run", "--schedule", "not a cron")
	if !errors.Is(err, scheduler.ErrInvalidSchedule) {
		t.Errorf("expected ErrInvalidSchedule, got %v", err)
	}
}

func TestStatusCmd(t *testing.T) {
	id := uuid.New().String()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v1/runs/last":
			w.Write([]byte(`{"data":{"id":"` + id + `","workflow":"demo","status":"SUCCEEDED","duration_ms":1500,` +
				`"failed_jobs":[],"jobs":[{"name":"build","status":"SUCCESS","duration_ms":1500}]}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":{"code":"NOT_FOUND","message":"run not found"}}`))
		}
	}))
	defer server.Close()

	stdout, _, err := execute(t, "status", "--addr", server.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, id) || !strings.Contains(stdout, "build") {
		t.Errorf("unexpected output:\n%s", stdout)
	}

	_, _, err = execute(t, "status", "--addr", server.URL, "--id", "missing")
	if !errors.Is(err, ErrAPI) {
		t.Errorf("expected ErrAPI, got %v", err)
	}
}

func TestClient_ListRuns(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/runs" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("limit") != "5" {
			t.Errorf("expected limit=5, got %q", r.URL.RawQuery)
		}
		w.Write([]byte(`{"data":[{"id":"a","status":"FAILED"},{"id":"b","status":"SUCCEEDED"}],"total":2}`))
	}))
	defer server.Close()

	runs, err := NewClient(server.URL).ListRuns(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runs) != 2 || runs[0].Status != "FAILED" {
		t.Errorf("unexpected runs: %+v", runs)
	}
}

func TestClient_UnavailableWithoutErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := NewClient(server.URL).LastRun(context.Background())
	if !errors.Is(err, ErrAPI) {
		t.Errorf("expected ErrAPI, got %v", err)
	}
}

func TestNewClient_Address(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{":9090", "http://localhost:9090"},
		{"runner:9090", "http://runner:9090"},
		{"https://runner.example.com/", "https://runner.example.com"},
	}

	for _, tt := range tests {
		if got := NewClient(tt.addr).baseURL; got != tt.want {
			t.Errorf("NewClient(%q) base = %q, want %q", tt.addr, got, tt.want)
		}
	}
}

func TestFormatEvent(t *testing.T) {
	out := NewOutput(&bytes.Buffer{}, &bytes.Buffer{}, false)
	ts := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

	job := &mq.Message{
		Type:      mq.MessageTypeJobFinished,
		Timestamp: ts,
		Payload: map[string]any{
			"workflow":    "demo",
			"job":         "build",
			"status":      "FAILED",
			"error":       "exit status 2",
			"duration_ms": 250,
		},
	}

	line, err := formatEvent(job, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"12:30:00", "job.finished", "demo/build", "FAILED", "exit status 2"} {
		if !strings.Contains(line, want) {
			t.Errorf("line should contain %q: %s", want, line)
		}
	}

	run := &mq.Message{
		Type:      mq.MessageTypeRunFinished,
		Timestamp: ts,
		Payload: map[string]any{
			"workflow":    "demo",
			"status":      "SUCCEEDED",
			"failed_jobs": []string{"lint"},
		},
	}

	line, err = formatEvent(run, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(line, "failed=lint") {
		t.Errorf("expected failed jobs in line: %s", line)
	}
}

func TestFormatDuration(t *testing.T) {
	if got := formatDuration(250); got != "250ms" {
		t.Errorf("expected 250ms, got %s", got)
	}
	if got := formatDuration(1540); got != "1.5s" {
		t.Errorf("expected 1.5s, got %s", got)
	}
}
