package cli

import (
	"fmt"
	"strings"

	"github.com/shaiso/Iguana/internal/domain"
)

// runSummary переводит domain.Run в формат, общий с status server.
func runSummary(r *domain.Run) RunResponse {
	resp := RunResponse{
		ID:         r.ID.String(),
		Workflow:   r.Workflow,
		Status:     string(r.Status),
		DryRun:     r.DryRun,
		DurationMS: r.Duration().Milliseconds(),
		Error:      r.Error,
		FailedJobs: r.FailedJobs(),
	}
	if r.StartedAt != nil {
		resp.StartedAt = r.StartedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	if r.FinishedAt != nil {
		resp.FinishedAt = r.FinishedAt.Format("2006-01-02T15:04:05Z07:00")
	}

	resp.Jobs = make([]JobResultResponse, len(r.Jobs))
	for i, j := range r.Jobs {
		resp.Jobs[i] = JobResultResponse{
			Name:       j.Name,
			Status:     string(j.Status),
			Error:      j.Error,
			DurationMS: j.Duration().Milliseconds(),
		}
	}
	return resp
}

// printRun выводит итог run: таблица jobs и строка статуса.
func printRun(out *Output, run RunResponse) {
	if out.jsonMode {
		out.JSON(run)
		return
	}

	headers := []string{"JOB", "STATUS", "DURATION", "ERROR"}
	rows := make([][]string, len(run.Jobs))
	for i, j := range run.Jobs {
		rows[i] = []string{j.Name, out.Status(j.Status), formatDuration(j.DurationMS), j.Error}
	}
	out.Table(headers, rows)

	mode := ""
	if run.DryRun {
		mode = " (dry run)"
	}
	fmt.Fprintf(out.w, "\nrun %s%s: %s in %s\n", run.ID, mode, out.Status(run.Status), formatDuration(run.DurationMS))

	if len(run.FailedJobs) > 0 {
		out.Warn("failed jobs: " + strings.Join(run.FailedJobs, ", "))
	}
}

// printRuns выводит список runs.
func printRuns(out *Output, runs []RunResponse) {
	headers := []string{"ID", "WORKFLOW", "STATUS", "STARTED", "DURATION"}
	rows := make([][]string, len(runs))
	for i, r := range runs {
		rows[i] = []string{r.ID, r.Workflow, out.Status(r.Status), r.StartedAt, formatDuration(r.DurationMS)}
	}
	out.Print(headers, rows, runs)
}
