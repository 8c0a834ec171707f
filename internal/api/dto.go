package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Iguana/internal/domain"
)

// RunResponse — ответ с run.
type RunResponse struct {
	ID         uuid.UUID           `json:"id"`
	Workflow   string              `json:"workflow"`
	Status     domain.RunStatus    `json:"status"`
	DryRun     bool                `json:"dry_run"`
	StartedAt  *time.Time          `json:"started_at,omitempty"`
	FinishedAt *time.Time          `json:"finished_at,omitempty"`
	DurationMS int64               `json:"duration_ms"`
	Error      string              `json:"error,omitempty"`
	FailedJobs []string            `json:"failed_jobs"`
	Jobs       []JobResultResponse `json:"jobs,omitempty"`
}

// JobResultResponse — результат job в ответе.
type JobResultResponse struct {
	Name       string           `json:"name"`
	Status     domain.JobStatus `json:"status"`
	Error      string           `json:"error,omitempty"`
	DurationMS int64            `json:"duration_ms"`
}

// RunFromDomain конвертирует domain.Run в RunResponse.
func RunFromDomain(r domain.Run) RunResponse {
	resp := RunResponse{
		ID:         r.ID,
		Workflow:   r.Workflow,
		Status:     r.Status,
		DryRun:     r.DryRun,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		DurationMS: r.Duration().Milliseconds(),
		Error:      r.Error,
		FailedJobs: r.FailedJobs(),
	}

	if len(r.Jobs) > 0 {
		resp.Jobs = make([]JobResultResponse, len(r.Jobs))
		for i := range r.Jobs {
			resp.Jobs[i] = JobResultResponse{
				Name:       r.Jobs[i].Name,
				Status:     r.Jobs[i].Status,
				Error:      r.Jobs[i].Error,
				DurationMS: r.Jobs[i].Duration().Milliseconds(),
			}
		}
	}

	return resp
}
