package sync

import (
	"time"

	"github.com/google/uuid"

	"github.com/cirrusops/conversation-miner/internal/domain/entities"
)

// JobResponse is the API shape of a queued pipeline job
type JobResponse struct {
	ID          uuid.UUID  `json:"id"`
	Kind        string     `json:"kind"`
	Platform    string     `json:"platform"`
	Status      string     `json:"status"`
	Attempts    int        `json:"attempts"`
	MaxAttempts int        `json:"max_attempts"`
	LastError   string     `json:"last_error,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// FromJob converts a pipeline job entity to its API shape
func FromJob(job *entities.PipelineJob) JobResponse {
	resp := JobResponse{
		ID:          job.ID,
		Kind:        string(job.Kind),
		Platform:    job.Platform.String(),
		Status:      string(job.Status),
		Attempts:    job.Attempts,
		MaxAttempts: job.MaxAttempts,
		StartedAt:   job.StartedAt,
		CompletedAt: job.CompletedAt,
		CreatedAt:   job.CreatedAt,
	}
	if job.LastError != nil {
		resp.LastError = *job.LastError
	}
	return resp
}

// StateResponse is the API shape of a platform's sync bookkeeping row
type StateResponse struct {
	Platform     string     `json:"platform"`
	Status       string     `json:"status"`
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`
	LastCursor   string     `json:"last_cursor,omitempty"`
	TotalSynced  int        `json:"total_synced"`
	ErrorMessage string     `json:"error_message,omitempty"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// FromState converts a sync state entity to its API shape
func FromState(state *entities.SyncState) StateResponse {
	return StateResponse{
		Platform:     state.Platform.String(),
		Status:       string(state.Status),
		LastSyncedAt: state.LastSyncedAt,
		LastCursor:   state.LastCursor,
		TotalSynced:  state.TotalSynced,
		ErrorMessage: state.ErrorMessage,
		UpdatedAt:    state.UpdatedAt,
	}
}
