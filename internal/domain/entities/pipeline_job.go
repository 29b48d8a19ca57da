package entities

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PipelineJobStatus represents the status of a background pipeline job
type PipelineJobStatus string

const (
	PipelineJobStatusPending    PipelineJobStatus = "pending"    // Waiting to be claimed by a worker
	PipelineJobStatusProcessing PipelineJobStatus = "processing" // Claimed and running
	PipelineJobStatusCompleted  PipelineJobStatus = "completed"  // Finished successfully
	PipelineJobStatusFailed     PipelineJobStatus = "failed"     // Failed after exhausting attempts
	PipelineJobStatusRetrying   PipelineJobStatus = "retrying"   // Failed, will be claimed again
)

// PipelineJobKind represents the type of pipeline job
type PipelineJobKind string

const (
	PipelineJobKindBulkSync        PipelineJobKind = "bulk_sync"
	PipelineJobKindIncrementalSync PipelineJobKind = "incremental_sync"
)

// PipelineJobPayload stores kind-specific job parameters
type PipelineJobPayload struct {
	From        string `json:"from,omitempty"` // RFC3339 lower bound override
	To          string `json:"to,omitempty"`
	TriggeredBy string `json:"triggered_by,omitempty"` // api | webhook | schedule
	MeetingRef  string `json:"meeting_ref,omitempty"`  // external id hint from a webhook
}

// Scan implements sql.Scanner interface for GORM
func (p *PipelineJobPayload) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}
	return json.Unmarshal(bytes, &p)
}

// Value implements driver.Valuer interface for GORM
func (p PipelineJobPayload) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// PipelineJob is a queued unit of sync work executed by the worker pool.
// Claiming is done with a conditional update on status so that two workers
// never run the same job.
type PipelineJob struct {
	ID       uuid.UUID          `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Kind     PipelineJobKind    `json:"kind" gorm:"type:varchar(50);not null;index"`
	Platform Platform           `json:"platform" gorm:"type:varchar(20);not null;index"`
	Status   PipelineJobStatus  `json:"status" gorm:"type:varchar(50);not null;index;default:'pending'"`
	Payload  PipelineJobPayload `json:"payload,omitempty" gorm:"type:jsonb;serializer:json"`

	// Processing details
	Attempts    int        `json:"attempts" gorm:"type:integer;default:0"`
	MaxAttempts int        `json:"max_attempts" gorm:"type:integer;default:3"`
	StartedAt   *time.Time `json:"started_at,omitempty" gorm:"type:timestamp"`
	CompletedAt *time.Time `json:"completed_at,omitempty" gorm:"type:timestamp"`
	LastError   *string    `json:"last_error,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (PipelineJob) TableName() string {
	return "pipeline_jobs"
}

// NewPipelineJob creates a pending job
func NewPipelineJob(kind PipelineJobKind, platform Platform) *PipelineJob {
	return &PipelineJob{
		ID:          uuid.New(),
		Kind:        kind,
		Platform:    platform,
		Status:      PipelineJobStatusPending,
		Attempts:    0,
		MaxAttempts: 3,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

// IsRetryable checks if job can be retried
func (j *PipelineJob) IsRetryable() bool {
	return j.Attempts < j.MaxAttempts
}

// MarkAsProcessing marks job as claimed by a worker
func (j *PipelineJob) MarkAsProcessing() {
	j.Status = PipelineJobStatusProcessing
	now := time.Now()
	j.StartedAt = &now
	j.UpdatedAt = now
}

// MarkAsCompleted marks job as completed successfully
func (j *PipelineJob) MarkAsCompleted() {
	j.Status = PipelineJobStatusCompleted
	now := time.Now()
	j.CompletedAt = &now
	j.UpdatedAt = now
}

// MarkAsFailed marks job as failed with error message
func (j *PipelineJob) MarkAsFailed(errMsg string) {
	j.Status = PipelineJobStatusFailed
	j.LastError = &errMsg
	now := time.Now()
	j.CompletedAt = &now
	j.UpdatedAt = now
}

// IncrementRetry increments the attempt count and queues the job again
func (j *PipelineJob) IncrementRetry(errMsg string) {
	j.Attempts++
	j.Status = PipelineJobStatusRetrying
	j.LastError = &errMsg
	j.UpdatedAt = time.Now()
}
