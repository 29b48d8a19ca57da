package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/cirrusops/conversation-miner/internal/domain/entities"
)

// PipelineJobRepository defines the interface for pipeline job data access
type PipelineJobRepository interface {
	// Create enqueues a job
	Create(ctx context.Context, job *entities.PipelineJob) error

	// FindByID retrieves a job by ID, nil when absent
	FindByID(ctx context.Context, id uuid.UUID) (*entities.PipelineJob, error)

	// FindClaimable retrieves pending and retrying jobs, oldest first
	FindClaimable(ctx context.Context, limit int) ([]*entities.PipelineJob, error)

	// Claim atomically moves a job from a claimable status to processing.
	// Returns false when another worker already claimed it.
	Claim(ctx context.Context, id uuid.UUID) (bool, error)

	// MarkCompleted finishes a job successfully
	MarkCompleted(ctx context.Context, id uuid.UUID) error

	// MarkFailed finishes a job with a permanent failure
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error

	// MarkRetrying re-queues a failed job and bumps its attempt count
	MarkRetrying(ctx context.Context, id uuid.UUID, errMsg string) error

	// ListRecent retrieves recently created jobs, newest first
	ListRecent(ctx context.Context, limit int) ([]*entities.PipelineJob, error)
}
