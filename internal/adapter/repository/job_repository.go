package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cirrusops/conversation-miner/internal/domain/entities"
)

// PipelineJobRepository handles pipeline job data operations
type PipelineJobRepository struct {
	db *gorm.DB
}

// NewPipelineJobRepository creates a new pipeline job repository
func NewPipelineJobRepository(db *gorm.DB) *PipelineJobRepository {
	return &PipelineJobRepository{db: db}
}

// Create enqueues a job
func (r *PipelineJobRepository) Create(ctx context.Context, job *entities.PipelineJob) error {
	if job == nil {
		return errors.New("job cannot be nil")
	}
	return r.db.WithContext(ctx).Create(job).Error
}

// FindByID retrieves a job by ID, nil when absent
func (r *PipelineJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.PipelineJob, error) {
	var job entities.PipelineJob
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

// FindClaimable retrieves pending and retrying jobs, oldest first
func (r *PipelineJobRepository) FindClaimable(ctx context.Context, limit int) ([]*entities.PipelineJob, error) {
	if limit <= 0 {
		limit = 10
	}
	var jobs []*entities.PipelineJob
	if err := r.db.WithContext(ctx).
		Where("status IN ?", []entities.PipelineJobStatus{
			entities.PipelineJobStatusPending,
			entities.PipelineJobStatusRetrying,
		}).
		Order("created_at ASC").
		Limit(limit).
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// Claim atomically moves a job from a claimable status to processing.
// The conditional update guarantees only one worker wins the race.
func (r *PipelineJobRepository) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&entities.PipelineJob{}).
		Where("id = ? AND status IN ?", id, []entities.PipelineJobStatus{
			entities.PipelineJobStatusPending,
			entities.PipelineJobStatusRetrying,
		}).
		Updates(map[string]interface{}{
			"status":     entities.PipelineJobStatusProcessing,
			"started_at": now,
			"updated_at": now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkCompleted finishes a job successfully
func (r *PipelineJobRepository) MarkCompleted(ctx context.Context, id uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&entities.PipelineJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       entities.PipelineJobStatusCompleted,
			"completed_at": now,
			"updated_at":   now,
		}).Error
}

// MarkFailed finishes a job with a permanent failure
func (r *PipelineJobRepository) MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&entities.PipelineJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       entities.PipelineJobStatusFailed,
			"last_error":   errMsg,
			"completed_at": now,
			"updated_at":   now,
		}).Error
}

// MarkRetrying re-queues a failed job and bumps its attempt count
func (r *PipelineJobRepository) MarkRetrying(ctx context.Context, id uuid.UUID, errMsg string) error {
	return r.db.WithContext(ctx).
		Model(&entities.PipelineJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"attempts":   gorm.Expr("attempts + 1"),
			"status":     entities.PipelineJobStatusRetrying,
			"last_error": errMsg,
			"updated_at": time.Now(),
		}).Error
}

// ListRecent retrieves recently created jobs, newest first
func (r *PipelineJobRepository) ListRecent(ctx context.Context, limit int) ([]*entities.PipelineJob, error) {
	if limit <= 0 {
		limit = 50
	}
	var jobs []*entities.PipelineJob
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}
