package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cirrusops/conversation-miner/internal/domain/entities"
	"github.com/cirrusops/conversation-miner/internal/domain/repositories"
)

// MeetingRepository handles meeting data operations
type MeetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository creates a new meeting repository
func NewMeetingRepository(db *gorm.DB) *MeetingRepository {
	return &MeetingRepository{db: db}
}

// Upsert inserts the meeting or updates the row sharing its
// (platform, external_id) key, then rewrites the entity's ID to the
// surviving row so later writes target the right meeting.
func (r *MeetingRepository) Upsert(ctx context.Context, meeting *entities.Meeting) error {
	if meeting == nil {
		return errors.New("meeting cannot be nil")
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "platform"}, {Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "started_at", "ended_at", "duration_seconds",
			"host_name", "host_email", "raw_metadata", "updated_at",
		}),
	}).Create(meeting).Error
	if err != nil {
		return err
	}

	// The conflict path keeps the original row's ID
	var existing entities.Meeting
	if err := r.db.WithContext(ctx).
		Where("platform = ? AND external_id = ?", meeting.Platform, meeting.ExternalID).
		First(&existing).Error; err != nil {
		return err
	}
	meeting.ID = existing.ID
	meeting.CreatedAt = existing.CreatedAt
	return nil
}

// FindByID retrieves a meeting by ID
func (r *MeetingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error) {
	var meeting entities.Meeting
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&meeting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &meeting, nil
}

// FindByPlatformExternalID retrieves a meeting by its dedup key
func (r *MeetingRepository) FindByPlatformExternalID(ctx context.Context, platform entities.Platform, externalID string) (*entities.Meeting, error) {
	var meeting entities.Meeting
	if err := r.db.WithContext(ctx).
		Where("platform = ? AND external_id = ?", platform, externalID).
		First(&meeting).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &meeting, nil
}

// List retrieves meetings matching the filter, newest first
func (r *MeetingRepository) List(ctx context.Context, filter repositories.MeetingFilter) ([]*entities.Meeting, int64, error) {
	query := r.db.WithContext(ctx).Model(&entities.Meeting{})

	if filter.Platform != "" {
		query = query.Where("platform = ?", filter.Platform)
	}
	if filter.From != nil {
		query = query.Where("started_at >= ?", filter.From)
	}
	if filter.To != nil {
		query = query.Where("started_at <= ?", filter.To)
	}
	if filter.Search != "" {
		query = query.Where("title ILIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	var meetings []*entities.Meeting
	if err := query.Order("started_at DESC NULLS LAST").
		Limit(limit).Offset(filter.Offset).
		Find(&meetings).Error; err != nil {
		return nil, 0, err
	}
	return meetings, total, nil
}
