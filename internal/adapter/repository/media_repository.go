package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cirrusops/conversation-miner/internal/domain/entities"
)

// MediaFileRepository handles media record data operations
type MediaFileRepository struct {
	db *gorm.DB
}

// NewMediaFileRepository creates a new media file repository
func NewMediaFileRepository(db *gorm.DB) *MediaFileRepository {
	return &MediaFileRepository{db: db}
}

// Upsert inserts the media record or updates the row sharing its
// (meeting_id, media_kind) key
func (r *MediaFileRepository) Upsert(ctx context.Context, media *entities.MediaFile) error {
	if media == nil {
		return errors.New("media file cannot be nil")
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "meeting_id"}, {Name: "media_kind"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"object_path", "content_type", "size_bytes",
		}),
	}).Create(media).Error
}

// FindByMeetingID retrieves all media records of a meeting
func (r *MediaFileRepository) FindByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]*entities.MediaFile, error) {
	var media []*entities.MediaFile
	if err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("media_kind ASC").
		Find(&media).Error; err != nil {
		return nil, err
	}
	return media, nil
}
