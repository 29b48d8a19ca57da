package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cirrusops/conversation-miner/internal/domain/entities"
	"github.com/cirrusops/conversation-miner/internal/domain/repositories"
)

// participantRepository implements the ParticipantRepository interface
type participantRepository struct {
	db *gorm.DB
}

// NewParticipantRepository creates a new participant repository
func NewParticipantRepository(db *gorm.DB) repositories.ParticipantRepository {
	return &participantRepository{db: db}
}

// ReplaceForMeeting deletes the meeting's current participant set and
// inserts the given one. Runs in a transaction so a re-sync never leaves a
// meeting with a partial roster.
func (r *participantRepository) ReplaceForMeeting(ctx context.Context, meetingID uuid.UUID, participants []*entities.Participant) error {
	if meetingID == uuid.Nil {
		return errors.New("meeting id cannot be nil")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("meeting_id = ?", meetingID).
			Delete(&entities.Participant{}).Error; err != nil {
			return err
		}
		if len(participants) == 0 {
			return nil
		}
		for _, p := range participants {
			p.MeetingID = meetingID
		}
		return tx.Create(&participants).Error
	})
}

// FindByMeetingID retrieves all participants of a meeting
func (r *participantRepository) FindByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]*entities.Participant, error) {
	var participants []*entities.Participant
	if err := r.db.WithContext(ctx).
		Where("meeting_id = ?", meetingID).
		Order("created_at ASC").
		Find(&participants).Error; err != nil {
		return nil, err
	}
	return participants, nil
}
