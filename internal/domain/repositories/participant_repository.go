package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/cirrusops/conversation-miner/internal/domain/entities"
)

// ParticipantRepository defines the interface for participant data access
type ParticipantRepository interface {
	// ReplaceForMeeting deletes the meeting's current participant set and
	// inserts the given one in a single transaction.
	ReplaceForMeeting(ctx context.Context, meetingID uuid.UUID, participants []*entities.Participant) error

	// FindByMeetingID retrieves all participants of a meeting
	FindByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]*entities.Participant, error)
}
