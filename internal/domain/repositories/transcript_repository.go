package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/cirrusops/conversation-miner/internal/domain/entities"
)

// TranscriptRepository defines the interface for transcript data access
type TranscriptRepository interface {
	// Upsert inserts the transcript or updates the existing row for its
	// meeting_id.
	Upsert(ctx context.Context, transcript *entities.Transcript) error

	// FindByMeetingID retrieves the transcript of a meeting, nil when absent
	FindByMeetingID(ctx context.Context, meetingID uuid.UUID) (*entities.Transcript, error)
}

// MediaFileRepository defines the interface for media record data access
type MediaFileRepository interface {
	// Upsert inserts the media record or updates the row sharing its
	// (meeting_id, media_kind) key.
	Upsert(ctx context.Context, media *entities.MediaFile) error

	// FindByMeetingID retrieves all media records of a meeting
	FindByMeetingID(ctx context.Context, meetingID uuid.UUID) ([]*entities.MediaFile, error)
}
