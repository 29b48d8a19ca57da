package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/cirrusops/conversation-miner/internal/domain/entities"
)

// MeetingFilter narrows meeting listings
type MeetingFilter struct {
	Platform entities.Platform
	From     *time.Time
	To       *time.Time
	Search   string // matched against title
	Limit    int
	Offset   int
}

// MeetingRepository defines the interface for meeting data access
type MeetingRepository interface {
	// Upsert inserts the meeting or updates the existing row sharing its
	// (platform, external_id) key. The meeting's ID is rewritten to the
	// surviving row's ID.
	Upsert(ctx context.Context, meeting *entities.Meeting) error

	// FindByID retrieves a meeting by ID
	FindByID(ctx context.Context, id uuid.UUID) (*entities.Meeting, error)

	// FindByPlatformExternalID retrieves a meeting by its dedup key
	FindByPlatformExternalID(ctx context.Context, platform entities.Platform, externalID string) (*entities.Meeting, error)

	// List retrieves meetings matching the filter, newest first
	List(ctx context.Context, filter MeetingFilter) ([]*entities.Meeting, int64, error)
}
