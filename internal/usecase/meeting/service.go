package meeting

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cirrusops/conversation-miner/internal/domain/entities"
	"github.com/cirrusops/conversation-miner/internal/domain/repositories"
	usecaseErrors "github.com/cirrusops/conversation-miner/internal/usecase/errors"
)

// mediaURLExpiry bounds the lifetime of presigned media links handed to
// browse clients.
const mediaURLExpiry = 1 * time.Hour

// URLSigner issues short-lived download links for stored objects.
type URLSigner interface {
	GetFileURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
}

// MediaItem pairs a stored media record with a presigned download URL.
// URL is empty when signing failed; the record itself is still returned.
type MediaItem struct {
	File *entities.MediaFile
	URL  string
}

// Detail aggregates everything stored for one meeting.
type Detail struct {
	Meeting      *entities.Meeting
	Participants []*entities.Participant
	Transcript   *entities.Transcript
	Media        []MediaItem
}

// Service defines meeting browse methods
type Service interface {
	// List retrieves meetings matching the filter, newest first
	List(ctx context.Context, filter repositories.MeetingFilter) ([]*entities.Meeting, int64, error)

	// GetDetail retrieves a meeting with its participants, transcript and
	// media links
	GetDetail(ctx context.Context, id uuid.UUID) (*Detail, error)
}

type meetingService struct {
	meetingRepo     repositories.MeetingRepository
	participantRepo repositories.ParticipantRepository
	transcriptRepo  repositories.TranscriptRepository
	mediaRepo       repositories.MediaFileRepository
	signer          URLSigner
	logger          *zap.Logger
}

// NewService constructs the meeting browse service
func NewService(
	meetingRepo repositories.MeetingRepository,
	participantRepo repositories.ParticipantRepository,
	transcriptRepo repositories.TranscriptRepository,
	mediaRepo repositories.MediaFileRepository,
	signer URLSigner,
	logger *zap.Logger,
) Service {
	return &meetingService{
		meetingRepo:     meetingRepo,
		participantRepo: participantRepo,
		transcriptRepo:  transcriptRepo,
		mediaRepo:       mediaRepo,
		signer:          signer,
		logger:          logger,
	}
}

// List retrieves meetings matching the filter.
func (s *meetingService) List(ctx context.Context, filter repositories.MeetingFilter) ([]*entities.Meeting, int64, error) {
	return s.meetingRepo.List(ctx, filter)
}

// GetDetail retrieves one meeting with everything stored for it. A missing
// transcript is not an error here; browse callers see what exists.
func (s *meetingService) GetDetail(ctx context.Context, id uuid.UUID) (*Detail, error) {
	meeting, err := s.meetingRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load meeting: %w", err)
	}
	if meeting == nil {
		return nil, fmt.Errorf("%w: %s", usecaseErrors.ErrMeetingNotFound, id)
	}

	participants, err := s.participantRepo.FindByMeetingID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load participants: %w", err)
	}

	transcript, err := s.transcriptRepo.FindByMeetingID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load transcript: %w", err)
	}

	mediaRows, err := s.mediaRepo.FindByMeetingID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load media: %w", err)
	}

	media := make([]MediaItem, 0, len(mediaRows))
	for _, row := range mediaRows {
		item := MediaItem{File: row}
		if s.signer != nil {
			url, err := s.signer.GetFileURL(ctx, row.ObjectPath, mediaURLExpiry)
			if err != nil {
				if s.logger != nil {
					s.logger.Warn("⚠️ Failed to presign media URL",
						zap.String("object_path", row.ObjectPath),
						zap.Error(err),
					)
				}
			} else {
				item.URL = url
			}
		}
		media = append(media, item)
	}

	return &Detail{
		Meeting:      meeting,
		Participants: participants,
		Transcript:   transcript,
		Media:        media,
	}, nil
}
