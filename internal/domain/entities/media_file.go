package entities

import (
	"time"

	"github.com/google/uuid"
)

// MediaFile records one media artifact stored in the object store.
// ObjectPath follows {platform}/{external_id}/{media_kind}.{ext}.
type MediaFile struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID   uuid.UUID `json:"meeting_id" gorm:"type:uuid;not null;uniqueIndex:idx_media_meeting_kind,priority:1"`
	MediaKind   string    `json:"media_kind" gorm:"type:varchar(100);not null;uniqueIndex:idx_media_meeting_kind,priority:2"`
	ObjectPath  string    `json:"object_path" gorm:"type:text;not null"`
	ContentType string    `json:"content_type" gorm:"type:varchar(100)"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (MediaFile) TableName() string {
	return "media_files"
}

// NewMediaFile creates a media record for a stored artifact
func NewMediaFile(meetingID uuid.UUID, mediaKind, objectPath string) *MediaFile {
	return &MediaFile{
		ID:         uuid.New(),
		MeetingID:  meetingID,
		MediaKind:  mediaKind,
		ObjectPath: objectPath,
		CreatedAt:  time.Now(),
	}
}
