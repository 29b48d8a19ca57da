package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Meeting is a recorded conversation ingested from an external platform.
// (platform, external_id) is the stable dedup key: re-syncing the same
// source record updates this row, never duplicates it.
type Meeting struct {
	ID              uuid.UUID                                  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Platform        Platform                                   `json:"platform" gorm:"type:varchar(20);not null;uniqueIndex:idx_meetings_platform_external,priority:1"`
	ExternalID      string                                     `json:"external_id" gorm:"type:varchar(255);not null;uniqueIndex:idx_meetings_platform_external,priority:2"`
	Title           string                                     `json:"title" gorm:"type:text"`
	StartedAt       *time.Time                                 `json:"started_at,omitempty" gorm:"index"`
	EndedAt         *time.Time                                 `json:"ended_at,omitempty"`
	DurationSeconds int                                        `json:"duration_seconds"`
	HostName        string                                     `json:"host_name,omitempty" gorm:"type:varchar(255)"`
	HostEmail       string                                     `json:"host_email,omitempty" gorm:"type:varchar(255)"`
	RawMetadata     datatypes.JSONType[map[string]interface{}] `json:"raw_metadata,omitempty" gorm:"type:jsonb;serializer:json"`
	CreatedAt       time.Time                                  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time                                  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Meeting) TableName() string {
	return "meetings"
}

// NewMeeting creates a meeting keyed to its platform source record
func NewMeeting(platform Platform, externalID string) *Meeting {
	return &Meeting{
		ID:         uuid.New(),
		Platform:   platform,
		ExternalID: externalID,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
}
