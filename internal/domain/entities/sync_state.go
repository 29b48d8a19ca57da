package entities

import (
	"time"

	"github.com/google/uuid"
)

// SyncStatus is the lifecycle state of a platform's sync engine.
type SyncStatus string

const (
	SyncStatusIdle    SyncStatus = "idle"
	SyncStatusRunning SyncStatus = "running"
	SyncStatusError   SyncStatus = "error"
)

// SyncState is the singleton per-platform sync bookkeeping row. It is
// created once per platform and never deleted; every sync run transitions
// idle -> running -> {idle, error}. A row stuck in "running" past the lease
// window is evidence of an unclean shutdown and may be taken over.
type SyncState struct {
	ID           uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Platform     Platform   `json:"platform" gorm:"type:varchar(20);not null;uniqueIndex"`
	Status       SyncStatus `json:"status" gorm:"type:varchar(20);not null;default:'idle'"`
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`
	LastCursor   string     `json:"last_cursor,omitempty" gorm:"type:text"`
	TotalSynced  int        `json:"total_synced" gorm:"default:0"`
	ErrorMessage string     `json:"error_message,omitempty" gorm:"type:text"`
	CreatedAt    time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (SyncState) TableName() string {
	return "sync_states"
}

// NewSyncState creates the bookkeeping row for a platform
func NewSyncState(platform Platform) *SyncState {
	return &SyncState{
		ID:        uuid.New(),
		Platform:  platform,
		Status:    SyncStatusIdle,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}
