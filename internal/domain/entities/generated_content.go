package entities

import (
	"time"

	"github.com/google/uuid"
)

// ContentStatus tracks the editorial state of a generated piece.
type ContentStatus string

const (
	ContentStatusDraft     ContentStatus = "draft"
	ContentStatusReviewed  ContentStatus = "reviewed"
	ContentStatusPublished ContentStatus = "published"
)

// GeneratedContent is one rendered piece of marketing content derived from
// a story. Version lineage is append-only: a regeneration inserts a new row
// with ParentID set and Version = max(existing for story+type)+1.
type GeneratedContent struct {
	ID             uuid.UUID     `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	StoryID        uuid.UUID     `json:"story_id" gorm:"type:uuid;not null;index:idx_content_story_type,priority:1"`
	ProfileID      uuid.UUID     `json:"profile_id" gorm:"type:uuid;index"`
	OrgID          string        `json:"org_id,omitempty" gorm:"type:varchar(255);index"`
	ContentType    string        `json:"content_type" gorm:"type:varchar(100);not null;index:idx_content_story_type,priority:2"`
	PlatformTarget string        `json:"platform_target" gorm:"type:varchar(100)"`
	Content        string        `json:"content" gorm:"type:text;not null"`
	Status         ContentStatus `json:"status" gorm:"type:varchar(20);default:'draft';index"`
	Version        int           `json:"version" gorm:"default:1"`
	ParentID       *uuid.UUID    `json:"parent_id,omitempty" gorm:"type:uuid;index"`
	ModelUsed      string        `json:"model_used,omitempty" gorm:"type:varchar(100)"`
	CreatedAt      time.Time     `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time     `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (GeneratedContent) TableName() string {
	return "generated_content"
}

// NewGeneratedContent creates a draft content row at version 1
func NewGeneratedContent(storyID uuid.UUID, contentType string) *GeneratedContent {
	return &GeneratedContent{
		ID:          uuid.New(),
		StoryID:     storyID,
		ContentType: contentType,
		Status:      ContentStatusDraft,
		Version:     1,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}
