package entities

import (
	"time"

	"github.com/google/uuid"
)

// KnowledgeUsage restricts which prompts a knowledge doc grounds.
type KnowledgeUsage string

const (
	KnowledgeUsageExtraction KnowledgeUsage = "extraction"
	KnowledgeUsageGeneration KnowledgeUsage = "generation"
	KnowledgeUsageBoth       KnowledgeUsage = "both"
)

// AppliesTo reports whether the doc qualifies for the requested usage.
func (u KnowledgeUsage) AppliesTo(usage KnowledgeUsage) bool {
	return u == usage || u == KnowledgeUsageBoth
}

// KnowledgeDoc is grounding text attached to a profile. Docs are injected
// into system prompts in ascending SortOrder until the character budget
// runs out.
type KnowledgeDoc struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProfileID   uuid.UUID      `json:"profile_id" gorm:"type:uuid;not null;index"`
	Name        string         `json:"name" gorm:"type:varchar(255);not null"`
	DisplayName string         `json:"display_name" gorm:"type:varchar(255)"`
	Content     string         `json:"content" gorm:"type:text"`
	Usage       KnowledgeUsage `json:"usage" gorm:"type:varchar(20);default:'both'"`
	SortOrder   int            `json:"sort_order" gorm:"default:0;index"`
	CreatedAt   time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (KnowledgeDoc) TableName() string {
	return "knowledge_docs"
}

// Heading returns the section heading used when the doc is rendered into a
// prompt, preferring the display name.
func (d *KnowledgeDoc) Heading() string {
	if d.DisplayName != "" {
		return d.DisplayName
	}
	return d.Name
}
