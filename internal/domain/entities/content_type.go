package entities

import (
	"time"

	"github.com/google/uuid"
)

// DefaultMaxTokens caps generation output when a content type sets none.
const DefaultMaxTokens = 4096

// ContentTypeDefinition configures one generatable content format on a
// profile (e.g. linkedin_post, blog_post). Name is unique per profile; the
// text before its first underscore doubles as the platform target.
type ContentTypeDefinition struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProfileID      uuid.UUID `json:"profile_id" gorm:"type:uuid;not null;uniqueIndex:idx_content_types_profile_name,priority:1"`
	Name           string    `json:"name" gorm:"type:varchar(100);not null;uniqueIndex:idx_content_types_profile_name,priority:2"`
	PromptTemplate string    `json:"prompt_template" gorm:"type:text;not null"`
	MaxTokens      int       `json:"max_tokens" gorm:"default:4096"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (ContentTypeDefinition) TableName() string {
	return "content_types"
}

// TokenBudget returns the configured max tokens, or the default when unset.
func (ct *ContentTypeDefinition) TokenBudget() int {
	if ct.MaxTokens <= 0 {
		return DefaultMaxTokens
	}
	return ct.MaxTokens
}

// PlatformTarget derives the destination platform from the type name:
// everything before the first underscore, or the whole name without one.
func (ct *ContentTypeDefinition) PlatformTarget() string {
	for i := 0; i < len(ct.Name); i++ {
		if ct.Name[i] == '_' {
			return ct.Name[:i]
		}
	}
	return ct.Name
}
