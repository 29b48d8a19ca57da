package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DefaultConfidenceThreshold is applied when a profile does not set one.
const DefaultConfidenceThreshold = 0.5

// MiningProfile bundles everything the mining engines need for one tenant
// use case: prompts, theme vocabulary, content type templates and grounding
// knowledge. Looked up by (org_id, name).
type MiningProfile struct {
	ID                     uuid.UUID                `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OrgID                  string                   `json:"org_id" gorm:"type:varchar(255);not null;uniqueIndex:idx_profiles_org_name,priority:1"`
	Name                   string                   `json:"name" gorm:"type:varchar(255);not null;uniqueIndex:idx_profiles_org_name,priority:2"`
	Description            string                   `json:"description,omitempty" gorm:"type:text"`
	ExtractionSystemPrompt string                   `json:"extraction_system_prompt" gorm:"type:text"`
	ExtractionUserPrompt   string                   `json:"extraction_user_prompt" gorm:"type:text"`
	GenerationSystemPrompt string                   `json:"generation_system_prompt" gorm:"type:text"`
	ToolSchema             datatypes.JSON           `json:"tool_schema,omitempty" gorm:"type:jsonb"`
	Themes                 []string                 `json:"themes,omitempty" gorm:"type:jsonb;serializer:json"`
	ConfidenceThreshold    float64                  `json:"confidence_threshold" gorm:"default:0.5"`
	ContentTypes           []ContentTypeDefinition  `json:"content_types,omitempty" gorm:"foreignKey:ProfileID"`
	KnowledgeDocs          []KnowledgeDoc           `json:"knowledge_docs,omitempty" gorm:"foreignKey:ProfileID"`
	CreatedAt              time.Time                `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt              time.Time                `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (MiningProfile) TableName() string {
	return "mining_profiles"
}

// NewMiningProfile creates a profile for an org
func NewMiningProfile(orgID, name string) *MiningProfile {
	return &MiningProfile{
		ID:                  uuid.New(),
		OrgID:               orgID,
		Name:                name,
		ConfidenceThreshold: DefaultConfidenceThreshold,
		CreatedAt:           time.Now(),
		UpdatedAt:           time.Now(),
	}
}

// Threshold returns the confidence cutoff, falling back to the default
// when the stored value is outside (0, 1].
func (p *MiningProfile) Threshold() float64 {
	if p.ConfidenceThreshold <= 0 || p.ConfidenceThreshold > 1 {
		return DefaultConfidenceThreshold
	}
	return p.ConfidenceThreshold
}

// ContentTypeNames lists the configured content type names in order.
func (p *MiningProfile) ContentTypeNames() []string {
	names := make([]string, 0, len(p.ContentTypes))
	for _, ct := range p.ContentTypes {
		names = append(names, ct.Name)
	}
	return names
}

// FindContentType returns the content type definition by name, or nil.
func (p *MiningProfile) FindContentType(name string) *ContentTypeDefinition {
	for i := range p.ContentTypes {
		if p.ContentTypes[i].Name == name {
			return &p.ContentTypes[i]
		}
	}
	return nil
}
