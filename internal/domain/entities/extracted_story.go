package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Sentiment classifies the overall tone of an extracted story.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
	SentimentMixed    Sentiment = "mixed"
)

// IsValid reports whether the sentiment is one of the allowed values.
func (s Sentiment) IsValid() bool {
	switch s {
	case SentimentPositive, SentimentNegative, SentimentNeutral, SentimentMixed:
		return true
	}
	return false
}

// ExtractedStory is one customer story mined from a meeting transcript.
// Rows are immutable once inserted; RawAnalysis keeps the verbatim model
// payload for audit.
type ExtractedStory struct {
	ID              uuid.UUID                                  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID       uuid.UUID                                  `json:"meeting_id" gorm:"type:uuid;not null;index"`
	ProfileID       uuid.UUID                                  `json:"profile_id" gorm:"type:uuid;not null;index"`
	OrgID           string                                     `json:"org_id,omitempty" gorm:"type:varchar(255);index"`
	Title           string                                     `json:"title" gorm:"type:text;not null"`
	Summary         string                                     `json:"summary" gorm:"type:text"`
	StoryText       string                                     `json:"story_text" gorm:"type:text"`
	Themes          []string                                   `json:"themes,omitempty" gorm:"type:jsonb;serializer:json"`
	CustomerName    string                                     `json:"customer_name,omitempty" gorm:"type:varchar(255)"`
	CustomerCompany string                                     `json:"customer_company,omitempty" gorm:"type:varchar(255)"`
	Sentiment       Sentiment                                  `json:"sentiment,omitempty" gorm:"type:varchar(20)"`
	ConfidenceScore float64                                    `json:"confidence_score"`
	RawAnalysis     datatypes.JSONType[map[string]interface{}] `json:"raw_analysis,omitempty" gorm:"type:jsonb;serializer:json"`
	CreatedAt       time.Time                                  `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (ExtractedStory) TableName() string {
	return "extracted_stories"
}

// NewExtractedStory creates a story tied to a meeting and profile
func NewExtractedStory(meetingID, profileID uuid.UUID) *ExtractedStory {
	return &ExtractedStory{
		ID:        uuid.New(),
		MeetingID: meetingID,
		ProfileID: profileID,
		CreatedAt: time.Now(),
	}
}
