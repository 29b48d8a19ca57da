package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TranscriptSource identifies where a transcript came from.
type TranscriptSource string

const (
	TranscriptSourcePlatform   TranscriptSource = "platform"   // delivered by the meeting platform
	TranscriptSourceAssemblyAI TranscriptSource = "assemblyai" // produced by fallback transcription
)

// Segment represents a contiguous speech segment
type Segment struct {
	Speaker   string  `json:"speaker"`
	Text      string  `json:"text"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

// Transcript is the normalized transcript of one meeting.
// Invariant: WordCount == len(strings.Fields(FullText)).
type Transcript struct {
	ID        uuid.UUID                                  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MeetingID uuid.UUID                                  `json:"meeting_id" gorm:"type:uuid;not null;uniqueIndex"`
	FullText  string                                     `json:"full_text" gorm:"type:text"`
	Segments  []Segment                                  `json:"segments,omitempty" gorm:"type:jsonb;serializer:json"`
	WordCount int                                        `json:"word_count"`
	Language  string                                     `json:"language,omitempty" gorm:"type:varchar(20)"`
	Source    TranscriptSource                           `json:"source" gorm:"type:varchar(20);default:'platform'"`
	RawData   datatypes.JSONType[map[string]interface{}] `json:"raw_data,omitempty" gorm:"type:jsonb;serializer:json"`
	CreatedAt time.Time                                  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time                                  `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Transcript) TableName() string {
	return "transcripts"
}

// NewTranscript creates a new transcript for a meeting
func NewTranscript(meetingID uuid.UUID) *Transcript {
	return &Transcript{
		ID:        uuid.New(),
		MeetingID: meetingID,
		Source:    TranscriptSourcePlatform,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}
