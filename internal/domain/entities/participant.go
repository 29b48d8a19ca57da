package entities

import (
	"time"

	"github.com/google/uuid"
)

// Participant is one attendee of a meeting. The participant set of a
// meeting is replaced wholesale on every sync of that meeting.
type Participant struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	MeetingID  uuid.UUID `gorm:"type:uuid;not null;index" json:"meeting_id"`
	Name       string    `gorm:"type:varchar(255)" json:"name"`
	Email      string    `gorm:"type:varchar(255)" json:"email,omitempty"`
	Company    string    `gorm:"type:varchar(255)" json:"company,omitempty"`
	Role       string    `gorm:"type:varchar(100)" json:"role,omitempty"`
	IsCustomer bool      `gorm:"default:false" json:"is_customer"`
	// SpeakerID joins this participant to transcript segments by speaker.
	SpeakerID string    `gorm:"type:varchar(255);index" json:"speaker_id,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName specifies the table name for GORM
func (Participant) TableName() string {
	return "participants"
}

// NewParticipant creates a participant attached to a meeting
func NewParticipant(meetingID uuid.UUID, name string) *Participant {
	return &Participant{
		ID:        uuid.New(),
		MeetingID: meetingID,
		Name:      name,
		CreatedAt: time.Now(),
	}
}
