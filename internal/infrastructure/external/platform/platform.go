package platform

import (
	"context"
	"time"
)

// TranscriptFormat identifies the raw transcript payload shape a platform
// returns, so the normalizer can pick the right parser.
type TranscriptFormat string

const (
	// TranscriptFormatVTT is a WebVTT caption file (Zoom).
	TranscriptFormatVTT TranscriptFormat = "vtt"
	// TranscriptFormatGong is Gong's structured speaker/sentence JSON.
	TranscriptFormatGong TranscriptFormat = "gong"
)

// Client is the contract both meeting platforms implement. All calls are
// unary HTTP requests; 429 responses are retried internally with exponential
// backoff (6 attempts total), any other non-2xx status fails immediately.
type Client interface {
	// ListRecordings returns one page of recordings in [from, to]. A zero
	// `to` leaves the upper bound open. Callers follow NextToken until it
	// comes back empty and must not assume a page size.
	ListRecordings(ctx context.Context, from time.Time, to time.Time, pageToken string) (*Page, error)

	// GetParticipants returns the attendee list for a recording.
	GetParticipants(ctx context.Context, rec *Recording) ([]Participant, error)

	// GetTranscript returns the raw transcript artifact, or nil when the
	// recording has none.
	GetTranscript(ctx context.Context, rec *Recording) (*TranscriptPayload, error)

	// ListMedia returns the downloadable media artifacts for a recording.
	ListMedia(ctx context.Context, rec *Recording) ([]MediaArtifact, error)

	// DownloadMedia fetches an artifact's bytes from its platform URL.
	DownloadMedia(ctx context.Context, url string) ([]byte, error)
}

// Page is one page of a recording listing.
type Page struct {
	Recordings []Recording
	NextToken  string
}

// Recording is a platform recording mapped to canonical meeting fields.
// Raw keeps the unmodified platform payload for the meeting's audit blob.
type Recording struct {
	ExternalID      string
	Title           string
	StartedAt       *time.Time
	EndedAt         *time.Time
	DurationSeconds int
	HostName        string
	HostEmail       string
	Raw             map[string]interface{}

	// TranscriptURL is set when the listing payload already carries a
	// transcript artifact URL (Zoom); empty for platforms that expose
	// transcripts through a dedicated endpoint.
	TranscriptURL string

	// Media holds artifacts discovered at listing time. ListMedia may
	// return these or fetch more from the platform.
	Media []MediaArtifact
}

// Participant is a canonical meeting attendee.
type Participant struct {
	Name       string
	Email      string
	Company    string
	Role       string
	IsCustomer bool
	SpeakerID  string
}

// MediaArtifact is one downloadable media file attached to a recording.
type MediaArtifact struct {
	Kind        string // platform recording type, e.g. "audio_only"
	URL         string
	Extension   string // lowercase, no dot
	ContentType string
	SizeBytes   int64
}

// TranscriptPayload is a raw transcript artifact plus the format marker the
// normalizer dispatches on.
type TranscriptPayload struct {
	Format   TranscriptFormat
	Raw      string
	Language string
}

// DirectoryUser is a platform user-directory entry, cached per run so host
// and speaker identity resolution does not refetch the user list per record.
type DirectoryUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
