package meeting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/cirrusops/conversation-miner/internal/domain/entities"
	"github.com/cirrusops/conversation-miner/internal/domain/repositories"
	usecaseErrors "github.com/cirrusops/conversation-miner/internal/usecase/errors"
)

type memMeetingRepo struct {
	rows map[uuid.UUID]*entities.Meeting
}

func (r *memMeetingRepo) Upsert(_ context.Context, m *entities.Meeting) error {
	r.rows[m.ID] = m
	return nil
}

func (r *memMeetingRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.Meeting, error) {
	return r.rows[id], nil
}

func (r *memMeetingRepo) FindByPlatformExternalID(_ context.Context, platform entities.Platform, externalID string) (*entities.Meeting, error) {
	for _, m := range r.rows {
		if m.Platform == platform && m.ExternalID == externalID {
			return m, nil
		}
	}
	return nil, nil
}

func (r *memMeetingRepo) List(_ context.Context, _ repositories.MeetingFilter) ([]*entities.Meeting, int64, error) {
	var out []*entities.Meeting
	for _, m := range r.rows {
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

type memParticipantRepo struct {
	rows map[uuid.UUID][]*entities.Participant
}

func (r *memParticipantRepo) ReplaceForMeeting(_ context.Context, meetingID uuid.UUID, participants []*entities.Participant) error {
	r.rows[meetingID] = participants
	return nil
}

func (r *memParticipantRepo) FindByMeetingID(_ context.Context, meetingID uuid.UUID) ([]*entities.Participant, error) {
	return r.rows[meetingID], nil
}

type memTranscriptRepo struct {
	rows map[uuid.UUID]*entities.Transcript
}

func (r *memTranscriptRepo) Upsert(_ context.Context, t *entities.Transcript) error {
	r.rows[t.MeetingID] = t
	return nil
}

func (r *memTranscriptRepo) FindByMeetingID(_ context.Context, meetingID uuid.UUID) (*entities.Transcript, error) {
	return r.rows[meetingID], nil
}

type memMediaRepo struct {
	rows map[uuid.UUID][]*entities.MediaFile
}

func (r *memMediaRepo) Upsert(_ context.Context, m *entities.MediaFile) error {
	r.rows[m.MeetingID] = append(r.rows[m.MeetingID], m)
	return nil
}

func (r *memMediaRepo) FindByMeetingID(_ context.Context, meetingID uuid.UUID) ([]*entities.MediaFile, error) {
	return r.rows[meetingID], nil
}

type stubSigner struct {
	err   error
	calls []string
}

func (s *stubSigner) GetFileURL(_ context.Context, objectName string, _ time.Duration) (string, error) {
	s.calls = append(s.calls, objectName)
	if s.err != nil {
		return "", s.err
	}
	return "https://files.test/" + objectName, nil
}

func newBrowseService(signer URLSigner) (Service, *memMeetingRepo, *memParticipantRepo, *memTranscriptRepo, *memMediaRepo) {
	meetings := &memMeetingRepo{rows: map[uuid.UUID]*entities.Meeting{}}
	participants := &memParticipantRepo{rows: map[uuid.UUID][]*entities.Participant{}}
	transcripts := &memTranscriptRepo{rows: map[uuid.UUID]*entities.Transcript{}}
	media := &memMediaRepo{rows: map[uuid.UUID][]*entities.MediaFile{}}
	svc := NewService(meetings, participants, transcripts, media, signer, nil)
	return svc, meetings, participants, transcripts, media
}

func TestGetDetailAggregatesMeetingRecords(t *testing.T) {
	signer := &stubSigner{}
	svc, meetings, participants, transcripts, media := newBrowseService(signer)

	m := entities.NewMeeting(entities.PlatformGong, "call-1")
	m.Title = "QBR with Acme"
	meetings.rows[m.ID] = m
	participants.rows[m.ID] = []*entities.Participant{
		{ID: uuid.New(), MeetingID: m.ID, Name: "Dana Reeve", IsCustomer: true},
	}
	tr := entities.NewTranscript(m.ID)
	tr.FullText = "We love the product"
	transcripts.rows[m.ID] = tr
	media.rows[m.ID] = []*entities.MediaFile{
		entities.NewMediaFile(m.ID, "audio", "gong/call-1/audio.mp3"),
	}

	detail, err := svc.GetDetail(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("GetDetail() error = %v", err)
	}
	if detail.Meeting.Title != "QBR with Acme" {
		t.Fatalf("meeting title = %q", detail.Meeting.Title)
	}
	if len(detail.Participants) != 1 || !detail.Participants[0].IsCustomer {
		t.Fatalf("participants = %+v", detail.Participants)
	}
	if detail.Transcript == nil || detail.Transcript.FullText != "We love the product" {
		t.Fatalf("transcript = %+v", detail.Transcript)
	}
	if len(detail.Media) != 1 {
		t.Fatalf("media = %+v", detail.Media)
	}
	if detail.Media[0].URL != "https://files.test/gong/call-1/audio.mp3" {
		t.Fatalf("media URL = %q", detail.Media[0].URL)
	}
}

func TestGetDetailMissingMeeting(t *testing.T) {
	svc, _, _, _, _ := newBrowseService(&stubSigner{})

	_, err := svc.GetDetail(context.Background(), uuid.New())
	if !errors.Is(err, usecaseErrors.ErrMeetingNotFound) {
		t.Fatalf("GetDetail() error = %v, want ErrMeetingNotFound", err)
	}
}

func TestGetDetailToleratesMissingTranscriptAndSigningFailure(t *testing.T) {
	signer := &stubSigner{err: errors.New("minio down")}
	svc, meetings, _, _, media := newBrowseService(signer)

	m := entities.NewMeeting(entities.PlatformZoom, "rec-9")
	meetings.rows[m.ID] = m
	media.rows[m.ID] = []*entities.MediaFile{
		entities.NewMediaFile(m.ID, "video", "zoom/rec-9/video.mp4"),
	}

	detail, err := svc.GetDetail(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("GetDetail() error = %v", err)
	}
	if detail.Transcript != nil {
		t.Fatalf("transcript = %+v, want nil", detail.Transcript)
	}
	if len(detail.Media) != 1 || detail.Media[0].URL != "" {
		t.Fatalf("media = %+v, want record kept with empty URL", detail.Media)
	}
	if detail.Media[0].File.ObjectPath != "zoom/rec-9/video.mp4" {
		t.Fatalf("media path = %q", detail.Media[0].File.ObjectPath)
	}
}
