package mining

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/cirrusops/conversation-miner/internal/domain/entities"
	"github.com/cirrusops/conversation-miner/internal/domain/repositories"
	usecaseErrors "github.com/cirrusops/conversation-miner/internal/usecase/errors"
	"github.com/cirrusops/conversation-miner/pkg/ai"
	"github.com/cirrusops/conversation-miner/pkg/config"
)

const testOrg = "org-1"

type modelCall struct {
	system    string
	user      string
	tool      ai.Tool
	maxTokens int
}

type extractReply struct {
	payload string
	invoked bool
	err     error
}

type textReply struct {
	text string
	err  error
}

// scriptedModel serves queued replies and records every call. An empty
// queue answers with a safe default so tests only script what they assert.
type scriptedModel struct {
	mu           sync.Mutex
	extractQueue []extractReply
	textQueue    []textReply
	extractCalls []modelCall
	textCalls    []modelCall
}

func (m *scriptedModel) queueExtract(payload string) {
	m.extractQueue = append(m.extractQueue, extractReply{payload: payload, invoked: true})
}

func (m *scriptedModel) queueExtractSkip() {
	m.extractQueue = append(m.extractQueue, extractReply{})
}

func (m *scriptedModel) queueText(text string) {
	m.textQueue = append(m.textQueue, textReply{text: text})
}

func (m *scriptedModel) queueTextErr(err error) {
	m.textQueue = append(m.textQueue, textReply{err: err})
}

func (m *scriptedModel) ExtractWithTool(_ context.Context, system, user string, tool ai.Tool, maxTokens int) (json.RawMessage, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.extractCalls = append(m.extractCalls, modelCall{system: system, user: user, tool: tool, maxTokens: maxTokens})
	if len(m.extractQueue) == 0 {
		return json.RawMessage(`{"stories": []}`), true, nil
	}
	reply := m.extractQueue[0]
	m.extractQueue = m.extractQueue[1:]
	if reply.err != nil {
		return nil, false, reply.err
	}
	if !reply.invoked {
		return nil, false, nil
	}
	return json.RawMessage(reply.payload), true, nil
}

func (m *scriptedModel) GenerateText(_ context.Context, system, user string, maxTokens int) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.textCalls = append(m.textCalls, modelCall{system: system, user: user, maxTokens: maxTokens})
	if len(m.textQueue) == 0 {
		return "generated copy", nil
	}
	reply := m.textQueue[0]
	m.textQueue = m.textQueue[1:]
	if reply.err != nil {
		return "", reply.err
	}
	return reply.text, nil
}

func (m *scriptedModel) Model() string { return "test-model" }

type memProfileRepo struct {
	mu   sync.Mutex
	rows map[string]*entities.MiningProfile
	byID map[uuid.UUID]*entities.MiningProfile
}

func newMemProfileRepo() *memProfileRepo {
	return &memProfileRepo{
		rows: map[string]*entities.MiningProfile{},
		byID: map[uuid.UUID]*entities.MiningProfile{},
	}
}

func profileKey(orgID, name string) string { return orgID + "/" + name }

func (r *memProfileRepo) Create(_ context.Context, profile *entities.MiningProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[profileKey(profile.OrgID, profile.Name)] = profile
	r.byID[profile.ID] = profile
	return nil
}

func (r *memProfileRepo) Update(_ context.Context, profile *entities.MiningProfile) error {
	return r.Create(context.Background(), profile)
}

func (r *memProfileRepo) FindByOrgAndName(_ context.Context, orgID, name string) (*entities.MiningProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[profileKey(orgID, name)], nil
}

func (r *memProfileRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.MiningProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[id], nil
}

func (r *memProfileRepo) ListByOrg(_ context.Context, orgID string) ([]*entities.MiningProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.MiningProfile
	for _, p := range r.byID {
		if p.OrgID == orgID {
			out = append(out, p)
		}
	}
	return out, nil
}

type memMeetingRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*entities.Meeting
}

func (r *memMeetingRepo) Upsert(_ context.Context, m *entities.Meeting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[m.ID] = m
	return nil
}

func (r *memMeetingRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[id], nil
}

func (r *memMeetingRepo) FindByPlatformExternalID(_ context.Context, platform entities.Platform, externalID string) (*entities.Meeting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.rows {
		if m.Platform == platform && m.ExternalID == externalID {
			return m, nil
		}
	}
	return nil, nil
}

func (r *memMeetingRepo) List(_ context.Context, _ repositories.MeetingFilter) ([]*entities.Meeting, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.Meeting
	for _, m := range r.rows {
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

type memTranscriptRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*entities.Transcript
}

func (r *memTranscriptRepo) Upsert(_ context.Context, t *entities.Transcript) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[t.MeetingID] = t
	return nil
}

func (r *memTranscriptRepo) FindByMeetingID(_ context.Context, meetingID uuid.UUID) (*entities.Transcript, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[meetingID], nil
}

type memParticipantRepo struct {
	mu      sync.Mutex
	rows    map[uuid.UUID][]*entities.Participant
	findErr error
}

func (r *memParticipantRepo) ReplaceForMeeting(_ context.Context, meetingID uuid.UUID, participants []*entities.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[meetingID] = participants
	return nil
}

func (r *memParticipantRepo) FindByMeetingID(_ context.Context, meetingID uuid.UUID) ([]*entities.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.rows[meetingID], nil
}

type memStoryRepo struct {
	mu   sync.Mutex
	rows []*entities.ExtractedStory
}

func (r *memStoryRepo) Create(_ context.Context, story *entities.ExtractedStory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, story)
	return nil
}

func (r *memStoryRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.ExtractedStory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.rows {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (r *memStoryRepo) List(_ context.Context, _ repositories.StoryFilter) ([]*entities.ExtractedStory, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows, int64(len(r.rows)), nil
}

type memContentRepo struct {
	mu   sync.Mutex
	rows []*entities.GeneratedContent
}

func (r *memContentRepo) Create(_ context.Context, content *entities.GeneratedContent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, content)
	return nil
}

func (r *memContentRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.GeneratedContent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.rows {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (r *memContentRepo) ListByStoryID(_ context.Context, storyID uuid.UUID) ([]*entities.GeneratedContent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*entities.GeneratedContent
	for _, c := range r.rows {
		if c.StoryID == storyID {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Version > out[j].Version })
	return out, nil
}

func (r *memContentRepo) MaxVersion(_ context.Context, storyID uuid.UUID, contentType string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	max := 0
	for _, c := range r.rows {
		if c.StoryID == storyID && c.ContentType == contentType && c.Version > max {
			max = c.Version
		}
	}
	return max, nil
}

func (r *memContentRepo) UpdateStatus(_ context.Context, id uuid.UUID, status entities.ContentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.rows {
		if c.ID == id {
			c.Status = status
			return nil
		}
	}
	return nil
}

type miningHarness struct {
	profiles     *memProfileRepo
	meetings     *memMeetingRepo
	transcripts  *memTranscriptRepo
	participants *memParticipantRepo
	stories      *memStoryRepo
	contents     *memContentRepo
	model        *scriptedModel
	svc          Service
}

func newMiningHarness() *miningHarness {
	h := &miningHarness{
		profiles:     newMemProfileRepo(),
		meetings:     &memMeetingRepo{rows: map[uuid.UUID]*entities.Meeting{}},
		transcripts:  &memTranscriptRepo{rows: map[uuid.UUID]*entities.Transcript{}},
		participants: &memParticipantRepo{rows: map[uuid.UUID][]*entities.Participant{}},
		stories:      &memStoryRepo{},
		contents:     &memContentRepo{},
		model:        &scriptedModel{},
	}
	cfg := &config.Config{Mining: config.MiningConfig{KnowledgeMaxChars: 80000}}
	h.svc = NewService(h.profiles, h.meetings, h.transcripts, h.participants, h.stories, h.contents, h.model, cfg, nil)
	return h
}

// seedProfile installs the org default profile with small deterministic
// content type templates.
func (h *miningHarness) seedProfile() *entities.MiningProfile {
	profile := entities.NewMiningProfile(testOrg, DefaultProfileName)
	profile.Themes = []string{"pricing", "onboarding"}
	profile.ContentTypes = []entities.ContentTypeDefinition{
		{
			ID:             uuid.New(),
			ProfileID:      profile.ID,
			Name:           "linkedin_post",
			PromptTemplate: "Write about {title} for {customer_name} at {customer_company}. Themes: {themes}. Story: {story_text}",
			MaxTokens:      1024,
		},
		{
			ID:             uuid.New(),
			ProfileID:      profile.ID,
			Name:           "tweet",
			PromptTemplate: "Tweet {title}: {summary}",
			MaxTokens:      512,
		},
		{
			ID:             uuid.New(),
			ProfileID:      profile.ID,
			Name:           "blog_post",
			PromptTemplate: "Blog on {title}. {story_text}",
			MaxTokens:      4096,
		},
	}
	_ = h.profiles.Create(context.Background(), profile)
	return profile
}

func (h *miningHarness) seedMeeting(transcriptText string) *entities.Meeting {
	meeting := entities.NewMeeting(entities.PlatformGong, "call-1")
	meeting.Title = "QBR with Acme"
	started := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	meeting.StartedAt = &started
	h.meetings.rows[meeting.ID] = meeting

	if transcriptText != "" {
		transcript := entities.NewTranscript(meeting.ID)
		transcript.FullText = transcriptText
		transcript.WordCount = len(strings.Fields(transcriptText))
		h.transcripts.rows[meeting.ID] = transcript
	}
	return meeting
}

func (h *miningHarness) seedStory(profileID uuid.UUID) *entities.ExtractedStory {
	story := entities.NewExtractedStory(uuid.New(), profileID)
	story.OrgID = testOrg
	story.Title = "Acme cut onboarding time"
	story.Summary = "Acme onboarded in two days."
	story.StoryText = "We onboarded in two days instead of two weeks."
	story.Themes = []string{"onboarding", "success-story"}
	story.CustomerName = "Dana"
	story.CustomerCompany = "Acme"
	story.Sentiment = entities.SentimentPositive
	story.ConfidenceScore = 0.9
	h.stories.rows = append(h.stories.rows, story)
	return story
}

func TestGetStoryMissing(t *testing.T) {
	h := newMiningHarness()

	_, err := h.svc.GetStory(context.Background(), uuid.New())
	if !errors.Is(err, usecaseErrors.ErrStoryNotFound) {
		t.Fatalf("GetStory() error = %v, want ErrStoryNotFound", err)
	}
}

func TestContentForStoryRequiresStory(t *testing.T) {
	h := newMiningHarness()

	_, err := h.svc.ContentForStory(context.Background(), uuid.New())
	if !errors.Is(err, usecaseErrors.ErrStoryNotFound) {
		t.Fatalf("ContentForStory() error = %v, want ErrStoryNotFound", err)
	}
}

func TestUpdateContentStatus(t *testing.T) {
	h := newMiningHarness()
	profile := h.seedProfile()
	story := h.seedStory(profile.ID)

	content := entities.NewGeneratedContent(story.ID, "linkedin_post")
	h.contents.rows = append(h.contents.rows, content)

	if err := h.svc.UpdateContentStatus(context.Background(), content.ID, entities.ContentStatusReviewed); err != nil {
		t.Fatalf("UpdateContentStatus() error = %v", err)
	}
	if content.Status != entities.ContentStatusReviewed {
		t.Fatalf("status = %q, want reviewed", content.Status)
	}

	err := h.svc.UpdateContentStatus(context.Background(), uuid.New(), entities.ContentStatusPublished)
	if !errors.Is(err, usecaseErrors.ErrContentNotFound) {
		t.Fatalf("UpdateContentStatus() error = %v, want ErrContentNotFound", err)
	}
}
