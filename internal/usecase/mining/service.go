package mining

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cirrusops/conversation-miner/internal/domain/entities"
	"github.com/cirrusops/conversation-miner/internal/domain/repositories"
	usecaseErrors "github.com/cirrusops/conversation-miner/internal/usecase/errors"
	"github.com/cirrusops/conversation-miner/pkg/ai"
	"github.com/cirrusops/conversation-miner/pkg/config"
)

// DefaultProfileName is used when a caller does not name a profile.
const DefaultProfileName = "default"

// ModelClient is the LLM surface the mining engines call. Implemented by
// ai.AnthropicClient. GenerateText returns ai.ErrEmptyOutput when the
// response carries no text blocks.
type ModelClient interface {
	ExtractWithTool(ctx context.Context, system, user string, tool ai.Tool, maxTokens int) (json.RawMessage, bool, error)
	GenerateText(ctx context.Context, system, user string, maxTokens int) (string, error)
	Model() string
}

// Brief carries campaign brief fields appended to a generation prompt.
// Only non-empty fields are rendered.
type Brief struct {
	Objective      string   `json:"objective,omitempty"`
	KeyMessages    []string `json:"key_messages,omitempty"`
	TargetPersonas []string `json:"target_personas,omitempty"`
	ToneGuidance   string   `json:"tone_guidance,omitempty"`
}

// GenerationFailure records one content type that failed during a batch run.
type GenerationFailure struct {
	ContentType string `json:"content_type"`
	Error       string `json:"error"`
}

// Service defines transcript mining methods
type Service interface {
	// ExtractStories mines a meeting's transcript into persisted stories
	// using the named profile. Returns the inserted rows in insertion order.
	ExtractStories(ctx context.Context, orgID string, meetingID uuid.UUID, profileName string) ([]*entities.ExtractedStory, error)

	// GenerateContent renders one content type for a story and persists a
	// draft. brief may be nil.
	GenerateContent(ctx context.Context, orgID string, storyID uuid.UUID, contentType, profileName string, brief *Brief) (*entities.GeneratedContent, error)

	// BatchGenerate validates every requested type up front, then generates
	// each independently. Per-type failures do not abort the batch; callers
	// compare the result count against the request to detect partial
	// success.
	BatchGenerate(ctx context.Context, orgID string, storyID uuid.UUID, contentTypes []string, profileName string) ([]*entities.GeneratedContent, []GenerationFailure, error)

	// Regenerate re-runs generation for an existing content row, linking
	// the new row to it and advancing the version lineage. contentType
	// overrides the original's type when non-empty.
	Regenerate(ctx context.Context, orgID string, contentID uuid.UUID, contentType string) (*entities.GeneratedContent, error)

	// GetStory retrieves one extracted story
	GetStory(ctx context.Context, id uuid.UUID) (*entities.ExtractedStory, error)

	// ListStories retrieves stories matching the filter, newest first
	ListStories(ctx context.Context, filter repositories.StoryFilter) ([]*entities.ExtractedStory, int64, error)

	// ContentForStory retrieves a story's generated content, newest
	// version first
	ContentForStory(ctx context.Context, storyID uuid.UUID) ([]*entities.GeneratedContent, error)

	// UpdateContentStatus moves a content row through its editorial states
	UpdateContentStatus(ctx context.Context, id uuid.UUID, status entities.ContentStatus) error
}

type miningService struct {
	profileRepo     repositories.MiningProfileRepository
	meetingRepo     repositories.MeetingRepository
	transcriptRepo  repositories.TranscriptRepository
	participantRepo repositories.ParticipantRepository
	storyRepo       repositories.ExtractedStoryRepository
	contentRepo     repositories.GeneratedContentRepository
	model           ModelClient
	logger          *zap.Logger

	knowledgeMaxChars int
}

// NewService constructs the mining service
func NewService(
	profileRepo repositories.MiningProfileRepository,
	meetingRepo repositories.MeetingRepository,
	transcriptRepo repositories.TranscriptRepository,
	participantRepo repositories.ParticipantRepository,
	storyRepo repositories.ExtractedStoryRepository,
	contentRepo repositories.GeneratedContentRepository,
	model ModelClient,
	cfg *config.Config,
	logger *zap.Logger,
) Service {
	maxChars := 80000
	if cfg != nil && cfg.Mining.KnowledgeMaxChars > 0 {
		maxChars = cfg.Mining.KnowledgeMaxChars
	}
	return &miningService{
		profileRepo:       profileRepo,
		meetingRepo:       meetingRepo,
		transcriptRepo:    transcriptRepo,
		participantRepo:   participantRepo,
		storyRepo:         storyRepo,
		contentRepo:       contentRepo,
		model:             model,
		logger:            logger,
		knowledgeMaxChars: maxChars,
	}
}

// resolveProfile loads a profile by (org, name) with its content types and
// knowledge docs. An empty name resolves the org's default profile.
func (s *miningService) resolveProfile(ctx context.Context, orgID, name string) (*entities.MiningProfile, error) {
	if name == "" {
		name = DefaultProfileName
	}
	profile, err := s.profileRepo.FindByOrgAndName(ctx, orgID, name)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("%w: %q", usecaseErrors.ErrProfileNotFound, name)
	}
	return profile, nil
}

// extractionSystemPrompt grounds the profile's extraction prompt with its
// qualifying knowledge docs.
func (s *miningService) extractionSystemPrompt(profile *entities.MiningProfile) string {
	base := profile.ExtractionSystemPrompt
	if base == "" {
		base = DefaultExtractionSystemPrompt
	}
	knowledge := assembleKnowledge(profile.KnowledgeDocs, entities.KnowledgeUsageExtraction, s.knowledgeMaxChars)
	if knowledge == "" {
		return base
	}
	return base + "\n\n" + knowledge
}

// generationSystemPrompt grounds the profile's generation prompt with its
// qualifying knowledge docs.
func (s *miningService) generationSystemPrompt(profile *entities.MiningProfile) string {
	base := profile.GenerationSystemPrompt
	if base == "" {
		base = DefaultGenerationSystemPrompt
	}
	knowledge := assembleKnowledge(profile.KnowledgeDocs, entities.KnowledgeUsageGeneration, s.knowledgeMaxChars)
	if knowledge == "" {
		return base
	}
	return base + "\n\n" + knowledge
}

// GetStory retrieves one extracted story by ID.
func (s *miningService) GetStory(ctx context.Context, id uuid.UUID) (*entities.ExtractedStory, error) {
	story, err := s.storyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if story == nil {
		return nil, usecaseErrors.ErrStoryNotFound
	}
	return story, nil
}

// ListStories retrieves stories matching the filter.
func (s *miningService) ListStories(ctx context.Context, filter repositories.StoryFilter) ([]*entities.ExtractedStory, int64, error) {
	return s.storyRepo.List(ctx, filter)
}

// ContentForStory retrieves a story's content rows.
func (s *miningService) ContentForStory(ctx context.Context, storyID uuid.UUID) ([]*entities.GeneratedContent, error) {
	story, err := s.storyRepo.FindByID(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if story == nil {
		return nil, usecaseErrors.ErrStoryNotFound
	}
	return s.contentRepo.ListByStoryID(ctx, storyID)
}

// UpdateContentStatus moves a content row through its editorial states.
func (s *miningService) UpdateContentStatus(ctx context.Context, id uuid.UUID, status entities.ContentStatus) error {
	content, err := s.contentRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if content == nil {
		return usecaseErrors.ErrContentNotFound
	}
	return s.contentRepo.UpdateStatus(ctx, id, status)
}
