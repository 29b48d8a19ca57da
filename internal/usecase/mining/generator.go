package mining

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cirrusops/conversation-miner/internal/domain/entities"
	usecaseErrors "github.com/cirrusops/conversation-miner/internal/usecase/errors"
	"github.com/cirrusops/conversation-miner/pkg/ai"
)

// GenerateContent renders one content type for a story and persists a draft.
func (s *miningService) GenerateContent(ctx context.Context, orgID string, storyID uuid.UUID, contentType, profileName string, brief *Brief) (*entities.GeneratedContent, error) {
	story, err := s.loadStory(ctx, storyID)
	if err != nil {
		return nil, err
	}
	profile, err := s.resolveProfile(ctx, orgID, profileName)
	if err != nil {
		return nil, err
	}

	content, err := s.renderContent(ctx, orgID, story, profile, contentType, brief)
	if err != nil {
		return nil, err
	}

	if err := s.contentRepo.Create(ctx, content); err != nil {
		return nil, fmt.Errorf("insert content: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("📝 Content generated",
			zap.String("story_id", storyID.String()),
			zap.String("content_type", content.ContentType),
			zap.Int("characters", len(content.Content)),
		)
	}
	return content, nil
}

// BatchGenerate validates the story and every requested type up front, then
// generates each type independently, continuing past per-type failures.
func (s *miningService) BatchGenerate(ctx context.Context, orgID string, storyID uuid.UUID, contentTypes []string, profileName string) ([]*entities.GeneratedContent, []GenerationFailure, error) {
	story, err := s.loadStory(ctx, storyID)
	if err != nil {
		return nil, nil, err
	}
	profile, err := s.resolveProfile(ctx, orgID, profileName)
	if err != nil {
		return nil, nil, err
	}

	var invalid []string
	for _, name := range contentTypes {
		if profile.FindContentType(name) == nil {
			invalid = append(invalid, name)
		}
	}
	if len(invalid) > 0 {
		return nil, nil, fmt.Errorf("%w: invalid content type(s) %s (available: %s)",
			usecaseErrors.ErrInvalidInput,
			strings.Join(invalid, ", "),
			strings.Join(profile.ContentTypeNames(), ", "),
		)
	}

	var (
		results  []*entities.GeneratedContent
		failures []GenerationFailure
	)
	for _, name := range contentTypes {
		content, err := s.renderContent(ctx, orgID, story, profile, name, nil)
		if err == nil {
			err = s.contentRepo.Create(ctx, content)
		}
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("⚠️ Batch item failed",
					zap.String("story_id", storyID.String()),
					zap.String("content_type", name),
					zap.Error(err),
				)
			}
			failures = append(failures, GenerationFailure{ContentType: name, Error: err.Error()})
			continue
		}
		results = append(results, content)
	}

	if s.logger != nil {
		s.logger.Info("📦 Batch generation completed",
			zap.String("story_id", storyID.String()),
			zap.Int("requested", len(contentTypes)),
			zap.Int("succeeded", len(results)),
		)
	}
	return results, failures, nil
}

// Regenerate re-runs generation for an existing content row. The new row
// points at the original through ParentID and takes the next version in the
// (story, content type) lineage.
func (s *miningService) Regenerate(ctx context.Context, orgID string, contentID uuid.UUID, contentType string) (*entities.GeneratedContent, error) {
	original, err := s.contentRepo.FindByID(ctx, contentID)
	if err != nil {
		return nil, err
	}
	if original == nil {
		return nil, fmt.Errorf("%w: %s", usecaseErrors.ErrContentNotFound, contentID)
	}

	story, err := s.loadStory(ctx, original.StoryID)
	if err != nil {
		return nil, err
	}

	if contentType == "" {
		contentType = original.ContentType
	}

	// The original's profile wins; fall back to the org default when the
	// row predates profile tracking or the profile was deleted.
	var profile *entities.MiningProfile
	if original.ProfileID != uuid.Nil {
		profile, err = s.profileRepo.FindByID(ctx, original.ProfileID)
		if err != nil {
			return nil, fmt.Errorf("load profile: %w", err)
		}
	}
	if profile == nil {
		profile, err = s.resolveProfile(ctx, orgID, DefaultProfileName)
		if err != nil {
			return nil, err
		}
	}

	content, err := s.renderContent(ctx, orgID, story, profile, contentType, nil)
	if err != nil {
		return nil, err
	}

	maxVersion, err := s.contentRepo.MaxVersion(ctx, story.ID, content.ContentType)
	if err != nil {
		return nil, fmt.Errorf("resolve version: %w", err)
	}
	content.Version = maxVersion + 1
	content.ParentID = &original.ID

	if err := s.contentRepo.Create(ctx, content); err != nil {
		return nil, fmt.Errorf("insert content: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("🔁 Content regenerated",
			zap.String("parent_id", original.ID.String()),
			zap.String("content_type", content.ContentType),
			zap.Int("version", content.Version),
		)
	}
	return content, nil
}

func (s *miningService) loadStory(ctx context.Context, storyID uuid.UUID) (*entities.ExtractedStory, error) {
	story, err := s.storyRepo.FindByID(ctx, storyID)
	if err != nil {
		return nil, fmt.Errorf("load story: %w", err)
	}
	if story == nil {
		return nil, fmt.Errorf("%w: %s", usecaseErrors.ErrStoryNotFound, storyID)
	}
	return story, nil
}

// renderContent runs the model for one (story, content type) pair and builds
// the draft row. The caller persists it, adjusting version lineage first
// where needed.
func (s *miningService) renderContent(ctx context.Context, orgID string, story *entities.ExtractedStory, profile *entities.MiningProfile, contentType string, brief *Brief) (*entities.GeneratedContent, error) {
	ct := profile.FindContentType(contentType)
	if ct == nil {
		return nil, fmt.Errorf("%w: %q (available: %s)",
			usecaseErrors.ErrContentTypeNotConfigured,
			contentType,
			strings.Join(profile.ContentTypeNames(), ", "),
		)
	}

	template := PromptTemplate{Text: ct.PromptTemplate}
	user, err := template.Render(map[string]string{
		"title":            story.Title,
		"summary":          story.Summary,
		"story_text":       story.StoryText,
		"customer_name":    orUnknown(story.CustomerName),
		"customer_company": orUnknown(story.CustomerCompany),
		"themes":           strings.Join(story.Themes, ", "),
	})
	if err != nil {
		return nil, err
	}
	user += brief.block()

	system := s.generationSystemPrompt(profile)

	text, err := s.model.GenerateText(ctx, system, user, ct.TokenBudget())
	if err != nil {
		if errors.Is(err, ai.ErrEmptyOutput) {
			return nil, fmt.Errorf("%w: %s for story %s", usecaseErrors.ErrEmptyModelOutput, contentType, story.ID)
		}
		return nil, fmt.Errorf("generate %s: %w", contentType, err)
	}

	content := entities.NewGeneratedContent(story.ID, ct.Name)
	content.ProfileID = profile.ID
	content.OrgID = orgID
	content.PlatformTarget = ct.PlatformTarget()
	content.Content = text
	content.ModelUsed = s.model.Model()
	return content, nil
}

func orUnknown(value string) string {
	if value == "" {
		return "Unknown"
	}
	return value
}

// block renders the brief fields as a delimited suffix for the user prompt.
// Returns "" when the brief is nil or entirely empty.
func (b *Brief) block() string {
	if b == nil {
		return ""
	}

	var parts []string
	if b.Objective != "" {
		parts = append(parts, "Content Objective: "+b.Objective)
	}
	if len(b.KeyMessages) > 0 {
		lines := make([]string, 0, len(b.KeyMessages))
		for _, message := range b.KeyMessages {
			lines = append(lines, "- "+message)
		}
		parts = append(parts, "Key Messages:\n"+strings.Join(lines, "\n"))
	}
	if len(b.TargetPersonas) > 0 {
		parts = append(parts, "Target Personas: "+strings.Join(b.TargetPersonas, ", "))
	}
	if b.ToneGuidance != "" {
		parts = append(parts, "Tone Guidance: "+b.ToneGuidance)
	}

	if len(parts) == 0 {
		return ""
	}
	return "\n\n--- Content Brief Context ---\n" + strings.Join(parts, "\n\n")
}
