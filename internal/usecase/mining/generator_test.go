package mining

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/cirrusops/conversation-miner/internal/domain/entities"
	usecaseErrors "github.com/cirrusops/conversation-miner/internal/usecase/errors"
	"github.com/cirrusops/conversation-miner/pkg/ai"
)

func TestGenerateContentPersistsDraft(t *testing.T) {
	h := newMiningHarness()
	profile := h.seedProfile()
	story := h.seedStory(profile.ID)
	h.model.queueText("Here is your post.")

	got, err := h.svc.GenerateContent(context.Background(), testOrg, story.ID, "linkedin_post", "", nil)
	if err != nil {
		t.Fatalf("GenerateContent() error = %v", err)
	}

	if got.StoryID != story.ID || got.ProfileID != profile.ID {
		t.Fatalf("content keys = (%s, %s), want (%s, %s)", got.StoryID, got.ProfileID, story.ID, profile.ID)
	}
	if got.OrgID != testOrg {
		t.Fatalf("content org = %q, want %q", got.OrgID, testOrg)
	}
	if got.ContentType != "linkedin_post" || got.PlatformTarget != "linkedin" {
		t.Fatalf("type/platform = %q/%q", got.ContentType, got.PlatformTarget)
	}
	if got.Content != "Here is your post." {
		t.Fatalf("content = %q", got.Content)
	}
	if got.Status != entities.ContentStatusDraft {
		t.Fatalf("status = %q, want draft", got.Status)
	}
	if got.Version != 1 || got.ParentID != nil {
		t.Fatalf("version/parent = %d/%v, want 1/nil", got.Version, got.ParentID)
	}
	if got.ModelUsed != "test-model" {
		t.Fatalf("model used = %q", got.ModelUsed)
	}

	if len(h.contents.rows) != 1 || h.contents.rows[0].ID != got.ID {
		t.Fatalf("content not persisted: %+v", h.contents.rows)
	}

	if len(h.model.textCalls) != 1 {
		t.Fatalf("model called %d times, want 1", len(h.model.textCalls))
	}
	call := h.model.textCalls[0]
	if call.system != DefaultGenerationSystemPrompt {
		t.Fatalf("system prompt = %q", call.system)
	}
	if call.maxTokens != 1024 {
		t.Fatalf("maxTokens = %d, want the content type's budget", call.maxTokens)
	}
	wantUser := "Write about Acme cut onboarding time for Dana at Acme. " +
		"Themes: onboarding, success-story. " +
		"Story: We onboarded in two days instead of two weeks."
	if call.user != wantUser {
		t.Fatalf("user prompt = %q, want %q", call.user, wantUser)
	}
}

func TestGenerateContentDefaultsUnknownCustomer(t *testing.T) {
	h := newMiningHarness()
	profile := h.seedProfile()
	story := h.seedStory(profile.ID)
	story.CustomerName = ""
	story.CustomerCompany = ""

	if _, err := h.svc.GenerateContent(context.Background(), testOrg, story.ID, "linkedin_post", "", nil); err != nil {
		t.Fatalf("GenerateContent() error = %v", err)
	}
	if !strings.Contains(h.model.textCalls[0].user, "for Unknown at Unknown") {
		t.Fatalf("user prompt missing customer fallbacks:\n%s", h.model.textCalls[0].user)
	}
}

func TestGenerateContentAppendsBrief(t *testing.T) {
	h := newMiningHarness()
	profile := h.seedProfile()
	story := h.seedStory(profile.ID)

	full := &Brief{
		Objective:      "Drive signups",
		KeyMessages:    []string{"Fast onboarding", "Real ROI"},
		TargetPersonas: []string{"CTO", "Head of CS"},
		ToneGuidance:   "Optimistic",
	}
	if _, err := h.svc.GenerateContent(context.Background(), testOrg, story.ID, "linkedin_post", "", full); err != nil {
		t.Fatalf("GenerateContent() error = %v", err)
	}
	wantSuffix := "\n\n--- Content Brief Context ---\n" +
		"Content Objective: Drive signups\n\n" +
		"Key Messages:\n- Fast onboarding\n- Real ROI\n\n" +
		"Target Personas: CTO, Head of CS\n\n" +
		"Tone Guidance: Optimistic"
	if !strings.HasSuffix(h.model.textCalls[0].user, wantSuffix) {
		t.Fatalf("user prompt = %q, want suffix %q", h.model.textCalls[0].user, wantSuffix)
	}

	toneOnly := &Brief{ToneGuidance: "Optimistic"}
	if _, err := h.svc.GenerateContent(context.Background(), testOrg, story.ID, "linkedin_post", "", toneOnly); err != nil {
		t.Fatalf("GenerateContent() error = %v", err)
	}
	if !strings.HasSuffix(h.model.textCalls[1].user, "\n\n--- Content Brief Context ---\nTone Guidance: Optimistic") {
		t.Fatalf("tone-only brief rendered wrong: %q", h.model.textCalls[1].user)
	}

	if _, err := h.svc.GenerateContent(context.Background(), testOrg, story.ID, "linkedin_post", "", &Brief{}); err != nil {
		t.Fatalf("GenerateContent() error = %v", err)
	}
	if strings.Contains(h.model.textCalls[2].user, "Content Brief Context") {
		t.Fatalf("empty brief should add nothing: %q", h.model.textCalls[2].user)
	}
}

func TestGenerateContentUnknownType(t *testing.T) {
	h := newMiningHarness()
	profile := h.seedProfile()
	story := h.seedStory(profile.ID)

	_, err := h.svc.GenerateContent(context.Background(), testOrg, story.ID, "newsletter", "", nil)
	if !errors.Is(err, usecaseErrors.ErrContentTypeNotConfigured) {
		t.Fatalf("GenerateContent() error = %v, want ErrContentTypeNotConfigured", err)
	}
	if !strings.Contains(err.Error(), "newsletter") {
		t.Fatalf("error %q does not name the bad type", err)
	}
	if !strings.Contains(err.Error(), "linkedin_post, tweet, blog_post") {
		t.Fatalf("error %q does not list the configured types", err)
	}
	if len(h.model.textCalls) != 0 || len(h.contents.rows) != 0 {
		t.Fatalf("unknown type still reached the model or storage")
	}
}

func TestGenerateContentEmptyModelOutput(t *testing.T) {
	h := newMiningHarness()
	profile := h.seedProfile()
	story := h.seedStory(profile.ID)
	h.model.queueTextErr(ai.ErrEmptyOutput)

	_, err := h.svc.GenerateContent(context.Background(), testOrg, story.ID, "linkedin_post", "", nil)
	if !errors.Is(err, usecaseErrors.ErrEmptyModelOutput) {
		t.Fatalf("GenerateContent() error = %v, want ErrEmptyModelOutput", err)
	}
	if len(h.contents.rows) != 0 {
		t.Fatalf("empty output still persisted content")
	}
}

func TestGenerateContentMissingStory(t *testing.T) {
	h := newMiningHarness()
	h.seedProfile()

	_, err := h.svc.GenerateContent(context.Background(), testOrg, uuid.New(), "linkedin_post", "", nil)
	if !errors.Is(err, usecaseErrors.ErrStoryNotFound) {
		t.Fatalf("GenerateContent() error = %v, want ErrStoryNotFound", err)
	}
}

func TestBatchGenerateContinuesPastFailures(t *testing.T) {
	h := newMiningHarness()
	profile := h.seedProfile()
	story := h.seedStory(profile.ID)
	h.model.queueText("A post")
	h.model.queueTextErr(errors.New("model melted"))
	h.model.queueText("C blog")

	results, failures, err := h.svc.BatchGenerate(context.Background(), testOrg, story.ID,
		[]string{"linkedin_post", "tweet", "blog_post"}, "")
	if err != nil {
		t.Fatalf("BatchGenerate() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("BatchGenerate() returned %d results, want 2", len(results))
	}
	if results[0].ContentType != "linkedin_post" || results[0].Content != "A post" {
		t.Fatalf("results[0] = %q/%q", results[0].ContentType, results[0].Content)
	}
	if results[1].ContentType != "blog_post" || results[1].Content != "C blog" {
		t.Fatalf("results[1] = %q/%q", results[1].ContentType, results[1].Content)
	}
	if len(failures) != 1 || failures[0].ContentType != "tweet" {
		t.Fatalf("failures = %+v, want one for tweet", failures)
	}
	if !strings.Contains(failures[0].Error, "model melted") {
		t.Fatalf("failure error = %q", failures[0].Error)
	}
	if len(h.contents.rows) != 2 {
		t.Fatalf("persisted %d rows, want 2", len(h.contents.rows))
	}
}

func TestBatchGenerateRejectsUnknownTypes(t *testing.T) {
	h := newMiningHarness()
	profile := h.seedProfile()
	story := h.seedStory(profile.ID)

	_, _, err := h.svc.BatchGenerate(context.Background(), testOrg, story.ID,
		[]string{"linkedin_post", "newsletter"}, "")
	if !errors.Is(err, usecaseErrors.ErrInvalidInput) {
		t.Fatalf("BatchGenerate() error = %v, want ErrInvalidInput", err)
	}
	if !strings.Contains(err.Error(), "newsletter") || !strings.Contains(err.Error(), "available:") {
		t.Fatalf("error %q does not explain the rejection", err)
	}
	if len(h.model.textCalls) != 0 || len(h.contents.rows) != 0 {
		t.Fatalf("invalid batch still reached the model or storage")
	}
}

func TestRegenerateAdvancesVersion(t *testing.T) {
	h := newMiningHarness()
	profile := h.seedProfile()
	story := h.seedStory(profile.ID)

	h.model.queueText("v1 draft")
	first, err := h.svc.GenerateContent(context.Background(), testOrg, story.ID, "linkedin_post", "", nil)
	if err != nil {
		t.Fatalf("GenerateContent() error = %v", err)
	}

	h.model.queueText("v2 draft")
	second, err := h.svc.Regenerate(context.Background(), testOrg, first.ID, "")
	if err != nil {
		t.Fatalf("Regenerate() error = %v", err)
	}
	if second.Version != 2 {
		t.Fatalf("second version = %d, want 2", second.Version)
	}
	if second.ParentID == nil || *second.ParentID != first.ID {
		t.Fatalf("second parent = %v, want %s", second.ParentID, first.ID)
	}
	if second.ContentType != "linkedin_post" || second.Content != "v2 draft" {
		t.Fatalf("second = %q/%q", second.ContentType, second.Content)
	}

	h.model.queueText("v3 draft")
	third, err := h.svc.Regenerate(context.Background(), testOrg, first.ID, "")
	if err != nil {
		t.Fatalf("Regenerate() error = %v", err)
	}
	if third.Version != 3 {
		t.Fatalf("third version = %d, want 3", third.Version)
	}

	rows, err := h.svc.ContentForStory(context.Background(), story.ID)
	if err != nil {
		t.Fatalf("ContentForStory() error = %v", err)
	}
	if len(rows) != 3 || rows[0].Version != 3 {
		t.Fatalf("lineage = %d rows, newest version %d; want 3 rows newest first", len(rows), rows[0].Version)
	}
}

func TestRegenerateWithTypeOverride(t *testing.T) {
	h := newMiningHarness()
	profile := h.seedProfile()
	story := h.seedStory(profile.ID)

	h.model.queueText("v1 draft")
	first, err := h.svc.GenerateContent(context.Background(), testOrg, story.ID, "linkedin_post", "", nil)
	if err != nil {
		t.Fatalf("GenerateContent() error = %v", err)
	}

	h.model.queueText("tweet draft")
	got, err := h.svc.Regenerate(context.Background(), testOrg, first.ID, "tweet")
	if err != nil {
		t.Fatalf("Regenerate() error = %v", err)
	}
	if got.ContentType != "tweet" || got.PlatformTarget != "tweet" {
		t.Fatalf("type/platform = %q/%q, want tweet", got.ContentType, got.PlatformTarget)
	}
	// A fresh lineage for the overridden type starts at version 1.
	if got.Version != 1 {
		t.Fatalf("version = %d, want 1", got.Version)
	}
	if got.ParentID == nil || *got.ParentID != first.ID {
		t.Fatalf("parent = %v, want %s", got.ParentID, first.ID)
	}
	if h.model.textCalls[1].maxTokens != 512 {
		t.Fatalf("maxTokens = %d, want the tweet budget", h.model.textCalls[1].maxTokens)
	}
}

func TestRegenerateMissingContent(t *testing.T) {
	h := newMiningHarness()
	h.seedProfile()

	_, err := h.svc.Regenerate(context.Background(), testOrg, uuid.New(), "")
	if !errors.Is(err, usecaseErrors.ErrContentNotFound) {
		t.Fatalf("Regenerate() error = %v, want ErrContentNotFound", err)
	}
}

func TestRegenerateFallsBackToDefaultProfile(t *testing.T) {
	h := newMiningHarness()
	profile := h.seedProfile()
	story := h.seedStory(profile.ID)

	// Row whose profile no longer exists.
	orphan := entities.NewGeneratedContent(story.ID, "linkedin_post")
	orphan.ProfileID = uuid.New()
	orphan.OrgID = testOrg
	h.contents.rows = append(h.contents.rows, orphan)

	h.model.queueText("fresh copy")
	got, err := h.svc.Regenerate(context.Background(), testOrg, orphan.ID, "")
	if err != nil {
		t.Fatalf("Regenerate() error = %v", err)
	}
	if got.ProfileID != profile.ID {
		t.Fatalf("profile = %s, want the org default %s", got.ProfileID, profile.ID)
	}
	if got.Version != 2 {
		t.Fatalf("version = %d, want 2", got.Version)
	}
	if got.ParentID == nil || *got.ParentID != orphan.ID {
		t.Fatalf("parent = %v, want %s", got.ParentID, orphan.ID)
	}
}
