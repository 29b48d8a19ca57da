package mining

import (
	"strings"
	"testing"

	"github.com/cirrusops/conversation-miner/internal/domain/entities"
)

func knowledgeDoc(name, content string, usage entities.KnowledgeUsage, order int) entities.KnowledgeDoc {
	return entities.KnowledgeDoc{Name: name, Content: content, Usage: usage, SortOrder: order}
}

func TestAssembleKnowledgeJoinsDocs(t *testing.T) {
	docs := []entities.KnowledgeDoc{
		knowledgeDoc("Voice", "Write plainly.", entities.KnowledgeUsageBoth, 0),
		knowledgeDoc("Rules", "Never name customers.", entities.KnowledgeUsageBoth, 1),
	}

	got := assembleKnowledge(docs, entities.KnowledgeUsageGeneration, 80000)
	want := "## Grounding Knowledge\n\n### Voice\nWrite plainly.\n\n### Rules\nNever name customers."
	if got != want {
		t.Fatalf("assembleKnowledge() = %q, want %q", got, want)
	}
}

func TestAssembleKnowledgePrefersDisplayName(t *testing.T) {
	d := knowledgeDoc("brand_voice", "Write plainly.", entities.KnowledgeUsageBoth, 0)
	d.DisplayName = "Brand Voice"

	got := assembleKnowledge([]entities.KnowledgeDoc{d}, entities.KnowledgeUsageGeneration, 80000)
	if !strings.Contains(got, "### Brand Voice\n") {
		t.Fatalf("assembleKnowledge() = %q, want display name heading", got)
	}
}

func TestAssembleKnowledgeFiltersByUsage(t *testing.T) {
	docs := []entities.KnowledgeDoc{
		knowledgeDoc("ExtractOnly", "for mining", entities.KnowledgeUsageExtraction, 0),
		knowledgeDoc("GenerateOnly", "for writing", entities.KnowledgeUsageGeneration, 1),
		knowledgeDoc("Shared", "for both", entities.KnowledgeUsageBoth, 2),
	}

	got := assembleKnowledge(docs, entities.KnowledgeUsageGeneration, 80000)
	if strings.Contains(got, "ExtractOnly") {
		t.Fatalf("generation context includes extraction-only doc: %q", got)
	}
	if !strings.Contains(got, "### GenerateOnly\nfor writing") {
		t.Fatalf("generation context missing generation doc: %q", got)
	}
	if !strings.Contains(got, "### Shared\nfor both") {
		t.Fatalf("generation context missing shared doc: %q", got)
	}
}

func TestAssembleKnowledgeOrdersBySortOrder(t *testing.T) {
	docs := []entities.KnowledgeDoc{
		knowledgeDoc("Second", "two", entities.KnowledgeUsageBoth, 5),
		knowledgeDoc("First", "one", entities.KnowledgeUsageBoth, 1),
	}

	got := assembleKnowledge(docs, entities.KnowledgeUsageExtraction, 80000)
	first := strings.Index(got, "### First")
	second := strings.Index(got, "### Second")
	if first < 0 || second < 0 || first > second {
		t.Fatalf("docs out of order: %q", got)
	}
}

func TestAssembleKnowledgeTruncatesOverflowingDoc(t *testing.T) {
	docs := []entities.KnowledgeDoc{
		knowledgeDoc("Voice", strings.Repeat("a", 100), entities.KnowledgeUsageBoth, 0),
		knowledgeDoc("Rules", strings.Repeat("b", 500), entities.KnowledgeUsageBoth, 1),
		knowledgeDoc("Later", "ccc", entities.KnowledgeUsageBoth, 2),
	}

	// First section spends 110 chars, leaving 290 of 400: enough to keep a
	// truncated slice of the second doc (290 - 10 header - 20 slack = 260).
	got := assembleKnowledge(docs, entities.KnowledgeUsageGeneration, 400)
	want := "## Grounding Knowledge\n\n" +
		"### Voice\n" + strings.Repeat("a", 100) + "\n\n" +
		"### Rules\n" + strings.Repeat("b", 260) + "\n[... truncated]"
	if got != want {
		t.Fatalf("assembleKnowledge() = %q, want %q", got, want)
	}
	if strings.Contains(got, "### Later") {
		t.Fatalf("assembly continued past the overflowing doc: %q", got)
	}
}

func TestAssembleKnowledgeDropsDocWhenRemainingTooSmall(t *testing.T) {
	docs := []entities.KnowledgeDoc{
		knowledgeDoc("Voice", strings.Repeat("a", 100), entities.KnowledgeUsageBoth, 0),
		knowledgeDoc("Rules", strings.Repeat("b", 500), entities.KnowledgeUsageBoth, 1),
	}

	// Remaining budget is exactly 200, the floor: the doc is dropped rather
	// than truncated down to a sliver.
	got := assembleKnowledge(docs, entities.KnowledgeUsageGeneration, 310)
	want := "## Grounding Knowledge\n\n### Voice\n" + strings.Repeat("a", 100)
	if got != want {
		t.Fatalf("assembleKnowledge() = %q, want %q", got, want)
	}
}

func TestAssembleKnowledgeEmpty(t *testing.T) {
	if got := assembleKnowledge(nil, entities.KnowledgeUsageExtraction, 80000); got != "" {
		t.Fatalf("assembleKnowledge(nil) = %q, want empty", got)
	}

	docs := []entities.KnowledgeDoc{
		knowledgeDoc("GenerateOnly", "for writing", entities.KnowledgeUsageGeneration, 0),
	}
	if got := assembleKnowledge(docs, entities.KnowledgeUsageExtraction, 80000); got != "" {
		t.Fatalf("assembleKnowledge() with no qualifying docs = %q, want empty", got)
	}
}
