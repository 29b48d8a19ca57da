package mining

import (
	"errors"
	"strings"
	"testing"

	usecaseErrors "github.com/cirrusops/conversation-miner/internal/usecase/errors"
)

func TestTemplateRenderSubstitutesSlots(t *testing.T) {
	tmpl := PromptTemplate{Text: "Write about {title} for {customer_name}. Repeat: {title}."}

	out, err := tmpl.Render(map[string]string{
		"title":         "Acme rollout",
		"customer_name": "Dana",
	})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	want := "Write about Acme rollout for Dana. Repeat: Acme rollout."
	if out != want {
		t.Fatalf("Render() = %q, want %q", out, want)
	}
}

func TestTemplateRenderLeavesLiteralBracesAlone(t *testing.T) {
	tmpl := PromptTemplate{Text: `Return JSON like {"stories": []} about {title}.`}

	out, err := tmpl.Render(map[string]string{"title": "pricing"})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(out, `{"stories": []}`) {
		t.Fatalf("Render() mangled literal braces: %q", out)
	}
	if !strings.Contains(out, "about pricing.") {
		t.Fatalf("Render() did not substitute title: %q", out)
	}
}

func TestTemplateRenderFailsOnMissingBinding(t *testing.T) {
	tmpl := PromptTemplate{Text: "Target {audience} with {title}; again {audience}."}

	_, err := tmpl.Render(map[string]string{"title": "Acme rollout"})
	if !errors.Is(err, usecaseErrors.ErrTemplateRender) {
		t.Fatalf("Render() error = %v, want ErrTemplateRender", err)
	}
	if !strings.Contains(err.Error(), "audience") {
		t.Fatalf("error %q does not name the missing placeholder", err)
	}
	if strings.Count(err.Error(), "audience") != 1 {
		t.Fatalf("error %q repeats the missing placeholder", err)
	}
}

func TestTemplatePlaceholdersDistinctInOrder(t *testing.T) {
	tmpl := PromptTemplate{Text: "{title} then {summary} then {title} then {themes}"}

	got := tmpl.Placeholders()
	want := []string{"title", "summary", "themes"}
	if len(got) != len(want) {
		t.Fatalf("Placeholders() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Placeholders()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTemplateValidate(t *testing.T) {
	ok := PromptTemplate{Text: "Post about {title}: {summary} ({themes})"}
	if err := ok.Validate(GenerationPlaceholders...); err != nil {
		t.Fatalf("Validate() error = %v, want nil", err)
	}

	bad := PromptTemplate{Text: "Post about {title} for {audienc}"}
	err := bad.Validate(GenerationPlaceholders...)
	if !errors.Is(err, usecaseErrors.ErrTemplateRender) {
		t.Fatalf("Validate() error = %v, want ErrTemplateRender", err)
	}
	if !strings.Contains(err.Error(), "audienc") {
		t.Fatalf("error %q does not name the unknown placeholder", err)
	}
	if !strings.Contains(err.Error(), "customer_company") {
		t.Fatalf("error %q does not list the allowed placeholders", err)
	}
}
