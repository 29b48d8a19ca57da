package mining

import (
	"fmt"
	"regexp"
	"strings"

	usecaseErrors "github.com/cirrusops/conversation-miner/internal/usecase/errors"
)

var placeholderRe = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// GenerationPlaceholders are the slots a content type template may use.
var GenerationPlaceholders = []string{
	"title", "summary", "story_text", "customer_name", "customer_company", "themes",
}

// ExtractionPlaceholders are the slots an extraction user prompt may use.
var ExtractionPlaceholders = []string{
	"title", "date", "participants", "transcript",
}

// PromptTemplate is a prompt with named {placeholder} slots. Rendering is a
// straight substitution; a slot with no binding is an error rather than an
// empty string, so a typo in a stored template surfaces at call time instead
// of producing silently broken prompts.
type PromptTemplate struct {
	Text string
}

// Placeholders returns the distinct slot names in order of first appearance.
func (t PromptTemplate) Placeholders() []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range placeholderRe.FindAllStringSubmatch(t.Text, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// Validate checks that every slot in the template is one of the allowed
// names. Used when a template is stored, so broken profiles are rejected
// before they reach the model.
func (t PromptTemplate) Validate(allowed ...string) error {
	ok := make(map[string]bool, len(allowed))
	for _, name := range allowed {
		ok[name] = true
	}
	var unknown []string
	for _, name := range t.Placeholders() {
		if !ok[name] {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		return fmt.Errorf("%w: unknown placeholder(s) %s (allowed: %s)",
			usecaseErrors.ErrTemplateRender,
			strings.Join(unknown, ", "),
			strings.Join(allowed, ", "),
		)
	}
	return nil
}

// Render substitutes each slot with its binding from vars. Any slot missing
// a binding fails the render.
func (t PromptTemplate) Render(vars map[string]string) (string, error) {
	var unknown []string
	seen := make(map[string]bool)
	out := placeholderRe.ReplaceAllStringFunc(t.Text, func(match string) string {
		name := match[1 : len(match)-1]
		value, ok := vars[name]
		if !ok {
			if !seen[name] {
				seen[name] = true
				unknown = append(unknown, name)
			}
			return match
		}
		return value
	})
	if len(unknown) > 0 {
		return "", fmt.Errorf("%w: unknown placeholder(s) %s",
			usecaseErrors.ErrTemplateRender,
			strings.Join(unknown, ", "),
		)
	}
	return out, nil
}
