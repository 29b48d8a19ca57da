package mining

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cirrusops/conversation-miner/internal/domain/entities"
	"github.com/cirrusops/conversation-miner/pkg/ai"
)

const extractionToolName = "extract_stories"

const extractionToolDescription = "Extract customer stories, insights, and notable moments from a " +
	"meeting transcript. Returns a structured list of stories."

// extractionTool builds the forced tool definition for a profile. A profile
// may override the whole input schema; otherwise the standard story schema
// is used, with the themes field constrained to the profile's vocabulary
// when one is configured.
func extractionTool(profile *entities.MiningProfile) (ai.Tool, error) {
	tool := ai.Tool{
		Name:        extractionToolName,
		Description: extractionToolDescription,
	}

	if len(profile.ToolSchema) > 0 {
		var override map[string]interface{}
		if err := json.Unmarshal(profile.ToolSchema, &override); err != nil {
			return ai.Tool{}, fmt.Errorf("profile %q tool schema: %w", profile.Name, err)
		}
		if len(override) > 0 {
			tool.InputSchema = override
			return tool, nil
		}
	}

	tool.InputSchema = storyInputSchema(profile.Themes)
	return tool, nil
}

// storyInputSchema is the standard extraction payload shape: an object with
// a "stories" array of fully-required story records.
func storyInputSchema(themes []string) map[string]interface{} {
	var themesSchema map[string]interface{}
	if len(themes) > 0 {
		themesSchema = map[string]interface{}{
			"type":        "array",
			"items":       map[string]interface{}{"type": "string", "enum": themes},
			"description": "Themes from: " + strings.Join(themes, ", "),
		}
	} else {
		themesSchema = map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string"},
			"description": "Themes such as pricing, onboarding, support, " +
				"product-feedback, success-story, pain-point, " +
				"competitive, integration.",
		}
	}

	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"stories": map[string]interface{}{
				"type":        "array",
				"description": "List of extracted customer stories and insights.",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"title": map[string]interface{}{
							"type":        "string",
							"description": "A clear, descriptive title for the story.",
						},
						"summary": map[string]interface{}{
							"type":        "string",
							"description": "A 1-2 sentence summary of the story.",
						},
						"story_text": map[string]interface{}{
							"type":        "string",
							"description": "The relevant portion of the conversation.",
						},
						"themes": themesSchema,
						"customer_name": map[string]interface{}{
							"type":        "string",
							"description": "The customer's name if mentioned.",
						},
						"customer_company": map[string]interface{}{
							"type":        "string",
							"description": "The customer's company if mentioned.",
						},
						"sentiment": map[string]interface{}{
							"type":        "string",
							"enum":        []string{"positive", "negative", "neutral", "mixed"},
							"description": "Overall sentiment of the story.",
						},
						"confidence_score": map[string]interface{}{
							"type": "number",
							"description": "Confidence (0.0 to 1.0) that this is a genuine, " +
								"usable customer story.",
						},
					},
					"required": []string{
						"title", "summary", "story_text", "themes",
						"customer_name", "customer_company", "sentiment", "confidence_score",
					},
				},
			},
		},
		"required": []string{"stories"},
	}
}
