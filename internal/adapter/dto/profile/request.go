package profile

// ContentTypeRequest configures one generatable content format
type ContentTypeRequest struct {
	Name           string `json:"name" validate:"required,max=100"`
	PromptTemplate string `json:"prompt_template" validate:"required"`
	MaxTokens      int    `json:"max_tokens,omitempty" validate:"omitempty,min=1,max=64000"`
}

// KnowledgeDocRequest attaches one grounding document to a profile
type KnowledgeDocRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	DisplayName string `json:"display_name,omitempty" validate:"omitempty,max=255"`
	Content     string `json:"content" validate:"required"`
	Usage       string `json:"usage,omitempty" validate:"omitempty,oneof=extraction generation both"`
	SortOrder   int    `json:"sort_order,omitempty"`
}

// CreateProfileRequest creates a mining profile with its children
type CreateProfileRequest struct {
	Name                   string                `json:"name" validate:"required,max=255"`
	Description            string                `json:"description,omitempty"`
	ExtractionSystemPrompt string                `json:"extraction_system_prompt,omitempty"`
	ExtractionUserPrompt   string                `json:"extraction_user_prompt,omitempty"`
	GenerationSystemPrompt string                `json:"generation_system_prompt,omitempty"`
	Themes                 []string              `json:"themes,omitempty"`
	ConfidenceThreshold    float64               `json:"confidence_threshold,omitempty" validate:"omitempty,gt=0,lte=1"`
	ContentTypes           []ContentTypeRequest  `json:"content_types,omitempty" validate:"omitempty,dive"`
	KnowledgeDocs          []KnowledgeDocRequest `json:"knowledge_docs,omitempty" validate:"omitempty,dive"`
}
