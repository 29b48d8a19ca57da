package mining

// ExtractRequest names the profile used to mine a meeting's transcript.
// An empty profile resolves the org's default.
type ExtractRequest struct {
	Profile string `json:"profile,omitempty" validate:"omitempty,max=255"`
}

// BriefRequest carries optional campaign brief context for generation.
// Only non-empty fields are rendered into the prompt.
type BriefRequest struct {
	Objective      string   `json:"objective,omitempty"`
	KeyMessages    []string `json:"key_messages,omitempty"`
	TargetPersonas []string `json:"target_personas,omitempty"`
	ToneGuidance   string   `json:"tone_guidance,omitempty"`
}

// GenerateRequest asks for one content type rendered from a story
type GenerateRequest struct {
	ContentType string        `json:"content_type" validate:"required,max=100"`
	Profile     string        `json:"profile,omitempty" validate:"omitempty,max=255"`
	Brief       *BriefRequest `json:"brief,omitempty"`
}

// BatchGenerateRequest asks for several content types in one call
type BatchGenerateRequest struct {
	ContentTypes []string `json:"content_types" validate:"required,min=1,dive,required,max=100"`
	Profile      string   `json:"profile,omitempty" validate:"omitempty,max=255"`
}

// RegenerateRequest re-runs generation for an existing content row.
// ContentType overrides the original's type when set.
type RegenerateRequest struct {
	ContentType string `json:"content_type,omitempty" validate:"omitempty,max=100"`
}

// UpdateContentStatusRequest moves a content row through its editorial
// states.
type UpdateContentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=draft reviewed published"`
}
