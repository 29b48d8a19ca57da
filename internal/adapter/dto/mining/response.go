package mining

import (
	"github.com/cirrusops/conversation-miner/internal/domain/entities"
)

// BatchFailure reports one content type that failed during a batch run
type BatchFailure struct {
	ContentType string `json:"content_type"`
	Error       string `json:"error"`
}

// BatchGenerateResponse lets callers distinguish full, partial and failed
// batch runs by comparing Requested against Generated.
type BatchGenerateResponse struct {
	Requested int                          `json:"requested"`
	Generated int                          `json:"generated"`
	Content   []*entities.GeneratedContent `json:"content"`
	Failures  []BatchFailure               `json:"failures,omitempty"`
}

// ExtractResponse wraps the stories mined from one meeting
type ExtractResponse struct {
	Extracted int                        `json:"extracted"`
	Stories   []*entities.ExtractedStory `json:"stories"`
}
