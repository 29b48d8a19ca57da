package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/cirrusops/conversation-miner/internal/domain/entities"
)

// StoryFilter narrows story listings
type StoryFilter struct {
	OrgID         string
	MeetingID     *uuid.UUID
	Theme         string
	Sentiment     entities.Sentiment
	MinConfidence float64
	Limit         int
	Offset        int
}

// ExtractedStoryRepository defines the interface for story data access
type ExtractedStoryRepository interface {
	// Create persists one extracted story
	Create(ctx context.Context, story *entities.ExtractedStory) error

	// FindByID retrieves a story by ID, nil when absent
	FindByID(ctx context.Context, id uuid.UUID) (*entities.ExtractedStory, error)

	// List retrieves stories matching the filter, newest first
	List(ctx context.Context, filter StoryFilter) ([]*entities.ExtractedStory, int64, error)
}

// ThemeCount is one row of the theme frequency breakdown
type ThemeCount struct {
	Theme string `json:"theme"`
	Count int64  `json:"count"`
}

// SentimentCount is one row of the sentiment breakdown
type SentimentCount struct {
	Sentiment string `json:"sentiment"`
	Count     int64  `json:"count"`
}

// AnalyticsRepository aggregates mined story data
type AnalyticsRepository interface {
	// ThemeCounts returns theme frequencies across an org's stories,
	// most frequent first
	ThemeCounts(ctx context.Context, orgID string) ([]ThemeCount, error)

	// SentimentBreakdown returns story counts per sentiment for an org
	SentimentBreakdown(ctx context.Context, orgID string) ([]SentimentCount, error)
}
