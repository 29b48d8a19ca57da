package repository

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cirrusops/conversation-miner/internal/domain/entities"
	"github.com/cirrusops/conversation-miner/internal/domain/repositories"
)

// ExtractedStoryRepository handles story data operations
type ExtractedStoryRepository struct {
	db *gorm.DB
}

// NewExtractedStoryRepository creates a new story repository
func NewExtractedStoryRepository(db *gorm.DB) *ExtractedStoryRepository {
	return &ExtractedStoryRepository{db: db}
}

// Create persists one extracted story
func (r *ExtractedStoryRepository) Create(ctx context.Context, story *entities.ExtractedStory) error {
	if story == nil {
		return errors.New("story cannot be nil")
	}
	return r.db.WithContext(ctx).Create(story).Error
}

// FindByID retrieves a story by ID, nil when absent
func (r *ExtractedStoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.ExtractedStory, error) {
	var story entities.ExtractedStory
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&story).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &story, nil
}

// List retrieves stories matching the filter, newest first
func (r *ExtractedStoryRepository) List(ctx context.Context, filter repositories.StoryFilter) ([]*entities.ExtractedStory, int64, error) {
	query := r.db.WithContext(ctx).Model(&entities.ExtractedStory{})

	if filter.OrgID != "" {
		query = query.Where("org_id = ?", filter.OrgID)
	}
	if filter.MeetingID != nil {
		query = query.Where("meeting_id = ?", filter.MeetingID)
	}
	if filter.Theme != "" {
		// containment check against the jsonb theme array
		needle, err := json.Marshal([]string{filter.Theme})
		if err != nil {
			return nil, 0, err
		}
		query = query.Where("themes @> ?::jsonb", string(needle))
	}
	if filter.Sentiment != "" {
		query = query.Where("sentiment = ?", filter.Sentiment)
	}
	if filter.MinConfidence > 0 {
		query = query.Where("confidence_score >= ?", filter.MinConfidence)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	var stories []*entities.ExtractedStory
	if err := query.Order("created_at DESC").
		Limit(limit).Offset(filter.Offset).
		Find(&stories).Error; err != nil {
		return nil, 0, err
	}
	return stories, total, nil
}
