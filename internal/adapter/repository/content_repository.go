package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cirrusops/conversation-miner/internal/domain/entities"
)

// GeneratedContentRepository handles generated content data operations
type GeneratedContentRepository struct {
	db *gorm.DB
}

// NewGeneratedContentRepository creates a new content repository
func NewGeneratedContentRepository(db *gorm.DB) *GeneratedContentRepository {
	return &GeneratedContentRepository{db: db}
}

// Create persists one generated content row
func (r *GeneratedContentRepository) Create(ctx context.Context, content *entities.GeneratedContent) error {
	if content == nil {
		return errors.New("content cannot be nil")
	}
	return r.db.WithContext(ctx).Create(content).Error
}

// FindByID retrieves a content row by ID, nil when absent
func (r *GeneratedContentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.GeneratedContent, error) {
	var content entities.GeneratedContent
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&content).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &content, nil
}

// ListByStoryID retrieves all content of a story, grouped by type with the
// newest version first
func (r *GeneratedContentRepository) ListByStoryID(ctx context.Context, storyID uuid.UUID) ([]*entities.GeneratedContent, error) {
	var content []*entities.GeneratedContent
	if err := r.db.WithContext(ctx).
		Where("story_id = ?", storyID).
		Order("content_type ASC, version DESC").
		Find(&content).Error; err != nil {
		return nil, err
	}
	return content, nil
}

// MaxVersion returns the highest version stored for a (story, content type)
// lineage, 0 when none exists
func (r *GeneratedContentRepository) MaxVersion(ctx context.Context, storyID uuid.UUID, contentType string) (int, error) {
	var max int
	err := r.db.WithContext(ctx).
		Raw("SELECT COALESCE(MAX(version), 0) FROM generated_content WHERE story_id = ? AND content_type = ?",
			storyID, contentType).
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max, nil
}

// UpdateStatus moves a content row through its editorial states
func (r *GeneratedContentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.ContentStatus) error {
	result := r.db.WithContext(ctx).
		Model(&entities.GeneratedContent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
