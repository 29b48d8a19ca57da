package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/cirrusops/conversation-miner/internal/domain/entities"
)

// GeneratedContentRepository defines the interface for content data access
type GeneratedContentRepository interface {
	// Create persists one generated content row
	Create(ctx context.Context, content *entities.GeneratedContent) error

	// FindByID retrieves a content row by ID, nil when absent
	FindByID(ctx context.Context, id uuid.UUID) (*entities.GeneratedContent, error)

	// ListByStoryID retrieves all content of a story, newest version first
	ListByStoryID(ctx context.Context, storyID uuid.UUID) ([]*entities.GeneratedContent, error)

	// MaxVersion returns the highest version stored for a (story, content
	// type) lineage, 0 when none exists.
	MaxVersion(ctx context.Context, storyID uuid.UUID, contentType string) (int, error)

	// UpdateStatus moves a content row through its editorial states
	UpdateStatus(ctx context.Context, id uuid.UUID, status entities.ContentStatus) error
}
