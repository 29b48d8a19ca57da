package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/cirrusops/conversation-miner/internal/domain/entities"
)

// MiningProfileRepository defines the interface for profile data access.
// Find methods eager-load content types and knowledge docs.
type MiningProfileRepository interface {
	// Create persists a profile with its nested content types and docs
	Create(ctx context.Context, profile *entities.MiningProfile) error

	// Update persists changes to an existing profile
	Update(ctx context.Context, profile *entities.MiningProfile) error

	// FindByOrgAndName retrieves a profile by its lookup key, nil when absent
	FindByOrgAndName(ctx context.Context, orgID, name string) (*entities.MiningProfile, error)

	// FindByID retrieves a profile by ID, nil when absent
	FindByID(ctx context.Context, id uuid.UUID) (*entities.MiningProfile, error)

	// ListByOrg retrieves all profiles of an org
	ListByOrg(ctx context.Context, orgID string) ([]*entities.MiningProfile, error)
}
