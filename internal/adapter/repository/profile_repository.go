package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/cirrusops/conversation-miner/internal/domain/entities"
	"github.com/cirrusops/conversation-miner/internal/domain/repositories"
)

// miningProfileRepository implements the MiningProfileRepository interface
type miningProfileRepository struct {
	db *gorm.DB
}

// NewMiningProfileRepository creates a new mining profile repository
func NewMiningProfileRepository(db *gorm.DB) repositories.MiningProfileRepository {
	return &miningProfileRepository{db: db}
}

// Create persists a profile with its nested content types and docs
func (r *miningProfileRepository) Create(ctx context.Context, profile *entities.MiningProfile) error {
	if profile == nil {
		return errors.New("profile cannot be nil")
	}
	return r.db.WithContext(ctx).Create(profile).Error
}

// Update persists changes to an existing profile
func (r *miningProfileRepository) Update(ctx context.Context, profile *entities.MiningProfile) error {
	if profile == nil {
		return errors.New("profile cannot be nil")
	}
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(profile).Error
}

// FindByOrgAndName retrieves a profile by its lookup key, nil when absent
func (r *miningProfileRepository) FindByOrgAndName(ctx context.Context, orgID, name string) (*entities.MiningProfile, error) {
	var profile entities.MiningProfile
	err := r.db.WithContext(ctx).
		Preload("ContentTypes").
		Preload("KnowledgeDocs").
		Where("org_id = ? AND name = ?", orgID, name).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// FindByID retrieves a profile by ID, nil when absent
func (r *miningProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*entities.MiningProfile, error) {
	var profile entities.MiningProfile
	err := r.db.WithContext(ctx).
		Preload("ContentTypes").
		Preload("KnowledgeDocs").
		Where("id = ?", id).
		First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// ListByOrg retrieves all profiles of an org
func (r *miningProfileRepository) ListByOrg(ctx context.Context, orgID string) ([]*entities.MiningProfile, error) {
	var profiles []*entities.MiningProfile
	if err := r.db.WithContext(ctx).
		Preload("ContentTypes").
		Preload("KnowledgeDocs").
		Where("org_id = ?", orgID).
		Order("name ASC").
		Find(&profiles).Error; err != nil {
		return nil, err
	}
	return profiles, nil
}
