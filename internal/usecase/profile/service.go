package profile

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cirrusops/conversation-miner/internal/domain/entities"
	"github.com/cirrusops/conversation-miner/internal/domain/repositories"
	usecaseErrors "github.com/cirrusops/conversation-miner/internal/usecase/errors"
)

// Service defines mining profile management methods
type Service interface {
	// Create persists a profile with its content types and knowledge docs.
	// The (org, name) key must be free.
	Create(ctx context.Context, profile *entities.MiningProfile) error

	// Get retrieves a profile by (org, name) with its children eager-loaded
	Get(ctx context.Context, orgID, name string) (*entities.MiningProfile, error)

	// List retrieves all profiles of an org
	List(ctx context.Context, orgID string) ([]*entities.MiningProfile, error)
}

type profileService struct {
	profileRepo repositories.MiningProfileRepository
	logger      *zap.Logger
}

// NewService constructs the profile management service
func NewService(profileRepo repositories.MiningProfileRepository, logger *zap.Logger) Service {
	return &profileService{
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// Create persists a new profile after checking its lookup key is free.
func (s *profileService) Create(ctx context.Context, profile *entities.MiningProfile) error {
	if profile.Name == "" {
		return fmt.Errorf("%w: profile name is required", usecaseErrors.ErrInvalidInput)
	}

	existing, err := s.profileRepo.FindByOrgAndName(ctx, profile.OrgID, profile.Name)
	if err != nil {
		return fmt.Errorf("check profile name: %w", err)
	}
	if existing != nil {
		return fmt.Errorf("%w: profile %q", usecaseErrors.ErrAlreadyExists, profile.Name)
	}

	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return fmt.Errorf("create profile: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("✅ Mining profile created",
			zap.String("org_id", profile.OrgID),
			zap.String("name", profile.Name),
			zap.Int("content_types", len(profile.ContentTypes)),
			zap.Int("knowledge_docs", len(profile.KnowledgeDocs)),
		)
	}
	return nil
}

// Get retrieves a profile by its lookup key.
func (s *profileService) Get(ctx context.Context, orgID, name string) (*entities.MiningProfile, error) {
	profile, err := s.profileRepo.FindByOrgAndName(ctx, orgID, name)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if profile == nil {
		return nil, fmt.Errorf("%w: %q", usecaseErrors.ErrProfileNotFound, name)
	}
	return profile, nil
}

// List retrieves all profiles of an org.
func (s *profileService) List(ctx context.Context, orgID string) ([]*entities.MiningProfile, error) {
	return s.profileRepo.ListByOrg(ctx, orgID)
}
