package insights

import (
	"context"
	"fmt"

	"github.com/cirrusops/conversation-miner/internal/domain/repositories"
)

// Service defines story analytics methods
type Service interface {
	// Themes returns theme frequencies across an org's stories, most
	// frequent first
	Themes(ctx context.Context, orgID string) ([]repositories.ThemeCount, error)

	// Sentiment returns story counts per sentiment for an org
	Sentiment(ctx context.Context, orgID string) ([]repositories.SentimentCount, error)
}

type insightsService struct {
	analyticsRepo repositories.AnalyticsRepository
}

// NewService constructs the insights service
func NewService(analyticsRepo repositories.AnalyticsRepository) Service {
	return &insightsService{analyticsRepo: analyticsRepo}
}

func (s *insightsService) Themes(ctx context.Context, orgID string) ([]repositories.ThemeCount, error) {
	counts, err := s.analyticsRepo.ThemeCounts(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("theme counts: %w", err)
	}
	if counts == nil {
		counts = []repositories.ThemeCount{}
	}
	return counts, nil
}

func (s *insightsService) Sentiment(ctx context.Context, orgID string) ([]repositories.SentimentCount, error) {
	counts, err := s.analyticsRepo.SentimentBreakdown(ctx, orgID)
	if err != nil {
		return nil, fmt.Errorf("sentiment breakdown: %w", err)
	}
	if counts == nil {
		counts = []repositories.SentimentCount{}
	}
	return counts, nil
}
