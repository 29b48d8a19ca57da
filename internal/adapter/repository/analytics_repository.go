package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/cirrusops/conversation-miner/internal/domain/repositories"
)

// AnalyticsRepository aggregates mined story data
type AnalyticsRepository struct {
	db *gorm.DB
}

// NewAnalyticsRepository creates a new analytics repository
func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{db: db}
}

// ThemeCounts returns theme frequencies across an org's stories, most
// frequent first. Stories without a theme array contribute nothing.
func (r *AnalyticsRepository) ThemeCounts(ctx context.Context, orgID string) ([]repositories.ThemeCount, error) {
	var counts []repositories.ThemeCount
	err := r.db.WithContext(ctx).Raw(`
		SELECT t.theme AS theme, COUNT(*) AS count
		FROM extracted_stories s
		CROSS JOIN LATERAL jsonb_array_elements_text(s.themes) AS t(theme)
		WHERE jsonb_typeof(s.themes) = 'array'
		  AND (? = '' OR s.org_id = ?)
		GROUP BY t.theme
		ORDER BY count DESC, t.theme ASC`,
		orgID, orgID).
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}

// SentimentBreakdown returns story counts per sentiment for an org
func (r *AnalyticsRepository) SentimentBreakdown(ctx context.Context, orgID string) ([]repositories.SentimentCount, error) {
	var counts []repositories.SentimentCount
	err := r.db.WithContext(ctx).Raw(`
		SELECT sentiment, COUNT(*) AS count
		FROM extracted_stories
		WHERE sentiment <> ''
		  AND (? = '' OR org_id = ?)
		GROUP BY sentiment
		ORDER BY count DESC`,
		orgID, orgID).
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	return counts, nil
}
