package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cirrusops/conversation-miner/internal/domain/entities"
)

// SyncStateRepository handles sync bookkeeping operations
type SyncStateRepository struct {
	db *gorm.DB
}

// NewSyncStateRepository creates a new sync state repository
func NewSyncStateRepository(db *gorm.DB) *SyncStateRepository {
	return &SyncStateRepository{db: db}
}

// GetOrCreate returns the platform's state row, creating it idle on first use
func (r *SyncStateRepository) GetOrCreate(ctx context.Context, platform entities.Platform) (*entities.SyncState, error) {
	var state entities.SyncState
	err := r.db.WithContext(ctx).Where("platform = ?", platform).First(&state).Error
	if err == nil {
		return &state, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := entities.NewSyncState(platform)
	// two concurrent first syncs may race to insert the singleton row
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "platform"}},
		DoNothing: true,
	}).Create(created).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Where("platform = ?", platform).First(&state).Error; err != nil {
		return nil, err
	}
	return &state, nil
}

// AcquireLease atomically flips the row to running and clears the previous
// error. Succeeds when the row is not running, or when a running row has
// not been touched since staleBefore (unclean shutdown takeover).
func (r *SyncStateRepository) AcquireLease(ctx context.Context, platform entities.Platform, staleBefore time.Time) (bool, error) {
	if _, err := r.GetOrCreate(ctx, platform); err != nil {
		return false, err
	}
	result := r.db.WithContext(ctx).
		Model(&entities.SyncState{}).
		Where("platform = ? AND (status <> ? OR updated_at < ?)",
			platform, entities.SyncStatusRunning, staleBefore).
		Updates(map[string]interface{}{
			"status":        entities.SyncStatusRunning,
			"error_message": "",
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkIdle records a successful run
func (r *SyncStateRepository) MarkIdle(ctx context.Context, platform entities.Platform, syncedCount int, lastCursor string) error {
	return r.db.WithContext(ctx).
		Model(&entities.SyncState{}).
		Where("platform = ?", platform).
		Updates(map[string]interface{}{
			"status":         entities.SyncStatusIdle,
			"last_synced_at": time.Now(),
			"total_synced":   gorm.Expr("total_synced + ?", syncedCount),
			"last_cursor":    lastCursor,
			"updated_at":     time.Now(),
		}).Error
}

// MarkError records a failed run with its error summary
func (r *SyncStateRepository) MarkError(ctx context.Context, platform entities.Platform, errMsg string) error {
	return r.db.WithContext(ctx).
		Model(&entities.SyncState{}).
		Where("platform = ?", platform).
		Updates(map[string]interface{}{
			"status":        entities.SyncStatusError,
			"error_message": errMsg,
			"updated_at":    time.Now(),
		}).Error
}

// Find retrieves the platform's state row, nil when absent
func (r *SyncStateRepository) Find(ctx context.Context, platform entities.Platform) (*entities.SyncState, error) {
	var state entities.SyncState
	if err := r.db.WithContext(ctx).Where("platform = ?", platform).First(&state).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &state, nil
}

// ListAll retrieves the state rows of every platform
func (r *SyncStateRepository) ListAll(ctx context.Context) ([]*entities.SyncState, error) {
	var states []*entities.SyncState
	if err := r.db.WithContext(ctx).Order("platform ASC").Find(&states).Error; err != nil {
		return nil, err
	}
	return states, nil
}
