package repositories

import (
	"context"
	"time"

	"github.com/cirrusops/conversation-miner/internal/domain/entities"
)

// SyncStateRepository defines the interface for sync bookkeeping access
type SyncStateRepository interface {
	// GetOrCreate returns the platform's state row, creating it idle on
	// first use.
	GetOrCreate(ctx context.Context, platform entities.Platform) (*entities.SyncState, error)

	// AcquireLease atomically flips the row to running and clears the
	// previous error. It succeeds only when the row is not already running,
	// or when a running row has not been touched since staleBefore (unclean
	// shutdown takeover). Returns false when another run holds the lease.
	AcquireLease(ctx context.Context, platform entities.Platform, staleBefore time.Time) (bool, error)

	// MarkIdle records a successful run: status idle, last_synced_at now,
	// total_synced incremented by syncedCount, cursor stored.
	MarkIdle(ctx context.Context, platform entities.Platform, syncedCount int, lastCursor string) error

	// MarkError records a failed run with its error summary
	MarkError(ctx context.Context, platform entities.Platform, errMsg string) error

	// Find retrieves the platform's state row, nil when absent
	Find(ctx context.Context, platform entities.Platform) (*entities.SyncState, error)

	// ListAll retrieves the state rows of every platform
	ListAll(ctx context.Context) ([]*entities.SyncState, error)
}
