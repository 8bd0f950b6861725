package storage

import "context"

// WatchProgress represents the last processed position of a watched sale account.
type WatchProgress struct {
	SaleAccount string // watched sale account address
	Slot        int64  // last processed slot
	Signature   string // last seen transaction signature, may be empty
}

// WatchProgressStore provides persistence for watcher state.
// This enables resumption after restarts without re-recording stale notifications.
type WatchProgressStore interface {
	// GetLastProcessed returns the last processed position of a sale account.
	// Returns ErrNotFound if no progress has been saved yet.
	GetLastProcessed(ctx context.Context, saleAccount string) (*WatchProgress, error)

	// SetLastProcessed saves the last processed position. Slots never move backwards.
	SetLastProcessed(ctx context.Context, progress *WatchProgress) error
}
