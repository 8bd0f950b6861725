package memory

import (
	"context"
	"sync"

	"solana-token-sale/internal/storage"
)

// WatchProgressStore is an in-memory implementation of storage.WatchProgressStore.
type WatchProgressStore struct {
	mu       sync.RWMutex
	progress map[string]storage.WatchProgress // keyed by sale account
}

// NewWatchProgressStore creates a new in-memory watch progress store.
func NewWatchProgressStore() *WatchProgressStore {
	return &WatchProgressStore{
		progress: make(map[string]storage.WatchProgress),
	}
}

// GetLastProcessed returns the last processed position of a sale account.
func (s *WatchProgressStore) GetLastProcessed(_ context.Context, saleAccount string) (*storage.WatchProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.progress[saleAccount]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &p, nil
}

// SetLastProcessed saves the last processed position. Older slots are ignored.
func (s *WatchProgressStore) SetLastProcessed(_ context.Context, progress *storage.WatchProgress) error {
	if progress == nil || progress.SaleAccount == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.progress[progress.SaleAccount]; ok && prev.Slot > progress.Slot {
		return nil
	}
	s.progress[progress.SaleAccount] = *progress
	return nil
}

// Verify interface compliance at compile time.
var _ storage.WatchProgressStore = (*WatchProgressStore)(nil)
