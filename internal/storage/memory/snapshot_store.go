package memory

import (
	"context"
	"sort"
	"sync"

	"solana-token-sale/internal/domain"
	"solana-token-sale/internal/storage"
)

// SnapshotStore is an in-memory implementation of storage.SnapshotStore.
type SnapshotStore struct {
	mu   sync.RWMutex
	data map[string]*domain.SaleSnapshot // keyed by snapshot_id
}

// NewSnapshotStore creates a new in-memory snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		data: make(map[string]*domain.SaleSnapshot),
	}
}

// Insert adds a new snapshot. Returns ErrDuplicateKey if snapshot_id exists.
func (s *SnapshotStore) Insert(_ context.Context, snap *domain.SaleSnapshot) error {
	if snap == nil || snap.SnapshotID == "" || snap.SaleAccount == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[snap.SnapshotID]; exists {
		return storage.ErrDuplicateKey
	}

	// Store a copy to prevent external mutation
	s.data[snap.SnapshotID] = copySnapshot(snap)
	return nil
}

// GetByID retrieves a snapshot by its ID. Returns ErrNotFound if not exists.
func (s *SnapshotStore) GetByID(_ context.Context, snapshotID string) (*domain.SaleSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, exists := s.data[snapshotID]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return copySnapshot(snap), nil
}

// GetLatest retrieves the highest-slot snapshot of a sale account.
func (s *SnapshotStore) GetLatest(_ context.Context, saleAccount string) (*domain.SaleSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *domain.SaleSnapshot
	for _, snap := range s.data {
		if snap.SaleAccount != saleAccount {
			continue
		}
		if latest == nil || snap.Slot > latest.Slot ||
			(snap.Slot == latest.Slot && snap.ObservedAt > latest.ObservedAt) {
			latest = snap
		}
	}
	if latest == nil {
		return nil, storage.ErrNotFound
	}
	return copySnapshot(latest), nil
}

// GetBySlotRange retrieves snapshots within [start, end] (inclusive), ordered by slot ASC.
func (s *SnapshotStore) GetBySlotRange(_ context.Context, saleAccount string, start, end int64) ([]*domain.SaleSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.SaleSnapshot
	for _, snap := range s.data {
		if snap.SaleAccount == saleAccount && snap.Slot >= start && snap.Slot <= end {
			result = append(result, copySnapshot(snap))
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Slot != result[j].Slot {
			return result[i].Slot < result[j].Slot
		}
		return result[i].SnapshotID < result[j].SnapshotID
	})

	return result, nil
}

func copySnapshot(snap *domain.SaleSnapshot) *domain.SaleSnapshot {
	cp := *snap
	cp.Data = append([]byte(nil), snap.Data...)
	return &cp
}

// Verify interface compliance at compile time.
var _ storage.SnapshotStore = (*SnapshotStore)(nil)
