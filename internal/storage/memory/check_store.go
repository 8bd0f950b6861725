package memory

import (
	"context"
	"sort"
	"sync"

	"solana-token-sale/internal/domain"
	"solana-token-sale/internal/storage"
)

// CheckStore is an in-memory implementation of storage.CheckStore.
type CheckStore struct {
	mu   sync.RWMutex
	data map[string]*domain.CheckRecord // keyed by check_id
}

// NewCheckStore creates a new in-memory check store.
func NewCheckStore() *CheckStore {
	return &CheckStore{
		data: make(map[string]*domain.CheckRecord),
	}
}

// Insert adds a new check record. Returns ErrDuplicateKey if check_id exists.
func (s *CheckStore) Insert(_ context.Context, c *domain.CheckRecord) error {
	if c == nil || c.CheckID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[c.CheckID]; exists {
		return storage.ErrDuplicateKey
	}

	cp := *c
	s.data[c.CheckID] = &cp
	return nil
}

// InsertBulk adds multiple records atomically. Fails entire batch on any duplicate.
func (s *CheckStore) InsertBulk(_ context.Context, checks []*domain.CheckRecord) error {
	if len(checks) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Check for duplicates first (atomic semantics)
	seen := make(map[string]struct{}, len(checks))
	for _, c := range checks {
		if c == nil || c.CheckID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[c.CheckID]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := seen[c.CheckID]; exists {
			return storage.ErrDuplicateKey
		}
		seen[c.CheckID] = struct{}{}
	}

	for _, c := range checks {
		cp := *c
		s.data[c.CheckID] = &cp
	}
	return nil
}

// GetBySaleAccount retrieves all checks of a sale account, ordered by checked_at ASC.
func (s *CheckStore) GetBySaleAccount(_ context.Context, saleAccount string) ([]*domain.CheckRecord, error) {
	return s.filter(func(c *domain.CheckRecord) bool {
		return c.SaleAccount == saleAccount
	}), nil
}

// GetFailed retrieves failed checks of a sale account, ordered by checked_at ASC.
func (s *CheckStore) GetFailed(_ context.Context, saleAccount string) ([]*domain.CheckRecord, error) {
	return s.filter(func(c *domain.CheckRecord) bool {
		return c.SaleAccount == saleAccount && !c.Passed
	}), nil
}

func (s *CheckStore) filter(keep func(*domain.CheckRecord) bool) []*domain.CheckRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.CheckRecord
	for _, c := range s.data {
		if keep(c) {
			cp := *c
			result = append(result, &cp)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CheckedAt != result[j].CheckedAt {
			return result[i].CheckedAt < result[j].CheckedAt
		}
		return result[i].CheckID < result[j].CheckID
	})

	return result
}

// Verify interface compliance at compile time.
var _ storage.CheckStore = (*CheckStore)(nil)
