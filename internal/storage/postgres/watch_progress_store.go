package postgres

import (
	"context"
	"fmt"

	"solana-token-sale/internal/storage"
)

// WatchProgressStore is a PostgreSQL implementation of storage.WatchProgressStore.
// Uses one row per sale account in watch_progress.
type WatchProgressStore struct {
	pool *Pool
}

// NewWatchProgressStore creates a new PostgreSQL watch progress store.
func NewWatchProgressStore(pool *Pool) *WatchProgressStore {
	return &WatchProgressStore{pool: pool}
}

// Compile-time interface check.
var _ storage.WatchProgressStore = (*WatchProgressStore)(nil)

// GetLastProcessed returns the last processed position of a sale account.
func (s *WatchProgressStore) GetLastProcessed(ctx context.Context, saleAccount string) (*storage.WatchProgress, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT sale_account, slot, signature
		FROM watch_progress
		WHERE sale_account = $1
	`, saleAccount)

	var progress storage.WatchProgress
	if err := row.Scan(&progress.SaleAccount, &progress.Slot, &progress.Signature); err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get watch progress: %w", err)
	}

	return &progress, nil
}

// SetLastProcessed saves the last processed position.
// Uses upsert guarded by slot so progress never moves backwards.
func (s *WatchProgressStore) SetLastProcessed(ctx context.Context, progress *storage.WatchProgress) error {
	if progress == nil || progress.SaleAccount == "" {
		return storage.ErrInvalidInput
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO watch_progress (sale_account, slot, signature, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (sale_account) DO UPDATE
		SET slot = EXCLUDED.slot,
		    signature = EXCLUDED.signature,
		    updated_at = NOW()
		WHERE watch_progress.slot <= EXCLUDED.slot
	`, progress.SaleAccount, progress.Slot, progress.Signature)
	if err != nil {
		return fmt.Errorf("set watch progress: %w", err)
	}
	return nil
}
