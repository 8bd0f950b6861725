package storage

import (
	"context"

	"solana-token-sale/internal/domain"
)

// SnapshotStore provides access to sale_snapshots storage.
type SnapshotStore interface {
	// Insert adds a new snapshot. Returns ErrDuplicateKey if snapshot_id exists.
	Insert(ctx context.Context, s *domain.SaleSnapshot) error

	// GetByID retrieves a snapshot by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, snapshotID string) (*domain.SaleSnapshot, error)

	// GetLatest retrieves the highest-slot snapshot of a sale account. Returns ErrNotFound if none.
	GetLatest(ctx context.Context, saleAccount string) (*domain.SaleSnapshot, error)

	// GetBySlotRange retrieves snapshots of a sale account within [start, end] (inclusive), ordered by slot ASC.
	GetBySlotRange(ctx context.Context, saleAccount string, start, end int64) ([]*domain.SaleSnapshot, error)
}

// CheckStore provides access to sale_checks storage.
type CheckStore interface {
	// Insert adds a new check record. Returns ErrDuplicateKey if check_id exists.
	Insert(ctx context.Context, c *domain.CheckRecord) error

	// InsertBulk adds multiple records. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, checks []*domain.CheckRecord) error

	// GetBySaleAccount retrieves all checks of a sale account, ordered by checked_at ASC.
	GetBySaleAccount(ctx context.Context, saleAccount string) ([]*domain.CheckRecord, error)

	// GetFailed retrieves failed checks of a sale account, ordered by checked_at ASC.
	GetFailed(ctx context.Context, saleAccount string) ([]*domain.CheckRecord, error)
}
