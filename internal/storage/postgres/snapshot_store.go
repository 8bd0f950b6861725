package postgres

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"

	"solana-token-sale/internal/domain"
	"solana-token-sale/internal/storage"
)

// SnapshotStore implements storage.SnapshotStore using PostgreSQL.
type SnapshotStore struct {
	pool *Pool
}

// NewSnapshotStore creates a new SnapshotStore.
func NewSnapshotStore(pool *Pool) *SnapshotStore {
	return &SnapshotStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SnapshotStore = (*SnapshotStore)(nil)

const snapshotColumns = `
	snapshot_id, sale_account, slot, observed_at, is_initialized, seller,
	temp_token_account, price_per_token::text, min_buy::text, lamports::text, data, created_at
`

// Insert adds a new snapshot. Returns ErrDuplicateKey if snapshot_id exists.
// u64 amounts are stored as NUMERIC(20,0) to keep the full range.
func (s *SnapshotStore) Insert(ctx context.Context, snap *domain.SaleSnapshot) error {
	if snap == nil || snap.SnapshotID == "" || snap.SaleAccount == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO sale_snapshots (
			snapshot_id, sale_account, slot, observed_at, is_initialized, seller,
			temp_token_account, price_per_token, min_buy, lamports, data
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8::text::numeric, $9::text::numeric, $10::text::numeric, $11)
	`

	_, err := s.pool.Exec(ctx, query,
		snap.SnapshotID,
		snap.SaleAccount,
		snap.Slot,
		snap.ObservedAt,
		int16(snap.IsInitialized),
		snap.Seller,
		snap.TempTokenAccount,
		strconv.FormatUint(snap.PricePerToken, 10),
		strconv.FormatUint(snap.MinBuy, 10),
		strconv.FormatUint(snap.Lamports, 10),
		snap.Data,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

// GetByID retrieves a snapshot by its ID. Returns ErrNotFound if not exists.
func (s *SnapshotStore) GetByID(ctx context.Context, snapshotID string) (*domain.SaleSnapshot, error) {
	query := `SELECT ` + snapshotColumns + `
		FROM sale_snapshots
		WHERE snapshot_id = $1
	`

	snap, err := scanSnapshot(s.pool.QueryRow(ctx, query, snapshotID))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get snapshot by id: %w", err)
	}
	return snap, nil
}

// GetLatest retrieves the highest-slot snapshot of a sale account.
func (s *SnapshotStore) GetLatest(ctx context.Context, saleAccount string) (*domain.SaleSnapshot, error) {
	query := `SELECT ` + snapshotColumns + `
		FROM sale_snapshots
		WHERE sale_account = $1
		ORDER BY slot DESC, observed_at DESC
		LIMIT 1
	`

	snap, err := scanSnapshot(s.pool.QueryRow(ctx, query, saleAccount))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get latest snapshot: %w", err)
	}
	return snap, nil
}

// GetBySlotRange retrieves snapshots within [start, end] (inclusive), ordered by slot ASC.
func (s *SnapshotStore) GetBySlotRange(ctx context.Context, saleAccount string, start, end int64) ([]*domain.SaleSnapshot, error) {
	query := `SELECT ` + snapshotColumns + `
		FROM sale_snapshots
		WHERE sale_account = $1 AND slot >= $2 AND slot <= $3
		ORDER BY slot ASC, snapshot_id ASC
	`

	rows, err := s.pool.Query(ctx, query, saleAccount, start, end)
	if err != nil {
		return nil, fmt.Errorf("get snapshots by slot range: %w", err)
	}
	defer rows.Close()

	var snaps []*domain.SaleSnapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot rows: %w", err)
	}
	return snaps, nil
}

// scanSnapshot scans a single row into a SaleSnapshot.
func scanSnapshot(row pgx.Row) (*domain.SaleSnapshot, error) {
	var snap domain.SaleSnapshot
	var isInitialized int16
	var price, minBuy, lamports string

	err := row.Scan(
		&snap.SnapshotID,
		&snap.SaleAccount,
		&snap.Slot,
		&snap.ObservedAt,
		&isInitialized,
		&snap.Seller,
		&snap.TempTokenAccount,
		&price,
		&minBuy,
		&lamports,
		&snap.Data,
		&snap.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	snap.IsInitialized = uint8(isInitialized)
	if snap.PricePerToken, err = strconv.ParseUint(price, 10, 64); err != nil {
		return nil, fmt.Errorf("parse price_per_token: %w", err)
	}
	if snap.MinBuy, err = strconv.ParseUint(minBuy, 10, 64); err != nil {
		return nil, fmt.Errorf("parse min_buy: %w", err)
	}
	if snap.Lamports, err = strconv.ParseUint(lamports, 10, 64); err != nil {
		return nil, fmt.Errorf("parse lamports: %w", err)
	}
	return &snap, nil
}
