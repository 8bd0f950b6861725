package clickhouse

import (
	"context"
	"fmt"

	"solana-token-sale/internal/domain"
	"solana-token-sale/internal/storage"
)

// CheckStore implements storage.CheckStore using ClickHouse.
// MergeTree does not enforce uniqueness, so duplicates are checked before insert.
type CheckStore struct {
	conn *Conn
}

// NewCheckStore creates a new CheckStore.
func NewCheckStore(conn *Conn) *CheckStore {
	return &CheckStore{conn: conn}
}

// Compile-time interface check.
var _ storage.CheckStore = (*CheckStore)(nil)

const checkColumns = `
	check_id, sale_account, source, slot, checked_at, passed,
	checked, failed, field, expected, actual, error
`

// Insert adds a new check record. Returns ErrDuplicateKey if check_id exists.
func (s *CheckStore) Insert(ctx context.Context, c *domain.CheckRecord) error {
	if c == nil {
		return storage.ErrInvalidInput
	}
	return s.InsertBulk(ctx, []*domain.CheckRecord{c})
}

// InsertBulk adds multiple records. Fails entire batch on any duplicate.
func (s *CheckStore) InsertBulk(ctx context.Context, checks []*domain.CheckRecord) error {
	if len(checks) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	seen := make(map[string]struct{}, len(checks))
	for _, c := range checks {
		if c == nil || c.CheckID == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := seen[c.CheckID]; exists {
			return storage.ErrDuplicateKey
		}
		seen[c.CheckID] = struct{}{}
	}

	// Check for duplicates against existing DB rows
	for _, c := range checks {
		exists, err := s.exists(ctx, c.CheckID)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `INSERT INTO sale_checks (`+checkColumns+`)`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, c := range checks {
		var passed uint8
		if c.Passed {
			passed = 1
		}
		err = batch.Append(
			c.CheckID, c.SaleAccount, string(c.Source), uint64(c.Slot), uint64(c.CheckedAt), passed,
			uint16(c.Checked), uint16(c.Failed), c.Field, c.Expected, c.Actual, c.Error,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetBySaleAccount retrieves all checks of a sale account, ordered by checked_at ASC.
func (s *CheckStore) GetBySaleAccount(ctx context.Context, saleAccount string) ([]*domain.CheckRecord, error) {
	query := `SELECT ` + checkColumns + `
		FROM sale_checks
		WHERE sale_account = ?
		ORDER BY checked_at ASC, check_id ASC
	`

	rows, err := s.conn.Query(ctx, query, saleAccount)
	if err != nil {
		return nil, fmt.Errorf("query by sale account: %w", err)
	}
	defer rows.Close()

	return scanChecks(rows)
}

// GetFailed retrieves failed checks of a sale account, ordered by checked_at ASC.
func (s *CheckStore) GetFailed(ctx context.Context, saleAccount string) ([]*domain.CheckRecord, error) {
	query := `SELECT ` + checkColumns + `
		FROM sale_checks
		WHERE sale_account = ? AND passed = 0
		ORDER BY checked_at ASC, check_id ASC
	`

	rows, err := s.conn.Query(ctx, query, saleAccount)
	if err != nil {
		return nil, fmt.Errorf("query failed checks: %w", err)
	}
	defer rows.Close()

	return scanChecks(rows)
}

// exists checks if a record with the given check_id exists.
func (s *CheckStore) exists(ctx context.Context, checkID string) (bool, error) {
	var count uint64
	err := s.conn.QueryRow(ctx, `SELECT count(*) FROM sale_checks WHERE check_id = ?`, checkID).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// scanChecks scans multiple rows.
func scanChecks(rows chRows) ([]*domain.CheckRecord, error) {
	var checks []*domain.CheckRecord

	for rows.Next() {
		var c domain.CheckRecord
		var source string
		var slot, checkedAt uint64
		var passed uint8
		var checked, failed uint16

		err := rows.Scan(
			&c.CheckID, &c.SaleAccount, &source, &slot, &checkedAt, &passed,
			&checked, &failed, &c.Field, &c.Expected, &c.Actual, &c.Error,
		)
		if err != nil {
			return nil, fmt.Errorf("scan check row: %w", err)
		}

		c.Source = domain.CheckSource(source)
		c.Slot = int64(slot)
		c.CheckedAt = int64(checkedAt)
		c.Passed = passed == 1
		c.Checked = int(checked)
		c.Failed = int(failed)
		checks = append(checks, &c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate check rows: %w", err)
	}

	return checks, nil
}
