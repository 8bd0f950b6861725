package clickhouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-token-sale/internal/domain"
	"solana-token-sale/internal/storage"
)

func testCheck(id string, checkedAt int64, passed bool) *domain.CheckRecord {
	c := &domain.CheckRecord{
		CheckID:     id,
		SaleAccount: "SaleAccount111",
		Source:      domain.CheckSourceVerify,
		Slot:        checkedAt / 10,
		CheckedAt:   checkedAt,
		Passed:      passed,
		Checked:     5,
	}
	if !passed {
		c.Failed = 2
		c.Field = "swapSolAmount"
		c.Expected = "2000000"
		c.Actual = "2000001"
		c.Error = "swapSolAmount: expected 2000000, got 2000001"
	}
	return c
}

func TestCheckStore_InsertAndGet(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewCheckStore(conn)
	ctx := context.Background()

	require.NoError(t, store.InsertBulk(ctx, nil))

	require.NoError(t, store.Insert(ctx, testCheck("c2", 2000, false)))
	require.NoError(t, store.Insert(ctx, testCheck("c1", 1000, true)))

	got, err := store.GetBySaleAccount(ctx, "SaleAccount111")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c1", got[0].CheckID)
	assert.True(t, got[0].Passed)
	assert.Equal(t, domain.CheckSourceVerify, got[0].Source)

	failed, err := store.GetFailed(ctx, "SaleAccount111")
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "c2", failed[0].CheckID)
	assert.Equal(t, 2, failed[0].Failed)
	assert.Equal(t, "swapSolAmount", failed[0].Field)
	assert.Equal(t, int64(200), failed[0].Slot)
}

func TestCheckStore_DuplicateKey(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewCheckStore(conn)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testCheck("c1", 1000, true)))
	assert.ErrorIs(t, store.Insert(ctx, testCheck("c1", 1000, true)), storage.ErrDuplicateKey)

	err := store.InsertBulk(ctx, []*domain.CheckRecord{
		testCheck("c3", 3000, true),
		testCheck("c3", 3000, true),
	})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}
