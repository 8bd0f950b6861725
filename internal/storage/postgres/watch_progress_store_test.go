package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-token-sale/internal/storage"
)

func TestWatchProgressStore_Upsert(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewWatchProgressStore(pool)
	ctx := context.Background()

	_, err := store.GetLastProcessed(ctx, "SaleAccount111")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, store.SetLastProcessed(ctx, &storage.WatchProgress{
		SaleAccount: "SaleAccount111", Slot: 200, Signature: "sig200",
	}))

	// Older slot does not overwrite
	require.NoError(t, store.SetLastProcessed(ctx, &storage.WatchProgress{
		SaleAccount: "SaleAccount111", Slot: 150,
	}))

	got, err := store.GetLastProcessed(ctx, "SaleAccount111")
	require.NoError(t, err)
	assert.Equal(t, int64(200), got.Slot)
	assert.Equal(t, "sig200", got.Signature)

	require.NoError(t, store.SetLastProcessed(ctx, &storage.WatchProgress{
		SaleAccount: "SaleAccount111", Slot: 250, Signature: "sig250",
	}))
	got, err = store.GetLastProcessed(ctx, "SaleAccount111")
	require.NoError(t, err)
	assert.Equal(t, int64(250), got.Slot)
}

func TestWatchProgressStore_InvalidInput(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewWatchProgressStore(pool)
	assert.ErrorIs(t, store.SetLastProcessed(context.Background(), nil), storage.ErrInvalidInput)
}
