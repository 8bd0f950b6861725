package memory

import (
	"context"
	"errors"
	"testing"

	"solana-token-sale/internal/storage"
)

func TestWatchProgressStore(t *testing.T) {
	store := NewWatchProgressStore()
	ctx := context.Background()

	if _, err := store.GetLastProcessed(ctx, "sale1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	if err := store.SetLastProcessed(ctx, &storage.WatchProgress{SaleAccount: "sale1", Slot: 200, Signature: "sig200"}); err != nil {
		t.Fatalf("SetLastProcessed failed: %v", err)
	}

	// Older slot is ignored
	if err := store.SetLastProcessed(ctx, &storage.WatchProgress{SaleAccount: "sale1", Slot: 100}); err != nil {
		t.Fatalf("SetLastProcessed failed: %v", err)
	}

	got, err := store.GetLastProcessed(ctx, "sale1")
	if err != nil {
		t.Fatalf("GetLastProcessed failed: %v", err)
	}
	if got.Slot != 200 || got.Signature != "sig200" {
		t.Errorf("unexpected progress: %+v", got)
	}

	if err := store.SetLastProcessed(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
