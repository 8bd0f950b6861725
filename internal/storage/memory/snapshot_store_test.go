package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"solana-token-sale/internal/domain"
	"solana-token-sale/internal/storage"
)

func newSnapshot(id, sale string, slot int64) *domain.SaleSnapshot {
	return &domain.SaleSnapshot{
		SnapshotID:    id,
		SaleAccount:   sale,
		Slot:          slot,
		ObservedAt:    1704067200000 + slot,
		IsInitialized: 1,
		Seller:        "seller",
		PricePerToken: 20000000,
		Data:          []byte{1, 2, 3},
	}
}

func TestSnapshotStore_InsertAndGet(t *testing.T) {
	store := NewSnapshotStore()
	ctx := context.Background()

	snap := newSnapshot("snap1", "sale1", 100)
	if err := store.Insert(ctx, snap); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByID(ctx, "snap1")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.PricePerToken != snap.PricePerToken {
		t.Errorf("PricePerToken mismatch: got %d, want %d", got.PricePerToken, snap.PricePerToken)
	}

	// Mutating the input or the result must not affect the store
	snap.Data[0] = 9
	got.Data[1] = 9
	again, _ := store.GetByID(ctx, "snap1")
	if again.Data[0] != 1 || again.Data[1] != 2 {
		t.Errorf("stored data mutated: %v", again.Data)
	}
}

func TestSnapshotStore_DuplicateKey(t *testing.T) {
	store := NewSnapshotStore()
	ctx := context.Background()

	if err := store.Insert(ctx, newSnapshot("snap1", "sale1", 100)); err != nil {
		t.Fatalf("first Insert failed: %v", err)
	}
	err := store.Insert(ctx, newSnapshot("snap1", "sale1", 100))
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestSnapshotStore_InvalidInput(t *testing.T) {
	store := NewSnapshotStore()
	ctx := context.Background()

	if err := store.Insert(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for nil, got %v", err)
	}
	if err := store.Insert(ctx, &domain.SaleSnapshot{SnapshotID: "x"}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for missing sale account, got %v", err)
	}
}

func TestSnapshotStore_NotFound(t *testing.T) {
	store := NewSnapshotStore()
	ctx := context.Background()

	if _, err := store.GetByID(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := store.GetLatest(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSnapshotStore_GetLatest(t *testing.T) {
	store := NewSnapshotStore()
	ctx := context.Background()

	for _, s := range []*domain.SaleSnapshot{
		newSnapshot("a", "sale1", 100),
		newSnapshot("b", "sale1", 300),
		newSnapshot("c", "sale1", 200),
		newSnapshot("d", "sale2", 900),
	} {
		if err := store.Insert(ctx, s); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	got, err := store.GetLatest(ctx, "sale1")
	if err != nil {
		t.Fatalf("GetLatest failed: %v", err)
	}
	if got.SnapshotID != "b" {
		t.Errorf("expected snapshot b, got %s", got.SnapshotID)
	}
}

func TestSnapshotStore_GetBySlotRange(t *testing.T) {
	store := NewSnapshotStore()
	ctx := context.Background()

	for _, s := range []*domain.SaleSnapshot{
		newSnapshot("a", "sale1", 300),
		newSnapshot("b", "sale1", 100),
		newSnapshot("c", "sale1", 200),
		newSnapshot("d", "sale2", 150),
	} {
		if err := store.Insert(ctx, s); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	got, err := store.GetBySlotRange(ctx, "sale1", 100, 200)
	if err != nil {
		t.Fatalf("GetBySlotRange failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 snapshots, got %d", len(got))
	}
	if got[0].Slot != 100 || got[1].Slot != 200 {
		t.Errorf("unexpected order: %d, %d", got[0].Slot, got[1].Slot)
	}
}

func TestSnapshotStore_ConcurrentInsert(t *testing.T) {
	store := NewSnapshotStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- store.Insert(ctx, newSnapshot("same", "sale1", 1))
		}()
	}
	wg.Wait()
	close(errs)

	var ok, dup int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, storage.ErrDuplicateKey):
			dup++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok != 1 || dup != 9 {
		t.Errorf("expected 1 insert and 9 duplicates, got %d and %d", ok, dup)
	}
}
