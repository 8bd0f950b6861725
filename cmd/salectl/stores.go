package main

import (
	"context"
	"fmt"

	"solana-token-sale/internal/storage"
	chstore "solana-token-sale/internal/storage/clickhouse"
	"solana-token-sale/internal/storage/memory"
	pgstore "solana-token-sale/internal/storage/postgres"
)

// allStores holds all storage implementations.
type allStores struct {
	snapshots storage.SnapshotStore
	checks    storage.CheckStore
	progress  storage.WatchProgressStore
}

// createStores uses PostgreSQL for snapshots and watch progress and ClickHouse
// for check history. An empty DSN selects the in-memory store for that side.
func createStores(ctx context.Context, postgresDSN, clickhouseDSN string) (*allStores, func(), error) {
	stores := &allStores{
		snapshots: memory.NewSnapshotStore(),
		checks:    memory.NewCheckStore(),
		progress:  memory.NewWatchProgressStore(),
	}
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	// PostgreSQL
	if postgresDSN != "" {
		pool, err := pgstore.NewPool(ctx, postgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to postgres: %w", err)
		}
		closers = append(closers, pool.Close)
		stores.snapshots = pgstore.NewSnapshotStore(pool)
		stores.progress = pgstore.NewWatchProgressStore(pool)
	}

	// ClickHouse
	if clickhouseDSN != "" {
		chConn, err := chstore.NewConn(ctx, clickhouseDSN)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("connect to clickhouse: %w", err)
		}
		closers = append(closers, func() { chConn.Close() })
		stores.checks = chstore.NewCheckStore(chConn)
	}

	return stores, cleanup, nil
}
