// Package reporting renders sale accounts, balances and check history as
// console tables, Markdown and CSV.
package reporting

import (
	"time"

	"solana-token-sale/internal/domain"
)

// Report summarizes the stored history of one sale account.
type Report struct {
	GeneratedAt time.Time
	SaleAccount string

	// Latest stored snapshot, nil when none exist
	Latest        *domain.SaleSnapshot
	SnapshotCount int
	PriceChanges  []PriceChangeRow

	CheckSummary  CheckSummary
	FieldFailures []FieldFailureRow // sorted by count desc, field asc
	Checks        []*domain.CheckRecord
}

// CheckSummary counts stored checks.
type CheckSummary struct {
	Total    int
	Passed   int
	Failed   int
	BySource map[domain.CheckSource]int
}

// FieldFailureRow counts failed checks whose first divergence was Field.
type FieldFailureRow struct {
	Field string
	Count int
}

// PriceChangeRow is a slot at which the stored price differs from the previous snapshot.
type PriceChangeRow struct {
	Slot     int64
	OldPrice uint64
	NewPrice uint64
}
