package reporting

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"solana-token-sale/internal/domain"
	"solana-token-sale/internal/storage"
)

// Generator produces reports from stored data.
type Generator struct {
	snapshots storage.SnapshotStore
	checks    storage.CheckStore
	now       func() time.Time // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator.
func NewGenerator(snapshots storage.SnapshotStore, checks storage.CheckStore) *Generator {
	return &Generator{
		snapshots: snapshots,
		checks:    checks,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate produces the report for one sale account.
func (g *Generator) Generate(ctx context.Context, saleAccount string) (*Report, error) {
	snaps, err := g.snapshots.GetBySlotRange(ctx, saleAccount, 0, math.MaxInt64)
	if err != nil {
		return nil, err
	}
	checks, err := g.checks.GetBySaleAccount(ctx, saleAccount)
	if err != nil {
		return nil, err
	}

	r := &Report{
		GeneratedAt:   g.now(),
		SaleAccount:   saleAccount,
		SnapshotCount: len(snaps),
		PriceChanges:  priceChanges(snaps),
		CheckSummary:  summarize(checks),
		FieldFailures: fieldFailures(checks),
		Checks:        checks,
	}

	latest, err := g.snapshots.GetLatest(ctx, saleAccount)
	switch {
	case err == nil:
		r.Latest = latest
	case errors.Is(err, storage.ErrNotFound):
	default:
		return nil, err
	}
	return r, nil
}

// priceChanges expects snapshots ordered by slot ASC.
func priceChanges(snaps []*domain.SaleSnapshot) []PriceChangeRow {
	var rows []PriceChangeRow
	for i := 1; i < len(snaps); i++ {
		prev, cur := snaps[i-1], snaps[i]
		if prev.PricePerToken != cur.PricePerToken {
			rows = append(rows, PriceChangeRow{
				Slot:     cur.Slot,
				OldPrice: prev.PricePerToken,
				NewPrice: cur.PricePerToken,
			})
		}
	}
	return rows
}

func summarize(checks []*domain.CheckRecord) CheckSummary {
	s := CheckSummary{
		Total:    len(checks),
		BySource: make(map[domain.CheckSource]int),
	}
	for _, c := range checks {
		if c.Passed {
			s.Passed++
		} else {
			s.Failed++
		}
		s.BySource[c.Source]++
	}
	return s
}

func fieldFailures(checks []*domain.CheckRecord) []FieldFailureRow {
	counts := make(map[string]int)
	for _, c := range checks {
		if !c.Passed && c.Field != "" {
			counts[c.Field]++
		}
	}

	rows := make([]FieldFailureRow, 0, len(counts))
	for f, n := range counts {
		rows = append(rows, FieldFailureRow{Field: f, Count: n})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Field < rows[j].Field
	})
	return rows
}
