// Package monitor reads sale accounts from the cluster, checks them against
// expected post-conditions and records the outcome.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"solana-token-sale/internal/domain"
	"solana-token-sale/internal/idhash"
	"solana-token-sale/internal/observability"
	"solana-token-sale/internal/sale"
	"solana-token-sale/internal/solana"
	"solana-token-sale/internal/storage"
	"solana-token-sale/internal/validation"
)

// Checker inspects and verifies sale accounts.
type Checker struct {
	rpc       solana.RPCClient
	snapshots storage.SnapshotStore
	checks    storage.CheckStore
	metrics   *observability.Metrics
	logger    *log.Logger
	now       func() time.Time
}

// Options for creating a Checker.
type Options struct {
	// Required
	RPC solana.RPCClient

	// Optional stores; nil disables persistence
	Snapshots storage.SnapshotStore
	Checks    storage.CheckStore

	Metrics *observability.Metrics // defaults to observability.DefaultMetrics
	Logger  *log.Logger            // defaults to log.Default()
	Now     func() time.Time       // defaults to time.Now
}

// NewChecker creates a new Checker.
func NewChecker(opts Options) *Checker {
	c := &Checker{
		rpc:       opts.RPC,
		snapshots: opts.Snapshots,
		checks:    opts.Checks,
		metrics:   opts.Metrics,
		logger:    opts.Logger,
		now:       opts.Now,
	}
	if c.metrics == nil {
		c.metrics = observability.DefaultMetrics
	}
	if c.logger == nil {
		c.logger = log.Default()
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// Inspection is one read of a sale account.
type Inspection struct {
	Address  solana.PublicKey
	Slot     int64
	Lamports uint64
	Data     []byte
	Account  *sale.TokenSaleAccount // nil when not found or malformed
}

// Report is the outcome of Verify.
type Report struct {
	Inspection *Inspection
	Result     *validation.Result
	Check      *domain.CheckRecord
}

// Err returns the validation error, or nil when every expected field matched.
func (r *Report) Err() error {
	if r.Result == nil {
		return nil
	}
	return r.Result.Err()
}

// Inspect fetches and decodes a sale account.
// A missing account is validation.ErrAccountNotFound. An account whose
// isInitialized flag is not 1 is returned together with validation.ErrNotInitialized.
func (c *Checker) Inspect(ctx context.Context, address solana.PublicKey) (*Inspection, error) {
	start := time.Now()
	info, err := c.rpc.GetAccountInfo(ctx, address)
	c.metrics.RecordRPCLatency("getAccountInfo", time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("get account %s: %w", address, err)
	}

	insp := &Inspection{Address: address}
	if info == nil {
		c.metrics.RecordNotFound()
		return insp, fmt.Errorf("%s: %w", address, validation.ErrAccountNotFound)
	}
	insp.Slot = info.Slot
	insp.Lamports = info.Lamports
	insp.Data = info.Data

	acc, err := validation.CheckInitialized(info.Data)
	insp.Account = acc
	if err != nil {
		if errors.Is(err, validation.ErrAccountNotFound) {
			c.metrics.RecordNotFound()
		}
		return insp, fmt.Errorf("%s: %w", address, err)
	}
	c.metrics.RecordPrice(address.String(), acc.PricePerToken())
	return insp, nil
}

// Verify inspects the account, compares every expected field and persists
// a snapshot and a check record. The returned error covers read and storage
// failures only; field divergences are reported through Report.Err.
func (c *Checker) Verify(ctx context.Context, address solana.PublicKey, expected validation.ExpectedState) (*Report, error) {
	insp, err := c.Inspect(ctx, address)
	if err != nil {
		if insp == nil {
			return nil, err
		}
		rec := c.newCheckRecord(domain.CheckSourceVerify, insp, nil, err)
		if storeErr := c.recordCheck(ctx, rec); storeErr != nil {
			return nil, storeErr
		}
		if insp.Account != nil {
			if storeErr := c.storeSnapshot(ctx, insp); storeErr != nil {
				return nil, storeErr
			}
		}
		return &Report{Inspection: insp, Check: rec}, err
	}

	res := validation.ValidateAll(insp.Account.RawFields(), expected)
	rec := c.newCheckRecord(domain.CheckSourceVerify, insp, res, nil)

	if err := c.storeSnapshot(ctx, insp); err != nil {
		return nil, err
	}
	if err := c.recordCheck(ctx, rec); err != nil {
		return nil, err
	}

	if res.Passed() {
		c.logger.Printf("[verify] %s ok: %d fields at slot %d", address, res.Checked, insp.Slot)
	} else {
		c.logger.Printf("[verify] %s FAILED: %d of %d fields diverged", address, len(res.Divergences), res.Checked)
	}
	return &Report{Inspection: insp, Result: res, Check: rec}, nil
}

// ConfirmClosed asserts that the sale account no longer exists.
// Returns ErrAccountExists when data is still present.
func (c *Checker) ConfirmClosed(ctx context.Context, address solana.PublicKey) (*domain.CheckRecord, error) {
	start := time.Now()
	info, err := c.rpc.GetAccountInfo(ctx, address)
	c.metrics.RecordRPCLatency("getAccountInfo", time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("get account %s: %w", address, err)
	}

	insp := &Inspection{Address: address}
	var closedErr error
	if info != nil && (info.Lamports > 0 || len(info.Data) > 0) {
		insp.Slot = info.Slot
		insp.Lamports = info.Lamports
		insp.Data = info.Data
		closedErr = fmt.Errorf("%s: %w (%d lamports, %d bytes)", address, ErrAccountExists, info.Lamports, len(info.Data))
	}

	rec := c.newCheckRecord(domain.CheckSourceConfirmClosed, insp, nil, closedErr)
	if rec.Passed {
		c.metrics.RecordNotFound()
	}
	if err := c.recordCheck(ctx, rec); err != nil {
		return nil, err
	}
	return rec, closedErr
}

// Rent returns the rent-exempt minimum for a sale account.
func (c *Checker) Rent(ctx context.Context) (uint64, error) {
	start := time.Now()
	lamports, err := c.rpc.GetMinimumBalanceForRentExemption(ctx, sale.AccountSize)
	c.metrics.RecordRPCLatency("getMinimumBalanceForRentExemption", time.Since(start).Seconds())
	if err != nil {
		return 0, fmt.Errorf("get rent exemption: %w", err)
	}
	return lamports, nil
}

// History returns the most recent transaction signatures touching the sale account.
func (c *Checker) History(ctx context.Context, address solana.PublicKey, limit int) ([]solana.SignatureInfo, error) {
	start := time.Now()
	sigs, err := c.rpc.GetSignaturesForAddress(ctx, address, &solana.SignaturesOpts{Limit: limit})
	c.metrics.RecordRPCLatency("getSignaturesForAddress", time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("get signatures %s: %w", address, err)
	}
	return sigs, nil
}

// newCheckRecord builds the record for one check. A non-nil opErr fails the check.
func (c *Checker) newCheckRecord(source domain.CheckSource, insp *Inspection, res *validation.Result, opErr error) *domain.CheckRecord {
	rec := &domain.CheckRecord{
		SaleAccount: insp.Address.String(),
		Source:      source,
		Slot:        insp.Slot,
		CheckedAt:   c.now().UnixMilli(),
		Passed:      opErr == nil,
	}
	if opErr != nil {
		rec.Error = opErr.Error()
	}
	if res != nil {
		rec.Checked = res.Checked
		rec.Failed = len(res.Divergences)
		if !res.Passed() {
			rec.Passed = false
			first := res.Divergences[0]
			rec.Field = first.Field.String()
			rec.Expected = first.Expected.String()
			rec.Actual = validation.FormatRaw(first.Field, first.Actual)
			rec.Error = res.Err().Error()
		}
	}
	rec.CheckID = idhash.ComputeCheckID(rec.SaleAccount, source, rec.Slot, rec.Passed, rec.Field)

	var failed []string
	if res != nil {
		for _, d := range res.Divergences {
			failed = append(failed, d.Field.String())
		}
	}
	c.metrics.RecordCheck(string(source), rec.Passed, failed)
	return rec
}

// recordCheck stores a check record. Re-checking the same slot with the same
// outcome yields the same id and is not an error.
func (c *Checker) recordCheck(ctx context.Context, rec *domain.CheckRecord) error {
	if c.checks == nil {
		return nil
	}
	start := time.Now()
	err := c.checks.Insert(ctx, rec)
	if errors.Is(err, storage.ErrDuplicateKey) {
		err = nil
	}
	c.metrics.RecordDBQuery("checks", "insert", time.Since(start).Seconds(), err)
	if err != nil {
		return fmt.Errorf("insert check record: %w", err)
	}
	return nil
}

// storeSnapshot persists the decoded account at its read slot.
func (c *Checker) storeSnapshot(ctx context.Context, insp *Inspection) error {
	if c.snapshots == nil || insp.Account == nil {
		return nil
	}
	snap := newSnapshot(insp, c.now().UnixMilli())

	start := time.Now()
	err := c.snapshots.Insert(ctx, snap)
	switch {
	case err == nil:
		c.metrics.RecordSnapshotStored()
	case errors.Is(err, storage.ErrDuplicateKey):
		err = nil
	}
	c.metrics.RecordDBQuery("snapshots", "insert", time.Since(start).Seconds(), err)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}
	return nil
}

func newSnapshot(insp *Inspection, observedAt int64) *domain.SaleSnapshot {
	addr := insp.Address.String()
	acc := insp.Account
	return &domain.SaleSnapshot{
		SnapshotID:       idhash.ComputeSnapshotID(addr, insp.Slot),
		SaleAccount:      addr,
		Slot:             insp.Slot,
		ObservedAt:       observedAt,
		IsInitialized:    acc.IsInitialized,
		Seller:           acc.SellerPubkey.String(),
		TempTokenAccount: acc.TempTokenAccountPubkey.String(),
		PricePerToken:    acc.PricePerToken(),
		MinBuy:           acc.MinBuy(),
		Lamports:         insp.Lamports,
		Data:             append([]byte(nil), insp.Data...),
	}
}
