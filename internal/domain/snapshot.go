// Package domain holds the records persisted by the storage layer.
package domain

// SaleSnapshot is one observed state of a sale account at a slot.
// Addresses are base58 strings.
type SaleSnapshot struct {
	SnapshotID       string // deterministic hash of sale_account|slot
	SaleAccount      string // sale state account address
	Slot             int64  // context slot of the read
	ObservedAt       int64  // unix ms
	IsInitialized    uint8
	Seller           string
	TempTokenAccount string
	PricePerToken    uint64 // lamports per token (swapSolAmount)
	MinBuy           uint64 // minimum purchasable units (swapTokenAmount)
	Lamports         uint64 // account balance
	Data             []byte // raw account data
	CreatedAt        int64  // unix ms, set by the store
}
