package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"solana-token-sale/internal/domain"
)

// ComputeCheckID computes a deterministic check_id using SHA256.
// Formula: SHA256(sale_account|source|slot|passed|field)
// Returns hex-encoded hash (64 characters).
func ComputeCheckID(
	saleAccount string,
	source domain.CheckSource,
	slot int64,
	passed bool,
	field string,
) string {
	data := fmt.Sprintf("%s|%s|%d|%t|%s",
		saleAccount,
		string(source),
		slot,
		passed,
		field,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}

// ComputeSnapshotID computes a deterministic snapshot_id using SHA256.
// Formula: SHA256(sale_account|slot)
func ComputeSnapshotID(saleAccount string, slot int64) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s|%d", saleAccount, slot)))
	return hex.EncodeToString(hash[:])
}
