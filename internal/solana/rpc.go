package solana

import "context"

// RPCClient defines the subset of the Solana RPC HTTP interface used by the sale tooling.
type RPCClient interface {
	// GetAccountInfo retrieves an account by address.
	// Returns nil, nil if the account does not exist.
	GetAccountInfo(ctx context.Context, pubkey PublicKey) (*AccountInfo, error)

	// GetMinimumBalanceForRentExemption returns the rent-exempt minimum for dataLen bytes.
	GetMinimumBalanceForRentExemption(ctx context.Context, dataLen int) (uint64, error)

	// GetBalance returns the lamport balance of an account.
	GetBalance(ctx context.Context, pubkey PublicKey) (uint64, error)

	// GetTokenAccountBalance returns the SPL token balance of a token account.
	GetTokenAccountBalance(ctx context.Context, pubkey PublicKey) (*TokenAmount, error)

	// GetSignaturesForAddress retrieves signatures for an address with pagination.
	GetSignaturesForAddress(ctx context.Context, pubkey PublicKey, opts *SignaturesOpts) ([]SignatureInfo, error)
}

// AccountInfo represents Solana account information with decoded data.
type AccountInfo struct {
	Slot       int64 // context slot of the read
	Lamports   uint64
	Owner      PublicKey
	Data       []byte
	Executable bool
	RentEpoch  uint64
}
