package stub

import (
	"context"
	"errors"
	"sync"

	"solana-token-sale/internal/solana"
)

// ErrNotFound is returned for balances of unknown accounts.
var ErrNotFound = errors.New("not found")

// RPCClient implements solana.RPCClient for testing.
// Safe for concurrent use.
type RPCClient struct {
	mu            sync.RWMutex
	Accounts      map[solana.PublicKey]*solana.AccountInfo
	TokenBalances map[solana.PublicKey]*solana.TokenAmount
	Signatures    map[solana.PublicKey][]solana.SignatureInfo
	// RentPerByte and RentBase define GetMinimumBalanceForRentExemption.
	RentPerByte uint64
	RentBase    uint64
	// Err, when set, is returned by every call.
	Err error
}

// Compile-time interface check.
var _ solana.RPCClient = (*RPCClient)(nil)

// NewRPCClient creates a new stub RPC client.
// Rent defaults mirror mainnet: (128 + dataLen) * 6960 lamports.
func NewRPCClient() *RPCClient {
	return &RPCClient{
		Accounts:      make(map[solana.PublicKey]*solana.AccountInfo),
		TokenBalances: make(map[solana.PublicKey]*solana.TokenAmount),
		Signatures:    make(map[solana.PublicKey][]solana.SignatureInfo),
		RentPerByte:   6960,
		RentBase:      128 * 6960,
	}
}

// GetAccountInfo returns a copy of the stored account, or nil if absent.
func (c *RPCClient) GetAccountInfo(_ context.Context, pubkey solana.PublicKey) (*solana.AccountInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.Err != nil {
		return nil, c.Err
	}
	acc, ok := c.Accounts[pubkey]
	if !ok {
		return nil, nil
	}
	cp := *acc
	cp.Data = append([]byte(nil), acc.Data...)
	return &cp, nil
}

// GetMinimumBalanceForRentExemption computes rent from the configured rates.
func (c *RPCClient) GetMinimumBalanceForRentExemption(_ context.Context, dataLen int) (uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.Err != nil {
		return 0, c.Err
	}
	return c.RentBase + uint64(dataLen)*c.RentPerByte, nil
}

// GetBalance returns the lamports of a stored account, zero if absent.
func (c *RPCClient) GetBalance(_ context.Context, pubkey solana.PublicKey) (uint64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.Err != nil {
		return 0, c.Err
	}
	if acc, ok := c.Accounts[pubkey]; ok {
		return acc.Lamports, nil
	}
	return 0, nil
}

// GetTokenAccountBalance returns the stored token balance.
func (c *RPCClient) GetTokenAccountBalance(_ context.Context, pubkey solana.PublicKey) (*solana.TokenAmount, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.Err != nil {
		return nil, c.Err
	}
	bal, ok := c.TokenBalances[pubkey]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *bal
	return &cp, nil
}

// GetSignaturesForAddress retrieves signatures for an address from the stub store.
func (c *RPCClient) GetSignaturesForAddress(_ context.Context, pubkey solana.PublicKey, opts *solana.SignaturesOpts) ([]solana.SignatureInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.Err != nil {
		return nil, c.Err
	}
	sigs, ok := c.Signatures[pubkey]
	if !ok {
		return nil, nil
	}

	// Apply limit if specified
	if opts != nil && opts.Limit > 0 && opts.Limit < len(sigs) {
		return sigs[:opts.Limit], nil
	}

	return sigs, nil
}

// SetAccount stores an account.
func (c *RPCClient) SetAccount(pubkey solana.PublicKey, acc *solana.AccountInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Accounts[pubkey] = acc
}

// DeleteAccount removes an account, as CloseSale does on chain.
func (c *RPCClient) DeleteAccount(pubkey solana.PublicKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.Accounts, pubkey)
}

// SetTokenBalance stores a token account balance.
func (c *RPCClient) SetTokenBalance(pubkey solana.PublicKey, amount *solana.TokenAmount) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.TokenBalances[pubkey] = amount
}

// AddSignatures adds signatures for an address to the stub store.
func (c *RPCClient) AddSignatures(pubkey solana.PublicKey, sigs []solana.SignatureInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Signatures[pubkey] = sigs
}
