package monitor

import (
	"context"
	"fmt"
	"time"

	"solana-token-sale/internal/solana"
)

// NamedAccount is an address with a display name, e.g. "seller".
type NamedAccount struct {
	Name    string
	Address solana.PublicKey
	Token   bool // SPL token account; the token balance is read as well
}

// Balance is the SOL and optional token balance of one account.
type Balance struct {
	Name     string
	Address  solana.PublicKey
	Lamports uint64
	Token    *solana.TokenAmount // nil for non-token accounts
}

// Balances reads the balances of the given accounts in order.
func (c *Checker) Balances(ctx context.Context, accounts []NamedAccount) ([]Balance, error) {
	out := make([]Balance, 0, len(accounts))
	for _, a := range accounts {
		start := time.Now()
		lamports, err := c.rpc.GetBalance(ctx, a.Address)
		c.metrics.RecordRPCLatency("getBalance", time.Since(start).Seconds())
		if err != nil {
			return nil, fmt.Errorf("get balance %s (%s): %w", a.Name, a.Address, err)
		}

		b := Balance{Name: a.Name, Address: a.Address, Lamports: lamports}
		if a.Token {
			start = time.Now()
			amount, err := c.rpc.GetTokenAccountBalance(ctx, a.Address)
			c.metrics.RecordRPCLatency("getTokenAccountBalance", time.Since(start).Seconds())
			if err != nil {
				return nil, fmt.Errorf("get token balance %s (%s): %w", a.Name, a.Address, err)
			}
			b.Token = amount
		}
		out = append(out, b)
	}
	return out, nil
}
