package monitor

import (
	"context"
	"errors"
	"fmt"
	"log"

	"solana-token-sale/internal/domain"
	"solana-token-sale/internal/sale"
	"solana-token-sale/internal/solana"
	"solana-token-sale/internal/storage"
	"solana-token-sale/internal/validation"
)

// Observation is one account change seen by the Watcher.
type Observation struct {
	Address solana.PublicKey
	Slot    int64
	Account *sale.TokenSaleAccount // nil when closed or undecodable
	Closed  bool
	Result  *validation.Result // nil when no expected state is set
	Err     error              // decode or initialization error
}

// Watcher streams sale account changes over a websocket subscription.
type Watcher struct {
	ws       solana.WSClient
	checker  *Checker
	progress storage.WatchProgressStore
	expected validation.ExpectedState
	logger   *log.Logger
}

// WatcherOptions for creating a Watcher.
type WatcherOptions struct {
	WS      solana.WSClient // required
	Checker *Checker        // required; provides stores and metrics

	Progress storage.WatchProgressStore // optional; skips already processed slots
	Expected validation.ExpectedState   // optional; validates every change
	Logger   *log.Logger
}

// NewWatcher creates a new Watcher.
func NewWatcher(opts WatcherOptions) *Watcher {
	w := &Watcher{
		ws:       opts.WS,
		checker:  opts.Checker,
		progress: opts.Progress,
		expected: opts.Expected,
		logger:   opts.Logger,
	}
	if w.logger == nil {
		w.logger = opts.Checker.logger
	}
	return w
}

// Watch subscribes to the sale account and returns a channel of observations.
// The channel is closed when the context is cancelled, the subscription ends,
// or the account is closed; the subscription is released at that point.
func (w *Watcher) Watch(ctx context.Context, address solana.PublicKey) (<-chan Observation, error) {
	var lastSlot int64
	if w.progress != nil {
		p, err := w.progress.GetLastProcessed(ctx, address.String())
		switch {
		case err == nil:
			lastSlot = p.Slot
			w.logger.Printf("[watch] resuming %s after slot %d", address, lastSlot)
		case errors.Is(err, storage.ErrNotFound):
		default:
			return nil, fmt.Errorf("get watch progress: %w", err)
		}
	}

	notifs, err := w.ws.SubscribeAccount(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", address, err)
	}
	w.logger.Printf("[watch] subscribed to %s", address)

	out := make(chan Observation, 16)
	go func() {
		defer close(out)
		defer func() {
			if err := w.ws.Unsubscribe(notifs); err != nil {
				w.logger.Printf("[watch] WARN: unsubscribe %s: %v", address, err)
			}
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case n, ok := <-notifs:
				if !ok {
					w.logger.Printf("[watch] subscription for %s ended", address)
					return
				}
				// Slot 0 means the node sent no context; never treat it as a replay
				if n.Slot != 0 {
					if n.Slot <= lastSlot {
						continue
					}
					lastSlot = n.Slot
				}

				obs := w.observe(ctx, address, n)
				select {
				case out <- obs:
				case <-ctx.Done():
					return
				}
				if obs.Closed {
					return
				}
			}
		}
	}()
	return out, nil
}

// observe turns one notification into an observation and records it.
func (w *Watcher) observe(ctx context.Context, address solana.PublicKey, n solana.AccountNotification) Observation {
	c := w.checker
	c.metrics.RecordNotification(n.Slot)

	obs := Observation{Address: address, Slot: n.Slot}
	insp := &Inspection{Address: address, Slot: n.Slot}

	if n.Closed() {
		obs.Closed = true
		w.logger.Printf("[watch] %s closed at slot %d", address, n.Slot)
	} else {
		insp.Lamports = n.Account.Lamports
		insp.Data = n.Account.Data
		acc, err := validation.CheckInitialized(n.Account.Data)
		obs.Account = acc
		insp.Account = acc
		obs.Err = err
		if err == nil {
			c.metrics.RecordPrice(address.String(), acc.PricePerToken())
		}
	}

	if w.expected != nil && obs.Account != nil && obs.Err == nil {
		obs.Result = validation.ValidateAll(obs.Account.RawFields(), w.expected)
	}
	if obs.Account != nil {
		if err := c.storeSnapshot(ctx, insp); err != nil {
			w.logger.Printf("[watch] WARN: %v", err)
		}
	}
	if !obs.Closed && (w.expected != nil || obs.Err != nil) {
		rec := c.newCheckRecord(domain.CheckSourceWatch, insp, obs.Result, obs.Err)
		if err := c.recordCheck(ctx, rec); err != nil {
			w.logger.Printf("[watch] WARN: %v", err)
		}
	}

	if w.progress != nil && n.Slot != 0 {
		err := w.progress.SetLastProcessed(ctx, &storage.WatchProgress{
			SaleAccount: address.String(),
			Slot:        n.Slot,
		})
		if err != nil {
			w.logger.Printf("[watch] WARN: set progress: %v", err)
		}
	}
	return obs
}
