package solana

import "context"

// WSClient defines Solana WebSocket subscription interface.
type WSClient interface {
	// SubscribeAccount subscribes to data and lamport changes of one account.
	SubscribeAccount(ctx context.Context, pubkey PublicKey) (<-chan AccountNotification, error)

	// Unsubscribe stops delivery to a channel returned by SubscribeAccount.
	Unsubscribe(ch <-chan AccountNotification) error

	// Close closes the WebSocket connection.
	Close() error
}

// AccountNotification represents an accountSubscribe message.
// Account is nil when the node reports no value for the address.
type AccountNotification struct {
	Pubkey  PublicKey
	Slot    int64
	Account *AccountInfo
}

// Closed reports whether the notification describes a deallocated account:
// no value, or zero lamports with no data.
func (n AccountNotification) Closed() bool {
	if n.Account == nil {
		return true
	}
	return n.Account.Lamports == 0 && len(n.Account.Data) == 0
}
