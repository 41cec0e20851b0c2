package ledger

import "context"

type Repository interface {
	Open(ctx context.Context, a *Account) error
	GetByAccountID(ctx context.Context, accountID string) (*Account, error)
	Credit(ctx context.Context, accountID string, amount int64) error
	// Transfer moves amount between two existing accounts and appends an Entry.
	// It fails with ErrInsufficientFunds rather than overdrawing.
	Transfer(ctx context.Context, from, to string, amount int64) error
	ListEntries(ctx context.Context, accountID string) ([]Entry, error)
}
