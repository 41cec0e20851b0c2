package ledgermock

import (
	"context"

	domain "p2p-loan-escrow/internal/domain/ledger"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset reads return context.Canceled; unset writes succeed.
type Repo struct {
	OpenFn           func(ctx context.Context, a *domain.Account) error
	GetByAccountIDFn func(ctx context.Context, accountID string) (*domain.Account, error)
	CreditFn         func(ctx context.Context, accountID string, amount int64) error
	TransferFn       func(ctx context.Context, from, to string, amount int64) error
	ListEntriesFn    func(ctx context.Context, accountID string) ([]domain.Entry, error)
}

func (m *Repo) Open(ctx context.Context, a *domain.Account) error {
	if m.OpenFn != nil {
		return m.OpenFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetByAccountID(ctx context.Context, accountID string) (*domain.Account, error) {
	if m.GetByAccountIDFn != nil {
		return m.GetByAccountIDFn(ctx, accountID)
	}
	return nil, context.Canceled
}

func (m *Repo) Credit(ctx context.Context, accountID string, amount int64) error {
	if m.CreditFn != nil {
		return m.CreditFn(ctx, accountID, amount)
	}
	return nil
}

func (m *Repo) Transfer(ctx context.Context, from, to string, amount int64) error {
	if m.TransferFn != nil {
		return m.TransferFn(ctx, from, to, amount)
	}
	return nil
}

func (m *Repo) ListEntries(ctx context.Context, accountID string) ([]domain.Entry, error) {
	if m.ListEntriesFn != nil {
		return m.ListEntriesFn(ctx, accountID)
	}
	return nil, context.Canceled
}
