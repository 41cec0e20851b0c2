package uow

import (
	"context"

	"p2p-loan-escrow/internal/domain/ledger"
	"p2p-loan-escrow/internal/domain/loan"
)

// Repos are bound to a single transaction.
type Repos struct {
	Loans  loan.Repository
	Ledger ledger.Repository
}

type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// WithinLoanTx locks the loan row first, then passes it in.
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
