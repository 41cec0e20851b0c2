package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// Exists reports whether loanID names a loan, and so an escrow account.
	Exists(ctx context.Context, loanID string) (bool, error)
	// GetByLoanIDForUpdate locks the loan row until the enclosing tx ends.
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	Save(ctx context.Context, l *Loan) error
}
