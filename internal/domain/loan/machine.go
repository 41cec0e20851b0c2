package loan

import (
	"context"
	"time"
)

// Invocation carries what a host ledger would supply implicitly: who is
// calling, the value attached to the call and the current time.
type Invocation struct {
	Caller string
	Value  int64
	Now    time.Time
}

// Ledger moves value between accounts. A failed Transfer must leave no
// effect; callers run it inside the same transaction as the loan update.
type Ledger interface {
	Transfer(ctx context.Context, from, to string, amount int64) error
}

// Terms are the construction-time parameters of a loan.
type Terms struct {
	BorrowerID   string
	LenderID     string
	Principal    int64
	Interest     int64
	DurationSecs int64
}

func (t Terms) Validate() error {
	switch {
	case t.BorrowerID == "" || t.LenderID == "":
		return invalidTerms("borrower and lender are required")
	case t.BorrowerID == t.LenderID:
		return invalidTerms("borrower and lender must differ")
	case t.Principal <= 0:
		return invalidTerms("principal must be positive")
	case t.Interest < 0:
		return invalidTerms("interest must not be negative")
	case t.DurationSecs < 0:
		return invalidTerms("duration must not be negative")
	case t.Principal > maxAmount-t.Interest:
		return invalidTerms("principal + interest overflows")
	}
	return nil
}

const maxAmount = int64(^uint64(0) >> 1)

// New builds a pending loan. The escrow account of the loan is keyed by loanID.
func New(loanID string, t Terms) (*Loan, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &Loan{
		LoanID:       loanID,
		BorrowerID:   t.BorrowerID,
		LenderID:     t.LenderID,
		Principal:    t.Principal,
		Interest:     t.Interest,
		DurationSecs: t.DurationSecs,
		State:        StatePending,
	}, nil
}

// EscrowAccount is the ledger account attached value passes through.
func (l *Loan) EscrowAccount() string { return l.LoanID }

// Fund moves exactly the principal from the lender to the borrower and
// activates the loan. Guards run in order: caller, amount, state.
func (l *Loan) Fund(ctx context.Context, ledger Ledger, inv Invocation) error {
	if inv.Caller != l.LenderID {
		return ErrOnlyLender
	}
	if inv.Value != l.Principal {
		return ErrExactPrincipal
	}
	if l.State != StatePending {
		return ErrAlreadyFunded
	}

	if err := l.settle(ctx, ledger, inv.Caller, l.BorrowerID, inv.Value); err != nil {
		return err
	}

	fundedAt := inv.Now.UTC()
	l.FundedAt = &fundedAt
	l.State = StateActive
	return nil
}

// Reimburse moves exactly principal + interest from the borrower to the
// lender and closes the loan. Guards run in order: caller, amount, state
// and maturity. A pending loan has no maturity, and a closed one has already
// matured, so checking the state before the clock is not observable.
func (l *Loan) Reimburse(ctx context.Context, ledger Ledger, inv Invocation) error {
	if inv.Caller != l.BorrowerID {
		return ErrOnlyBorrower
	}
	if inv.Value != l.Repayment() {
		return ErrExactRepayment
	}
	maturesAt, ok := l.MaturesAt()
	if !ok || l.State != StateActive {
		return ErrNotActive
	}
	if inv.Now.Before(maturesAt) {
		return ErrLoanNotMatured
	}

	if err := l.settle(ctx, ledger, inv.Caller, l.LenderID, inv.Value); err != nil {
		return err
	}

	closedAt := inv.Now.UTC()
	l.ClosedAt = &closedAt
	l.State = StateClosed
	return nil
}

// settle attaches value to the escrow and forwards it to the counterparty.
func (l *Loan) settle(ctx context.Context, ledger Ledger, from, to string, amount int64) error {
	if err := ledger.Transfer(ctx, from, l.EscrowAccount(), amount); err != nil {
		return err
	}
	return ledger.Transfer(ctx, l.EscrowAccount(), to, amount)
}
