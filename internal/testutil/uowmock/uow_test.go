package uowmock

import (
	"context"
	"errors"
	"testing"

	"p2p-loan-escrow/internal/domain/loan"
	"p2p-loan-escrow/internal/domain/uow"
	"p2p-loan-escrow/internal/testutil/ledgermock"
	"p2p-loan-escrow/internal/testutil/loanmock"
)

func TestUoW_WithinTx_Happy(t *testing.T) {
	ctx := context.Background()

	loans := &loanmock.Repo{}
	ledger := &ledgermock.Repo{}
	repos := uow.Repos{Loans: loans, Ledger: ledger}

	innerCalled := false
	m := &UoW{
		WithinTxFn: func(gotCtx context.Context, fn func(r uow.Repos) error) error {
			if gotCtx != ctx {
				t.Fatalf("WithinTx: ctx mismatch")
			}
			if fn == nil {
				t.Fatalf("WithinTx: fn is nil")
			}
			// simulate transaction body
			return fn(repos)
		},
	}

	err := m.WithinTx(ctx, func(r uow.Repos) error {
		innerCalled = true
		if r.Loans != loans || r.Ledger != ledger {
			t.Fatalf("WithinTx: repos not forwarded correctly")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinTx: unexpected err: %v", err)
	}
	if !innerCalled {
		t.Fatalf("WithinTx: inner fn not called")
	}
}

func TestUoW_WithinTx_PropagatesError(t *testing.T) {
	ctx := context.Background()
	sentinel := errors.New("boom")

	m := &UoW{
		WithinTxFn: func(context.Context, func(uow.Repos) error) error {
			return sentinel
		},
	}
	if err := m.WithinTx(ctx, func(uow.Repos) error { return nil }); !errors.Is(err, sentinel) {
		t.Fatalf("WithinTx: want %v, got %v", sentinel, err)
	}
}

func TestUoW_WithinTx_Default_Unimplemented(t *testing.T) {
	ctx := context.Background()
	m := &UoW{} // no funcs set
	if err := m.WithinTx(ctx, func(uow.Repos) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinTx default: want errUnimplemented, got %v", err)
	}
}

func TestUoW_WithinLoanTx_Happy(t *testing.T) {
	ctx := context.Background()

	loans := &loanmock.Repo{}
	ledger := &ledgermock.Repo{}
	repos := uow.Repos{Loans: loans, Ledger: ledger}
	lock := &loan.Loan{ID: 7, LoanID: "LN-7"}

	innerCalled := false
	m := &UoW{
		WithinLoanTxFn: func(gotCtx context.Context, loanID string, fn func(r uow.Repos, l *loan.Loan) error) error {
			if gotCtx != ctx {
				t.Fatalf("WithinLoanTx: ctx mismatch")
			}
			if loanID != "LN-7" {
				t.Fatalf("WithinLoanTx: loanID mismatch, got %s", loanID)
			}
			return fn(repos, lock)
		},
	}

	err := m.WithinLoanTx(ctx, "LN-7", func(r uow.Repos, l *loan.Loan) error {
		innerCalled = true
		if r.Loans != loans || r.Ledger != ledger {
			t.Fatalf("WithinLoanTx: repos not forwarded")
		}
		if l != lock || l.LoanID != "LN-7" {
			t.Fatalf("WithinLoanTx: loan not forwarded correctly: %+v", l)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinLoanTx: unexpected err: %v", err)
	}
	if !innerCalled {
		t.Fatalf("WithinLoanTx: inner fn not called")
	}
}

func TestUoW_WithinLoanTx_PropagatesError(t *testing.T) {
	ctx := context.Background()
	sentinel := errors.New("stop")

	m := &UoW{
		WithinLoanTxFn: func(context.Context, string, func(uow.Repos, *loan.Loan) error) error {
			return sentinel
		},
	}
	if err := m.WithinLoanTx(ctx, "LN-X", func(uow.Repos, *loan.Loan) error { return nil }); !errors.Is(err, sentinel) {
		t.Fatalf("WithinLoanTx: want %v, got %v", sentinel, err)
	}
}

func TestUoW_Default_Unimplemented_WithinLoanTx(t *testing.T) {
	ctx := context.Background()
	m := &UoW{} // no funcs set
	if err := m.WithinLoanTx(ctx, "LN-X", func(uow.Repos, *loan.Loan) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinLoanTx default: want errUnimplemented, got %v", err)
	}
}

func TestOver_LoadsLoanAndForwardsRepos(t *testing.T) {
	ctx := context.Background()
	lock := &loan.Loan{ID: 9, LoanID: "LN-9"}
	loans := &loanmock.Repo{
		GetByLoanIDForUpdateFn: func(_ context.Context, loanID string) (*loan.Loan, error) {
			if loanID != "LN-9" {
				return nil, errors.New("unexpected loan id")
			}
			return lock, nil
		},
	}
	ledger := &ledgermock.Repo{}
	m := Over(uow.Repos{Loans: loans, Ledger: ledger})

	err := m.WithinLoanTx(ctx, "LN-9", func(r uow.Repos, l *loan.Loan) error {
		if l != lock || r.Loans != loans || r.Ledger != ledger {
			t.Fatalf("Over: unexpected forwarding")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Over WithinLoanTx: %v", err)
	}

	// lookup failures short-circuit the callback
	err = m.WithinLoanTx(ctx, "LN-X", func(uow.Repos, *loan.Loan) error {
		t.Fatalf("callback must not run")
		return nil
	})
	if err == nil {
		t.Fatalf("Over WithinLoanTx: want error for unknown loan")
	}

	called := false
	if err := m.WithinTx(ctx, func(r uow.Repos) error { called = r.Ledger == ledger; return nil }); err != nil || !called {
		t.Fatalf("Over WithinTx: err=%v called=%v", err, called)
	}
}
