package loan

import (
	"errors"
	"fmt"
)

// Kind classifies a rejected invocation.
type Kind string

const (
	KindUnauthorized  Kind = "UNAUTHORIZED"
	KindInvalidAmount Kind = "INVALID_AMOUNT"
	KindNotMatured    Kind = "NOT_MATURED"
	KindIllegalState  Kind = "ILLEGAL_STATE"
)

// Error is a revert: the invocation is rejected as a whole and carries a
// stable reason string for the caller.
type Error struct {
	Kind   Kind
	Reason string
}

func (e *Error) Error() string { return e.Reason }

// Is matches on Kind, and on Reason too when the target sets one, so both
// errors.Is(err, ErrUnauthorized) and errors.Is(err, ErrOnlyLender) work.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Reason == "" || t.Reason == e.Reason)
}

var (
	ErrUnauthorized  = &Error{Kind: KindUnauthorized}
	ErrInvalidAmount = &Error{Kind: KindInvalidAmount}
	ErrNotMatured    = &Error{Kind: KindNotMatured}
	ErrIllegalState  = &Error{Kind: KindIllegalState}

	ErrOnlyLender     = &Error{Kind: KindUnauthorized, Reason: "only lender can lend"}
	ErrOnlyBorrower   = &Error{Kind: KindUnauthorized, Reason: "only borrower can reimburse"}
	ErrExactPrincipal = &Error{Kind: KindInvalidAmount, Reason: "can only lend the exact amount"}
	ErrExactRepayment = &Error{Kind: KindInvalidAmount, Reason: "borrower need to reimburse exactly amount + interest"}
	ErrLoanNotMatured = &Error{Kind: KindNotMatured, Reason: "loan hasnt matured yet"}
	ErrAlreadyFunded  = &Error{Kind: KindIllegalState, Reason: "loan is not pending"}
	ErrNotActive      = &Error{Kind: KindIllegalState, Reason: "loan is not active"}
)

var (
	ErrNotFound     = errors.New("loan not found")
	ErrInvalidTerms = errors.New("invalid loan terms")
)

// KindOf returns the revert kind of err, or "" when err is not a revert.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func invalidTerms(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrInvalidTerms}, args...)...)
}
