package loan

import (
	"strings"
	"time"
)

type State string

const (
	StatePending State = "pending"
	StateActive  State = "active"
	StateClosed  State = "closed"
)

// Code is the numeric form exposed by state queries: 0 pending, 1 active, 2 closed.
func (s State) Code() int {
	switch s {
	case StateActive:
		return 1
	case StateClosed:
		return 2
	default:
		return 0
	}
}

func (s State) Name() string {
	switch s {
	case StatePending, StateActive, StateClosed:
		return strings.ToUpper(string(s))
	}
	return "UNKNOWN"
}

// Loan holds the agreed terms, both counterparties and the current state.
// Terms and parties are fixed at creation; only Fund and Reimburse mutate it.
type Loan struct {
	ID           uint64     `gorm:"primaryKey;column:id" json:"-"`
	LoanID       string     `gorm:"size:32;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	BorrowerID   string     `gorm:"size:32;index:idx_loans_borrower" json:"borrower_id"`
	LenderID     string     `gorm:"size:32;index:idx_loans_lender" json:"lender_id"`
	Principal    int64      `gorm:"not null" json:"principal"`
	Interest     int64      `gorm:"not null;default:0" json:"interest"`
	DurationSecs int64      `gorm:"column:duration_secs;not null;default:0" json:"duration_seconds"`
	State        State      `gorm:"size:16;not null;default:'pending'" json:"state"`
	FundedAt     *time.Time `gorm:"column:funded_at" json:"funded_at,omitempty"`
	ClosedAt     *time.Time `gorm:"column:closed_at" json:"closed_at,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string { return "loans" }

// Duration is the maturity window as a time.Duration.
func (l *Loan) Duration() time.Duration { return time.Duration(l.DurationSecs) * time.Second }

// Repayment is the exact amount the borrower owes: principal plus interest.
func (l *Loan) Repayment() int64 { return l.Principal + l.Interest }

// MaturesAt reports fundedAt + duration. ok is false while the loan is pending.
func (l *Loan) MaturesAt() (t time.Time, ok bool) {
	if l.State == StatePending || l.FundedAt == nil {
		return time.Time{}, false
	}
	return l.FundedAt.Add(l.Duration()), true
}
