package loan

import (
	"time"

	"p2p-loan-escrow/internal/domain/loan"
)

type CreateLoanInput struct {
	BorrowerID   string `json:"borrower_id"`
	LenderID     string `json:"lender_id"`
	Principal    int64  `json:"principal"`
	Interest     int64  `json:"interest"`
	DurationSecs int64  `json:"duration_seconds"`
}

// InvokeInput is a fund or reimburse call: caller identity plus attached value.
type InvokeInput struct {
	LoanID string
	Caller string
	Value  int64
}

type LoanDTO struct {
	LoanID       string     `json:"loan_id"`
	BorrowerID   string     `json:"borrower_id"`
	LenderID     string     `json:"lender_id"`
	Principal    int64      `json:"principal"`
	Interest     int64      `json:"interest"`
	DurationSecs int64      `json:"duration_seconds"`
	State        string     `json:"state"`
	StateCode    int        `json:"state_code"`
	FundedAt     *time.Time `json:"funded_at,omitempty"`
	MaturesAt    *time.Time `json:"matures_at,omitempty"`
	ClosedAt     *time.Time `json:"closed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

type StateDTO struct {
	LoanID string `json:"loan_id"`
	State  int    `json:"state"`
	Name   string `json:"name"`
}

func toDTO(l *loan.Loan) *LoanDTO {
	dto := &LoanDTO{
		LoanID:       l.LoanID,
		BorrowerID:   l.BorrowerID,
		LenderID:     l.LenderID,
		Principal:    l.Principal,
		Interest:     l.Interest,
		DurationSecs: l.DurationSecs,
		State:        string(l.State),
		StateCode:    l.State.Code(),
		FundedAt:     l.FundedAt,
		ClosedAt:     l.ClosedAt,
		CreatedAt:    l.CreatedAt,
	}
	if m, ok := l.MaturesAt(); ok {
		dto.MaturesAt = &m
	}
	return dto
}
