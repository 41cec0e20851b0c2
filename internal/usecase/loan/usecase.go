package loan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"p2p-loan-escrow/internal/domain/ledger"
	"p2p-loan-escrow/internal/domain/loan"
	"p2p-loan-escrow/internal/domain/uow"
	"p2p-loan-escrow/pkg/id"
	"p2p-loan-escrow/pkg/rabbitmq"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EventPublisher receives loan lifecycle events after commit.
type EventPublisher interface {
	PublishLoanEvent(ctx context.Context, ev rabbitmq.LoanEvent) error
}

type Usecase struct {
	repo   loan.Repository
	uow    uow.UnitOfWork
	events EventPublisher
	log    *zap.Logger
	now    func() time.Time
}

type Option func(*Usecase)

func WithPublisher(p EventPublisher) Option { return func(u *Usecase) { u.events = p } }

func WithLogger(l *zap.Logger) Option { return func(u *Usecase) { u.log = l } }

// WithClock replaces the time source used for fundedAt and maturity checks.
func WithClock(now func() time.Time) Option { return func(u *Usecase) { u.now = now } }

func NewUsecase(r loan.Repository, tx uow.UnitOfWork, opts ...Option) *Usecase {
	u := &Usecase{
		repo: r,
		uow:  tx,
		log:  zap.NewNop(),
		now:  func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(u)
	}
	return u
}

func (u *Usecase) Create(ctx context.Context, in CreateLoanInput) (*LoanDTO, error) {
	if !id.IsID32(in.BorrowerID) || !id.IsID32(in.LenderID) {
		return nil, fmt.Errorf("%w: borrower_id and lender_id must be 32-char lowercase hex", loan.ErrInvalidTerms)
	}
	l, err := loan.New(id.NewID32(), loan.Terms{
		BorrowerID:   in.BorrowerID,
		LenderID:     in.LenderID,
		Principal:    in.Principal,
		Interest:     in.Interest,
		DurationSecs: in.DurationSecs,
	})
	if err != nil {
		return nil, err
	}

	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := r.Ledger.GetByAccountID(ctx, l.BorrowerID); err != nil {
			return fmt.Errorf("borrower %s: %w", l.BorrowerID, err)
		}
		if _, err := r.Ledger.GetByAccountID(ctx, l.LenderID); err != nil {
			return fmt.Errorf("lender %s: %w", l.LenderID, err)
		}
		for _, party := range []string{l.BorrowerID, l.LenderID} {
			escrow, err := r.Loans.Exists(ctx, party)
			if err != nil {
				return err
			}
			if escrow {
				return fmt.Errorf("%w: %s is a loan escrow account", loan.ErrInvalidTerms, party)
			}
		}
		if err := r.Ledger.Open(ctx, &ledger.Account{AccountID: l.EscrowAccount()}); err != nil {
			return err
		}
		return r.Loans.Create(ctx, l)
	})
	if err != nil {
		return nil, err
	}

	u.log.Info("loan created",
		zap.String("loan_id", l.LoanID),
		zap.String("borrower_id", l.BorrowerID),
		zap.String("lender_id", l.LenderID),
		zap.Int64("principal", l.Principal),
		zap.Int64("interest", l.Interest),
		zap.Int64("duration_secs", l.DurationSecs),
	)
	u.publish(ctx, rabbitmq.EventLoanCreated, l, "", 0)
	return toDTO(l), nil
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*LoanDTO, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, notFound(err)
	}
	return toDTO(l), nil
}

func (u *Usecase) State(ctx context.Context, loanID string) (*StateDTO, error) {
	l, err := u.repo.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, notFound(err)
	}
	return &StateDTO{LoanID: l.LoanID, State: l.State.Code(), Name: l.State.Name()}, nil
}

// Fund runs the lender's deposit against the locked loan row.
func (u *Usecase) Fund(ctx context.Context, in InvokeInput) (*LoanDTO, error) {
	return u.invoke(ctx, "fund", rabbitmq.EventLoanFunded, in, (*loan.Loan).Fund)
}

// Reimburse runs the borrower's repayment against the locked loan row.
func (u *Usecase) Reimburse(ctx context.Context, in InvokeInput) (*LoanDTO, error) {
	return u.invoke(ctx, "reimburse", rabbitmq.EventLoanClosed, in, (*loan.Loan).Reimburse)
}

type transition func(*loan.Loan, context.Context, loan.Ledger, loan.Invocation) error

func (u *Usecase) invoke(ctx context.Context, op, eventType string, in InvokeInput, apply transition) (*LoanDTO, error) {
	if u.uow == nil {
		return nil, loan.ErrIllegalState
	}
	var out *loan.Loan

	err := u.uow.WithinLoanTx(ctx, in.LoanID, func(r uow.Repos, l *loan.Loan) error {
		inv := loan.Invocation{Caller: in.Caller, Value: in.Value, Now: u.now()}
		if err := apply(l, ctx, r.Ledger, inv); err != nil {
			return err
		}
		if err := r.Loans.Save(ctx, l); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		err = notFound(err)
		u.log.Warn("loan "+op+" rejected",
			zap.String("loan_id", in.LoanID),
			zap.String("caller", in.Caller),
			zap.Int64("value", in.Value),
			zap.String("kind", string(loan.KindOf(err))),
			zap.Error(err),
		)
		return nil, err
	}

	u.log.Info("loan "+op+" committed",
		zap.String("loan_id", out.LoanID),
		zap.String("caller", in.Caller),
		zap.Int64("value", in.Value),
		zap.String("state", string(out.State)),
	)
	u.publish(ctx, eventType, out, in.Caller, in.Value)
	return toDTO(out), nil
}

// publish runs after commit; a failure is logged and never undoes the transition.
func (u *Usecase) publish(ctx context.Context, eventType string, l *loan.Loan, actor string, amount int64) {
	if u.events == nil {
		return
	}
	ev := rabbitmq.LoanEvent{
		EventID:    uuid.New(),
		Type:       eventType,
		LoanID:     l.LoanID,
		Actor:      actor,
		Amount:     amount,
		State:      l.State.Code(),
		OccurredAt: u.now(),
	}
	if err := u.events.PublishLoanEvent(ctx, ev); err != nil {
		u.log.Error("publish loan event failed",
			zap.String("event_type", eventType),
			zap.String("loan_id", l.LoanID),
			zap.Error(err),
		)
	}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return loan.ErrNotFound
	}
	return err
}
