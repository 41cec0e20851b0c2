package account

import (
	"context"
	"time"

	"p2p-loan-escrow/internal/domain/ledger"
	"p2p-loan-escrow/pkg/id"

	"go.uber.org/zap"
)

type AccountDTO struct {
	AccountID string    `json:"account_id"`
	Balance   int64     `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type EntryDTO struct {
	EntryID     string    `json:"entry_id"`
	FromAccount string    `json:"from_account"`
	ToAccount   string    `json:"to_account"`
	Amount      int64     `json:"amount"`
	CreatedAt   time.Time `json:"created_at"`
}

// Usecase manages wallet accounts. Escrow accounts are opened by the loan
// usecase and are readable here too.
type Usecase struct {
	repo ledger.Repository
	log  *zap.Logger
}

func NewUsecase(r ledger.Repository, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{repo: r, log: log}
}

func (u *Usecase) Open(ctx context.Context, initialBalance int64) (*AccountDTO, error) {
	if initialBalance < 0 {
		return nil, ledger.ErrInvalidAmount
	}
	a := &ledger.Account{AccountID: id.NewID32(), Balance: initialBalance}
	if err := u.repo.Open(ctx, a); err != nil {
		return nil, err
	}
	u.log.Info("account opened",
		zap.String("account_id", a.AccountID),
		zap.Int64("balance", a.Balance),
	)
	return toDTO(a), nil
}

func (u *Usecase) Get(ctx context.Context, accountID string) (*AccountDTO, error) {
	a, err := u.repo.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return toDTO(a), nil
}

// Deposit credits amount out of thin air. It stands in for an external
// funding source.
func (u *Usecase) Deposit(ctx context.Context, accountID string, amount int64) (*AccountDTO, error) {
	if amount <= 0 {
		return nil, ledger.ErrInvalidAmount
	}
	if err := u.repo.Credit(ctx, accountID, amount); err != nil {
		return nil, err
	}
	u.log.Info("account credited",
		zap.String("account_id", accountID),
		zap.Int64("amount", amount),
	)
	return u.Get(ctx, accountID)
}

// History lists every transfer touching the account, oldest first.
func (u *Usecase) History(ctx context.Context, accountID string) ([]EntryDTO, error) {
	if _, err := u.repo.GetByAccountID(ctx, accountID); err != nil {
		return nil, err
	}
	entries, err := u.repo.ListEntries(ctx, accountID)
	if err != nil {
		return nil, err
	}
	out := make([]EntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, EntryDTO{
			EntryID:     e.EntryID,
			FromAccount: e.FromAccount,
			ToAccount:   e.ToAccount,
			Amount:      e.Amount,
			CreatedAt:   e.CreatedAt,
		})
	}
	return out, nil
}

func toDTO(a *ledger.Account) *AccountDTO {
	return &AccountDTO{
		AccountID: a.AccountID,
		Balance:   a.Balance,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
