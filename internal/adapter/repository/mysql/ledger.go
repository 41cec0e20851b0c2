package mysql

import (
	"context"
	"errors"
	"fmt"

	ledgerDomain "p2p-loan-escrow/internal/domain/ledger"
	"p2p-loan-escrow/pkg/id"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LedgerRepository struct{ db *gorm.DB }

func NewLedgerRepository(db *gorm.DB) *LedgerRepository { return &LedgerRepository{db: db} }

func (r *LedgerRepository) Open(ctx context.Context, a *ledgerDomain.Account) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *LedgerRepository) GetByAccountID(ctx context.Context, accountID string) (*ledgerDomain.Account, error) {
	var out ledgerDomain.Account
	res := r.db.WithContext(ctx).Where("account_id = ?", accountID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, ledgerDomain.ErrAccountNotFound
	}
	return &out, res.Error
}

func (r *LedgerRepository) Credit(ctx context.Context, accountID string, amount int64) error {
	if amount <= 0 {
		return ledgerDomain.ErrInvalidAmount
	}
	res := r.db.WithContext(ctx).
		Model(&ledgerDomain.Account{}).
		Where("account_id = ?", accountID).
		Update("balance", gorm.Expr("balance + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ledgerDomain.ErrAccountNotFound
	}
	return nil
}

// Transfer locks both rows in account_id order so concurrent transfers
// between the same pair cannot deadlock.
func (r *LedgerRepository) Transfer(ctx context.Context, from, to string, amount int64) error {
	if amount <= 0 {
		return ledgerDomain.ErrInvalidAmount
	}
	if from == to {
		return ledgerDomain.ErrSameAccount
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []ledgerDomain.Account
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("account_id IN ?", []string{from, to}).
			Order("account_id").
			Find(&rows).Error; err != nil {
			return err
		}
		var src *ledgerDomain.Account
		found := 0
		for i := range rows {
			switch rows[i].AccountID {
			case from:
				src = &rows[i]
				found++
			case to:
				found++
			}
		}
		if found != 2 {
			return ledgerDomain.ErrAccountNotFound
		}
		if src.Balance < amount {
			return fmt.Errorf("%w: %s has %d, needs %d", ledgerDomain.ErrInsufficientFunds, from, src.Balance, amount)
		}

		if err := tx.Model(&ledgerDomain.Account{}).
			Where("account_id = ?", from).
			Update("balance", gorm.Expr("balance - ?", amount)).Error; err != nil {
			return err
		}
		if err := tx.Model(&ledgerDomain.Account{}).
			Where("account_id = ?", to).
			Update("balance", gorm.Expr("balance + ?", amount)).Error; err != nil {
			return err
		}
		return tx.Create(&ledgerDomain.Entry{
			EntryID:     id.NewID32(),
			FromAccount: from,
			ToAccount:   to,
			Amount:      amount,
		}).Error
	})
}

func (r *LedgerRepository) ListEntries(ctx context.Context, accountID string) ([]ledgerDomain.Entry, error) {
	var out []ledgerDomain.Entry
	res := r.db.WithContext(ctx).
		Where("from_account = ? OR to_account = ?", accountID, accountID).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}
