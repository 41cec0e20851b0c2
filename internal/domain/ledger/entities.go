package ledger

import (
	"errors"
	"time"
)

var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrSameAccount       = errors.New("cannot transfer to the same account")
)

// Account is a balance holder: a wallet or a loan escrow.
type Account struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"-"`
	AccountID string    `gorm:"size:32;uniqueIndex:ux_accounts_account_id" json:"account_id"`
	Balance   int64     `gorm:"not null;default:0" json:"balance"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Account) TableName() string { return "accounts" }

// Entry records one value movement. Entries are never updated or deleted.
type Entry struct {
	ID          uint64    `gorm:"primaryKey;column:id" json:"-"`
	EntryID     string    `gorm:"size:32;uniqueIndex:ux_ledger_entries_entry_id" json:"entry_id"`
	FromAccount string    `gorm:"size:32;index:idx_ledger_entries_from" json:"from_account"`
	ToAccount   string    `gorm:"size:32;index:idx_ledger_entries_to" json:"to_account"`
	Amount      int64     `gorm:"not null" json:"amount"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Entry) TableName() string { return "ledger_entries" }
