package models

import (
	"time"
)

type TransactionType string

const (
	TransactionTypeEarn  TransactionType = "earn"
	TransactionTypeSpend TransactionType = "spend"
)

// Transaction is one append-only ledger entry. Amount is a non-negative
// magnitude; the sign is carried by Type (earn = +, spend = -). There is no
// update or delete path anywhere in the codebase.
type Transaction struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	Type        TransactionType `gorm:"size:50;not null;index" json:"type"`
	Amount      int             `gorm:"not null" json:"amount"`
	Description string          `gorm:"type:text;not null" json:"description"`
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for Transaction model
func (Transaction) TableName() string {
	return "transactions"
}
