package services

import (
	"context"
	"errors"
	"fmt"

	"circleed/internal/models"
	"circleed/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerService owns the token ledger and the balance projection. Apply is
// the only code path in the repository that mutates a user's token balance,
// and it always writes the matching transaction row on the same database
// transaction as the balance change.
type LedgerService struct {
	db   *gorm.DB
	repo *repository.Repository
}

func NewLedgerService(db *gorm.DB, repo *repository.Repository) *LedgerService {
	return &LedgerService{db: db, repo: repo}
}

// Apply moves tokens for one user on the caller's transaction handle. The
// user row is locked for the duration of the enclosing transaction, so a
// concurrent spend cannot pass the sufficiency check against a stale balance.
func (s *LedgerService) Apply(
	tx *gorm.DB,
	userID uint,
	kind models.TransactionType,
	amount int,
	description string,
) error {
	if amount < 0 {
		return fmt.Errorf("ledger amount must be non-negative, got %d", amount)
	}

	query := tx
	// SQLite has a single-writer model and rejects FOR UPDATE.
	if tx.Dialector.Name() == "postgres" {
		query = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var user models.User
	if err := query.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	switch kind {
	case models.TransactionTypeSpend:
		if user.TokenBalance < amount {
			return ErrInsufficientTokens
		}
		user.TokenBalance -= amount
	case models.TransactionTypeEarn:
		user.TokenBalance += amount
	default:
		return fmt.Errorf("unknown transaction type %q", kind)
	}

	if err := tx.Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("token_balance", user.TokenBalance).Error; err != nil {
		return err
	}

	txn := &models.Transaction{
		UserID:      userID,
		Type:        kind,
		Amount:      amount,
		Description: description,
	}
	return tx.Create(txn).Error
}

// Debit spends tokens from a user's balance
func (s *LedgerService) Debit(tx *gorm.DB, userID uint, amount int, description string) error {
	return s.Apply(tx, userID, models.TransactionTypeSpend, amount, description)
}

// Credit adds tokens to a user's balance
func (s *LedgerService) Credit(tx *gorm.DB, userID uint, amount int, description string) error {
	return s.Apply(tx, userID, models.TransactionTypeEarn, amount, description)
}

// Balance returns the user's current token balance
func (s *LedgerService) Balance(ctx context.Context, userID uint) (int, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	return user.TokenBalance, nil
}

// ListForUser returns the user's ledger entries, most recent first
func (s *LedgerService) ListForUser(ctx context.Context, userID uint) ([]models.Transaction, error) {
	return s.repo.ListTransactionsByUser(ctx, userID)
}
