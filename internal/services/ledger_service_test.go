package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"circleed/internal/models"
	"circleed/internal/repository"
)

func TestLedgerApplyDebitAndCredit(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewRepository(db)
	ledger := NewLedgerService(db, repo)
	user := createTestUser(t, db, "alice@example.com", 100)

	if err := ledger.Debit(db, user.ID, 30, "Booked session for Go Programming"); err != nil {
		t.Fatalf("Debit failed: %v", err)
	}
	if got := getBalance(t, db, user.ID); got != 70 {
		t.Errorf("balance after debit: expected 70, got %d", got)
	}

	if err := ledger.Credit(db, user.ID, 15, "Refund for cancelled session on Go Programming"); err != nil {
		t.Fatalf("Credit failed: %v", err)
	}
	if got := getBalance(t, db, user.ID); got != 85 {
		t.Errorf("balance after credit: expected 85, got %d", got)
	}

	if got := countTransactions(t, db, user.ID); got != 2 {
		t.Errorf("expected 2 ledger entries, got %d", got)
	}
}

func TestLedgerRejectsOverdraft(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewRepository(db)
	ledger := NewLedgerService(db, repo)
	user := createTestUser(t, db, "bob@example.com", 10)

	err := ledger.Debit(db, user.ID, 11, "too expensive")
	if !errors.Is(err, ErrInsufficientTokens) {
		t.Fatalf("expected ErrInsufficientTokens, got %v", err)
	}

	// A rejected spend leaves no trace: no balance change, no ledger row.
	if got := getBalance(t, db, user.ID); got != 10 {
		t.Errorf("balance mutated on failed debit: got %d", got)
	}
	if got := countTransactions(t, db, user.ID); got != 0 {
		t.Errorf("ledger entry written on failed debit: %d rows", got)
	}
}

func TestLedgerRejectsNegativeAmount(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewRepository(db)
	ledger := NewLedgerService(db, repo)
	user := createTestUser(t, db, "carol@example.com", 50)

	if err := ledger.Credit(db, user.ID, -5, "bogus"); err == nil {
		t.Fatal("expected error for negative amount")
	}
}

func TestLedgerUnknownUser(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewRepository(db)
	ledger := NewLedgerService(db, repo)

	if err := ledger.Credit(db, 9999, 5, "nobody"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := ledger.Balance(context.Background(), 9999); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound from Balance, got %v", err)
	}
}

func TestLedgerListOrderedNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewRepository(db)
	ledger := NewLedgerService(db, repo)
	user := createTestUser(t, db, "dan@example.com", 100)

	older := models.Transaction{UserID: user.ID, Type: models.TransactionTypeSpend, Amount: 10, Description: "first", CreatedAt: time.Now().Add(-time.Hour)}
	newer := models.Transaction{UserID: user.ID, Type: models.TransactionTypeEarn, Amount: 10, Description: "second", CreatedAt: time.Now()}
	if err := db.Create(&older).Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if err := db.Create(&newer).Error; err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	entries, err := ledger.ListForUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Description != "second" {
		t.Errorf("expected newest entry first, got %q", entries[0].Description)
	}
}

// The balance must always equal the starting grant plus the signed sum of
// the user's ledger.
func TestBalanceReconstructibleFromLedger(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewRepository(db)
	ledger := NewLedgerService(db, repo)

	const grant = 100
	user := createTestUser(t, db, "eve@example.com", grant)

	steps := []struct {
		kind   models.TransactionType
		amount int
	}{
		{models.TransactionTypeSpend, 40},
		{models.TransactionTypeEarn, 25},
		{models.TransactionTypeSpend, 10},
		{models.TransactionTypeEarn, 60},
	}
	for _, step := range steps {
		if err := ledger.Apply(db, user.ID, step.kind, step.amount, "step"); err != nil {
			t.Fatalf("Apply(%s, %d) failed: %v", step.kind, step.amount, err)
		}
	}

	entries, err := ledger.ListForUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}

	reconstructed := grant
	for _, e := range entries {
		switch e.Type {
		case models.TransactionTypeEarn:
			reconstructed += e.Amount
		case models.TransactionTypeSpend:
			reconstructed -= e.Amount
		}
	}

	if got := getBalance(t, db, user.ID); got != reconstructed {
		t.Errorf("balance %d does not match ledger reconstruction %d", got, reconstructed)
	}
	if got := getBalance(t, db, user.ID); got != 135 {
		t.Errorf("expected balance 135, got %d", got)
	}
}
