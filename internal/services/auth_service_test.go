package services

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"circleed/internal/auth"
	"circleed/internal/config"
	"circleed/internal/models"
	"circleed/internal/repository"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.JWTSecret = "test-secret"
	cfg.App.StartingTokenGrant = 100
	return cfg
}

func TestRegisterSeedsStartingGrant(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(repository.NewRepository(db), testConfig(), zap.NewNop())

	user, err := svc.Register(context.Background(), &models.RegisterRequest{
		Email:    "new@example.com",
		Password: "hunter22",
		FullName: "New User",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if user.TokenBalance != 100 {
		t.Errorf("expected starting balance 100, got %d", user.TokenBalance)
	}
	// The grant is the baseline, not a ledger entry.
	if got := countTransactions(t, db, user.ID); got != 0 {
		t.Errorf("starting grant must not write ledger entries, got %d", got)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte("hunter22")); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(repository.NewRepository(db), testConfig(), zap.NewNop())
	ctx := context.Background()

	req := &models.RegisterRequest{Email: "dup@example.com", Password: "hunter22", FullName: "Dup"}
	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	if _, err := svc.Register(ctx, req); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

// The unique index backs the pre-check: when two registrations race past it,
// the losing insert surfaces as the translated duplicate-key error that
// Register maps to ErrEmailTaken.
func TestDuplicateEmailInsertTranslates(t *testing.T) {
	db := setupTestDB(t)
	repo := repository.NewRepository(db)
	ctx := context.Background()

	createTestUser(t, db, "dup@example.com", 100)

	err := repo.CreateUser(ctx, &models.User{
		Email:          "dup@example.com",
		Name:           "Second",
		HashedPassword: "x",
	})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected gorm.ErrDuplicatedKey, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	auth.InitJWT("test-secret")

	db := setupTestDB(t)
	svc := NewAuthService(repository.NewRepository(db), testConfig(), zap.NewNop())
	ctx := context.Background()

	if _, err := svc.Register(ctx, &models.RegisterRequest{
		Email:    "login@example.com",
		Password: "hunter22",
		FullName: "Login User",
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	result, err := svc.Login(ctx, &models.LoginRequest{Email: "login@example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if result.AccessToken == "" {
		t.Error("expected a token")
	}
	if result.TokenType != "bearer" {
		t.Errorf("expected token_type bearer, got %q", result.TokenType)
	}

	claims, err := auth.ValidateToken(result.AccessToken)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if claims.UserID != result.User.ID {
		t.Errorf("token user_id %d != user %d", claims.UserID, result.User.ID)
	}

	if _, err := svc.Login(ctx, &models.LoginRequest{Email: "login@example.com", Password: "wrong"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(ctx, &models.LoginRequest{Email: "ghost@example.com", Password: "hunter22"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}
