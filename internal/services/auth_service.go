package services

import (
	"context"
	"errors"

	"circleed/internal/auth"
	"circleed/internal/config"
	"circleed/internal/models"
	"circleed/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService handles registration and login
type AuthService struct {
	repo   *repository.Repository
	cfg    *config.Config
	logger *zap.Logger
}

func NewAuthService(repo *repository.Repository, cfg *config.Config, logger *zap.Logger) *AuthService {
	return &AuthService{repo: repo, cfg: cfg, logger: logger}
}

// LoginResult is the response payload for a successful authentication
type LoginResult struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	User        *models.User `json:"user"`
}

// Register creates an account seeded with the starting token grant. The
// grant is the balance baseline and is not written to the ledger, so a
// user's balance always equals grant plus the signed sum of their ledger.
func (s *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	existing, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:          req.Email,
		Name:           req.FullName,
		HashedPassword: string(hashed),
		Bio:            req.Bio,
		SkillsToTeach:  req.SkillsToTeach,
		SkillsToLearn:  req.SkillsToLearn,
		TokenBalance:   s.cfg.App.StartingTokenGrant,
		IsActive:       true,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		// Two concurrent registrations can both pass the read above; the
		// unique index on email decides, and the loser gets the same error
		// as the sequential duplicate.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.logger.Info("user registered", zap.Uint("user_id", user.ID))
	return user, nil
}

// Login verifies credentials and issues a JWT
func (s *AuthService) Login(ctx context.Context, req *models.LoginRequest) (*LoginResult, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := auth.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	}, nil
}
