package services

import (
	"context"
	"errors"

	"circleed/internal/models"
	"circleed/internal/repository"

	"gorm.io/gorm"
)

// UserService handles user-related business logic
type UserService struct {
	repo *repository.Repository
}

// NewUserService creates a new UserService
func NewUserService(repo *repository.Repository) *UserService {
	return &UserService{repo: repo}
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies the non-nil fields of the request to the caller's profile
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, req *models.UpdateUserRequest) (*models.User, error) {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.AvatarURL != nil {
		user.AvatarURL = req.AvatarURL
	}
	if req.Bio != nil {
		user.Bio = req.Bio
	}
	if req.SkillsToTeach != nil {
		user.SkillsToTeach = *req.SkillsToTeach
	}
	if req.SkillsToLearn != nil {
		user.SkillsToLearn = *req.SkillsToLearn
	}

	if err := s.repo.UpdateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
