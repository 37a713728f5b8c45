package services

import (
	"context"
	"errors"

	"circleed/internal/models"
	"circleed/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SkillService handles the skill catalog and review aggregation
type SkillService struct {
	db   *gorm.DB
	repo *repository.Repository
}

func NewSkillService(db *gorm.DB, repo *repository.Repository) *SkillService {
	return &SkillService{db: db, repo: repo}
}

// Create lists a new skill owned by the caller
func (s *SkillService) Create(ctx context.Context, teacherID uint, req *models.CreateSkillRequest) (*models.Skill, error) {
	language := req.Language
	if language == "" {
		language = "English"
	}

	skill := &models.Skill{
		Title:            req.Title,
		Description:      req.Description,
		TeacherID:        teacherID,
		Category:         req.Category,
		Level:            req.Level,
		Language:         language,
		TokensPerSession: req.TokensPerSession,
		Badges:           req.Badges,
		Availability:     req.Availability,
	}
	if err := s.repo.CreateSkill(ctx, skill); err != nil {
		return nil, err
	}
	return skill, nil
}

// GetByID retrieves a skill
func (s *SkillService) GetByID(ctx context.Context, skillID uint) (*models.Skill, error) {
	skill, err := s.repo.GetSkillByID(ctx, skillID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSkillNotFound
		}
		return nil, err
	}
	return skill, nil
}

// List retrieves skills matching the filter
func (s *SkillService) List(ctx context.Context, filter models.SkillFilter) ([]models.Skill, error) {
	return s.repo.ListSkills(ctx, filter)
}

// Update applies listing changes; only the owner may edit
func (s *SkillService) Update(ctx context.Context, callerID, skillID uint, req *models.UpdateSkillRequest) (*models.Skill, error) {
	skill, err := s.GetByID(ctx, skillID)
	if err != nil {
		return nil, err
	}
	if skill.TeacherID != callerID {
		return nil, ErrForbidden
	}

	if req.Title != nil {
		skill.Title = *req.Title
	}
	if req.Description != nil {
		skill.Description = *req.Description
	}
	if req.Category != nil {
		skill.Category = *req.Category
	}
	if req.Level != nil {
		skill.Level = *req.Level
	}
	if req.Language != nil {
		skill.Language = *req.Language
	}
	if req.TokensPerSession != nil {
		skill.TokensPerSession = *req.TokensPerSession
	}
	if req.Badges != nil {
		skill.Badges = *req.Badges
	}
	if req.Availability != nil {
		skill.Availability = *req.Availability
	}

	if err := s.repo.UpdateSkill(ctx, skill); err != nil {
		return nil, err
	}
	return skill, nil
}

// Delete removes a listing; only the owner may delete
func (s *SkillService) Delete(ctx context.Context, callerID, skillID uint) error {
	skill, err := s.GetByID(ctx, skillID)
	if err != nil {
		return err
	}
	if skill.TeacherID != callerID {
		return ErrForbidden
	}
	return s.repo.DeleteSkill(ctx, skillID)
}

// ListReviews retrieves all reviews for a skill
func (s *SkillService) ListReviews(ctx context.Context, skillID uint) ([]models.SkillReview, error) {
	if _, err := s.GetByID(ctx, skillID); err != nil {
		return nil, err
	}
	return s.repo.ListReviewsBySkill(ctx, skillID)
}

// AddReview appends a review and recomputes the skill's rating and review
// count from the full review set, inside one transaction. The same reviewer
// may review a skill more than once.
func (s *SkillService) AddReview(ctx context.Context, reviewerID, skillID uint, req *models.CreateReviewRequest) (*models.SkillReview, error) {
	var review *models.SkillReview
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)

		if _, err := r.GetSkillByID(ctx, skillID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSkillNotFound
			}
			return err
		}

		review = &models.SkillReview{
			SkillID:    skillID,
			ReviewerID: reviewerID,
			Rating:     req.Rating,
			Comment:    req.Comment,
		}
		if err := r.CreateReview(ctx, review); err != nil {
			return err
		}

		reviews, err := r.ListReviewsBySkill(ctx, skillID)
		if err != nil {
			return err
		}

		rating := 0.0
		if len(reviews) > 0 {
			sum := decimal.Zero
			for _, rev := range reviews {
				sum = sum.Add(decimal.NewFromInt(int64(rev.Rating)))
			}
			rating, _ = sum.
				Div(decimal.NewFromInt(int64(len(reviews)))).
				Round(2).
				Float64()
		}

		return tx.Model(&models.Skill{}).
			Where("id = ?", skillID).
			Updates(map[string]interface{}{
				"rating":       rating,
				"review_count": len(reviews),
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}
