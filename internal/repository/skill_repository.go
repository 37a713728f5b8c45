package repository

import (
	"context"

	"circleed/internal/models"
)

// CreateSkill creates a new skill listing
func (r *Repository) CreateSkill(ctx context.Context, skill *models.Skill) error {
	return r.db.WithContext(ctx).Create(skill).Error
}

// GetSkillByID retrieves a skill by ID
func (r *Repository) GetSkillByID(ctx context.Context, skillID uint) (*models.Skill, error) {
	var skill models.Skill
	err := r.db.WithContext(ctx).Where("id = ?", skillID).First(&skill).Error
	if err != nil {
		return nil, err
	}
	return &skill, nil
}

// UpdateSkill saves skill changes
func (r *Repository) UpdateSkill(ctx context.Context, skill *models.Skill) error {
	return r.db.WithContext(ctx).Save(skill).Error
}

// DeleteSkill removes a skill listing
func (r *Repository) DeleteSkill(ctx context.Context, skillID uint) error {
	return r.db.WithContext(ctx).Delete(&models.Skill{}, skillID).Error
}

// ListSkills retrieves skills matching the filter
func (r *Repository) ListSkills(ctx context.Context, filter models.SkillFilter) ([]models.Skill, error) {
	query := r.db.WithContext(ctx).Model(&models.Skill{})

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Level != "" {
		query = query.Where("level = ?", filter.Level)
	}
	if filter.Language != "" {
		query = query.Where("language = ?", filter.Language)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", pattern, pattern)
	}

	var skills []models.Skill
	if err := query.Order("created_at DESC").Find(&skills).Error; err != nil {
		return nil, err
	}
	return skills, nil
}

// CreateReview appends a skill review
func (r *Repository) CreateReview(ctx context.Context, review *models.SkillReview) error {
	return r.db.WithContext(ctx).Create(review).Error
}

// ListReviewsBySkill retrieves all reviews for a skill
func (r *Repository) ListReviewsBySkill(ctx context.Context, skillID uint) ([]models.SkillReview, error) {
	var reviews []models.SkillReview
	err := r.db.WithContext(ctx).
		Where("skill_id = ?", skillID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}
