package models

import (
	"time"
)

// Skill is a teachable listing priced in tokens per session. Rating and
// ReviewCount are derived from the skill's review set and recomputed on every
// new review.
type Skill struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Title            string     `gorm:"not null;index" json:"title"`
	Description      string     `gorm:"type:text;not null" json:"description"`
	TeacherID        uint       `gorm:"not null;index" json:"teacher_id"`
	Category         string     `gorm:"not null;index" json:"category"`
	Level            string     `gorm:"not null" json:"level"` // Beginner, Intermediate, Advanced
	Language         string     `gorm:"not null;default:English" json:"language"`
	TokensPerSession int        `gorm:"not null" json:"tokens_per_session"`
	Rating           float64    `gorm:"default:0" json:"rating"`
	ReviewCount      int        `gorm:"default:0" json:"review_count"`
	Badges           StringList `gorm:"type:text" json:"badges"`
	Availability     StringList `gorm:"type:text" json:"availability"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// TableName specifies the table name for Skill model
func (Skill) TableName() string {
	return "skills"
}

// SkillReview is a single rating left for a skill. A reviewer may review the
// same skill more than once; each review recomputes the skill aggregate.
type SkillReview struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SkillID    uint      `gorm:"not null;index" json:"skill_id"`
	ReviewerID uint      `gorm:"not null;index" json:"reviewer_id"`
	Rating     int       `gorm:"not null" json:"rating"` // 1-5
	Comment    string    `gorm:"type:text" json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName specifies the table name for SkillReview model
func (SkillReview) TableName() string {
	return "skill_reviews"
}

// CreateSkillRequest is the payload for listing a new skill
type CreateSkillRequest struct {
	Title            string   `json:"title" binding:"required"`
	Description      string   `json:"description" binding:"required"`
	Category         string   `json:"category" binding:"required"`
	Level            string   `json:"level" binding:"required"`
	Language         string   `json:"language"`
	TokensPerSession int      `json:"tokens_per_session" binding:"required,gt=0"`
	Badges           []string `json:"badges"`
	Availability     []string `json:"availability"`
}

// UpdateSkillRequest carries optional listing updates; nil fields are left untouched
type UpdateSkillRequest struct {
	Title            *string   `json:"title"`
	Description      *string   `json:"description"`
	Category         *string   `json:"category"`
	Level            *string   `json:"level"`
	Language         *string   `json:"language"`
	TokensPerSession *int      `json:"tokens_per_session"`
	Badges           *[]string `json:"badges"`
	Availability     *[]string `json:"availability"`
}

// CreateReviewRequest is the payload for reviewing a skill
type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// SkillFilter narrows a catalog listing
type SkillFilter struct {
	Category string
	Level    string
	Language string
	Search   string
}
