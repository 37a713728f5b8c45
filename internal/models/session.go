package models

import (
	"time"
)

type SessionStatus string

const (
	SessionStatusPending   SessionStatus = "pending"
	SessionStatusConfirmed SessionStatus = "confirmed"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusCancelled SessionStatus = "cancelled"
)

// Terminal reports whether no further transition is permitted out of the status.
func (s SessionStatus) Terminal() bool {
	return s == SessionStatusCompleted || s == SessionStatusCancelled
}

// Session is a scheduled teaching engagement between a teacher and a student
// for one skill. Status transitions are the only mutations; sessions are
// never deleted. TokensPerSession is the price at booking time; refunds and
// the teacher payout settle from this snapshot, so a later price edit or
// deletion of the listing cannot change what moves.
type Session struct {
	ID               uint          `gorm:"primaryKey" json:"id"`
	SkillID          uint          `gorm:"not null;index" json:"skill_id"`
	TeacherID        uint          `gorm:"not null;index" json:"teacher_id"`
	StudentID        uint          `gorm:"not null;index" json:"student_id"`
	ScheduledAt      time.Time     `gorm:"not null" json:"scheduled_at"`
	DurationMinutes  int           `gorm:"not null;default:60" json:"duration_minutes"`
	TokensPerSession int           `gorm:"not null;default:0" json:"tokens_per_session"`
	Status           SessionStatus `gorm:"size:50;not null;default:pending;index" json:"status"`
	ReviewSubmitted  int           `gorm:"not null;default:0" json:"review_submitted"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// TableName specifies the table name for Session model
func (Session) TableName() string {
	return "sessions"
}

// CreateSessionRequest is the payload for booking a session
type CreateSessionRequest struct {
	SkillID         uint      `json:"skill_id" binding:"required"`
	ScheduledAt     time.Time `json:"scheduled_at" binding:"required"`
	DurationMinutes int       `json:"duration_minutes"`
}
