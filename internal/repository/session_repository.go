package repository

import (
	"context"
	"time"

	"circleed/internal/models"
)

// CreateSession creates a new session
func (r *Repository) CreateSession(ctx context.Context, session *models.Session) error {
	return r.db.WithContext(ctx).Create(session).Error
}

// GetSessionByID retrieves a session by ID
func (r *Repository) GetSessionByID(ctx context.Context, sessionID uint) (*models.Session, error) {
	var session models.Session
	err := r.db.WithContext(ctx).Where("id = ?", sessionID).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// UpdateSessionStatus writes the new status only if the row still holds one
// of the expected statuses, and reports whether a row changed. This is the
// authoritative transition guard: a caller whose earlier read went stale
// under a concurrent transition gets false here instead of settling twice.
func (r *Repository) UpdateSessionStatus(ctx context.Context, sessionID uint, to models.SessionStatus, from ...models.SessionStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("id = ? AND status IN ?", sessionID, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListSessionsForUser retrieves sessions where the user is student or teacher
func (r *Repository) ListSessionsForUser(ctx context.Context, userID uint) ([]models.Session, error) {
	var sessions []models.Session
	err := r.db.WithContext(ctx).
		Where("student_id = ? OR teacher_id = ?", userID, userID).
		Order("scheduled_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListUpcomingSessions retrieves a student's future pending or confirmed sessions
func (r *Repository) ListUpcomingSessions(ctx context.Context, studentID uint, now time.Time) ([]models.Session, error) {
	var sessions []models.Session
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND scheduled_at > ? AND status IN ?",
			studentID, now,
			[]models.SessionStatus{models.SessionStatusPending, models.SessionStatusConfirmed}).
		Order("scheduled_at ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	return sessions, nil
}
