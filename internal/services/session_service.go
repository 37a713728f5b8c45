package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"circleed/internal/models"
	"circleed/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SessionService owns the session lifecycle:
//
//	pending -> confirmed -> completed
//	pending -> cancelled (decline or cancel)
//	confirmed -> cancelled (cancel)
//
// completed and cancelled are terminal. Every balance-affecting transition
// runs its status write, balance mutation and ledger append inside one
// database transaction; either all of it commits or none of it does. The
// status write is conditional on the expected prior status, so two
// concurrent transitions on one session cannot both settle.
type SessionService struct {
	db     *gorm.DB
	repo   *repository.Repository
	ledger *LedgerService
	logger *zap.Logger
}

func NewSessionService(db *gorm.DB, repo *repository.Repository, ledger *LedgerService, logger *zap.Logger) *SessionService {
	return &SessionService{
		db:     db,
		repo:   repo,
		ledger: ledger,
		logger: logger,
	}
}

// Book debits the student by the skill price, appends the spend ledger entry
// and creates the pending session as one atomic unit. A failed balance check
// leaves no side effects.
func (s *SessionService) Book(ctx context.Context, studentID uint, req *models.CreateSessionRequest) (*models.Session, error) {
	duration := req.DurationMinutes
	if duration <= 0 {
		duration = 60
	}

	var session *models.Session
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)

		skill, err := r.GetSkillByID(ctx, req.SkillID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSkillNotFound
			}
			return err
		}

		if err := s.ledger.Debit(tx, studentID, skill.TokensPerSession,
			fmt.Sprintf("Booked session for %s", skill.Title)); err != nil {
			return err
		}

		session = &models.Session{
			SkillID:          skill.ID,
			TeacherID:        skill.TeacherID,
			StudentID:        studentID,
			ScheduledAt:      req.ScheduledAt,
			DurationMinutes:  duration,
			TokensPerSession: skill.TokensPerSession,
			Status:           models.SessionStatusPending,
		}
		return r.CreateSession(ctx, session)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("session booked",
		zap.Uint("session_id", session.ID),
		zap.Uint("skill_id", session.SkillID),
		zap.Uint("student_id", studentID))
	return session, nil
}

// Confirm moves a pending session to confirmed. Only the teacher may
// confirm, and no tokens move.
func (s *SessionService) Confirm(ctx context.Context, teacherID, sessionID uint) (*models.Session, error) {
	var session *models.Session
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)

		var err error
		session, err = s.getSession(ctx, r, sessionID)
		if err != nil {
			return err
		}
		if session.TeacherID != teacherID {
			return ErrForbidden
		}
		if session.Status != models.SessionStatusPending {
			return ErrInvalidState
		}

		ok, err := r.UpdateSessionStatus(ctx, sessionID, models.SessionStatusConfirmed, models.SessionStatusPending)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidState
		}
		session.Status = models.SessionStatusConfirmed
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("session confirmed", zap.Uint("session_id", sessionID))
	return session, nil
}

// Decline cancels a pending session on the teacher's behalf and refunds the
// student in full.
func (s *SessionService) Decline(ctx context.Context, teacherID, sessionID uint) (*models.Session, error) {
	var session *models.Session
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)

		var err error
		session, err = s.getSession(ctx, r, sessionID)
		if err != nil {
			return err
		}
		if session.TeacherID != teacherID {
			return ErrForbidden
		}
		if session.Status != models.SessionStatusPending {
			return ErrInvalidState
		}

		ok, err := r.UpdateSessionStatus(ctx, sessionID, models.SessionStatusCancelled, models.SessionStatusPending)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidState
		}

		title, err := s.skillTitle(ctx, r, session.SkillID)
		if err != nil {
			return err
		}
		if err := s.ledger.Credit(tx, session.StudentID, session.TokensPerSession,
			fmt.Sprintf("Refund for declined session on %s", title)); err != nil {
			return err
		}

		session.Status = models.SessionStatusCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("session declined", zap.Uint("session_id", sessionID))
	return session, nil
}

// Cancel cancels a session on the student's behalf and refunds the student in
// full. A confirmed session may be cancelled; the teacher receives no
// compensation. Completed and already-cancelled sessions are immutable.
func (s *SessionService) Cancel(ctx context.Context, studentID, sessionID uint) (*models.Session, error) {
	var session *models.Session
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)

		var err error
		session, err = s.getSession(ctx, r, sessionID)
		if err != nil {
			return err
		}
		if session.StudentID != studentID {
			return ErrForbidden
		}
		if session.Status.Terminal() {
			return ErrInvalidState
		}

		ok, err := r.UpdateSessionStatus(ctx, sessionID, models.SessionStatusCancelled,
			models.SessionStatusPending, models.SessionStatusConfirmed)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidState
		}

		title, err := s.skillTitle(ctx, r, session.SkillID)
		if err != nil {
			return err
		}
		if err := s.ledger.Credit(tx, session.StudentID, session.TokensPerSession,
			fmt.Sprintf("Refund for cancelled session on %s", title)); err != nil {
			return err
		}

		session.Status = models.SessionStatusCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("session cancelled", zap.Uint("session_id", sessionID))
	return session, nil
}

// Complete settles a confirmed session: the teacher is paid the skill price,
// the matching earn ledger entry is appended and the student's learning
// streak is incremented, all in the same transaction as the status write.
// Completing a session that was never confirmed is rejected.
func (s *SessionService) Complete(ctx context.Context, teacherID, sessionID uint) (*models.Session, error) {
	var session *models.Session
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)

		var err error
		session, err = s.getSession(ctx, r, sessionID)
		if err != nil {
			return err
		}
		if session.TeacherID != teacherID {
			return ErrForbidden
		}
		if session.Status != models.SessionStatusConfirmed {
			return ErrInvalidState
		}

		ok, err := r.UpdateSessionStatus(ctx, sessionID, models.SessionStatusCompleted, models.SessionStatusConfirmed)
		if err != nil {
			return err
		}
		if !ok {
			return ErrInvalidState
		}

		title, err := s.skillTitle(ctx, r, session.SkillID)
		if err != nil {
			return err
		}
		if err := s.ledger.Credit(tx, session.TeacherID, session.TokensPerSession,
			fmt.Sprintf("Earned from teaching %s", title)); err != nil {
			return err
		}

		if err := tx.Model(&models.User{}).
			Where("id = ?", session.StudentID).
			UpdateColumn("streak", gorm.Expr("streak + ?", 1)).Error; err != nil {
			return err
		}

		session.Status = models.SessionStatusCompleted
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("session completed",
		zap.Uint("session_id", sessionID),
		zap.Uint("teacher_id", teacherID))
	return session, nil
}

// GetByID retrieves a session visible to one of its participants
func (s *SessionService) GetByID(ctx context.Context, callerID, sessionID uint) (*models.Session, error) {
	session, err := s.getSession(ctx, s.repo, sessionID)
	if err != nil {
		return nil, err
	}
	if session.StudentID != callerID && session.TeacherID != callerID {
		return nil, ErrForbidden
	}
	return session, nil
}

// ListForUser retrieves sessions where the user is student or teacher
func (s *SessionService) ListForUser(ctx context.Context, userID uint) ([]models.Session, error) {
	return s.repo.ListSessionsForUser(ctx, userID)
}

// ListUpcoming retrieves the student's future pending or confirmed sessions
func (s *SessionService) ListUpcoming(ctx context.Context, studentID uint) ([]models.Session, error) {
	return s.repo.ListUpcomingSessions(ctx, studentID, time.Now())
}

// skillTitle resolves a skill's title for ledger descriptions. A listing
// deleted after booking must not block settlement, so a missing skill falls
// back to a generic label instead of failing the transition.
func (s *SessionService) skillTitle(ctx context.Context, r *repository.Repository, skillID uint) (string, error) {
	skill, err := r.GetSkillByID(ctx, skillID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "a removed listing", nil
		}
		return "", err
	}
	return skill.Title, nil
}

func (s *SessionService) getSession(ctx context.Context, r *repository.Repository, sessionID uint) (*models.Session, error) {
	session, err := r.GetSessionByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}
