package services

import (
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"circleed/internal/models"
	"circleed/internal/repository"
)

// setupTestDB opens a named in-memory database so every connection in the
// pool sees the same data, and migrates the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Skill{},
		&models.SkillReview{},
		&models.Session{},
		&models.Transaction{},
		&models.Chat{},
		&models.Message{},
	)
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string, balance int) *models.User {
	t.Helper()

	user := &models.User{
		Email:          email,
		Name:           strings.Split(email, "@")[0],
		HashedPassword: "x",
		TokenBalance:   balance,
		IsActive:       true,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}
	return user
}

func createTestSkill(t *testing.T, db *gorm.DB, teacherID uint, price int) *models.Skill {
	t.Helper()

	skill := &models.Skill{
		Title:            "Go Programming",
		Description:      "Practical Go from the ground up",
		TeacherID:        teacherID,
		Category:         "Programming",
		Level:            "Intermediate",
		Language:         "English",
		TokensPerSession: price,
	}
	if err := db.Create(skill).Error; err != nil {
		t.Fatalf("failed to create skill: %v", err)
	}
	return skill
}

func newSessionService(db *gorm.DB) *SessionService {
	repo := repository.NewRepository(db)
	ledger := NewLedgerService(db, repo)
	return NewSessionService(db, repo, ledger, zap.NewNop())
}

func getBalance(t *testing.T, db *gorm.DB, userID uint) int {
	t.Helper()

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		t.Fatalf("failed to reload user %d: %v", userID, err)
	}
	return user.TokenBalance
}

func countTransactions(t *testing.T, db *gorm.DB, userID uint) int64 {
	t.Helper()

	var count int64
	if err := db.Model(&models.Transaction{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		t.Fatalf("failed to count transactions: %v", err)
	}
	return count
}
