package services

import (
	"context"
	"errors"
	"testing"

	"circleed/internal/models"
	"circleed/internal/repository"
)

func TestUpdateProfileSkipsNilFields(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(repository.NewRepository(db))
	ctx := context.Background()

	user := createTestUser(t, db, "alice@example.com", 100)

	bio := "gopher"
	updated, err := svc.UpdateProfile(ctx, user.ID, &models.UpdateUserRequest{Bio: &bio})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if updated.Bio == nil || *updated.Bio != "gopher" {
		t.Errorf("bio not applied: %v", updated.Bio)
	}
	if updated.Name != user.Name {
		t.Errorf("nil name field must not change name: got %q", updated.Name)
	}
	if updated.TokenBalance != 100 {
		t.Errorf("profile update must not touch balance: got %d", updated.TokenBalance)
	}

	name := "Alice B"
	skills := []string{"Go", "SQL"}
	updated, err = svc.UpdateProfile(ctx, user.ID, &models.UpdateUserRequest{
		Name:          &name,
		SkillsToTeach: &skills,
	})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if updated.Name != "Alice B" {
		t.Errorf("name not applied: got %q", updated.Name)
	}
	if len(updated.SkillsToTeach) != 2 {
		t.Errorf("skills_to_teach not applied: %v", updated.SkillsToTeach)
	}
	if updated.Bio == nil || *updated.Bio != "gopher" {
		t.Errorf("earlier bio lost: %v", updated.Bio)
	}
}

func TestGetUserUnknown(t *testing.T) {
	db := setupTestDB(t)
	svc := NewUserService(repository.NewRepository(db))

	if _, err := svc.GetByID(context.Background(), 9999); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
