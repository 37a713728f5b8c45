package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringList is a []string stored as a JSON text column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
}

// User represents a registered user. TokenBalance is a cached projection of
// the transaction ledger on top of the starting grant; it is only ever
// mutated through the ledger service.
type User struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Email          string     `gorm:"uniqueIndex;not null" json:"email"`
	Name           string     `gorm:"not null" json:"name"`
	HashedPassword string     `gorm:"not null" json:"-"`
	AvatarURL      *string    `json:"avatar_url,omitempty"`
	Bio            *string    `gorm:"type:text" json:"bio,omitempty"`
	SkillsToTeach  StringList `gorm:"type:text" json:"skills_to_teach"`
	SkillsToLearn  StringList `gorm:"type:text" json:"skills_to_learn"`
	TokenBalance   int        `gorm:"not null;default:100" json:"token_balance"`
	Streak         int        `gorm:"not null;default:0" json:"streak"`
	IsActive       bool       `gorm:"default:true" json:"is_active"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// RegisterRequest is the payload for creating an account
type RegisterRequest struct {
	Email         string   `json:"email" binding:"required,email"`
	Password      string   `json:"password" binding:"required,min=6"`
	FullName      string   `json:"full_name" binding:"required"`
	Bio           *string  `json:"bio"`
	SkillsToTeach []string `json:"skills_to_teach"`
	SkillsToLearn []string `json:"skills_to_learn"`
}

// LoginRequest is the payload for authenticating
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserRequest carries optional profile updates; nil fields are left untouched
type UpdateUserRequest struct {
	Name          *string   `json:"name"`
	AvatarURL     *string   `json:"avatar_url"`
	Bio           *string   `json:"bio"`
	SkillsToTeach *[]string `json:"skills_to_teach"`
	SkillsToLearn *[]string `json:"skills_to_learn"`
}
