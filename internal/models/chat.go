package models

import (
	"time"
)

// Chat is a two-party conversation. Unread counters and last-message fields
// are denormalized onto the chat row so listing is a single query.
type Chat struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	User1ID          uint       `gorm:"not null;index" json:"user1_id"`
	User2ID          uint       `gorm:"not null;index" json:"user2_id"`
	LastMessage      *string    `gorm:"type:text" json:"last_message,omitempty"`
	LastMessageTime  *time.Time `json:"last_message_time,omitempty"`
	UnreadCountUser1 int        `gorm:"not null;default:0" json:"-"`
	UnreadCountUser2 int        `gorm:"not null;default:0" json:"-"`
	CreatedAt        time.Time  `json:"created_at"`
}

// TableName specifies the table name for Chat model
func (Chat) TableName() string {
	return "chats"
}

// Message is one chat message
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ChatID    uint      `gorm:"not null;index" json:"chat_id"`
	SenderID  uint      `gorm:"not null;index" json:"sender_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	IsRead    bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for Message model
func (Message) TableName() string {
	return "messages"
}

// CreateChatRequest opens (or reuses) a conversation with another user
type CreateChatRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

// SendMessageRequest is the payload for posting a message
type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// ChatSummary is a chat as seen by one participant
type ChatSummary struct {
	ID                  uint       `json:"id"`
	User1ID             uint       `json:"user1_id"`
	User2ID             uint       `json:"user2_id"`
	LastMessage         *string    `json:"last_message,omitempty"`
	LastMessageTime     *time.Time `json:"last_message_time,omitempty"`
	UnreadCount         int        `json:"unread_count"`
	ParticipantID       uint       `json:"participant_id"`
	ParticipantName     string     `json:"participant_name"`
	ParticipantAvatar   *string    `json:"participant_avatar,omitempty"`
	ParticipantIsActive bool       `json:"participant_is_active"`
}
