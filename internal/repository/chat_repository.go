package repository

import (
	"context"

	"circleed/internal/models"

	"gorm.io/gorm"
)

// CreateChat creates a new chat
func (r *Repository) CreateChat(ctx context.Context, chat *models.Chat) error {
	return r.db.WithContext(ctx).Create(chat).Error
}

// GetChatByID retrieves a chat by ID
func (r *Repository) GetChatByID(ctx context.Context, chatID uint) (*models.Chat, error) {
	var chat models.Chat
	err := r.db.WithContext(ctx).Where("id = ?", chatID).First(&chat).Error
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

// FindChatBetween retrieves the chat between two users regardless of who
// initiated it, or nil when none exists.
func (r *Repository) FindChatBetween(ctx context.Context, userA, userB uint) (*models.Chat, error) {
	var chat models.Chat
	err := r.db.WithContext(ctx).
		Where("(user1_id = ? AND user2_id = ?) OR (user1_id = ? AND user2_id = ?)",
			userA, userB, userB, userA).
		First(&chat).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

// ListChatsForUser retrieves all chats the user participates in
func (r *Repository) ListChatsForUser(ctx context.Context, userID uint) ([]models.Chat, error) {
	var chats []models.Chat
	err := r.db.WithContext(ctx).
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("last_message_time DESC NULLS LAST").
		Find(&chats).Error
	if err != nil {
		return nil, err
	}
	return chats, nil
}

// UpdateChat saves chat changes
func (r *Repository) UpdateChat(ctx context.Context, chat *models.Chat) error {
	return r.db.WithContext(ctx).Save(chat).Error
}

// CreateMessage appends a message to a chat
func (r *Repository) CreateMessage(ctx context.Context, message *models.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

// ListMessagesByChat retrieves a chat's messages in chronological order
func (r *Repository) ListMessagesByChat(ctx context.Context, chatID uint) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).
		Where("chat_id = ?", chatID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkMessagesRead flags all messages sent to the reader in a chat as read
func (r *Repository) MarkMessagesRead(ctx context.Context, chatID, readerID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Message{}).
		Where("chat_id = ? AND sender_id != ? AND is_read = ?", chatID, readerID, false).
		Update("is_read", true).Error
}
