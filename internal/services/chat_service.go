package services

import (
	"context"
	"errors"
	"time"

	"circleed/internal/models"
	"circleed/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ChatService stores conversations and messages. Delivery is plain
// request/response; there is no push channel.
type ChatService struct {
	db     *gorm.DB
	repo   *repository.Repository
	logger *zap.Logger
}

func NewChatService(db *gorm.DB, repo *repository.Repository, logger *zap.Logger) *ChatService {
	return &ChatService{db: db, repo: repo, logger: logger}
}

// Open returns the existing chat between the caller and the other user, or
// creates one.
func (s *ChatService) Open(ctx context.Context, callerID, otherID uint) (*models.Chat, error) {
	if _, err := s.repo.GetUserByID(ctx, otherID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	chat, err := s.repo.FindChatBetween(ctx, callerID, otherID)
	if err != nil {
		return nil, err
	}
	if chat != nil {
		return chat, nil
	}

	chat = &models.Chat{User1ID: callerID, User2ID: otherID}
	if err := s.repo.CreateChat(ctx, chat); err != nil {
		return nil, err
	}
	return chat, nil
}

// ListForUser returns the caller's chats with partner info and the caller's
// unread count.
func (s *ChatService) ListForUser(ctx context.Context, callerID uint) ([]models.ChatSummary, error) {
	chats, err := s.repo.ListChatsForUser(ctx, callerID)
	if err != nil {
		return nil, err
	}

	summaries := make([]models.ChatSummary, 0, len(chats))
	for _, chat := range chats {
		partnerID := chat.User1ID
		unread := chat.UnreadCountUser2
		if chat.User1ID == callerID {
			partnerID = chat.User2ID
			unread = chat.UnreadCountUser1
		}

		summary := models.ChatSummary{
			ID:              chat.ID,
			User1ID:         chat.User1ID,
			User2ID:         chat.User2ID,
			LastMessage:     chat.LastMessage,
			LastMessageTime: chat.LastMessageTime,
			UnreadCount:     unread,
			ParticipantID:   partnerID,
		}
		if partner, err := s.repo.GetUserByID(ctx, partnerID); err == nil {
			summary.ParticipantName = partner.Name
			summary.ParticipantAvatar = partner.AvatarURL
			summary.ParticipantIsActive = partner.IsActive
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// ListMessages returns a chat's messages; the caller must be a participant
func (s *ChatService) ListMessages(ctx context.Context, callerID, chatID uint) ([]models.Message, error) {
	if _, err := s.memberChat(ctx, s.repo, callerID, chatID); err != nil {
		return nil, err
	}
	return s.repo.ListMessagesByChat(ctx, chatID)
}

// SendMessage appends a message, updates the chat's last-message fields and
// increments the recipient's unread counter in one transaction.
func (s *ChatService) SendMessage(ctx context.Context, callerID, chatID uint, content string) (*models.Message, error) {
	var message *models.Message
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)

		chat, err := s.memberChat(ctx, r, callerID, chatID)
		if err != nil {
			return err
		}

		message = &models.Message{
			ChatID:   chatID,
			SenderID: callerID,
			Content:  content,
		}
		if err := r.CreateMessage(ctx, message); err != nil {
			return err
		}

		now := time.Now()
		chat.LastMessage = &content
		chat.LastMessageTime = &now
		if chat.User1ID == callerID {
			chat.UnreadCountUser2++
		} else {
			chat.UnreadCountUser1++
		}
		return r.UpdateChat(ctx, chat)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("message sent", zap.Uint("chat_id", chatID), zap.Uint("sender_id", callerID))
	return message, nil
}

// MarkRead marks the caller's side of a chat as read
func (s *ChatService) MarkRead(ctx context.Context, callerID, chatID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := s.repo.WithTx(tx)

		chat, err := s.memberChat(ctx, r, callerID, chatID)
		if err != nil {
			return err
		}

		if chat.User1ID == callerID {
			chat.UnreadCountUser1 = 0
		} else {
			chat.UnreadCountUser2 = 0
		}
		if err := r.UpdateChat(ctx, chat); err != nil {
			return err
		}
		return r.MarkMessagesRead(ctx, chatID, callerID)
	})
}

// memberChat loads a chat and verifies the caller participates in it. A chat
// the caller is not part of reads as not found, matching the original API.
func (s *ChatService) memberChat(ctx context.Context, r *repository.Repository, callerID, chatID uint) (*models.Chat, error) {
	chat, err := r.GetChatByID(ctx, chatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	if chat.User1ID != callerID && chat.User2ID != callerID {
		return nil, ErrChatNotFound
	}
	return chat, nil
}
