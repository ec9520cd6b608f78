package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"friendfinder/backend/internal/hub"
	"friendfinder/backend/internal/models"
	"friendfinder/backend/internal/repository"

	"gorm.io/gorm"
)

// MessagePayload is the wire shape of a direct message event.
type MessagePayload struct {
	ID          uint   `json:"id"`
	SenderID    uint   `json:"sender_id"`
	RecipientID uint   `json:"recipient_id"`
	Content     string `json:"content"`
	MediaURL    string `json:"media_url,omitempty"`
	MediaType   string `json:"media_type,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// MessageService owns direct messages, their read state, and the
// notification and real-time pushes a send triggers.
type MessageService struct {
	messages      *repository.MessageRepository
	users         *repository.UserRepository
	notifications *repository.NotificationRepository
	hub           *hub.Hub
	log           *slog.Logger
}

// NewMessageService wires the message service.
func NewMessageService(messages *repository.MessageRepository, users *repository.UserRepository, notifications *repository.NotificationRepository, h *hub.Hub, log *slog.Logger) *MessageService {
	return &MessageService{messages: messages, users: users, notifications: notifications, hub: h, log: log}
}

// Send inserts the message, appends a notification for the recipient, and
// pushes a new_message event to both user rooms so the sender's other
// sessions see the echo. Push failures are fire-and-forget.
func (s *MessageService) Send(ctx context.Context, senderID, recipientID uint, content, mediaURL, mediaType string) (*models.Message, error) {
	if mediaURL != "" && !models.ValidMediaType(mediaType) {
		return nil, ErrInvalidMedia
	}

	sender, err := s.users.GetByID(ctx, senderID)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.GetByID(ctx, recipientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	m := models.Message{
		SenderID:    senderID,
		RecipientID: recipientID,
		Content:     content,
		MediaURL:    mediaURL,
		MediaType:   models.MediaType(mediaType),
	}
	if err := s.messages.Create(ctx, &m); err != nil {
		return nil, err
	}

	content2 := fmt.Sprintf("New message from %s", sender.Username)
	if err := s.notifications.Create(ctx, recipientID, models.NotifyMessage, content2, &senderID); err != nil {
		s.log.Error("failed to create message notification", "recipient", recipientID, "err", err)
	}

	event := hub.Event{Type: "new_message", Payload: s.payload(&m)}
	s.hub.Broadcast(hub.UserRoom(recipientID), event)
	s.hub.Broadcast(hub.UserRoom(senderID), event)

	return &m, nil
}

// Conversation marks every unread message from the counterpart as read, in
// bulk, then returns the full history oldest first.
func (s *MessageService) Conversation(ctx context.Context, userID, otherID uint) ([]models.Message, error) {
	if _, err := s.messages.MarkConversationRead(ctx, userID, otherID); err != nil {
		return nil, err
	}
	return s.messages.Conversation(ctx, userID, otherID)
}

// UnreadCounts returns per-sender unread totals.
func (s *MessageService) UnreadCounts(ctx context.Context, userID uint) ([]repository.UnreadCount, error) {
	return s.messages.UnreadCounts(ctx, userID)
}

func (s *MessageService) payload(m *models.Message) MessagePayload {
	return MessagePayload{
		ID:          m.ID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		Content:     m.Content,
		MediaURL:    m.MediaURL,
		MediaType:   string(m.MediaType),
		CreatedAt:   m.CreatedAt.UTC().Format(time.RFC3339),
	}
}
