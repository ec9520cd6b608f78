package repository

import (
	"context"

	"friendfinder/backend/internal/models"

	"gorm.io/gorm"
)

// UnreadCount is the number of unread messages from one sender.
type UnreadCount struct {
	SenderID uint  `json:"sender_id"`
	Count    int64 `json:"count"`
}

// MessageRepository provides data access for direct messages.
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a repository bound to the given DB connection.
func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(ctx context.Context, m *models.Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// Conversation returns the full message history between two users, oldest
// first.
func (r *MessageRepository) Conversation(ctx context.Context, userID, otherID uint) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.WithContext(ctx).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			userID, otherID, otherID, userID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}

// MarkConversationRead flips every unread message from otherID to userID to
// read, in bulk. The flag never reverses.
func (r *MessageRepository) MarkConversationRead(ctx context.Context, userID, otherID uint) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Message{}).
		Where("sender_id = ? AND recipient_id = ? AND read = ?", otherID, userID, false).
		Update("read", true)
	return result.RowsAffected, result.Error
}

// UnreadCounts returns per-sender unread totals for the user.
func (r *MessageRepository) UnreadCounts(ctx context.Context, userID uint) ([]UnreadCount, error) {
	var counts []UnreadCount
	err := r.db.WithContext(ctx).Model(&models.Message{}).
		Select("sender_id, COUNT(*) as count").
		Where("recipient_id = ? AND read = ?", userID, false).
		Group("sender_id").
		Scan(&counts).Error
	return counts, err
}
