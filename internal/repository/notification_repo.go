package repository

import (
	"context"

	"friendfinder/backend/internal/models"

	"gorm.io/gorm"
)

// NotificationRepository provides data access for the per-user event log.
// Producers only append; consumers may flip the read flag.
type NotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a repository bound to the given DB
// connection.
func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create appends a notification for the user.
func (r *NotificationRepository) Create(ctx context.Context, userID uint, typ models.NotificationType, content string, relatedID *uint) error {
	n := models.Notification{
		UserID:    userID,
		Type:      typ,
		Content:   content,
		RelatedID: relatedID,
	}
	return r.db.WithContext(ctx).Create(&n).Error
}

// List returns the user's notifications, newest first.
func (r *NotificationRepository) List(ctx context.Context, userID uint, limit int) ([]models.Notification, error) {
	var notifications []models.Notification
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&notifications).Error
	return notifications, err
}

// UnreadCount returns the number of unread notifications.
func (r *NotificationRepository) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkAllRead flips every unread notification for the user.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uint) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true)
	return result.RowsAffected, result.Error
}

// MarkRead flips a single notification owned by the user.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID uint) error {
	result := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
