package repository

import (
	"context"
	"errors"

	"friendfinder/backend/internal/models"

	"gorm.io/gorm"
)

// FriendRepository provides data access for friend requests and the
// symmetric friend edge. Every edge mutation touches both directed rows in
// one transaction so the mirror invariant holds.
type FriendRepository struct {
	db *gorm.DB
}

// NewFriendRepository creates a repository bound to the given DB connection.
func NewFriendRepository(db *gorm.DB) *FriendRepository {
	return &FriendRepository{db: db}
}

// GetRequest finds the request for the ordered (sender, receiver) pair in
// any status.
func (r *FriendRepository) GetRequest(ctx context.Context, senderID, receiverID uint) (*models.FriendRequest, error) {
	var req models.FriendRequest
	err := r.db.WithContext(ctx).
		Where("sender_id = ? AND receiver_id = ?", senderID, receiverID).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *FriendRepository) GetRequestByID(ctx context.Context, id uint) (*models.FriendRequest, error) {
	var req models.FriendRequest
	if err := r.db.WithContext(ctx).First(&req, id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// CreateRequest inserts a pending request if none exists for the ordered
// pair. Returns false without inserting when one already exists.
func (r *FriendRepository) CreateRequest(ctx context.Context, senderID, receiverID uint) (bool, error) {
	_, err := r.GetRequest(ctx, senderID, receiverID)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	req := models.FriendRequest{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     models.StatusPending,
	}
	if err := r.db.WithContext(ctx).Create(&req).Error; err != nil {
		return false, err
	}
	return true, nil
}

// AcceptRequest marks the request accepted and inserts both directed friend
// rows atomically.
func (r *FriendRepository) AcceptRequest(ctx context.Context, req *models.FriendRequest) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(req).Update("status", models.StatusAccepted).Error; err != nil {
			return err
		}
		edges := []models.Friendship{
			{UserID: req.SenderID, FriendID: req.ReceiverID},
			{UserID: req.ReceiverID, FriendID: req.SenderID},
		}
		return tx.Create(&edges).Error
	})
}

// DeclineRequest marks the request declined. Friend edges are untouched.
func (r *FriendRepository) DeclineRequest(ctx context.Context, req *models.FriendRequest) error {
	return r.db.WithContext(ctx).Model(req).Update("status", models.StatusDeclined).Error
}

// ListRequests returns requests involving the user. Direction is "incoming"
// or "outgoing"; status filters when non-empty.
func (r *FriendRepository) ListRequests(ctx context.Context, userID uint, direction string, status models.RequestStatus) ([]models.FriendRequest, error) {
	query := r.db.WithContext(ctx).Model(&models.FriendRequest{})

	switch direction {
	case "incoming":
		query = query.Where("receiver_id = ?", userID).Preload("Sender")
	case "outgoing":
		query = query.Where("sender_id = ?", userID).Preload("Receiver")
	default:
		query = query.Where("sender_id = ? OR receiver_id = ?", userID, userID).
			Preload("Sender").Preload("Receiver")
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var requests []models.FriendRequest
	err := query.Order("created_at DESC").Find(&requests).Error
	return requests, err
}

// IsFriend reports whether the directed edge a -> b exists. The mirror
// invariant makes one lookup enough.
func (r *FriendRepository) IsFriend(ctx context.Context, a, b uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Friendship{}).
		Where("user_id = ? AND friend_id = ?", a, b).
		Count(&count).Error
	return count > 0, err
}

// AddFriend inserts both directed rows. Returns false when the edge already
// exists.
func (r *FriendRepository) AddFriend(ctx context.Context, a, b uint) (bool, error) {
	exists, err := r.IsFriend(ctx, a, b)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		edges := []models.Friendship{
			{UserID: a, FriendID: b},
			{UserID: b, FriendID: a},
		}
		return tx.Create(&edges).Error
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// RemoveFriend deletes both directed rows. Returns false when no edge
// existed.
func (r *FriendRepository) RemoveFriend(ctx context.Context, a, b uint) (bool, error) {
	var removed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where(
			"(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)",
			a, b, b, a,
		).Delete(&models.Friendship{})
		if result.Error != nil {
			return result.Error
		}
		removed = result.RowsAffected > 0
		return nil
	})
	return removed, err
}

// ListFriends returns the user's friends.
func (r *FriendRepository) ListFriends(ctx context.Context, userID uint) ([]models.User, error) {
	var friends []models.User
	err := r.db.WithContext(ctx).
		Joins("JOIN friendships ON friendships.friend_id = users.id").
		Where("friendships.user_id = ?", userID).
		Find(&friends).Error
	return friends, err
}

// FriendIDs returns just the ids of the user's friends.
func (r *FriendRepository) FriendIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Friendship{}).
		Where("user_id = ?", userID).
		Pluck("friend_id", &ids).Error
	return ids, err
}
