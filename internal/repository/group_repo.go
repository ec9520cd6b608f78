package repository

import (
	"context"

	"friendfinder/backend/internal/models"

	"gorm.io/gorm"
)

// GroupRepository provides data access for chat groups, membership, and
// group messages.
type GroupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a repository bound to the given DB connection.
func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// CreateGroup inserts the group and its initial membership (the creator plus
// memberIDs) in one transaction. Callers are expected to have deduplicated
// and validated memberIDs.
func (r *GroupRepository) CreateGroup(ctx context.Context, g *models.ChatGroup, memberIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(g).Error; err != nil {
			return err
		}
		members := []models.GroupMember{{GroupID: g.ID, UserID: g.CreatorID}}
		for _, id := range memberIDs {
			members = append(members, models.GroupMember{GroupID: g.ID, UserID: id})
		}
		return tx.Create(&members).Error
	})
}

func (r *GroupRepository) GetGroup(ctx context.Context, id uint) (*models.ChatGroup, error) {
	var g models.ChatGroup
	if err := r.db.WithContext(ctx).First(&g, id).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

// IsMember reports whether the user belongs to the group.
func (r *GroupRepository) IsMember(ctx context.Context, groupID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	return count > 0, err
}

// AddMember joins the user to the group. Returns false when already a
// member.
func (r *GroupRepository) AddMember(ctx context.Context, groupID, userID uint) (bool, error) {
	exists, err := r.IsMember(ctx, groupID, userID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	member := models.GroupMember{GroupID: groupID, UserID: userID}
	if err := r.db.WithContext(ctx).Create(&member).Error; err != nil {
		return false, err
	}
	return true, nil
}

// MemberIDs returns the ids of every member of the group.
func (r *GroupRepository) MemberIDs(ctx context.Context, groupID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.GroupMember{}).
		Where("group_id = ?", groupID).
		Pluck("user_id", &ids).Error
	return ids, err
}

// GroupsForUser returns every group the user belongs to.
func (r *GroupRepository) GroupsForUser(ctx context.Context, userID uint) ([]models.ChatGroup, error) {
	var groups []models.ChatGroup
	err := r.db.WithContext(ctx).
		Joins("JOIN group_members ON group_members.group_id = chat_groups.id").
		Where("group_members.user_id = ?", userID).
		Find(&groups).Error
	return groups, err
}

func (r *GroupRepository) CreateMessage(ctx context.Context, m *models.GroupMessage) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// Messages returns the group history, oldest first, with senders preloaded.
func (r *GroupRepository) Messages(ctx context.Context, groupID uint) ([]models.GroupMessage, error) {
	var messages []models.GroupMessage
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("created_at ASC, id ASC").
		Preload("Sender").
		Find(&messages).Error
	return messages, err
}
