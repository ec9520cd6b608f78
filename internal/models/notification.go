package models

import "gorm.io/gorm"

// NotificationType classifies a notification event.
type NotificationType string

const (
	NotifyMessage       NotificationType = "message"
	NotifyGroupMessage  NotificationType = "group_message"
	NotifyFriendRequest NotificationType = "friend_request"
	NotifyNearbyFriend  NotificationType = "nearby_friend"
)

// Notification is an append-only per-user event log entry. Producers only
// insert; consumers may flip the read flag.
type Notification struct {
	gorm.Model
	UserID    uint             `gorm:"not null;index"`
	Type      NotificationType `gorm:"size:30;not null;index"`
	Content   string           `gorm:"not null"`
	RelatedID *uint
	Read      bool `gorm:"not null;default:false;index"`

	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
