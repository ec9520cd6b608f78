package models

import (
	"time"

	"gorm.io/gorm"
)

// RequestStatus defines the state of a friend request.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusAccepted RequestStatus = "accepted"
	StatusDeclined RequestStatus = "declined"
)

// FriendRequest is an asymmetric pending request from sender to receiver.
// At most one request exists per (sender, receiver) ordered pair, enforced
// by lookup-before-insert.
type FriendRequest struct {
	gorm.Model
	SenderID   uint          `gorm:"not null;index"`
	ReceiverID uint          `gorm:"not null;index"`
	Status     RequestStatus `gorm:"type:varchar(20);not null;default:'pending'"`

	Sender   User `gorm:"foreignKey:SenderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Receiver User `gorm:"foreignKey:ReceiverID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// Friendship is one direction of a symmetric friend edge, materialized as two
// directed rows so membership testing is a single lookup from either side.
// The row for UserID -> FriendID exists iff the mirror row exists.
type Friendship struct {
	UserID    uint `gorm:"primaryKey"`
	FriendID  uint `gorm:"primaryKey"`
	CreatedAt time.Time

	User   User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Friend User `gorm:"foreignKey:FriendID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
