package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// GroupSettings is a typed JSON column. MaxMembers is informational and not
// enforced against actual membership count.
type GroupSettings struct {
	MediaAllowed bool `json:"media_allowed"`
	MaxMembers   int  `json:"max_members"`
}

// DefaultGroupSettings returns the settings applied to new groups.
func DefaultGroupSettings() GroupSettings {
	return GroupSettings{MediaAllowed: true, MaxMembers: 50}
}

func (s GroupSettings) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *GroupSettings) Scan(value interface{}) error {
	if value == nil {
		*s = DefaultGroupSettings()
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("unsupported type for GroupSettings")
	}
	return json.Unmarshal(raw, s)
}

// ChatGroup is a named group chat. The creator is always a member.
type ChatGroup struct {
	gorm.Model
	Name      string        `gorm:"size:120;not null"`
	CreatorID uint          `gorm:"not null;index"`
	Settings  GroupSettings `gorm:"type:json"`

	Creator User `gorm:"foreignKey:CreatorID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// GroupMember is the group membership relation.
type GroupMember struct {
	GroupID  uint      `gorm:"primaryKey"`
	UserID   uint      `gorm:"primaryKey"`
	JoinedAt time.Time `gorm:"autoCreateTime"`

	Group ChatGroup `gorm:"foreignKey:GroupID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	User  User      `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// GroupMessage is a message within a group. No per-member read tracking.
type GroupMessage struct {
	gorm.Model
	GroupID   uint      `gorm:"not null;index"`
	SenderID  uint      `gorm:"not null;index"`
	Content   string    `gorm:"not null"`
	MediaURL  string    `gorm:"size:512"`
	MediaType MediaType `gorm:"size:20"`

	Group  ChatGroup `gorm:"foreignKey:GroupID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Sender User      `gorm:"foreignKey:SenderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
