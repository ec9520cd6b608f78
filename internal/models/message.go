package models

import "gorm.io/gorm"

// MediaType classifies an optional media attachment.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
	MediaVoice MediaType = "voice"
)

// ValidMediaType reports whether s is a recognized media kind.
func ValidMediaType(s string) bool {
	switch MediaType(s) {
	case MediaImage, MediaVideo, MediaVoice:
		return true
	}
	return false
}

// Message is a direct message between two users. The read flag only ever
// transitions false -> true, when the recipient opens the conversation.
type Message struct {
	gorm.Model
	SenderID    uint      `gorm:"not null;index"`
	RecipientID uint      `gorm:"not null;index"`
	Content     string    `gorm:"not null"`
	MediaURL    string    `gorm:"size:512"`
	MediaType   MediaType `gorm:"size:20"`
	Read        bool      `gorm:"not null;default:false;index"`

	Sender    User `gorm:"foreignKey:SenderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Recipient User `gorm:"foreignKey:RecipientID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
