package models

import "gorm.io/gorm"

// MatchStatus defines the state of a persisted match suggestion.
type MatchStatus string

const (
	MatchPending  MatchStatus = "pending"
	MatchAccepted MatchStatus = "accepted"
	MatchRejected MatchStatus = "rejected"
)

// UserMatch persists a directed suggestion edge with its score. Kept for the
// stored-match endpoints; live suggestions are computed on demand instead.
type UserMatch struct {
	gorm.Model
	UserID        uint        `gorm:"not null;index"`
	MatchedUserID uint        `gorm:"not null;index"`
	Score         float64     `gorm:"not null"`
	Status        MatchStatus `gorm:"type:varchar(20);not null;default:'pending'"`

	User        User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	MatchedUser User `gorm:"foreignKey:MatchedUserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
