package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

// PrivacySettings controls which profile fields are visible to other users.
// Stored as a JSON column with named, defaulted fields.
type PrivacySettings struct {
	LocationVisible     bool `json:"location_visible"`
	InterestsVisible    bool `json:"interests_visible"`
	BioVisible          bool `json:"bio_visible"`
	AgeVisible          bool `json:"age_visible"`
	ActivitiesVisible   bool `json:"activities_visible"`
	AvailabilityVisible bool `json:"availability_visible"`
}

// DefaultPrivacySettings returns the settings applied to new accounts:
// everything visible.
func DefaultPrivacySettings() PrivacySettings {
	return PrivacySettings{
		LocationVisible:     true,
		InterestsVisible:    true,
		BioVisible:          true,
		AgeVisible:          true,
		ActivitiesVisible:   true,
		AvailabilityVisible: true,
	}
}

func (p PrivacySettings) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *PrivacySettings) Scan(value interface{}) error {
	if value == nil {
		*p = DefaultPrivacySettings()
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("unsupported type for PrivacySettings")
	}
	return json.Unmarshal(raw, p)
}

// StringList is a JSON-encoded list of strings (uploaded file and image URLs).
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("unsupported type for StringList")
	}
	return json.Unmarshal(raw, l)
}

// User represents a registered account with its profile.
type User struct {
	gorm.Model
	Username     string `gorm:"size:64;unique;not null"`
	Email        string `gorm:"size:120;unique;not null"`
	PasswordHash string `gorm:"size:256;not null"`

	ProfilePicture string `gorm:"size:200"`
	Bio            string `gorm:"type:text"`
	Interests      string `gorm:"type:text"` // comma-separated tags
	Location       string `gorm:"size:120"`
	Latitude       *float64
	Longitude      *float64
	Age            *int
	LookingFor     string `gorm:"size:50"`
	Activities     string `gorm:"type:text"` // comma-separated tags
	Availability   string `gorm:"size:50"`

	PrivacySettings PrivacySettings `gorm:"type:json"`
	UploadedFiles   StringList      `gorm:"type:json"`
	ActivityImages  StringList      `gorm:"type:json"`

	LastActive *time.Time

	// Single-use credentials, cleared on successful verification.
	OTPCode   string `gorm:"size:6"`
	OTPExpiry *time.Time

	// Bumped on every successful password reset so outstanding
	// reset tokens stop resolving.
	ResetTokenVersion uint `gorm:"not null;default:0"`
}
