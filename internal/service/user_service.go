package service

import (
	"context"
	"errors"
	"log/slog"

	"friendfinder/backend/internal/models"
	"friendfinder/backend/internal/repository"

	"gorm.io/gorm"
)

// ProfileUpdate carries the profile fields the owner may change. Nil fields
// are left untouched.
type ProfileUpdate struct {
	ProfilePicture *string
	Bio            *string
	Interests      *string
	Location       *string
	Latitude       *float64
	Longitude      *float64
	Age            *int
	LookingFor     *string
	Activities     *string
	Availability   *string
}

// PublicProfile is a privacy-scoped view of another user.
type PublicProfile struct {
	ID             uint   `json:"id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profile_picture,omitempty"`
	Bio            string `json:"bio,omitempty"`
	Interests      string `json:"interests,omitempty"`
	Location       string `json:"location,omitempty"`
	Age            *int   `json:"age,omitempty"`
	Activities     string `json:"activities,omitempty"`
	Availability   string `json:"availability,omitempty"`
}

// UserService owns profile reads and owner-only profile mutation.
type UserService struct {
	users *repository.UserRepository
	log   *slog.Logger
}

// NewUserService wires the user service.
func NewUserService(users *repository.UserRepository, log *slog.Logger) *UserService {
	return &UserService{users: users, log: log}
}

// Get returns the full user record. Intended for the owner's own profile.
func (s *UserService) Get(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile applies the owner's changes. Last write wins on concurrent
// updates.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, upd ProfileUpdate) (*models.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if upd.ProfilePicture != nil {
		user.ProfilePicture = *upd.ProfilePicture
	}
	if upd.Bio != nil {
		user.Bio = *upd.Bio
	}
	if upd.Interests != nil {
		user.Interests = *upd.Interests
	}
	if upd.Location != nil {
		user.Location = *upd.Location
	}
	if upd.Latitude != nil {
		user.Latitude = upd.Latitude
	}
	if upd.Longitude != nil {
		user.Longitude = upd.Longitude
	}
	if upd.Age != nil {
		user.Age = upd.Age
	}
	if upd.LookingFor != nil {
		user.LookingFor = *upd.LookingFor
	}
	if upd.Activities != nil {
		user.Activities = *upd.Activities
	}
	if upd.Availability != nil {
		user.Availability = *upd.Availability
	}

	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdatePrivacy replaces the privacy settings wholesale.
func (s *UserService) UpdatePrivacy(ctx context.Context, userID uint, settings models.PrivacySettings) (*models.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PrivacySettings = settings
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ViewProfile returns the target's profile with non-visible fields stripped
// for anyone but the owner.
func (s *UserService) ViewProfile(ctx context.Context, viewerID, targetID uint) (*PublicProfile, error) {
	user, err := s.Get(ctx, targetID)
	if err != nil {
		return nil, err
	}

	p := PublicProfile{
		ID:             user.ID,
		Username:       user.Username,
		ProfilePicture: user.ProfilePicture,
	}

	owner := viewerID == targetID
	ps := user.PrivacySettings

	if owner || ps.BioVisible {
		p.Bio = user.Bio
	}
	if owner || ps.InterestsVisible {
		p.Interests = user.Interests
	}
	if owner || ps.LocationVisible {
		p.Location = user.Location
	}
	if owner || ps.AgeVisible {
		p.Age = user.Age
	}
	if owner || ps.ActivitiesVisible {
		p.Activities = user.Activities
	}
	if owner || ps.AvailabilityVisible {
		p.Availability = user.Availability
	}

	return &p, nil
}

// Search returns users matching the filter, excluding the viewer.
func (s *UserService) Search(ctx context.Context, viewerID uint, f repository.UserFilter) ([]PublicProfile, error) {
	users, err := s.users.Search(ctx, viewerID, f)
	if err != nil {
		return nil, err
	}

	profiles := make([]PublicProfile, 0, len(users))
	for i := range users {
		u := &users[i]
		p := PublicProfile{ID: u.ID, Username: u.Username, ProfilePicture: u.ProfilePicture}
		ps := u.PrivacySettings
		if ps.BioVisible {
			p.Bio = u.Bio
		}
		if ps.InterestsVisible {
			p.Interests = u.Interests
		}
		if ps.LocationVisible {
			p.Location = u.Location
		}
		if ps.AgeVisible {
			p.Age = u.Age
		}
		if ps.ActivitiesVisible {
			p.Activities = u.Activities
		}
		if ps.AvailabilityVisible {
			p.Availability = u.Availability
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}
