package service

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"friendfinder/backend/internal/cache"
	"friendfinder/backend/internal/hub"
	"friendfinder/backend/internal/match"
	"friendfinder/backend/internal/models"
	"friendfinder/backend/internal/repository"
)

// nearbyRadiusKM is the distance under which a friend counts as nearby.
const nearbyRadiusKM = 5.0

// LocationPayload is the wire shape of a friend_location_update event.
type LocationPayload struct {
	ID             uint    `json:"id"`
	Username       string  `json:"username"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	ProfilePicture string  `json:"profile_picture,omitempty"`
	LastActive     string  `json:"last_active,omitempty"`
}

// LocationService owns live location updates and presence.
type LocationService struct {
	users         *repository.UserRepository
	friends       *repository.FriendRepository
	notifications *repository.NotificationRepository
	hub           *hub.Hub
	cache         *cache.RedisCache
	log           *slog.Logger
}

// NewLocationService wires the location service. The cache may be nil, in
// which case nearby-friend notifications are not deduplicated.
func NewLocationService(users *repository.UserRepository, friends *repository.FriendRepository, notifications *repository.NotificationRepository, h *hub.Hub, c *cache.RedisCache, log *slog.Logger) *LocationService {
	return &LocationService{users: users, friends: friends, notifications: notifications, hub: h, cache: c, log: log}
}

// Update parses and persists new coordinates, refreshes last-active, pushes
// the position to every friend's personal room, and raises deduplicated
// nearby-friend notifications. Offline friends simply miss the live push.
func (s *LocationService) Update(ctx context.Context, userID uint, latStr, lonStr string) error {
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return ErrInvalidCoordinates
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return ErrInvalidCoordinates
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return ErrInvalidCoordinates
	}

	now := time.Now()
	if err := s.users.UpdateLocation(ctx, userID, lat, lon, now); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	payload := LocationPayload{
		ID:             user.ID,
		Username:       user.Username,
		Latitude:       lat,
		Longitude:      lon,
		ProfilePicture: user.ProfilePicture,
		LastActive:     now.UTC().Format(time.RFC3339),
	}

	friendIDs, err := s.friends.FriendIDs(ctx, userID)
	if err != nil {
		return err
	}
	for _, id := range friendIDs {
		s.hub.Broadcast(hub.UserRoom(id), hub.Event{Type: "friend_location_update", Payload: payload})
	}

	s.notifyNearby(ctx, user, lat, lon, friendIDs)
	return nil
}

// TouchPresence refreshes the user's last-active timestamp, used on
// real-time connect.
func (s *LocationService) TouchPresence(ctx context.Context, userID uint) error {
	return s.users.TouchLastActive(ctx, userID, time.Now())
}

// FriendLocations returns the persisted coordinates of friends who share
// their location.
func (s *LocationService) FriendLocations(ctx context.Context, userID uint) ([]LocationPayload, error) {
	friends, err := s.friends.ListFriends(ctx, userID)
	if err != nil {
		return nil, err
	}

	locations := make([]LocationPayload, 0, len(friends))
	for i := range friends {
		f := &friends[i]
		if f.Latitude == nil || f.Longitude == nil || !f.PrivacySettings.LocationVisible {
			continue
		}
		p := LocationPayload{
			ID:             f.ID,
			Username:       f.Username,
			Latitude:       *f.Latitude,
			Longitude:      *f.Longitude,
			ProfilePicture: f.ProfilePicture,
		}
		if f.LastActive != nil {
			p.LastActive = f.LastActive.UTC().Format(time.RFC3339)
		}
		locations = append(locations, p)
	}
	return locations, nil
}

func (s *LocationService) notifyNearby(ctx context.Context, user *models.User, lat, lon float64, friendIDs []uint) {
	friends, err := s.users.ListByIDs(ctx, friendIDs)
	if err != nil {
		s.log.Error("failed to load friends for nearby check", "user", user.ID, "err", err)
		return
	}

	for i := range friends {
		f := &friends[i]
		if f.Latitude == nil || f.Longitude == nil {
			continue
		}
		if match.Haversine(lat, lon, *f.Latitude, *f.Longitude) > nearbyRadiusKM {
			continue
		}

		if s.cache != nil {
			first, err := s.cache.MarkNearbyNotified(ctx, f.ID, user.ID)
			if err != nil {
				s.log.Warn("nearby dedupe check failed", "err", err)
			} else if !first {
				continue
			}
		}

		content := fmt.Sprintf("%s is nearby", user.Username)
		if err := s.notifications.Create(ctx, f.ID, models.NotifyNearbyFriend, content, &user.ID); err != nil {
			s.log.Error("failed to create nearby notification", "friend", f.ID, "err", err)
		}
	}
}
