package service_test

import (
	"context"
	"testing"

	"friendfinder/backend/internal/cache"
	"friendfinder/backend/internal/hub"
	"friendfinder/backend/internal/models"
	"friendfinder/backend/internal/repository"
	"friendfinder/backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newLocationService(db *gorm.DB, h *hub.Hub, c *cache.RedisCache) *service.LocationService {
	return service.NewLocationService(
		repository.NewUserRepository(db),
		repository.NewFriendRepository(db),
		repository.NewNotificationRepository(db),
		h, c, testLogger(),
	)
}

func befriend(t *testing.T, db *gorm.DB, a, b uint) {
	t.Helper()
	_, err := repository.NewFriendRepository(db).AddFriend(context.Background(), a, b)
	require.NoError(t, err)
}

func TestUpdateRejectsBadCoordinates(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := newLocationService(db, hub.NewHub(), nil)

	mover := seedUser(t, db, models.User{Username: "mover"})

	err := svc.Update(ctx, mover.ID, "not-a-number", "0.0")
	assert.ErrorIs(t, err, service.ErrInvalidCoordinates)
	err = svc.Update(ctx, mover.ID, "51.5", "")
	assert.ErrorIs(t, err, service.ErrInvalidCoordinates)

	// parseable but outside valid coordinate ranges
	err = svc.Update(ctx, mover.ID, "90.1", "0.0")
	assert.ErrorIs(t, err, service.ErrInvalidCoordinates)
	err = svc.Update(ctx, mover.ID, "51.5", "-180.5")
	assert.ErrorIs(t, err, service.ErrInvalidCoordinates)

	var user models.User
	require.NoError(t, db.First(&user, mover.ID).Error)
	assert.Nil(t, user.Latitude)
}

func TestUpdateBroadcastsToFriends(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	h := hub.NewHub()
	svc := newLocationService(db, h, nil)

	mover := seedUser(t, db, models.User{Username: "mover"})
	friend := seedUser(t, db, models.User{Username: "friend"})
	stranger := seedUser(t, db, models.User{Username: "stranger"})
	befriend(t, db, mover.ID, friend.ID)

	friendClient := hub.NewClient()
	h.Subscribe(hub.UserRoom(friend.ID), friendClient)
	strangerClient := hub.NewClient()
	h.Subscribe(hub.UserRoom(stranger.ID), strangerClient)

	require.NoError(t, svc.Update(ctx, mover.ID, "51.5074", "-0.1278"))

	event := receiveEvent(t, friendClient)
	assert.Equal(t, "friend_location_update", event.Type)
	payload := event.Payload.(map[string]interface{})
	assert.Equal(t, "mover", payload["username"])
	assert.InDelta(t, 51.5074, payload["latitude"].(float64), 1e-9)

	assert.Empty(t, strangerClient.Send)

	// coordinates and presence are persisted
	var stored models.User
	require.NoError(t, db.First(&stored, mover.ID).Error)
	require.NotNil(t, stored.Latitude)
	assert.InDelta(t, 51.5074, *stored.Latitude, 1e-9)
	assert.NotNil(t, stored.LastActive)
}

func TestUpdateNotifiesNearbyFriendsOnce(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	redisCache := setupTestCache(t)
	svc := newLocationService(db, hub.NewHub(), redisCache)

	lat, lon := 51.5074, -0.1278
	farLat := 53.4808

	mover := seedUser(t, db, models.User{Username: "mover"})
	near := seedUser(t, db, models.User{Username: "near", Latitude: &lat, Longitude: &lon})
	far := seedUser(t, db, models.User{Username: "far", Latitude: &farLat, Longitude: &lon})
	befriend(t, db, mover.ID, near.ID)
	befriend(t, db, mover.ID, far.ID)

	require.NoError(t, svc.Update(ctx, mover.ID, "51.5080", "-0.1280"))

	var notifications []models.Notification
	require.NoError(t, db.Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, near.ID, notifications[0].UserID)
	assert.Equal(t, models.NotifyNearbyFriend, notifications[0].Type)
	assert.Equal(t, "mover is nearby", notifications[0].Content)

	// a second ping inside the dedupe window stays quiet
	require.NoError(t, svc.Update(ctx, mover.ID, "51.5081", "-0.1281"))
	require.NoError(t, db.Find(&notifications).Error)
	assert.Len(t, notifications, 1)
}

func TestFriendLocationsRespectPrivacy(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := newLocationService(db, hub.NewHub(), nil)

	lat, lon := 51.5, -0.1

	viewer := seedUser(t, db, models.User{Username: "viewer"})
	open := seedUser(t, db, models.User{Username: "open", Latitude: &lat, Longitude: &lon})
	hidden := seedUser(t, db, models.User{
		Username: "hidden", Latitude: &lat, Longitude: &lon,
		PrivacySettings: models.PrivacySettings{
			InterestsVisible:    true,
			BioVisible:          true,
			AgeVisible:          true,
			ActivitiesVisible:   true,
			AvailabilityVisible: true,
		},
	})
	nowhere := seedUser(t, db, models.User{Username: "nowhere"})
	for _, id := range []uint{open.ID, hidden.ID, nowhere.ID} {
		befriend(t, db, viewer.ID, id)
	}

	locations, err := svc.FriendLocations(ctx, viewer.ID)
	require.NoError(t, err)
	require.Len(t, locations, 1)
	assert.Equal(t, "open", locations[0].Username)
}
