package repository_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"friendfinder/backend/internal/database"
	"friendfinder/backend/internal/models"
	"friendfinder/backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setup in-memory DB
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

// seedUsers inserts n bare users and returns their ids in order.
func seedUsers(t *testing.T, db *gorm.DB, n int) []uint {
	t.Helper()
	ids := make([]uint, 0, n)
	for i := 1; i <= n; i++ {
		u := models.User{
			Username:        fmt.Sprintf("user%d", i),
			Email:           fmt.Sprintf("user%d@test.com", i),
			PasswordHash:    "x",
			PrivacySettings: models.DefaultPrivacySettings(),
		}
		require.NoError(t, db.Create(&u).Error)
		ids = append(ids, u.ID)
	}
	return ids
}

func TestCreateRequestIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	ids := seedUsers(t, db, 2)
	repo := repository.NewFriendRepository(db)

	created, err := repo.CreateRequest(ctx, ids[0], ids[1])
	require.NoError(t, err)
	assert.True(t, created)

	// second send is a no-op
	created, err = repo.CreateRequest(ctx, ids[0], ids[1])
	require.NoError(t, err)
	assert.False(t, created)

	var count int64
	db.Model(&models.FriendRequest{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestAcceptRequestCreatesBothEdges(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	ids := seedUsers(t, db, 2)
	repo := repository.NewFriendRepository(db)

	_, err := repo.CreateRequest(ctx, ids[0], ids[1])
	require.NoError(t, err)

	req, err := repo.GetRequest(ctx, ids[0], ids[1])
	require.NoError(t, err)
	require.NoError(t, repo.AcceptRequest(ctx, req))

	// the edge must hold from both sides
	for _, pair := range [][2]uint{{ids[0], ids[1]}, {ids[1], ids[0]}} {
		ok, err := repo.IsFriend(ctx, pair[0], pair[1])
		require.NoError(t, err)
		assert.True(t, ok)
	}

	stored, err := repo.GetRequest(ctx, ids[0], ids[1])
	require.NoError(t, err)
	assert.Equal(t, models.StatusAccepted, stored.Status)
}

func TestDeclineRequestLeavesNoEdges(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	ids := seedUsers(t, db, 2)
	repo := repository.NewFriendRepository(db)

	_, err := repo.CreateRequest(ctx, ids[0], ids[1])
	require.NoError(t, err)
	req, err := repo.GetRequest(ctx, ids[0], ids[1])
	require.NoError(t, err)

	require.NoError(t, repo.DeclineRequest(ctx, req))

	ok, err := repo.IsFriend(ctx, ids[0], ids[1])
	require.NoError(t, err)
	assert.False(t, ok)

	stored, err := repo.GetRequest(ctx, ids[0], ids[1])
	require.NoError(t, err)
	assert.Equal(t, models.StatusDeclined, stored.Status)
}

func TestRemoveFriendDeletesBothRows(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	ids := seedUsers(t, db, 2)
	repo := repository.NewFriendRepository(db)

	added, err := repo.AddFriend(ctx, ids[0], ids[1])
	require.NoError(t, err)
	assert.True(t, added)

	// removal works regardless of which side asks
	removed, err := repo.RemoveFriend(ctx, ids[1], ids[0])
	require.NoError(t, err)
	assert.True(t, removed)

	var count int64
	db.Model(&models.Friendship{}).Count(&count)
	assert.EqualValues(t, 0, count)

	removed, err = repo.RemoveFriend(ctx, ids[0], ids[1])
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestListRequestsByDirection(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	ids := seedUsers(t, db, 3)
	repo := repository.NewFriendRepository(db)

	_, err := repo.CreateRequest(ctx, ids[0], ids[1]) // user1 -> user2
	require.NoError(t, err)
	_, err = repo.CreateRequest(ctx, ids[2], ids[0]) // user3 -> user1
	require.NoError(t, err)

	incoming, err := repo.ListRequests(ctx, ids[0], "incoming", models.StatusPending)
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, ids[2], incoming[0].SenderID)
	assert.Equal(t, "user3", incoming[0].Sender.Username)

	outgoing, err := repo.ListRequests(ctx, ids[0], "outgoing", models.StatusPending)
	require.NoError(t, err)
	require.Len(t, outgoing, 1)
	assert.Equal(t, ids[1], outgoing[0].ReceiverID)
	assert.Equal(t, "user2", outgoing[0].Receiver.Username)

	all, err := repo.ListRequests(ctx, ids[0], "", "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestFriendIDs(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	ids := seedUsers(t, db, 4)
	repo := repository.NewFriendRepository(db)

	for _, other := range ids[1:3] {
		_, err := repo.AddFriend(ctx, ids[0], other)
		require.NoError(t, err)
	}

	friendIDs, err := repo.FriendIDs(ctx, ids[0])
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{ids[1], ids[2]}, friendIDs)
}
