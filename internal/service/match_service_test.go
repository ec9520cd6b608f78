package service_test

import (
	"context"
	"testing"

	"friendfinder/backend/internal/models"
	"friendfinder/backend/internal/repository"
	"friendfinder/backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newMatchServiceNoCache(db *gorm.DB) *service.MatchService {
	return service.NewMatchService(
		repository.NewUserRepository(db),
		repository.NewMatchRepository(db),
		nil, testLogger(),
	)
}

func TestSuggestionsOrderedByScore(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := newMatchServiceNoCache(db)

	self := seedUser(t, db, models.User{Username: "self", Interests: "hiking, reading, gaming", Availability: "weekends"})
	seedUser(t, db, models.User{Username: "close", Interests: "hiking, reading, gaming", Availability: "weekends"})
	seedUser(t, db, models.User{Username: "partial", Interests: "hiking", Availability: "weekdays"})
	seedUser(t, db, models.User{Username: "distant", Interests: "knitting", Availability: "weekdays"})

	suggestions, err := svc.Suggestions(ctx, self.ID, repository.UserFilter{}, 0)
	require.NoError(t, err)
	require.Len(t, suggestions, 3)
	assert.Equal(t, "close", suggestions[0].Username)
	assert.Equal(t, "partial", suggestions[1].Username)
	assert.Equal(t, "distant", suggestions[2].Username)
	assert.Greater(t, suggestions[0].Score, suggestions[1].Score)
	assert.Greater(t, suggestions[1].Score, suggestions[2].Score)
}

func TestSuggestionsHidePrivateFields(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := newMatchServiceNoCache(db)

	self := seedUser(t, db, models.User{Username: "self"})
	seedUser(t, db, models.User{
		Username:  "shy",
		Interests: "hiking",
		Location:  "Bristol",
		PrivacySettings: models.PrivacySettings{
			LocationVisible:     false,
			InterestsVisible:    true,
			BioVisible:          true,
			AgeVisible:          true,
			ActivitiesVisible:   true,
			AvailabilityVisible: true,
		},
	})

	suggestions, err := svc.Suggestions(ctx, self.ID, repository.UserFilter{}, 0)
	require.NoError(t, err)
	require.Len(t, suggestions, 1)
	assert.Empty(t, suggestions[0].Location)
	assert.Equal(t, "hiking", suggestions[0].Interests)
}

func TestSuggestionsServedFromCache(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	redisCache := setupTestCache(t)
	svc := service.NewMatchService(
		repository.NewUserRepository(db),
		repository.NewMatchRepository(db),
		redisCache, testLogger(),
	)

	self := seedUser(t, db, models.User{Username: "self"})
	seedUser(t, db, models.User{Username: "other", Interests: "hiking"})

	first, err := svc.Suggestions(ctx, self.ID, repository.UserFilter{}, 0)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// a new candidate does not appear while the cache entry lives
	seedUser(t, db, models.User{Username: "latecomer"})
	second, err := svc.Suggestions(ctx, self.ID, repository.UserFilter{}, 0)
	require.NoError(t, err)
	assert.Len(t, second, 1)

	// invalidation brings the store back in view
	svc.InvalidateSuggestions(ctx, self.ID)
	third, err := svc.Suggestions(ctx, self.ID, repository.UserFilter{}, 0)
	require.NoError(t, err)
	assert.Len(t, third, 2)

	// filtered queries bypass the cache entirely
	filtered, err := svc.Suggestions(ctx, self.ID, repository.UserFilter{Username: "late"}, 0)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "latecomer", filtered[0].Username)
}

func TestSuggestionsCacheIgnoresRequestLimit(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	redisCache := setupTestCache(t)
	svc := service.NewMatchService(
		repository.NewUserRepository(db),
		repository.NewMatchRepository(db),
		redisCache, testLogger(),
	)

	self := seedUser(t, db, models.User{Username: "self", Interests: "hiking"})
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		seedUser(t, db, models.User{Username: name, Interests: "hiking"})
	}

	// a small-limit query must not shrink the cached list
	first, err := svc.Suggestions(ctx, self.ID, repository.UserFilter{}, 1)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := svc.Suggestions(ctx, self.ID, repository.UserFilter{}, 10)
	require.NoError(t, err)
	assert.Len(t, second, 5)

	// and the warm cache still honors a smaller limit
	third, err := svc.Suggestions(ctx, self.ID, repository.UserFilter{}, 2)
	require.NoError(t, err)
	assert.Len(t, third, 2)
}

func TestSaveMatchRejectsSelfAndDuplicates(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := newMatchServiceNoCache(db)

	self := seedUser(t, db, models.User{Username: "self"})
	other := seedUser(t, db, models.User{Username: "other"})

	_, _, err := svc.SaveMatch(ctx, self.ID, self.ID)
	assert.ErrorIs(t, err, service.ErrSelfRequest)

	m, created, err := svc.SaveMatch(ctx, self.ID, other.ID)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.MatchPending, m.Status)

	_, created, err = svc.SaveMatch(ctx, self.ID, other.ID)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestRespondToMatchIsOwnerOnly(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := newMatchServiceNoCache(db)

	self := seedUser(t, db, models.User{Username: "self"})
	other := seedUser(t, db, models.User{Username: "other"})

	m, _, err := svc.SaveMatch(ctx, self.ID, other.ID)
	require.NoError(t, err)

	err = svc.RespondToMatch(ctx, m.ID, other.ID, "accept")
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	err = svc.RespondToMatch(ctx, m.ID, self.ID, "maybe")
	assert.ErrorIs(t, err, service.ErrInvalidAction)

	require.NoError(t, svc.RespondToMatch(ctx, m.ID, self.ID, "accept"))

	matches, err := svc.ListMatches(ctx, self.ID)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, models.MatchAccepted, matches[0].Status)
}
