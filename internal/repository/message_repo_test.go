package repository_test

import (
	"context"
	"testing"

	"friendfinder/backend/internal/models"
	"friendfinder/backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedMessage(t *testing.T, db *gorm.DB, sender, recipient uint, content string) {
	t.Helper()
	m := models.Message{SenderID: sender, RecipientID: recipient, Content: content}
	require.NoError(t, db.Create(&m).Error)
}

func TestConversationIncludesBothDirections(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	ids := seedUsers(t, db, 3)
	repo := repository.NewMessageRepository(db)

	seedMessage(t, db, ids[0], ids[1], "hello")
	seedMessage(t, db, ids[1], ids[0], "hi back")
	seedMessage(t, db, ids[0], ids[2], "unrelated")

	messages, err := repo.Conversation(ctx, ids[0], ids[1])
	require.NoError(t, err)
	require.Len(t, messages, 2)
	// oldest first
	assert.Equal(t, "hello", messages[0].Content)
	assert.Equal(t, "hi back", messages[1].Content)
}

func TestMarkConversationRead(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	ids := seedUsers(t, db, 3)
	repo := repository.NewMessageRepository(db)

	seedMessage(t, db, ids[1], ids[0], "one")
	seedMessage(t, db, ids[1], ids[0], "two")
	seedMessage(t, db, ids[0], ids[1], "mine stays untouched")
	seedMessage(t, db, ids[2], ids[0], "other sender stays unread")

	flipped, err := repo.MarkConversationRead(ctx, ids[0], ids[1])
	require.NoError(t, err)
	assert.EqualValues(t, 2, flipped)

	// repeat is a no-op
	flipped, err = repo.MarkConversationRead(ctx, ids[0], ids[1])
	require.NoError(t, err)
	assert.EqualValues(t, 0, flipped)

	counts, err := repo.UnreadCounts(ctx, ids[0])
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, ids[2], counts[0].SenderID)
	assert.EqualValues(t, 1, counts[0].Count)
}

func TestUnreadCountsGroupsBySender(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	ids := seedUsers(t, db, 3)
	repo := repository.NewMessageRepository(db)

	seedMessage(t, db, ids[1], ids[0], "a")
	seedMessage(t, db, ids[1], ids[0], "b")
	seedMessage(t, db, ids[2], ids[0], "c")

	counts, err := repo.UnreadCounts(ctx, ids[0])
	require.NoError(t, err)
	require.Len(t, counts, 2)

	bySender := make(map[uint]int64, len(counts))
	for _, c := range counts {
		bySender[c.SenderID] = c.Count
	}
	assert.EqualValues(t, 2, bySender[ids[1]])
	assert.EqualValues(t, 1, bySender[ids[2]])
}
