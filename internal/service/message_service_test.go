package service_test

import (
	"context"
	"encoding/json"
	"testing"

	"friendfinder/backend/internal/hub"
	"friendfinder/backend/internal/models"
	"friendfinder/backend/internal/repository"
	"friendfinder/backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newMessageService(db *gorm.DB, h *hub.Hub) *service.MessageService {
	return service.NewMessageService(
		repository.NewMessageRepository(db),
		repository.NewUserRepository(db),
		repository.NewNotificationRepository(db),
		h, testLogger(),
	)
}

// receiveEvent pops one queued event from the client without blocking.
func receiveEvent(t *testing.T, c *hub.Client) hub.Event {
	t.Helper()
	select {
	case raw := <-c.Send:
		var event hub.Event
		require.NoError(t, json.Unmarshal(raw, &event))
		return event
	default:
		t.Fatal("no event queued")
		return hub.Event{}
	}
}

func TestSendNotifiesAndBroadcasts(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	h := hub.NewHub()
	svc := newMessageService(db, h)

	sender := seedUser(t, db, models.User{Username: "sender"})
	recipient := seedUser(t, db, models.User{Username: "recipient"})

	recipientClient := hub.NewClient()
	h.Subscribe(hub.UserRoom(recipient.ID), recipientClient)
	senderClient := hub.NewClient()
	h.Subscribe(hub.UserRoom(sender.ID), senderClient)

	m, err := svc.Send(ctx, sender.ID, recipient.ID, "hello there", "", "")
	require.NoError(t, err)
	require.NotZero(t, m.ID)

	// recipient got a notification naming the sender
	var n models.Notification
	require.NoError(t, db.Where("user_id = ?", recipient.ID).First(&n).Error)
	assert.Equal(t, models.NotifyMessage, n.Type)
	assert.Equal(t, "New message from sender", n.Content)
	require.NotNil(t, n.RelatedID)
	assert.Equal(t, sender.ID, *n.RelatedID)

	// both rooms got the new_message event so other sender sessions see the echo
	for _, c := range []*hub.Client{recipientClient, senderClient} {
		event := receiveEvent(t, c)
		assert.Equal(t, "new_message", event.Type)
		payload := event.Payload.(map[string]interface{})
		assert.Equal(t, "hello there", payload["content"])
		assert.EqualValues(t, sender.ID, payload["sender_id"])
		assert.NotEmpty(t, payload["created_at"])
	}
}

func TestSendValidatesRecipientAndMedia(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := newMessageService(db, hub.NewHub())

	sender := seedUser(t, db, models.User{Username: "sender"})

	_, err := svc.Send(ctx, sender.ID, 999, "hello", "", "")
	assert.ErrorIs(t, err, service.ErrNotFound)

	recipient := seedUser(t, db, models.User{Username: "recipient"})
	_, err = svc.Send(ctx, sender.ID, recipient.ID, "look", "https://cdn.test/x.bin", "document")
	assert.ErrorIs(t, err, service.ErrInvalidMedia)

	m, err := svc.Send(ctx, sender.ID, recipient.ID, "look", "https://cdn.test/x.jpg", "image")
	require.NoError(t, err)
	assert.Equal(t, models.MediaImage, m.MediaType)
}

func TestConversationMarksIncomingRead(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	svc := newMessageService(db, hub.NewHub())

	a := seedUser(t, db, models.User{Username: "a"})
	b := seedUser(t, db, models.User{Username: "b"})

	_, err := svc.Send(ctx, b.ID, a.ID, "first", "", "")
	require.NoError(t, err)
	_, err = svc.Send(ctx, b.ID, a.ID, "second", "", "")
	require.NoError(t, err)

	counts, err := svc.UnreadCounts(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.EqualValues(t, 2, counts[0].Count)

	messages, err := svc.Conversation(ctx, a.ID, b.ID)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "first", messages[0].Content)

	counts, err = svc.UnreadCounts(ctx, a.ID)
	require.NoError(t, err)
	assert.Empty(t, counts)
}
