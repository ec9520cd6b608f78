package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"friendfinder/backend/internal/hub"
	"friendfinder/backend/internal/models"
	"friendfinder/backend/internal/repository"

	"gorm.io/gorm"
)

// GroupMessagePayload is the wire shape of a group message event.
type GroupMessagePayload struct {
	ID        uint   `json:"id"`
	GroupID   uint   `json:"group_id"`
	SenderID  uint   `json:"sender_id"`
	Content   string `json:"content"`
	MediaURL  string `json:"media_url,omitempty"`
	MediaType string `json:"media_type,omitempty"`
	CreatedAt string `json:"created_at"`
}

// GroupService owns group chats, membership, and group message fan-out.
type GroupService struct {
	groups        *repository.GroupRepository
	users         *repository.UserRepository
	notifications *repository.NotificationRepository
	hub           *hub.Hub
	log           *slog.Logger
}

// NewGroupService wires the group service.
func NewGroupService(groups *repository.GroupRepository, users *repository.UserRepository, notifications *repository.NotificationRepository, h *hub.Hub, log *slog.Logger) *GroupService {
	return &GroupService{groups: groups, users: users, notifications: notifications, hub: h, log: log}
}

// Create makes a group with the creator as automatic member. Requested
// member ids are deduplicated, stripped of the creator, and validated for
// existence; unknown ids are dropped.
func (s *GroupService) Create(ctx context.Context, creatorID uint, name string, memberIDs []uint) (*models.ChatGroup, error) {
	seen := map[uint]bool{creatorID: true}
	var wanted []uint
	for _, id := range memberIDs {
		if !seen[id] {
			seen[id] = true
			wanted = append(wanted, id)
		}
	}

	existing, err := s.users.ListByIDs(ctx, wanted)
	if err != nil {
		return nil, err
	}
	valid := make([]uint, 0, len(existing))
	for _, u := range existing {
		valid = append(valid, u.ID)
	}

	g := models.ChatGroup{
		Name:      name,
		CreatorID: creatorID,
		Settings:  models.DefaultGroupSettings(),
	}
	if err := s.groups.CreateGroup(ctx, &g, valid); err != nil {
		return nil, err
	}
	return &g, nil
}

// Join adds the user to the group. Joining twice is an idempotent no-op.
func (s *GroupService) Join(ctx context.Context, groupID, userID uint) (bool, error) {
	if _, err := s.groups.GetGroup(ctx, groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}
	return s.groups.AddMember(ctx, groupID, userID)
}

// SendMessage delivers a group message. A send from a non-member is silently
// dropped: delivered is false with a nil error and no state change. On
// delivery every other member gets a notification and the group room gets a
// new_group_message event.
func (s *GroupService) SendMessage(ctx context.Context, groupID, senderID uint, content, mediaURL, mediaType string) (*models.GroupMessage, bool, error) {
	group, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrNotFound
		}
		return nil, false, err
	}

	isMember, err := s.groups.IsMember(ctx, groupID, senderID)
	if err != nil {
		return nil, false, err
	}
	if !isMember {
		s.log.Debug("dropping group message from non-member", "group", groupID, "sender", senderID)
		return nil, false, nil
	}

	if mediaURL != "" {
		if !models.ValidMediaType(mediaType) {
			return nil, false, ErrInvalidMedia
		}
		if !group.Settings.MediaAllowed {
			return nil, false, ErrMediaNotAllowed
		}
	}

	sender, err := s.users.GetByID(ctx, senderID)
	if err != nil {
		return nil, false, err
	}

	m := models.GroupMessage{
		GroupID:   groupID,
		SenderID:  senderID,
		Content:   content,
		MediaURL:  mediaURL,
		MediaType: models.MediaType(mediaType),
	}
	if err := s.groups.CreateMessage(ctx, &m); err != nil {
		return nil, false, err
	}

	memberIDs, err := s.groups.MemberIDs(ctx, groupID)
	if err != nil {
		s.log.Error("failed to list members for notification fan-out", "group", groupID, "err", err)
	} else {
		content2 := fmt.Sprintf("%s posted in %s", sender.Username, group.Name)
		for _, id := range memberIDs {
			if id == senderID {
				continue
			}
			if err := s.notifications.Create(ctx, id, models.NotifyGroupMessage, content2, &groupID); err != nil {
				s.log.Error("failed to create group message notification", "member", id, "err", err)
			}
		}
	}

	s.hub.Broadcast(hub.GroupRoom(groupID), hub.Event{
		Type: "new_group_message",
		Payload: GroupMessagePayload{
			ID:        m.ID,
			GroupID:   m.GroupID,
			SenderID:  m.SenderID,
			Content:   m.Content,
			MediaURL:  m.MediaURL,
			MediaType: string(m.MediaType),
			CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339),
		},
	})

	return &m, true, nil
}

// Messages returns the group history. Only members may read it.
func (s *GroupService) Messages(ctx context.Context, groupID, userID uint) ([]models.GroupMessage, error) {
	isMember, err := s.groups.IsMember(ctx, groupID, userID)
	if err != nil {
		return nil, err
	}
	if !isMember {
		return nil, ErrUnauthorized
	}
	return s.groups.Messages(ctx, groupID)
}

// GroupsForUser returns the groups the user belongs to.
func (s *GroupService) GroupsForUser(ctx context.Context, userID uint) ([]models.ChatGroup, error) {
	return s.groups.GroupsForUser(ctx, userID)
}
