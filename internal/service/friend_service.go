package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"friendfinder/backend/internal/models"
	"friendfinder/backend/internal/repository"

	"gorm.io/gorm"
)

// FriendService owns friend requests and the symmetric friend edge.
type FriendService struct {
	friends       *repository.FriendRepository
	users         *repository.UserRepository
	notifications *repository.NotificationRepository
	log           *slog.Logger
}

// NewFriendService wires the friend service.
func NewFriendService(friends *repository.FriendRepository, users *repository.UserRepository, notifications *repository.NotificationRepository, log *slog.Logger) *FriendService {
	return &FriendService{friends: friends, users: users, notifications: notifications, log: log}
}

// SendRequest creates a pending request. A repeated request for the same
// ordered pair is an idempotent no-op: false is returned with no error.
func (s *FriendService) SendRequest(ctx context.Context, senderID, receiverID uint) (bool, error) {
	if senderID == receiverID {
		return false, ErrSelfRequest
	}

	sender, err := s.users.GetByID(ctx, senderID)
	if err != nil {
		return false, err
	}
	if _, err := s.users.GetByID(ctx, receiverID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}

	created, err := s.friends.CreateRequest(ctx, senderID, receiverID)
	if err != nil || !created {
		return created, err
	}

	content := fmt.Sprintf("%s sent you a friend request", sender.Username)
	if err := s.notifications.Create(ctx, receiverID, models.NotifyFriendRequest, content, &senderID); err != nil {
		s.log.Error("failed to create friend request notification", "receiver", receiverID, "err", err)
	}
	return true, nil
}

// Respond accepts or declines a pending request. Only the receiver may act;
// any other action value is invalid input.
func (s *FriendService) Respond(ctx context.Context, requestID, userID uint, action string) error {
	req, err := s.friends.GetRequestByID(ctx, requestID)
	if err != nil {
		return ErrNotFound
	}
	if req.ReceiverID != userID {
		return ErrUnauthorized
	}
	if req.Status != models.StatusPending {
		return ErrNotFound
	}

	switch action {
	case "accept":
		return s.friends.AcceptRequest(ctx, req)
	case "decline":
		return s.friends.DeclineRequest(ctx, req)
	default:
		return ErrInvalidAction
	}
}

// IsFriend reports whether two users are friends.
func (s *FriendService) IsFriend(ctx context.Context, a, b uint) (bool, error) {
	return s.friends.IsFriend(ctx, a, b)
}

// RemoveFriend deletes the symmetric edge. Returns whether anything changed.
func (s *FriendService) RemoveFriend(ctx context.Context, userID, friendID uint) (bool, error) {
	return s.friends.RemoveFriend(ctx, userID, friendID)
}

// ListFriends returns the user's friends.
func (s *FriendService) ListFriends(ctx context.Context, userID uint) ([]models.User, error) {
	return s.friends.ListFriends(ctx, userID)
}

// ListRequests returns requests for the user filtered by direction and
// status.
func (s *FriendService) ListRequests(ctx context.Context, userID uint, direction string, status models.RequestStatus) ([]models.FriendRequest, error) {
	return s.friends.ListRequests(ctx, userID, direction, status)
}
