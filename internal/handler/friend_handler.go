package handler

import (
	"net/http"

	"friendfinder/backend/internal/models"
	"friendfinder/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// RespondInput defines the action taken on a pending request.
type RespondInput struct {
	Action string `json:"action" binding:"required" example:"accept"`
}

// FriendResponse is a compact friend entry.
type FriendResponse struct {
	ID             uint   `json:"id"`
	Username       string `json:"username"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}

// RequestResponse is a friend request entry.
type RequestResponse struct {
	ID         uint                 `json:"id"`
	SenderID   uint                 `json:"sender_id"`
	ReceiverID uint                 `json:"receiver_id"`
	Status     models.RequestStatus `json:"status"`
	Username   string               `json:"username,omitempty"`
}

// FriendHandler serves the friend graph endpoints.
type FriendHandler struct {
	friends *service.FriendService
}

// NewFriendHandler creates the handler.
func NewFriendHandler(friends *service.FriendService) *FriendHandler {
	return &FriendHandler{friends: friends}
}

// SendRequest godoc
// @Summary      Send a friend request
// @Description  Repeating a request for the same pair is a no-op, reported in the response message.
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Target User ID"
// @Success      201  {object}  map[string]string
// @Success      200  {object}  map[string]string "Request already exists"
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id}/request [post]
func (h *FriendHandler) SendRequest(c *gin.Context) {
	targetID, ok := pathID(c, "id")
	if !ok {
		return
	}

	created, err := h.friends.SendRequest(c.Request.Context(), currentUserID(c), targetID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if !created {
		c.JSON(http.StatusOK, gin.H{"message": "Request already sent"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Request sent successfully"})
}

// RespondToRequest godoc
// @Summary      Accept or decline a friend request
// @Description  Only the receiver may respond. Accepting creates the friendship both ways.
// @Tags         friends
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int           true  "Request ID"
// @Param        input body  RespondInput  true  "accept or decline"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /friends/requests/{id}/respond [post]
func (h *FriendHandler) RespondToRequest(c *gin.Context) {
	requestID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var input RespondInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.friends.Respond(c.Request.Context(), requestID, currentUserID(c), input.Action); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Request " + input.Action + "ed"})
}

// ListFriends godoc
// @Summary      List friends
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  FriendResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /friends [get]
func (h *FriendHandler) ListFriends(c *gin.Context) {
	friends, err := h.friends.ListFriends(c.Request.Context(), currentUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	response := make([]FriendResponse, 0, len(friends))
	for _, f := range friends {
		response = append(response, FriendResponse{
			ID:             f.ID,
			Username:       f.Username,
			ProfilePicture: f.ProfilePicture,
		})
	}
	c.JSON(http.StatusOK, response)
}

// ListRequests godoc
// @Summary      List friend requests
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        direction query  string  false  "incoming or outgoing"
// @Param        status    query  string  false  "pending, accepted, or declined"
// @Success      200  {array}  RequestResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /friends/requests [get]
func (h *FriendHandler) ListRequests(c *gin.Context) {
	direction := c.Query("direction")
	status := models.RequestStatus(c.Query("status"))

	requests, err := h.friends.ListRequests(c.Request.Context(), currentUserID(c), direction, status)
	if err != nil {
		abortWithError(c, err)
		return
	}

	response := make([]RequestResponse, 0, len(requests))
	for _, r := range requests {
		entry := RequestResponse{
			ID:         r.ID,
			SenderID:   r.SenderID,
			ReceiverID: r.ReceiverID,
			Status:     r.Status,
		}
		if direction == "incoming" {
			entry.Username = r.Sender.Username
		} else if direction == "outgoing" {
			entry.Username = r.Receiver.Username
		}
		response = append(response, entry)
	}
	c.JSON(http.StatusOK, response)
}

// RemoveFriend godoc
// @Summary      Remove a friend
// @Description  Deletes the friendship in both directions.
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Friend User ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  ErrorResponse
// @Router       /friends/{id}/remove [post]
func (h *FriendHandler) RemoveFriend(c *gin.Context) {
	friendID, ok := pathID(c, "id")
	if !ok {
		return
	}

	removed, err := h.friends.RemoveFriend(c.Request.Context(), currentUserID(c), friendID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Friend removed"})
}
