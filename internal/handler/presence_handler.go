package handler

import (
	"io"
	"net/http"

	"friendfinder/backend/internal/hub"
	"friendfinder/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateLocationInput carries coordinates as strings; parsing and range
// checks happen in the service.
type UpdateLocationInput struct {
	Latitude  string `json:"latitude" binding:"required"`
	Longitude string `json:"longitude" binding:"required"`
}

// PresenceHandler serves location sharing and the SSE event stream.
type PresenceHandler struct {
	locations *service.LocationService
	groups    *service.GroupService
	hub       *hub.Hub
}

// NewPresenceHandler creates the handler.
func NewPresenceHandler(locations *service.LocationService, groups *service.GroupService, h *hub.Hub) *PresenceHandler {
	return &PresenceHandler{locations: locations, groups: groups, hub: h}
}

// UpdateLocation godoc
// @Summary      Update the user's live location
// @Description  Stores the coordinates, pushes a location update to online friends and notifies friends within range.
// @Tags         location
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body UpdateLocationInput true "Coordinates"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  ErrorResponse
// @Router       /location [post]
func (h *PresenceHandler) UpdateLocation(c *gin.Context) {
	var input UpdateLocationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.locations.Update(c.Request.Context(), currentUserID(c), input.Latitude, input.Longitude); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Location updated"})
}

// GetFriendLocations godoc
// @Summary      Get friends' last known locations
// @Description  Only friends who share their location and have coordinates stored are included.
// @Tags         location
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  service.LocationPayload
// @Failure      401  {object}  ErrorResponse
// @Router       /friend-locations [get]
func (h *PresenceHandler) GetFriendLocations(c *gin.Context) {
	locations, err := h.locations.FriendLocations(c.Request.Context(), currentUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, locations)
}

// StreamEvents godoc
// @Summary      Subscribe to real-time events
// @Description  Server-sent event stream. The client receives messages, group messages, friend location updates and notifications as JSON events.
// @Tags         events
// @Produce      text/event-stream
// @Security     BearerAuth
// @Success      200  {string}  string "event stream"
// @Failure      401  {object}  ErrorResponse
// @Router       /events [get]
func (h *PresenceHandler) StreamEvents(c *gin.Context) {
	userID := currentUserID(c)

	client := hub.NewClient()
	rooms := []string{hub.UserRoom(userID)}
	if groups, err := h.groups.GroupsForUser(c.Request.Context(), userID); err == nil {
		for _, g := range groups {
			rooms = append(rooms, hub.GroupRoom(g.ID))
		}
	}
	for _, room := range rooms {
		h.hub.Subscribe(room, client)
	}
	defer func() {
		for _, room := range rooms {
			h.hub.Unsubscribe(room, client)
		}
	}()

	_ = h.locations.TouchPresence(c.Request.Context(), userID)

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")

	c.Stream(func(w io.Writer) bool {
		select {
		case message, ok := <-client.Send:
			if !ok {
				return false
			}
			c.SSEvent("message", string(message))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
