package handler

import (
	"net/http"
	"time"

	"friendfinder/backend/internal/repository"

	"github.com/gin-gonic/gin"
)

// NotificationResponse is a single notification entry.
type NotificationResponse struct {
	ID        uint   `json:"id"`
	Type      string `json:"type"`
	Content   string `json:"content"`
	RelatedID *uint  `json:"related_id,omitempty"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}

// NotificationHandler serves the notification endpoints.
type NotificationHandler struct {
	notifications *repository.NotificationRepository
}

// NewNotificationHandler creates the handler.
func NewNotificationHandler(notifications *repository.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// ListNotifications godoc
// @Summary      List notifications
// @Description  Returns the latest notifications, newest first, plus the unread count.
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        limit query int false "Max results (default 50)"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  ErrorResponse
// @Router       /notifications [get]
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID := currentUserID(c)

	limit := 50
	if raw, ok := c.GetQuery("limit"); ok {
		if n, err := parsePositiveInt(raw); err == nil {
			limit = n
		}
	}

	items, err := h.notifications.List(c.Request.Context(), userID, limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	unread, err := h.notifications.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	response := make([]NotificationResponse, 0, len(items))
	for i := range items {
		n := &items[i]
		response = append(response, NotificationResponse{
			ID:        n.ID,
			Type:      string(n.Type),
			Content:   n.Content,
			RelatedID: n.RelatedID,
			Read:      n.Read,
			CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": response,
		"unread_count":  unread,
	})
}

// MarkAllNotificationsRead godoc
// @Summary      Mark all notifications as read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  ErrorResponse
// @Router       /notifications/read [post]
func (h *NotificationHandler) MarkAllNotificationsRead(c *gin.Context) {
	updated, err := h.notifications.MarkAllRead(c.Request.Context(), currentUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked_read": updated})
}

// MarkNotificationRead godoc
// @Summary      Mark one notification as read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Notification ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  ErrorResponse
// @Router       /notifications/{id}/read [post]
func (h *NotificationHandler) MarkNotificationRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.notifications.MarkRead(c.Request.Context(), id, currentUserID(c)); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked read"})
}
