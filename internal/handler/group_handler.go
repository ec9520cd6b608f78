package handler

import (
	"net/http"
	"time"

	"friendfinder/backend/internal/models"
	"friendfinder/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// CreateGroupInput defines a new group chat.
type CreateGroupInput struct {
	Name      string `json:"name" binding:"required,max=120"`
	MemberIDs []uint `json:"member_ids"`
}

// GroupResponse is a group chat entry.
type GroupResponse struct {
	ID        uint                 `json:"id"`
	Name      string               `json:"name"`
	CreatorID uint                 `json:"creator_id"`
	Settings  models.GroupSettings `json:"settings"`
}

// GroupMessageInput defines a group message send.
type GroupMessageInput struct {
	Content   string `json:"content" binding:"required,max=2000"`
	MediaURL  string `json:"media_url" binding:"omitempty,url,max=512"`
	MediaType string `json:"media_type" binding:"omitempty,oneof=image video voice"`
}

// GroupMessageResponse is a single group message.
type GroupMessageResponse struct {
	ID        uint   `json:"id"`
	GroupID   uint   `json:"group_id"`
	SenderID  uint   `json:"sender_id"`
	Sender    string `json:"sender,omitempty"`
	Content   string `json:"content"`
	MediaURL  string `json:"media_url,omitempty"`
	MediaType string `json:"media_type,omitempty"`
	CreatedAt string `json:"created_at"`
}

// endregion

// GroupHandler serves the group chat endpoints.
type GroupHandler struct {
	groups *service.GroupService
}

// NewGroupHandler creates the handler.
func NewGroupHandler(groups *service.GroupService) *GroupHandler {
	return &GroupHandler{groups: groups}
}

// CreateGroup godoc
// @Summary      Create a group chat
// @Description  The creator becomes a member automatically. Unknown or duplicate member ids are dropped.
// @Tags         groups
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body CreateGroupInput true "Group Info"
// @Success      201  {object}  GroupResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /groups [post]
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	var input CreateGroupInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	g, err := h.groups.Create(c.Request.Context(), currentUserID(c), input.Name, input.MemberIDs)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, GroupResponse{
		ID:        g.ID,
		Name:      g.Name,
		CreatorID: g.CreatorID,
		Settings:  g.Settings,
	})
}

// JoinGroup godoc
// @Summary      Join a group
// @Description  Joining a group twice is a no-op.
// @Tags         groups
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Group ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  ErrorResponse
// @Router       /groups/{id}/join [post]
func (h *GroupHandler) JoinGroup(c *gin.Context) {
	groupID, ok := pathID(c, "id")
	if !ok {
		return
	}

	joined, err := h.groups.Join(c.Request.Context(), groupID, currentUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	if !joined {
		c.JSON(http.StatusOK, gin.H{"message": "Already a member"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Joined group"})
}

// ListGroups godoc
// @Summary      List the user's groups
// @Tags         groups
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  GroupResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /groups [get]
func (h *GroupHandler) ListGroups(c *gin.Context) {
	groups, err := h.groups.GroupsForUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	response := make([]GroupResponse, 0, len(groups))
	for _, g := range groups {
		response = append(response, GroupResponse{
			ID:        g.ID,
			Name:      g.Name,
			CreatorID: g.CreatorID,
			Settings:  g.Settings,
		})
	}
	c.JSON(http.StatusOK, response)
}

// SendGroupMessage godoc
// @Summary      Send a group message
// @Description  Sends from non-members are dropped without error; delivered reports whether the message went out.
// @Tags         groups
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int                true  "Group ID"
// @Param        input body  GroupMessageInput  true  "Message"
// @Success      201  {object}  GroupMessageResponse
// @Success      200  {object}  map[string]bool "{"delivered": false}"
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /groups/{id}/messages [post]
func (h *GroupHandler) SendGroupMessage(c *gin.Context) {
	groupID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var input GroupMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m, delivered, err := h.groups.SendMessage(c.Request.Context(), groupID, currentUserID(c),
		input.Content, input.MediaURL, input.MediaType)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if !delivered {
		c.JSON(http.StatusOK, gin.H{"delivered": false})
		return
	}

	c.JSON(http.StatusCreated, GroupMessageResponse{
		ID:        m.ID,
		GroupID:   m.GroupID,
		SenderID:  m.SenderID,
		Content:   m.Content,
		MediaURL:  m.MediaURL,
		MediaType: string(m.MediaType),
		CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339),
	})
}

// GetGroupMessages godoc
// @Summary      Get group history
// @Description  Only members may read a group's messages.
// @Tags         groups
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Group ID"
// @Success      200  {array}  GroupMessageResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /groups/{id}/messages [get]
func (h *GroupHandler) GetGroupMessages(c *gin.Context) {
	groupID, ok := pathID(c, "id")
	if !ok {
		return
	}

	messages, err := h.groups.Messages(c.Request.Context(), groupID, currentUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	response := make([]GroupMessageResponse, 0, len(messages))
	for i := range messages {
		m := &messages[i]
		response = append(response, GroupMessageResponse{
			ID:        m.ID,
			GroupID:   m.GroupID,
			SenderID:  m.SenderID,
			Sender:    m.Sender.Username,
			Content:   m.Content,
			MediaURL:  m.MediaURL,
			MediaType: string(m.MediaType),
			CreatedAt: m.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, response)
}
