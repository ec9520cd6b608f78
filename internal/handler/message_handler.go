package handler

import (
	"net/http"
	"time"

	"friendfinder/backend/internal/models"
	"friendfinder/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// SendMessageInput defines a direct message send.
type SendMessageInput struct {
	RecipientID uint   `json:"recipient_id" binding:"required"`
	Content     string `json:"content" binding:"required,max=2000"`
	MediaURL    string `json:"media_url" binding:"omitempty,url,max=512"`
	MediaType   string `json:"media_type" binding:"omitempty,oneof=image video voice"`
}

// MessageResponse is a single direct message.
type MessageResponse struct {
	ID          uint   `json:"id"`
	SenderID    uint   `json:"sender_id"`
	RecipientID uint   `json:"recipient_id"`
	Content     string `json:"content"`
	MediaURL    string `json:"media_url,omitempty"`
	MediaType   string `json:"media_type,omitempty"`
	Read        bool   `json:"read"`
	CreatedAt   string `json:"created_at"`
}

func newMessageResponse(m *models.Message) MessageResponse {
	return MessageResponse{
		ID:          m.ID,
		SenderID:    m.SenderID,
		RecipientID: m.RecipientID,
		Content:     m.Content,
		MediaURL:    m.MediaURL,
		MediaType:   string(m.MediaType),
		Read:        m.Read,
		CreatedAt:   m.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// endregion

// MessageHandler serves the direct messaging endpoints.
type MessageHandler struct {
	messages *service.MessageService
}

// NewMessageHandler creates the handler.
func NewMessageHandler(messages *service.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// SendMessage godoc
// @Summary      Send a direct message
// @Description  Inserts the message, notifies the recipient, and pushes a new_message event to both users' rooms.
// @Tags         messages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body SendMessageInput true "Message"
// @Success      201  {object}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /messages [post]
func (h *MessageHandler) SendMessage(c *gin.Context) {
	var input SendMessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	m, err := h.messages.Send(c.Request.Context(), currentUserID(c), input.RecipientID,
		input.Content, input.MediaURL, input.MediaType)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newMessageResponse(m))
}

// GetConversation godoc
// @Summary      Get a conversation
// @Description  Marks every unread message from the counterpart as read in bulk, then returns the history oldest first.
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Counterpart User ID"
// @Success      200  {array}  MessageResponse
// @Failure      400  {object}  ErrorResponse
// @Router       /messages/{id} [get]
func (h *MessageHandler) GetConversation(c *gin.Context) {
	otherID, ok := pathID(c, "id")
	if !ok {
		return
	}

	messages, err := h.messages.Conversation(c.Request.Context(), currentUserID(c), otherID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	response := make([]MessageResponse, 0, len(messages))
	for i := range messages {
		response = append(response, newMessageResponse(&messages[i]))
	}
	c.JSON(http.StatusOK, response)
}

// GetUnreadCounts godoc
// @Summary      Get unread message counts per sender
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  repository.UnreadCount
// @Failure      401  {object}  ErrorResponse
// @Router       /messages/unread [get]
func (h *MessageHandler) GetUnreadCounts(c *gin.Context) {
	counts, err := h.messages.UnreadCounts(c.Request.Context(), currentUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}
