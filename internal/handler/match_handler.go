package handler

import (
	"net/http"

	"friendfinder/backend/internal/models"
	"friendfinder/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// StoredMatchResponse is a persisted match edge.
type StoredMatchResponse struct {
	ID            uint               `json:"id"`
	MatchedUserID uint               `json:"matched_user_id"`
	Username      string             `json:"username,omitempty"`
	Score         float64            `json:"score"`
	Status        models.MatchStatus `json:"status"`
}

// MatchHandler serves the stored-match endpoints. Live suggestions live on
// the user handler; these persist explicit edges.
type MatchHandler struct {
	matches *service.MatchService
}

// NewMatchHandler creates the handler.
func NewMatchHandler(matches *service.MatchService) *MatchHandler {
	return &MatchHandler{matches: matches}
}

// SaveMatch godoc
// @Summary      Persist a match edge
// @Description  Stores a directed match toward the target, scored against current profiles.
// @Tags         matches
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Target User ID"
// @Success      201  {object}  StoredMatchResponse
// @Success      200  {object}  map[string]string "Match already stored"
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /matches/{id} [post]
func (h *MatchHandler) SaveMatch(c *gin.Context) {
	targetID, ok := pathID(c, "id")
	if !ok {
		return
	}

	m, created, err := h.matches.SaveMatch(c.Request.Context(), currentUserID(c), targetID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if !created {
		c.JSON(http.StatusOK, gin.H{"message": "Match already stored"})
		return
	}

	c.JSON(http.StatusCreated, StoredMatchResponse{
		ID:            m.ID,
		MatchedUserID: m.MatchedUserID,
		Score:         m.Score,
		Status:        m.Status,
	})
}

// ListMatches godoc
// @Summary      List stored matches
// @Tags         matches
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  StoredMatchResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /matches [get]
func (h *MatchHandler) ListMatches(c *gin.Context) {
	matches, err := h.matches.ListMatches(c.Request.Context(), currentUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}

	response := make([]StoredMatchResponse, 0, len(matches))
	for _, m := range matches {
		response = append(response, StoredMatchResponse{
			ID:            m.ID,
			MatchedUserID: m.MatchedUserID,
			Username:      m.MatchedUser.Username,
			Score:         m.Score,
			Status:        m.Status,
		})
	}
	c.JSON(http.StatusOK, response)
}

// RespondToMatch godoc
// @Summary      Accept or reject a stored match
// @Description  Only the owner of the match edge may respond.
// @Tags         matches
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  int           true  "Match ID"
// @Param        input body  RespondInput  true  "accept or reject"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /matches/{id}/respond [post]
func (h *MatchHandler) RespondToMatch(c *gin.Context) {
	matchID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var input RespondInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.matches.RespondToMatch(c.Request.Context(), matchID, currentUserID(c), input.Action); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Match updated"})
}
