package handler

import (
	"net/http"
	"strconv"

	"friendfinder/backend/internal/models"
	"friendfinder/backend/internal/repository"
	"friendfinder/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// ProfileInput defines the updatable profile fields. Omitted fields are left
// untouched.
type ProfileInput struct {
	ProfilePicture *string  `json:"profile_picture" binding:"omitempty,url,max=200"`
	Bio            *string  `json:"bio" binding:"omitempty,max=500"`
	Interests      *string  `json:"interests" binding:"omitempty,max=200"`
	Location       *string  `json:"location" binding:"omitempty,max=120"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	Age            *int     `json:"age" binding:"omitempty,min=13,max=120"`
	LookingFor     *string  `json:"looking_for" binding:"omitempty,max=50"`
	Activities     *string  `json:"activities" binding:"omitempty,max=200"`
	Availability   *string  `json:"availability" binding:"omitempty,max=50"`
}

// PrivacyInput defines the privacy settings payload.
type PrivacyInput struct {
	LocationVisible     bool `json:"location_visible"`
	InterestsVisible    bool `json:"interests_visible"`
	BioVisible          bool `json:"bio_visible"`
	AgeVisible          bool `json:"age_visible"`
	ActivitiesVisible   bool `json:"activities_visible"`
	AvailabilityVisible bool `json:"availability_visible"`
}

// PrivateUserResponse is the authenticated user's own profile.
type PrivateUserResponse struct {
	ID              uint                   `json:"id"`
	Username        string                 `json:"username"`
	Email           string                 `json:"email"`
	ProfilePicture  string                 `json:"profile_picture,omitempty"`
	Bio             string                 `json:"bio,omitempty"`
	Interests       string                 `json:"interests,omitempty"`
	Location        string                 `json:"location,omitempty"`
	Latitude        *float64               `json:"latitude,omitempty"`
	Longitude       *float64               `json:"longitude,omitempty"`
	Age             *int                   `json:"age,omitempty"`
	LookingFor      string                 `json:"looking_for,omitempty"`
	Activities      string                 `json:"activities,omitempty"`
	Availability    string                 `json:"availability,omitempty"`
	PrivacySettings models.PrivacySettings `json:"privacy_settings"`
}

func newPrivateUserResponse(u *models.User) PrivateUserResponse {
	return PrivateUserResponse{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		ProfilePicture:  u.ProfilePicture,
		Bio:             u.Bio,
		Interests:       u.Interests,
		Location:        u.Location,
		Latitude:        u.Latitude,
		Longitude:       u.Longitude,
		Age:             u.Age,
		LookingFor:      u.LookingFor,
		Activities:      u.Activities,
		Availability:    u.Availability,
		PrivacySettings: u.PrivacySettings,
	}
}

// endregion

// UserHandler serves profile and suggestion endpoints.
type UserHandler struct {
	users   *service.UserService
	matches *service.MatchService
}

// NewUserHandler creates the handler.
func NewUserHandler(users *service.UserService, matches *service.MatchService) *UserHandler {
	return &UserHandler{users: users, matches: matches}
}

// GetMe godoc
// @Summary      Get current user's profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  PrivateUserResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), currentUserID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPrivateUserResponse(user))
}

// UpdateMe godoc
// @Summary      Update current user's profile
// @Description  Applies partial profile changes. Only the owner may mutate profile fields.
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body ProfileInput true "Profile changes"
// @Success      200  {object}  PrivateUserResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /users/me [put]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var input ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := currentUserID(c)
	user, err := h.users.UpdateProfile(c.Request.Context(), userID, service.ProfileUpdate{
		ProfilePicture: input.ProfilePicture,
		Bio:            input.Bio,
		Interests:      input.Interests,
		Location:       input.Location,
		Latitude:       input.Latitude,
		Longitude:      input.Longitude,
		Age:            input.Age,
		LookingFor:     input.LookingFor,
		Activities:     input.Activities,
		Availability:   input.Availability,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	// a changed profile invalidates its owner's cached suggestions
	h.matches.InvalidateSuggestions(c.Request.Context(), userID)

	c.JSON(http.StatusOK, newPrivateUserResponse(user))
}

// UpdatePrivacy godoc
// @Summary      Update privacy settings
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body PrivacyInput true "Privacy settings"
// @Success      200  {object}  PrivateUserResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /users/me/privacy [put]
func (h *UserHandler) UpdatePrivacy(c *gin.Context) {
	var input PrivacyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.UpdatePrivacy(c.Request.Context(), currentUserID(c), models.PrivacySettings{
		LocationVisible:     input.LocationVisible,
		InterestsVisible:    input.InterestsVisible,
		BioVisible:          input.BioVisible,
		AgeVisible:          input.AgeVisible,
		ActivitiesVisible:   input.ActivitiesVisible,
		AvailabilityVisible: input.AvailabilityVisible,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPrivateUserResponse(user))
}

// GetUserByID godoc
// @Summary      Get a user's public profile
// @Description  Fields hidden by the target's privacy settings are omitted for anyone but the owner.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "User ID"
// @Success      200  {object}  service.PublicProfile
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [get]
func (h *UserHandler) GetUserByID(c *gin.Context) {
	targetID, ok := pathID(c, "id")
	if !ok {
		return
	}

	profile, err := h.users.ViewProfile(c.Request.Context(), currentUserID(c), targetID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// SearchUsers godoc
// @Summary      Search for users
// @Description  Filters by username/location/interests/activities substring, age range, looking-for category, and max distance.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        username    query  string  false  "Username substring"
// @Param        location    query  string  false  "Location substring"
// @Param        interests   query  string  false  "Interests substring"
// @Param        activities  query  string  false  "Activities substring"
// @Param        looking_for query  string  false  "Looking-for category"
// @Param        min_age     query  int     false  "Minimum age"
// @Param        max_age     query  int     false  "Maximum age"
// @Success      200  {array}  service.PublicProfile
// @Failure      401  {object}  ErrorResponse
// @Router       /users [get]
func (h *UserHandler) SearchUsers(c *gin.Context) {
	profiles, err := h.users.Search(c.Request.Context(), currentUserID(c), filterFromQuery(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, profiles)
}

// GetSuggestions godoc
// @Summary      Get friend suggestions
// @Description  Scores candidates against the requesting user's profile and returns the best matches first.
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        limit         query  int     false  "Max results" default(10)
// @Param        max_distance  query  number  false  "Max distance in km"
// @Param        username      query  string  false  "Username substring"
// @Param        location      query  string  false  "Location substring"
// @Param        interests     query  string  false  "Interests substring"
// @Param        activities    query  string  false  "Activities substring"
// @Param        looking_for   query  string  false  "Looking-for category"
// @Param        min_age       query  int     false  "Minimum age"
// @Param        max_age       query  int     false  "Maximum age"
// @Success      200  {array}  service.Suggestion
// @Failure      401  {object}  ErrorResponse
// @Router       /users/suggestions [get]
func (h *UserHandler) GetSuggestions(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	suggestions, err := h.matches.Suggestions(c.Request.Context(), currentUserID(c), filterFromQuery(c), limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, suggestions)
}

func filterFromQuery(c *gin.Context) repository.UserFilter {
	f := repository.UserFilter{
		Username:   c.Query("username"),
		Location:   c.Query("location"),
		Interests:  c.Query("interests"),
		Activities: c.Query("activities"),
		LookingFor: c.Query("looking_for"),
	}
	if v, err := strconv.Atoi(c.Query("min_age")); err == nil {
		f.MinAge = &v
	}
	if v, err := strconv.Atoi(c.Query("max_age")); err == nil {
		f.MaxAge = &v
	}
	if v, err := strconv.ParseFloat(c.Query("max_distance"), 64); err == nil && v > 0 {
		f.MaxDistanceKM = &v
	}
	return f
}
