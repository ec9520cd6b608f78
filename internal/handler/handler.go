package handler

import (
	"errors"
	"net/http"
	"strconv"

	"friendfinder/backend/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// currentUserID returns the authenticated user id set by the auth
// middleware.
func currentUserID(c *gin.Context) uint {
	userID, _ := c.Get("userID")
	return userID.(uint)
}

// pathID parses a :id-style path parameter.
func pathID(c *gin.Context, name string) (uint, bool) {
	raw, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(raw), true
}

// abortWithError maps service errors onto HTTP responses. Anything
// unrecognized is an internal failure with a generic message.
func abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized"})
	case errors.Is(err, service.ErrUsernameTaken),
		errors.Is(err, service.ErrEmailRegistered):
		c.JSON(http.StatusConflict, gin.H{"error": capitalize(err.Error())})
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidOTP):
		c.JSON(http.StatusUnauthorized, gin.H{"error": capitalize(err.Error())})
	case errors.Is(err, service.ErrInvalidAction),
		errors.Is(err, service.ErrSelfRequest),
		errors.Is(err, service.ErrInvalidCoordinates),
		errors.Is(err, service.ErrInvalidMedia),
		errors.Is(err, service.ErrMediaNotAllowed):
		c.JSON(http.StatusBadRequest, gin.H{"error": capitalize(err.Error())})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
	}
}

// parsePositiveInt parses a query value that must be a positive integer.
func parsePositiveInt(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, strconv.ErrRange
	}
	return n, nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
