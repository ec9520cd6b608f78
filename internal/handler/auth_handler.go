package handler

import (
	"net/http"

	"friendfinder/backend/internal/service"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// RegisterInput defines the structure for user registration.
type RegisterInput struct {
	Username string `json:"username" binding:"required,min=3,max=64" example:"alice"`
	Email    string `json:"email" binding:"required,email,max=120" example:"alice@example.com"`
	Password string `json:"password" binding:"required,min=8" example:"password123"`
}

// LoginInput defines the structure for user login.
type LoginInput struct {
	Login    string `json:"login" binding:"required" example:"alice"`
	Password string `json:"password" binding:"required" example:"password123"`
}

// VerifyOTPInput defines the structure for OTP verification.
type VerifyOTPInput struct {
	Login string `json:"login" binding:"required" example:"alice"`
	Code  string `json:"code" binding:"required,len=6" example:"042137"`
}

// RequestResetInput defines the structure for requesting a password reset.
type RequestResetInput struct {
	Email string `json:"email" binding:"required,email" example:"alice@example.com"`
}

// ResetPasswordInput defines the structure for completing a password reset.
type ResetPasswordInput struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// endregion

// AuthHandler serves the authentication endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates the handler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Register godoc
// @Summary      Register a new user
// @Description  Creates a new account. Log in afterwards to receive a verification code.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body RegisterInput true "Registration Info"
// @Success      201  {object}  map[string]interface{} "{"id": 1, "username": "alice"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.auth.Register(c.Request.Context(), input.Username, input.Email, input.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "username": user.Username})
}

// Login godoc
// @Summary      Log in, step one
// @Description  Verifies the password and emails a one-time code. No session is established until the code is verified.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body LoginInput true "Login Info"
// @Success      200  {object}  map[string]string "{"message": "Verification code sent"}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.auth.Login(c.Request.Context(), input.Login, input.Password); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Verification code sent"})
}

// VerifyOTP godoc
// @Summary      Log in, step two
// @Description  Verifies the emailed one-time code and returns a session token. The code is single-use.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body VerifyOTPInput true "Verification Info"
// @Success      200  {object}  map[string]string "{"token": "..."}"
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /auth/verify-otp [post]
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var input VerifyOTPInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.auth.VerifyOTP(c.Request.Context(), input.Login, input.Code)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// RequestReset godoc
// @Summary      Request a password reset
// @Description  Emails a time-limited reset token. The response is identical whether or not the email is registered.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body RequestResetInput true "Reset Request"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  ErrorResponse
// @Router       /auth/request-reset [post]
func (h *AuthHandler) RequestReset(c *gin.Context) {
	var input RequestResetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.auth.RequestReset(c.Request.Context(), input.Email); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "If that email is registered, a reset token has been sent"})
}

// ResetPassword godoc
// @Summary      Complete a password reset
// @Description  Resolves the signed token and replaces the password. Expired or tampered tokens fail as not found.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        input body ResetPasswordInput true "Reset Info"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var input ResetPasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.auth.ResetPassword(c.Request.Context(), input.Token, input.Password); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}
