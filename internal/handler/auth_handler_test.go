package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"friendfinder/backend/internal/auth"
	"friendfinder/backend/internal/config"
	"friendfinder/backend/internal/database"
	"friendfinder/backend/internal/handler"
	"friendfinder/backend/internal/models"
	"friendfinder/backend/internal/repository"
	"friendfinder/backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// captureMailer records sent mail so tests can read the OTP code out of it.
type captureMailer struct {
	Body []string
}

func (m *captureMailer) Send(to, subject, body string) error {
	m.Body = append(m.Body, body)
	return nil
}

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	mailer *captureMailer
}

// setupRouter wires a full API surface against an in-memory database.
func setupRouter(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	config.AppConfig = &config.Config{JWTSecret: "test-secret"}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	mailer := &captureMailer{}

	userRepo := repository.NewUserRepository(db)
	friendRepo := repository.NewFriendRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	matchRepo := repository.NewMatchRepository(db)

	resetTokens := auth.NewResetTokens(config.AppConfig.JWTSecret)
	authService := service.NewAuthService(userRepo, resetTokens, mailer, log)
	userService := service.NewUserService(userRepo, log)
	matchService := service.NewMatchService(userRepo, matchRepo, nil, log)
	friendService := service.NewFriendService(friendRepo, userRepo, notificationRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService, matchService)
	friendHandler := handler.NewFriendHandler(friendService)

	router := gin.New()
	apiV1 := router.Group("/api/v1")

	authRoutes := apiV1.Group("/auth")
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/verify-otp", authHandler.VerifyOTP)
	authRoutes.POST("/request-reset", authHandler.RequestReset)
	authRoutes.POST("/reset-password", authHandler.ResetPassword)

	userRoutes := apiV1.Group("/users")
	userRoutes.Use(auth.AuthMiddleware())
	userRoutes.GET("/me", userHandler.GetMe)
	userRoutes.POST("/:id/request", friendHandler.SendRequest)

	friendRoutes := apiV1.Group("/friends")
	friendRoutes.Use(auth.AuthMiddleware())
	friendRoutes.GET("/requests", friendHandler.ListRequests)
	friendRoutes.POST("/requests/:id/respond", friendHandler.RespondToRequest)
	friendRoutes.GET("", friendHandler.ListFriends)

	return &testEnv{router: router, db: db, mailer: mailer}
}

func (e *testEnv) doJSON(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// registerAndLogin drives the full two-step login and returns a session token.
func (e *testEnv) registerAndLogin(t *testing.T, username string) string {
	t.Helper()
	w := e.doJSON(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": username,
		"email":    username + "@test.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = e.doJSON(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"login":    username,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var stored models.User
	require.NoError(t, e.db.Where("username = ?", username).First(&stored).Error)
	require.Len(t, stored.OTPCode, 6)

	w = e.doJSON(t, http.MethodPost, "/api/v1/auth/verify-otp", "", gin.H{
		"login": username,
		"code":  stored.OTPCode,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response["token"])
	return response["token"]
}

func TestTwoStepLoginFlow(t *testing.T) {
	env := setupRouter(t)

	token := env.registerAndLogin(t, "alice")

	// the token works against a protected route
	w := env.doJSON(t, http.MethodGet, "/api/v1/users/me", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var me map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, "alice", me["username"])

	// no token, no access
	w = env.doJSON(t, http.MethodGet, "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.doJSON(t, http.MethodGet, "/api/v1/users/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	env := setupRouter(t)

	w := env.doJSON(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": "bob", "email": "bob@test.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.doJSON(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"login": "bob", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// a wrong code never yields a session
	w = env.doJSON(t, http.MethodPost, "/api/v1/auth/verify-otp", "", gin.H{
		"login": "bob", "code": "000000",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	env := setupRouter(t)

	// too-short username and password are rejected at the binding layer
	w := env.doJSON(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": "ab", "email": "ab@test.com", "password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.doJSON(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": "abc", "email": "abc@test.com", "password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.doJSON(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": "abc", "email": "not-an-email", "password": "password123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// duplicates conflict
	w = env.doJSON(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": "carol", "email": "carol@test.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	w = env.doJSON(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"username": "carol", "email": "other@test.com", "password": "password123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestFriendRequestRoundTrip(t *testing.T) {
	env := setupRouter(t)

	aliceToken := env.registerAndLogin(t, "alice")
	bobToken := env.registerAndLogin(t, "bob")

	var bob models.User
	require.NoError(t, env.db.Where("username = ?", "bob").First(&bob).Error)

	w := env.doJSON(t, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/request", bob.ID), aliceToken, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// repeat send reports the existing request instead of failing
	w = env.doJSON(t, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/request", bob.ID), aliceToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.doJSON(t, http.MethodGet, "/api/v1/friends/requests?direction=incoming", bobToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var requests []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &requests))
	require.Len(t, requests, 1)
	requestID := uint(requests[0]["id"].(float64))

	w = env.doJSON(t, http.MethodPost, fmt.Sprintf("/api/v1/friends/requests/%d/respond", requestID), bobToken, gin.H{"action": "accept"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// both now list each other
	for _, token := range []string{aliceToken, bobToken} {
		w = env.doJSON(t, http.MethodGet, "/api/v1/friends", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		var friends []map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &friends))
		assert.Len(t, friends, 1)
	}
}
