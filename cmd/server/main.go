package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"friendfinder/backend/internal/auth"
	"friendfinder/backend/internal/cache"
	"friendfinder/backend/internal/config"
	"friendfinder/backend/internal/database"
	"friendfinder/backend/internal/handler"
	"friendfinder/backend/internal/hub"
	"friendfinder/backend/internal/logger"
	"friendfinder/backend/internal/mail"
	"friendfinder/backend/internal/repository"
	"friendfinder/backend/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
	logger.InitFromConfig(config.AppConfig)
}

// @title           FriendFinder API
// @version         1.0
// @description     This is the API for the FriendFinder service.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.AppConfig

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	redisCache := cache.NewRedisCache(cfg)
	{
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisCache.Ping(ctx); err != nil {
			logger.Warn("redis unavailable, caching disabled", "error", err)
			redisCache = nil
		}
		cancel()
	}

	eventHub := hub.NewHub()
	mailer := mail.NewFromConfig(cfg)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	friendRepo := repository.NewFriendRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	matchRepo := repository.NewMatchRepository(db)

	// Services
	resetTokens := auth.NewResetTokens(cfg.JWTSecret)
	authService := service.NewAuthService(userRepo, resetTokens, mailer, logger.L())
	userService := service.NewUserService(userRepo, logger.L())
	matchService := service.NewMatchService(userRepo, matchRepo, redisCache, logger.L())
	friendService := service.NewFriendService(friendRepo, userRepo, notificationRepo, logger.L())
	messageService := service.NewMessageService(messageRepo, userRepo, notificationRepo, eventHub, logger.L())
	groupService := service.NewGroupService(groupRepo, userRepo, notificationRepo, eventHub, logger.L())
	locationService := service.NewLocationService(userRepo, friendRepo, notificationRepo, eventHub, redisCache, logger.L())

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService, matchService)
	friendHandler := handler.NewFriendHandler(friendService)
	matchHandler := handler.NewMatchHandler(matchService)
	messageHandler := handler.NewMessageHandler(messageService)
	groupHandler := handler.NewGroupHandler(groupService)
	notificationHandler := handler.NewNotificationHandler(notificationRepo)
	presenceHandler := handler.NewPresenceHandler(locationService, groupService, eventHub)

	router := gin.Default()

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	// API v1 routes
	apiV1 := router.Group("/api/v1")
	{
		// Auth routes
		authRoutes := apiV1.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/verify-otp", authHandler.VerifyOTP)
			authRoutes.POST("/request-reset", authHandler.RequestReset)
			authRoutes.POST("/reset-password", authHandler.ResetPassword)
		}

		// User routes (protected)
		userRoutes := apiV1.Group("/users")
		userRoutes.Use(auth.AuthMiddleware())
		{
			userRoutes.GET("", userHandler.SearchUsers) // Must be before /:id
			userRoutes.GET("/me", userHandler.GetMe)
			userRoutes.PUT("/me", userHandler.UpdateMe)
			userRoutes.PUT("/me/privacy", userHandler.UpdatePrivacy)
			userRoutes.GET("/suggestions", userHandler.GetSuggestions)
			userRoutes.GET("/:id", userHandler.GetUserByID)
			userRoutes.POST("/:id/request", friendHandler.SendRequest)
		}

		// Friendship routes (protected)
		friendRoutes := apiV1.Group("/friends")
		friendRoutes.Use(auth.AuthMiddleware())
		{
			friendRoutes.GET("", friendHandler.ListFriends)
			friendRoutes.GET("/requests", friendHandler.ListRequests)
			friendRoutes.POST("/requests/:id/respond", friendHandler.RespondToRequest)
			friendRoutes.POST("/:id/remove", friendHandler.RemoveFriend)
		}

		// Match routes (protected)
		matchRoutes := apiV1.Group("/matches")
		matchRoutes.Use(auth.AuthMiddleware())
		{
			matchRoutes.GET("", matchHandler.ListMatches)
			matchRoutes.POST("/:id", matchHandler.SaveMatch)
			matchRoutes.POST("/:id/respond", matchHandler.RespondToMatch)
		}

		// Message routes (protected)
		messageRoutes := apiV1.Group("/messages")
		messageRoutes.Use(auth.AuthMiddleware())
		{
			messageRoutes.POST("", messageHandler.SendMessage)
			messageRoutes.GET("/unread", messageHandler.GetUnreadCounts) // Must be before /:id
			messageRoutes.GET("/:id", messageHandler.GetConversation)
		}

		// Group chat routes (protected)
		groupRoutes := apiV1.Group("/groups")
		groupRoutes.Use(auth.AuthMiddleware())
		{
			groupRoutes.POST("", groupHandler.CreateGroup)
			groupRoutes.GET("", groupHandler.ListGroups)
			groupRoutes.POST("/:id/join", groupHandler.JoinGroup)
			groupRoutes.GET("/:id/messages", groupHandler.GetGroupMessages)
			groupRoutes.POST("/:id/messages", groupHandler.SendGroupMessage)
		}

		// Notification routes (protected)
		notificationRoutes := apiV1.Group("/notifications")
		notificationRoutes.Use(auth.AuthMiddleware())
		{
			notificationRoutes.GET("", notificationHandler.ListNotifications)
			notificationRoutes.POST("/read", notificationHandler.MarkAllNotificationsRead)
			notificationRoutes.POST("/:id/read", notificationHandler.MarkNotificationRead)
		}

		// Location sharing and the event stream (protected)
		presenceRoutes := apiV1.Group("")
		presenceRoutes.Use(auth.AuthMiddleware())
		{
			presenceRoutes.POST("/location", presenceHandler.UpdateLocation)
			presenceRoutes.GET("/friend-locations", presenceHandler.GetFriendLocations)
			presenceRoutes.GET("/events", presenceHandler.StreamEvents)
		}
	}

	logger.Info("server starting", "addr", cfg.ServerAddr)
	log.Fatal(router.Run(cfg.ServerAddr))
}
