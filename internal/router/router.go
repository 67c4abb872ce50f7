package router

import (
	"github.com/anonto42/nano-social/backend/internal/auth"
	"github.com/anonto42/nano-social/backend/internal/handlers"
	"github.com/anonto42/nano-social/backend/internal/jsonx"
	"github.com/anonto42/nano-social/backend/internal/logging"
	"github.com/anonto42/nano-social/backend/internal/middleware"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/internal/services"
	"github.com/anonto42/nano-social/backend/internal/validators"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// Dependencies are the stores and clients the routes are built on.
type Dependencies struct {
	DB *gorm.DB
	// Notifications overrides the relational notification store, e.g. with
	// the MongoDB one.
	Notifications repositories.NotificationRepository
	Tokens        *auth.TokenManager
	// Firebase is nil when Firebase login is not configured.
	Firebase handlers.IDTokenVerifier
	Clock    services.Clock
}

// SetupEcho configures the validator, JSON serializer and error handler.
func SetupEcho(e *echo.Echo) {
	e.HideBanner = true
	e.Validator = validators.NewValidator()
	e.JSONSerializer = jsonx.Serializer{}
	e.HTTPErrorHandler = handlers.ErrorHandler
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Dependencies) {
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(deps.DB)
	followRepo := repositories.NewPostgresFollowRepository(deps.DB)
	postRepo := repositories.NewPostgresPostRepository(deps.DB)
	commentRepo := repositories.NewPostgresCommentRepository(deps.DB)
	likeRepo := repositories.NewPostgresLikeRepository(deps.DB)
	notificationRepo := deps.Notifications
	if notificationRepo == nil {
		notificationRepo = repositories.NewPostgresNotificationRepository(deps.DB)
	}

	// --- Initialize Services ---
	directory := services.NewDirectoryService(userRepo, followRepo, notificationRepo, deps.Clock)
	content := services.NewContentService(postRepo, commentRepo, likeRepo, deps.Clock)
	notifications := services.NewNotificationService(notificationRepo, userRepo, postRepo, commentRepo, deps.Clock)
	feed := services.NewFeedService(postRepo)
	actions := services.NewActions(directory, content, notifications)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	handlers.NewAuthHandler(directory, deps.Tokens, deps.Firebase).RegisterAuthRoutes(authGroup)

	// Identity is optional on the API group; mutations add requireUser.
	api := e.Group("/api/v1", middleware.JWTAuth(deps.Tokens, userRepo))
	requireUser := middleware.RequireUser()

	handlers.NewUserHandler(directory).RegisterUserRoutes(api, requireUser)
	handlers.NewFollowHandler(actions).RegisterFollowRoutes(api, requireUser)
	handlers.NewPostHandler(content).RegisterPostRoutes(api, requireUser)
	handlers.NewCommentHandler(content, actions).RegisterCommentRoutes(api, requireUser)
	handlers.NewLikeHandler(content, actions).RegisterLikeRoutes(api, requireUser)
	handlers.NewFeedHandler(feed, content).RegisterFeedRoutes(api, requireUser)
	handlers.NewNotificationHandler(notifications).RegisterNotificationRoutes(api, requireUser)

	logging.Info().Int("routes", len(e.Routes())).Msg("routes configured")
}
