package router

import (
	"github.com/anonto42/nano-social/backend/internal/handlers"
	"github.com/anonto42/nano-social/backend/internal/metrics"
	"github.com/anonto42/nano-social/backend/internal/middleware"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/internal/services"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Dependencies are the process-wide resources the routes are built from
type Dependencies struct {
	Postgres  *gorm.DB
	Mongo     *mongo.Database
	Pinger    handlers.Pinger
	Identity  services.IdentityVerifier
	Tokens    *services.TokenManager
	Metrics   *metrics.Collector
	RateLimit middleware.RateLimitConfig
	Log       zerolog.Logger

	// Messages overrides the Mongo-backed message store when set
	Messages repositories.MessageRepository
	// Dispatch enables asynchronous notification delivery. When nil,
	// notifications are written inline with the action that caused them.
	Dispatch *services.DispatcherConfig
}

// SetupRoutes builds repositories and services and registers every route.
// The returned Dispatcher is nil unless deps.Dispatch is set; the caller
// must Close it on shutdown.
func SetupRoutes(e *echo.Echo, deps Dependencies) *services.Dispatcher {
	// Health check - always accessible
	e.GET("/health", handlers.NewHealthHandler(deps.Pinger).HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(deps.Postgres)
	followRepo := repositories.NewPostgresFollowRepository(deps.Postgres)
	postRepo := repositories.NewPostgresPostRepository(deps.Postgres)
	likeRepo := repositories.NewPostgresLikeRepository(deps.Postgres)
	savedPostRepo := repositories.NewPostgresSavedPostRepository(deps.Postgres)
	commentRepo := repositories.NewPostgresCommentRepository(deps.Postgres)
	commentLikeRepo := repositories.NewPostgresCommentLikeRepository(deps.Postgres)
	hashtagRepo := repositories.NewPostgresHashtagRepository(deps.Postgres)
	storyRepo := repositories.NewPostgresStoryRepository(deps.Postgres)
	notificationRepo := repositories.NewPostgresNotificationRepository(deps.Postgres)
	messageRepo := deps.Messages
	if messageRepo == nil {
		messageRepo = repositories.NewMongoMessageRepository(deps.Mongo)
	}

	// --- Initialize Services ---
	notificationService := services.NewNotificationService(notificationRepo, userRepo)
	var (
		notifier   services.Notifier
		dispatcher *services.Dispatcher
	)
	if deps.Dispatch != nil {
		var dm services.DispatchMetrics
		if deps.Metrics != nil {
			dm = deps.Metrics
		}
		dispatcher = services.NewDispatcher(notificationService, *deps.Dispatch, deps.Log, dm)
		notifier = dispatcher
	} else {
		notifier = services.NewInlineNotifier(notificationService, deps.Log)
	}
	userService := services.NewUserService(userRepo, followRepo, notifier)
	feedService := services.NewFeedService(postRepo, likeRepo, savedPostRepo, userRepo)
	postService := services.NewPostService(postRepo, likeRepo, savedPostRepo, userRepo, feedService, notifier)
	commentService := services.NewCommentService(commentRepo, commentLikeRepo, postRepo, userRepo, notifier)
	messageService := services.NewMessageService(messageRepo, userRepo, notifier)
	storyService := services.NewStoryService(storyRepo, userRepo, followRepo, messageService)
	searchService := services.NewSearchService(userRepo, postRepo, hashtagRepo, feedService)
	authService := services.NewAuthService(userRepo, deps.Tokens, deps.Identity)

	// --- Unprotected routes for authentication ---
	authHandler := handlers.NewAuthHandler(authService, userService)
	authHandler.RegisterAuthRoutes(e.Group("/api/v1/auth"))
	deps.Log.Debug().Msg("auth routes configured")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(deps.Tokens))
	if deps.RateLimit.RequestsPerSecond > 0 {
		rl := deps.RateLimit
		if rl.OnLimited == nil && deps.Metrics != nil {
			rl.OnLimited = deps.Metrics.RecordRateLimited
		}
		api.Use(middleware.RateLimit(rl))
	}

	authHandler.RegisterSessionRoutes(api)
	handlers.NewUserHandler(userService).RegisterProfileRoutes(api)
	handlers.NewFollowHandler(userService).RegisterFollowRoutes(api)
	handlers.NewFeedHandler(feedService).RegisterFeedRoutes(api)
	handlers.NewPostHandler(postService, feedService, userService).RegisterPostRoutes(api)
	handlers.NewLikeHandler(postService, userService).RegisterLikeRoutes(api)
	handlers.NewSavedPostHandler(postService, feedService).RegisterSavedPostRoutes(api)
	handlers.NewCommentHandler(commentService, userService).RegisterCommentRoutes(api)
	handlers.NewStoryHandler(storyService, userService).RegisterStoryRoutes(api)
	handlers.NewMessageHandler(messageService, userService).RegisterMessageRoutes(api)
	handlers.NewNotificationHandler(notificationService).RegisterNotificationRoutes(api)
	handlers.NewSearchHandler(searchService).RegisterSearchRoutes(api)

	deps.Log.Info().Int("routes", len(e.Routes())).Msg("routes configured")

	return dispatcher
}
