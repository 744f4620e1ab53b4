package router

import (
	"github.com/anonto42/connectin/backend/internal/handlers"
	"github.com/anonto42/connectin/backend/internal/middleware"
	"github.com/anonto42/connectin/backend/internal/repositories"
	"github.com/anonto42/connectin/backend/internal/services"
	"github.com/anonto42/connectin/backend/pkg/logger"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Deps are the external collaborators the routes are built from.
// Identities and ImageStore are optional.
type Deps struct {
	Postgres     *gorm.DB
	Mongo        *mongo.Client
	Posts        repositories.PostRepository
	Identities   handlers.IdentityVerifier
	Email        services.EmailNotifier
	ImageStore   services.ImageStore
	JWTSecret    string
	ClientURL    string
	SecureCookie bool
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Deps) {
	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(deps.Postgres)
	connectionRepo := repositories.NewPostgresConnectionRepository(deps.Postgres)
	notificationRepo := repositories.NewPostgresNotificationRepository(deps.Postgres)

	// --- Initialize Services ---
	images := services.NewImages(deps.ImageStore)
	notificationService := services.NewNotificationService(notificationRepo, userRepo, deps.Posts, deps.Email, deps.ClientURL)
	connectionService := services.NewConnectionService(connectionRepo, userRepo, notificationService)
	postService := services.NewPostService(deps.Posts, userRepo, connectionRepo, notificationService, images)

	// Health check - always accessible
	e.GET("/health", handlers.NewHealthHandler(deps.Postgres, deps.Mongo).HealthCheck)

	requireAuth := middleware.JWTAuthMiddleware(deps.JWTSecret)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, connectionRepo, deps.Identities, deps.Email, handlers.AuthConfig{
		JWTSecret:    deps.JWTSecret,
		ClientURL:    deps.ClientURL,
		SecureCookie: deps.SecureCookie,
	})
	authHandler.RegisterAuthRoutes(authGroup, requireAuth)
	logger.Debug("Auth routes configured", "firebase_login", deps.Identities != nil)

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(requireAuth)

	handlers.NewUserHandler(userRepo, connectionRepo, images).RegisterUserRoutes(api)
	handlers.NewPostHandler(postService).RegisterPostRoutes(api)
	handlers.NewConnectionHandler(connectionService).RegisterConnectionRoutes(api)
	handlers.NewNotificationHandler(notificationService).RegisterNotificationRoutes(api)

	logger.Info("All routes configured", "routes", len(e.Routes()))
}
