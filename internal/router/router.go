package router

import (
	"firebase.google.com/go/v4/auth"
	"github.com/buzzline/backend/internal/handlers"
	"github.com/buzzline/backend/internal/middleware"
	"github.com/buzzline/backend/internal/models"
	"github.com/buzzline/backend/internal/repositories"
	"github.com/buzzline/backend/internal/storage"
	"github.com/buzzline/backend/pkg/config"
	"github.com/buzzline/backend/pkg/logger"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Logger())
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, cfg *config.Config, pgdb *gorm.DB, mgClient *mongo.Client, firebaseAuthClient *auth.Client) error {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Block{},
		&models.Notification{},
	)
	if err != nil {
		return err
	}
	logger.Log.Info("PostgreSQL auto-migrations completed")

	blobStore, err := storage.NewLocalStorage(cfg.UploadDir)
	if err != nil {
		return err
	}

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	followRepo := repositories.NewPostgresFollowRepository(pgdb)
	blockRepo := repositories.NewPostgresBlockRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	postRepo := repositories.NewMongoPostRepository(mgClient.Database(cfg.MongoDatabase))

	// --- Unprotected routes for authentication ---
	authHandler := handlers.NewAuthHandler(userRepo, firebaseAuthClient, cfg.JWTSecret)
	authHandler.RegisterAuthRoutes(e)

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))

	userHandler := handlers.NewUserHandler(userRepo, followRepo, postRepo)
	userHandler.RegisterProfileRoutes(api)

	followHandler := handlers.NewFollowHandler(followRepo, userRepo, notificationRepo)
	followHandler.RegisterFollowRoutes(api)

	blockHandler := handlers.NewBlockHandler(blockRepo, userRepo)
	blockHandler.RegisterBlockRoutes(api)

	postHandler := handlers.NewPostHandler(postRepo, userRepo, blobStore)
	postHandler.RegisterPostRoutes(api)

	engagementHandler := handlers.NewEngagementHandler(postRepo, userRepo, notificationRepo)
	engagementHandler.RegisterEngagementRoutes(api)

	exploreHandler := handlers.NewExploreHandler(postRepo, blockRepo)
	exploreHandler.RegisterExploreRoutes(api)

	notificationHandler := handlers.NewNotificationHandler(notificationRepo, userRepo)
	notificationHandler.RegisterNotificationRoutes(api)

	logger.Log.Info("all routes configured")
	return nil
}
