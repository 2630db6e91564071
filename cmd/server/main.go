package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mindcare/therapist-api/adapters/event"
	httpAdapter "github.com/mindcare/therapist-api/adapters/http"
	"github.com/mindcare/therapist-api/adapters/media_storage"
	"github.com/mindcare/therapist-api/adapters/persistence"
	profileUC "github.com/mindcare/therapist-api/internal/application/usecase/profile"
	"github.com/mindcare/therapist-api/internal/config"
	"github.com/mindcare/therapist-api/pkg/auth"
	"github.com/mindcare/therapist-api/pkg/logger"
	"github.com/mindcare/therapist-api/pkg/tracing"
)

func main() {
	fmt.Println("Start Therapist API Server...")

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)

	if cfg.Tracing.OTLPEndpoint != "" {
		tp, err := tracing.NewTracerProvider(cfg, appLogger, "therapist-api")
		if err != nil {
			appLogger.Fatal("cannot init tracer", err)
		}
		defer tp.Shutdown(context.Background())
	}

	// Initialize dependencies
	dbPool, err := persistence.NewPostgresPool(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Postgres", err)
	}
	defer dbPool.Close()

	redisClient, err := persistence.NewRedisClient(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Redis", err)
	}
	defer redisClient.Close()

	kafkaClient, err := event.NewKafkaProducerClient(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot init Kafka", err)
	}
	defer kafkaClient.Close()

	// Repositories
	therapistRepo := persistence.NewPostgresTherapistRepo(dbPool, appLogger)
	therapistCache := persistence.NewTherapistCache(redisClient, cfg.Redis.CacheTTL, appLogger)

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
	uploader, err := media_storage.NewCloudinaryAdapter(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize uploader", err)
	}

	// Use Cases
	profileUseCase := profileUC.NewProfileUseCase(therapistRepo, therapistCache, uploader, kafkaClient, appLogger)

	// HTTP Handlers
	therapistHandler := httpAdapter.NewTherapistHandler(profileUseCase, appLogger)

	// Middleware
	authMiddleware := httpAdapter.AuthMiddleware(jwtSvc)
	errorMiddleware := httpAdapter.ErrorMiddleware(appLogger)

	// Setup Gin router
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(errorMiddleware)

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "UP"}) })

		therapists := api.Group("/therapists")
		{
			// Reads are public; the profile panel fetches without a token.
			therapists.GET("/:id", therapistHandler.GetTherapist)

			therapists.PUT("/:id", authMiddleware, therapistHandler.UpdateTherapist)
		}
	}

	appLogger.Info("Server running on port " + cfg.App.Port)
	if err := router.Run(":" + cfg.App.Port); err != nil {
		appLogger.Fatal("Cannot run server", err)
	}
}
