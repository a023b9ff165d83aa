package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/careercompass/careercompass/adapters/event"
	httpAdapter "github.com/careercompass/careercompass/adapters/http"
	"github.com/careercompass/careercompass/adapters/llm"
	"github.com/careercompass/careercompass/adapters/media_storage"
	"github.com/careercompass/careercompass/adapters/persistence"
	"github.com/careercompass/careercompass/internal/application/service"
	authUC "github.com/careercompass/careercompass/internal/application/usecase/auth"
	roadmapUC "github.com/careercompass/careercompass/internal/application/usecase/roadmap"
	storyUC "github.com/careercompass/careercompass/internal/application/usecase/story"
	userUC "github.com/careercompass/careercompass/internal/application/usecase/user"
	"github.com/careercompass/careercompass/internal/config"
	"github.com/careercompass/careercompass/internal/domain/user"
	"github.com/careercompass/careercompass/pkg/auth"
	"github.com/careercompass/careercompass/pkg/logger"
	"github.com/careercompass/careercompass/pkg/tracing"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: cannot load config: %v", err)
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	appLogger.Info("Start Career Compass API Server...")

	if cfg.Jaeger.OTLPEndpoint != "" {
		tp, err := tracing.NewTracerProvider(cfg, appLogger, "career-compass-api")
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

	cache := service.NewNoopCache()
	if cfg.Redis.Addr != "" {
		redisClient, err := persistence.NewRedisClient(cfg, appLogger)
		if err != nil {
			appLogger.Fatal("cannot connect Redis", err)
		}
		defer redisClient.Close()
		cache = persistence.NewRedisCache(redisClient)
	} else {
		appLogger.Warn("Redis not configured, roadmap cache disabled")
	}

	kafkaClient, err := event.NewKafkaProducerClient(cfg)
	if err != nil {
		appLogger.Fatal("cannot init Kafka", err)
	}
	defer kafkaClient.Close()

	// Repositories
	userRepo := persistence.NewPostgresUserRepo(dbPool)
	roadmapRepo := persistence.NewPostgresRoadmapRepo(dbPool, appLogger, cfg.App.StrictDecoding)
	progressRepo := persistence.NewPostgresProgressRepo(dbPool, appLogger, cfg.App.StrictDecoding)
	storyRepo := persistence.NewPostgresStoryRepo(dbPool)

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)
	uploader, err := media_storage.NewCloudinaryAdapter(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize uploader", err)
	}
	llmSvc, err := llm.NewOpenAILLMAdapter(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize LLM adapter", err)
	}

	// Use Cases
	loginUseCase := authUC.NewLoginUseCase(userRepo, jwtSvc, appLogger)
	userUseCase := userUC.NewUserUseCase(userRepo, appLogger)
	createRoadmapUseCase := roadmapUC.NewCreateRoadmapUseCase(roadmapRepo, kafkaClient, cache, appLogger)
	listRoadmapsUseCase := roadmapUC.NewListRoadmapsUseCase(roadmapRepo, progressRepo, cache, appLogger)
	getRoadmapUseCase := roadmapUC.NewGetRoadmapUseCase(roadmapRepo, progressRepo, cache, appLogger)
	deleteRoadmapUseCase := roadmapUC.NewDeleteRoadmapUseCase(roadmapRepo, kafkaClient, cache, appLogger)
	updateProgressUseCase := roadmapUC.NewUpdateProgressUseCase(progressRepo, kafkaClient, cache, appLogger)
	generateRoadmapUseCase := roadmapUC.NewGenerateRoadmapUseCase(llmSvc, appLogger)
	assistUseCase := roadmapUC.NewAssistUseCase(roadmapRepo, llmSvc, appLogger)
	storyUseCase := storyUC.NewStoryUseCase(storyRepo, uploader, appLogger)

	// HTTP Handlers
	authHandler := httpAdapter.NewAuthHandler(loginUseCase)
	userHandler := httpAdapter.NewUserHandler(userUseCase)
	roadmapHandler := httpAdapter.NewRoadmapHandler(
		createRoadmapUseCase,
		listRoadmapsUseCase,
		getRoadmapUseCase,
		deleteRoadmapUseCase,
		updateProgressUseCase,
		generateRoadmapUseCase,
		assistUseCase,
	)
	storyHandler := httpAdapter.NewStoryHandler(storyUseCase)

	// Middleware
	authMiddleware := httpAdapter.AuthMiddleware(jwtSvc)
	errorMiddleware := httpAdapter.ErrorMiddleware(appLogger)

	// Setup Gin router
	router := gin.Default()
	router.Use(errorMiddleware)

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "UP"}) })
		api.POST("/auth/login", authHandler.Login)

		// Success stories are publicly readable; writes need a session.
		api.GET("/success-stories", storyHandler.ListStories)

		private := api.Group("/")
		private.Use(authMiddleware)
		{
			roadmaps := private.Group("/roadmaps")
			{
				roadmaps.GET("", roadmapHandler.GetRoadmaps)
				roadmaps.POST("", httpAdapter.RequireRole(user.RoleAlumni), roadmapHandler.CreateRoadmap)
				roadmaps.PUT("/progress", httpAdapter.RequireRole(user.RoleStudent), roadmapHandler.UpdateProgress)
				roadmaps.DELETE("", roadmapHandler.DeleteRoadmap)
				roadmaps.POST("/generate", httpAdapter.RequireRole(user.RoleAlumni), roadmapHandler.GenerateRoadmap)
				roadmaps.POST("/assist", roadmapHandler.Assist)
			}

			private.POST("/success-stories", storyHandler.CreateStory)
			private.DELETE("/success-stories", storyHandler.DeleteStory)

			admin := private.Group("/admin")
			admin.Use(httpAdapter.RequireRole(user.RoleAdmin))
			{
				admin.GET("/users", userHandler.ListUsers)
				admin.POST("/users", userHandler.CreateUser)
			}
		}
	}

	appLogger.Info("Server running on port " + cfg.App.Port)
	if err := router.Run(":" + cfg.App.Port); err != nil {
		appLogger.Fatal("Cannot run server", err)
	}
}
