package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yungbote/herbolario-backend/internal/db"
	"github.com/yungbote/herbolario-backend/internal/handlers"
	"github.com/yungbote/herbolario-backend/internal/logger"
	"github.com/yungbote/herbolario-backend/internal/middleware"
	"github.com/yungbote/herbolario-backend/internal/repos"
	"github.com/yungbote/herbolario-backend/internal/server"
	"github.com/yungbote/herbolario-backend/internal/services"
	"github.com/yungbote/herbolario-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	utils.LoadDotEnv("", log)
	adminPassword := utils.GetEnv("ADMIN_PASSWORD", "", nil)
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)

	// Database
	databaseService, err := db.NewDatabaseService(log)
	if err != nil {
		log.Error("Database init failed", "error", err)
		os.Exit(1)
	}
	if err = databaseService.AutoMigrateAll(); err != nil {
		log.Error("Database auto migration failed", "error", err)
		os.Exit(1)
	}
	theDB := databaseService.DB()

	// Repos
	log.Info("Setting up repos from main...")
	plantRepo := repos.NewPlantRepo(theDB, log)
	benefitRepo := repos.NewBenefitRepo(theDB, log)
	usageMethodRepo := repos.NewUsageMethodRepo(theDB, log)
	backingRepo := repos.NewScientificBackingRepo(theDB, log)

	// Services
	log.Info("Setting up services from main...")
	plantService := services.NewPlantService(theDB, log, plantRepo, benefitRepo, usageMethodRepo, backingRepo)
	authService := services.NewAuthService(log, adminPassword, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second)

	var imageService services.PlantImageService
	bucketService, err := services.NewBucketService(log)
	if err != nil {
		log.Warn("Could not init BucketService, image uploads disabled", "error", err)
	} else {
		imageService = services.NewPlantImageService(log, plantService, bucketService)
	}

	// Handlers
	log.Info("Setting up handlers from main...")
	authHandler := handlers.NewAuthHandler(log, authService)
	plantHandler := handlers.NewPlantHandler(log, plantService, imageService)

	// Middleware
	log.Info("Setting up middleware from main...")
	authMiddleware := middleware.NewAuthMiddleware(log, authService)

	// Router
	log.Info("Setting up router from main...")
	var allowOrigins []string
	if raw := utils.GetEnv("CORS_ALLOW_ORIGINS", "", log); raw != "" {
		allowOrigins = strings.Split(raw, ",")
	}
	router := server.NewRouter(server.RouterConfig{
		AuthHandler:    authHandler,
		AuthMiddleware: authMiddleware,
		PlantHandler:   plantHandler,
		AllowOrigins:   allowOrigins,
	})

	port := utils.GetEnv("PORT", "8080", log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
	}
}
