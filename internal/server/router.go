package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/herbolario-backend/internal/handlers"
	"github.com/yungbote/herbolario-backend/internal/middleware"
)

type RouterConfig struct {
	AuthHandler    *handlers.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
	PlantHandler   *handlers.PlantHandler
	AllowOrigins   []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	allowOrigins := cfg.AllowOrigins
	if len(allowOrigins) == 0 {
		allowOrigins = []string{
			"http://localhost:3000",
			"http://localhost:5173",
		}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)
	api := router.Group("/api")
	{
		api.POST("/login", cfg.AuthHandler.Login)
		api.GET("/plants", cfg.PlantHandler.ListPlants)
		api.GET("/plants/:slug", cfg.PlantHandler.GetPlantBySlug)
		api.GET("/search", cfg.PlantHandler.SearchPlants)
		api.GET("/categories", cfg.PlantHandler.GetCategories)
	}

	// ===============
	// || Admin     ||
	// ===============
	admin := router.Group("/api/admin")
	admin.Use(cfg.AuthMiddleware.RequireAdmin())
	{
		admin.POST("/plants", cfg.PlantHandler.CreatePlant)
		admin.PUT("/plants/:id", cfg.PlantHandler.UpdatePlant)
		admin.DELETE("/plants/:id", cfg.PlantHandler.DeletePlant)
		admin.POST("/plants/:id/image", cfg.PlantHandler.UploadPlantImage)
	}

	return router
}
