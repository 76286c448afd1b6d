package routes

import (
	"time"

	"tryrack-backend/ai"
	"tryrack-backend/handlers"
	"tryrack-backend/middleware"
	"tryrack-backend/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB, storageClient storage.Client, aiClient ai.Client) {
	// Initialize handlers
	authHandler := &handlers.AuthHandler{DB: db}
	wardrobeHandler := &handlers.WardrobeHandler{DB: db, Storage: storageClient, AI: aiClient}
	tryOnHandler := &handlers.TryOnHandler{DB: db, Storage: storageClient, AI: aiClient}
	insightsHandler := &handlers.InsightsHandler{DB: db}

	// AI generation is expensive; cap submissions per user.
	aiLimiter := middleware.NewRateLimiter(10, time.Minute)

	api := r.Group("/api")
	{
		// Auth routes
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/refresh", authHandler.RefreshToken)
	}

	// Protected routes (require authentication)
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/auth/profile", authHandler.GetProfile)
	}

	// Wardrobe routes accept either a bearer token or the development
	// user_id query identity.
	wardrobe := api.Group("/wardrobe")
	wardrobe.Use(middleware.IdentifyMiddleware())
	{
		wardrobe.GET("/", wardrobeHandler.GetItems)
		wardrobe.POST("/", wardrobeHandler.CreateItem)
		wardrobe.POST("/process-image", aiLimiter.Middleware(), wardrobeHandler.ProcessImage)
		wardrobe.PATCH("/batch-status", wardrobeHandler.BatchUpdateStatus)
		wardrobe.GET("/:id", wardrobeHandler.GetItem)
		wardrobe.PUT("/:id", wardrobeHandler.UpdateItem)
		wardrobe.PATCH("/:id/status", wardrobeHandler.UpdateItemStatus)
		wardrobe.DELETE("/:id", wardrobeHandler.DeleteItem)
		wardrobe.GET("/:id/compatible", insightsHandler.GetCompatibleItems)
	}

	styleInsights := api.Group("/style-insights")
	styleInsights.Use(middleware.IdentifyMiddleware())
	{
		styleInsights.GET("/", insightsHandler.GetStyleInsights)
	}

	tryon := api.Group("/tryon")
	tryon.Use(middleware.IdentifyMiddleware())
	{
		tryon.GET("/", tryOnHandler.GetTryOns)
		tryon.POST("/", aiLimiter.Middleware(), tryOnHandler.CreateTryOn)
		tryon.GET("/:id", tryOnHandler.GetTryOn)
		tryon.DELETE("/:id", tryOnHandler.DeleteTryOn)
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
