package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tryrack-backend/ai"
	"tryrack-backend/config"
	"tryrack-backend/database"
	"tryrack-backend/routes"
	"tryrack-backend/storage"
	"tryrack-backend/tasks"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load environment variables
	if err := config.LoadEnv(); err != nil {
		log.Fatal("Error loading .env file:", err)
	}

	// Validate critical environment variables
	if err := config.ValidateEnv(); err != nil {
		log.Fatal("Environment validation failed: ", err)
	}

	// Initialize database
	db, err := database.Connect()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Create default test user if not exists
	if err := database.CreateDefaultUser(db); err != nil {
		log.Printf("Warning: Could not create default user: %v", err)
	}

	// Object storage for wardrobe and try-on images
	var storageClient storage.Client
	if s3, err := storage.NewS3Client(); err != nil {
		log.Printf("Warning: Object storage disabled: %v", err)
	} else {
		storageClient = s3
	}

	// AI service; nil disables processing and try-on endpoints
	var aiClient ai.Client
	if gemini, err := ai.NewGeminiClient(); err != nil {
		log.Printf("Warning: AI processing disabled: %v", err)
	} else {
		aiClient = gemini
	}

	// Background sweep for orphaned processing items
	cleanupCtx, stopCleanup := context.WithCancel(context.Background())
	go tasks.RunCleanup(cleanupCtx, db)

	// Setup Gin router
	r := gin.Default()

	// CORS configuration
	origins := []string{os.Getenv("FRONTEND_URL")}
	if origins[0] == "" {
		origins = []string{"http://localhost:3000"}
		log.Println("WARNING: FRONTEND_URL not configured, defaulting to http://localhost:3000")
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Setup routes
	routes.SetupRoutes(r, db, storageClient, aiClient)

	// Start server with graceful shutdown
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// Run server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	stopCleanup()

	// Give outstanding requests 30 seconds to complete
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	// Close database connection
	sqlDB, err := db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("Error closing database connection: %v", err)
		} else {
			log.Println("Database connection closed")
		}
	}

	log.Println("Server exited gracefully")
}
