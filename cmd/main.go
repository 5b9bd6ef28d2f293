package main

import (
	"calsnap/database"
	"calsnap/docs"
	"calsnap/internal/config"
	"calsnap/internal/controllers"
	"calsnap/internal/openai"
	"calsnap/internal/repository"
	"calsnap/internal/services"
	"calsnap/internal/storage"
	"calsnap/routes"
	"context"
	"errors"
	"log"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			log.Printf("Warning: No .env file found, using process environment: %v", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	for _, problem := range cfg.Validate() {
		if errors.Is(problem, config.ErrMissingVisionCredential) {
			log.Printf("Warning: %v; food analysis requests will fail until it is set", problem)
			continue
		}
		log.Fatalf("Invalid configuration: %v", problem)
	}

	// Swagger Documentation
	docs.SwaggerInfo.Title = "CalSnap API"
	docs.SwaggerInfo.Description = "Food photo analysis proxy and meal log store."
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Schemes = []string{"http", "https"}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}
	database.MonitorDBConnections(db)

	// Initialize repositories
	mealRepo := repository.NewMealRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	// A nil client keeps the server up and answers analysis with a config error.
	var visionClient services.VisionClient
	if cfg.Vision.Configured() {
		client, err := openai.NewClient(openai.Options{
			BaseURL: cfg.Vision.BaseURL,
			APIKey:  cfg.Vision.APIKey,
			Model:   cfg.Vision.Model,
			Referer: cfg.Vision.Referer,
			AppName: cfg.Vision.AppName,
			Timeout: cfg.Vision.Timeout,
		})
		if err != nil {
			log.Printf("Warning: vision client disabled: %v", err)
		} else {
			visionClient = client
			log.Printf("Vision gateway: %s (model %s)", cfg.Vision.BaseURL, cfg.Vision.Model)
		}
	}
	analyzer := services.NewFoodAnalyzer(visionClient, cfg.Vision.MaxReply)

	var photoStore storage.PhotoStore
	if cfg.Photos.Enabled() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		photoStore, err = storage.NewS3PhotoStore(ctx, cfg.Photos.Region, cfg.Photos.Bucket, cfg.Photos.BaseURL)
		cancel()
		if err != nil {
			log.Printf("Warning: photo uploads disabled: %v", err)
			photoStore = nil
		} else {
			log.Printf("Photo storage: s3://%s", cfg.Photos.Bucket)
		}
	}

	// Initialize controllers
	analyzeController := controllers.NewAnalyzeFoodController(analyzer)
	healthController := controllers.NewHealthController(analyzer.Configured)
	mealController := controllers.NewMealController(mealRepo)
	profileController := controllers.NewProfileController(profileRepo)
	photoController := controllers.NewPhotoController(photoStore)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	if len(cfg.CORSOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.CORSOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.GET("/", func(c *gin.Context) {
		vision := "configured"
		if !analyzer.Configured() {
			vision = "missing_credential"
		}
		c.JSON(http.StatusOK, gin.H{
			"message":  "CalSnap API is running",
			"version":  "1.0.0",
			"status":   "healthy",
			"vision":   vision,
			"model":    cfg.Vision.Model,
			"photos":   photoStore != nil,
			"database": "PostgreSQL",
		})
	})

	routes.RegisterAnalysisRoutes(router, analyzeController, healthController, cfg.MaxBodyBytes)
	routes.RegisterMealRoutes(router, mealController, cfg.JWTSecret)
	routes.RegisterProfileRoutes(router, profileController, cfg.JWTSecret)
	routes.RegisterPhotoRoutes(router, photoController, cfg.JWTSecret, cfg.MaxBodyBytes)
	routes.RegisterSwaggerRoutes(router)

	router.GET("/debug/database", func(c *gin.Context) {
		if err := database.Ping(db); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"database_health": false,
				"error":           err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"database_health": true})
	})

	router.GET("/debug/stats", func(c *gin.Context) {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		c.JSON(http.StatusOK, gin.H{
			"goroutines": runtime.NumGoroutine(),
			"memory_mb":  m.Alloc / 1024 / 1024,
		})
	})

	log.Printf("Server starting on port %s", cfg.Port)
	log.Printf("API Documentation: http://localhost:%s/swagger/index.html", cfg.Port)
	log.Printf("Health Check: http://localhost:%s/health", cfg.Port)

	// Upstream calls can take the full gateway timeout, so writes get headroom.
	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        router,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   cfg.Vision.Timeout + 15*time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	if err := server.ListenAndServe(); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
