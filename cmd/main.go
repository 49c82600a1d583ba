package main

import (
	"log"
	"net/http"
	"os"
	"runtime"
	"time"

	"gainboard/database"
	"gainboard/internal/cache"
	"gainboard/internal/competition"
	"gainboard/internal/controllers"
	"gainboard/internal/evaluation"
	"gainboard/internal/repository"
	"gainboard/internal/services"
	"gainboard/routes"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: No .env file found: %v", err)
	}

	// Connect to database
	database.ConnectDatabase()
	if err := database.MigrateDatabase(); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}
	database.MonitorDBConnections()

	// Initialize repositories
	userRepo := repository.NewUserRepository(database.DB)
	submissionRepo := repository.NewSubmissionRepository(database.DB)
	competitionRepo := repository.NewCompetitionRepository(database.DB)

	// Competition configs are parsed once and cached; the evaluator serializes
	// per-(user, competition) so concurrent identical uploads cannot both pass
	// the duplicate gate.
	registry := competition.NewRegistry(competitionRepo)
	evaluator := evaluation.NewEvaluator(submissionRepo)

	// Redis is optional; without it every leaderboard request recomputes.
	redisClient, err := cache.NewRedisClient()
	if err != nil {
		log.Printf("Warning: Redis unavailable, leaderboard caching disabled: %v", err)
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	// RabbitMQ is optional; without it scored events are not published.
	var notifier *services.ScoreNotifier
	rabbitMQURL := os.Getenv("RABBITMQ_URL")
	if rabbitMQURL != "" {
		notifier, err = services.NewScoreNotifier(rabbitMQURL)
		if err != nil {
			log.Printf("Warning: RabbitMQ unavailable, scored events disabled: %v", err)
			notifier = nil
		} else {
			defer notifier.Close()
		}
	}

	archiveDir := os.Getenv("SUBMISSIONS_DIR")
	if archiveDir == "" {
		archiveDir = "./submissions"
	}

	// Initialize controllers
	userController := controllers.NewUserController(userRepo)
	competitionController := controllers.NewCompetitionController(competitionRepo)
	submissionController := controllers.NewSubmissionController(
		submissionRepo,
		userRepo,
		registry,
		evaluator,
		notifier,
		redisClient,
		archiveDir,
	)
	leaderboardController := controllers.NewLeaderboardController(submissionRepo, registry, redisClient)

	gin.SetMode(gin.ReleaseMode)
	// Setup Gin router
	router := gin.Default()

	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Gainboard API is running",
			"version": "1.0.0",
			"status":  "healthy",
		})
	})

	routes.RegisterUserRoutes(router, userController)
	routes.RegisterCompetitionRoutes(router, competitionController)
	routes.RegisterSubmissionRoutes(router, submissionController)
	routes.RegisterLeaderboardRoutes(router, leaderboardController)
	routes.RegisterSwaggerRoutes(router)

	// Debug endpoints
	router.GET("/debug/stats", func(c *gin.Context) {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)

		response := gin.H{
			"goroutines": runtime.NumGoroutine(),
			"memory_mb":  m.Alloc / 1024 / 1024,
		}
		if redisClient != nil {
			if status, err := redisClient.GetStatus(); err == nil {
				response["redis"] = status
			}
		}
		c.JSON(200, response)
	})

	router.GET("/debug/database", func(c *gin.Context) {
		sqlDB, err := database.DB.DB()
		if err != nil {
			c.JSON(500, gin.H{
				"database_health": false,
				"error":           err.Error(),
			})
			return
		}

		var result int
		row := sqlDB.QueryRowContext(c.Request.Context(), "SELECT 1")
		err = row.Scan(&result)
		c.JSON(200, gin.H{
			"database_health": err == nil && result == 1,
		})
	})

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	log.Printf("API Documentation: http://localhost:%s/swagger/index.html", port)

	server := &http.Server{
		Addr:           ":" + port,
		Handler:        router,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Printf("Gainboard API Server started successfully on port %s", port)

	if err := server.ListenAndServe(); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
