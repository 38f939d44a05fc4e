package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/vedamire/trumanclaw/internal/auth"
	"github.com/vedamire/trumanclaw/internal/config"
	"github.com/vedamire/trumanclaw/internal/database"
	"github.com/vedamire/trumanclaw/internal/handlers"
	"github.com/vedamire/trumanclaw/internal/jobs"
	"github.com/vedamire/trumanclaw/internal/repository"
	"github.com/vedamire/trumanclaw/internal/services"
	"github.com/vedamire/trumanclaw/internal/ws"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize JWT
	auth.InitJWT(cfg.App.JWTSecret)

	// Connect to database
	if err := database.Connect(cfg.GetDSN()); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.AutoMigrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Optional Redis client for the leaderboard cache
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		log.Printf("Leaderboard cache enabled (redis %s)", cfg.Redis.Addr)
	}

	// Initialize repository and services
	repo := repository.NewRepository(database.GetDB())
	userService := services.NewUserService(repo)
	dailyStatsService := services.NewDailyStatsService(repo, nil)
	bettingService := services.NewBettingService(repo, dailyStatsService)
	resolverService := services.NewResolverService(repo, dailyStatsService, nil)
	agentService := services.NewAgentService(repo)
	statsService := services.NewStatsService(repo)
	leaderboardService := services.NewLeaderboardService(repo, rdb)

	// Websocket hub receives resolver tick updates
	hub := ws.NewHub()
	resolverService.SetBroadcaster(hub)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	betHandler := handlers.NewBetHandler(bettingService, userService, statsService)
	statsHandler := handlers.NewStatsHandler(dailyStatsService, resolverService)
	agentHandler := handlers.NewAgentHandler(agentService)
	leaderboardHandler := handlers.NewLeaderboardHandler(leaderboardService)

	// Start the settlement job
	resolverJob := jobs.NewBetResolver(resolverService, cfg.App.ResolveInterval)
	go resolverJob.Start()

	// Set up Gin router
	router := gin.Default()

	// CORS middleware
	allowedOrigins := []string{
		"http://localhost:3000",
		"http://localhost:5173", // Vite dev server
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5173",
	}
	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With", "X-API-Key"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// Authentication routes (public)
	authRoutes := router.Group("/auth")
	{
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/logout", authHandler.Logout)
	}

	// Authenticated /auth/me route
	authProtected := router.Group("/auth")
	authProtected.Use(auth.AuthMiddleware())
	{
		authProtected.GET("/me", authHandler.Me)
	}

	// Public routes
	router.GET("/api/daily-stats", statsHandler.DailyStats)
	router.GET("/api/resolve-bets", statsHandler.ResolveBets)
	router.POST("/api/resolve-bets", statsHandler.ResolveBets)
	router.GET("/api/leaderboard", leaderboardHandler.Top)
	router.GET("/ws", hub.HandleWebSocket)

	// Agent routes (API-key based, no JWT)
	router.POST("/api/agent/register", agentHandler.Register)
	router.GET("/api/agent/me", agentHandler.Me)

	// API routes (protected)
	api := router.Group("/api")
	api.Use(auth.AuthMiddleware())
	{
		api.POST("/bets", betHandler.PlaceBet)
		api.GET("/bets/pending", betHandler.ListPending)
		api.GET("/bets/history", betHandler.ListHistory)
		api.GET("/bets/stats", betHandler.Stats)
		api.POST("/agent/claim", agentHandler.Claim)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		log.Printf("Health check: http://localhost:%s/health", cfg.Server.Port)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	resolverJob.Stop()

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
