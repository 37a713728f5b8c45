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
	"go.uber.org/zap"

	"circleed/internal/auth"
	"circleed/internal/config"
	"circleed/internal/database"
	"circleed/internal/handlers"
	applog "circleed/internal/logger"
	"circleed/internal/repository"
	"circleed/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := applog.New(cfg.App.Environment)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	// Initialize JWT
	auth.InitJWT(cfg.App.JWTSecret)

	// Connect to database
	db, err := database.Connect(cfg.GetDSN())
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run migrations
	if err := database.AutoMigrate(db); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	// Initialize repository and services
	repo := repository.NewRepository(db)
	ledgerService := services.NewLedgerService(db, repo)
	sessionService := services.NewSessionService(db, repo, ledgerService, logger)
	skillService := services.NewSkillService(db, repo)
	authService := services.NewAuthService(repo, cfg, logger)
	userService := services.NewUserService(repo)
	chatService := services.NewChatService(db, repo, logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	skillHandler := handlers.NewSkillHandler(skillService)
	sessionHandler := handlers.NewSessionHandler(sessionService)
	transactionHandler := handlers.NewTransactionHandler(ledgerService)
	chatHandler := handlers.NewChatHandler(chatService)

	// Set up Gin router
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
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

	v1 := router.Group("/api/v1")

	// Public routes
	authRoutes := v1.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
	}
	v1.GET("/skills", skillHandler.ListSkills)
	v1.GET("/skills/:id", skillHandler.GetSkill)
	v1.GET("/skills/:id/reviews", skillHandler.ListReviews)

	// Protected routes
	api := v1.Group("")
	api.Use(auth.AuthMiddleware())
	{
		// User endpoints
		api.GET("/users/me", userHandler.GetMe)
		api.PUT("/users/me", userHandler.UpdateMe)
		api.GET("/users/:id", userHandler.GetUser)

		// Skill endpoints
		api.POST("/skills", skillHandler.CreateSkill)
		api.PUT("/skills/:id", skillHandler.UpdateSkill)
		api.DELETE("/skills/:id", skillHandler.DeleteSkill)
		api.POST("/skills/:id/reviews", skillHandler.CreateReview)

		// Session endpoints
		api.GET("/sessions", sessionHandler.ListSessions)
		api.GET("/sessions/upcoming", sessionHandler.ListUpcoming)
		api.GET("/sessions/:id", sessionHandler.GetSession)
		api.POST("/sessions", sessionHandler.CreateSession)
		api.POST("/sessions/:id/confirm", sessionHandler.ConfirmSession)
		api.POST("/sessions/:id/decline", sessionHandler.DeclineSession)
		api.POST("/sessions/:id/cancel", sessionHandler.CancelSession)
		api.POST("/sessions/:id/complete", sessionHandler.CompleteSession)

		// Ledger endpoints
		api.GET("/transactions", transactionHandler.ListTransactions)
		api.GET("/transactions/balance", transactionHandler.GetBalance)

		// Chat endpoints
		api.GET("/chats", chatHandler.ListChats)
		api.POST("/chats", chatHandler.CreateChat)
		api.GET("/chats/:id/messages", chatHandler.ListMessages)
		api.POST("/chats/:id/messages", chatHandler.SendMessage)
		api.POST("/chats/:id/read", chatHandler.MarkRead)
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}
