package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dreamtrack/internal/auth"
	"dreamtrack/internal/config"
	"dreamtrack/internal/database"
	"dreamtrack/internal/handlers"
	"dreamtrack/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	if err := database.InitDB(cfg.DatabaseURL); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	if err := auth.InitOAuth(cfg); err != nil {
		log.Fatal("Failed to initialize OAuth:", err)
	}

	// Delivery channels degrade to the in-app feed when unconfigured
	var email *services.EmailService
	if cfg.SendgridAPIKey != "" {
		email = services.NewEmailService(cfg)
	}
	var whatsapp *services.WhatsAppService
	if cfg.TwilioAccountSID != "" {
		whatsapp = services.NewWhatsAppService(cfg)
	}
	if imageService, err := services.NewImageService(cfg); err != nil {
		log.Printf("Image uploads disabled: %v", err)
	} else {
		handlers.ImageService = imageService
	}

	dispatcher := services.NewDispatcher(database.GetDB(), email, whatsapp)
	sweeper := services.NewReminderSweeper(database.GetDB(), dispatcher, cfg.SweepInterval)
	if err := sweeper.Start(); err != nil {
		log.Fatal("Failed to start reminder sweeper:", err)
	}

	router := gin.Default()
	router.SetTrustedProxies([]string{"127.0.0.1"})
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Basic routes
	router.GET("/", handlers.HomeHandler)
	router.GET("/health", handlers.HealthHandler)

	// Auth routes (no auth required)
	router.GET("/auth/google/login", handlers.LoginHandler)
	router.GET("/auth/google/callback", handlers.GoogleCallbackHandler)

	// Public account routes
	router.GET("/accounts/:username", handlers.GetAccount)

	// Protected routes (auth required)
	protected := router.Group("")
	protected.Use(auth.AuthMiddleware())
	{
		protected.POST("/auth/logout", handlers.LogoutHandler)
		protected.GET("/auth/me", handlers.GetCurrentAccount)
		protected.POST("/profile", handlers.CreateProfile)
		protected.PATCH("/account", handlers.UpdateAccount)

		protected.POST("/dreams", handlers.CreateDream)
		protected.GET("/dreams", handlers.GetDreams)
		protected.GET("/dreams/:id", handlers.GetDream)
		protected.PATCH("/dreams/:id", handlers.UpdateDream)
		protected.DELETE("/dreams/:id", handlers.DeleteDream)
		protected.POST("/dreams/:id/cover", handlers.UploadDreamCover)

		protected.POST("/actions", handlers.CreateAction)
		protected.GET("/actions", handlers.GetActions)
		protected.PATCH("/actions/:id", handlers.UpdateAction)
		protected.DELETE("/actions/:id", handlers.DeleteAction)
		protected.GET("/actions/:id/countdown", handlers.GetActionCountdown)

		protected.POST("/journal", handlers.CreateJournalEntry)
		protected.GET("/journal", handlers.GetJournalEntries)
		protected.DELETE("/journal/:id", handlers.DeleteJournalEntry)

		protected.POST("/follows/:username", handlers.FollowAccount)
		protected.DELETE("/follows/:username", handlers.UnfollowAccount)
		protected.GET("/following", handlers.GetFollowing)
		protected.GET("/followers", handlers.GetFollowers)

		protected.GET("/notifications", handlers.GetNotifications)
		protected.POST("/notifications/read", handlers.MarkNotificationsRead)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on port %s...", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}
	sweeper.Stop()
}
