package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/jdblank/fire-backend/config"
	"github.com/jdblank/fire-backend/database"
	"github.com/jdblank/fire-backend/internal/auditlog"
	"github.com/jdblank/fire-backend/internal/event"
	"github.com/jdblank/fire-backend/internal/feed"
	"github.com/jdblank/fire-backend/internal/notification"
	"github.com/jdblank/fire-backend/internal/registration"
	"github.com/jdblank/fire-backend/internal/user"
	"github.com/jdblank/fire-backend/routes"
	"github.com/jdblank/fire-backend/utils"
)

// @title Fire Backend API
// @version 1.0
// @description Community events platform: events, registrations, feed, and notifications.
// @host localhost:8080
// @BasePath /
func main() {
	cfg := config.Load()
	db := database.Connect(cfg)

	// Init Redis
	if err := utils.InitRedis(); err != nil {
		log.Fatalf("❌ Redis init failed: %v", err)
	}

	// Init Kafka
	utils.InitializeKafka()
	defer utils.CloseKafka()

	// Init Firebase (push notifications are optional)
	log.Println("🔄 Initializing Firebase...")
	if err := utils.InitFirebase(); err != nil {
		log.Printf("⚠️ Firebase initialization failed: %v", err)
		log.Println("ℹ️ Continuing without push notifications")
	}

	// Auto-migrate models
	log.Println("🔄 Running database migrations...")
	if err := db.AutoMigrate(
		&user.Role{},
		&user.User{},
		&event.Event{},
		&registration.Registration{},
		&registration.LineItem{},
		&feed.Post{},
		&feed.Like{},
		&auditlog.AuditLog{},
		&notification.InAppNotification{},
		&notification.FCMDeviceToken{},
		&notification.NotificationLog{},
	); err != nil {
		panic(fmt.Sprintf("❌ DB AutoMigrate failed: %v", err))
	}
	log.Println("✅ Database migrations completed")

	// Seed roles
	if err := user.SeedRoles(db); err != nil {
		panic(fmt.Sprintf("❌ Failed to seed roles: %v", err))
	}

	// Ensure uploads directory exists
	if err := os.MkdirAll(config.UploadPath, 0o755); err != nil {
		panic(fmt.Sprintf("❌ Failed to create upload directory: %v", err))
	}

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	deps := routes.Setup(router, cfg)

	// Consume platform events into user notifications
	consumerCtx, cancelConsumer := context.WithCancel(context.Background())
	defer cancelConsumer()
	go notification.StartConsumer(consumerCtx, deps.NotifSvc)

	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	fmt.Printf("🚀 Server starting on port %s\n", port)
	fmt.Printf("📁 Upload directory: %s\n", config.UploadPath)
	if utils.IsFCMEnabled() {
		fmt.Println("✅ Firebase Cloud Messaging enabled")
	} else {
		fmt.Println("ℹ️ Firebase Cloud Messaging disabled")
	}

	if err := router.Run(":" + port); err != nil {
		panic(fmt.Sprintf("Failed to start server: %v", err))
	}
}
