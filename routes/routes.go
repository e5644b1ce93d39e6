package routes

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jdblank/fire-backend/config"
	"github.com/jdblank/fire-backend/database"
	"github.com/jdblank/fire-backend/internal/auditlog"
	"github.com/jdblank/fire-backend/internal/event"
	"github.com/jdblank/fire-backend/internal/eventimport"
	"github.com/jdblank/fire-backend/internal/feed"
	"github.com/jdblank/fire-backend/internal/notification"
	"github.com/jdblank/fire-backend/internal/registration"
	"github.com/jdblank/fire-backend/internal/reports"
	"github.com/jdblank/fire-backend/internal/user"
	"github.com/jdblank/fire-backend/middleware"

	_ "github.com/jdblank/fire-backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Deps carries the services routes need beyond what they build themselves.
// The notification service is wired into the event service here so that
// publishing an event can fan out to members.
type Deps struct {
	UserSvc  user.Service
	NotifSvc notification.Service
}

// Setup registers every route of the API and returns the wired dependencies
func Setup(r *gin.Engine, cfg *config.Config) Deps {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:4173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.Static("/uploads", config.UploadPath)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimiter())
	api.Use(middleware.AuditMiddleware())

	// ========== Wiring ==========
	auditRepo := auditlog.NewRepository(database.DB)
	auditSvc := auditlog.NewService(auditRepo)
	auditHandler := auditlog.NewHandler(auditSvc)

	userRepo := user.NewRepository(database.DB)
	userSvc := user.NewService(userRepo, auditSvc)
	userHandler := user.NewHandler(userSvc)

	eventRepo := event.NewRepository(database.DB)
	eventSvc := event.NewService(eventRepo, auditSvc)
	eventHandler := event.NewHandler(eventSvc)

	importSvc := eventimport.NewService(eventRepo)
	importHandler := eventimport.NewHandler(importSvc, auditSvc)

	registrationRepo := registration.NewRepository(database.DB)
	registrationSvc := registration.NewService(registrationRepo, eventRepo, cfg, auditSvc)
	registrationHandler := registration.NewHandler(registrationSvc)

	feedRepo := feed.NewRepository(database.DB)
	feedSvc := feed.NewService(feedRepo, auditSvc)
	feedHandler := feed.NewHandler(feedSvc)

	notificationRepo := notification.NewRepository(database.DB)
	notifSvc := notification.NewService(notificationRepo, userRepo)
	notificationHandler := notification.NewHandler(notifSvc)

	// Publishing an event notifies members in-app and over push
	eventSvc.NotifSvc = notifSvc

	reportsRepo := reports.NewRepository(database.DB)
	reportsSvc := reports.NewService(reportsRepo, reports.NewReportExporter(), auditSvc)
	reportsHandler := reports.NewHandler(reportsSvc)

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg, userSvc))

	// ========== Current User ==========
	protected.GET("/users/me", userHandler.GetMe)

	// ========== Events ==========
	eventRoutes := protected.Group("/events")
	{
		eventRoutes.GET("", eventHandler.ListEvents)
		eventRoutes.GET("/upcoming", eventHandler.GetUpcomingEvents)
		eventRoutes.GET("/:id", eventHandler.GetEventByID)

		managerRoutes := eventRoutes.Group("")
		managerRoutes.Use(middleware.RequireEventManager())
		{
			managerRoutes.POST("", eventHandler.CreateEvent)
			managerRoutes.GET("/stats", eventHandler.GetEventStats)
			managerRoutes.PUT("/:id", eventHandler.UpdateEvent)
			managerRoutes.POST("/:id/publish", eventHandler.PublishEvent)
			managerRoutes.POST("/:id/cancel", eventHandler.CancelEvent)
			managerRoutes.DELETE("/:id", eventHandler.DeleteEvent)

			managerRoutes.GET("/:id/registrations", registrationHandler.ListByEvent)
			managerRoutes.GET("/:id/registrations/export", registrationHandler.ExportByEvent)
		}
	}

	// ========== Registrations ==========
	registrationRoutes := protected.Group("/registrations")
	{
		registrationRoutes.POST("", registrationHandler.Register)
		registrationRoutes.POST("/verify", registrationHandler.VerifyPayment)
		registrationRoutes.GET("/my", registrationHandler.GetMyRegistrations)
		registrationRoutes.POST("/:id/cancel", registrationHandler.CancelRegistration)
		registrationRoutes.GET("/:id/receipt", registrationHandler.GenerateReceipt)
	}

	// ========== Feed ==========
	feedRoutes := protected.Group("/feed")
	{
		feedRoutes.GET("", feedHandler.ListFeed)
		feedRoutes.POST("/posts", feedHandler.CreatePost)
		feedRoutes.GET("/posts/:id", feedHandler.GetPost)
		feedRoutes.DELETE("/posts/:id", feedHandler.DeletePost)
		feedRoutes.POST("/posts/:id/like", feedHandler.ToggleLike)
	}

	// ========== Notifications ==========
	notificationRoutes := protected.Group("/notifications")
	{
		notificationRoutes.GET("", notificationHandler.ListMyNotifications)
		notificationRoutes.PATCH("/:id/read", notificationHandler.MarkAsRead)
		notificationRoutes.PATCH("/read-all", notificationHandler.MarkAllAsRead)
		notificationRoutes.POST("/devices", notificationHandler.RegisterDeviceToken)
		notificationRoutes.DELETE("/devices", notificationHandler.RemoveDeviceToken)
	}

	// ========== Image Upload (event banners, post images) ==========
	protected.POST("/uploads", middleware.RequireWriteAccess(), uploadImage)

	// ========== Admin ==========
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(middleware.RBACMiddleware(middleware.RoleAdmin))
	{
		adminRoutes.GET("/users", userHandler.ListUsers)
		adminRoutes.PATCH("/users/:id/role", userHandler.UpdateRole)
		adminRoutes.PATCH("/users/:id/status", userHandler.UpdateStatus)

		adminRoutes.POST("/events/import", importHandler.ImportEvents)

		adminRoutes.GET("/auditlogs", auditHandler.GetAuditLogs)
		adminRoutes.GET("/auditlogs/stats", auditHandler.GetAuditLogStats)
		adminRoutes.GET("/auditlogs/:id", auditHandler.GetAuditLogByID)

		adminRoutes.GET("/reports", reportsHandler.DownloadReport)
	}

	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return Deps{UserSvc: userSvc, NotifSvc: notifSvc}
}

// uploadImage stores a multipart image under a random name and returns its URL
func uploadImage(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported file type"})
		return
	}

	if file.Size > 5<<20 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file exceeds 5MB limit"})
		return
	}

	filename := uuid.NewString() + ext
	dst := filepath.Join(config.UploadPath, filename)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store file"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"url": "/uploads/" + filename})
}
