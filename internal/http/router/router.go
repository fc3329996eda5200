package router

import (
	"github.com/gin-gonic/gin"

	"github.com/gigflow/gigflow-backend/internal/config"
	"github.com/gigflow/gigflow-backend/internal/http/handlers"
	"github.com/gigflow/gigflow-backend/internal/http/middleware"
	"github.com/gigflow/gigflow-backend/internal/service"
)

// SetupRouter собирает все маршруты приложения.
func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	gigHandler *handlers.GigHandler,
	bidHandler *handlers.BidHandler,
	notificationHandler *handlers.NotificationHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(5, cfg.RateLimitPeriod))
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/logout", authHandler.Logout)
	}

	// Публичные маршруты
	api.GET("/gigs", gigHandler.ListGigs)
	api.GET("/gigs/:id", middleware.UUIDValidator("id"), gigHandler.GetGig)
	api.GET("/ws", wsHandler.Handle)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.POST("/gigs", gigHandler.CreateGig)
		protected.DELETE("/gigs/:id", middleware.UUIDValidator("id"), gigHandler.DeleteGig)

		bidRateLimit := middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod)
		protected.POST("/bids", bidRateLimit, bidHandler.CreateBid)
		protected.GET("/bids/:gigId", middleware.UUIDValidator("gigId"), bidHandler.ListBids)
		protected.PATCH("/bids/:bidId/hire", middleware.UUIDValidator("bidId"), bidHandler.HireBid)

		protected.GET("/notifications", notificationHandler.ListNotifications)
		protected.GET("/notifications/unread/count", notificationHandler.CountUnread)
		protected.PUT("/notifications/:id/read", middleware.UUIDValidator("id"), notificationHandler.MarkAsRead)
		protected.PUT("/notifications/read-all", notificationHandler.MarkAllAsRead)
	}

	return r
}
