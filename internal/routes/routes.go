package routes

import (
	"studyfunnel_backend/internal/handlers"
	"studyfunnel_backend/internal/logger"
	"studyfunnel_backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the public intake endpoints and the authenticated dashboard API under /api
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers, jwtSecret string) {
	api := ginRouter.Group("/api")
	{
		appHandlers.HealthHandler.RegisterRoutes(api)
		appHandlers.IntakeHandler.RegisterRoutes(api)
	}

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(jwtSecret))
	{
		appHandlers.NotificationHandler.RegisterRoutes(protected)
		appHandlers.ParticipantHandler.RegisterRoutes(protected)
	}

	logger.Info("HTTP routes registered", "routes", len(ginRouter.Routes()))
}
