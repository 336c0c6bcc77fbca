package api

import (
	"github.com/deviousname/Turtle-Pool/internal/api/handlers"
	"github.com/deviousname/Turtle-Pool/internal/config"
	"github.com/deviousname/Turtle-Pool/internal/middleware"
	"github.com/deviousname/Turtle-Pool/internal/ws"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, cfg *config.Config) {
	router.Use(middleware.CORSMiddleware(cfg))

	router.GET("/health", handlers.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", handlers.CreateSession(cfg))
			sessions.POST("/:token/join", handlers.JoinSession(cfg))
			sessions.GET("/:token", handlers.GetSession)
			sessions.GET("/:token/ws", ws.HandleWebSocket(cfg))
		}
	}
}
