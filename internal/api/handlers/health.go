package handlers

import (
	"net/http"

	"github.com/deviousname/Turtle-Pool/internal/game"
	"github.com/gin-gonic/gin"
)

// HealthCheck reports service liveness and the live session count.
func HealthCheck(c *gin.Context) {
	sessions := 0
	if game.Manager != nil {
		sessions = game.Manager.ActiveSessionCount()
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"sessions": sessions,
	})
}
