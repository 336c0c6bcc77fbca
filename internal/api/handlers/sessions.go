package handlers

import (
	"net/http"
	"time"

	"github.com/deviousname/Turtle-Pool/internal/auth"
	"github.com/deviousname/Turtle-Pool/internal/config"
	"github.com/deviousname/Turtle-Pool/internal/game"
	"github.com/gin-gonic/gin"
)

const playerTokenTTL = 24 * time.Hour

type createSessionRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
}

type joinSessionRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
}

// CreateSession opens a waiting session and returns player 1's credentials.
func CreateSession(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "display_name required"})
			return
		}

		if game.Manager.ActiveSessionCount() >= cfg.MaxSessions {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "session limit reached"})
			return
		}

		s, playerID, err := game.Manager.CreateSession(req.DisplayName)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		pt, err := auth.IssuePlayerToken(cfg.JWTSecret, s.Token, playerID, playerTokenTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue player token"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"session_id":   s.ID,
			"token":        s.Token,
			"player_id":    playerID,
			"player_token": pt,
			"status":       s.Status,
		})
	}
}

// JoinSession seats player 2 and starts the simulation loop.
func JoinSession(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")

		var req joinSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "display_name required"})
			return
		}

		s, playerID, err := game.Manager.JoinSession(c.Request.Context(), token, req.DisplayName)
		if err != nil {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}

		pt, err := auth.IssuePlayerToken(cfg.JWTSecret, s.Token, playerID, playerTokenTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue player token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"session_id":   s.ID,
			"token":        s.Token,
			"player_id":    playerID,
			"player_token": pt,
			"status":       s.Status,
		})
	}
}

// GetSession returns the public view of a session: seats, status, scores,
// and the newest frame if the simulation is running.
func GetSession(c *gin.Context) {
	token := c.Param("token")

	s, err := game.Manager.GetSessionByToken(token)
	if err != nil {
		// The session may have expired out of memory; serve the cached
		// snapshot if Redis still has one.
		if data, err := game.Manager.LoadSessionSnapshot(c.Request.Context(), token); err == nil {
			c.Data(http.StatusOK, "application/json", data)
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	seat1, seat2, status := s.Seats()
	p1, p2, current := s.Scores()
	resp := gin.H{
		"session_id":     s.ID,
		"status":         status,
		"player1":        seat1,
		"player2":        seat2,
		"score_player1":  p1,
		"score_player2":  p2,
		"current_player": current,
	}
	if frame := s.LastFrame(); frame != nil {
		resp["frame"] = frame
	}
	c.JSON(http.StatusOK, resp)
}
