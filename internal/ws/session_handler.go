package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/deviousname/Turtle-Pool/internal/auth"
	"github.com/deviousname/Turtle-Pool/internal/config"
	"github.com/deviousname/Turtle-Pool/internal/game"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// TakeShotData is the raw drag vector; the server applies the impulse scale.
type TakeShotData struct {
	DragX float64 `json:"drag_x"`
	DragY float64 `json:"drag_y"`
}

// SessionHub is the single hub for all table sessions.
var SessionHub *Hub

func init() {
	SessionHub = NewHub()
	go runSessionHub(SessionHub)
}

// HandleWebSocket upgrades a connection for a table session. The client
// presents the session token and its signed player token.
func HandleWebSocket(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionToken := c.Query("token")
		playerToken := c.Query("pt")

		if sessionToken == "" || playerToken == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "token and pt required"})
			return
		}

		claims, err := auth.VerifyPlayerToken(cfg.JWTSecret, playerToken)
		if err != nil || claims.SessionToken != sessionToken {
			c.JSON(http.StatusForbidden, gin.H{"error": "invalid player token"})
			return
		}

		s, err := game.Manager.GetSessionByToken(sessionToken)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		if s.PlayerByID(claims.PlayerID) == nil {
			c.JSON(http.StatusForbidden, gin.H{"error": "player is not seated at this session"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("[WS] Upgrade error: %v", err)
			return
		}

		client := &Client{
			conn:         conn,
			playerID:     claims.PlayerID,
			sessionID:    s.ID,
			sessionToken: sessionToken,
			send:         make(chan []byte, 256),
		}

		SessionHub.register <- client

		go client.writePump()
		go client.readPump()
	}
}

// runSessionHub wires clients into session rooms and ties each session's
// frame stream to the hub.
func runSessionHub(h *Hub) {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if oldClient, exists := h.clients[client.playerID]; exists {
				log.Printf("[WS] Player %s reconnecting - closing old connection", client.playerID)
				oldClient.conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "replaced by new connection"),
					time.Now().Add(5*time.Second))
				oldClient.conn.Close()
				delete(h.clients, client.playerID)
				if room, ok := h.rooms[oldClient.sessionID]; ok {
					delete(room, client.playerID)
				}
			}
			h.clients[client.playerID] = client
			if _, exists := h.rooms[client.sessionID]; !exists {
				h.rooms[client.sessionID] = make(map[string]*Client)
			}
			h.rooms[client.sessionID][client.playerID] = client
			h.mu.Unlock()

			log.Printf("[WS] Player %s connected to session %s", client.playerID, client.sessionID)
			attachFrameStream(client)

		case client := <-h.unregister:
			h.mu.Lock()
			if current, exists := h.clients[client.playerID]; exists && current == client {
				delete(h.clients, client.playerID)
				if room, ok := h.rooms[client.sessionID]; ok {
					delete(room, client.playerID)
					if len(room) == 0 {
						delete(h.rooms, client.sessionID)
					}
				}
			}
			h.mu.Unlock()
			log.Printf("[WS] Player %s disconnected from session %s", client.playerID, client.sessionID)
		}
	}
}

// attachFrameStream installs the broadcast callback on the session and sends
// the newest frame so a (re)connecting client resyncs immediately.
func attachFrameStream(client *Client) {
	s, err := game.Manager.GetSessionByToken(client.sessionToken)
	if err != nil {
		log.Printf("[WS] Session lookup failed for token %s: %v", client.sessionToken, err)
		return
	}

	sessionID := s.ID
	s.SetFrameFunc(func(res *game.StepResult) {
		SessionHub.BroadcastToSession(sessionID, map[string]interface{}{
			"type": "frame",
			"data": res,
		})
	})

	if frame := s.LastFrame(); frame != nil {
		SessionHub.SendToPlayer(client.playerID, map[string]interface{}{
			"type": "frame",
			"data": frame,
		})
	}
}

// handleClientMessage dispatches one parsed command from a client.
func handleClientMessage(c *Client, msg WSMessage) {
	s, err := game.Manager.GetSessionByToken(c.sessionToken)
	if err != nil {
		log.Printf("[WS] Command for missing session %s", c.sessionToken)
		return
	}

	switch msg.Type {
	case "take_shot":
		var data TakeShotData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			log.Printf("[WS] Bad take_shot payload from %s: %v", c.playerID, err)
			return
		}
		err = s.Submit(game.Command{
			Kind:     "shot",
			PlayerID: c.playerID,
			Drag:     game.NewVec2(data.DragX, data.DragY),
		})
	case "flip_x", "flip_y", "rotate":
		err = s.Submit(game.Command{Kind: msg.Type, PlayerID: c.playerID})
	default:
		log.Printf("[WS] Unknown message type %q from %s", msg.Type, c.playerID)
		return
	}

	if err != nil {
		log.Printf("[WS] Command %q from %s rejected: %v", msg.Type, c.playerID, err)
	}
}
