package game

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/deviousname/Turtle-Pool/internal/config"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// GameManager tracks all live table sessions and persists their state.
type GameManager struct {
	sessions        map[string]*TableSession // keyed by session ID
	tokenToSession  map[string]string        // session token -> session ID
	playerToSession map[string]string        // player ID -> session ID
	db              *sqlx.DB
	rdb             *redis.Client
	config          *config.Config
	mu              sync.RWMutex
}

// Manager is the global game manager instance.
var Manager *GameManager

// InitializeManager sets up the global manager and starts the expiry janitor.
func InitializeManager(ctx context.Context, db *sqlx.DB, rdb *redis.Client, cfg *config.Config) {
	Manager = NewGameManager(db, rdb, cfg)
	go Manager.startExpiryChecker(ctx)
}

// NewGameManager creates a manager without starting background jobs.
func NewGameManager(db *sqlx.DB, rdb *redis.Client, cfg *config.Config) *GameManager {
	return &GameManager{
		sessions:        make(map[string]*TableSession),
		tokenToSession:  make(map[string]string),
		playerToSession: make(map[string]string),
		db:              db,
		rdb:             rdb,
		config:          cfg,
	}
}

// generateToken generates a secure random hex token.
func generateToken(length int) string {
	bytes := make([]byte, length)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

func generateSessionID() string {
	return "table_" + generateToken(8)
}

// CreateSession opens a new waiting session with player 1 seated and records
// it in the sessions table. Returns the session and player 1's ID.
func (gm *GameManager) CreateSession(p1Name string) (*TableSession, string, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	id := generateSessionID()
	token := generateToken(16)
	p1ID := "p1_" + generateToken(4)

	s, err := NewTableSession(id, token, p1ID, p1Name)
	if err != nil {
		return nil, "", err
	}

	gm.sessions[id] = s
	gm.tokenToSession[token] = id
	gm.playerToSession[p1ID] = id

	if gm.db != nil {
		if _, err := gm.db.Exec(
			`INSERT INTO sessions (session_id, token, status, created_at) VALUES ($1, $2, $3, NOW())`,
			id, token, string(StatusWaiting),
		); err != nil {
			log.Printf("[DB] Failed to insert session %s: %v", id, err)
		}
	}

	log.Printf("[SIM] Session created: %s (token=%s)", id, token)
	return s, p1ID, nil
}

// JoinSession seats player 2 on a waiting session and starts its loop.
func (gm *GameManager) JoinSession(ctx context.Context, token, p2Name string) (*TableSession, string, error) {
	s, err := gm.GetSessionByToken(token)
	if err != nil {
		return nil, "", err
	}

	p2ID := "p2_" + generateToken(4)
	if err := s.Join(p2ID, p2Name); err != nil {
		return nil, "", err
	}

	gm.mu.Lock()
	// The expiry janitor may have ended the session between lookup and seat;
	// registering the joiner against a removed session would orphan them.
	if _, live := gm.sessions[s.ID]; !live {
		gm.mu.Unlock()
		return nil, "", errors.New("session no longer available")
	}
	gm.playerToSession[p2ID] = s.ID
	gm.mu.Unlock()

	if gm.db != nil {
		if _, err := gm.db.Exec(
			`UPDATE sessions SET status = $1, started_at = NOW() WHERE session_id = $2`,
			string(StatusInProgress), s.ID,
		); err != nil {
			log.Printf("[DB] Failed to mark session %s started: %v", s.ID, err)
		}
	}

	s.Start(ctx)
	log.Printf("[SIM] Session %s started (both players seated)", s.ID)
	return s, p2ID, nil
}

// GetSessionByToken looks up a session by its public token.
func (gm *GameManager) GetSessionByToken(token string) (*TableSession, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	id, ok := gm.tokenToSession[token]
	if !ok {
		return nil, errors.New("session not found")
	}
	return gm.sessions[id], nil
}

// GetSessionForPlayer looks up the session a player is seated at.
func (gm *GameManager) GetSessionForPlayer(playerID string) (*TableSession, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	id, ok := gm.playerToSession[playerID]
	if !ok {
		return nil, errors.New("player is not in a session")
	}
	return gm.sessions[id], nil
}

// ActiveSessionCount returns the number of live sessions.
func (gm *GameManager) ActiveSessionCount() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()
	return len(gm.sessions)
}

// EndSession stops a session's loop, persists the final scores, and removes
// it from the maps.
func (gm *GameManager) EndSession(id string, status SessionStatus) {
	gm.mu.Lock()
	s, ok := gm.sessions[id]
	if !ok {
		gm.mu.Unlock()
		return
	}
	delete(gm.sessions, id)
	delete(gm.tokenToSession, s.Token)
	// Seats() reads under the session's own lock; a concurrent Join mutates
	// Player2 there, so the raw fields cannot be read here.
	seat1, seat2, _ := s.Seats()
	if seat1 != nil {
		delete(gm.playerToSession, seat1.ID)
	}
	if seat2 != nil {
		delete(gm.playerToSession, seat2.ID)
	}
	gm.mu.Unlock()

	s.Stop()
	p1, p2, _ := s.Scores()

	if gm.db != nil {
		if _, err := gm.db.Exec(
			`UPDATE sessions SET status = $1, score_player1 = $2, score_player2 = $3, completed_at = NOW() WHERE session_id = $4`,
			string(status), p1, p2, id,
		); err != nil {
			log.Printf("[DB] Failed to finalize session %s: %v", id, err)
		}
	}

	log.Printf("[SIM] Session %s ended (%s), scores %d-%d", id, status, p1, p2)
}

// RecordPocket writes a pocket capture to the pocket_events table.
func (gm *GameManager) RecordPocket(s *TableSession, ev CollisionEvent) {
	if gm == nil || gm.db == nil {
		return
	}
	_, _, current := s.Scores()
	if _, err := gm.db.Exec(
		`INSERT INTO pocket_events (session_id, ball_id, pocket_id, player_number, impact_speed, created_at)
		 VALUES ($1, $2, $3, $4, $5, NOW())`,
		s.ID, ev.BallID, ev.TargetID, current, ev.Speed,
	); err != nil {
		log.Printf("[DB] Failed to record pocket event for session %s: %v", s.ID, err)
	}
}

// saveSessionSnapshot caches the latest frame in Redis with a short TTL so a
// reconnecting client can resync without waiting for the next broadcast.
func (gm *GameManager) saveSessionSnapshot(s *TableSession, res *StepResult) {
	if gm == nil || gm.rdb == nil {
		return
	}

	data, err := json.Marshal(map[string]interface{}{
		"session_id": s.ID,
		"token":      s.Token,
		"status":     s.Status,
		"frame":      res,
	})
	if err != nil {
		log.Printf("[REDIS] Failed to marshal snapshot for session %s: %v", s.ID, err)
		return
	}

	ctx := context.Background()
	key := "session:" + s.Token + ":state"
	if err := gm.rdb.SetEx(ctx, key, data, time.Hour).Err(); err != nil {
		log.Printf("[REDIS] Failed to save snapshot for session %s: %v", s.ID, err)
	}
}

// LoadSessionSnapshot fetches the cached frame for a session token.
func (gm *GameManager) LoadSessionSnapshot(ctx context.Context, token string) ([]byte, error) {
	if gm.rdb == nil {
		return nil, errors.New("redis not configured")
	}
	return gm.rdb.Get(ctx, "session:"+token+":state").Bytes()
}

// startExpiryChecker periodically ends sessions with no recent activity.
func (gm *GameManager) startExpiryChecker(ctx context.Context) {
	interval := time.Minute
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			gm.expireIdleSessions()
		}
	}
}

func (gm *GameManager) expireIdleSessions() {
	maxIdle := time.Duration(gm.config.SessionExpiryMinutes) * time.Minute

	gm.mu.RLock()
	var expired []string
	for id, s := range gm.sessions {
		s.mu.RLock()
		idle := time.Since(s.LastActivity)
		s.mu.RUnlock()
		if idle > maxIdle {
			expired = append(expired, id)
		}
	}
	gm.mu.RUnlock()

	for _, id := range expired {
		log.Printf("[SIM] Session %s idle past %v, expiring", id, maxIdle)
		gm.EndSession(id, StatusExpired)
	}
}
