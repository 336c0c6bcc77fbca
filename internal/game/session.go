package game

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

// SessionPlayer is one seat at a table session.
type SessionPlayer struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Number      int    `json:"number"` // 1 or 2, matches TurnState.CurrentPlayer
	Connected   bool   `json:"connected"`
}

// Command is a player input applied between ticks.
type Command struct {
	Kind     string // "shot", "flip_x", "flip_y", "rotate"
	PlayerID string
	Drag     Vec2 // shot only: raw drag vector, scaled by ImpulseScale
}

// FrameFunc receives every tick's result. It must not block; the simulation
// loop will not wait for slow consumers.
type FrameFunc func(*StepResult)

// TableSession binds a World to two players and runs the fixed-timestep loop.
// The loop goroutine is the only one touching the World; commands cross over
// on a channel.
type TableSession struct {
	ID      string         `json:"id"`
	Token   string         `json:"token"`
	Player1 *SessionPlayer `json:"player1"`
	Player2 *SessionPlayer `json:"player2"`
	Status  SessionStatus  `json:"status"`

	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`

	world     *World
	lastFrame *StepResult
	commands  chan Command
	onFrame   FrameFunc
	cancel    context.CancelFunc
	running   bool
	mu        sync.RWMutex
}

// NewTableSession creates a waiting session with player 1 seated.
func NewTableSession(id, token, p1ID, p1Name string) (*TableSession, error) {
	world, err := NewWorld()
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &TableSession{
		ID:           id,
		Token:        token,
		Player1:      &SessionPlayer{ID: p1ID, DisplayName: p1Name, Number: 1},
		Status:       StatusWaiting,
		CreatedAt:    now,
		LastActivity: now,
		world:        world,
		commands:     make(chan Command, 64),
	}, nil
}

// Join seats player 2 and moves the session to in-progress.
func (s *TableSession) Join(p2ID, p2Name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Player2 != nil {
		return errors.New("session is full")
	}
	if s.Status != StatusWaiting {
		return errors.New("session is not joinable")
	}
	s.Player2 = &SessionPlayer{ID: p2ID, DisplayName: p2Name, Number: 2}
	s.Status = StatusInProgress
	s.LastActivity = time.Now()
	return nil
}

// SetFrameFunc installs the per-tick consumer. Must be set before Start.
func (s *TableSession) SetFrameFunc(fn FrameFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onFrame = fn
}

// Submit queues a player command. Returns an error when the buffer is full
// rather than blocking the caller.
func (s *TableSession) Submit(cmd Command) error {
	s.mu.Lock()
	s.LastActivity = time.Now()
	s.mu.Unlock()

	select {
	case s.commands <- cmd:
		return nil
	default:
		return errors.New("command buffer full")
	}
}

// Start launches the simulation loop. A second call is a no-op.
func (s *TableSession) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	go s.run(ctx)
}

// Stop halts the simulation loop.
func (s *TableSession) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	s.running = false
}

// Scores returns the score pair and whose turn it is, from the most recent
// frame. The World itself is never read outside the loop goroutine.
func (s *TableSession) Scores() (p1, p2, current int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastFrame == nil {
		return 0, 0, 1
	}
	t := s.lastFrame.Turn
	return t.ScorePlayer1, t.ScorePlayer2, t.CurrentPlayer
}

// LastFrame returns the most recent tick result, or nil before the first tick.
func (s *TableSession) LastFrame() *StepResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastFrame
}

// Seats returns copies of both seats (player 2 may be nil) and the status.
func (s *TableSession) Seats() (*SessionPlayer, *SessionPlayer, SessionStatus) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var p1, p2 *SessionPlayer
	if s.Player1 != nil {
		c := *s.Player1
		p1 = &c
	}
	if s.Player2 != nil {
		c := *s.Player2
		p2 = &c
	}
	return p1, p2, s.Status
}

// PlayerByID returns the seat for the given player ID, or nil.
func (s *TableSession) PlayerByID(playerID string) *SessionPlayer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Player1 != nil && s.Player1.ID == playerID {
		return s.Player1
	}
	if s.Player2 != nil && s.Player2.ID == playerID {
		return s.Player2
	}
	return nil
}

// run is the fixed-timestep loop. It alone owns the World.
func (s *TableSession) run(ctx context.Context) {
	ticker := time.NewTicker(time.Second / TicksPerSecond)
	defer ticker.Stop()

	log.Printf("[SIM] Session %s loop started", s.ID)
	for {
		select {
		case <-ctx.Done():
			log.Printf("[SIM] Session %s loop stopped", s.ID)
			return
		case <-ticker.C:
			impulse := s.applyCommands()
			res, err := s.world.Step(impulse)
			if err != nil {
				// Degenerate geometry is recovered by skipping the tick; the
				// boundary keeps oscillating and the next parameter value
				// produces a valid polygon again.
				log.Printf("[SIM] Session %s tick error: %v", s.ID, err)
				continue
			}

			s.mu.Lock()
			s.lastFrame = res
			fn := s.onFrame
			s.mu.Unlock()
			if fn != nil {
				fn(res)
			}

			if Manager != nil && res.Tick%TicksPerSecond == 0 {
				Manager.saveSessionSnapshot(s, res)
			}
			if Manager != nil {
				for _, ev := range res.Events {
					if ev.Type == "pocket" {
						Manager.RecordPocket(s, ev)
					}
				}
			}
		}
	}
}

// applyCommands drains pending commands and returns the shot impulse to feed
// into this tick, if any. Toggles mutate the boundary directly, which is safe
// here because this runs on the loop goroutine between Steps.
func (s *TableSession) applyCommands() *Vec2 {
	var impulse *Vec2
	for {
		select {
		case cmd := <-s.commands:
			switch cmd.Kind {
			case "shot":
				if !s.isCurrentPlayer(cmd.PlayerID) || !s.world.AllStopped() {
					continue
				}
				v := cmd.Drag.Times(ImpulseScale)
				impulse = &v
			case "flip_x":
				if err := s.world.ToggleFlipX(); err != nil {
					log.Printf("[SIM] Session %s flip_x: %v", s.ID, err)
				}
			case "flip_y":
				if err := s.world.ToggleFlipY(); err != nil {
					log.Printf("[SIM] Session %s flip_y: %v", s.ID, err)
				}
			case "rotate":
				if err := s.world.Rotate(); err != nil {
					log.Printf("[SIM] Session %s rotate: %v", s.ID, err)
				}
			}
		default:
			return impulse
		}
	}
}

// isCurrentPlayer runs on the loop goroutine and may read the World directly.
func (s *TableSession) isCurrentPlayer(playerID string) bool {
	p := s.PlayerByID(playerID)
	if p == nil {
		return false
	}
	return p.Number == s.world.Turn().CurrentPlayer
}
