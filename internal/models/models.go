package models

import "time"

// Session is a row in the sessions table.
type Session struct {
	ID           int        `db:"id"`
	SessionID    string     `db:"session_id"`
	Token        string     `db:"token"`
	Status       string     `db:"status"`
	ScorePlayer1 int        `db:"score_player1"`
	ScorePlayer2 int        `db:"score_player2"`
	CreatedAt    time.Time  `db:"created_at"`
	StartedAt    *time.Time `db:"started_at"`
	CompletedAt  *time.Time `db:"completed_at"`
}

// PocketEvent is a row in the pocket_events table.
type PocketEvent struct {
	ID           int       `db:"id"`
	SessionID    string    `db:"session_id"`
	BallID       int       `db:"ball_id"`
	PocketID     int       `db:"pocket_id"`
	PlayerNumber int       `db:"player_number"`
	ImpactSpeed  float64   `db:"impact_speed"`
	CreatedAt    time.Time `db:"created_at"`
}
