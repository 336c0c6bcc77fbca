package game

// TurnState tracks whose turn it is and each player's score. It is driven
// once per tick from the aggregate all-balls-stopped predicate rather than
// from discrete shot events.
type TurnState struct {
	CurrentPlayer   int  `json:"current_player"` // 1 or 2
	ScorePlayer1    int  `json:"score_player1"`
	ScorePlayer2    int  `json:"score_player2"`
	CaptureThisTurn bool `json:"-"`
	wasMoving       bool
}

// NewTurnState starts with player 1 to shoot and zero scores.
func NewTurnState() *TurnState {
	return &TurnState{CurrentPlayer: 1}
}

// MarkCapture records that a ball fell during this motion episode. Any
// capture — the scratch included — keeps the turn with the shooter.
func (t *TurnState) MarkCapture() {
	t.CaptureThisTurn = true
}

// AwardToOpponent gives a point to whichever player is not shooting and marks
// the capture.
func (t *TurnState) AwardToOpponent() {
	if t.CurrentPlayer == 1 {
		t.ScorePlayer2++
	} else {
		t.ScorePlayer1++
	}
	t.MarkCapture()
}

// Update evaluates the turn-advance condition for this tick. On the
// moving-to-stopped edge the turn passes to the other player unless a
// capture occurred during the episode; the capture flag resets either way.
func (t *TurnState) Update(allStopped bool) {
	if allStopped && t.wasMoving {
		if !t.CaptureThisTurn {
			t.CurrentPlayer = 3 - t.CurrentPlayer
		}
		t.CaptureThisTurn = false
	}
	t.wasMoving = !allStopped
}
