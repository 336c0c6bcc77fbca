package game

// World owns all simulation state for one table: the morphing boundary, the
// ball set, derived pockets, and the turn tracker. It is not safe for
// concurrent use; a single control goroutine must drive Step.
type World struct {
	boundary *BoundaryTracker
	balls    []*Ball
	turn     *TurnState
	pockets  []Pocket
	tick     uint64
}

// StepResult is the per-tick output consumed by rendering, audio, and
// networking collaborators.
type StepResult struct {
	Tick    uint64           `json:"tick"`
	Balls   []Ball           `json:"balls"`
	Polygon Polygon          `json:"polygon"`
	Pockets []Pocket         `json:"pockets"`
	Events  []CollisionEvent `json:"events,omitempty"`
	Turn    TurnState        `json:"turn"`
	P       float64          `json:"p"`
}

// NewWorld racks the balls and computes the initial boundary and pockets.
func NewWorld() (*World, error) {
	gen := NewShapeGenerator(TableDimension, TableMargin)
	boundary, err := NewBoundaryTracker(gen, DeltaP)
	if err != nil {
		return nil, err
	}
	return &World{
		boundary: boundary,
		balls:    NewRack(),
		turn:     NewTurnState(),
		pockets:  ComputePockets(boundary.Current()),
	}, nil
}

// AllStopped reports whether every active ball is at rest. An empty active
// set counts as stopped.
func (w *World) AllStopped() bool {
	for _, b := range w.balls {
		if b.Active && b.Moving() {
			return false
		}
	}
	return true
}

// CueBall returns the cue ball.
func (w *World) CueBall() *Ball { return w.balls[0] }

// Turn returns the turn tracker.
func (w *World) Turn() *TurnState { return w.turn }

// Step advances the simulation one tick. Order is fixed: boundary advance,
// per-ball integration with wall reflection and overlap rescue, pocket
// capture, all-pairs ball-ball collision, turn evaluation. shotImpulse, if
// non-nil, is assigned to the cue ball first — and only when every ball is
// already at rest, matching the cue-stick rule.
func (w *World) Step(shotImpulse *Vec2) (*StepResult, error) {
	if shotImpulse != nil && w.AllStopped() && w.balls[0].Active {
		w.balls[0].Velocity = *shotImpulse
	}

	if err := w.boundary.Advance(); err != nil {
		return nil, err
	}
	cur := w.boundary.Current()
	next := w.boundary.Lookahead()
	w.pockets = ComputePockets(cur)

	var events []CollisionEvent
	for _, ball := range w.balls {
		if !ball.Active {
			continue
		}
		ball.Integrate(TableDimension)
		events = append(events, reflectOffWalls(ball, cur)...)
		rescueFromWalls(ball, cur, next)
	}

	// Captures are collected read-only, then applied, so the ball scan above
	// never races its own removals.
	for _, c := range CheckCaptures(w.balls, w.pockets) {
		events = append(events, CollisionEvent{
			Type:     "pocket",
			BallID:   c.Ball.ID,
			TargetID: c.Pocket.ID,
			Speed:    c.Speed,
		})
		c.Ball.Active = false
		c.Ball.Velocity = Vec2{}
		if c.Ball.IsCue() {
			c.Ball.Position = FreePosition(w.balls)
			c.Ball.Active = true
			w.turn.MarkCapture()
		} else {
			w.turn.AwardToOpponent()
		}
	}

	// Stable index order keeps pair resolution deterministic.
	for i := 0; i < len(w.balls); i++ {
		if !w.balls[i].Active {
			continue
		}
		for j := i + 1; j < len(w.balls); j++ {
			if !w.balls[j].Active {
				continue
			}
			events = append(events, resolveBallBall(w.balls[i], w.balls[j])...)
		}
	}

	w.turn.Update(w.AllStopped())
	w.tick++

	return w.snapshot(events), nil
}

// ToggleFlipX mirrors the table shape across the y axis.
func (w *World) ToggleFlipX() error { return w.boundary.ToggleFlipX() }

// ToggleFlipY mirrors the table shape across the x axis.
func (w *World) ToggleFlipY() error { return w.boundary.ToggleFlipY() }

// Rotate turns the table shape by one rotation step.
func (w *World) Rotate() error { return w.boundary.Rotate(RotationStep) }

func (w *World) snapshot(events []CollisionEvent) *StepResult {
	balls := make([]Ball, len(w.balls))
	for i, b := range w.balls {
		balls[i] = *b
	}
	poly := make(Polygon, len(w.boundary.Current()))
	copy(poly, w.boundary.Current())
	pockets := make([]Pocket, len(w.pockets))
	copy(pockets, w.pockets)

	return &StepResult{
		Tick:    w.tick,
		Balls:   balls,
		Polygon: poly,
		Pockets: pockets,
		Events:  events,
		Turn:    *w.turn,
		P:       w.boundary.P(),
	}
}
