package game

// Ball is a single disc's kinematic state. ID 0 is the cue ball.
type Ball struct {
	ID       int     `json:"id"`
	Position Vec2    `json:"position"`
	Velocity Vec2    `json:"velocity"`
	Radius   float64 `json:"radius"`
	Active   bool    `json:"active"`
}

// IsCue reports whether this is the cue ball.
func (b *Ball) IsCue() bool { return b.ID == 0 }

// Moving reports whether the ball is above the negligible-motion threshold.
func (b *Ball) Moving() bool {
	return b.Velocity.MagnitudeSquared() > MinVelocity*MinVelocity
}

// Integrate advances the ball one tick: move by velocity, apply friction,
// snap to rest below the threshold, and bounce off the table edges.
func (b *Ball) Integrate(dimension float64) {
	b.Position = b.Position.Plus(b.Velocity)
	b.Velocity = b.Velocity.Times(Friction)
	if !b.Moving() {
		b.Velocity = Vec2{}
	}

	if b.Position.X-b.Radius <= 0 || b.Position.X+b.Radius >= dimension {
		b.Velocity.X = -b.Velocity.X
	}
	if b.Position.Y-b.Radius <= 0 || b.Position.Y+b.Radius >= dimension {
		b.Velocity.Y = -b.Velocity.Y
	}
}

// NewRack creates the cue ball plus a six-row triangle of object balls
// centered on the table.
func NewRack() []*Ball {
	balls := make([]*Ball, 0, NumBalls)
	balls = append(balls, &Ball{
		ID:       0,
		Position: NewVec2(TableDimension/2, TableDimension-100),
		Radius:   BallRadius,
		Active:   true,
	})

	startX := TableDimension / 2
	startY := TableDimension / 2
	id := 1
	for row := 1; row <= 6; row++ {
		for col := 0; col < row; col++ {
			x := startX + float64(col)*RackSpacing - float64(row-1)*RackSpacing/2
			y := startY + float64(row-1)*RackSpacing
			balls = append(balls, &Ball{
				ID:       id,
				Position: NewVec2(x, y),
				Radius:   BallRadius,
				Active:   true,
			})
			id++
		}
	}
	return balls
}
