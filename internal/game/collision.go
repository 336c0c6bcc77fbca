package game

// CollisionEvent records a collision for sound playback and clients.
type CollisionEvent struct {
	Type     string  `json:"type"` // "wall", "ball", "pocket"
	BallID   int     `json:"ball_id"`
	TargetID int     `json:"target_id"` // other ball ID, segment index, or pocket index
	Speed    float64 `json:"speed"`     // impact speed (for sound pitch/volume)
}

// collidesWithSegment reports whether a disc overlaps the segment a-b, using
// the closest point on the segment via clamped projection. Zero-length
// segments never collide.
func collidesWithSegment(pos Vec2, radius float64, a, b Vec2) bool {
	line := b.Minus(a)
	lenSq := line.MagnitudeSquared()
	if lenSq == 0 {
		return false
	}
	t := pos.Minus(a).Dot(line) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	closest := a.Plus(line.Times(t))
	return pos.DistanceTo(closest) <= radius
}

// reflectOffWalls applies wall reflection for every boundary segment the ball
// overlaps: reflect velocity about the segment normal, then push the ball
// along the normal until clear, capped at MaxPushIterations. Residual overlap
// past the cap is accepted and left for the next tick.
func reflectOffWalls(ball *Ball, poly Polygon) []CollisionEvent {
	var events []CollisionEvent
	for i := range poly {
		a, b := poly.Segment(i)
		if a.Minus(b).IsZero() {
			continue
		}
		if !collidesWithSegment(ball.Position, ball.Radius, a, b) {
			continue
		}

		// Orient the normal toward the ball so push-out stays on its side of
		// the wall; the generated polygon's winding is not fixed.
		normal := b.Minus(a).RightNormal().Normalize()
		if ball.Position.Minus(a).Dot(normal) < 0 {
			normal = normal.Times(-1)
		}
		impact := ball.Velocity.Dot(normal)
		ball.Velocity = ball.Velocity.Minus(normal.Times(2 * impact))

		for iter := 0; iter < MaxPushIterations; iter++ {
			if !collidesWithSegment(ball.Position, ball.Radius, a, b) {
				break
			}
			ball.Position = ball.Position.Plus(normal)
		}

		events = append(events, CollisionEvent{
			Type:     "wall",
			BallID:   ball.ID,
			TargetID: i,
			Speed:    abs(impact),
		})
	}
	return events
}

// rescueFromWalls frees a ball caught inside a wall that is sweeping through
// it. For each overlapped segment, the ball is pushed along the direction the
// wall itself is moving (current midpoint toward next-tick midpoint of the
// same edge index) and picks up velocity in that direction, so the wall's
// motion transfers into the ball instead of trapping it.
func rescueFromWalls(ball *Ball, cur, next Polygon) {
	for i := range cur {
		a, b := cur.Segment(i)
		if a.Minus(b).IsZero() {
			continue
		}
		if !collidesWithSegment(ball.Position, ball.Radius, a, b) {
			continue
		}

		na, nb := next.Segment(i)
		mid := a.Plus(b).Times(0.5)
		nextMid := na.Plus(nb).Times(0.5)
		dir := nextMid.Minus(mid).Normalize()
		if dir.IsZero() {
			// Wall patch is stationary this tick; nothing to transfer.
			continue
		}

		for iter := 0; iter < MaxPushIterations; iter++ {
			if !collidesWithSegment(ball.Position, ball.Radius, a, b) {
				break
			}
			ball.Position = ball.Position.Plus(dir)
		}
		ball.Velocity = ball.Velocity.Plus(dir.Times(RescueVelocity))
	}
}

// resolveBallBall performs an elastic collision between two discs using
// radius as the mass proxy. Overlap is split evenly along the center axis,
// normal components exchange by the 1-D elastic formula, tangential
// components pass through. Returns the events emitted, empty if the pair is
// not in contact. Coincident centers cannot be separated and are a no-op.
func resolveBallBall(b1, b2 *Ball) []CollisionEvent {
	dist := b1.Position.DistanceTo(b2.Position)
	if dist >= b1.Radius+b2.Radius {
		return nil
	}

	dir := b1.Position.Minus(b2.Position).Normalize()
	if dir.IsZero() {
		return nil
	}

	overlap := (b1.Radius + b2.Radius) - dist
	b1.Position = b1.Position.Plus(dir.Times(overlap / 2))
	b2.Position = b2.Position.Minus(dir.Times(overlap / 2))

	normal := dir
	tangent := normal.RightNormal()

	v1n := b1.Velocity.Dot(normal)
	v1t := b1.Velocity.Dot(tangent)
	v2n := b2.Velocity.Dot(normal)
	v2t := b2.Velocity.Dot(tangent)

	r1, r2 := b1.Radius, b2.Radius
	v1nNew := v1n*(r1-r2)/(r1+r2) + v2n*2*r2/(r1+r2)
	v2nNew := v2n*(r2-r1)/(r1+r2) + v1n*2*r1/(r1+r2)

	b1.Velocity = normal.Times(v1nNew).Plus(tangent.Times(v1t))
	b2.Velocity = normal.Times(v2nNew).Plus(tangent.Times(v2t))

	impact := abs(v1n - v2n)
	return []CollisionEvent{
		{Type: "ball", BallID: b1.ID, TargetID: b2.ID, Speed: impact},
		{Type: "ball", BallID: b2.ID, TargetID: b1.ID, Speed: impact},
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
