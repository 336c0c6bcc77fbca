package game

import (
	"math"
	"testing"
)

func testBall(id int, x, y, vx, vy float64) *Ball {
	return &Ball{
		ID:       id,
		Position: NewVec2(x, y),
		Velocity: NewVec2(vx, vy),
		Radius:   BallRadius,
		Active:   true,
	}
}

func TestHeadOnEqualRadiiExchangeVelocities(t *testing.T) {
	b1 := testBall(1, 0, 0, 5, 0)
	b2 := testBall(2, 19, 0, -5, 0)

	events := resolveBallBall(b1, b2)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	const eps = 1e-9
	if math.Abs(b1.Velocity.X+5) > eps || math.Abs(b1.Velocity.Y) > eps {
		t.Errorf("ball 1 velocity = %v, want (-5, 0)", b1.Velocity)
	}
	if math.Abs(b2.Velocity.X-5) > eps || math.Abs(b2.Velocity.Y) > eps {
		t.Errorf("ball 2 velocity = %v, want (+5, 0)", b2.Velocity)
	}
}

func TestBallBallSeparatesOverlap(t *testing.T) {
	b1 := testBall(1, 0, 0, 1, 0)
	b2 := testBall(2, 12, 0, 0, 0)

	resolveBallBall(b1, b2)

	dist := b1.Position.DistanceTo(b2.Position)
	if dist < b1.Radius+b2.Radius-1e-9 {
		t.Errorf("balls still overlap after resolution: dist=%v", dist)
	}
}

func TestBallBallConservesNormalMomentum(t *testing.T) {
	cases := []struct {
		v1, v2 Vec2
	}{
		{NewVec2(5, 0), NewVec2(-5, 0)},
		{NewVec2(3, 1), NewVec2(-2, 0.5)},
		{NewVec2(0, 0), NewVec2(-4, 2)},
	}

	for _, tc := range cases {
		b1 := testBall(1, 0, 0, tc.v1.X, tc.v1.Y)
		b2 := testBall(2, 18, 3, tc.v2.X, tc.v2.Y)

		normal := b1.Position.Minus(b2.Position).Normalize()
		before := b1.Radius*b1.Velocity.Dot(normal) + b2.Radius*b2.Velocity.Dot(normal)

		resolveBallBall(b1, b2)

		after := b1.Radius*b1.Velocity.Dot(normal) + b2.Radius*b2.Velocity.Dot(normal)
		if math.Abs(before-after) > 1e-9 {
			t.Errorf("v1=%v v2=%v: normal momentum %v -> %v", tc.v1, tc.v2, before, after)
		}
	}
}

func TestCoincidentCentersNoOp(t *testing.T) {
	b1 := testBall(1, 100, 100, 3, 0)
	b2 := testBall(2, 100, 100, -3, 0)

	events := resolveBallBall(b1, b2)
	if events != nil {
		t.Errorf("coincident centers should be a no-op, got %d events", len(events))
	}
	if b1.Velocity.X != 3 || b2.Velocity.X != -3 {
		t.Error("coincident centers must not change velocities")
	}
}

func TestNonTouchingPairUnaffected(t *testing.T) {
	b1 := testBall(1, 0, 0, 1, 0)
	b2 := testBall(2, 100, 0, -1, 0)

	if events := resolveBallBall(b1, b2); events != nil {
		t.Errorf("distant balls should not collide, got %d events", len(events))
	}
}

func TestWallReflectionReversesNormalComponent(t *testing.T) {
	// Horizontal wall along y=0; ball above it, moving down into it.
	poly := Polygon{
		{X: -100, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: -200}, {X: -100, Y: -200},
	}
	ball := testBall(0, 0, 5, 2, -3)

	events := reflectOffWalls(ball, poly)
	if len(events) == 0 {
		t.Fatal("expected a wall collision event")
	}
	if events[0].Type != "wall" {
		t.Errorf("event type = %q, want wall", events[0].Type)
	}

	if ball.Velocity.Y != 3 {
		t.Errorf("normal component not reversed: vy=%v, want 3", ball.Velocity.Y)
	}
	if ball.Velocity.X != 2 {
		t.Errorf("tangential component changed: vx=%v, want 2", ball.Velocity.X)
	}
	if collidesWithSegment(ball.Position, ball.Radius, poly[0], poly[1]) {
		t.Error("ball still overlaps the wall after push-out")
	}
}

func TestZeroLengthSegmentSkipped(t *testing.T) {
	poly := Polygon{
		{X: 0, Y: 0}, {X: 0, Y: 0}, {X: 50, Y: 0},
	}
	ball := testBall(0, 0, 3, 0, -1)

	// Must not panic or divide by zero on the degenerate first edge.
	reflectOffWalls(ball, poly)
}

func TestRescuePushesBallAlongWallMotion(t *testing.T) {
	// Wall along y=0 now, y=2 next tick: sweeping upward through the ball.
	cur := Polygon{
		{X: -100, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: -200}, {X: -100, Y: -200},
	}
	next := Polygon{
		{X: -100, Y: 2}, {X: 100, Y: 2}, {X: 100, Y: -198}, {X: -100, Y: -198},
	}

	ball := testBall(0, 0, 4, 0, 0)
	rescueFromWalls(ball, cur, next)

	if collidesWithSegment(ball.Position, ball.Radius, cur[0], cur[1]) {
		t.Error("ball still caught in the swept wall")
	}
	if ball.Velocity.Y < RescueVelocity {
		t.Errorf("wall motion not transferred: vy=%v, want >= %v", ball.Velocity.Y, RescueVelocity)
	}
	if ball.Position.Y <= 4 {
		t.Errorf("ball not pushed along the wall's motion: y=%v", ball.Position.Y)
	}
}

func TestStationaryWallRescueIsNoOp(t *testing.T) {
	cur := Polygon{
		{X: -100, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: -200}, {X: -100, Y: -200},
	}
	ball := testBall(0, 0, 4, 1, 1)

	rescueFromWalls(ball, cur, cur)

	if ball.Position != NewVec2(0, 4) || ball.Velocity != NewVec2(1, 1) {
		t.Error("rescue against an identical lookahead polygon must not move the ball")
	}
}
