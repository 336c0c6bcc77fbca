package game

import "math"

// Physics and table constants for the morphing-table simulation.
// The reference table is 1024x1024 logical units at 60 ticks per second.

const (
	TableDimension = 1024.0
	TableMargin    = 20.0 // boundary polygon is rescaled to [margin, dim-margin]

	BallRadius   = 10.0
	PocketRadius = 12.0 // slightly larger than a ball
	PocketOffset = 12.0 // distance from vertex along the bisector
	NumPockets   = 7

	NumBalls    = 22 // cue ball + a 6-row triangle rack (1+2+...+6)
	RackSpacing = 22.0

	Friction    = 0.98 // multiplicative per-tick velocity decay
	MinVelocity = 0.01 // below this a ball snaps to rest

	DeltaP            = 0.001 // boundary parameter step per tick
	ShapeVertices     = 14
	RotationStep      = math.Pi / 6
	RescueVelocity    = 2.0 // momentum injected by a sweeping wall
	ImpulseScale      = 0.1 // drag vector to cue velocity
	MaxPushIterations = 64  // cap on push-out loops (wall + rescue)
	TicksPerSecond    = 60
)
