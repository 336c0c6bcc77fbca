package game

// BoundaryTracker owns the oscillating boundary parameter and caches the
// polygons derived from it. Current() and Lookahead() share vertex indexing,
// so edge i of each describes the same physical wall patch one tick apart —
// the overlap-rescue pass depends on that alignment.
type BoundaryTracker struct {
	gen       *ShapeGenerator
	p         float64
	direction float64 // +1 or -1
	deltaP    float64

	flipX    bool
	flipY    bool
	rotation float64

	current   Polygon
	lookahead Polygon
}

// NewBoundaryTracker starts the boundary at p=0 moving upward and computes
// the initial polygon pair.
func NewBoundaryTracker(gen *ShapeGenerator, deltaP float64) (*BoundaryTracker, error) {
	bt := &BoundaryTracker{
		gen:       gen,
		direction: 1,
		deltaP:    deltaP,
	}
	if err := bt.recompute(); err != nil {
		return nil, err
	}
	return bt, nil
}

// Advance steps the parameter one tick, reflecting at 0 and 1, and refreshes
// the cached polygons.
func (bt *BoundaryTracker) Advance() error {
	bt.p += bt.direction * bt.deltaP
	if bt.p > 1 {
		bt.p = 1
		bt.direction = -1
	} else if bt.p < 0 {
		bt.p = 0
		bt.direction = 1
	}
	return bt.recompute()
}

func (bt *BoundaryTracker) recompute() error {
	cur, err := bt.gen.Generate(bt.p, bt.flipX, bt.flipY, bt.rotation)
	if err != nil {
		return err
	}
	next, err := bt.gen.Generate(bt.p+bt.direction*bt.deltaP, bt.flipX, bt.flipY, bt.rotation)
	if err != nil {
		return err
	}
	bt.current = cur
	bt.lookahead = next
	return nil
}

// Current returns the polygon at the present parameter value.
func (bt *BoundaryTracker) Current() Polygon { return bt.current }

// Lookahead returns the polygon one tick ahead, index-aligned with Current.
func (bt *BoundaryTracker) Lookahead() Polygon { return bt.lookahead }

// P returns the present boundary parameter.
func (bt *BoundaryTracker) P() float64 { return bt.p }

// Direction returns the present oscillation direction, +1 or -1.
func (bt *BoundaryTracker) Direction() float64 { return bt.direction }

// ToggleFlipX mirrors the shape across the y axis.
func (bt *BoundaryTracker) ToggleFlipX() error {
	bt.flipX = !bt.flipX
	return bt.recompute()
}

// ToggleFlipY mirrors the shape across the x axis.
func (bt *BoundaryTracker) ToggleFlipY() error {
	bt.flipY = !bt.flipY
	return bt.recompute()
}

// Rotate adds to the shape's rotation angle in radians.
func (bt *BoundaryTracker) Rotate(rad float64) error {
	bt.rotation += rad
	return bt.recompute()
}
