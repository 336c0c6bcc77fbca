package game

// Pocket is a capture region derived from a polygon vertex. Pockets are
// recomputed every tick from the current polygon and never persisted.
type Pocket struct {
	ID       int     `json:"id"`
	Position Vec2    `json:"position"`
	Radius   float64 `json:"radius"`
}

// Capture records a ball falling into a pocket during the read-only scan.
type Capture struct {
	Ball   *Ball
	Pocket Pocket
	Speed  float64
}

// ComputePockets places one pocket at every len/NumPockets-th polygon vertex,
// offset along the vertex's neighbor bisector. Pockets must sit just outside
// the boundary, so the offset is inverted whenever the ray-cast containment
// test says it landed inside.
func ComputePockets(poly Polygon) []Pocket {
	step := len(poly) / NumPockets
	if step < 1 {
		step = 1
	}

	pockets := make([]Pocket, 0, NumPockets)
	n := len(poly)
	for i := 0; i < n; i += step {
		v := poly[i]
		prev := poly[(i-1+n)%n]
		next := poly[(i+1)%n]

		bisector := prev.Minus(v).Normalize().Plus(next.Minus(v).Normalize()).Normalize()
		pos := v
		if !bisector.IsZero() {
			pos = v.Plus(bisector.Times(PocketOffset))
			if poly.Contains(pos) {
				pos = v.Minus(bisector.Times(PocketOffset))
			}
		}

		pockets = append(pockets, Pocket{
			ID:       len(pockets),
			Position: pos,
			Radius:   PocketRadius,
		})
	}
	return pockets
}

// CheckCaptures scans active balls against the pockets without mutating
// anything; removals and respawns are applied by the caller afterward.
func CheckCaptures(balls []*Ball, pockets []Pocket) []Capture {
	var captures []Capture
	for _, ball := range balls {
		if !ball.Active {
			continue
		}
		for _, p := range pockets {
			if ball.Position.DistanceTo(p.Position) < p.Radius {
				captures = append(captures, Capture{
					Ball:   ball,
					Pocket: p,
					Speed:  ball.Velocity.Magnitude(),
				})
				break
			}
		}
	}
	return captures
}

// FreePosition finds a spot for the respawned cue ball: start at the table
// center and step diagonally until the spot clears every active ball.
func FreePosition(balls []*Ball) Vec2 {
	pos := NewVec2(TableDimension/2, TableDimension/2)
	for {
		free := true
		for _, b := range balls {
			if !b.Active {
				continue
			}
			if b.Position.DistanceTo(pos) < 2*b.Radius {
				free = false
				break
			}
		}
		if free {
			return pos
		}
		pos = pos.Plus(NewVec2(5, 5))
	}
}
