package game

import (
	"errors"
	"math"
)

// Polygon is an ordered, closed sequence of vertices. The segment after the
// last vertex wraps back to the first.
type Polygon []Vec2

// ErrDegenerateShape is returned when the generated outline collapses to a
// zero-width or zero-height bounding box and cannot be rescaled to the table.
var ErrDegenerateShape = errors.New("game: degenerate shape, zero bounding box extent")

// spectreDivisors controls the turning direction at each vertex; negative
// entries reverse the turn, producing the non-convex outline.
var spectreDivisors = [ShapeVertices]float64{0.5, 2, -2, 3, 2, 3, -2, 3, 2, -3, 2, -3, 2, 3}

// ShapeGenerator maps a boundary parameter in [0,1] to the table polygon.
// The per-vertex magnitude and angle tables are fixed at construction.
type ShapeGenerator struct {
	magnitudes [ShapeVertices]float64
	angles     [ShapeVertices]float64
	dimension  float64
	margin     float64
}

// NewShapeGenerator precomputes the spectre-tile magnitude and angle tables.
func NewShapeGenerator(dimension, margin float64) *ShapeGenerator {
	g := &ShapeGenerator{dimension: dimension, margin: margin}
	sum := 0.0
	for i := 0; i < ShapeVertices; i++ {
		g.magnitudes[i] = math.Cos(1.6*float64(i+1)) + 2
		sum += math.Pi / spectreDivisors[i]
		g.angles[i] = sum
	}
	return g
}

// Generate produces the table polygon for parameter p. Vertex i is the
// cumulative sum of (1-p + p*m_j)*(cos a_j, sin a_j) over j <= i, optionally
// flipped and rotated, then rescaled so the bounding box spans
// [margin, dimension-margin] on both axes.
func (g *ShapeGenerator) Generate(p float64, flipX, flipY bool, rotation float64) (Polygon, error) {
	poly := make(Polygon, ShapeVertices)

	var x, y float64
	for i := 0; i < ShapeVertices; i++ {
		m := (1 - p) + p*g.magnitudes[i]
		x += m * math.Cos(g.angles[i])
		y += m * math.Sin(g.angles[i])
		poly[i] = Vec2{X: x, Y: y}
	}

	for i := range poly {
		if flipX {
			poly[i].X = -poly[i].X
		}
		if flipY {
			poly[i].Y = -poly[i].Y
		}
		poly[i] = poly[i].RotateRad(rotation)
	}

	minX, maxX := poly[0].X, poly[0].X
	minY, maxY := poly[0].Y, poly[0].Y
	for _, v := range poly[1:] {
		minX = math.Min(minX, v.X)
		maxX = math.Max(maxX, v.X)
		minY = math.Min(minY, v.Y)
		maxY = math.Max(maxY, v.Y)
	}
	if maxX == minX || maxY == minY {
		return nil, ErrDegenerateShape
	}

	span := g.dimension - 2*g.margin
	for i := range poly {
		poly[i].X = (poly[i].X-minX)/(maxX-minX)*span + g.margin
		poly[i].Y = (poly[i].Y-minY)/(maxY-minY)*span + g.margin
	}

	return poly, nil
}

// Segment returns the endpoints of edge i, wrapping the last edge to the
// first vertex.
func (p Polygon) Segment(i int) (Vec2, Vec2) {
	return p[i], p[(i+1)%len(p)]
}

// Contains reports whether the point lies inside the polygon, by ray casting
// along +x.
func (p Polygon) Contains(pt Vec2) bool {
	inside := false
	n := len(p)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := p[i], p[j]
		if (a.Y > pt.Y) != (b.Y > pt.Y) &&
			pt.X < (b.X-a.X)*(pt.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}
