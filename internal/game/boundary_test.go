package game

import "testing"

func newTestTracker(t *testing.T, deltaP float64) *BoundaryTracker {
	t.Helper()
	gen := NewShapeGenerator(TableDimension, TableMargin)
	bt, err := NewBoundaryTracker(gen, deltaP)
	if err != nil {
		t.Fatalf("NewBoundaryTracker failed: %v", err)
	}
	return bt
}

func TestBoundaryParameterStaysInRange(t *testing.T) {
	bt := newTestTracker(t, 0.01)

	for i := 0; i < 1000; i++ {
		if err := bt.Advance(); err != nil {
			t.Fatalf("Advance failed at tick %d: %v", i, err)
		}
		if p := bt.P(); p < 0 || p > 1 {
			t.Fatalf("p left [0,1] at tick %d: %v", i, p)
		}
	}
}

func TestBoundaryTriangleWave(t *testing.T) {
	bt := newTestTracker(t, 0.01)

	var flips int
	prevDir := bt.Direction()
	for i := 0; i < 1000; i++ {
		if err := bt.Advance(); err != nil {
			t.Fatalf("Advance failed: %v", err)
		}
		dir := bt.Direction()
		if dir != prevDir {
			// Direction may only change at the clamped endpoints.
			if p := bt.P(); p != 0 && p != 1 {
				t.Fatalf("direction flipped at p=%v, want 0 or 1", p)
			}
			flips++
			prevDir = dir
		}
	}
	if flips < 2 {
		t.Errorf("expected repeated oscillation over 1000 ticks, got %d flips", flips)
	}
}

func TestLookaheadSharesIndexing(t *testing.T) {
	bt := newTestTracker(t, DeltaP)

	cur := bt.Current()
	next := bt.Lookahead()
	if len(cur) != len(next) {
		t.Fatalf("current has %d vertices, lookahead has %d", len(cur), len(next))
	}

	// Each lookahead vertex should be a small perturbation of its
	// current-tick counterpart, never a reindexed distant one.
	for i := range cur {
		if d := cur[i].DistanceTo(next[i]); d > 25 {
			t.Errorf("vertex %d moved %v units in one tick, indexing is misaligned", i, d)
		}
	}
}

func TestOrientationTogglesRecompute(t *testing.T) {
	bt := newTestTracker(t, DeltaP)

	before := bt.Current()[0]
	if err := bt.ToggleFlipX(); err != nil {
		t.Fatalf("ToggleFlipX failed: %v", err)
	}
	flipped := bt.Current()[0]
	if before == flipped {
		t.Error("polygon unchanged after flip")
	}

	if err := bt.ToggleFlipX(); err != nil {
		t.Fatalf("ToggleFlipX failed: %v", err)
	}
	restored := bt.Current()[0]
	if before != restored {
		t.Errorf("double flip should restore the polygon: %v vs %v", before, restored)
	}
}
