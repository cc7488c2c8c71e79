package atmosphere

import "math"

// PathElem is one accumulated point along a ray: dist is the arc-length
// along the Earth-surface projection (RayState.X), elev is absolute
// altitude, and pathLength is the cumulative curved-path arc length from
// the observer, which the stepper itself does not track.
type PathElem struct {
	Dist       float64
	Elev       float64
	PathLength float64
}

// PathWalker wraps a RayStepper and accumulates PathLength incrementally,
// since the stepper's contract stops at (x, h, dh).
type PathWalker struct {
	stepper    *RayStepper
	radius     float64
	flat       bool
	prev       RayState
	started    bool
	cumulative float64
}

// NewPathWalker builds a PathWalker over stepper. radius and flat select
// which Δs formula accumulates path length, matching the same Flat/Spherical
// split used by the stepper's curvature term.
func NewPathWalker(stepper *RayStepper, radius float64, flat bool) *PathWalker {
	return &PathWalker{stepper: stepper, radius: radius, flat: flat}
}

// Next returns the next PathElem in the sequence.
func (w *PathWalker) Next() PathElem {
	cur := w.stepper.Next()
	if !w.started {
		w.started = true
		w.prev = cur
		return PathElem{Dist: cur.X, Elev: cur.H, PathLength: 0}
	}

	dx := cur.X - w.prev.X
	dh := cur.H - w.prev.H

	var ds float64
	if w.flat {
		ds = math.Sqrt(dx*dx + dh*dh)
	} else {
		hMid := (cur.H + w.prev.H) / 2
		proj := dx * (1 + hMid/w.radius)
		ds = math.Sqrt(proj*proj + dh*dh)
	}

	w.cumulative += ds
	w.prev = cur
	return PathElem{Dist: cur.X, Elev: cur.H, PathLength: w.cumulative}
}
