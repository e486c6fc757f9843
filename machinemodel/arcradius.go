package machinemodel

import "math"

// arcCenterFromRadius resolves an R-format arc's center from its
// endpoints and radius, in the plane's two in-plane axes ia/ib. Two
// circles of the given radius pass through both endpoints; following
// the RS274/NGC convention, a positive R selects the minor arc (sweep
// < 180deg) and a negative R the major arc (sweep > 180deg), with the
// two candidate centers on either side of the chord distinguished by
// direction (cw) so the resulting sweep matches the commanded sense.
func arcCenterFromRadius(start, end [6]float64, r float64, ia, ib int, cw bool) [6]float64 {
	x0, y0 := start[ia], start[ib]
	x1, y1 := end[ia], end[ib]

	dx, dy := x1-x0, y1-y0
	d := math.Hypot(dx, dy)
	if d == 0 {
		return start
	}

	absR := math.Abs(r)
	h2 := absR*absR - (d/2)*(d/2)
	if h2 < 0 {
		h2 = 0 // endpoints too far apart for this radius: clamp to semicircle
	}
	h := math.Sqrt(h2)

	mx, my := (x0+x1)/2, (y0+y1)/2
	// unit vector perpendicular to the chord
	ux, uy := -dy/d, dx/d

	// Candidate centers on each side of the chord.
	c1x, c1y := mx+ux*h, my+uy*h
	c2x, c2y := mx-ux*h, my-uy*h

	// Minor arc (positive R) sits on the side that keeps the sweep
	// under a half turn; major arc (negative R) the other side. Which
	// physical center that is also depends on winding direction.
	useC1 := (r >= 0) == cw

	var center [6]float64 = start
	if useC1 {
		center[ia], center[ib] = c1x, c1y
	} else {
		center[ia], center[ib] = c2x, c2y
	}
	return center
}
