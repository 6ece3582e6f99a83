package geom

import "math"

// PolygonContains reports whether p lies inside the implicitly closed
// polygon. Points exactly on an edge count as inside.
func PolygonContains(polygon []Point, p Point) bool {
	if len(polygon) < 3 {
		return false
	}

	const epsilon = 1e-9
	inside := false
	j := len(polygon) - 1
	for i := range polygon {
		a, b := polygon[i], polygon[j]
		if SegmentDistance(p, a, b) < epsilon {
			return true
		}
		// Crossing test on a horizontal ray towards +x
		if (a.Y > p.Y) != (b.Y > p.Y) {
			xCross := a.X + (p.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
			if p.X < xCross {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// PolygonDistance is 0 for points inside the polygon and the distance to
// the nearest edge otherwise. Polygons with fewer than two vertices are
// never near anything.
func PolygonDistance(polygon []Point, p Point) float64 {
	switch len(polygon) {
	case 0:
		return math.Inf(1)
	case 1:
		return Distance(p, polygon[0])
	}

	if PolygonContains(polygon, p) {
		return 0
	}

	best := math.Inf(1)
	j := len(polygon) - 1
	for i := range polygon {
		if d := SegmentDistance(p, polygon[j], polygon[i]); d < best {
			best = d
		}
		j = i
	}
	return best
}
