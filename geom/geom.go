package geom

import "math"

// Point is a position in logical space: unit-scaled, y-up, origin at the
// canvas center.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Vector2 represents a 2D vector
type Vector2 struct {
	X, Y float64
}

// Sub returns the vector pointing from b to a.
func (a Point) Sub(b Point) Vector2 {
	return Vector2{X: a.X - b.X, Y: a.Y - b.Y}
}

// Add offsets the point by v.
func (a Point) Add(v Vector2) Point {
	return Point{X: a.X + v.X, Y: a.Y + v.Y}
}

// Dot returns the dot product of two vectors
func (v Vector2) Dot(other Vector2) float64 {
	return v.X*other.X + v.Y*other.Y
}

// Scale multiplies both components by f.
func (v Vector2) Scale(f float64) Vector2 {
	return Vector2{X: v.X * f, Y: v.Y * f}
}

// LengthSquared avoids the square root when only comparisons are needed.
func (v Vector2) LengthSquared() float64 {
	return v.Dot(v)
}

// Distance returns the euclidean distance between two points.
func Distance(a, b Point) float64 {
	return math.Sqrt(a.Sub(b).LengthSquared())
}

// SegmentDistance returns the distance from p to the closed segment
// [start, end]. The projection of p onto the line through start and end is
// clamped to the segment, so points "before" or "after" the segment measure
// to the nearer endpoint. A zero-length segment degrades to Distance(p, start).
func SegmentDistance(p, start, end Point) float64 {
	d := end.Sub(start)
	lenSq := d.LengthSquared()
	if lenSq == 0 {
		return Distance(p, start)
	}

	t := p.Sub(start).Dot(d) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	return Distance(p, start.Add(d.Scale(t)))
}
