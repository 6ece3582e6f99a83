package render

import (
	"math"

	"github.com/bloodmagesoftware/geoanswer/viewport"
)

// Dashes splits a path into the visible pieces of an on/off dash pattern.
// An empty or non-positive pattern returns the whole path as one piece.
func Dashes(pts []viewport.ScreenPoint, closed bool, pattern []float64) [][]viewport.ScreenPoint {
	if closed && len(pts) > 1 {
		pts = append(pts[:len(pts):len(pts)], pts[0])
	}
	if len(pts) < 2 || !validPattern(pattern) {
		return [][]viewport.ScreenPoint{pts}
	}

	var out [][]viewport.ScreenPoint
	cur := []viewport.ScreenPoint{pts[0]}
	idx, left, on := 0, pattern[0], true

	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		seg := math.Hypot(b.X-a.X, b.Y-a.Y)
		pos := 0.0
		for seg-pos > left {
			pos += left
			t := pos / seg
			p := viewport.ScreenPoint{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
			if on {
				out = append(out, append(cur, p))
				cur = nil
			} else {
				cur = []viewport.ScreenPoint{p}
			}
			on = !on
			idx = (idx + 1) % len(pattern)
			left = pattern[idx]
		}
		left -= seg - pos
		if on {
			cur = append(cur, b)
		}
	}
	if on && len(cur) > 1 {
		out = append(out, cur)
	}
	return out
}

func validPattern(pattern []float64) bool {
	if len(pattern) == 0 {
		return false
	}
	for _, d := range pattern {
		if d <= 0 {
			return false
		}
	}
	return true
}
