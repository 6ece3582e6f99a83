package hittest

import (
	"math"

	"github.com/bloodmagesoftware/geoanswer/geom"
)

// DefaultThreshold is the pick radius in logical units.
const DefaultThreshold = 0.5

// Kind is the shape of a selectable reference element.
type Kind string

const (
	KindPoint Kind = "point"
	KindLine  Kind = "line"
	// KindArea is a polygonal region; any position inside it is a hit.
	KindArea Kind = "area"
)

// Selectable is a reference element supplied by the problem definition.
// Only the fields matching Kind are meaningful. The engine never mutates it.
type Selectable struct {
	ID   string `yaml:"id" json:"id"`
	Kind Kind   `yaml:"type" json:"type"`

	// Point is the position of a point element.
	Point geom.Point `yaml:"point,omitempty" json:"point,omitzero"`
	// Start and End bound a line element.
	Start geom.Point `yaml:"start,omitempty" json:"start,omitzero"`
	End   geom.Point `yaml:"end,omitempty" json:"end,omitzero"`
	// Area is the outline of an area element.
	Area []geom.Point `yaml:"area,omitempty" json:"area,omitempty"`
}

// Distance measures from p to the element. Unknown kinds are infinitely far.
func (s Selectable) Distance(p geom.Point) float64 {
	switch s.Kind {
	case KindPoint:
		return geom.Distance(p, s.Point)
	case KindLine:
		return geom.SegmentDistance(p, s.Start, s.End)
	case KindArea:
		return geom.PolygonDistance(s.Area, p)
	default:
		return math.Inf(1)
	}
}

// Nearest returns the id of the element closest to p, provided it is
// strictly closer than threshold. On ties the earlier element wins.
func Nearest(p geom.Point, elements []Selectable, threshold float64) (string, bool) {
	bestID := ""
	best := math.Inf(1)
	for _, e := range elements {
		if d := e.Distance(p); d < best {
			best = d
			bestID = e.ID
		}
	}
	if best < threshold {
		return bestID, true
	}
	return "", false
}

// Find returns the element with the given id.
func Find(elements []Selectable, id string) (Selectable, bool) {
	for _, e := range elements {
		if e.ID == id {
			return e, true
		}
	}
	return Selectable{}, false
}
