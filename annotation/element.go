package annotation

import (
	"errors"
	"slices"
	"time"

	"github.com/bloodmagesoftware/geoanswer/geom"
)

// Kind tags the variant of an Element on the wire.
type Kind string

const (
	KindPoint    Kind = "point"
	KindLine     Kind = "line"
	KindCircle   Kind = "circle"
	KindPolygon  Kind = "polygon"
	KindFreehand Kind = "freehand"
)

var (
	// ErrTooFewPoints is returned for path elements shorter than two points.
	ErrTooFewPoints = errors.New("path element needs at least 2 points")
	// ErrNegativeRadius is returned for circles with a radius below zero.
	ErrNegativeRadius = errors.New("circle radius must not be negative")
)

// Element is a committed shape drawn by the user. The set of variants is
// closed: Point, Line, Circle, Polygon and Freehand.
// Elements are values and are never edited after they have been committed.
type Element interface {
	Kind() Kind
	base() Base
}

// Base carries the fields every variant has.
type Base struct {
	ID        string
	CreatedAt time.Time
}

func (b Base) base() Base { return b }

type (
	// Point is a single plotted point.
	Point struct {
		Base
		At geom.Point
	}

	// Line is a straight segment; Points holds exactly its two endpoints.
	Line struct {
		Base
		Points []geom.Point
	}

	Circle struct {
		Base
		Center geom.Point
		Radius float64
	}

	// Polygon is implicitly closed.
	Polygon struct {
		Base
		Points []geom.Point
	}

	Freehand struct {
		Base
		Points []geom.Point
	}
)

func (Point) Kind() Kind    { return KindPoint }
func (Line) Kind() Kind     { return KindLine }
func (Circle) Kind() Kind   { return KindCircle }
func (Polygon) Kind() Kind  { return KindPolygon }
func (Freehand) Kind() Kind { return KindFreehand }

// ID returns the element's id.
func ID(e Element) string {
	return e.base().ID
}

// CreatedAt returns the commit time of the element.
func CreatedAt(e Element) time.Time {
	return e.base().CreatedAt
}

// NewPoint creates a Point element.
func NewPoint(id string, at geom.Point, createdAt time.Time) Point {
	return Point{Base: Base{ID: id, CreatedAt: createdAt}, At: at}
}

// NewLine creates a straight Line from start to end.
func NewLine(id string, start, end geom.Point, createdAt time.Time) Line {
	return Line{
		Base:   Base{ID: id, CreatedAt: createdAt},
		Points: []geom.Point{start, end},
	}
}

// NewCircle creates a Circle. The radius must not be negative.
func NewCircle(id string, center geom.Point, radius float64, createdAt time.Time) (Circle, error) {
	if radius < 0 {
		return Circle{}, ErrNegativeRadius
	}
	return Circle{
		Base:   Base{ID: id, CreatedAt: createdAt},
		Center: center,
		Radius: radius,
	}, nil
}

// NewPolygon creates a Polygon from a copy of points.
func NewPolygon(id string, points []geom.Point, createdAt time.Time) (Polygon, error) {
	if len(points) < 2 {
		return Polygon{}, ErrTooFewPoints
	}
	return Polygon{
		Base:   Base{ID: id, CreatedAt: createdAt},
		Points: slices.Clone(points),
	}, nil
}

// NewFreehand creates a Freehand stroke from a copy of points.
func NewFreehand(id string, points []geom.Point, createdAt time.Time) (Freehand, error) {
	if len(points) < 2 {
		return Freehand{}, ErrTooFewPoints
	}
	return Freehand{
		Base:   Base{ID: id, CreatedAt: createdAt},
		Points: slices.Clone(points),
	}, nil
}

// Outline returns the vertices of path-like elements, nil for the others.
func Outline(e Element) []geom.Point {
	switch el := e.(type) {
	case Line:
		return el.Points
	case Polygon:
		return el.Points
	case Freehand:
		return el.Points
	}
	return nil
}
