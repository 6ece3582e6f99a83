package viewport

import (
	"math"

	"github.com/bloodmagesoftware/geoanswer/geom"
)

// Defaults of the reference diagram the background renderer draws.
const (
	DefaultReferenceWidth  = 600.0
	DefaultReferenceHeight = 400.0
	DefaultBaseUnit        = 30.0
	DefaultMaxWidth        = 800.0
	DefaultPadding         = 32.0
)

// minWidth keeps a fitted viewport invertible when the container collapses.
const minWidth = 1.0

// ScreenPoint is a pointer position in pixels, origin top-left, y-down.
type ScreenPoint struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Layout holds the fixed constants of the reference diagram together with
// the sizing limits used when fitting the canvas into its container.
type Layout struct {
	// ReferenceWidth is the width in pixels the reference diagram is authored at.
	ReferenceWidth float64 `yaml:"reference_width"`
	// ReferenceHeight is used when a problem does not state its own canvas size.
	ReferenceHeight float64 `yaml:"reference_height"`
	// BaseUnit is the number of reference pixels per logical unit.
	BaseUnit float64 `yaml:"base_unit"`
	// MaxWidth bounds the fitted canvas width.
	MaxWidth float64 `yaml:"max_width"`
	// Padding is subtracted from the container width before fitting.
	Padding float64 `yaml:"padding"`
}

// DefaultLayout returns the layout of the standard 600x400 exam diagram.
func DefaultLayout() Layout {
	return Layout{
		ReferenceWidth:  DefaultReferenceWidth,
		ReferenceHeight: DefaultReferenceHeight,
		BaseUnit:        DefaultBaseUnit,
		MaxWidth:        DefaultMaxWidth,
		Padding:         DefaultPadding,
	}
}

// Viewport maps between screen pixels and logical space.
// Width and Height are the fitted canvas size in pixels.
type Viewport struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Scale   float64 `json:"scale"`
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`

	ReferenceWidth float64 `json:"referenceWidth"`
	BaseUnit       float64 `json:"baseUnit"`
}

// Fit computes the viewport for a container. canvasWidth and canvasHeight
// give the aspect ratio of the problem's canvas; non-positive values fall
// back to the reference size. The result is a pure function of its inputs.
func (l Layout) Fit(containerWidth, maxHeight, canvasWidth, canvasHeight float64) Viewport {
	if canvasWidth <= 0 || canvasHeight <= 0 {
		canvasWidth, canvasHeight = l.ReferenceWidth, l.ReferenceHeight
	}
	aspectRatio := canvasHeight / canvasWidth

	width := math.Min(containerWidth-l.Padding, l.MaxWidth)
	if width < minWidth {
		width = minWidth
	}
	height := width * aspectRatio

	// Shrink the width too so the aspect ratio survives the height bound
	if maxHeight > 0 && height > maxHeight {
		height = maxHeight
		width = height / aspectRatio
	}

	return Viewport{
		Width:          width,
		Height:         height,
		Scale:          width / l.ReferenceWidth,
		ReferenceWidth: l.ReferenceWidth,
		BaseUnit:       l.BaseUnit,
	}
}

// CoordScale is the number of scaled pixels per logical unit before the
// viewport scale is applied.
func (v Viewport) CoordScale() float64 {
	return v.BaseUnit * (v.Width / v.ReferenceWidth)
}

// PixelsPerUnit is the total number of screen pixels per logical unit.
func (v Viewport) PixelsPerUnit() float64 {
	return v.Scale * v.CoordScale()
}

// ToLogical converts a screen position into logical space.
func (v Viewport) ToLogical(p ScreenPoint) geom.Point {
	cs := v.CoordScale()
	return geom.Point{
		X: (p.X - v.Width/2 - v.OffsetX) / v.Scale / cs,
		Y: -(p.Y - v.Height/2 - v.OffsetY) / v.Scale / cs,
	}
}

// ToScreen converts a logical position into screen pixels.
func (v Viewport) ToScreen(p geom.Point) ScreenPoint {
	cs := v.CoordScale()
	return ScreenPoint{
		X: p.X*cs*v.Scale + v.Width/2 + v.OffsetX,
		Y: -p.Y*cs*v.Scale + v.Height/2 + v.OffsetY,
	}
}

// Valid reports whether the viewport can be inverted.
func (v Viewport) Valid() bool {
	return v.Width > 0 && v.Height > 0 && v.Scale > 0 && v.ReferenceWidth > 0 && v.BaseUnit > 0
}
