// Package render turns engine state into draw instructions and paints them
// with one of several backends: the gio window, PNG and PDF.
package render

import (
	"math"

	"github.com/bloodmagesoftware/geoanswer/annotation"
	"github.com/bloodmagesoftware/geoanswer/drawing"
	"github.com/bloodmagesoftware/geoanswer/geom"
	"github.com/bloodmagesoftware/geoanswer/hittest"
	"github.com/bloodmagesoftware/geoanswer/viewport"
)

type ShapeKind uint8

const (
	// ShapePolyline is an open path through Points.
	ShapePolyline ShapeKind = iota
	// ShapePolygon closes the path back to its first point.
	ShapePolygon
	// ShapeCircle uses Center and Radius.
	ShapeCircle
)

// Shape is one draw instruction in screen pixels. A zero alpha Stroke or
// Fill is not painted.
type Shape struct {
	Kind   ShapeKind
	Points []viewport.ScreenPoint
	Center viewport.ScreenPoint
	Radius float64

	Stroke Color
	Fill   Color
	Width  float64
	Dash   []float64

	// ID names the annotation or selectable the shape was built from.
	// Previews have no ID.
	ID string
}

// Frame is a complete redraw. Backends clear to the background first and
// then paint Shapes in order.
type Frame struct {
	Width, Height float64
	// Caption is drawn in the top left corner by the file backends.
	Caption string
	Shapes  []Shape
}

// Compose builds the frame for s: committed annotations oldest first, then
// the gesture in progress, then highlights for selected reference elements.
func Compose(s drawing.State, selectables []hittest.Selectable, pal Palette) Frame {
	vp := s.Viewport
	f := Frame{Width: vp.Width, Height: vp.Height}

	for _, el := range s.Annotations().ByCreation() {
		f.Shapes = append(f.Shapes, elementShape(vp, el, pal))
	}
	if preview, ok := previewShape(s, pal); ok {
		f.Shapes = append(f.Shapes, preview)
	}
	for _, id := range s.Selection.IDs() {
		sel, ok := hittest.Find(selectables, id)
		if !ok {
			continue
		}
		f.Shapes = append(f.Shapes, highlightShape(vp, sel, pal, pal.Highlight))
	}
	return f
}

// WithGuides inserts faint outlines of every reference element beneath the
// other shapes. File output uses it when no background diagram is present.
func (f Frame) WithGuides(vp viewport.Viewport, selectables []hittest.Selectable, pal Palette, c Color) Frame {
	guides := make([]Shape, 0, len(selectables)+len(f.Shapes))
	for _, sel := range selectables {
		g := highlightShape(vp, sel, pal, c)
		g.Dash = nil
		g.Width = pal.LineWidth / 2
		guides = append(guides, g)
	}
	f.Shapes = append(guides, f.Shapes...)
	return f
}

func screen(vp viewport.Viewport, pts []geom.Point) []viewport.ScreenPoint {
	out := make([]viewport.ScreenPoint, len(pts))
	for i, p := range pts {
		out[i] = vp.ToScreen(p)
	}
	return out
}

func elementShape(vp viewport.Viewport, el annotation.Element, pal Palette) Shape {
	sh := Shape{ID: annotation.ID(el), Stroke: pal.Stroke, Width: pal.LineWidth}
	switch e := el.(type) {
	case annotation.Point:
		sh.Kind = ShapeCircle
		sh.Center = vp.ToScreen(e.At)
		sh.Radius = pal.PointRadius
		sh.Fill, sh.Stroke = pal.Stroke, Color{}
	case annotation.Line:
		sh.Kind = ShapePolyline
		sh.Points = screen(vp, e.Points)
	case annotation.Freehand:
		sh.Kind = ShapePolyline
		sh.Points = screen(vp, e.Points)
	case annotation.Polygon:
		sh.Kind = ShapePolygon
		sh.Points = screen(vp, e.Points)
		sh.Fill = pal.Fill
	case annotation.Circle:
		sh.Kind = ShapeCircle
		sh.Center = vp.ToScreen(e.Center)
		sh.Radius = e.Radius * vp.PixelsPerUnit()
		sh.Fill = pal.Fill
	}
	return sh
}

func previewShape(s drawing.State, pal Palette) (Shape, bool) {
	if !s.Dragging || len(s.Path) < 2 {
		return Shape{}, false
	}
	vp := s.Viewport
	sh := Shape{Kind: ShapePolyline, Stroke: pal.Preview, Width: pal.LineWidth}
	switch s.Tool {
	case drawing.ToolCircle:
		center, edge := s.Path[0], s.Path[len(s.Path)-1]
		sh.Kind = ShapeCircle
		sh.Center = vp.ToScreen(center)
		sh.Radius = geom.Distance(center, edge) * vp.PixelsPerUnit()
	case drawing.ToolLine:
		sh.Points = screen(vp, []geom.Point{s.Path[0], s.Path[len(s.Path)-1]})
	default:
		sh.Points = screen(vp, s.Path)
	}
	return sh, true
}

func highlightShape(vp viewport.Viewport, sel hittest.Selectable, pal Palette, c Color) Shape {
	sh := Shape{ID: sel.ID, Stroke: c, Width: pal.HighlightWidth, Dash: pal.HighlightDash}
	switch sel.Kind {
	case hittest.KindPoint:
		sh.Kind = ShapeCircle
		sh.Center = vp.ToScreen(sel.Point)
		sh.Radius = pal.HighlightRadius
	case hittest.KindLine:
		sh.Kind = ShapePolyline
		sh.Points = screen(vp, []geom.Point{sel.Start, sel.End})
	case hittest.KindArea:
		sh.Kind = ShapePolygon
		sh.Points = screen(vp, sel.Area)
	}
	return sh
}

// Outline flattens a shape into the path its stroke follows. Circles are
// approximated by segments at most a few pixels long.
func (s Shape) Outline() (pts []viewport.ScreenPoint, closed bool) {
	switch s.Kind {
	case ShapeCircle:
		return CirclePoints(s.Center, s.Radius), true
	case ShapePolygon:
		return s.Points, true
	default:
		return s.Points, false
	}
}

// CirclePoints samples a circle outline.
func CirclePoints(center viewport.ScreenPoint, r float64) []viewport.ScreenPoint {
	n := int(math.Ceil(2 * math.Pi * r / 4))
	n = min(max(n, 16), 256)
	pts := make([]viewport.ScreenPoint, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = viewport.ScreenPoint{X: center.X + r*math.Cos(a), Y: center.Y + r*math.Sin(a)}
	}
	return pts
}
