package capture

import (
	"image"
	"image/color"
	"time"

	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"github.com/bloodmagesoftware/geoanswer/drawing"
	"github.com/bloodmagesoftware/geoanswer/render"
	"github.com/bloodmagesoftware/geoanswer/viewport"
)

// layoutCanvas fits the viewport into the available area, feeds pointer
// input to the session and paints the current frame centered in the area.
func (c *Capture) layoutCanvas(gtx layout.Context) layout.Dimensions {
	area := gtx.Constraints.Max
	if area != c.container {
		c.container = area
		c.session.Resize(float64(area.X), float64(area.Y))
	}

	defer clip.Rect{Max: area}.Push(gtx.Ops).Pop()
	paint.ColorOp{Color: color.NRGBA{R: 241, G: 245, B: 249, A: 255}}.Add(gtx.Ops)
	paint.PaintOp{}.Add(gtx.Ops)

	vp := c.session.State().Viewport
	size := image.Point{X: int(vp.Width + 0.5), Y: int(vp.Height + 0.5)}
	origin := image.Point{X: (area.X - size.X) / 2, Y: (area.Y - size.Y) / 2}
	defer op.Offset(origin).Push(gtx.Ops).Pop()

	c.handleCanvasInput(gtx, size)
	c.drawBackground(gtx, size)

	// Input may have changed the state; draw what it is now.
	for _, shape := range c.session.Frame().Shapes {
		drawShape(gtx.Ops, shape)
	}
	return layout.Dimensions{Size: area}
}

// handleCanvasInput turns pointer events into reducer events. Positions
// are already relative to the canvas origin.
func (c *Capture) handleCanvasInput(gtx layout.Context, size image.Point) {
	area := clip.Rect{Max: size}.Push(gtx.Ops)
	event.Op(gtx.Ops, &c.canvasTag)
	area.Pop()

	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target: &c.canvasTag,
			Kinds:  pointer.Press | pointer.Release | pointer.Drag | pointer.Leave | pointer.Cancel,
		})
		if !ok {
			break
		}
		e, ok := ev.(pointer.Event)
		if !ok {
			continue
		}

		pos := viewport.ScreenPoint{X: float64(e.Position.X), Y: float64(e.Position.Y)}
		now := time.Now()
		switch e.Kind {
		case pointer.Press:
			if e.Source == pointer.Touch || e.Buttons.Contain(pointer.ButtonPrimary) {
				c.session.Dispatch(drawing.PointerDown{Position: pos, At: now})
			}
		case pointer.Drag:
			c.session.Dispatch(drawing.PointerMove{Position: pos})
		case pointer.Release:
			c.session.Dispatch(drawing.PointerUp{At: now})
		case pointer.Leave, pointer.Cancel:
			c.session.Dispatch(drawing.PointerLeave{At: now})
		}
	}
}

func (c *Capture) drawBackground(gtx layout.Context, size image.Point) {
	defer clip.Rect{Max: size}.Push(gtx.Ops).Pop()
	paint.ColorOp{Color: color.NRGBA{R: 255, G: 255, B: 255, A: 255}}.Add(gtx.Ops)
	paint.PaintOp{}.Add(gtx.Ops)

	if c.background == nil {
		return
	}
	imgSize := c.background.Bounds().Size()
	if imgSize.X == 0 || imgSize.Y == 0 {
		return
	}
	scale := f32.Point{
		X: float32(size.X) / float32(imgSize.X),
		Y: float32(size.Y) / float32(imgSize.Y),
	}
	defer op.Affine(f32.Affine2D{}.Scale(f32.Point{}, scale)).Push(gtx.Ops).Pop()
	c.backgroundOp.Add(gtx.Ops)
	paint.PaintOp{}.Add(gtx.Ops)
}

func pathSpec(ops *op.Ops, pts []viewport.ScreenPoint, closed bool) clip.PathSpec {
	var path clip.Path
	path.Begin(ops)
	path.MoveTo(f32.Point{X: float32(pts[0].X), Y: float32(pts[0].Y)})
	for _, p := range pts[1:] {
		path.LineTo(f32.Point{X: float32(p.X), Y: float32(p.Y)})
	}
	if closed {
		path.Close()
	}
	return path.End()
}

// drawShape paints one draw instruction: fill first, then the stroke split
// into dashes.
func drawShape(ops *op.Ops, s render.Shape) {
	pts, closed := s.Outline()
	if s.Fill.A > 0 && closed && len(pts) > 2 {
		paint.FillShape(ops, s.Fill.NRGBA(), clip.Outline{Path: pathSpec(ops, pts, true)}.Op())
	}
	if s.Stroke.A == 0 || s.Width <= 0 || len(pts) < 2 {
		return
	}
	for _, dash := range render.Dashes(pts, closed, s.Dash) {
		if len(dash) < 2 {
			continue
		}
		stroke := clip.Stroke{Path: pathSpec(ops, dash, false), Width: float32(s.Width)}.Op()
		paint.FillShape(ops, s.Stroke.NRGBA(), stroke)
	}
}
