package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"github.com/bloodmagesoftware/geoanswer/viewport"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

var captionColor = color.NRGBA{R: 0x33, G: 0x41, B: 0x55, A: 0xff}

// Rasterize paints f onto a white image, with background scaled to fill
// the frame when it is not nil.
func Rasterize(f Frame, background image.Image) *image.RGBA {
	w := max(int(math.Ceil(f.Width)), 1)
	h := max(int(math.Ceil(f.Height)), 1)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	if background != nil {
		xdraw.CatmullRom.Scale(dst, dst.Bounds(), background, background.Bounds(), draw.Over, nil)
	}

	r := rasterizer{dst: dst, z: vector.NewRasterizer(w, h)}
	for _, s := range f.Shapes {
		r.shape(s)
	}

	if f.Caption != "" {
		d := &font.Drawer{
			Dst:  dst,
			Src:  image.NewUniform(captionColor),
			Face: basicfont.Face7x13,
			Dot:  fixed.P(4, 16),
		}
		d.DrawString(f.Caption)
	}
	return dst
}

// EncodePNG rasterizes f and writes it as PNG.
func EncodePNG(w io.Writer, f Frame, background image.Image) error {
	if err := png.Encode(w, Rasterize(f, background)); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

type rasterizer struct {
	dst *image.RGBA
	z   *vector.Rasterizer
}

func (r *rasterizer) shape(s Shape) {
	pts, closed := s.Outline()
	if s.Fill.A > 0 && closed && len(pts) > 2 {
		r.begin()
		r.ring(pts)
		r.paint(s.Fill)
	}
	if s.Stroke.A > 0 && s.Width > 0 && len(pts) > 1 {
		r.begin()
		for _, dash := range Dashes(pts, closed, s.Dash) {
			r.stroke(dash, s.Width/2)
		}
		r.paint(s.Stroke)
	}
}

func (r *rasterizer) begin() {
	b := r.dst.Bounds()
	r.z.Reset(b.Dx(), b.Dy())
}

func (r *rasterizer) paint(c Color) {
	r.z.Draw(r.dst, r.dst.Bounds(), image.NewUniform(c.NRGBA()), image.Point{})
}

// ring adds a closed subpath. All subpaths of one paint call are emitted
// with the same winding so overlaps do not cancel out.
func (r *rasterizer) ring(pts []viewport.ScreenPoint) {
	if signedArea(pts) < 0 {
		rev := make([]viewport.ScreenPoint, len(pts))
		for i, p := range pts {
			rev[len(pts)-1-i] = p
		}
		pts = rev
	}
	r.z.MoveTo(float32(pts[0].X), float32(pts[0].Y))
	for _, p := range pts[1:] {
		r.z.LineTo(float32(p.X), float32(p.Y))
	}
	r.z.ClosePath()
}

// stroke covers a polyline with one quad per segment and a disc on every
// vertex, giving round joins and caps.
func (r *rasterizer) stroke(pts []viewport.ScreenPoint, half float64) {
	for i, p := range pts {
		r.ring(CirclePoints(p, half))
		if i == 0 {
			continue
		}
		a := pts[i-1]
		dx, dy := p.X-a.X, p.Y-a.Y
		l := math.Hypot(dx, dy)
		if l == 0 {
			continue
		}
		nx, ny := -dy/l*half, dx/l*half
		r.ring([]viewport.ScreenPoint{
			{X: a.X + nx, Y: a.Y + ny},
			{X: p.X + nx, Y: p.Y + ny},
			{X: p.X - nx, Y: p.Y - ny},
			{X: a.X - nx, Y: a.Y - ny},
		})
	}
}

func signedArea(pts []viewport.ScreenPoint) float64 {
	var sum float64
	for i, p := range pts {
		q := pts[(i+1)%len(pts)]
		sum += p.X*q.Y - q.X*p.Y
	}
	return sum / 2
}
