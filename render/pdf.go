package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/bloodmagesoftware/geoanswer/viewport"
	"github.com/jung-kurt/gofpdf"
)

const (
	pdfMargin    = 15.0
	pdfPageWidth = 210.0
)

// WritePDF lays f out as an A4 answer sheet: caption on top, then the
// background and shapes scaled to the printable width.
func WritePDF(w io.Writer, f Frame, background image.Image) error {
	p := gofpdf.New("P", "mm", "A4", "")
	p.AddPage()
	p.SetLineCapStyle("round")
	p.SetLineJoinStyle("round")

	top := pdfMargin
	if f.Caption != "" {
		p.SetFont("Helvetica", "B", 14)
		p.SetTextColor(int(captionColor.R), int(captionColor.G), int(captionColor.B))
		p.Text(pdfMargin, top+5, f.Caption)
		top += 12
	}

	scale := (pdfPageWidth - 2*pdfMargin) / max(f.Width, 1)
	at := func(sp viewport.ScreenPoint) (float64, float64) {
		return pdfMargin + sp.X*scale, top + sp.Y*scale
	}

	if background != nil {
		var buf bytes.Buffer
		if err := png.Encode(&buf, background); err != nil {
			return fmt.Errorf("encoding background: %w", err)
		}
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		p.RegisterImageOptionsReader("background", opts, &buf)
		p.ImageOptions("background", pdfMargin, top, f.Width*scale, f.Height*scale, false, opts, 0, "")
	}

	p.SetDrawColor(0xcb, 0xd5, 0xe1)
	p.SetLineWidth(0.2)
	p.Rect(pdfMargin, top, f.Width*scale, f.Height*scale, "D")

	for _, s := range f.Shapes {
		pdfShape(p, s, scale, at)
	}
	p.SetAlpha(1, "Normal")

	if err := p.Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}

func pdfShape(p *gofpdf.Fpdf, s Shape, scale float64, at func(viewport.ScreenPoint) (float64, float64)) {
	fill := s.Fill.A > 0
	stroke := s.Stroke.A > 0 && s.Width > 0
	if !fill && !stroke {
		return
	}

	if fill {
		p.SetFillColor(int(s.Fill.R), int(s.Fill.G), int(s.Fill.B))
	}
	if stroke {
		p.SetDrawColor(int(s.Stroke.R), int(s.Stroke.G), int(s.Stroke.B))
		p.SetLineWidth(s.Width * scale)
		if len(s.Dash) > 0 {
			dash := make([]float64, len(s.Dash))
			for i, d := range s.Dash {
				dash[i] = d * scale
			}
			p.SetDashPattern(dash, 0)
		} else {
			p.SetDashPattern([]float64{}, 0)
		}
	}

	// gofpdf has one alpha for fill and stroke; fills usually carry the
	// translucency so they are painted separately.
	if fill {
		p.SetAlpha(float64(s.Fill.A)/255, "Normal")
		pdfPath(p, s, scale, at, "F")
	}
	if stroke {
		p.SetAlpha(float64(s.Stroke.A)/255, "Normal")
		pdfPath(p, s, scale, at, "D")
	}
}

func pdfPath(p *gofpdf.Fpdf, s Shape, scale float64, at func(viewport.ScreenPoint) (float64, float64), style string) {
	switch s.Kind {
	case ShapeCircle:
		x, y := at(s.Center)
		p.Circle(x, y, s.Radius*scale, style)
	case ShapePolygon:
		if len(s.Points) < 2 {
			return
		}
		pts := make([]gofpdf.PointType, len(s.Points))
		for i, sp := range s.Points {
			pts[i].X, pts[i].Y = at(sp)
		}
		p.Polygon(pts, style)
	default:
		if len(s.Points) < 2 || style == "F" {
			return
		}
		p.MoveTo(at(s.Points[0]))
		for _, sp := range s.Points[1:] {
			p.LineTo(at(sp))
		}
		p.DrawPath(style)
	}
}
