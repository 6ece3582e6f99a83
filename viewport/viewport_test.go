package viewport

import (
	"math"
	"testing"

	"github.com/bloodmagesoftware/geoanswer/geom"
)

func near(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestFitScale(t *testing.T) {
	layout := DefaultLayout()

	// 832 - 32 padding = 800 pixels wide, 4:3 canvas
	vp := layout.Fit(832, 1000, 800, 600)
	if !near(vp.Width, 800, 1e-9) || !near(vp.Height, 600, 1e-9) {
		t.Fatalf("fitted size = %vx%v, want 800x600", vp.Width, vp.Height)
	}
	if !near(vp.Scale, 800.0/600.0, 1e-12) {
		t.Errorf("scale = %v, want %v", vp.Scale, 800.0/600.0)
	}

	center := vp.ToLogical(ScreenPoint{X: 400, Y: 300})
	if !near(center.X, 0, 1e-12) || !near(center.Y, 0, 1e-12) {
		t.Errorf("canvas center maps to %v, want (0,0)", center)
	}
}

func TestFitClampsWidth(t *testing.T) {
	layout := DefaultLayout()

	vp := layout.Fit(2000, 0, 600, 400)
	if vp.Width != layout.MaxWidth {
		t.Errorf("width = %v, want max width %v", vp.Width, layout.MaxWidth)
	}
}

func TestFitHeightBoundPreservesAspect(t *testing.T) {
	layout := DefaultLayout()

	vp := layout.Fit(832, 300, 600, 400)
	if !near(vp.Height, 300, 1e-9) {
		t.Fatalf("height = %v, want 300", vp.Height)
	}
	if !near(vp.Width, 450, 1e-9) {
		t.Errorf("width = %v, want 450", vp.Width)
	}
	if !near(vp.Scale, 450.0/600.0, 1e-12) {
		t.Errorf("scale = %v, want %v", vp.Scale, 450.0/600.0)
	}
}

func TestFitIsIdempotent(t *testing.T) {
	layout := DefaultLayout()
	a := layout.Fit(700, 400, 600, 400)
	b := layout.Fit(700, 400, 600, 400)
	if a != b {
		t.Errorf("Fit returned %+v then %+v", a, b)
	}
}

func TestFitCollapsedContainer(t *testing.T) {
	vp := DefaultLayout().Fit(0, 0, 600, 400)
	if !vp.Valid() {
		t.Errorf("collapsed container produced invalid viewport %+v", vp)
	}
}

func TestRoundTrip(t *testing.T) {
	layout := DefaultLayout()
	viewports := []Viewport{
		layout.Fit(832, 1000, 800, 600),
		layout.Fit(400, 200, 600, 400),
		layout.Fit(1200, 500, 300, 900),
	}
	viewports[1].OffsetX = 13.5
	viewports[1].OffsetY = -7.25

	points := []geom.Point{
		{X: 0, Y: 0},
		{X: 1.5, Y: -2.25},
		{X: -10, Y: 10},
		{X: 123.456, Y: -0.001},
	}

	for _, vp := range viewports {
		for _, p := range points {
			back := vp.ToLogical(vp.ToScreen(p))
			if !near(back.X, p.X, 1e-6) || !near(back.Y, p.Y, 1e-6) {
				t.Errorf("round trip of %v through %+v gave %v", p, vp, back)
			}
		}
	}
}

func TestYAxisPointsUp(t *testing.T) {
	vp := DefaultLayout().Fit(632, 0, 600, 400)
	above := vp.ToLogical(ScreenPoint{X: vp.Width / 2, Y: 0})
	if above.Y <= 0 {
		t.Errorf("top edge maps to y=%v, want positive", above.Y)
	}
}
