package problem

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bloodmagesoftware/geoanswer/drawing"
	"github.com/bloodmagesoftware/geoanswer/geom"
	"github.com/bloodmagesoftware/geoanswer/hittest"
)

const selectionYAML = `id: triangle-vertices
title: Pick the vertices of the right angle
background: diagram.png
canvas:
    width: 600
    height: 400
    answer_type: selection
    answer_config:
        selection:
            multi_select: true
            selectable_elements:
                - id: A
                  type: point
                  point: {x: 0, y: 0}
                - id: AB
                  type: line
                  start: {x: 0, y: 0}
                  end: {x: 3, y: 0}
                - id: inside
                  type: area
                  area: [{x: 0, y: 0}, {x: 3, y: 0}, {x: 0, y: 3}]
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpenSelectionProblem(t *testing.T) {
	path := writeFile(t, t.TempDir(), "problem.yaml", selectionYAML)

	p, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if p.Canvas.AnswerType.DefaultTool() != drawing.ToolSelect {
		t.Errorf("default tool = %s", p.Canvas.AnswerType.DefaultTool())
	}
	if !p.Canvas.MultiSelect() {
		t.Error("multi_select not decoded")
	}
	sel := p.Canvas.Selectables()
	if len(sel) != 3 {
		t.Fatalf("decoded %d selectables, want 3", len(sel))
	}
	if sel[1].Kind != hittest.KindLine || sel[1].End != (geom.Point{X: 3, Y: 0}) {
		t.Errorf("line decoded as %+v", sel[1])
	}
	if len(sel[2].Area) != 3 {
		t.Errorf("area decoded with %d points", len(sel[2].Area))
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	in, err := Open(writeFile(t, dir, "problem.yaml", selectionYAML))
	if err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "nested", "copy.yaml")
	if err := in.Save(out); err != nil {
		t.Fatalf("Save: %v", err)
	}
	var back Problem
	if err := back.Load(out); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if back.ID != in.ID || len(back.Canvas.Selectables()) != 3 {
		t.Errorf("round trip lost data: %+v", back)
	}
}

func TestDefaultTool(t *testing.T) {
	type TestCase struct {
		answer AnswerType
		tool   drawing.Tool
	}
	cases := []TestCase{
		{AnswerPoint, drawing.ToolPoint},
		{AnswerLine, drawing.ToolLine},
		{AnswerShape, drawing.ToolPolygon},
		{AnswerSelection, drawing.ToolSelect},
		{AnswerDrawing, drawing.ToolFreehand},
	}
	for _, tc := range cases {
		if got := tc.answer.DefaultTool(); got != tc.tool {
			t.Errorf("%s: got %s, want %s", tc.answer, got, tc.tool)
		}
	}
}

func TestHint(t *testing.T) {
	c := Canvas{AnswerType: AnswerPoint, AnswerConfig: AnswerConfig{Point: &PointConfig{Hint: "Plot the vertex"}}}
	if c.Hint() != "Plot the vertex" {
		t.Errorf("point hint = %q", c.Hint())
	}
	c = Canvas{AnswerType: AnswerLine, AnswerConfig: AnswerConfig{Line: &LineConfig{CheckDirection: true}}}
	if !strings.Contains(c.Hint(), "direction") {
		t.Errorf("line hint = %q", c.Hint())
	}
	if (Canvas{AnswerType: AnswerDrawing}).Hint() != "" {
		t.Error("drawing questions have no hint")
	}
}

func TestValidate(t *testing.T) {
	p := Problem{Canvas: Canvas{
		AnswerType: AnswerSelection,
		AnswerConfig: AnswerConfig{Selection: &SelectionConfig{
			SelectableElements: []hittest.Selectable{
				{ID: "a", Kind: hittest.KindPoint},
				{ID: "a", Kind: hittest.KindArea},
				{Kind: hittest.KindLine},
				{ID: "b", Kind: "circle"},
			},
		}},
	}}
	err := p.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
	if !errors.Is(err, ErrCanvasSize) {
		t.Error("missing canvas size error")
	}
	for _, want := range []string{"duplicate", "at least 3", "no id", "unknown type"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}

	if err := (&Problem{Canvas: Canvas{Width: 1, Height: 1}}).Validate(); !errors.Is(err, ErrNoAnswerType) {
		t.Errorf("want ErrNoAnswerType, got %v", err)
	}
}

func TestLoadBackground(t *testing.T) {
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	f, err := os.Create(filepath.Join(dir, "diagram.png"))
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	p := Problem{Background: "diagram.png"}
	got, err := p.LoadBackground(dir)
	if err != nil {
		t.Fatalf("LoadBackground: %v", err)
	}
	if got.Bounds().Dx() != 4 || got.Bounds().Dy() != 2 {
		t.Errorf("bounds = %v", got.Bounds())
	}

	if img, err := (&Problem{}).LoadBackground(dir); img != nil || err != nil {
		t.Error("no background should give nil, nil")
	}
	if _, err := (&Problem{Background: "missing.qoi"}).LoadBackground(dir); err == nil {
		t.Error("missing file should fail")
	}
}
