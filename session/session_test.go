package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bloodmagesoftware/geoanswer/annotation"
	"github.com/bloodmagesoftware/geoanswer/answer"
	"github.com/bloodmagesoftware/geoanswer/drawing"
	"github.com/bloodmagesoftware/geoanswer/geom"
	"github.com/bloodmagesoftware/geoanswer/hittest"
	"github.com/bloodmagesoftware/geoanswer/problem"
	"github.com/bloodmagesoftware/geoanswer/project"
	"github.com/bloodmagesoftware/geoanswer/submit"
	"gopkg.in/yaml.v3"
)

var start = time.UnixMilli(1700000000000)

func drawingProblem() *problem.Problem {
	return &problem.Problem{
		ID:    "circle",
		Title: "Draw the circle",
		Canvas: problem.Canvas{
			Width: 600, Height: 400,
			AnswerType: problem.AnswerDrawing,
		},
	}
}

func selectionProblem() *problem.Problem {
	return &problem.Problem{
		ID: "vertices",
		Canvas: problem.Canvas{
			Width: 600, Height: 400,
			AnswerType: problem.AnswerSelection,
			AnswerConfig: problem.AnswerConfig{Selection: &problem.SelectionConfig{
				MultiSelect: true,
				SelectableElements: []hittest.Selectable{
					{ID: "A", Kind: hittest.KindPoint, Point: geom.Point{X: 0, Y: 0}},
					{ID: "B", Kind: hittest.KindPoint, Point: geom.Point{X: 4, Y: 0}},
				},
			}},
		},
	}
}

func newSession(p *problem.Problem) *Session {
	s := New(p, project.Default())
	n := 0
	s.SetIDs(func(k annotation.Kind) string {
		n++
		return fmt.Sprintf("%s-%d", k, n)
	})
	return s
}

func parseScript(t *testing.T, src string) *Script {
	t.Helper()
	var sc Script
	if err := yaml.Unmarshal([]byte(src), &sc); err != nil {
		t.Fatalf("parsing script: %v", err)
	}
	return &sc
}

func TestNewUsesAnswerTypeTool(t *testing.T) {
	if tool := newSession(selectionProblem()).State().Tool; tool != drawing.ToolSelect {
		t.Errorf("selection problem starts with %s", tool)
	}
	s := newSession(drawingProblem())
	if s.State().Tool != drawing.ToolFreehand {
		t.Errorf("drawing problem starts with %s", s.State().Tool)
	}
	if s.State().Viewport.Width != 600 {
		t.Errorf("initial width = %v, want 600", s.State().Viewport.Width)
	}
}

func TestReplayCircle(t *testing.T) {
	s := newSession(drawingProblem())
	sc := parseScript(t, `
container: {width: 832, max_height: 900}
confidence: 9
steps:
    - tool: circle
    - down: {x: 0, y: 0}
    - move: {x: 1, y: 1}
    - move: {x: 3, y: 4}
    - up: true
`)
	if err := s.Replay(sc, start); err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if s.State().Viewport.Width != 800 {
		t.Errorf("container not applied: width %v", s.State().Viewport.Width)
	}

	p := s.Payload(start)
	if p.ConfidenceLevel != answer.MaxConfidence {
		t.Errorf("confidence = %d", p.ConfidenceLevel)
	}
	if len(p.DrawnElements) != 1 {
		t.Fatalf("drew %d elements", len(p.DrawnElements))
	}
	c := p.DrawnElements[0].(annotation.Circle)
	if math.Abs(c.Radius-5) > 1e-6 || c.ID != "circle-1" {
		t.Errorf("circle = %+v", c)
	}
	if !c.CreatedAt.Equal(start.Add(4 * StepInterval)) {
		t.Errorf("created at %v", c.CreatedAt)
	}
}

func TestReplayResizeDuringDrag(t *testing.T) {
	s := newSession(drawingProblem())
	sc := parseScript(t, `
steps:
    - tool: line
    - down: {x: -2, y: 1}
    - resize: {width: 332}
    - move: {x: 2, y: -1}
    - up: true
    - tool: point
    - down: {x: 1, y: 1}
`)
	if err := s.Replay(sc, start); err != nil {
		t.Fatal(err)
	}
	list := s.State().Annotations()
	if len(list) != 2 {
		t.Fatalf("got %d elements", len(list))
	}
	line := list[0].(annotation.Line)
	if math.Abs(line.Points[1].X-2) > 1e-6 || math.Abs(line.Points[1].Y+1) > 1e-6 {
		t.Errorf("line end = %v", line.Points[1])
	}
	pt := list[1].(annotation.Point)
	if math.Abs(pt.At.X-1) > 1e-6 || math.Abs(pt.At.Y-1) > 1e-6 {
		t.Errorf("point after resize = %v", pt.At)
	}
	if s.State().Viewport.Width != 300 {
		t.Errorf("resize not applied after drag: %v", s.State().Viewport.Width)
	}
}

func TestScriptValidate(t *testing.T) {
	type TestCase struct {
		name string
		src  string
		want string
	}
	cases := []TestCase{
		{"empty", "steps:\n    - {}\n", "no action"},
		{"double", "steps:\n    - {undo: true, redo: true}\n", "more than one"},
		{"tool", "steps:\n    - tool: eraser\n", "unknown tool"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := newSession(drawingProblem()).Replay(parseScript(t, tc.src), start)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("err = %v, want %q", err, tc.want)
			}
		})
	}
}

func TestRecordReplay(t *testing.T) {
	rec := newSession(selectionProblem())
	rec.Record(true)
	vp := rec.State().Viewport
	rec.Dispatch(drawing.PointerDown{Position: vp.ToScreen(geom.Point{X: 0.1, Y: 0}), At: start})
	rec.Dispatch(drawing.PointerMove{Position: vp.ToScreen(geom.Point{X: 2, Y: 2})})
	rec.Dispatch(drawing.PointerUp{At: start})
	rec.Dispatch(drawing.PointerDown{Position: vp.ToScreen(geom.Point{X: 4, Y: 0.2}), At: start})
	rec.Dispatch(drawing.SelectTool{Tool: drawing.ToolPolygon})
	rec.Dispatch(drawing.PointerDown{Position: vp.ToScreen(geom.Point{X: 0, Y: 0}), At: start})
	rec.Dispatch(drawing.PointerMove{Position: vp.ToScreen(geom.Point{X: 1, Y: 0})})
	rec.Dispatch(drawing.PointerMove{Position: vp.ToScreen(geom.Point{X: 1, Y: 1})})
	rec.Dispatch(drawing.PointerUp{At: start})
	rec.Resize(500, 0)

	sc := rec.Script()
	if len(sc.Steps) != 9 {
		t.Fatalf("recorded %d steps, want 9 (move outside a drag is skipped)", len(sc.Steps))
	}

	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := sc.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	var loaded Script
	if err := loaded.Load(path); err != nil {
		t.Fatalf("Load: %v", err)
	}

	play := newSession(selectionProblem())
	if err := play.Replay(&loaded, start); err != nil {
		t.Fatalf("Replay: %v", err)
	}
	if got := strings.Join(play.State().Selection.IDs(), ","); got != "A,B" {
		t.Errorf("selection = %s", got)
	}
	poly, ok := play.State().Annotations()[0].(annotation.Polygon)
	if !ok || len(poly.Points) != 3 {
		t.Fatalf("replayed annotations = %v", play.State().Annotations())
	}
	if math.Abs(poly.Points[2].X-1) > 1e-6 || math.Abs(poly.Points[2].Y-1) > 1e-6 {
		t.Errorf("polygon vertex = %v", poly.Points[2])
	}
	if play.State().Viewport != rec.State().Viewport {
		t.Errorf("viewport %+v, want %+v", play.State().Viewport, rec.State().Viewport)
	}
}

func TestSubmit(t *testing.T) {
	calls := 0
	sub := submit.Func(func(ctx context.Context, p answer.Payload) (bool, error) {
		calls++
		return len(p.SelectedElements) == 1, nil
	})

	s := newSession(selectionProblem())
	if s.CanSubmit() {
		t.Error("empty session should not be submittable")
	}
	if _, _, err := s.Submit(context.Background(), sub, start); !errors.Is(err, answer.ErrEmpty) {
		t.Errorf("err = %v, want ErrEmpty", err)
	}
	if calls != 0 {
		t.Error("empty answer reached the submitter")
	}

	s.Dispatch(drawing.PointerDown{Position: s.State().Viewport.ToScreen(geom.Point{}), At: start})
	p, accepted, err := s.Submit(context.Background(), sub, start)
	if err != nil || !accepted || calls != 1 {
		t.Fatalf("Submit = %v, %v after %d calls", accepted, err, calls)
	}
	if p.Type != "selection" || p.Timestamp != start.UnixMilli() {
		t.Errorf("payload = %+v", p)
	}
}

func TestSubmitError(t *testing.T) {
	boom := errors.New("connection refused")
	sub := submit.Func(func(context.Context, answer.Payload) (bool, error) { return false, boom })

	s := newSession(drawingProblem())
	s.Dispatch(drawing.SelectTool{Tool: drawing.ToolPoint})
	s.Dispatch(drawing.PointerDown{Position: s.State().Viewport.ToScreen(geom.Point{}), At: start})
	if _, _, err := s.Submit(context.Background(), sub, start); !errors.Is(err, boom) {
		t.Errorf("err = %v", err)
	}
}

func TestDisabledSession(t *testing.T) {
	s := newSession(drawingProblem())
	s.SetDisabled(true)
	s.Dispatch(drawing.SelectTool{Tool: drawing.ToolPoint})
	if s.State().Tool != drawing.ToolFreehand {
		t.Error("disabled session changed tool")
	}
	s.SetDisabled(false)
	if s.Disabled() {
		t.Error("still disabled")
	}
}

func TestFrameCaption(t *testing.T) {
	f := newSession(drawingProblem()).Frame()
	if f.Caption != "Draw the circle" || f.Width != 600 {
		t.Errorf("frame = %+v", f)
	}
}

func TestRestore(t *testing.T) {
	src := newSession(selectionProblem())
	src.Dispatch(drawing.PointerDown{Position: src.State().Viewport.ToScreen(geom.Point{X: 4, Y: 0}), At: start})
	src.Dispatch(drawing.SelectTool{Tool: drawing.ToolPoint})
	src.Dispatch(drawing.PointerDown{Position: src.State().Viewport.ToScreen(geom.Point{X: 1, Y: 1}), At: start})
	src.Confidence = 2
	p := src.Payload(start)

	dst := newSession(selectionProblem())
	dst.Restore(p)
	if len(dst.State().Annotations()) != 1 || !dst.State().Selection.Has("B") || dst.Confidence != 2 {
		t.Errorf("restored state = %+v", dst.State())
	}
	if !dst.State().History.CanUndo() {
		t.Error("restore should be undoable")
	}
	if got := len(dst.Frame().Shapes); got != 2 {
		t.Errorf("restored frame has %d shapes, want point and highlight", got)
	}
}

func TestRestoreDuringDragAndDisabled(t *testing.T) {
	src := newSession(selectionProblem())
	src.Dispatch(drawing.SelectTool{Tool: drawing.ToolPoint})
	src.Dispatch(drawing.PointerDown{Position: src.State().Viewport.ToScreen(geom.Point{X: 1, Y: 1}), At: start})
	p := src.Payload(start)

	dst := newSession(selectionProblem())
	vp := dst.State().Viewport
	dst.Dispatch(drawing.SelectTool{Tool: drawing.ToolFreehand})
	dst.Dispatch(drawing.PointerDown{Position: vp.ToScreen(geom.Point{}), At: start})
	dst.Dispatch(drawing.PointerMove{Position: vp.ToScreen(geom.Point{X: 2, Y: 0})})
	dst.Restore(p)
	dst.Dispatch(drawing.PointerUp{At: start})
	if st := dst.State(); st.Dragging || len(st.Annotations()) != 1 {
		t.Errorf("restore should end the drag, got %d elements", len(st.Annotations()))
	}

	locked := newSession(selectionProblem())
	locked.SetDisabled(true)
	locked.Restore(p)
	if len(locked.State().Annotations()) != 0 || locked.State().History.CanUndo() {
		t.Error("disabled session accepted a restore")
	}
}
