package drawing

import (
	"slices"
	"time"

	"github.com/bloodmagesoftware/geoanswer/annotation"
	"github.com/bloodmagesoftware/geoanswer/geom"
	"github.com/bloodmagesoftware/geoanswer/hittest"
	"github.com/google/uuid"
)

// Config is the per-problem input to the reducer.
type Config struct {
	// Selectables are the reference elements that select mode can pick.
	Selectables []hittest.Selectable
	// MultiSelect toggles ids instead of replacing the selection.
	MultiSelect bool
	// Threshold is the pick radius in logical units; zero means hittest.DefaultThreshold.
	Threshold float64
	// Disabled makes the reducer ignore every user input event.
	Disabled bool
	// NewID names committed elements; nil uses RandomID.
	NewID func(kind annotation.Kind) string
}

// RandomID returns ids like "circle-8a1d...".
func RandomID(kind annotation.Kind) string {
	return string(kind) + "-" + uuid.NewString()
}

func (c Config) threshold() float64 {
	if c.Threshold > 0 {
		return c.Threshold
	}
	return hittest.DefaultThreshold
}

func (c Config) id(kind annotation.Kind) string {
	if c.NewID != nil {
		return c.NewID(kind)
	}
	return RandomID(kind)
}

// Reduce applies one event to s and returns the resulting state. It has no
// side effects; s itself is not modified.
func (c Config) Reduce(s State, ev Event) State {
	if c.Disabled {
		if _, ok := ev.(Resize); !ok {
			return s
		}
	}

	switch e := ev.(type) {
	case SelectTool:
		s = s.endGesture()
		s.Tool = e.Tool
	case PointerDown:
		return c.pointerDown(s, e)
	case PointerMove:
		return s.extend(e)
	case PointerUp:
		return c.finalize(s, e.At)
	case PointerLeave:
		return c.finalize(s, e.At)
	case Undo:
		s.History = s.History.Undo()
	case Redo:
		s.History = s.History.Redo()
	case Clear:
		s = s.endGesture()
		s.History = s.History.Clear()
		s.Selection = hittest.Selection{}
	case Load:
		s = s.endGesture()
		s.History = s.History.Commit(e.Elements)
		s.Selection = hittest.NewSelection(e.Selected...)
	case Resize:
		if s.Dragging {
			vp := e.Viewport
			s.pending = &vp
		} else {
			s.Viewport = e.Viewport
		}
	}
	return s
}

// Run folds events over s.
func (c Config) Run(s State, events ...Event) State {
	for _, ev := range events {
		s = c.Reduce(s, ev)
	}
	return s
}

func (c Config) pointerDown(s State, e PointerDown) State {
	// A missing pointer-up leaves a stale gesture behind; start over.
	s = s.endGesture()
	p := s.Viewport.ToLogical(e.Position)

	switch s.Tool {
	case ToolSelect:
		s.Selection = s.Selection.Pick(p, c.Selectables, c.threshold(), c.MultiSelect)
	case ToolPoint:
		pt := annotation.NewPoint(c.id(annotation.KindPoint), p, e.At)
		s.History = s.History.Commit(s.Annotations().With(pt))
	default:
		if s.Tool.drags() {
			s.Dragging = true
			s.Path = []geom.Point{p}
		}
	}
	return s
}

func (s State) extend(e PointerMove) State {
	if !s.Dragging || len(s.Path) == 0 {
		return s
	}
	p := s.Viewport.ToLogical(e.Position)
	if s.Tool == ToolCircle {
		s.Path = []geom.Point{s.Path[0], p}
		return s
	}
	// Clip so the append never writes into an array an older state holds.
	s.Path = append(slices.Clip(s.Path), p)
	return s
}

func (c Config) finalize(s State, at time.Time) State {
	if !s.Dragging {
		return s
	}
	path, tool := s.Path, s.Tool
	s = s.endGesture()

	// A gesture that never moved is incomplete, not an error.
	if len(path) < 2 {
		return s
	}

	var el annotation.Element
	switch tool {
	case ToolLine:
		el = annotation.NewLine(c.id(annotation.KindLine), path[0], path[len(path)-1], at)
	case ToolCircle:
		center, edge := path[0], path[len(path)-1]
		circle, err := annotation.NewCircle(c.id(annotation.KindCircle), center, geom.Distance(center, edge), at)
		if err != nil {
			return s
		}
		el = circle
	case ToolPolygon:
		polygon, err := annotation.NewPolygon(c.id(annotation.KindPolygon), path, at)
		if err != nil {
			return s
		}
		el = polygon
	case ToolFreehand:
		stroke, err := annotation.NewFreehand(c.id(annotation.KindFreehand), path, at)
		if err != nil {
			return s
		}
		el = stroke
	default:
		return s
	}

	s.History = s.History.Commit(s.Annotations().With(el))
	return s
}

// endGesture drops the in-progress path and installs a viewport that
// arrived during the drag.
func (s State) endGesture() State {
	s.Dragging = false
	s.Path = nil
	if s.pending != nil {
		s.Viewport = *s.pending
		s.pending = nil
	}
	return s
}
