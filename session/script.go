package session

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/bloodmagesoftware/geoanswer/drawing"
	"github.com/bloodmagesoftware/geoanswer/geom"
	"github.com/bloodmagesoftware/geoanswer/yamlfile"
)

// StepInterval separates the timestamps of replayed steps.
const StepInterval = 100 * time.Millisecond

type (
	// Script is a recorded sequence of canvas input. Positions are logical
	// coordinates, so a script replays the same at any canvas size.
	Script struct {
		// Problem is the problem file, relative to the script.
		Problem    string    `yaml:"problem,omitempty"`
		Container  Container `yaml:"container,omitempty"`
		Confidence int       `yaml:"confidence,omitempty"`
		Steps      []Step    `yaml:"steps"`
	}

	Container struct {
		Width     float64 `yaml:"width"`
		MaxHeight float64 `yaml:"max_height,omitempty"`
	}

	// Step holds exactly one action.
	Step struct {
		Tool   string      `yaml:"tool,omitempty"`
		Down   *geom.Point `yaml:"down,omitempty,flow"`
		Move   *geom.Point `yaml:"move,omitempty,flow"`
		Up     bool        `yaml:"up,omitempty"`
		Leave  bool        `yaml:"leave,omitempty"`
		Undo   bool        `yaml:"undo,omitempty"`
		Redo   bool        `yaml:"redo,omitempty"`
		Clear  bool        `yaml:"clear,omitempty"`
		Resize *Container  `yaml:"resize,omitempty,flow"`
	}
)

var ErrEmptyStep = errors.New("step has no action")

func (st Step) actions() int {
	n := 0
	for _, set := range []bool{
		st.Tool != "", st.Down != nil, st.Move != nil, st.Up, st.Leave,
		st.Undo, st.Redo, st.Clear, st.Resize != nil,
	} {
		if set {
			n++
		}
	}
	return n
}

// Validate checks every step without running anything.
func (sc *Script) Validate() error {
	for i, st := range sc.Steps {
		switch st.actions() {
		case 0:
			return fmt.Errorf("step %d: %w", i+1, ErrEmptyStep)
		case 1:
		default:
			return fmt.Errorf("step %d: more than one action", i+1)
		}
		if st.Tool != "" {
			if _, err := drawing.ParseTool(st.Tool); err != nil {
				return fmt.Errorf("step %d: %w", i+1, err)
			}
		}
	}
	return nil
}

// Save writes the script as yaml.
func (sc *Script) Save(path string) error {
	return yamlfile.Save(path, sc)
}

func (sc *Script) Load(path string) error {
	return yamlfile.Load(path, sc)
}

// ProblemPath resolves the script's problem file against the script location.
func (sc *Script) ProblemPath(scriptPath string) string {
	if sc.Problem == "" || filepath.IsAbs(sc.Problem) {
		return sc.Problem
	}
	return filepath.Join(filepath.Dir(scriptPath), sc.Problem)
}

// Replay runs the script against s. Step i is stamped start + i*StepInterval.
func (s *Session) Replay(sc *Script, start time.Time) error {
	if err := sc.Validate(); err != nil {
		return err
	}
	if sc.Container.Width > 0 {
		s.Resize(sc.Container.Width, sc.Container.MaxHeight)
	}
	if sc.Confidence != 0 {
		s.Confidence = sc.Confidence
	}
	for i, st := range sc.Steps {
		at := start.Add(time.Duration(i) * StepInterval)
		if st.Resize != nil {
			s.Resize(st.Resize.Width, st.Resize.MaxHeight)
			continue
		}
		s.Dispatch(s.event(st, at))
	}
	return nil
}

func (s *Session) event(st Step, at time.Time) drawing.Event {
	switch {
	case st.Tool != "":
		tool, _ := drawing.ParseTool(st.Tool)
		return drawing.SelectTool{Tool: tool}
	case st.Down != nil:
		return drawing.PointerDown{Position: s.state.DownViewport().ToScreen(*st.Down), At: at}
	case st.Move != nil:
		return drawing.PointerMove{Position: s.state.Viewport.ToScreen(*st.Move)}
	case st.Up:
		return drawing.PointerUp{At: at}
	case st.Leave:
		return drawing.PointerLeave{At: at}
	case st.Undo:
		return drawing.Undo{}
	case st.Redo:
		return drawing.Redo{}
	default:
		return drawing.Clear{}
	}
}

// Record starts or stops logging dispatched events as script steps.
func (s *Session) Record(on bool) {
	s.recording = on
}

// Script returns the steps recorded so far.
func (s *Session) Script() *Script {
	return &Script{
		Confidence: s.Confidence,
		Steps:      append([]Step(nil), s.steps...),
	}
}

func (s *Session) stepFor(ev drawing.Event) (Step, bool) {
	switch e := ev.(type) {
	case drawing.SelectTool:
		return Step{Tool: string(e.Tool)}, true
	case drawing.PointerDown:
		p := s.state.DownViewport().ToLogical(e.Position)
		return Step{Down: &p}, true
	case drawing.PointerMove:
		if !s.state.Dragging {
			return Step{}, false
		}
		p := s.state.Viewport.ToLogical(e.Position)
		return Step{Move: &p}, true
	case drawing.PointerUp:
		return Step{Up: true}, true
	case drawing.PointerLeave:
		return Step{Leave: true}, true
	case drawing.Undo:
		return Step{Undo: true}, true
	case drawing.Redo:
		return Step{Redo: true}, true
	case drawing.Clear:
		return Step{Clear: true}, true
	case drawing.Resize:
		// Fitting the same width back with no height bound yields the
		// same viewport.
		return Step{Resize: &Container{Width: e.Viewport.Width + s.layout.Padding}}, true
	}
	return Step{}, false
}
