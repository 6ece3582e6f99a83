package problem

import (
	"errors"
	"fmt"

	"github.com/bloodmagesoftware/geoanswer/drawing"
	"github.com/bloodmagesoftware/geoanswer/hittest"
	"github.com/bloodmagesoftware/geoanswer/yamlfile"
)

// AnswerType is the kind of answer a canvas question expects.
type AnswerType string

const (
	AnswerPoint     AnswerType = "point"
	AnswerLine      AnswerType = "line"
	AnswerShape     AnswerType = "shape"
	AnswerSelection AnswerType = "selection"
	AnswerDrawing   AnswerType = "drawing"
)

type (
	Problem struct {
		ID    string `yaml:"id"`
		Title string `yaml:"title"`
		// Background is an image drawn beneath the annotations, relative to
		// the problem file. PNG, JPEG and QOI are supported.
		Background string `yaml:"background,omitempty"`
		Canvas     Canvas `yaml:"canvas"`
	}

	Canvas struct {
		// Width and Height are the native size of the diagram in pixels.
		// Only their ratio matters for layout.
		Width        float64      `yaml:"width"`
		Height       float64      `yaml:"height"`
		AnswerType   AnswerType   `yaml:"answer_type"`
		AnswerConfig AnswerConfig `yaml:"answer_config"`
	}

	AnswerConfig struct {
		Point     *PointConfig     `yaml:"point,omitempty"`
		Line      *LineConfig      `yaml:"line,omitempty"`
		Shape     *ShapeConfig     `yaml:"shape,omitempty"`
		Selection *SelectionConfig `yaml:"selection,omitempty"`
	}

	PointConfig struct {
		Hint string `yaml:"hint,omitempty"`
	}

	LineConfig struct {
		// CheckDirection means the segment is read as a vector.
		CheckDirection bool `yaml:"check_direction,omitempty"`
	}

	ShapeConfig struct {
		CheckCongruence bool `yaml:"check_congruence,omitempty"`
	}

	SelectionConfig struct {
		SelectableElements []hittest.Selectable `yaml:"selectable_elements"`
		MultiSelect        bool                 `yaml:"multi_select,omitempty"`
	}
)

var (
	ErrNoAnswerType = errors.New("canvas answer_type is required")
	ErrCanvasSize   = errors.New("canvas width and height must be positive")
)

// DefaultTool is the tool a fresh canvas starts with.
func (a AnswerType) DefaultTool() drawing.Tool {
	switch a {
	case AnswerPoint:
		return drawing.ToolPoint
	case AnswerLine:
		return drawing.ToolLine
	case AnswerShape:
		return drawing.ToolPolygon
	case AnswerSelection:
		return drawing.ToolSelect
	default:
		return drawing.ToolFreehand
	}
}

// Selectables returns the reference elements of a selection question.
func (c Canvas) Selectables() []hittest.Selectable {
	if c.AnswerConfig.Selection == nil {
		return nil
	}
	return c.AnswerConfig.Selection.SelectableElements
}

// MultiSelect reports whether several reference elements may be picked.
func (c Canvas) MultiSelect() bool {
	return c.AnswerConfig.Selection != nil && c.AnswerConfig.Selection.MultiSelect
}

// Hint is the instruction shown under the canvas, or "".
func (c Canvas) Hint() string {
	cfg := c.AnswerConfig
	switch {
	case c.AnswerType == AnswerPoint && cfg.Point != nil:
		return cfg.Point.Hint
	case c.AnswerType == AnswerLine && cfg.Line != nil && cfg.Line.CheckDirection:
		return "Mind the direction: draw from the start point to the end point."
	case c.AnswerType == AnswerShape && cfg.Shape != nil && cfg.Shape.CheckCongruence:
		return "Shape and size are both checked."
	}
	return ""
}

// Validate reports every problem with the definition at once.
func (p *Problem) Validate() error {
	var errs []error
	if p.Canvas.AnswerType == "" {
		errs = append(errs, ErrNoAnswerType)
	} else {
		switch p.Canvas.AnswerType {
		case AnswerPoint, AnswerLine, AnswerShape, AnswerSelection, AnswerDrawing:
		default:
			errs = append(errs, fmt.Errorf("unknown answer_type %q", p.Canvas.AnswerType))
		}
	}
	if p.Canvas.Width <= 0 || p.Canvas.Height <= 0 {
		errs = append(errs, ErrCanvasSize)
	}
	if p.Canvas.AnswerType == AnswerSelection && len(p.Canvas.Selectables()) == 0 {
		errs = append(errs, errors.New("selection question has no selectable_elements"))
	}

	seen := make(map[string]bool)
	for i, s := range p.Canvas.Selectables() {
		if s.ID == "" {
			errs = append(errs, fmt.Errorf("selectable %d has no id", i))
			continue
		}
		if seen[s.ID] {
			errs = append(errs, fmt.Errorf("duplicate selectable id %q", s.ID))
		}
		seen[s.ID] = true
		switch s.Kind {
		case hittest.KindPoint, hittest.KindLine:
		case hittest.KindArea:
			if len(s.Area) < 3 {
				errs = append(errs, fmt.Errorf("area %q needs at least 3 points", s.ID))
			}
		default:
			errs = append(errs, fmt.Errorf("selectable %q has unknown type %q", s.ID, s.Kind))
		}
	}
	return errors.Join(errs...)
}

// Save writes the problem as yaml.
func (p *Problem) Save(path string) error {
	return yamlfile.Save(path, p)
}

func (p *Problem) Load(path string) error {
	return yamlfile.Load(path, p)
}

// Open loads and validates the problem at path.
func Open(path string) (*Problem, error) {
	p := new(Problem)
	if err := p.Load(path); err != nil {
		return nil, fmt.Errorf("loading problem %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid problem %s: %w", path, err)
	}
	return p, nil
}
