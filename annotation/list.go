package annotation

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/bloodmagesoftware/geoanswer/geom"
	"gopkg.in/yaml.v3"
)

// List is an ordered set of elements valid at one point in time.
// Lists are treated as immutable: use With to derive a longer one.
type List []Element

// With returns a new list holding l followed by e. l is left untouched.
func (l List) With(e Element) List {
	out := make(List, 0, len(l)+1)
	out = append(out, l...)
	return append(out, e)
}

// ByCreation returns a copy of the list ordered back to front by commit
// time. Elements with equal timestamps keep their list order.
func (l List) ByCreation() List {
	out := slices.Clone(l)
	slices.SortStableFunc(out, func(a, b Element) int {
		return CreatedAt(a).Compare(CreatedAt(b))
	})
	return out
}

// Find returns the element with the given id.
func (l List) Find(id string) (Element, bool) {
	for _, e := range l {
		if ID(e) == id {
			return e, true
		}
	}
	return nil, false
}

// wireElement is the flat, type-tagged form elements take in answer payloads
// and script files. Timestamps are unix milliseconds.
type wireElement struct {
	Type      Kind         `json:"type" yaml:"type"`
	ID        string       `json:"id" yaml:"id"`
	X         *float64     `json:"x,omitempty" yaml:"x,omitempty"`
	Y         *float64     `json:"y,omitempty" yaml:"y,omitempty"`
	Points    []geom.Point `json:"points,omitempty" yaml:"points,omitempty"`
	Center    *geom.Point  `json:"center,omitempty" yaml:"center,omitempty"`
	Radius    *float64     `json:"radius,omitempty" yaml:"radius,omitempty"`
	CreatedAt int64        `json:"createdAt" yaml:"createdAt"`
}

func toWire(e Element) wireElement {
	b := e.base()
	w := wireElement{
		Type:      e.Kind(),
		ID:        b.ID,
		CreatedAt: b.CreatedAt.UnixMilli(),
	}
	switch el := e.(type) {
	case Point:
		x, y := el.At.X, el.At.Y
		w.X, w.Y = &x, &y
	case Circle:
		center, radius := el.Center, el.Radius
		w.Center, w.Radius = &center, &radius
	default:
		w.Points = Outline(e)
	}
	return w
}

func (w wireElement) element() (Element, error) {
	createdAt := time.UnixMilli(w.CreatedAt)
	switch w.Type {
	case KindPoint:
		if w.X == nil || w.Y == nil {
			return nil, fmt.Errorf("point %q: missing coordinates", w.ID)
		}
		return NewPoint(w.ID, geom.Point{X: *w.X, Y: *w.Y}, createdAt), nil
	case KindLine:
		if len(w.Points) != 2 {
			return nil, fmt.Errorf("line %q: %w", w.ID, ErrTooFewPoints)
		}
		return NewLine(w.ID, w.Points[0], w.Points[1], createdAt), nil
	case KindCircle:
		if w.Center == nil || w.Radius == nil {
			return nil, fmt.Errorf("circle %q: missing center or radius", w.ID)
		}
		c, err := NewCircle(w.ID, *w.Center, *w.Radius, createdAt)
		if err != nil {
			return nil, fmt.Errorf("circle %q: %w", w.ID, err)
		}
		return c, nil
	case KindPolygon:
		p, err := NewPolygon(w.ID, w.Points, createdAt)
		if err != nil {
			return nil, fmt.Errorf("polygon %q: %w", w.ID, err)
		}
		return p, nil
	case KindFreehand:
		f, err := NewFreehand(w.ID, w.Points, createdAt)
		if err != nil {
			return nil, fmt.Errorf("freehand %q: %w", w.ID, err)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("element %q: unknown type %q", w.ID, w.Type)
	}
}

func (l List) wire() []wireElement {
	out := make([]wireElement, len(l))
	for i, e := range l {
		out[i] = toWire(e)
	}
	return out
}

func fromWire(ws []wireElement) (List, error) {
	out := make(List, 0, len(ws))
	for _, w := range ws {
		e, err := w.element()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// MarshalJSON encodes the list as an array of type-tagged objects.
// A nil list encodes as [].
func (l List) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.wire())
}

// UnmarshalJSON decodes an array of type-tagged objects.
func (l *List) UnmarshalJSON(data []byte) error {
	var ws []wireElement
	if err := json.Unmarshal(data, &ws); err != nil {
		return err
	}
	out, err := fromWire(ws)
	if err != nil {
		return err
	}
	*l = out
	return nil
}

// MarshalYAML encodes the list in the same shape as MarshalJSON.
func (l List) MarshalYAML() (any, error) {
	return l.wire(), nil
}

// UnmarshalYAML decodes a sequence of type-tagged mappings.
func (l *List) UnmarshalYAML(value *yaml.Node) error {
	var ws []wireElement
	if err := value.Decode(&ws); err != nil {
		return err
	}
	out, err := fromWire(ws)
	if err != nil {
		return err
	}
	*l = out
	return nil
}
