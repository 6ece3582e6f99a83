// Package session drives one canvas question: it owns the reducer state
// for a problem and turns it into frames and answer payloads.
package session

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/bloodmagesoftware/geoanswer/annotation"
	"github.com/bloodmagesoftware/geoanswer/answer"
	"github.com/bloodmagesoftware/geoanswer/drawing"
	"github.com/bloodmagesoftware/geoanswer/problem"
	"github.com/bloodmagesoftware/geoanswer/project"
	"github.com/bloodmagesoftware/geoanswer/render"
	"github.com/bloodmagesoftware/geoanswer/submit"
	"github.com/bloodmagesoftware/geoanswer/viewport"
)

// Session is not safe for concurrent use; the capture window calls it from
// its frame loop only.
type Session struct {
	Problem    *problem.Problem
	Confidence int

	layout  viewport.Layout
	palette render.Palette
	reducer drawing.Config
	state   drawing.State

	recording bool
	steps     []Step
}

// New starts a session with the problem's default tool. The viewport is
// fitted to the problem canvas at its reference width until Resize is called.
func New(p *problem.Problem, cfg *project.Config) *Session {
	s := &Session{
		Problem:    p,
		Confidence: answer.DefaultConfidence,
		layout:     cfg.Canvas,
		palette:    cfg.Palette,
		reducer: drawing.Config{
			Selectables: p.Canvas.Selectables(),
			MultiSelect: p.Canvas.MultiSelect(),
			Threshold:   cfg.SelectionThreshold,
		},
	}
	vp := s.fit(cfg.Canvas.ReferenceWidth+cfg.Canvas.Padding, 0)
	s.state = drawing.NewState(p.Canvas.AnswerType.DefaultTool(), vp, cfg.HistoryLimit)
	return s
}

func (s *Session) fit(containerWidth, maxHeight float64) viewport.Viewport {
	return s.layout.Fit(containerWidth, maxHeight, s.Problem.Canvas.Width, s.Problem.Canvas.Height)
}

// State returns the current reducer state.
func (s *Session) State() drawing.State {
	return s.state
}

// Palette is the palette frames are composed with.
func (s *Session) Palette() render.Palette {
	return s.palette
}

// SetIDs replaces the element id generator, for reproducible output.
func (s *Session) SetIDs(newID func(annotation.Kind) string) {
	s.reducer.NewID = newID
}

// SetDisabled freezes user input, for example while a submission is in flight.
func (s *Session) SetDisabled(disabled bool) {
	s.reducer.Disabled = disabled
}

func (s *Session) Disabled() bool {
	return s.reducer.Disabled
}

// Dispatch applies one event.
func (s *Session) Dispatch(ev drawing.Event) {
	if s.recording && !s.reducer.Disabled {
		if step, ok := s.stepFor(ev); ok {
			s.steps = append(s.steps, step)
		}
	}
	s.state = s.reducer.Reduce(s.state, ev)
}

// Resize refits the canvas into a container and dispatches the result.
// maxHeight <= 0 leaves the height unbounded.
func (s *Session) Resize(containerWidth, maxHeight float64) {
	s.Dispatch(drawing.Resize{Viewport: s.fit(containerWidth, maxHeight)})
}

// Restore shows a previously serialized answer: its drawings become one
// undoable snapshot and its selection replaces the current one. A disabled
// session ignores it like any other input.
func (s *Session) Restore(p answer.Payload) {
	if s.reducer.Disabled {
		return
	}
	s.Dispatch(drawing.Load{Elements: p.DrawnElements, Selected: p.SelectedElements})
	if p.ConfidenceLevel != 0 {
		s.Confidence = p.ConfidenceLevel
	}
}

// Frame composes the current redraw.
func (s *Session) Frame() render.Frame {
	f := render.Compose(s.state, s.reducer.Selectables, s.palette)
	f.Caption = s.Problem.Title
	return f
}

// Payload serializes the visible answer.
func (s *Session) Payload(at time.Time) answer.Payload {
	return answer.Serialize(
		s.state.Annotations(),
		s.state.Selection,
		string(s.Problem.Canvas.AnswerType),
		s.Confidence,
		at,
	)
}

// CanSubmit reports whether the current answer may be submitted.
func (s *Session) CanSubmit() bool {
	return answer.CanSubmit(s.Payload(time.Time{}))
}

// Prepare serializes the answer for submission. Empty answers are refused
// with answer.ErrEmpty.
func (s *Session) Prepare(at time.Time) (answer.Payload, error) {
	p := s.Payload(at)
	if !answer.CanSubmit(p) {
		return p, answer.ErrEmpty
	}
	return p, nil
}

// Submit prepares the answer and hands it to sub. Nothing is sent for an
// empty answer.
func (s *Session) Submit(ctx context.Context, sub submit.Submitter, at time.Time) (answer.Payload, bool, error) {
	p, err := s.Prepare(at)
	if err != nil {
		return p, false, err
	}
	accepted, err := sub.Submit(ctx, p)
	if err != nil {
		return p, false, fmt.Errorf("submitting answer: %w", err)
	}
	log.Printf("answer for %s submitted, accepted=%v", s.Problem.ID, accepted)
	return p, accepted, nil
}
