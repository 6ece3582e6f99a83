package capture

import (
	"context"
	"image"
	"log"
	"time"

	"gioui.org/op/paint"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"github.com/bloodmagesoftware/geoanswer/answer"
	"github.com/bloodmagesoftware/geoanswer/drawing"
	"github.com/bloodmagesoftware/geoanswer/session"
	"github.com/bloodmagesoftware/geoanswer/submit"
	"golang.org/x/exp/shiny/materialdesign/icons"
)

// Options configures a capture window.
type Options struct {
	Session    *session.Session
	Background image.Image
	Submitter  submit.Submitter
	// Timeout bounds one submission.
	Timeout time.Duration
	// Invalidate asks the window for a new frame; it is called from the
	// submission goroutine.
	Invalidate func()
}

// Result is what the window produced by the time it was closed.
type Result struct {
	Payload   answer.Payload
	Submitted bool
	Accepted  bool
}

type submission struct {
	payload  answer.Payload
	accepted bool
	err      error
}

// Capture is the interactive canvas: a toolbar, the drawing surface and a
// confidence slider with a submit button.
type Capture struct {
	theme      *material.Theme
	session    *session.Session
	submitter  submit.Submitter
	timeout    time.Duration
	invalidate func()

	background   image.Image
	backgroundOp paint.ImageOp

	toolButtons  []widget.Clickable
	undoButton   widget.Clickable
	redoButton   widget.Clickable
	clearButton  widget.Clickable
	submitButton widget.Clickable
	undoIcon     *widget.Icon
	redoIcon     *widget.Icon
	clearIcon    *widget.Icon
	sendIcon     *widget.Icon
	confidence   widget.Float

	// canvasTag is the pointer event target of the drawing surface.
	canvasTag bool
	// container is the canvas area the viewport was last fitted to.
	container image.Point

	results    chan submission
	submitting bool
	status     string
	result     Result
}

func loadIcon(data []byte, name string) *widget.Icon {
	icon, err := widget.NewIcon(data)
	if err != nil {
		log.Printf("Failed to load %s icon: %v", name, err)
		return nil
	}
	return icon
}

// New creates a capture window component.
func New(theme *material.Theme, opts Options) *Capture {
	c := &Capture{
		theme:       theme,
		session:     opts.Session,
		submitter:   opts.Submitter,
		timeout:     opts.Timeout,
		invalidate:  opts.Invalidate,
		background:  opts.Background,
		toolButtons: make([]widget.Clickable, len(drawing.Tools)),
		undoIcon:    loadIcon(icons.ContentUndo, "undo"),
		redoIcon:    loadIcon(icons.ContentRedo, "redo"),
		clearIcon:   loadIcon(icons.ContentClear, "clear"),
		sendIcon:    loadIcon(icons.ContentSend, "send"),
		results:     make(chan submission, 1),
	}
	if c.background != nil {
		c.backgroundOp = paint.NewImageOp(c.background)
	}
	if c.invalidate == nil {
		c.invalidate = func() {}
	}
	c.confidence.Value = confidenceToSlider(opts.Session.Confidence)
	return c
}

// Result returns the last submission outcome.
func (c *Capture) Result() Result {
	return c.result
}

func confidenceToSlider(level int) float32 {
	level = answer.ClampConfidence(level)
	return float32(level-answer.MinConfidence) / float32(answer.MaxConfidence-answer.MinConfidence)
}

func sliderToConfidence(v float32) int {
	steps := float32(answer.MaxConfidence - answer.MinConfidence)
	return answer.MinConfidence + int(v*steps+0.5)
}

// startSubmit serializes on the frame goroutine and sends in the background.
// Input stays disabled until the evaluator answers. Once an answer is
// accepted nothing more is sent.
func (c *Capture) startSubmit() {
	if c.submitting || c.result.Accepted {
		return
	}
	p, err := c.session.Prepare(time.Now())
	if err != nil {
		c.status = err.Error()
		return
	}
	c.submitting = true
	c.status = "Submitting..."
	c.session.SetDisabled(true)

	go func() {
		ctx := context.Background()
		if c.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}
		accepted, err := c.submitter.Submit(ctx, p)
		c.results <- submission{payload: p, accepted: accepted, err: err}
		c.invalidate()
	}()
}

// collectSubmit applies a finished submission. Accepted answers keep the
// canvas locked.
func (c *Capture) collectSubmit() {
	select {
	case res := <-c.results:
		c.submitting = false
		if res.err != nil {
			log.Printf("Failed to submit answer: %v", res.err)
			c.status = "Submission failed: " + res.err.Error()
			c.session.SetDisabled(false)
			return
		}
		c.result = Result{Payload: res.payload, Submitted: true, Accepted: res.accepted}
		if res.accepted {
			c.status = "Answer accepted"
		} else {
			c.status = "Answer was not accepted, try again"
			c.session.SetDisabled(false)
		}
	default:
	}
}
