package capture

import (
	"fmt"
	"image/color"
	"strings"

	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"github.com/bloodmagesoftware/geoanswer/answer"
	"github.com/bloodmagesoftware/geoanswer/drawing"
)

var (
	barColor      = color.NRGBA{R: 30, G: 41, B: 59, A: 255}
	textColor     = color.NRGBA{R: 226, G: 232, B: 240, A: 255}
	activeColor   = color.NRGBA{R: 239, G: 68, B: 68, A: 255}
	inactiveColor = color.NRGBA{R: 71, G: 85, B: 105, A: 255}
	submitColor   = color.NRGBA{R: 34, G: 197, B: 94, A: 255}
)

// toolKeys maps the number keys to tools in toolbar order.
var toolKeys = []key.Name{"1", "2", "3", "4", "5", "6"}

// Layout renders the entire capture UI
func (c *Capture) Layout(gtx layout.Context) layout.Dimensions {
	c.collectSubmit()

	// Register for global keyboard events
	event.Op(gtx.Ops, c)
	c.handleKeys(gtx)
	c.handleButtons(gtx)

	dims := layout.Flex{
		Axis: layout.Vertical,
	}.Layout(gtx,
		layout.Rigid(c.layoutTopBar),
		layout.Flexed(1, c.layoutCanvas),
		layout.Rigid(c.layoutBottomBar),
	)

	c.session.Confidence = sliderToConfidence(c.confidence.Value)
	return dims
}

func (c *Capture) handleKeys(gtx layout.Context) {
	filters := []event.Filter{
		key.Filter{Name: "Z", Required: key.ModShortcut, Optional: key.ModShift},
		key.Filter{Name: "Y", Required: key.ModShortcut},
		key.Filter{Name: key.NameEscape},
		key.Filter{Name: key.NameReturn, Required: key.ModShortcut},
	}
	for _, name := range toolKeys {
		filters = append(filters, key.Filter{Name: name})
	}

	for {
		ev, ok := gtx.Event(filters...)
		if !ok {
			break
		}
		e, ok := ev.(key.Event)
		if !ok || e.State != key.Press {
			continue
		}

		switch e.Name {
		case "Z":
			if e.Modifiers.Contain(key.ModShift) {
				c.session.Dispatch(drawing.Redo{})
			} else {
				c.session.Dispatch(drawing.Undo{})
			}
		case "Y":
			c.session.Dispatch(drawing.Redo{})
		case key.NameEscape:
			// Re-selecting the active tool drops the gesture in progress.
			c.session.Dispatch(drawing.SelectTool{Tool: c.session.State().Tool})
		case key.NameReturn:
			c.startSubmit()
		default:
			for i, name := range toolKeys {
				if e.Name == name {
					c.session.Dispatch(drawing.SelectTool{Tool: drawing.Tools[i]})
				}
			}
		}
	}
}

func (c *Capture) handleButtons(gtx layout.Context) {
	for i := range c.toolButtons {
		if c.toolButtons[i].Clicked(gtx) {
			c.session.Dispatch(drawing.SelectTool{Tool: drawing.Tools[i]})
		}
	}
	if c.undoButton.Clicked(gtx) {
		c.session.Dispatch(drawing.Undo{})
	}
	if c.redoButton.Clicked(gtx) {
		c.session.Dispatch(drawing.Redo{})
	}
	if c.clearButton.Clicked(gtx) {
		c.session.Dispatch(drawing.Clear{})
	}
	if c.submitButton.Clicked(gtx) {
		c.startSubmit()
	}
}

func fillBackground(gtx layout.Context, col color.NRGBA) layout.Dimensions {
	defer clip.Rect{Max: gtx.Constraints.Min}.Push(gtx.Ops).Pop()
	paint.ColorOp{Color: col}.Add(gtx.Ops)
	paint.PaintOp{}.Add(gtx.Ops)
	return layout.Dimensions{Size: gtx.Constraints.Min}
}

// layoutTopBar renders the problem title and the tool buttons
func (c *Capture) layoutTopBar(gtx layout.Context) layout.Dimensions {
	gtx.Constraints.Min.X = gtx.Constraints.Max.X

	return layout.Background{}.Layout(gtx,
		func(gtx layout.Context) layout.Dimensions {
			return fillBackground(gtx, barColor)
		},
		func(gtx layout.Context) layout.Dimensions {
			return layout.UniformInset(unit.Dp(8)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				children := []layout.FlexChild{
					layout.Rigid(func(gtx layout.Context) layout.Dimensions {
						label := material.H6(c.theme, c.session.Problem.Title)
						label.Color = textColor
						return label.Layout(gtx)
					}),
					layout.Rigid(layout.Spacer{Width: unit.Dp(16)}.Layout),
				}
				active := c.session.State().Tool
				for i, tool := range drawing.Tools {
					children = append(children, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
						btn := material.Button(c.theme, &c.toolButtons[i], toolLabel(tool))
						if tool == active {
							btn.Background = activeColor
						} else {
							btn.Background = inactiveColor
						}
						btn.Color = textColor
						return layout.Inset{Right: unit.Dp(4)}.Layout(gtx, btn.Layout)
					}))
				}
				return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx, children...)
			})
		},
	)
}

func toolLabel(t drawing.Tool) string {
	s := string(t)
	return strings.ToUpper(s[:1]) + s[1:]
}

func (c *Capture) iconButton(gtx layout.Context, clickable *widget.Clickable, icon *widget.Icon, desc string, bg color.NRGBA) layout.Dimensions {
	if icon == nil {
		btn := material.Button(c.theme, clickable, desc)
		btn.Background = bg
		return btn.Layout(gtx)
	}
	btn := material.IconButton(c.theme, clickable, icon, desc)
	btn.Background = bg
	btn.Color = textColor
	btn.Size = unit.Dp(20)
	return btn.Layout(gtx)
}

// layoutBottomBar renders the hint, history buttons, confidence slider and
// submit button
func (c *Capture) layoutBottomBar(gtx layout.Context) layout.Dimensions {
	gtx.Constraints.Min.X = gtx.Constraints.Max.X
	state := c.session.State()

	return layout.Background{}.Layout(gtx,
		func(gtx layout.Context) layout.Dimensions {
			return fillBackground(gtx, barColor)
		},
		func(gtx layout.Context) layout.Dimensions {
			return layout.UniformInset(unit.Dp(8)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
					layout.Rigid(func(gtx layout.Context) layout.Dimensions {
						hint := c.session.Problem.Canvas.Hint()
						if hint == "" {
							return layout.Dimensions{}
						}
						label := material.Body2(c.theme, hint)
						label.Color = textColor
						return layout.Inset{Bottom: unit.Dp(8)}.Layout(gtx, label.Layout)
					}),
					layout.Rigid(func(gtx layout.Context) layout.Dimensions {
						return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle}.Layout(gtx,
							layout.Rigid(func(gtx layout.Context) layout.Dimensions {
								bg := inactiveColor
								if !state.History.CanUndo() {
									bg.A = 120
								}
								return layout.Inset{Right: unit.Dp(4)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
									return c.iconButton(gtx, &c.undoButton, c.undoIcon, "Undo", bg)
								})
							}),
							layout.Rigid(func(gtx layout.Context) layout.Dimensions {
								bg := inactiveColor
								if !state.History.CanRedo() {
									bg.A = 120
								}
								return layout.Inset{Right: unit.Dp(4)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
									return c.iconButton(gtx, &c.redoButton, c.redoIcon, "Redo", bg)
								})
							}),
							layout.Rigid(func(gtx layout.Context) layout.Dimensions {
								return layout.Inset{Right: unit.Dp(16)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
									return c.iconButton(gtx, &c.clearButton, c.clearIcon, "Clear", inactiveColor)
								})
							}),
							layout.Rigid(func(gtx layout.Context) layout.Dimensions {
								level := sliderToConfidence(c.confidence.Value)
								label := material.Body1(c.theme, fmt.Sprintf("Confidence %d: %s", level, answer.ConfidenceLabel(level)))
								label.Color = textColor
								return layout.Inset{Right: unit.Dp(8)}.Layout(gtx, label.Layout)
							}),
							layout.Flexed(1, func(gtx layout.Context) layout.Dimensions {
								return material.Slider(c.theme, &c.confidence).Layout(gtx)
							}),
							layout.Rigid(func(gtx layout.Context) layout.Dimensions {
								bg := submitColor
								if c.submitting || c.result.Accepted || !c.session.CanSubmit() {
									bg = inactiveColor
								}
								return layout.Inset{Left: unit.Dp(16)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
									return c.iconButton(gtx, &c.submitButton, c.sendIcon, "Submit answer", bg)
								})
							}),
						)
					}),
					layout.Rigid(func(gtx layout.Context) layout.Dimensions {
						if c.status == "" {
							return layout.Dimensions{}
						}
						label := material.Caption(c.theme, c.status)
						label.Color = textColor
						return layout.Inset{Top: unit.Dp(6)}.Layout(gtx, label.Layout)
					}),
				)
			})
		},
	)
}
