package drawing

import (
	"github.com/bloodmagesoftware/geoanswer/annotation"
	"github.com/bloodmagesoftware/geoanswer/geom"
	"github.com/bloodmagesoftware/geoanswer/history"
	"github.com/bloodmagesoftware/geoanswer/hittest"
	"github.com/bloodmagesoftware/geoanswer/viewport"
)

// State is everything the canvas redraw depends on.
type State struct {
	Tool      Tool
	Viewport  viewport.Viewport
	History   history.History
	Selection hittest.Selection

	// Dragging is true between a pointer-down and the matching pointer-up
	// in a path tool. Path holds the in-progress gesture in logical space.
	Dragging bool
	Path     []geom.Point

	// pending is a viewport received while dragging. It is installed when
	// the drag ends so Path never mixes two transforms.
	pending *viewport.Viewport
}

// NewState returns the initial state for a tool and viewport.
func NewState(tool Tool, vp viewport.Viewport, historyLimit int) State {
	return State{
		Tool:     tool,
		Viewport: vp,
		History:  history.New(historyLimit),
	}
}

// Annotations is the visible annotation list.
func (s State) Annotations() annotation.List {
	return s.History.Current()
}

// PendingResize reports whether a resize is waiting for the drag to end.
func (s State) PendingResize() bool {
	return s.pending != nil
}

// DownViewport is the transform a pointer-down is mapped with: a pending
// viewport takes effect before the new gesture starts.
func (s State) DownViewport() viewport.Viewport {
	if s.pending != nil {
		return *s.pending
	}
	return s.Viewport
}
