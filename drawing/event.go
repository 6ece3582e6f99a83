package drawing

import (
	"time"

	"github.com/bloodmagesoftware/geoanswer/annotation"
	"github.com/bloodmagesoftware/geoanswer/viewport"
)

// Event is an input to the reducer.
type Event interface {
	event()
}

type (
	// SelectTool switches the active tool and cancels any gesture in progress.
	SelectTool struct {
		Tool Tool
	}

	PointerDown struct {
		Position viewport.ScreenPoint
		At       time.Time
	}

	PointerMove struct {
		Position viewport.ScreenPoint
	}

	PointerUp struct {
		At time.Time
	}

	// PointerLeave fires when the pointer exits the canvas; it ends a
	// gesture the same way PointerUp does.
	PointerLeave struct {
		At time.Time
	}

	Undo struct{}
	Redo struct{}

	// Clear empties the canvas and the selection. It is recorded in history.
	Clear struct{}

	// Load replaces the canvas with a saved answer. Any gesture in
	// progress is dropped and the elements are committed as one snapshot.
	Load struct {
		Elements annotation.List
		Selected []string
	}

	// Resize installs a freshly fitted viewport.
	Resize struct {
		Viewport viewport.Viewport
	}
)

func (SelectTool) event()   {}
func (PointerDown) event()  {}
func (PointerMove) event()  {}
func (PointerUp) event()    {}
func (PointerLeave) event() {}
func (Undo) event()         {}
func (Redo) event()         {}
func (Clear) event()        {}
func (Load) event()         {}
func (Resize) event()       {}
