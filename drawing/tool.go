package drawing

import "fmt"

// Tool is the active drawing mode.
type Tool string

const (
	ToolSelect   Tool = "select"
	ToolPoint    Tool = "point"
	ToolLine     Tool = "line"
	ToolCircle   Tool = "circle"
	ToolPolygon  Tool = "polygon"
	ToolFreehand Tool = "freehand"
)

// Tools lists every tool in toolbar order.
var Tools = []Tool{ToolSelect, ToolPoint, ToolLine, ToolCircle, ToolPolygon, ToolFreehand}

// ParseTool validates a tool name.
func ParseTool(name string) (Tool, error) {
	for _, t := range Tools {
		if string(t) == name {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown tool %q", name)
}

// drags reports whether the tool accumulates a path between pointer-down
// and pointer-up.
func (t Tool) drags() bool {
	switch t {
	case ToolLine, ToolCircle, ToolPolygon, ToolFreehand:
		return true
	}
	return false
}
