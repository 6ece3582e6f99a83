package answer

import (
	"errors"
	"time"

	"github.com/bloodmagesoftware/geoanswer/annotation"
	"github.com/bloodmagesoftware/geoanswer/hittest"
)

// Confidence bounds.
const (
	MinConfidence     = 1
	MaxConfidence     = 5
	DefaultConfidence = 3
)

// ErrEmpty is returned when a payload carries neither drawings nor a selection.
var ErrEmpty = errors.New("answer has no drawn or selected elements")

// Payload is the gradable answer handed to an evaluator.
type Payload struct {
	Type             string          `json:"type" yaml:"type"`
	DrawnElements    annotation.List `json:"drawnElements" yaml:"drawnElements"`
	SelectedElements []string        `json:"selectedElements" yaml:"selectedElements"`
	ConfidenceLevel  int             `json:"confidenceLevel" yaml:"confidenceLevel"`
	// Timestamp is milliseconds since the unix epoch.
	Timestamp int64 `json:"timestamp" yaml:"timestamp"`
}

// Serialize builds the payload for the visible annotations and selection.
// It accepts any input; out of range confidence values are clamped.
func Serialize(list annotation.List, sel hittest.Selection, answerType string, confidence int, at time.Time) Payload {
	drawn := list
	if drawn == nil {
		drawn = annotation.List{}
	}
	return Payload{
		Type:             answerType,
		DrawnElements:    drawn,
		SelectedElements: sel.IDs(),
		ConfidenceLevel:  ClampConfidence(confidence),
		Timestamp:        at.UnixMilli(),
	}
}

// ClampConfidence forces c into MinConfidence..MaxConfidence.
func ClampConfidence(c int) int {
	return min(max(c, MinConfidence), MaxConfidence)
}

// CanSubmit reports whether p has anything to grade.
func CanSubmit(p Payload) bool {
	return len(p.DrawnElements) > 0 || len(p.SelectedElements) > 0
}

// Time returns the payload timestamp.
func (p Payload) Time() time.Time {
	return time.UnixMilli(p.Timestamp)
}

var confidenceLabels = [...]string{
	"not confident at all",
	"not confident",
	"neutral",
	"confident",
	"completely confident",
}

// ConfidenceLabel is the label shown next to the confidence slider.
func ConfidenceLabel(c int) string {
	return confidenceLabels[ClampConfidence(c)-MinConfidence]
}
