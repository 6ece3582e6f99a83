package hittest

import (
	"slices"

	"github.com/bloodmagesoftware/geoanswer/geom"
)

// Selection is an insertion-ordered set of selectable ids. Like the other
// engine state it is a value; Apply returns a new Selection.
type Selection struct {
	ids []string
}

// NewSelection builds a selection from ids, dropping duplicates.
func NewSelection(ids ...string) Selection {
	var s Selection
	for _, id := range ids {
		if !s.Has(id) {
			s.ids = append(s.ids, id)
		}
	}
	return s
}

// Has reports whether id is selected.
func (s Selection) Has(id string) bool {
	return slices.Contains(s.ids, id)
}

// Len is the number of selected ids.
func (s Selection) Len() int {
	return len(s.ids)
}

// IDs returns the selected ids in the order they were picked.
// The result is never nil.
func (s Selection) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Apply updates the selection for a hit on id. With multiSelect the id is
// toggled; otherwise the selection is replaced by id alone.
func (s Selection) Apply(id string, multiSelect bool) Selection {
	if !multiSelect {
		return Selection{ids: []string{id}}
	}
	if i := slices.Index(s.ids, id); i >= 0 {
		return Selection{ids: slices.Delete(slices.Clone(s.ids), i, i+1)}
	}
	return Selection{ids: append(slices.Clone(s.ids), id)}
}

// Pick runs Nearest for a click at p and applies the hit. A miss returns
// s unchanged.
func (s Selection) Pick(p geom.Point, elements []Selectable, threshold float64, multiSelect bool) Selection {
	id, ok := Nearest(p, elements, threshold)
	if !ok {
		return s
	}
	return s.Apply(id, multiSelect)
}
