package history

import "github.com/bloodmagesoftware/geoanswer/annotation"

// DefaultLimit bounds the number of snapshots kept.
const DefaultLimit = 200

// History is a linear undo/redo timeline of annotation lists.
//
// History is a value: every operation returns a new History and leaves the
// receiver usable, so older states can be kept around (for example by a
// reducer) without being corrupted by later commits.
// snapshots[0] is always the empty list and 0 <= cursor < len(snapshots).
type History struct {
	snapshots []annotation.List
	cursor    int
	limit     int
}

// New returns a history holding only the empty initial snapshot.
// A limit below 2 selects DefaultLimit.
func New(limit int) History {
	if limit < 2 {
		limit = DefaultLimit
	}
	return History{
		snapshots: []annotation.List{{}},
		limit:     limit,
	}
}

func (h History) init() History {
	if h.snapshots == nil {
		return New(h.limit)
	}
	return h
}

// Current is the visible annotation list.
func (h History) Current() annotation.List {
	h = h.init()
	return h.snapshots[h.cursor]
}

// Len is the number of snapshots, including the initial empty one.
func (h History) Len() int {
	return len(h.init().snapshots)
}

// Cursor is the index of the visible snapshot.
func (h History) Cursor() int {
	return h.cursor
}

// Limit is the snapshot cap.
func (h History) Limit() int {
	return h.init().limit
}

// CanUndo reports whether Undo would move the cursor.
func (h History) CanUndo() bool {
	return h.cursor > 0
}

// CanRedo reports whether Redo would move the cursor.
func (h History) CanRedo() bool {
	return h.cursor < h.Len()-1
}

// Commit drops every snapshot after the cursor, appends list and moves the
// cursor onto it. When the cap is exceeded the oldest snapshot after the
// initial empty one is evicted.
func (h History) Commit(list annotation.List) History {
	h = h.init()

	// Full slice expression forces append to copy instead of writing into
	// an array shared with an older History value.
	kept := h.snapshots[: h.cursor+1 : h.cursor+1]
	snapshots := append(kept, list)

	if len(snapshots) > h.limit {
		trimmed := make([]annotation.List, 0, h.limit)
		trimmed = append(trimmed, snapshots[0])
		trimmed = append(trimmed, snapshots[len(snapshots)-h.limit+1:]...)
		snapshots = trimmed
	}

	return History{
		snapshots: snapshots,
		cursor:    len(snapshots) - 1,
		limit:     h.limit,
	}
}

// Undo moves the cursor one step back; at the initial snapshot it is a no-op.
func (h History) Undo() History {
	h = h.init()
	if h.cursor > 0 {
		h.cursor--
	}
	return h
}

// Redo moves the cursor one step forward; at the tip it is a no-op.
func (h History) Redo() History {
	h = h.init()
	if h.cursor < len(h.snapshots)-1 {
		h.cursor++
	}
	return h
}

// Clear commits an empty list, so it can itself be undone.
func (h History) Clear() History {
	return h.Commit(annotation.List{})
}
