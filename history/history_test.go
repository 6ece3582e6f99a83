package history

import (
	"testing"
	"time"

	"github.com/bloodmagesoftware/geoanswer/annotation"
	"github.com/bloodmagesoftware/geoanswer/geom"
)

func list(ids ...string) annotation.List {
	var l annotation.List
	for i, id := range ids {
		l = l.With(annotation.NewPoint(id, geom.Point{X: float64(i)}, time.UnixMilli(int64(i))))
	}
	return l
}

func ids(l annotation.List) []string {
	out := make([]string, len(l))
	for i, e := range l {
		out[i] = annotation.ID(e)
	}
	return out
}

func equalIDs(t *testing.T, got annotation.List, want ...string) {
	t.Helper()
	g := ids(got)
	if len(g) != len(want) {
		t.Fatalf("visible ids = %v, want %v", g, want)
	}
	for i := range want {
		if g[i] != want[i] {
			t.Fatalf("visible ids = %v, want %v", g, want)
		}
	}
}

func TestNewHistory(t *testing.T) {
	h := New(0)
	if h.Len() != 1 || h.Cursor() != 0 {
		t.Fatalf("new history len=%d cursor=%d, want 1/0", h.Len(), h.Cursor())
	}
	if len(h.Current()) != 0 {
		t.Error("initial snapshot should be empty")
	}
	if h.Limit() != DefaultLimit {
		t.Errorf("limit = %d, want %d", h.Limit(), DefaultLimit)
	}
}

func TestZeroValueIsUsable(t *testing.T) {
	var h History
	if len(h.Current()) != 0 {
		t.Error("zero history should show the empty list")
	}
	h = h.Commit(list("a"))
	equalIDs(t, h.Current(), "a")
	if h.Len() != 2 {
		t.Errorf("len = %d, want 2", h.Len())
	}
}

func TestUndoRedoLaw(t *testing.T) {
	a := list("a")
	b := list("a", "b")
	c := list("a", "c")

	h := New(DefaultLimit).Commit(a).Commit(b).Undo()
	equalIDs(t, h.Current(), "a")

	h = h.Commit(c)
	equalIDs(t, h.Current(), "a", "c")

	for i := 0; i < h.Len(); i++ {
		for _, id := range ids(h.snapshots[i]) {
			if id == "b" {
				t.Fatalf("snapshot %d still contains b after truncating commit", i)
			}
		}
	}

	redone := h.Redo()
	if redone.Cursor() != h.Cursor() {
		t.Error("redo at the tip should be a no-op")
	}
}

func TestUndoAtStartIsNoop(t *testing.T) {
	h := New(DefaultLimit)
	h = h.Undo().Undo()
	if h.Cursor() != 0 || h.Len() != 1 {
		t.Errorf("cursor=%d len=%d after undo on empty history", h.Cursor(), h.Len())
	}
}

func TestUndoRedoWalk(t *testing.T) {
	h := New(DefaultLimit).Commit(list("a")).Commit(list("a", "b"))
	h = h.Undo().Undo()
	if len(h.Current()) != 0 {
		t.Errorf("two undos should reach the empty snapshot, got %v", ids(h.Current()))
	}
	if h.CanUndo() {
		t.Error("CanUndo should be false at the start")
	}
	h = h.Redo().Redo()
	equalIDs(t, h.Current(), "a", "b")
	if h.CanRedo() {
		t.Error("CanRedo should be false at the tip")
	}
}

func TestClearIsUndoable(t *testing.T) {
	h := New(DefaultLimit).Commit(list("a")).Clear()
	if len(h.Current()) != 0 {
		t.Fatal("clear should show the empty list")
	}
	if h.Len() != 3 {
		t.Errorf("len = %d, want 3", h.Len())
	}
	equalIDs(t, h.Undo().Current(), "a")
}

func TestOlderValuesSurviveBranching(t *testing.T) {
	root := New(DefaultLimit).Commit(list("a")).Commit(list("a", "b")).Undo()
	left := root.Commit(list("a", "left"))
	right := root.Commit(list("a", "right"))

	equalIDs(t, left.Current(), "a", "left")
	equalIDs(t, right.Current(), "a", "right")
	equalIDs(t, root.Redo().Current(), "a", "b")
}

func TestLimitEvictsOldest(t *testing.T) {
	h := New(3)
	h = h.Commit(list("a")).Commit(list("b")).Commit(list("c"))

	if h.Len() != 3 {
		t.Fatalf("len = %d, want capped at 3", h.Len())
	}
	if len(h.snapshots[0]) != 0 {
		t.Error("snapshot 0 must stay empty after eviction")
	}
	equalIDs(t, h.snapshots[1], "b")
	equalIDs(t, h.Current(), "c")
	if h.Cursor() != 2 {
		t.Errorf("cursor = %d, want 2", h.Cursor())
	}
}
