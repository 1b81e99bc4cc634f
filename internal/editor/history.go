package editor

import "display-monitor/internal/region"

// DefaultHistoryDepth is the bounded undo stack capacity.
const DefaultHistoryDepth = 50

// History keeps bounded undo/redo stacks of deep-copied region snapshots.
// Snapshots are pushed immediately before a mutating gesture or committed
// property edit; undo/redo themselves never push.
type History struct {
	limit int
	undo  [][]region.Region
	redo  [][]region.Region
}

// NewHistory creates a history with the given stack depth. Depths below one
// fall back to the default.
func NewHistory(limit int) *History {
	if limit < 1 {
		limit = DefaultHistoryDepth
	}
	return &History{limit: limit}
}

// Push records a snapshot of current onto the undo stack, evicting the
// oldest entry when over capacity, and clears the redo stack.
func (h *History) Push(current []region.Region) {
	h.undo = append(h.undo, region.CloneAll(current))
	if len(h.undo) > h.limit {
		h.undo = h.undo[1:]
	}
	h.redo = nil
}

// Undo returns the most recent snapshot and moves current onto the redo
// stack. Returns ok=false (and no state change) when the undo stack is empty.
func (h *History) Undo(current []region.Region) ([]region.Region, bool) {
	if len(h.undo) == 0 {
		return nil, false
	}
	snap := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, region.CloneAll(current))
	return snap, true
}

// Redo is the inverse of Undo; no-op when the redo stack is empty.
func (h *History) Redo(current []region.Region) ([]region.Region, bool) {
	if len(h.redo) == 0 {
		return nil, false
	}
	snap := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, region.CloneAll(current))
	return snap, true
}

// CanUndo reports whether an undo snapshot is available.
func (h *History) CanUndo() bool { return len(h.undo) > 0 }

// CanRedo reports whether a redo snapshot is available.
func (h *History) CanRedo() bool { return len(h.redo) > 0 }

// UndoDepth returns the number of undo snapshots held.
func (h *History) UndoDepth() int { return len(h.undo) }
