package editor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"display-monitor/internal/region"
	"display-monitor/pkg/geometry"
)

func namedRegions(names ...string) []region.Region {
	out := make([]region.Region, len(names))
	for i, name := range names {
		out[i] = region.New("0", geometry.Point2D{X: float64(i * 100)})
		out[i].Name = name
	}
	return out
}

func TestHistoryUndoRedo(t *testing.T) {
	h := NewHistory(DefaultHistoryDepth)
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())

	v1 := namedRegions("a")
	v2 := namedRegions("a", "b")

	h.Push(v1)
	assert.True(t, h.CanUndo())

	snap, ok := h.Undo(v2)
	require.True(t, ok)
	assert.Equal(t, "a", snap[0].Name)
	require.Len(t, snap, 1)
	assert.True(t, h.CanRedo())

	snap, ok = h.Redo(snap)
	require.True(t, ok)
	require.Len(t, snap, 2)
	assert.Equal(t, "b", snap[1].Name)
}

func TestHistoryEmptyStacksAreNoOps(t *testing.T) {
	h := NewHistory(10)

	_, ok := h.Undo(nil)
	assert.False(t, ok)
	_, ok = h.Redo(nil)
	assert.False(t, ok)
}

func TestHistoryPushClearsRedo(t *testing.T) {
	h := NewHistory(10)
	h.Push(namedRegions("a"))
	_, ok := h.Undo(namedRegions("a", "b"))
	require.True(t, ok)
	assert.True(t, h.CanRedo())

	h.Push(namedRegions("c"))
	assert.False(t, h.CanRedo())
}

func TestHistoryCapacityEvictsOldest(t *testing.T) {
	h := NewHistory(50)
	for i := 0; i < 60; i++ {
		h.Push(namedRegions(fmt.Sprintf("v%d", i)))
	}
	assert.Equal(t, 50, h.UndoDepth())

	// Walking all the way back stops at v10, the oldest surviving snapshot.
	var last []region.Region
	for h.CanUndo() {
		snap, ok := h.Undo(last)
		require.True(t, ok)
		last = snap
	}
	require.Len(t, last, 1)
	assert.Equal(t, "v10", last[0].Name)
}

func TestHistorySnapshotsAreIsolated(t *testing.T) {
	h := NewHistory(10)
	live := namedRegions("a")
	h.Push(live)

	// Mutating the live slice after the push must not alter the snapshot.
	live[0].Name = "mutated"
	live[0].Corners[0] = geometry.Point2D{X: 999, Y: 999}

	snap, ok := h.Undo(live)
	require.True(t, ok)
	assert.Equal(t, "a", snap[0].Name)
	assert.Equal(t, geometry.Point2D{}, snap[0].Corners[0])
}
