package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"display-monitor/internal/media"
	"display-monitor/internal/region"
	"display-monitor/pkg/geometry"
)

// identityMapper maps rendered coordinates 1:1 onto a 1920x1080 source.
func identityMapper() Mapper {
	src := media.Video{CameraID: "0", Dims: media.Dimensions{Width: 1920, Height: 1080}}
	return NewMapper(src, media.Viewport{RenderedWidth: 1920})
}

func addSquare(store *region.Store, camera string, x, y, size float64) string {
	r := region.Region{
		CameraID: camera,
		Corners: []geometry.Point2D{
			{X: x, Y: y},
			{X: x + size, Y: y},
			{X: x + size, Y: y + size},
			{X: x, Y: y + size},
		},
	}
	return store.Add(r)
}

func newTestController() (*Controller, *region.Store) {
	store := region.NewStore()
	c := NewController(store, NewHistory(DefaultHistoryDepth))
	c.SetCamera("0")
	return c, store
}

func TestDrawCommit(t *testing.T) {
	c, store := newTestController()
	m := identityMapper()

	res := c.Press(geometry.Point2D{X: 50, Y: 50}, m, false)
	assert.Equal(t, Drawing, res.State)
	require.NotEmpty(t, res.RegionID)
	assert.Equal(t, res.RegionID, store.Selected())

	c.Move(geometry.Point2D{X: 150, Y: 150}, m)
	rel := c.Release(geometry.Point2D{X: 150, Y: 150}, m)
	assert.True(t, rel.Committed)
	assert.False(t, rel.Discarded)
	assert.True(t, rel.OpenPanel)
	assert.Equal(t, Idle, c.State())

	r := store.Find(res.RegionID)
	require.NotNil(t, r)
	want := []geometry.Point2D{
		{X: 50, Y: 50}, {X: 150, Y: 50}, {X: 150, Y: 150}, {X: 50, Y: 150},
	}
	assert.Equal(t, want, r.Corners)
}

func TestDrawDragToUpperLeft(t *testing.T) {
	c, store := newTestController()
	m := identityMapper()

	res := c.Press(geometry.Point2D{X: 200, Y: 200}, m, false)
	c.Move(geometry.Point2D{X: 120, Y: 140}, m)
	rel := c.Release(geometry.Point2D{X: 120, Y: 140}, m)
	assert.True(t, rel.Committed)

	b := store.Find(res.RegionID).Bounds()
	assert.Equal(t, geometry.Rect{X: 120, Y: 140, Width: 80, Height: 60}, b)
}

func TestDrawDiscardBelowMinimumSize(t *testing.T) {
	c, store := newTestController()
	m := identityMapper()

	existing := addSquare(store, "0", 500, 500, 100)
	store.Select(existing)

	res := c.Press(geometry.Point2D{X: 50, Y: 50}, m, false)
	c.Move(geometry.Point2D{X: 69, Y: 200}, m) // width 19, below the threshold
	rel := c.Release(geometry.Point2D{X: 69, Y: 200}, m)

	assert.True(t, rel.Discarded)
	assert.False(t, rel.Committed)
	assert.Nil(t, store.Find(res.RegionID))
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, existing, store.Selected(), "prior selection is restored")
}

func TestDragMovesAllCorners(t *testing.T) {
	c, store := newTestController()
	m := identityMapper()
	id := addSquare(store, "0", 100, 100, 100)

	res := c.Press(geometry.Point2D{X: 150, Y: 150}, m, false)
	assert.Equal(t, Dragging, res.State)
	assert.Equal(t, id, res.RegionID)
	assert.True(t, res.OpenPanel)
	assert.Equal(t, id, store.Selected())

	c.Move(geometry.Point2D{X: 175, Y: 180}, m)
	c.Release(geometry.Point2D{X: 175, Y: 180}, m)

	want := []geometry.Point2D{
		{X: 125, Y: 130}, {X: 225, Y: 130}, {X: 225, Y: 230}, {X: 125, Y: 230},
	}
	assert.Equal(t, want, store.Find(id).Corners)
}

func TestCornerResizeMovesOnlyThatCorner(t *testing.T) {
	c, store := newTestController()
	m := identityMapper()
	id := addSquare(store, "0", 100, 100, 100)

	res := c.Press(geometry.Point2D{X: 105, Y: 103}, m, false) // near corner 0
	assert.Equal(t, ResizingCorner, res.State)

	c.Move(geometry.Point2D{X: 85, Y: 93}, m) // delta (-20, -10)
	c.Release(geometry.Point2D{X: 85, Y: 93}, m)

	r := store.Find(id)
	assert.Equal(t, geometry.Point2D{X: 80, Y: 90}, r.Corners[0])
	assert.Equal(t, geometry.Point2D{X: 200, Y: 100}, r.Corners[1])
	assert.Equal(t, geometry.Point2D{X: 200, Y: 200}, r.Corners[2])
	assert.Equal(t, geometry.Point2D{X: 100, Y: 200}, r.Corners[3])
}

func TestEdgeResizeMovesBothEndpoints(t *testing.T) {
	c, store := newTestController()
	m := identityMapper()
	id := addSquare(store, "0", 100, 100, 100)

	// Midpoint of the top edge: clear of both corner handles and of the
	// rotation handle 40px above.
	res := c.Press(geometry.Point2D{X: 150, Y: 100}, m, false)
	require.Equal(t, ResizingEdge, res.State)

	c.Move(geometry.Point2D{X: 150, Y: 80}, m)
	c.Release(geometry.Point2D{X: 150, Y: 80}, m)

	r := store.Find(id)
	assert.Equal(t, geometry.Point2D{X: 100, Y: 80}, r.Corners[0])
	assert.Equal(t, geometry.Point2D{X: 200, Y: 80}, r.Corners[1])
	assert.Equal(t, geometry.Point2D{X: 200, Y: 200}, r.Corners[2])
	assert.Equal(t, geometry.Point2D{X: 100, Y: 200}, r.Corners[3])
}

func TestRotateQuarterTurn(t *testing.T) {
	c, store := newTestController()
	m := identityMapper()
	id := addSquare(store, "0", 100, 100, 100)

	// The rotation handle sits 40px outward from the top edge midpoint.
	res := c.Press(geometry.Point2D{X: 150, Y: 60}, m, false)
	require.Equal(t, Rotating, res.State)

	// Sweep the pointer a quarter turn clockwise about the center.
	c.Move(geometry.Point2D{X: 240, Y: 150}, m)
	c.Release(geometry.Point2D{X: 240, Y: 150}, m)

	r := store.Find(id)
	assert.Equal(t, 90, r.Rotation)

	// Corner order is preserved, not re-normalized: corner 0 is now at
	// the top-right of the axis-aligned footprint.
	assert.InDelta(t, 200, r.Corners[0].X, 1e-9)
	assert.InDelta(t, 100, r.Corners[0].Y, 1e-9)
	assert.InDelta(t, 200, r.Corners[1].X, 1e-9)
	assert.InDelta(t, 200, r.Corners[1].Y, 1e-9)
}

func TestRotationAccumulatesAcrossGestures(t *testing.T) {
	c, store := newTestController()
	m := identityMapper()
	id := addSquare(store, "0", 100, 100, 100)
	store.Update(id, func(r *region.Region) { r.Rotation = 300 })

	res := c.Press(geometry.Point2D{X: 150, Y: 60}, m, false)
	require.Equal(t, Rotating, res.State)
	c.Move(geometry.Point2D{X: 240, Y: 150}, m)
	c.Release(geometry.Point2D{X: 240, Y: 150}, m)

	// 300 + 90 wraps into [0, 360).
	assert.Equal(t, 30, store.Find(id).Rotation)
}

func TestHitPriorityCornerBeatsInterior(t *testing.T) {
	c, store := newTestController()
	m := identityMapper()
	addSquare(store, "0", 100, 100, 100)

	res := c.Press(geometry.Point2D{X: 110, Y: 110}, m, false)
	assert.Equal(t, ResizingCorner, res.State)
	c.Release(geometry.Point2D{X: 110, Y: 110}, m)
}

func TestFrontmostWinsAndSelectUnderReverses(t *testing.T) {
	c, store := newTestController()
	m := identityMapper()
	back := addSquare(store, "0", 100, 100, 200)
	front := addSquare(store, "0", 150, 150, 200)

	// Interior point covered by both; the later region is frontmost.
	p := geometry.Point2D{X: 250, Y: 250}
	res := c.Press(p, m, false)
	assert.Equal(t, front, res.RegionID)
	c.Release(p, m)

	res = c.Press(p, m, true)
	assert.Equal(t, back, res.RegionID)
	c.Release(p, m)
}

func TestPressIgnoredWhileGestureActive(t *testing.T) {
	c, store := newTestController()
	m := identityMapper()
	addSquare(store, "0", 100, 100, 100)

	c.Press(geometry.Point2D{X: 150, Y: 150}, m, false)
	depth := c.History().UndoDepth()

	res := c.Press(geometry.Point2D{X: 500, Y: 500}, m, false)
	assert.Equal(t, Dragging, res.State)
	assert.Equal(t, depth, c.History().UndoDepth(), "no snapshot for the ignored press")
	assert.Equal(t, 1, store.Len(), "no region drawn by the ignored press")
}

func TestInvalidMapperIsInert(t *testing.T) {
	c, store := newTestController()
	var m Mapper

	res := c.Press(geometry.Point2D{X: 50, Y: 50}, m, false)
	assert.Equal(t, Idle, res.State)
	assert.Equal(t, 0, store.Len())
	assert.False(t, c.History().CanUndo())
}

func TestPressOutsideMediaIsNoOp(t *testing.T) {
	c, store := newTestController()
	src := media.Video{CameraID: "0", Dims: media.Dimensions{Width: 100, Height: 100}}
	m := NewMapper(src, media.Viewport{
		Offset:        geometry.Point2D{X: 50, Y: 50},
		RenderedWidth: 100,
	})

	res := c.Press(geometry.Point2D{X: 10, Y: 10}, m, false)
	assert.Equal(t, Idle, res.State)
	assert.Equal(t, 0, store.Len())
}

func TestUndoRedoOfDrag(t *testing.T) {
	c, store := newTestController()
	m := identityMapper()
	id := addSquare(store, "0", 100, 100, 100)

	c.Press(geometry.Point2D{X: 150, Y: 150}, m, false)
	c.Move(geometry.Point2D{X: 250, Y: 150}, m)
	c.Release(geometry.Point2D{X: 250, Y: 150}, m)
	assert.Equal(t, geometry.Point2D{X: 200, Y: 100}, store.Find(id).Corners[0])

	require.True(t, c.Undo())
	assert.Equal(t, geometry.Point2D{X: 100, Y: 100}, store.Find(id).Corners[0])

	require.True(t, c.Redo())
	assert.Equal(t, geometry.Point2D{X: 200, Y: 100}, store.Find(id).Corners[0])

	assert.False(t, c.Redo(), "redo stack exhausted")
}

func TestEditPropertiesSnapshotsAndNormalizes(t *testing.T) {
	c, store := newTestController()
	id := addSquare(store, "0", 100, 100, 100)

	c.EditProperties(id, "north wall", 400, true)

	r := store.Find(id)
	assert.Equal(t, "north wall", r.Name)
	assert.Equal(t, 40, r.Rotation)
	assert.True(t, r.EnablePerspective)

	require.True(t, c.Undo())
	r = store.Find(id)
	assert.Equal(t, "", r.Name)
	assert.Equal(t, 0, r.Rotation)

	// Unknown ids push nothing.
	depth := c.History().UndoDepth()
	c.EditProperties("missing", "x", 0, false)
	assert.Equal(t, depth, c.History().UndoDepth())
}

func TestDeleteSnapshotsFirst(t *testing.T) {
	c, store := newTestController()
	id := addSquare(store, "0", 100, 100, 100)

	c.Delete(id)
	assert.Equal(t, 0, store.Len())

	require.True(t, c.Undo())
	assert.Equal(t, 1, store.Len())

	depth := c.History().UndoDepth()
	c.Delete("missing")
	assert.Equal(t, depth, c.History().UndoDepth())
}

func TestOtherCameraRegionsAreNotHit(t *testing.T) {
	c, store := newTestController()
	m := identityMapper()
	addSquare(store, "1", 100, 100, 100)

	// The press lands inside the other camera's region, so it starts a
	// draw on the active camera instead.
	res := c.Press(geometry.Point2D{X: 150, Y: 150}, m, false)
	assert.Equal(t, Drawing, res.State)
	c.Release(geometry.Point2D{X: 150, Y: 150}, m)
}
