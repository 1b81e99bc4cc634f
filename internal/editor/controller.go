package editor

import (
	"math"

	"display-monitor/internal/region"
	"display-monitor/pkg/geometry"
)

// State identifies the controller's interaction mode. Idle is both the
// initial and the terminal state; every pointer release returns to it.
type State int

const (
	Idle State = iota
	Dragging
	ResizingCorner
	ResizingEdge
	Rotating
	Drawing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case ResizingCorner:
		return "resizing-corner"
	case ResizingEdge:
		return "resizing-edge"
	case Rotating:
		return "rotating"
	case Drawing:
		return "drawing"
	}
	return "unknown"
}

// Hit-test thresholds, all in rendered-surface pixels.
const (
	cornerHitRadius    = 15.0
	rotateHandleOffset = 40.0
	rotateHitRadius    = 15.0
	edgeHitDistance    = 10.0
)

// gesture is the value-object context of the active pointer interaction.
// All positions are captured in native space at gesture start.
type gesture struct {
	state         State
	regionID      string
	cornerIndex   int
	edgeIndex     int
	startPointer  geometry.Point2D
	startCorners  []geometry.Point2D
	startRotation int
	startAngle    float64
	center        geometry.Point2D
	prevSelection string
}

// PressResult reports what a pointer press resolved to.
type PressResult struct {
	State     State
	RegionID  string
	OpenPanel bool
}

// ReleaseResult reports the outcome of a pointer release.
type ReleaseResult struct {
	State     State
	RegionID  string
	Committed bool
	Discarded bool
	OpenPanel bool
}

// Controller is the pointer-event state machine. It owns all mutation of
// the store and pushes a history snapshot before every mutating gesture.
// It is single-gesture: a press while a gesture is active is ignored.
type Controller struct {
	store    *region.Store
	history  *History
	cameraID string
	gesture  gesture
}

// NewController creates a controller over the given store and history.
func NewController(store *region.Store, history *History) *Controller {
	return &Controller{store: store, history: history}
}

// SetCamera sets the active camera; only its regions are hit-tested.
func (c *Controller) SetCamera(cameraID string) {
	c.cameraID = cameraID
}

// Camera returns the active camera id.
func (c *Controller) Camera() string {
	return c.cameraID
}

// State returns the current interaction state.
func (c *Controller) State() State {
	return c.gesture.state
}

// Store returns the region collection the controller mutates.
func (c *Controller) Store() *region.Store {
	return c.store
}

// History returns the undo/redo history.
func (c *Controller) History() *History {
	return c.history
}

// Press hit-tests the model at the given rendered-surface position and
// begins the matching gesture. Candidate regions are evaluated front to
// back; selectUnder reverses the order so a covered region can be reached.
// With no media mapped, or while a gesture is already active, the press is
// ignored.
func (c *Controller) Press(p geometry.Point2D, m Mapper, selectUnder bool) PressResult {
	if c.gesture.state != Idle || !m.Valid() {
		return PressResult{State: c.gesture.state}
	}

	native := m.ToNative(p)
	candidates := c.store.ByCamera(c.cameraID)

	order := make([]int, len(candidates))
	for i := range order {
		if selectUnder {
			order[i] = i
		} else {
			order[i] = len(candidates) - 1 - i
		}
	}

	for _, idx := range order {
		r := candidates[idx]
		rendered := make([]geometry.Point2D, len(r.Corners))
		for i, corner := range r.Corners {
			rendered[i] = m.ToRendered(corner)
		}

		if ci, ok := hitCorner(p, rendered); ok {
			c.beginGesture(ResizingCorner, r, native)
			c.gesture.cornerIndex = ci
			return PressResult{State: ResizingCorner, RegionID: r.ID}
		}

		if hitRotationHandle(p, rendered) {
			c.beginGesture(Rotating, r, native)
			return PressResult{State: Rotating, RegionID: r.ID}
		}

		if ei, ok := hitEdge(p, rendered); ok {
			c.beginGesture(ResizingEdge, r, native)
			c.gesture.edgeIndex = ei
			return PressResult{State: ResizingEdge, RegionID: r.ID}
		}

		if geometry.PointInPolygon(native, r.Corners) {
			c.beginGesture(Dragging, r, native)
			return PressResult{State: Dragging, RegionID: r.ID, OpenPanel: true}
		}
	}

	if m.InMedia(p) {
		c.history.Push(c.store.All())
		prevSelection := c.store.Selected()
		r := region.New(c.cameraID, native)
		id := c.store.Add(r)
		c.store.Select(id)
		c.gesture = gesture{
			state:         Drawing,
			regionID:      id,
			startPointer:  native,
			startCorners:  []geometry.Point2D{native, native, native, native},
			prevSelection: prevSelection,
		}
		return PressResult{State: Drawing, RegionID: id}
	}

	return PressResult{State: Idle}
}

// beginGesture pushes a snapshot and captures the gesture-start geometry.
func (c *Controller) beginGesture(state State, r region.Region, native geometry.Point2D) {
	c.history.Push(c.store.All())
	c.store.Select(r.ID)

	corners := make([]geometry.Point2D, len(r.Corners))
	copy(corners, r.Corners)
	center := geometry.Centroid(corners)

	c.gesture = gesture{
		state:         state,
		regionID:      r.ID,
		startPointer:  native,
		startCorners:  corners,
		startRotation: r.Rotation,
		startAngle:    math.Atan2(native.Y-center.Y, native.X-center.X),
		center:        center,
	}
}

// Move applies the active gesture's transform for the given pointer
// position. Deltas are computed in native space relative to the gesture
// start, against the corner positions captured at gesture start.
func (c *Controller) Move(p geometry.Point2D, m Mapper) {
	if c.gesture.state == Idle || !m.Valid() {
		return
	}

	native := m.ToNative(p)
	delta := native.Sub(c.gesture.startPointer)
	g := &c.gesture

	c.store.Update(g.regionID, func(r *region.Region) {
		switch g.state {
		case Dragging:
			for i, start := range g.startCorners {
				r.Corners[i] = start.Add(delta)
			}

		case ResizingCorner:
			copy(r.Corners, g.startCorners)
			r.Corners[g.cornerIndex] = g.startCorners[g.cornerIndex].Add(delta)

		case ResizingEdge:
			copy(r.Corners, g.startCorners)
			a := g.edgeIndex
			b := (g.edgeIndex + 1) % 4
			r.Corners[a] = g.startCorners[a].Add(delta)
			r.Corners[b] = g.startCorners[b].Add(delta)

		case Rotating:
			angle := math.Atan2(native.Y-g.center.Y, native.X-g.center.X)
			rot := angle - g.startAngle
			copy(r.Corners, geometry.RotatePoints(g.startCorners, g.center, rot))
			r.Rotation = region.NormalizeDegrees(g.startRotation + int(math.Round(rot*180/math.Pi)))

		case Drawing:
			anchor := g.startCorners[0]
			r.Corners[0] = anchor
			r.Corners[1] = geometry.Point2D{X: native.X, Y: anchor.Y}
			r.Corners[2] = native
			r.Corners[3] = geometry.Point2D{X: anchor.X, Y: native.Y}
		}
	})
}

// Release ends the active gesture. A drawn region below the minimum native
// size is discarded as if it never existed, including the prior selection;
// every other gesture's mutation is already final.
func (c *Controller) Release(p geometry.Point2D, m Mapper) ReleaseResult {
	g := c.gesture
	c.gesture = gesture{}

	if g.state == Idle {
		return ReleaseResult{State: Idle}
	}

	res := ReleaseResult{State: g.state, RegionID: g.regionID}
	if g.state != Drawing {
		return res
	}

	r := c.store.Find(g.regionID)
	if r == nil {
		return res
	}

	b := r.Bounds()
	if b.Width < region.MinSize || b.Height < region.MinSize {
		c.store.Remove(g.regionID)
		c.store.Select(g.prevSelection)
		res.Discarded = true
		return res
	}

	res.Committed = true
	res.OpenPanel = true
	return res
}

// Undo replaces the model with the previous snapshot. Returns false when
// the undo stack is empty.
func (c *Controller) Undo() bool {
	snap, ok := c.history.Undo(c.store.All())
	if !ok {
		return false
	}
	c.store.Replace(snap)
	return true
}

// Redo restores the most recently undone snapshot.
func (c *Controller) Redo() bool {
	snap, ok := c.history.Redo(c.store.All())
	if !ok {
		return false
	}
	c.store.Replace(snap)
	return true
}

// EditProperties applies a confirmed property-panel edit with the same
// snapshot-before-mutation semantics as a geometric gesture. The rotation
// value is informational only; corners are not re-derived from it.
func (c *Controller) EditProperties(id, name string, rotation int, perspective bool) {
	if c.store.Find(id) == nil {
		return
	}
	c.history.Push(c.store.All())
	c.store.Update(id, func(r *region.Region) {
		r.Name = name
		r.Rotation = region.NormalizeDegrees(rotation)
		r.EnablePerspective = perspective
	})
}

// Delete removes a region, recording a snapshot first. Unknown ids are a
// no-op with no snapshot.
func (c *Controller) Delete(id string) {
	if c.store.Find(id) == nil {
		return
	}
	c.history.Push(c.store.All())
	c.store.Remove(id)
}

// hitCorner returns the index of the corner handle within reach of p.
func hitCorner(p geometry.Point2D, rendered []geometry.Point2D) (int, bool) {
	for i, corner := range rendered {
		if p.Distance(corner) <= cornerHitRadius {
			return i, true
		}
	}
	return 0, false
}

// hitRotationHandle tests the rotation handle along the outward normal of
// the corner-0/corner-1 edge. The overlay builder positions the drawn
// handle with the same formula so visuals and hits never drift apart.
func hitRotationHandle(p geometry.Point2D, rendered []geometry.Point2D) bool {
	if len(rendered) != 4 {
		return false
	}
	return p.Distance(rotationHandlePos(rendered)) <= rotateHitRadius
}

// hitEdge returns the index of the first edge whose segment lies within
// the edge threshold of p.
func hitEdge(p geometry.Point2D, rendered []geometry.Point2D) (int, bool) {
	n := len(rendered)
	for i := 0; i < n; i++ {
		if geometry.DistanceToSegment(p, rendered[i], rendered[(i+1)%n]) <= edgeHitDistance {
			return i, true
		}
	}
	return 0, false
}

// rotationHandlePos computes the rotation handle position in rendered
// space: offset from the corner-0/corner-1 edge midpoint along the edge's
// outward normal.
func rotationHandlePos(rendered []geometry.Point2D) geometry.Point2D {
	mid := geometry.EdgeMidpoint(rendered[0], rendered[1])
	normal := geometry.OutwardNormal(rendered[0], rendered[1], geometry.Centroid(rendered))
	return mid.Add(normal.Scale(rotateHandleOffset))
}
