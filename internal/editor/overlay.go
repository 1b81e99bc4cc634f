package editor

import (
	"display-monitor/internal/region"
	"display-monitor/pkg/geometry"
)

// Overlay holds the drawable primitives for one frame of the editing
// surface, all in rendered-surface coordinates. Building it reads the model
// and never mutates it, so it is safe to rebuild after every mutation and
// on every selection change.
type Overlay struct {
	Outlines      []Outline
	CornerHandles []Handle
	RotateHandle  *Handle
	Label         *Label
}

// Outline is a region's quadrilateral border.
type Outline struct {
	RegionID string
	Points   []geometry.Point2D
	Selected bool
}

// Handle is a circular grab target.
type Handle struct {
	Center geometry.Point2D
	Radius float64
}

// Label is a region name anchored above its first corner.
type Label struct {
	Text string
	At   geometry.Point2D
}

// BuildOverlay produces the overlay for every region of the active camera.
// The selected region additionally gets its four corner handles, the
// rotation handle (positioned by the same normal-offset formula the
// hit-test uses), and its name label.
func BuildOverlay(store *region.Store, m Mapper, cameraID string) Overlay {
	var ov Overlay
	if !m.Valid() {
		return ov
	}

	selected := store.Selected()
	for _, r := range store.ByCamera(cameraID) {
		rendered := make([]geometry.Point2D, len(r.Corners))
		for i, corner := range r.Corners {
			rendered[i] = m.ToRendered(corner)
		}

		isSel := r.ID == selected
		ov.Outlines = append(ov.Outlines, Outline{
			RegionID: r.ID,
			Points:   rendered,
			Selected: isSel,
		})

		if !isSel || len(rendered) != 4 {
			continue
		}

		for _, corner := range rendered {
			ov.CornerHandles = append(ov.CornerHandles, Handle{
				Center: corner,
				Radius: cornerHitRadius,
			})
		}
		ov.RotateHandle = &Handle{
			Center: rotationHandlePos(rendered),
			Radius: rotateHitRadius,
		}
		ov.Label = &Label{
			Text: r.Name,
			At:   geometry.Point2D{X: rendered[0].X, Y: rendered[0].Y - 8},
		}
	}
	return ov
}
