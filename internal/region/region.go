// Package region defines the display region entity and its mutable collection.
package region

import (
	"math"

	"github.com/google/uuid"

	"display-monitor/pkg/geometry"
)

// MinSize is the minimum axis-aligned width/height (in native source pixels)
// a freshly drawn region must reach to be kept.
const MinSize = 20.0

// Region is a quadrilateral display area defined against a camera feed.
// Corners are stored in native-source pixel space, conventionally
// top-left, top-right, bottom-right, bottom-left at creation time. The
// ordering is not re-normalized after rotation; corner positions remain
// the geometric source of truth.
type Region struct {
	ID       string `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name"`
	CameraID string `yaml:"camId" json:"camId"`

	Corners []geometry.Point2D `yaml:"corners" json:"corners"`

	// Rotation is cumulative degrees in [0, 360), kept consistent with
	// corner rotation but never used to re-derive corner positions.
	Rotation int `yaml:"rotation" json:"rotation"`

	// EnablePerspective selects perspective warp over bounding-box crop
	// when the region is extracted from a frame.
	EnablePerspective bool `yaml:"enablePerspective" json:"enablePerspective"`

	// Axis-aligned bounding box, recomputed from corners on save. Also the
	// fallback geometry when a stored region lacks corners.
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
	W float64 `yaml:"w" json:"w"`
	H float64 `yaml:"h" json:"h"`
}

// New creates a region for the given camera with all four corners collapsed
// onto the anchor point. This is the provisional state at the start of a
// draw gesture.
func New(cameraID string, anchor geometry.Point2D) Region {
	return Region{
		ID:       uuid.NewString(),
		CameraID: cameraID,
		Corners: []geometry.Point2D{
			anchor, anchor, anchor, anchor,
		},
	}
}

// Bounds returns the axis-aligned bounding box of the corners.
func (r *Region) Bounds() geometry.Rect {
	return geometry.BoundingBox(r.Corners)
}

// Centroid returns the average corner position.
func (r *Region) Centroid() geometry.Point2D {
	return geometry.Centroid(r.Corners)
}

// SyncBounds recomputes the stored x/y/w/h from the corners.
func (r *Region) SyncBounds() {
	b := r.Bounds()
	r.X, r.Y, r.W, r.H = b.X, b.Y, b.Width, b.Height
}

// Clone returns a deep copy of the region.
func (r Region) Clone() Region {
	out := r
	out.Corners = make([]geometry.Point2D, len(r.Corners))
	copy(out.Corners, r.Corners)
	return out
}

// Sanitize repairs a region loaded from persisted config: non-finite
// coordinates default to 0, a corner list that is not exactly four points
// is reconstructed from the bounding box, and the rotation value is
// normalized into [0, 360). Geometry problems in stored data are always
// recoverable, never fatal.
func (r *Region) Sanitize() {
	for _, f := range []*float64{&r.X, &r.Y, &r.W, &r.H} {
		if math.IsNaN(*f) || math.IsInf(*f, 0) {
			*f = 0
		}
	}

	if len(r.Corners) != 4 {
		r.Corners = geometry.NewRect(r.X, r.Y, r.W, r.H).Corners()
	}
	for i := range r.Corners {
		if !r.Corners[i].Finite() {
			r.Corners[i] = geometry.Point2D{}
		}
	}

	r.Rotation = NormalizeDegrees(r.Rotation)
}

// NormalizeDegrees maps an angle to the equivalent value in [0, 360).
func NormalizeDegrees(deg int) int {
	deg %= 360
	if deg < 0 {
		deg += 360
	}
	return deg
}

// CloneAll deep-copies a region slice. History snapshots rely on this to
// stay immune to later in-place mutation.
func CloneAll(regions []Region) []Region {
	out := make([]Region, len(regions))
	for i, r := range regions {
		out[i] = r.Clone()
	}
	return out
}
