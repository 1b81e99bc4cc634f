package capture

import (
	"image"

	"gocv.io/x/gocv"

	"display-monitor/internal/region"
	"display-monitor/pkg/geometry"
)

// Default output size when a region carries no explicit dimensions.
const (
	defaultOutputW = 400
	defaultOutputH = 300
)

// ReferenceResolution infers the coordinate space a layout was authored
// against from its maximum x/y extent. Layouts are drawn over a browser- or
// editor-rendered preview, so the common capture defaults (640x480, 848x480
// for 16:9 480p, 1280x720) are assumed, with a buffer zone above each
// standard height.
func ReferenceResolution(maxX, maxY float64) (w, h float64) {
	if maxY <= 540 {
		if maxX <= 720 {
			return 640, 480
		}
		return 848, 480
	}
	return 1280, 720
}

// FrameMapping is the uniform scale and centering offset that maps
// layout-reference coordinates onto a capture frame. Scale matches the
// heights; pillarboxing or cropping absorbs the width difference.
type FrameMapping struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

// NewFrameMapping computes the mapping from a reference space (hinted by
// the layout's maximum extents) into a frame of the given size.
func NewFrameMapping(frameW, frameH int, maxX, maxY float64) FrameMapping {
	srcW, srcH := ReferenceResolution(maxX, maxY)
	scale := float64(frameH) / srcH
	return FrameMapping{
		Scale:   scale,
		OffsetX: (float64(frameW) - srcW*scale) / 2,
		OffsetY: (float64(frameH) - srcH*scale) / 2,
	}
}

// Apply maps a reference-space point into frame coordinates.
func (m FrameMapping) Apply(p geometry.Point2D) geometry.Point2D {
	return geometry.Point2D{
		X: p.X*m.Scale + m.OffsetX,
		Y: p.Y*m.Scale + m.OffsetY,
	}
}

// ExtractRegion cuts a region out of a full camera frame: a perspective
// warp to the region's target size when EnablePerspective is set, otherwise
// a bounding-box crop resized to the target. The returned Mat is owned by
// the caller.
func ExtractRegion(frame gocv.Mat, r region.Region, maxX, maxY float64) gocv.Mat {
	fw, fh := frame.Cols(), frame.Rows()
	mapping := NewFrameMapping(fw, fh, maxX, maxY)

	dstW := int(r.W)
	dstH := int(r.H)
	if dstW <= 0 {
		dstW = defaultOutputW
	}
	if dstH <= 0 {
		dstH = defaultOutputH
	}

	scaled := make([]geometry.Point2D, len(r.Corners))
	for i, c := range r.Corners {
		scaled[i] = mapping.Apply(c)
	}

	if len(scaled) != 4 {
		// Legacy entry with only a bounding box.
		tl := mapping.Apply(geometry.Point2D{X: r.X, Y: r.Y})
		return cropResize(frame,
			int(tl.X), int(tl.Y),
			int(tl.X+r.W*mapping.Scale), int(tl.Y+r.H*mapping.Scale),
			dstW, dstH)
	}

	if r.EnablePerspective {
		return warpPerspective(frame, scaled, dstW, dstH)
	}

	box := geometry.BoundingBox(scaled)
	return cropResize(frame,
		int(box.X), int(box.Y),
		int(box.X+box.Width), int(box.Y+box.Height),
		dstW, dstH)
}

// warpPerspective rectifies the quadrilateral into a dstW x dstH image.
// Corners are normalized to camera-up orientation first so a rotated
// region comes out upright.
func warpPerspective(frame gocv.Mat, corners []geometry.Point2D, dstW, dstH int) gocv.Mat {
	norm := geometry.NormalizeQuad(corners)

	src := make([]gocv.Point2f, 4)
	for i, c := range norm {
		src[i] = gocv.Point2f{X: float32(c.X), Y: float32(c.Y)}
	}
	dst := []gocv.Point2f{
		{X: 0, Y: 0},
		{X: float32(dstW), Y: 0},
		{X: float32(dstW), Y: float32(dstH)},
		{X: 0, Y: float32(dstH)},
	}

	srcVec := gocv.NewPoint2fVectorFromPoints(src)
	dstVec := gocv.NewPoint2fVectorFromPoints(dst)
	defer srcVec.Close()
	defer dstVec.Close()

	m := gocv.GetPerspectiveTransform2f(srcVec, dstVec)
	defer m.Close()

	warped := gocv.NewMat()
	gocv.WarpPerspective(frame, &warped, m, image.Pt(dstW, dstH))
	return warped
}

// cropResize clamps the crop box to the frame, extracts it, and resizes to
// the target. A degenerate box yields a black region of the target size.
func cropResize(frame gocv.Mat, x1, y1, x2, y2, dstW, dstH int) gocv.Mat {
	fw, fh := frame.Cols(), frame.Rows()
	rect := image.Rect(x1, y1, x2, y2).Intersect(image.Rect(0, 0, fw, fh))
	if rect.Dx() <= 0 || rect.Dy() <= 0 {
		return gocv.NewMatWithSize(dstH, dstW, gocv.MatTypeCV8UC3)
	}

	roi := frame.Region(rect)
	defer roi.Close()

	out := gocv.NewMat()
	if rect.Dx() == dstW && rect.Dy() == dstH {
		roi.CopyTo(&out)
	} else {
		gocv.Resize(roi, &out, image.Pt(dstW, dstH), 0, 0, gocv.InterpolationLinear)
	}
	return out
}
