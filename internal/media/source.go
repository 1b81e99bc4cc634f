// Package media describes the active media source an editor surface displays.
package media

import "display-monitor/pkg/geometry"

// Dimensions is a native pixel size.
type Dimensions struct {
	Width  int
	Height int
}

// Source is the media the regions are defined against: a live camera feed
// or a still reference image. Both expose their native resolution through
// the same accessor so display code never inspects the concrete type.
type Source interface {
	NativeDimensions() Dimensions
}

// Video is a live camera feed.
type Video struct {
	CameraID string
	Dims     Dimensions
}

// NativeDimensions implements Source.
func (v Video) NativeDimensions() Dimensions { return v.Dims }

// Image is a still frame used in place of a live feed.
type Image struct {
	Path string
	Dims Dimensions
}

// NativeDimensions implements Source.
func (i Image) NativeDimensions() Dimensions { return i.Dims }

// Viewport describes where and how large the media is currently rendered on
// the interaction surface: the top-left corner of the media element relative
// to the surface origin, plus the rendered width. Rendered height follows
// from the source aspect ratio.
type Viewport struct {
	Offset        geometry.Point2D
	RenderedWidth float64
}
