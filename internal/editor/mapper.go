// Package editor implements the interactive region-editing engine: the
// coordinate mapper, the pointer-gesture state machine, the undo history,
// and the overlay geometry builder.
package editor

import (
	"display-monitor/internal/media"
	"display-monitor/pkg/geometry"
)

// Mapper converts between rendered-surface pixel coordinates (what the
// pointer reports) and native source coordinates (what region geometry is
// stored in). A zero Mapper is invalid and refuses all mapping; the
// controller treats the surface as inert in that case.
type Mapper struct {
	offset geometry.Point2D
	scale  float64
	native media.Dimensions
}

// NewMapper builds a mapper for the given source and viewport. Returns an
// invalid mapper when there is no source or the geometry is degenerate.
func NewMapper(src media.Source, vp media.Viewport) Mapper {
	if src == nil {
		return Mapper{}
	}
	dims := src.NativeDimensions()
	if dims.Width <= 0 || dims.Height <= 0 || vp.RenderedWidth <= 0 {
		return Mapper{}
	}
	return Mapper{
		offset: vp.Offset,
		scale:  vp.RenderedWidth / float64(dims.Width),
		native: dims,
	}
}

// Valid reports whether mapping is possible.
func (m Mapper) Valid() bool {
	return m.scale > 0
}

// Scale returns the rendered-pixels-per-native-pixel factor.
func (m Mapper) Scale() float64 {
	return m.scale
}

// ToNative converts a rendered-surface point to native coordinates.
func (m Mapper) ToNative(p geometry.Point2D) geometry.Point2D {
	return geometry.Point2D{
		X: (p.X - m.offset.X) / m.scale,
		Y: (p.Y - m.offset.Y) / m.scale,
	}
}

// ToRendered converts a native point to rendered-surface coordinates.
func (m Mapper) ToRendered(p geometry.Point2D) geometry.Point2D {
	return geometry.Point2D{
		X: m.offset.X + p.X*m.scale,
		Y: m.offset.Y + p.Y*m.scale,
	}
}

// InMedia reports whether a rendered-surface point falls inside the
// displayed media bounds.
func (m Mapper) InMedia(p geometry.Point2D) bool {
	if !m.Valid() {
		return false
	}
	n := m.ToNative(p)
	return n.X >= 0 && n.Y >= 0 &&
		n.X <= float64(m.native.Width) && n.Y <= float64(m.native.Height)
}
