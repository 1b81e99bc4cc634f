package capture

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"display-monitor/pkg/geometry"
)

func TestReferenceResolution(t *testing.T) {
	w, h := ReferenceResolution(600, 400)
	assert.Equal(t, 640.0, w)
	assert.Equal(t, 480.0, h)

	// Wide 480p layout.
	w, h = ReferenceResolution(840, 470)
	assert.Equal(t, 848.0, w)
	assert.Equal(t, 480.0, h)

	// Anything taller than the 480p buffer zone is treated as 720p.
	w, h = ReferenceResolution(600, 541)
	assert.Equal(t, 1280.0, w)
	assert.Equal(t, 720.0, h)

	w, h = ReferenceResolution(0, 0)
	assert.Equal(t, 640.0, w)
	assert.Equal(t, 480.0, h)
}

func TestNewFrameMappingMatchesHeights(t *testing.T) {
	// 640x480 reference into a 1920x1080 frame: scale 2.25, pillarboxed.
	m := NewFrameMapping(1920, 1080, 600, 400)
	assert.InDelta(t, 2.25, m.Scale, 1e-9)
	assert.InDelta(t, (1920-640*2.25)/2, m.OffsetX, 1e-9)
	assert.InDelta(t, 0, m.OffsetY, 1e-9)

	// Identical spaces map 1:1 with no offset.
	m = NewFrameMapping(1280, 720, 1000, 700)
	assert.InDelta(t, 1.0, m.Scale, 1e-9)
	assert.InDelta(t, 0, m.OffsetX, 1e-9)
	assert.InDelta(t, 0, m.OffsetY, 1e-9)
}

func TestFrameMappingApply(t *testing.T) {
	m := FrameMapping{Scale: 2, OffsetX: 100, OffsetY: 10}
	got := m.Apply(geometry.Point2D{X: 50, Y: 30})
	assert.Equal(t, geometry.Point2D{X: 200, Y: 70}, got)

	got = m.Apply(geometry.Point2D{})
	assert.Equal(t, geometry.Point2D{X: 100, Y: 10}, got)
}
