package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func square(x, y, size float64) []Point2D {
	return []Point2D{
		{X: x, Y: y},
		{X: x + size, Y: y},
		{X: x + size, Y: y + size},
		{X: x, Y: y + size},
	}
}

func TestPointInPolygon(t *testing.T) {
	sq := square(10, 10, 100)

	assert.True(t, PointInPolygon(Point2D{X: 60, Y: 60}, sq))
	assert.False(t, PointInPolygon(Point2D{X: 5, Y: 60}, sq))
	assert.False(t, PointInPolygon(Point2D{X: 200, Y: 200}, sq))

	// Degenerate polygons are never hit.
	assert.False(t, PointInPolygon(Point2D{X: 0, Y: 0}, sq[:2]))
	assert.False(t, PointInPolygon(Point2D{X: 0, Y: 0}, nil))

	// A point exactly on a vertex gets whatever answer ray casting gives,
	// but it must be the same answer every time.
	first := PointInPolygon(sq[0], sq)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, PointInPolygon(sq[0], sq))
	}
}

func TestPointInPolygonRotated(t *testing.T) {
	center := Point2D{X: 60, Y: 60}
	rotated := RotatePoints(square(10, 10, 100), center, math.Pi/4)

	assert.True(t, PointInPolygon(center, rotated))
	// The original square's corner falls outside the rotated diamond.
	assert.False(t, PointInPolygon(Point2D{X: 12, Y: 12}, rotated))
}

func TestDistanceToSegment(t *testing.T) {
	a := Point2D{X: 0, Y: 0}
	b := Point2D{X: 10, Y: 0}

	assert.InDelta(t, 5, DistanceToSegment(Point2D{X: 5, Y: 5}, a, b), 1e-9)
	// Beyond the ends, distance is to the nearest endpoint.
	assert.InDelta(t, 5, DistanceToSegment(Point2D{X: -3, Y: 4}, a, b), 1e-9)
	assert.InDelta(t, 5, DistanceToSegment(Point2D{X: 13, Y: 4}, a, b), 1e-9)
	// Zero-length segment measures to the single point.
	assert.InDelta(t, 5, DistanceToSegment(Point2D{X: 3, Y: 4}, a, a), 1e-9)
}

func TestRotatePointsPreservesShape(t *testing.T) {
	sq := square(10, 10, 100)
	center := Centroid(sq)

	rotated := RotatePoints(sq, center, math.Pi/6)
	require.Len(t, rotated, 4)

	// Centroid is invariant under rigid rotation.
	rc := Centroid(rotated)
	assert.InDelta(t, center.X, rc.X, 1e-9)
	assert.InDelta(t, center.Y, rc.Y, 1e-9)

	// Edge lengths are preserved.
	for i := 0; i < 4; i++ {
		want := sq[i].Distance(sq[(i+1)%4])
		got := rotated[i].Distance(rotated[(i+1)%4])
		assert.InDelta(t, want, got, 1e-9)
	}

	// A full turn comes back to the start.
	full := RotatePoints(sq, center, 2*math.Pi)
	for i := range sq {
		assert.InDelta(t, sq[i].X, full[i].X, 1e-9)
		assert.InDelta(t, sq[i].Y, full[i].Y, 1e-9)
	}
}

func TestNormalizeQuad(t *testing.T) {
	tl := Point2D{X: 0, Y: 0}
	tr := Point2D{X: 100, Y: 5}
	br := Point2D{X: 105, Y: 95}
	bl := Point2D{X: 5, Y: 100}

	// Any input order yields TL, TR, BR, BL.
	got := NormalizeQuad([]Point2D{br, tl, bl, tr})
	require.Len(t, got, 4)
	assert.Equal(t, tl, got[0])
	assert.Equal(t, tr, got[1])
	assert.Equal(t, br, got[2])
	assert.Equal(t, bl, got[3])

	// Non-quad input passes through unchanged.
	tri := []Point2D{tl, tr, br}
	assert.Equal(t, tri, NormalizeQuad(tri))
}

func TestOutwardNormal(t *testing.T) {
	sq := square(0, 0, 10)
	center := Centroid(sq)

	// Top edge normal points up, away from the centroid.
	n := OutwardNormal(sq[0], sq[1], center)
	assert.InDelta(t, 0, n.X, 1e-9)
	assert.InDelta(t, -1, n.Y, 1e-9)

	// Bottom edge normal points down.
	n = OutwardNormal(sq[2], sq[3], center)
	assert.InDelta(t, 0, n.X, 1e-9)
	assert.InDelta(t, 1, n.Y, 1e-9)

	// Degenerate edge falls back to up.
	n = OutwardNormal(sq[0], sq[0], center)
	assert.Equal(t, Point2D{X: 0, Y: -1}, n)
}

func TestBoundingBoxAndCentroid(t *testing.T) {
	points := []Point2D{{X: 3, Y: 7}, {X: -2, Y: 4}, {X: 9, Y: -1}}

	box := BoundingBox(points)
	assert.Equal(t, Rect{X: -2, Y: -1, Width: 11, Height: 8}, box)

	c := Centroid(points)
	assert.InDelta(t, 10.0/3, c.X, 1e-9)
	assert.InDelta(t, 10.0/3, c.Y, 1e-9)

	assert.Equal(t, Rect{}, BoundingBox(nil))
	assert.Equal(t, Point2D{}, Centroid(nil))
}
