package region

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"display-monitor/pkg/geometry"
)

func squareAt(camera string, x, y, size float64) Region {
	return Region{
		CameraID: camera,
		Corners: []geometry.Point2D{
			{X: x, Y: y},
			{X: x + size, Y: y},
			{X: x + size, Y: y + size},
			{X: x, Y: y + size},
		},
	}
}

func TestStoreAddAssignsID(t *testing.T) {
	s := NewStore()
	id := s.Add(squareAt("0", 0, 0, 50))
	require.NotEmpty(t, id)
	assert.NotNil(t, s.Find(id))

	// An explicit id survives.
	r := squareAt("0", 10, 10, 50)
	r.ID = "fixed"
	assert.Equal(t, "fixed", s.Add(r))
}

func TestStoreRemove(t *testing.T) {
	s := NewStore()
	a := s.Add(squareAt("0", 0, 0, 50))
	b := s.Add(squareAt("0", 100, 0, 50))
	s.Select(b)

	s.Remove("unknown")
	assert.Equal(t, 2, s.Len())

	s.Remove(b)
	assert.Equal(t, 1, s.Len())
	assert.Empty(t, s.Selected(), "removing the selected region clears selection")

	s.Select(a)
	s.Remove(a)
	assert.Equal(t, 0, s.Len())
}

func TestStoreSelect(t *testing.T) {
	s := NewStore()
	id := s.Add(squareAt("0", 0, 0, 50))

	s.Select(id)
	assert.Equal(t, id, s.Selected())

	s.Select("nope")
	assert.Empty(t, s.Selected())

	s.Select(id)
	s.Select("")
	assert.Empty(t, s.Selected())
}

func TestStoreByCameraKeepsOrder(t *testing.T) {
	s := NewStore()
	a := s.Add(squareAt("0", 0, 0, 50))
	s.Add(squareAt("1", 0, 0, 50))
	b := s.Add(squareAt("0", 100, 0, 50))

	got := s.ByCamera("0")
	require.Len(t, got, 2)
	assert.Equal(t, a, got[0].ID)
	assert.Equal(t, b, got[1].ID)
	assert.Empty(t, s.ByCamera("9"))
}

func TestStoreReplaceKeepsSelectionIfPresent(t *testing.T) {
	s := NewStore()
	a := s.Add(squareAt("0", 0, 0, 50))
	s.Select(a)

	keep := s.Snapshot()
	s.Replace(keep)
	assert.Equal(t, a, s.Selected())

	s.Replace([]Region{squareAt("0", 0, 0, 50)})
	assert.Empty(t, s.Selected())
}

func TestStoreSnapshotIsIsolated(t *testing.T) {
	s := NewStore()
	id := s.Add(squareAt("0", 0, 0, 50))

	snap := s.Snapshot()
	s.Update(id, func(r *Region) {
		r.Corners[0] = geometry.Point2D{X: 999, Y: 999}
	})
	assert.Equal(t, geometry.Point2D{}, snap[0].Corners[0])
}

func TestSanitizeRebuildsCorners(t *testing.T) {
	r := Region{X: 10, Y: 20, W: 100, H: 50, Rotation: -90}
	r.Sanitize()

	require.Len(t, r.Corners, 4)
	assert.Equal(t, geometry.Point2D{X: 10, Y: 20}, r.Corners[0])
	assert.Equal(t, geometry.Point2D{X: 110, Y: 70}, r.Corners[2])
	assert.Equal(t, 270, r.Rotation)
}

func TestSanitizeRepairsNonFiniteValues(t *testing.T) {
	r := squareAt("0", 0, 0, 50)
	r.X = math.NaN()
	r.W = math.Inf(1)
	r.Corners[2] = geometry.Point2D{X: math.Inf(-1), Y: 5}
	r.Sanitize()

	assert.Equal(t, 0.0, r.X)
	assert.Equal(t, 0.0, r.W)
	assert.Equal(t, geometry.Point2D{}, r.Corners[2])
}

func TestNormalizeDegrees(t *testing.T) {
	assert.Equal(t, 0, NormalizeDegrees(0))
	assert.Equal(t, 0, NormalizeDegrees(360))
	assert.Equal(t, 40, NormalizeDegrees(400))
	assert.Equal(t, 330, NormalizeDegrees(-30))
	assert.Equal(t, 359, NormalizeDegrees(-1))
}

func TestSyncBounds(t *testing.T) {
	r := Region{Corners: []geometry.Point2D{
		{X: 30, Y: 10}, {X: 80, Y: 25}, {X: 60, Y: 90}, {X: 5, Y: 70},
	}}
	r.SyncBounds()
	assert.Equal(t, 5.0, r.X)
	assert.Equal(t, 10.0, r.Y)
	assert.Equal(t, 75.0, r.W)
	assert.Equal(t, 80.0, r.H)
}
