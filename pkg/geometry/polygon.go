package geometry

import (
	"math"
	"sort"
)

// PointInPolygon tests if a point is inside a polygon using even-odd ray casting.
func PointInPolygon(p Point2D, polygon []Point2D) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	n := len(polygon)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		pi, pj := polygon[i], polygon[j]

		// Check if ray from p going right intersects edge pi-pj
		if ((pi.Y > p.Y) != (pj.Y > p.Y)) &&
			(p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X) {
			inside = !inside
		}
	}

	return inside
}

// DistanceToSegment returns the perpendicular distance from p to the
// line segment a-b. Points beyond the segment ends measure to the nearest end.
func DistanceToSegment(p, a, b Point2D) float64 {
	ab := b.Sub(a)
	lenSq := ab.X*ab.X + ab.Y*ab.Y
	if lenSq == 0 {
		return p.Distance(a)
	}

	t := ((p.X-a.X)*ab.X + (p.Y-a.Y)*ab.Y) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	closest := Point2D{X: a.X + t*ab.X, Y: a.Y + t*ab.Y}
	return p.Distance(closest)
}

// RotatePoints returns a copy of points rigidly rotated about center by the
// given angle in radians.
func RotatePoints(points []Point2D, center Point2D, radians float64) []Point2D {
	out := make([]Point2D, len(points))
	for i, p := range points {
		out[i] = p.RotateAbout(center, radians)
	}
	return out
}

// NormalizeQuad reorders four corners to top-left, top-right, bottom-right,
// bottom-left relative to the coordinate axes. Used to "un-rotate" a
// quadrilateral before a perspective warp. Input with a length other than
// four is returned unchanged.
func NormalizeQuad(corners []Point2D) []Point2D {
	if len(corners) != 4 {
		return corners
	}

	sorted := make([]Point2D, 4)
	copy(sorted, corners)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Y < sorted[j].Y })

	top := sorted[:2]
	bot := sorted[2:]
	if top[0].X > top[1].X {
		top[0], top[1] = top[1], top[0]
	}
	// Bottom pair reversed: TR -> BR -> BL clockwise order.
	if bot[0].X < bot[1].X {
		bot[0], bot[1] = bot[1], bot[0]
	}

	return []Point2D{top[0], top[1], bot[0], bot[1]}
}

// EdgeMidpoint returns the midpoint of the edge between a and b.
func EdgeMidpoint(a, b Point2D) Point2D {
	return Point2D{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

// OutwardNormal returns the unit normal of the edge a-b that points away
// from the reference point (typically the polygon centroid). A degenerate
// edge yields an upward-pointing normal.
func OutwardNormal(a, b, reference Point2D) Point2D {
	edge := b.Sub(a)
	length := math.Sqrt(edge.X*edge.X + edge.Y*edge.Y)
	if length == 0 {
		return Point2D{X: 0, Y: -1}
	}

	n := Point2D{X: -edge.Y / length, Y: edge.X / length}
	mid := EdgeMidpoint(a, b)

	// Flip toward the side away from the reference.
	toMid := mid.Sub(reference)
	if n.X*toMid.X+n.Y*toMid.Y < 0 {
		n = Point2D{X: -n.X, Y: -n.Y}
	}
	return n
}
