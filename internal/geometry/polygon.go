package geometry

import (
	"math"
	"sort"
)

// Centroid returns the arithmetic mean of points. It returns the zero Point
// for an empty slice.
func Centroid(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}
	var sum Point
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Scale(1 / float64(len(points)))
}

// ArcLength returns the length of the polyline through points in the given
// order. When closed is true the segment from the last point back to the
// first is included.
func ArcLength(points []Point, closed bool) float64 {
	if len(points) < 2 {
		return 0
	}
	var total float64
	for i := 1; i < len(points); i++ {
		total += points[i-1].Distance(points[i])
	}
	if closed {
		total += points[len(points)-1].Distance(points[0])
	}
	return total
}

// PolygonArea returns the absolute area enclosed by points taken as a closed
// polygon (shoelace formula).
func PolygonArea(points []Point) float64 {
	if len(points) < 3 {
		return 0
	}
	var sum float64
	for i := range points {
		j := (i + 1) % len(points)
		sum += points[i].X*points[j].Y - points[j].X*points[i].Y
	}
	return math.Abs(sum) / 2
}

// ConvexHull returns the convex hull of points using Andrew's monotone chain.
// Collinear points on the hull boundary are dropped, as are exact duplicates.
// The result starts at the lowest-X (then lowest-Y) point and winds with
// positive Cross in a Y-up frame (clockwise on screen).
func ConvexHull(points []Point) []Point {
	pts := append([]Point(nil), points...)
	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})
	pts = dedupSorted(pts)
	if len(pts) < 3 {
		return pts
	}

	hull := make([]Point, 0, 2*len(pts))
	for _, p := range pts {
		for len(hull) >= 2 && Cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && Cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull[:len(hull)-1]
}

func dedupSorted(pts []Point) []Point {
	if len(pts) == 0 {
		return pts
	}
	out := pts[:1]
	for _, p := range pts[1:] {
		if p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	return out
}

// Collinear reports whether a, b and c lie on one line within tol, measured
// as the area of the triangle they span.
func Collinear(a, b, c Point, tol float64) bool {
	return math.Abs(Cross(a, b, c))/2 <= tol
}

// MinSeparation returns the smallest pairwise distance among points, or +Inf
// when fewer than two points are given.
func MinSeparation(points []Point) float64 {
	best := math.Inf(1)
	for i := range points {
		for j := i + 1; j < len(points); j++ {
			if d := points[i].Distance(points[j]); d < best {
				best = d
			}
		}
	}
	return best
}
