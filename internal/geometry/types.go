// Package geometry provides the planar primitives shared by the line, corner
// and homography stages.
//
// All coordinates use the image convention: origin at the top-left corner,
// X increasing rightward and Y increasing downward. Values are immutable;
// every operation returns a new value.
package geometry

import (
	"fmt"
	"math"
)

// Point is a 2D point with floating-point coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale returns p multiplied by factor.
func (p Point) Scale(factor float64) Point {
	return Point{X: p.X * factor, Y: p.Y * factor}
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Norm returns the length of p treated as a vector.
func (p Point) Norm() float64 {
	return math.Hypot(p.X, p.Y)
}

func (p Point) String() string {
	return fmt.Sprintf("(%.2f,%.2f)", p.X, p.Y)
}

// Cross returns the z component of (a-o) x (b-o). Positive when o->a->b turns
// counter-clockwise in a Y-up frame.
func Cross(o, a, b Point) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// PolarLine is an infinite line in Hesse normal form: the set of points p with
// p.X*cos(Theta) + p.Y*sin(Theta) == Rho.
type PolarLine struct {
	Rho   float64 `json:"rho"`
	Theta float64 `json:"theta"`
}

// Segment returns a finite stand-in for the line. The base point is the foot
// of the normal from the origin; the endpoints lie extent units either side of
// it along the line direction. extent must exceed the image diagonal for the
// segment to behave as infinite inside the frame.
func (l PolarLine) Segment(extent float64) Segment {
	cos, sin := math.Cos(l.Theta), math.Sin(l.Theta)
	base := Point{X: l.Rho * cos, Y: l.Rho * sin}
	dir := Point{X: -sin, Y: cos}
	return Segment{
		P1: base.Add(dir.Scale(extent)),
		P2: base.Sub(dir.Scale(extent)),
	}
}

// Distance returns the perpendicular distance from p to the line.
func (l PolarLine) Distance(p Point) float64 {
	return math.Abs(p.X*math.Cos(l.Theta) + p.Y*math.Sin(l.Theta) - l.Rho)
}

// LineThrough returns the polar form of the line through a and b, with Theta
// normalised into [0, pi). Rho may be negative, as with a Hough accumulator.
func LineThrough(a, b Point) PolarLine {
	d := b.Sub(a)
	theta := math.Atan2(d.X, -d.Y)
	if theta < 0 {
		theta += math.Pi
	}
	if theta >= math.Pi {
		theta -= math.Pi
	}
	rho := a.X*math.Cos(theta) + a.Y*math.Sin(theta)
	return PolarLine{Rho: rho, Theta: theta}
}

// Segment is a finite line piece. Segments are derived from PolarLine values;
// the intersection stage treats them as the infinite lines they represent.
type Segment struct {
	P1 Point `json:"p1"`
	P2 Point `json:"p2"`
}

// Vector returns P1 - P2.
func (s Segment) Vector() Point {
	return s.P1.Sub(s.P2)
}

// Length returns the distance between the endpoints.
func (s Segment) Length() float64 {
	return s.P1.Distance(s.P2)
}
