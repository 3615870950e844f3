// Package homography solves and applies planar projective transforms.
//
// A Homography maps source-plane coordinates to destination-plane
// coordinates. It is stored as a row-major 3x3 matrix normalised so the last
// coefficient is 1, leaving the 8 free parameters fixed by 4 point
// correspondences. Nothing here assumes the map is affine: parallel lines in
// the source may converge and vice versa.
package homography

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/ironsheep/quad-rectify/internal/geometry"
)

// ErrDegenerateHomography reports that the correspondences do not determine
// an invertible projective transform (collinear corners, singular system).
var ErrDegenerateHomography = errors.New("degenerate homography")

// collinearRatio is the triangle-area tolerance relative to the squared
// perimeter of the point set.
const collinearRatio = 1e-9

// Homography is a row-major 3x3 projective matrix:
//
//	[h0 h1 h2]
//	[h3 h4 h5]
//	[h6 h7 h8]
type Homography [9]float64

// Identity returns the identity transform.
func Identity() Homography {
	return Homography{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

// Rectangle returns the corners of a width x height rectangle in the order
// top-left, top-right, bottom-right, bottom-left.
func Rectangle(width, height int) [4]geometry.Point {
	w, h := float64(width), float64(height)
	return [4]geometry.Point{
		geometry.Pt(0, 0),
		geometry.Pt(w, 0),
		geometry.Pt(w, h),
		geometry.Pt(0, h),
	}
}

// ToRectangle solves the transform taking the ordered quadrilateral src
// (top-left, top-right, bottom-right, bottom-left) onto Rectangle(width, height).
func ToRectangle(src [4]geometry.Point, width, height int) (Homography, error) {
	if width <= 0 || height <= 0 {
		return Homography{}, fmt.Errorf("invalid target size %dx%d", width, height)
	}
	return Solve(src, Rectangle(width, height))
}

// Solve computes the homography H with H(src[i]) == dst[i] for all four
// correspondences.
//
// Both point sets are first normalised (centroid at the origin, mean distance
// sqrt(2)) so the 8x8 system stays well conditioned at pixel scale. The system
//
//	x' = (h0 X + h1 Y + h2) / (h6 X + h7 Y + 1)
//	y' = (h3 X + h4 Y + h5) / (h6 X + h7 Y + 1)
//
// is then solved with an LU factorisation and the normalisation undone.
func Solve(src, dst [4]geometry.Point) (Homography, error) {
	if err := checkNonCollinear(src); err != nil {
		return Homography{}, fmt.Errorf("source %w", err)
	}
	if err := checkNonCollinear(dst); err != nil {
		return Homography{}, fmt.Errorf("target %w", err)
	}

	ts, _ := normalization(src)
	td, tdInv := normalization(dst)

	a := mat.NewDense(8, 8, nil)
	b := mat.NewVecDense(8, nil)
	for i := 0; i < 4; i++ {
		// Similarities keep w == 1.
		p, _ := ts.Apply(src[i])
		q, _ := td.Apply(dst[i])
		r := 2 * i

		a.Set(r, 0, p.X)
		a.Set(r, 1, p.Y)
		a.Set(r, 2, 1)
		a.Set(r, 6, -p.X*q.X)
		a.Set(r, 7, -p.Y*q.X)
		b.SetVec(r, q.X)

		a.Set(r+1, 3, p.X)
		a.Set(r+1, 4, p.Y)
		a.Set(r+1, 5, 1)
		a.Set(r+1, 6, -p.X*q.Y)
		a.Set(r+1, 7, -p.Y*q.Y)
		b.SetVec(r+1, q.Y)
	}

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return Homography{}, fmt.Errorf("%w: %v", ErrDegenerateHomography, err)
	}

	var hn Homography
	for i := 0; i < 8; i++ {
		hn[i] = x.AtVec(i)
	}
	hn[8] = 1

	var full mat.Dense
	full.Product(tdInv.Matrix(), hn.Matrix(), ts.Matrix())
	return fromMatrix(&full)
}

// Apply maps p through the transform. The boolean is false when p lies on the
// transform's line at infinity and has no finite image.
func (h Homography) Apply(p geometry.Point) (geometry.Point, bool) {
	w := h[6]*p.X + h[7]*p.Y + h[8]
	if math.Abs(w) < 1e-12 {
		return geometry.Point{}, false
	}
	return geometry.Point{
		X: (h[0]*p.X + h[1]*p.Y + h[2]) / w,
		Y: (h[3]*p.X + h[4]*p.Y + h[5]) / w,
	}, true
}

// Inverse returns the transform mapping destination coordinates back to the
// source plane.
func (h Homography) Inverse() (Homography, error) {
	var inv mat.Dense
	if err := inv.Inverse(h.Matrix()); err != nil {
		return Homography{}, fmt.Errorf("%w: %v", ErrDegenerateHomography, err)
	}
	return fromMatrix(&inv)
}

// Matrix returns h as a gonum 3x3 matrix.
func (h Homography) Matrix() *mat.Dense {
	data := make([]float64, 9)
	copy(data, h[:])
	return mat.NewDense(3, 3, data)
}

// Rows returns h as three rows, the layout used in JSON output.
func (h Homography) Rows() [3][3]float64 {
	return [3][3]float64{
		{h[0], h[1], h[2]},
		{h[3], h[4], h[5]},
		{h[6], h[7], h[8]},
	}
}

func fromMatrix(m mat.Matrix) (Homography, error) {
	scale := m.At(2, 2)
	if math.Abs(scale) < 1e-15 {
		return Homography{}, fmt.Errorf("%w: zero projective scale", ErrDegenerateHomography)
	}
	var h Homography
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			v := m.At(r, c) / scale
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return Homography{}, fmt.Errorf("%w: non-finite coefficient", ErrDegenerateHomography)
			}
			h[r*3+c] = v
		}
	}
	return h, nil
}

// normalization returns the similarity moving pts' centroid to the origin and
// scaling their mean distance from it to sqrt(2), plus its inverse.
func normalization(pts [4]geometry.Point) (Homography, Homography) {
	c := geometry.Centroid(pts[:])
	var mean float64
	for _, p := range pts {
		mean += p.Distance(c)
	}
	mean /= 4
	s := math.Sqrt2 / mean

	t := Homography{s, 0, -s * c.X, 0, s, -s * c.Y, 0, 0, 1}
	inv := Homography{1 / s, 0, c.X, 0, 1 / s, c.Y, 0, 0, 1}
	return t, inv
}

// checkNonCollinear rejects point sets where any three points are collinear
// or any two coincide.
func checkNonCollinear(pts [4]geometry.Point) error {
	perimeter := geometry.ArcLength(pts[:], true)
	if perimeter == 0 || math.IsNaN(perimeter) || math.IsInf(perimeter, 0) {
		return fmt.Errorf("%w: corners coincide", ErrDegenerateHomography)
	}
	tol := collinearRatio * perimeter * perimeter
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			for k := j + 1; k < 4; k++ {
				if geometry.Collinear(pts[i], pts[j], pts[k], tol) {
					return fmt.Errorf("%w: corners %d, %d, %d are collinear", ErrDegenerateHomography, i, j, k)
				}
			}
		}
	}
	return nil
}
