package homography

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/quad-rectify/internal/geometry"
)

func TestSolve_BoundaryLaw(t *testing.T) {
	tests := []struct {
		name string
		src  [4]geometry.Point
	}{
		{
			"axis aligned square",
			[4]geometry.Point{geometry.Pt(0, 0), geometry.Pt(10, 0), geometry.Pt(10, 10), geometry.Pt(0, 10)},
		},
		{
			"perspective document",
			[4]geometry.Point{geometry.Pt(60, 40), geometry.Pt(330, 70), geometry.Pt(360, 420), geometry.Pt(30, 380)},
		},
		{
			"large keystone",
			[4]geometry.Point{geometry.Pt(1400, 310), geometry.Pt(2650, 290), geometry.Pt(3800, 2900), geometry.Pt(200, 3000)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := ToRectangle(tt.src, 220, 300)
			require.NoError(t, err)
			assert.Equal(t, 1.0, h[8])

			for i, want := range Rectangle(220, 300) {
				got, ok := h.Apply(tt.src[i])
				require.True(t, ok)
				assert.InDelta(t, want.X, got.X, 1e-6, "corner %d x", i)
				assert.InDelta(t, want.Y, got.Y, 1e-6, "corner %d y", i)
			}
		})
	}
}

func TestNormalization(t *testing.T) {
	pts := [4]geometry.Point{geometry.Pt(1400, 310), geometry.Pt(2650, 290), geometry.Pt(3800, 2900), geometry.Pt(200, 3000)}
	fwd, inv := normalization(pts)

	var moved [4]geometry.Point
	for i, p := range pts {
		q, ok := fwd.Apply(p)
		require.True(t, ok)
		moved[i] = q

		back, ok := inv.Apply(q)
		require.True(t, ok)
		assert.InDelta(t, p.X, back.X, 1e-9, "point %d x", i)
		assert.InDelta(t, p.Y, back.Y, 1e-9, "point %d y", i)
	}

	c := geometry.Centroid(moved[:])
	assert.InDelta(t, 0, c.X, 1e-9)
	assert.InDelta(t, 0, c.Y, 1e-9)

	var mean float64
	for _, q := range moved {
		mean += q.Norm()
	}
	assert.InDelta(t, math.Sqrt2, mean/4, 1e-9)
}

func TestSolve_Identity(t *testing.T) {
	pts := [4]geometry.Point{geometry.Pt(0, 0), geometry.Pt(5, 0), geometry.Pt(5, 7), geometry.Pt(0, 7)}
	h, err := Solve(pts, pts)
	require.NoError(t, err)
	for i, v := range Identity() {
		assert.InDelta(t, v, h[i], 1e-12)
	}
}

func TestSolve_NotAffine(t *testing.T) {
	// A trapezoid onto a rectangle needs a projective row.
	src := [4]geometry.Point{geometry.Pt(40, 0), geometry.Pt(60, 0), geometry.Pt(100, 100), geometry.Pt(0, 100)}
	h, err := ToRectangle(src, 100, 100)
	require.NoError(t, err)
	assert.NotZero(t, h[7])

	// The midpoint of the left edge does not map to the midpoint of the
	// target's left edge under perspective.
	mid, ok := h.Apply(geometry.Pt(20, 50))
	require.True(t, ok)
	assert.InDelta(t, 0, mid.X, 1e-9)
	assert.Greater(t, math.Abs(mid.Y-50), 1.0)
}

func TestSolve_Degenerate(t *testing.T) {
	tests := []struct {
		name string
		src  [4]geometry.Point
	}{
		{"all collinear", [4]geometry.Point{geometry.Pt(0, 0), geometry.Pt(1, 1), geometry.Pt(2, 2), geometry.Pt(3, 3)}},
		{"three collinear", [4]geometry.Point{geometry.Pt(0, 0), geometry.Pt(5, 0), geometry.Pt(10, 0), geometry.Pt(5, 5)}},
		{"coincident", [4]geometry.Point{geometry.Pt(4, 4), geometry.Pt(4, 4), geometry.Pt(4, 4), geometry.Pt(4, 4)}},
		{"two coincident", [4]geometry.Point{geometry.Pt(0, 0), geometry.Pt(0, 0), geometry.Pt(10, 10), geometry.Pt(0, 10)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ToRectangle(tt.src, 220, 300)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDegenerateHomography), "got %v", err)
		})
	}
}

func TestToRectangle_InvalidSize(t *testing.T) {
	src := [4]geometry.Point{geometry.Pt(0, 0), geometry.Pt(10, 0), geometry.Pt(10, 10), geometry.Pt(0, 10)}
	_, err := ToRectangle(src, 0, 300)
	assert.Error(t, err)
}

func TestInverse_RoundTrip(t *testing.T) {
	src := [4]geometry.Point{geometry.Pt(60, 40), geometry.Pt(330, 70), geometry.Pt(360, 420), geometry.Pt(30, 380)}
	h, err := ToRectangle(src, 220, 300)
	require.NoError(t, err)

	inv, err := h.Inverse()
	require.NoError(t, err)

	for i, corner := range Rectangle(220, 300) {
		back, ok := inv.Apply(corner)
		require.True(t, ok)
		assert.InDelta(t, src[i].X, back.X, 1e-6)
		assert.InDelta(t, src[i].Y, back.Y, 1e-6)
	}

	p := geometry.Pt(200, 210)
	fwd, ok := h.Apply(p)
	require.True(t, ok)
	back, ok := inv.Apply(fwd)
	require.True(t, ok)
	assert.InDelta(t, p.X, back.X, 1e-6)
	assert.InDelta(t, p.Y, back.Y, 1e-6)
}

func TestSolve_Deterministic(t *testing.T) {
	src := [4]geometry.Point{geometry.Pt(60, 40), geometry.Pt(330, 70), geometry.Pt(360, 420), geometry.Pt(30, 380)}
	first, err := ToRectangle(src, 220, 300)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := ToRectangle(src, 220, 300)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestRows(t *testing.T) {
	h := Homography{1, 2, 3, 4, 5, 6, 7, 8, 9}
	assert.Equal(t, [3][3]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}, h.Rows())
}
