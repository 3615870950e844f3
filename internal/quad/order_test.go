package quad

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/quad-rectify/internal/geometry"
)

// permutations returns every ordering of pts.
func permutations(pts [4]geometry.Point) [][4]geometry.Point {
	var out [][4]geometry.Point
	var rec func(k int, cur [4]geometry.Point)
	rec = func(k int, cur [4]geometry.Point) {
		if k == len(cur) {
			out = append(out, cur)
			return
		}
		for i := k; i < len(cur); i++ {
			cur[k], cur[i] = cur[i], cur[k]
			rec(k+1, cur)
			cur[k], cur[i] = cur[i], cur[k]
		}
	}
	rec(0, pts)
	return out
}

func TestOrder_ScrambledSquare(t *testing.T) {
	want := [4]geometry.Point{geometry.Pt(0, 0), geometry.Pt(10, 0), geometry.Pt(10, 10), geometry.Pt(0, 10)}
	perms := permutations(want)
	require.Len(t, perms, 24)

	for _, in := range perms {
		q, err := Order(in, geometry.Centroid(in[:]))
		require.NoError(t, err, "input %v", in)
		assert.Equal(t, want, q.Corners, "input %v", in)
		assert.Equal(t, geometry.Pt(5, 5), q.Centroid)
	}
}

func TestOrder_TrialQuad(t *testing.T) {
	in := [4]geometry.Point{trialQuad[3], trialQuad[1], trialQuad[0], trialQuad[2]}
	q, err := Order(in, geometry.Centroid(in[:]))
	require.NoError(t, err)
	assert.Equal(t, trialQuad, q.Corners)
	assert.Equal(t, trialQuad[0], q.TopLeft())
	assert.Equal(t, trialQuad[1], q.TopRight())
	assert.Equal(t, trialQuad[2], q.BottomRight())
	assert.Equal(t, trialQuad[3], q.BottomLeft())
}

func TestOrder_Diamond(t *testing.T) {
	// Only one point lies strictly above the centroid.
	in := [4]geometry.Point{geometry.Pt(5, 0), geometry.Pt(10, 5), geometry.Pt(5, 10), geometry.Pt(0, 5)}
	_, err := Order(in, geometry.Centroid(in[:]))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCornersNotOrderable)
	assert.Equal(t, "CornersNotOrderable", Kind(err))
}

func TestOrder_CentroidIsAnInput(t *testing.T) {
	square := [4]geometry.Point{geometry.Pt(0, 0), geometry.Pt(10, 0), geometry.Pt(10, 10), geometry.Pt(0, 10)}

	// A centroid below every point puts all four on top.
	_, err := Order(square, geometry.Pt(5, 20))
	assert.ErrorIs(t, err, ErrCornersNotOrderable)

	// Ordering is repeatable; nothing carries over between calls.
	a, err := Order(square, geometry.Pt(5, 5))
	require.NoError(t, err)
	b, err := Order(square, geometry.Pt(5, 5))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestOrder_EqualXKeepsFirstAsLeft(t *testing.T) {
	in := [4]geometry.Point{geometry.Pt(5, 0), geometry.Pt(5, 1), geometry.Pt(0, 10), geometry.Pt(10, 10)}
	q, err := Order(in, geometry.Pt(5, 5))
	require.NoError(t, err)
	assert.Equal(t, geometry.Pt(5, 0), q.TopLeft())
	assert.Equal(t, geometry.Pt(5, 1), q.TopRight())
}
