package quad

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/quad-rectify/internal/geometry"
)

func TestDeduplicate_FirstSeenWins(t *testing.T) {
	lines := []geometry.PolarLine{
		{Rho: 100, Theta: 0.5},
		{Rho: 105, Theta: 0.55},
		{Rho: 100, Theta: 1.5},
		{Rho: 95, Theta: 0.45},
	}
	got := Deduplicate(lines, DefaultRhoTolerance, DefaultThetaTolerance)
	want := []geometry.PolarLine{{Rho: 100, Theta: 0.5}, {Rho: 100, Theta: 1.5}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Deduplicate mismatch (-want +got):\n%s", diff)
	}
}

func TestDeduplicate_OrderSensitive(t *testing.T) {
	// Reversed, {95, 0.45} arrives first and sits exactly 10 from {105, 0.55},
	// which therefore survives alongside it.
	lines := []geometry.PolarLine{
		{Rho: 95, Theta: 0.45},
		{Rho: 100, Theta: 1.5},
		{Rho: 105, Theta: 0.55},
		{Rho: 100, Theta: 0.5},
	}
	got := Deduplicate(lines, DefaultRhoTolerance, DefaultThetaTolerance)
	want := []geometry.PolarLine{{Rho: 95, Theta: 0.45}, {Rho: 100, Theta: 1.5}, {Rho: 105, Theta: 0.55}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Deduplicate mismatch (-want +got):\n%s", diff)
	}
}

func TestDeduplicate_BothThresholdsRequired(t *testing.T) {
	tests := []struct {
		name string
		b    geometry.PolarLine
		keep bool
	}{
		{"close in both", geometry.PolarLine{Rho: 9.9, Theta: 0.19}, false},
		{"rho exactly at threshold", geometry.PolarLine{Rho: 10, Theta: 0}, true},
		{"theta exactly at threshold", geometry.PolarLine{Rho: 0, Theta: 0.2}, true},
		{"far rho only", geometry.PolarLine{Rho: 50, Theta: 0.01}, true},
		{"far theta only", geometry.PolarLine{Rho: 1, Theta: 1.0}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Deduplicate([]geometry.PolarLine{{}, tt.b}, 10, 0.2)
			if tt.keep {
				assert.Len(t, got, 2)
			} else {
				assert.Len(t, got, 1)
			}
		})
	}
}

func TestDeduplicate_Idempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		lines := make([]geometry.PolarLine, 40)
		for i := range lines {
			lines[i] = geometry.PolarLine{Rho: rng.Float64()*200 - 50, Theta: rng.Float64() * math.Pi}
		}
		once := Deduplicate(lines, DefaultRhoTolerance, DefaultThetaTolerance)
		twice := Deduplicate(once, DefaultRhoTolerance, DefaultThetaTolerance)
		require.Equal(t, once, twice, "trial %d", trial)
	}
}

func TestDeduplicate_Empty(t *testing.T) {
	assert.Empty(t, Deduplicate(nil, 10, 0.2))
}

func TestNewLineQuad(t *testing.T) {
	four := []geometry.PolarLine{{Rho: 1}, {Rho: 2}, {Rho: 3}, {Rho: 4}}
	lq, err := NewLineQuad(four)
	require.NoError(t, err)
	assert.Equal(t, four, lq.Lines())

	// The LineQuad is a copy.
	four[0].Rho = 99
	assert.Equal(t, 1.0, lq[0].Rho)

	for _, n := range []int{0, 3, 5, 9} {
		_, err := NewLineQuad(make([]geometry.PolarLine, n))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrAmbiguousLineCount)

		var se *StageError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, StageDedup, se.Stage)
		assert.Equal(t, n, se.Count)
	}
}
