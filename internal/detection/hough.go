package detection

import (
	"image"
	"math"
	"sort"

	"github.com/ironsheep/quad-rectify/internal/geometry"
)

// numAngles is the theta resolution of the accumulator: one bin per degree
// over [0, pi).
const numAngles = 180

// peakWindow is the half-width, in bins, of the neighbourhood a peak must
// dominate in both rho and theta.
const peakWindow = 2

// Line is a detected line in polar form with its accumulator score.
type Line struct {
	geometry.PolarLine
	Votes int `json:"votes"`
}

// HoughLines runs the standard Hough line transform over a binary edge map
// (any non-zero pixel is an edge). Rho has 1 pixel resolution and may be
// negative; theta lies in [0, pi) with 1 degree resolution.
//
// A bin becomes a line when it holds at least threshold votes and no bin
// within peakWindow has more. Equal neighbours are resolved in favour of the
// one reached first in rho-major scan order, so a plateau yields one line.
// Lines are returned strongest first, at most maxLines of them (0 means no
// limit). Ties in votes keep scan order, making the output deterministic.
func HoughLines(edges *image.Gray, threshold, maxLines int) []Line {
	b := edges.Bounds()
	width, height := b.Dx(), b.Dy()
	if width == 0 || height == 0 {
		return nil
	}

	maxDist := int(math.Ceil(math.Hypot(float64(width), float64(height))))
	numRho := 2*maxDist + 1

	cosT := make([]float64, numAngles)
	sinT := make([]float64, numAngles)
	for t := 0; t < numAngles; t++ {
		angle := float64(t) * math.Pi / numAngles
		cosT[t], sinT[t] = math.Cos(angle), math.Sin(angle)
	}

	// Accumulator indexed [rho][theta], flattened.
	acc := make([]int, numRho*numAngles)
	for y := 0; y < height; y++ {
		row := edges.Pix[edges.PixOffset(b.Min.X, b.Min.Y+y):]
		for x := 0; x < width; x++ {
			if row[x] == 0 {
				continue
			}
			for t := 0; t < numAngles; t++ {
				rho := int(math.Round(float64(x)*cosT[t] + float64(y)*sinT[t]))
				acc[(rho+maxDist)*numAngles+t]++
			}
		}
	}

	if threshold < 1 {
		threshold = 1
	}

	var lines []Line
	for r := 0; r < numRho; r++ {
		for t := 0; t < numAngles; t++ {
			i := r*numAngles + t
			votes := acc[i]
			if votes < threshold || !isPeak(acc, numRho, r, t) {
				continue
			}
			lines = append(lines, Line{
				PolarLine: geometry.PolarLine{
					Rho:   float64(r - maxDist),
					Theta: float64(t) * math.Pi / numAngles,
				},
				Votes: votes,
			})
		}
	}

	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].Votes > lines[j].Votes
	})
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return lines
}

// isPeak reports whether bin (r, t) dominates its neighbourhood. A neighbour
// with equal votes wins when it comes earlier in scan order.
func isPeak(acc []int, numRho, r, t int) bool {
	i := r*numAngles + t
	v := acc[i]
	for dr := -peakWindow; dr <= peakWindow; dr++ {
		nr := r + dr
		if nr < 0 || nr >= numRho {
			continue
		}
		for dt := -peakWindow; dt <= peakWindow; dt++ {
			nt := t + dt
			if nt < 0 || nt >= numAngles || (dr == 0 && dt == 0) {
				continue
			}
			j := nr*numAngles + nt
			if acc[j] > v || (acc[j] == v && j < i) {
				return false
			}
		}
	}
	return true
}

// Polar strips the vote counts, keeping order.
func Polar(lines []Line) []geometry.PolarLine {
	out := make([]geometry.PolarLine, len(lines))
	for i, l := range lines {
		out[i] = l.PolarLine
	}
	return out
}
