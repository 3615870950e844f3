package imaging

import (
	"image"
	"math"
)

// Suggested Canny thresholds for photographs, in Sobel magnitude units.
const (
	DefaultCannyLow  = 100
	DefaultCannyHigh = 100
)

// EdgeMap runs Canny-style edge detection on a preprocessed grayscale image
// and returns a binary map: 255 on edges, 0 elsewhere.
//
// Thresholds are in units of the Sobel gradient magnitude on 0-255 input
// (a hard black/white step scores about 1000), as with OpenCV's Canny:
//
//  1. Gradients: 3x3 Sobel in X and Y, magnitude sqrt(Gx² + Gy²)
//  2. Non-maximum suppression along the quantised gradient direction
//  3. Hysteresis: pixels >= high seed edges; pixels >= low join an edge when
//     8-connected to one
//
// Border pixels are never edges. Blur the input first (see Preprocess); this
// function does not smooth.
func EdgeMap(gray *image.Gray, low, high float64) *image.Gray {
	b := gray.Bounds()
	width, height := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, width, height))
	if width < 3 || height < 3 {
		return out
	}

	at := func(x, y int) float64 {
		x = clamp(x, 0, width-1)
		y = clamp(y, 0, height-1)
		return float64(gray.Pix[gray.PixOffset(b.Min.X+x, b.Min.Y+y)])
	}

	magnitude := make([]float64, width*height)
	direction := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			gx := (at(x+1, y-1) + 2*at(x+1, y) + at(x+1, y+1)) -
				(at(x-1, y-1) + 2*at(x-1, y) + at(x-1, y+1))
			gy := (at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1)) -
				(at(x-1, y-1) + 2*at(x, y-1) + at(x+1, y-1))
			i := y*width + x
			magnitude[i] = math.Sqrt(gx*gx + gy*gy)
			direction[i] = math.Atan2(gy, gx)
		}
	}

	// Non-maximum suppression
	suppressed := make([]float64, width*height)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			i := y*width + x
			mag := magnitude[i]
			if mag < low {
				continue
			}

			angle := direction[i]
			var n1, n2 float64
			switch {
			case (angle >= -math.Pi/8 && angle < math.Pi/8) || angle >= 7*math.Pi/8 || angle < -7*math.Pi/8:
				n1, n2 = magnitude[i-1], magnitude[i+1]
			case (angle >= math.Pi/8 && angle < 3*math.Pi/8) || (angle >= -7*math.Pi/8 && angle < -5*math.Pi/8):
				n1, n2 = magnitude[i-width-1], magnitude[i+width+1]
			case (angle >= 3*math.Pi/8 && angle < 5*math.Pi/8) || (angle >= -5*math.Pi/8 && angle < -3*math.Pi/8):
				n1, n2 = magnitude[i-width], magnitude[i+width]
			default:
				n1, n2 = magnitude[i-width+1], magnitude[i+width-1]
			}

			if mag >= n1 && mag >= n2 {
				suppressed[i] = mag
			}
		}
	}

	// Hysteresis: flood out from every strong pixel through weak ones.
	stack := make([]int, 0, 1024)
	for i, v := range suppressed {
		if v > 0 && v >= high && out.Pix[i/width*out.Stride+i%width] == 0 {
			out.Pix[i/width*out.Stride+i%width] = 255
			stack = append(stack, i)
		}
		for len(stack) > 0 {
			j := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			jx, jy := j%width, j/width
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := jx+dx, jy+dy
					if nx < 0 || ny < 0 || nx >= width || ny >= height {
						continue
					}
					k := ny*width + nx
					p := ny*out.Stride + nx
					if out.Pix[p] == 0 && suppressed[k] > 0 && suppressed[k] >= low {
						out.Pix[p] = 255
						stack = append(stack, k)
					}
				}
			}
		}
	}
	return out
}

// CountEdges returns the number of edge pixels in an EdgeMap result.
func CountEdges(edges *image.Gray) int {
	n := 0
	for _, v := range edges.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}

// clamp constrains val to [lo, hi].
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
