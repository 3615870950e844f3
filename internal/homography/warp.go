package homography

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"runtime"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/quad-rectify/internal/geometry"
)

// WarpOptions controls resampling.
type WarpOptions struct {
	// Background is written wherever the inverse-mapped location falls outside
	// the source image.
	Background color.NRGBA

	// Workers is the number of goroutines rows are spread across.
	// Zero or negative means runtime.GOMAXPROCS(0).
	Workers int
}

// DefaultWarpOptions returns opaque black background and one worker per CPU.
func DefaultWarpOptions() WarpOptions {
	return WarpOptions{Background: color.NRGBA{A: 255}}
}

// Sampler reads an image at non-integer coordinates using bilinear
// interpolation. Coordinates are relative to the image's Bounds().Min.
//
// A Sampler is read-only after construction and safe for concurrent use.
type Sampler struct {
	img        *image.NRGBA
	w, h       int
	background color.NRGBA
}

// NewSampler prepares src for sampling. The pixels are copied once into an
// NRGBA buffer.
func NewSampler(src image.Image, background color.NRGBA) *Sampler {
	img := imaging.Clone(src)
	b := img.Bounds()
	return &Sampler{img: img, w: b.Dx(), h: b.Dy(), background: background}
}

// At returns the bilinear interpolation of the four pixels surrounding (x, y).
// Colour channels are weighted by alpha, so fully transparent neighbours
// contribute no colour. Locations outside [0, w-1] x [0, h-1] return the
// background colour.
func (s *Sampler) At(x, y float64) color.NRGBA {
	if math.IsNaN(x) || math.IsNaN(y) || x < 0 || y < 0 || x > float64(s.w-1) || y > float64(s.h-1) {
		return s.background
	}

	x0 := int(x)
	y0 := int(y)
	x1 := min(x0+1, s.w-1)
	y1 := min(y0+1, s.h-1)
	fx := x - float64(x0)
	fy := y - float64(y0)

	pixels := [4][]uint8{s.pix(x0, y0), s.pix(x1, y0), s.pix(x0, y1), s.pix(x1, y1)}
	weights := [4]float64{(1 - fx) * (1 - fy), fx * (1 - fy), (1 - fx) * fy, fx * fy}

	var r, g, b, a float64
	for i, p := range pixels {
		wa := weights[i] * float64(p[3])
		r += wa * float64(p[0])
		g += wa * float64(p[1])
		b += wa * float64(p[2])
		a += wa
	}
	if a == 0 {
		return color.NRGBA{}
	}
	return color.NRGBA{R: clampUint8(r / a), G: clampUint8(g / a), B: clampUint8(b / a), A: clampUint8(a)}
}

func (s *Sampler) pix(x, y int) []uint8 {
	i := y*s.img.Stride + x*4
	return s.img.Pix[i : i+4 : i+4]
}

func clampUint8(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Warp produces a width x height raster by inverse mapping: each destination
// pixel (u, v) is sent through the inverse of h into the source plane and
// sampled bilinearly there. h maps source coordinates to destination
// coordinates, as returned by Solve and ToRectangle.
func Warp(src image.Image, h Homography, width, height int, opts WarpOptions) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid output size %dx%d", width, height)
	}
	inv, err := h.Inverse()
	if err != nil {
		return nil, err
	}

	sampler := NewSampler(src, opts.Background)
	dst := image.NewNRGBA(image.Rect(0, 0, width, height))

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > height {
		workers = height
	}

	// Each worker owns a contiguous band of rows; bands never overlap.
	band := (height + workers - 1) / workers
	var wg sync.WaitGroup
	for start := 0; start < height; start += band {
		end := min(start+band, height)
		wg.Add(1)
		go func(y0, y1 int) {
			defer wg.Done()
			warpRows(dst, sampler, inv, opts.Background, y0, y1)
		}(start, end)
	}
	wg.Wait()

	return dst, nil
}

func warpRows(dst *image.NRGBA, s *Sampler, inv Homography, bg color.NRGBA, y0, y1 int) {
	width := dst.Rect.Dx()
	for v := y0; v < y1; v++ {
		row := dst.Pix[v*dst.Stride : v*dst.Stride+width*4]
		for u := 0; u < width; u++ {
			c := bg
			if p, ok := inv.Apply(geometry.Pt(float64(u), float64(v))); ok {
				c = s.At(p.X, p.Y)
			}
			i := u * 4
			row[i+0] = c.R
			row[i+1] = c.G
			row[i+2] = c.B
			row[i+3] = c.A
		}
	}
}
