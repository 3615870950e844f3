package quad

import (
	"errors"
	"fmt"
	"image"
	"log"

	"github.com/ironsheep/quad-rectify/internal/geometry"
	"github.com/ironsheep/quad-rectify/internal/homography"
)

// Pipeline runs the detection and rectification stages with one
// configuration.
type Pipeline struct {
	Config Config

	// Logger receives per-stage debug output. Nil disables logging.
	Logger *log.Logger
}

// New returns a Pipeline using cfg.
func New(cfg Config) *Pipeline {
	return &Pipeline{Config: cfg}
}

// Detection holds every intermediate of a successful FindQuadrilateral call.
type Detection struct {
	InputLines    int               `json:"input_lines"`
	Lines         LineQuad          `json:"lines"`
	Corners       CornerReport      `json:"corner_report"`
	Vertices      [4]geometry.Point `json:"vertices"`
	Quadrilateral Quadrilateral     `json:"quadrilateral"`
}

// Result is a Detection plus the transform and the rectified raster.
type Result struct {
	*Detection
	Homography homography.Homography `json:"homography"`
	Image      *image.NRGBA          `json:"-"`
}

// FindQuadrilateral runs dedup, intersection, validation and ordering on the
// raw detector output.
func (p *Pipeline) FindQuadrilateral(lines []geometry.PolarLine) (*Detection, error) {
	cfg := p.Config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	unique := Deduplicate(lines, cfg.RhoTolerance, cfg.ThetaTolerance)
	p.debugf("dedup: %d lines -> %d", len(lines), len(unique))
	lq, err := NewLineQuad(unique)
	if err != nil {
		return nil, p.fail(err)
	}

	report, err := FindCorners(lq, cfg)
	p.debugf("intersect: %d corners, %d parallel pairs, %d rejected",
		len(report.Corners), len(report.ParallelPairs), len(report.Rejected))
	if err != nil {
		return nil, p.fail(err)
	}

	vertices, err := Validate(report.Corners, cfg)
	if err != nil {
		return nil, p.fail(err)
	}

	centroid := geometry.Centroid(vertices[:])
	q, err := Order(vertices, centroid)
	if err != nil {
		return nil, p.fail(err)
	}
	p.debugf("order: TL=%v TR=%v BR=%v BL=%v centroid=%v",
		q.Corners[TopLeft], q.Corners[TopRight], q.Corners[BottomRight], q.Corners[BottomLeft], q.Centroid)

	return &Detection{
		InputLines:    len(lines),
		Lines:         lq,
		Corners:       report,
		Vertices:      vertices,
		Quadrilateral: q,
	}, nil
}

// Rectify finds the quadrilateral bounded by lines and warps that region of
// img onto a Config.Width x Config.Height raster. Line coordinates are
// relative to img.Bounds().Min.
func (p *Pipeline) Rectify(img image.Image, lines []geometry.PolarLine) (*Result, error) {
	det, err := p.FindQuadrilateral(lines)
	if err != nil {
		return nil, err
	}
	return p.RectifyDetection(img, det)
}

// RectifyDetection warps img using an earlier detection.
func (p *Pipeline) RectifyDetection(img image.Image, det *Detection) (*Result, error) {
	cfg := p.Config
	h, err := homography.ToRectangle(det.Quadrilateral.Corners, cfg.Width, cfg.Height)
	if err != nil {
		return nil, p.fail(wrapHomography(StageHomography, err))
	}

	out, err := homography.Warp(img, h, cfg.Width, cfg.Height, cfg.Warp)
	if err != nil {
		return nil, p.fail(wrapHomography(StageWarp, err))
	}
	p.debugf("warp: %dx%d", cfg.Width, cfg.Height)

	return &Result{Detection: det, Homography: h, Image: out}, nil
}

func wrapHomography(stage Stage, err error) error {
	if errors.Is(err, ErrDegenerateHomography) {
		return &StageError{Stage: stage, Err: ErrDegenerateHomography, Count: 4, Detail: err.Error()}
	}
	return fmt.Errorf("%s: %w", stage, err)
}

func (p *Pipeline) fail(err error) error {
	p.debugf("failed: %v", err)
	return err
}

func (p *Pipeline) debugf(format string, args ...interface{}) {
	if p.Logger != nil {
		p.Logger.Printf(format, args...)
	}
}
