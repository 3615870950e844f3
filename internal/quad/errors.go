package quad

import (
	"errors"
	"fmt"

	"github.com/ironsheep/quad-rectify/internal/homography"
)

// Failure kinds. Every error returned by this package wraps exactly one of
// them; test with errors.Is.
var (
	// ErrAmbiguousLineCount: deduplication did not leave exactly 4 lines.
	ErrAmbiguousLineCount = errors.New("ambiguous line count")

	// ErrParallelLinesUnresolved: parallel pairs left fewer than 4 corners.
	ErrParallelLinesUnresolved = errors.New("parallel lines unresolved")

	// ErrNotQuadrilateral: the corner set does not simplify to 4 usable vertices.
	ErrNotQuadrilateral = errors.New("not a quadrilateral")

	// ErrCornersNotOrderable: the centroid does not split the corners 2 and 2.
	ErrCornersNotOrderable = errors.New("corners not orderable")

	// ErrDegenerateHomography: the corners do not define an invertible transform.
	ErrDegenerateHomography = homography.ErrDegenerateHomography
)

// Stage names the pipeline step that failed.
type Stage string

const (
	StageDedup      Stage = "dedup"
	StageIntersect  Stage = "intersect"
	StageValidate   Stage = "validate"
	StageOrder      Stage = "order"
	StageHomography Stage = "homography"
	StageWarp       Stage = "warp"
)

// StageError carries the stage and the diagnostic values of a failed run.
type StageError struct {
	Stage  Stage
	Err    error
	Count  int
	Detail string
}

func (e *StageError) Error() string {
	msg := fmt.Sprintf("%s: %v (count=%d)", e.Stage, e.Err, e.Count)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErr(stage Stage, kind error, count int, format string, args ...interface{}) error {
	return &StageError{Stage: stage, Err: kind, Count: count, Detail: fmt.Sprintf(format, args...)}
}

// Kind returns the CamelCase name of the failure kind wrapped by err, or ""
// when err is not a pipeline failure.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrAmbiguousLineCount):
		return "AmbiguousLineCount"
	case errors.Is(err, ErrParallelLinesUnresolved):
		return "ParallelLinesUnresolved"
	case errors.Is(err, ErrNotQuadrilateral):
		return "NotQuadrilateral"
	case errors.Is(err, ErrCornersNotOrderable):
		return "CornersNotOrderable"
	case errors.Is(err, ErrDegenerateHomography):
		return "DegenerateHomography"
	default:
		return ""
	}
}
