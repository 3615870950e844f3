//go:build !gocv

package detection

import "errors"

// ErrOpenCVUnavailable is returned by New for KindOpenCV when the binary was
// built without the gocv tag.
var ErrOpenCVUnavailable = errors.New("opencv line detector not built in (rebuild with -tags gocv)")

func newOpenCV(Options) (Detector, error) {
	return nil, ErrOpenCVUnavailable
}
