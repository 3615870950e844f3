//go:build !gocv

package detection

import (
	"errors"
	"testing"
)

func TestNew_OpenCVWithoutTag(t *testing.T) {
	_, err := New(KindOpenCV, DefaultOptions())
	if !errors.Is(err, ErrOpenCVUnavailable) {
		t.Errorf("got %v, want ErrOpenCVUnavailable", err)
	}
}
