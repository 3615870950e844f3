// Package quad turns detected straight lines into an ordered quadrilateral and
// rectifies the image region it bounds.
//
// The stages run strictly forward, each a function of its inputs and a
// Config:
//
//	[]PolarLine -> Deduplicate -> NewLineQuad -> FindCorners -> Validate
//	            -> Centroid -> Order -> homography.ToRectangle -> homography.Warp
//
// Pipeline chains them. The individual stages are exported for callers that
// need the intermediates, such as overlay rendering or tuning.
//
// # Errors
//
// Every failure is a *StageError naming the stage and carrying a count and a
// detail string. It unwraps to one of five sentinels:
//
//   - ErrAmbiguousLineCount: deduplication left other than 4 lines
//   - ErrParallelLinesUnresolved: parallel pairs left fewer than 4 corners
//   - ErrNotQuadrilateral: the corners do not simplify to 4 usable vertices
//   - ErrCornersNotOrderable: the centroid split is not 2 and 2
//   - ErrDegenerateHomography: the corners give a singular transform
//
// None of them is transient; retrying the same input gives the same result.
//
// # Concurrency
//
// Runs share no state. A Pipeline value may be used from many goroutines at
// once as long as its Config is not modified.
package quad
