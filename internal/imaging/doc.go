// Package imaging provides the raster plumbing around the quadrilateral
// pipeline: loading and caching source images, preprocessing them into an
// edge map for line detection, encoding results and rendering debug
// overlays.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based and relative to the
// image's Bounds().Min:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//
// Images produced here (grayscale, edge maps, overlays) always start at
// (0, 0), so line and corner coordinates computed from them can be applied to
// the source image directly.
//
// # Supported Formats
//
// Decoding covers PNG, JPEG and GIF from the standard library plus TIFF, BMP
// and WebP from golang.org/x/image. Output is always PNG unless Save is given
// a path with another extension supported by disintegration/imaging.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. All other functions are
// stateless and never modify their input images.
package imaging
