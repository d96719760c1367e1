package images

import (
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

// Interpolation selects the resampling algorithm used by Resize.
type Interpolation int

const (
	// InterpNearest uses nearest-neighbor interpolation (fastest, lowest quality).
	InterpNearest Interpolation = iota
	// InterpLinear uses bilinear interpolation (fast, good quality).
	InterpLinear
	// InterpCubic uses bicubic interpolation (slower, better quality).
	InterpCubic
	// InterpArea uses pixel-area resampling (best for shrinking).
	InterpArea
	// InterpLanczos uses Lanczos resampling over an 8x8 neighborhood.
	InterpLanczos
)

// AllInterpolations lists every supported mode, in the order the original
// recipe draws from.
var AllInterpolations = []Interpolation{
	InterpNearest, InterpLinear, InterpCubic, InterpArea, InterpLanczos,
}

var interpFlags = map[Interpolation]gocv.InterpolationFlags{
	InterpNearest: gocv.InterpolationNearestNeighbor,
	InterpLinear:  gocv.InterpolationLinear,
	InterpCubic:   gocv.InterpolationCubic,
	InterpArea:    gocv.InterpolationArea,
	InterpLanczos: gocv.InterpolationLanczos4,
}

// Resize rescales an image to width x height pixels.
//
// Arguments:
//   - m: The image to rescale.
//   - width: Target width in pixels.
//   - height: Target height in pixels.
//   - interp: The resampling algorithm.
//
// Returns:
//   - The rescaled image.
//   - error if the target size is not positive or the mode is unknown.
func Resize(m gocv.Mat, width, height int, interp Interpolation) (gocv.Mat, error) {
	if width <= 0 || height <= 0 {
		return gocv.NewMat(), errors.Errorf("Resize: invalid target size %dx%d", width, height)
	}
	flag, ok := interpFlags[interp]
	if !ok {
		return gocv.NewMat(), errors.Errorf("Resize: unknown interpolation mode %d", interp)
	}
	dst := gocv.NewMat()
	gocv.Resize(m, &dst, image.Pt(width, height), 0, 0, flag)
	return dst, nil
}

// FlipHorizontal mirrors the image across its vertical center line.
func FlipHorizontal(m gocv.Mat) gocv.Mat {
	dst := gocv.NewMat()
	gocv.Flip(m, &dst, 1)
	return dst
}

// FlipVertical mirrors the image across its horizontal center line.
func FlipVertical(m gocv.Mat) gocv.Mat {
	dst := gocv.NewMat()
	gocv.Flip(m, &dst, 0)
	return dst
}

// Background is a fill color for canvas areas not covered by the source
// image, in the channel order of the image being expanded.
type Background [3]float64

// ApplyPatch renders the image onto a patch-sized canvas. The patch is given
// in the image's own pixel coordinates and may lie inside the image (a crop),
// contain it entirely (an expansion), or overlap it partially. Canvas pixels
// the source does not cover are filled with the background color.
//
// Arguments:
//   - m: The source image.
//   - patch: The patch rectangle, in source pixel coordinates.
//   - background: Fill color for uncovered canvas pixels.
//
// Returns:
//   - A patch-sized image with the covered region blitted in place.
//   - error if the patch has non-positive extent.
func ApplyPatch(m gocv.Mat, patch image.Rectangle, background Background) (gocv.Mat, error) {
	if patch.Dx() <= 0 || patch.Dy() <= 0 {
		return gocv.NewMat(), errors.Errorf("ApplyPatch: degenerate patch %v", patch)
	}

	fill := gocv.NewScalar(background[0], background[1], background[2], 0)
	canvas := gocv.NewMatWithSizeFromScalar(fill, patch.Dy(), patch.Dx(), m.Type())

	// The part of the source visible through the patch window.
	visible := patch.Intersect(image.Rect(0, 0, m.Cols(), m.Rows()))
	if visible.Empty() {
		return canvas, nil
	}

	src := m.Region(visible)
	defer src.Close()
	dst := canvas.Region(visible.Sub(patch.Min))
	defer dst.Close()
	src.CopyTo(&dst)
	return canvas, nil
}
