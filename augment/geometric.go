package augment

import (
	"math/rand"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/CZhihao/ssd-keras/common"
	"github.com/CZhihao/ssd-keras/images"
)

// Axis selects the mirror axis of a flip.
type Axis int

const (
	// Horizontal mirrors the image left-right.
	Horizontal Axis = iota
	// Vertical mirrors the image top-bottom.
	Vertical
)

// RandomFlip mirrors the image across the chosen axis with probability Prob
// and reflects all box coordinates with it.
type RandomFlip struct {
	axis   Axis
	prob   float64
	format common.BoxFormat
	rng    *rand.Rand
}

// NewRandomFlip builds the flip transform with the given box format.
func NewRandomFlip(rng *rand.Rand, axis Axis, prob float64, format common.BoxFormat) *RandomFlip {
	return &RandomFlip{axis: axis, prob: prob, format: format, rng: rng}
}

// Apply implements Transform.
func (t *RandomFlip) Apply(img gocv.Mat, labels [][]float32) (gocv.Mat, [][]float32, error) {
	if !Bernoulli(t.rng, t.prob) {
		return img.Clone(), common.CopyLabels(labels), nil
	}
	kept := common.CopyLabels(labels)
	var out gocv.Mat
	if t.axis == Horizontal {
		out = images.FlipHorizontal(img)
		common.FlipBoxesHorizontal(kept, float32(img.Cols()), t.format)
	} else {
		out = images.FlipVertical(img)
		common.FlipBoxesVertical(kept, float32(img.Rows()), t.format)
	}
	return out, kept, nil
}

// ResizeRandomInterp rescales every image to a fixed target size, drawing the
// interpolation mode uniformly from a configured set per call, and rescales
// box coordinates by the same ratio as the pixels.
type ResizeRandomInterp struct {
	height int
	width  int
	modes  []images.Interpolation
	format common.BoxFormat
	rng    *rand.Rand
}

// NewResizeRandomInterp validates the target size and mode set. A nil mode
// set defaults to all five supported interpolation modes.
func NewResizeRandomInterp(rng *rand.Rand, height, width int, modes []images.Interpolation, format common.BoxFormat) (*ResizeRandomInterp, error) {
	if height <= 0 || width <= 0 {
		return nil, errors.Wrapf(ErrConfig, "resize target %dx%d", width, height)
	}
	if modes == nil {
		modes = images.AllInterpolations
	}
	if len(modes) == 0 {
		return nil, errors.Wrap(ErrConfig, "empty interpolation mode set")
	}
	return &ResizeRandomInterp{height: height, width: width, modes: modes, format: format, rng: rng}, nil
}

// Apply implements Transform.
func (t *ResizeRandomInterp) Apply(img gocv.Mat, labels [][]float32) (gocv.Mat, [][]float32, error) {
	mode := t.modes[t.rng.Intn(len(t.modes))]
	out, err := images.Resize(img, t.width, t.height, mode)
	if err != nil {
		return gocv.NewMat(), nil, err
	}
	kept := common.CopyLabels(labels)
	sx := float32(t.width) / float32(img.Cols())
	sy := float32(t.height) / float32(img.Rows())
	common.ScaleBoxes(kept, sx, sy, t.format)
	return out, kept, nil
}
