package augment

import (
	"image"
	"math/rand"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"github.com/CZhihao/ssd-keras/common"
	"github.com/CZhihao/ssd-keras/images"
)

// RandomPatchConfig parameterizes the single-trial patch sampler.
type RandomPatchConfig struct {
	Patches *PatchCoordinateGenerator
	// Filter drops boxes that fall outside the sampled patch. Optional; the
	// expansion stage leaves it nil since a grown canvas loses no boxes.
	Filter *BoxFilter
	// Prob is the probability of sampling a patch at all; otherwise the input
	// passes through unchanged.
	Prob float64
	// Background fills canvas pixels the source image does not cover.
	Background images.Background
	Format     common.BoxFormat
}

// RandomPatch samples exactly one patch and re-renders the image onto a
// patch-sized canvas. With scales above 1 this is the "expand" stage of the
// SSD recipe: the image lands somewhere on a larger background-filled canvas
// and every box shifts with it.
type RandomPatch struct {
	cfg RandomPatchConfig
	rng *rand.Rand
}

// NewRandomPatch checks that a patch generator is present.
func NewRandomPatch(rng *rand.Rand, cfg RandomPatchConfig) (*RandomPatch, error) {
	if cfg.Patches == nil {
		return nil, errors.Wrap(ErrConfig, "RandomPatch needs a patch generator")
	}
	return &RandomPatch{cfg: cfg, rng: rng}, nil
}

// Apply implements Transform.
func (t *RandomPatch) Apply(img gocv.Mat, labels [][]float32) (gocv.Mat, [][]float32, error) {
	if !Bernoulli(t.rng, t.cfg.Prob) {
		return img.Clone(), common.CopyLabels(labels), nil
	}

	patch, err := t.cfg.Patches.Generate(img.Rows(), img.Cols())
	if err != nil {
		return gocv.NewMat(), nil, err
	}

	out, err := images.ApplyPatch(img, patch, t.cfg.Background)
	if err != nil {
		return gocv.NewMat(), nil, err
	}

	kept := common.CopyLabels(labels)
	if t.cfg.Filter != nil {
		// Overlap is judged in the original image frame, before re-origin.
		kept = t.cfg.Filter.Filter(patch, kept)
	}
	if t.cfg.Filter == nil || !t.cfg.Filter.Clips() {
		common.TranslateBoxes(kept, -float32(patch.Min.X), -float32(patch.Min.Y), t.cfg.Format)
	}
	return out, kept, nil
}

// RandomPatchInfConfig parameterizes the bounded-retry patch sampler.
type RandomPatchInfConfig struct {
	Patches *PatchCoordinateGenerator
	// BoundSource draws a fresh overlap interval per retry round. Optional;
	// nil keeps the validator's interval unbounded.
	BoundSource *BoundGenerator
	// Filter decides which boxes survive an accepted patch. Optional.
	Filter *BoxFilter
	// Validator decides whether a candidate patch is acceptable. Optional;
	// nil accepts the first candidate.
	Validator *ImageValidator
	// MaxTrials bounds the patch candidates tried per overlap interval.
	// Zero defaults to 50.
	MaxTrials int
	// MaxRounds bounds the outer draw-new-interval loop so a pathological
	// configuration cannot spin forever; exhaustion returns the input
	// unchanged. Zero defaults to 100.
	MaxRounds int
	// Prob is the per-round probability of continuing to search; each round
	// passes the input through unchanged with probability 1-Prob.
	Prob   float64
	Format common.BoxFormat
}

// RandomPatchInf is the rejection-sampling crop stage. Each round draws an
// overlap interval and tries up to MaxTrials candidate patches against the
// validator; the first acceptable patch is adopted as the new image frame.
type RandomPatchInf struct {
	cfg RandomPatchInfConfig
	rng *rand.Rand
}

// NewRandomPatchInf validates the configuration and applies trial defaults.
func NewRandomPatchInf(rng *rand.Rand, cfg RandomPatchInfConfig) (*RandomPatchInf, error) {
	if cfg.Patches == nil {
		return nil, errors.Wrap(ErrConfig, "RandomPatchInf needs a patch generator")
	}
	if cfg.MaxTrials <= 0 {
		cfg.MaxTrials = 50
	}
	if cfg.MaxRounds <= 0 {
		cfg.MaxRounds = 100
	}
	return &RandomPatchInf{cfg: cfg, rng: rng}, nil
}

// Apply implements Transform.
func (t *RandomPatchInf) Apply(img gocv.Mat, labels [][]float32) (gocv.Mat, [][]float32, error) {
	for round := 0; round < t.cfg.MaxRounds; round++ {
		if !Bernoulli(t.rng, t.cfg.Prob) {
			return img.Clone(), common.CopyLabels(labels), nil
		}

		bounds := Unbounded
		if t.cfg.BoundSource != nil {
			bounds = t.cfg.BoundSource.Sample()
		}

		for trial := 0; trial < t.cfg.MaxTrials; trial++ {
			patch, err := t.cfg.Patches.Generate(img.Rows(), img.Cols())
			if err != nil {
				return gocv.NewMat(), nil, err
			}
			if t.cfg.Validator != nil && !t.cfg.Validator.Validate(patch, labels, bounds) {
				continue
			}
			return t.adopt(img, labels, patch)
		}
	}

	logrus.Debugf("patch search exhausted after %d rounds, returning input unchanged", t.cfg.MaxRounds)
	return img.Clone(), common.CopyLabels(labels), nil
}

// adopt crops the image to the accepted patch and moves the labels into the
// new frame. Boxes are kept or dropped based on their overlap with the full
// patch, but survivors are only translated, not clipped: a box may keep
// extents outside the crop, matching the recipe this pipeline reproduces.
func (t *RandomPatchInf) adopt(img gocv.Mat, labels [][]float32, patch image.Rectangle) (gocv.Mat, [][]float32, error) {
	region := patch.Intersect(image.Rect(0, 0, img.Cols(), img.Rows()))
	if region.Empty() {
		return gocv.NewMat(), nil, errors.Wrapf(ErrConfig, "patch %v outside %dx%d image", patch, img.Cols(), img.Rows())
	}

	view := img.Region(region)
	out := view.Clone()
	view.Close()

	kept := common.CopyLabels(labels)
	if t.cfg.Filter != nil {
		kept = t.cfg.Filter.Filter(patch, kept)
	}
	if t.cfg.Filter == nil || !t.cfg.Filter.Clips() {
		common.TranslateBoxes(kept, -float32(region.Min.X), -float32(region.Min.Y), t.cfg.Format)
	}
	return out, kept, nil
}
