package augment

import (
	"math/rand"
	"time"

	"gocv.io/x/gocv"

	"github.com/CZhihao/ssd-keras/common"
	"github.com/CZhihao/ssd-keras/images"
)

// SSDConfig parameterizes the full SSD training augmentation recipe.
type SSDConfig struct {
	// Height and Width are the final output size. Each dimension defaults
	// independently to 300, the SSD300 input resolution.
	Height int
	Width  int
	// Background fills expansion canvases. Zero defaults to the per-channel
	// training set mean (123, 117, 104) the original recipe uses.
	Background images.Background
	// Seed seeds the pipeline's random source; zero seeds from the clock.
	// Ignored when RNG is set.
	Seed int64
	// RNG overrides Seed with a caller-owned random source.
	RNG *rand.Rand
	// Format describes the label columns. Zero value is common.DefaultFormat.
	Format common.BoxFormat
}

// SSDAugmentation reproduces the data augmentation pipeline used to train the
// original SSD detector: photometric distortions, random expansion, random
// IoU-constrained cropping, horizontal flipping, and a resize to the model
// input size with a randomly drawn interpolation mode.
type SSDAugmentation struct {
	chain *Chain
	rng   *rand.Rand
}

// NewSSDAugmentation wires the published recipe end to end.
func NewSSDAugmentation(cfg SSDConfig) (*SSDAugmentation, error) {
	if cfg.Height == 0 {
		cfg.Height = 300
	}
	if cfg.Width == 0 {
		cfg.Width = 300
	}
	if cfg.Background == (images.Background{}) {
		cfg.Background = images.Background{123, 117, 104}
	}
	if cfg.Format == (common.BoxFormat{}) {
		cfg.Format = common.DefaultFormat
	}
	rng := cfg.RNG
	if rng == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}

	distort, err := NewPhotometricDistort(rng, DefaultPhotometricConfig())
	if err != nil {
		return nil, err
	}

	// Expansion: a canvas 1x to 4x the image on both axes, image placed
	// uniformly at random on it, half the time.
	expandPatches, err := NewPatchCoordinateGenerator(rng, PatchConfig{
		MinScale:       1.0,
		MaxScale:       4.0,
		ScaleUniformly: true,
	})
	if err != nil {
		return nil, err
	}
	expand, err := NewRandomPatch(rng, RandomPatchConfig{
		Patches:    expandPatches,
		Prob:       0.5,
		Background: cfg.Background,
		Format:     cfg.Format,
	})
	if err != nil {
		return nil, err
	}

	// Cropping: patches 0.3x to 1.0x the image with aspect ratio between 0.5
	// and 2.0, accepted once at least one box meets an IoU requirement drawn
	// per round from the published lower-bound sample space. Boxes survive by
	// the center-point rule and are not clipped to the crop.
	boundSource, err := NewBoundGenerator(rng, []Bounds{
		{Lower: 0, Upper: 1},
		{Lower: 0.1, Upper: 1},
		{Lower: 0.3, Upper: 1},
		{Lower: 0.5, Upper: 1},
		{Lower: 0.7, Upper: 1},
		{Lower: 0.9, Upper: 1},
	}, nil)
	if err != nil {
		return nil, err
	}
	cropPatches, err := NewPatchCoordinateGenerator(rng, PatchConfig{
		Mode:           MatchIndependent,
		MinScale:       0.3,
		MaxScale:       1.0,
		MinAspectRatio: 0.5,
		MaxAspectRatio: 2.0,
	})
	if err != nil {
		return nil, err
	}
	cropFilter, err := NewBoxFilter(BoxFilterConfig{
		Criterion: CriterionCenterPoint,
		Format:    cfg.Format,
	})
	if err != nil {
		return nil, err
	}
	crop, err := NewRandomPatchInf(rng, RandomPatchInfConfig{
		Patches:     cropPatches,
		BoundSource: boundSource,
		Filter:      cropFilter,
		Validator: NewImageValidator(ImageValidatorConfig{
			Criterion: CriterionIoU,
			MinBoxes:  1,
			Format:    cfg.Format,
		}),
		MaxTrials: 50,
		Prob:      0.857,
		Format:    cfg.Format,
	})
	if err != nil {
		return nil, err
	}

	flip := NewRandomFlip(rng, Horizontal, 0.5, cfg.Format)

	resizeStage, err := NewResizeRandomInterp(rng, cfg.Height, cfg.Width, images.AllInterpolations, cfg.Format)
	if err != nil {
		return nil, err
	}

	return &SSDAugmentation{
		chain: NewChain(distort, expand, crop, flip, resizeStage),
		rng:   rng,
	}, nil
}

// Apply runs one image and its labels through the whole pipeline. The
// returned Mat is fresh and owned by the caller; the input is untouched.
func (a *SSDAugmentation) Apply(img gocv.Mat, labels [][]float32) (gocv.Mat, [][]float32, error) {
	return a.chain.Apply(img, labels)
}
