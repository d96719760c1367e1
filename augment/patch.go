package augment

import (
	"image"
	"math"
	"math/rand"

	"github.com/pkg/errors"
)

// MatchMode controls how a patch's height and width scales relate to each
// other when a candidate patch is sampled.
type MatchMode int

const (
	// MatchIndependent samples the height and width scales independently and
	// clamps the resulting aspect ratio into the configured range by adjusting
	// the width.
	MatchIndependent MatchMode = iota
	// MatchWidthToHeight samples the height scale and an aspect ratio; the
	// width follows from them.
	MatchWidthToHeight
	// MatchHeightToWidth samples the width scale and an aspect ratio; the
	// height follows from them.
	MatchHeightToWidth
)

// PatchConfig parameterizes candidate patch sampling. Scales are patch extent
// as a fraction of the reference image extent; scales above 1 produce patches
// that contain the image (expansion), scales below 1 patches inside it (crop).
type PatchConfig struct {
	Mode     MatchMode
	MinScale float64
	MaxScale float64
	// ScaleUniformly samples one scale and applies it to both dimensions,
	// preserving the image's aspect ratio. Overrides Mode.
	ScaleUniformly bool
	// Aspect ratio is patch width over patch height. Zero values default to
	// the 0.5..2.0 range of the published recipe.
	MinAspectRatio float64
	MaxAspectRatio float64
}

// PatchCoordinateGenerator samples candidate rectangular patches relative to
// a reference image size.
type PatchCoordinateGenerator struct {
	cfg PatchConfig
	rng *rand.Rand
}

// NewPatchCoordinateGenerator validates the scale and aspect-ratio bounds
// up front so patch sampling itself cannot produce a degenerate rectangle.
func NewPatchCoordinateGenerator(rng *rand.Rand, cfg PatchConfig) (*PatchCoordinateGenerator, error) {
	if cfg.MinAspectRatio == 0 && cfg.MaxAspectRatio == 0 {
		cfg.MinAspectRatio, cfg.MaxAspectRatio = 0.5, 2.0
	}
	if cfg.MinScale <= 0 || cfg.MinScale > cfg.MaxScale {
		return nil, errors.Wrapf(ErrConfig, "scale range [%v, %v]", cfg.MinScale, cfg.MaxScale)
	}
	if cfg.MinAspectRatio <= 0 || cfg.MinAspectRatio > cfg.MaxAspectRatio {
		return nil, errors.Wrapf(ErrConfig, "aspect ratio range [%v, %v]", cfg.MinAspectRatio, cfg.MaxAspectRatio)
	}
	return &PatchCoordinateGenerator{cfg: cfg, rng: rng}, nil
}

// Generate samples one patch for a reference image of imgHeight x imgWidth
// pixels, in absolute pixel coordinates. Patches no larger than the image are
// placed fully inside it; patches larger than the image are placed so the
// image lies fully inside them (their origin goes negative).
func (g *PatchCoordinateGenerator) Generate(imgHeight, imgWidth int) (image.Rectangle, error) {
	h, w := float64(imgHeight), float64(imgWidth)
	cfg := g.cfg

	var patchH, patchW float64
	switch {
	case cfg.ScaleUniformly:
		s := uniform(g.rng, cfg.MinScale, cfg.MaxScale)
		patchH, patchW = s*h, s*w
	case cfg.Mode == MatchWidthToHeight:
		patchH = uniform(g.rng, cfg.MinScale, cfg.MaxScale) * h
		patchW = uniform(g.rng, cfg.MinAspectRatio, cfg.MaxAspectRatio) * patchH
	case cfg.Mode == MatchHeightToWidth:
		patchW = uniform(g.rng, cfg.MinScale, cfg.MaxScale) * w
		patchH = patchW / uniform(g.rng, cfg.MinAspectRatio, cfg.MaxAspectRatio)
	default:
		patchH = uniform(g.rng, cfg.MinScale, cfg.MaxScale) * h
		patchW = uniform(g.rng, cfg.MinScale, cfg.MaxScale) * w
		if ar := patchW / patchH; ar < cfg.MinAspectRatio {
			patchW = patchH * cfg.MinAspectRatio
		} else if ar > cfg.MaxAspectRatio {
			patchW = patchH * cfg.MaxAspectRatio
		}
	}

	ph := int(math.Round(patchH))
	pw := int(math.Round(patchW))
	if ph <= 0 || pw <= 0 {
		// Prevented by constructor validation on plausible image sizes, so a
		// degenerate patch here means the configuration is wrong after all.
		return image.Rectangle{}, errors.Wrapf(ErrConfig, "degenerate %dx%d patch for %dx%d image", pw, ph, imgWidth, imgHeight)
	}

	ymin := samplePos(g.rng, imgHeight, ph)
	xmin := samplePos(g.rng, imgWidth, pw)
	return image.Rect(xmin, ymin, xmin+pw, ymin+ph), nil
}

// samplePos picks a patch origin along one axis, uniform over the positions
// where the smaller of image and patch lies fully inside the larger.
func samplePos(rng *rand.Rand, img, patch int) int {
	lo, hi := img-patch, 0
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo + rng.Intn(hi-lo+1)
}
