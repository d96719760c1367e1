package augment

import (
	"math/rand"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"github.com/CZhihao/ssd-keras/common"
	"github.com/CZhihao/ssd-keras/images"
)

// The deterministic chain links below adapt the images package primitives to
// the Transform interface. They never touch labels beyond copying them.

// ToThreeChannels forces a 3-channel image.
type ToThreeChannels struct{}

// Apply implements Transform.
func (ToThreeChannels) Apply(img gocv.Mat, labels [][]float32) (gocv.Mat, [][]float32, error) {
	out, err := images.EnsureThreeChannels(img)
	return out, common.CopyLabels(labels), err
}

// ToFloat32 converts pixels to float32.
type ToFloat32 struct{}

// Apply implements Transform.
func (ToFloat32) Apply(img gocv.Mat, labels [][]float32) (gocv.Mat, [][]float32, error) {
	return images.ToFloat32(img), common.CopyLabels(labels), nil
}

// ToUint8 converts pixels to 8-bit unsigned, saturating out-of-range values.
type ToUint8 struct{}

// Apply implements Transform.
func (ToUint8) Apply(img gocv.Mat, labels [][]float32) (gocv.Mat, [][]float32, error) {
	return images.ToUint8(img), common.CopyLabels(labels), nil
}

// ToHSV converts an 8-bit RGB image to HSV.
type ToHSV struct{}

// Apply implements Transform.
func (ToHSV) Apply(img gocv.Mat, labels [][]float32) (gocv.Mat, [][]float32, error) {
	out, err := images.ConvertColor(img, images.RGBToHSV)
	return out, common.CopyLabels(labels), err
}

// ToRGB converts an 8-bit HSV image back to RGB.
type ToRGB struct{}

// Apply implements Transform.
func (ToRGB) Apply(img gocv.Mat, labels [][]float32) (gocv.Mat, [][]float32, error) {
	out, err := images.ConvertColor(img, images.HSVToRGB)
	return out, common.CopyLabels(labels), err
}

// RandomBrightness shifts all pixel values by a delta drawn uniformly from
// [Lower, Upper], with probability Prob.
type RandomBrightness struct {
	lower, upper float64
	prob         float64
	rng          *rand.Rand
}

// NewRandomBrightness validates the delta range.
func NewRandomBrightness(rng *rand.Rand, lower, upper, prob float64) (*RandomBrightness, error) {
	if lower > upper {
		return nil, errors.Wrapf(ErrConfig, "brightness delta range [%v, %v]", lower, upper)
	}
	return &RandomBrightness{lower: lower, upper: upper, prob: prob, rng: rng}, nil
}

// Apply implements Transform.
func (t *RandomBrightness) Apply(img gocv.Mat, labels [][]float32) (gocv.Mat, [][]float32, error) {
	if !Bernoulli(t.rng, t.prob) {
		return img.Clone(), common.CopyLabels(labels), nil
	}
	out, err := images.AdjustBrightness(img, float32(uniform(t.rng, t.lower, t.upper)))
	return out, common.CopyLabels(labels), err
}

// RandomContrast scales pixel values around the gray midpoint by a factor
// drawn uniformly from [Lower, Upper], with probability Prob.
type RandomContrast struct {
	lower, upper float64
	prob         float64
	rng          *rand.Rand
}

// NewRandomContrast validates the factor range.
func NewRandomContrast(rng *rand.Rand, lower, upper, prob float64) (*RandomContrast, error) {
	if lower <= 0 || lower > upper {
		return nil, errors.Wrapf(ErrConfig, "contrast factor range [%v, %v]", lower, upper)
	}
	return &RandomContrast{lower: lower, upper: upper, prob: prob, rng: rng}, nil
}

// Apply implements Transform.
func (t *RandomContrast) Apply(img gocv.Mat, labels [][]float32) (gocv.Mat, [][]float32, error) {
	if !Bernoulli(t.rng, t.prob) {
		return img.Clone(), common.CopyLabels(labels), nil
	}
	out, err := images.AdjustContrast(img, float32(uniform(t.rng, t.lower, t.upper)))
	return out, common.CopyLabels(labels), err
}

// RandomSaturation scales the saturation channel of an HSV image by a factor
// drawn uniformly from [Lower, Upper], with probability Prob.
type RandomSaturation struct {
	lower, upper float64
	prob         float64
	rng          *rand.Rand
}

// NewRandomSaturation validates the factor range.
func NewRandomSaturation(rng *rand.Rand, lower, upper, prob float64) (*RandomSaturation, error) {
	if lower <= 0 || lower > upper {
		return nil, errors.Wrapf(ErrConfig, "saturation factor range [%v, %v]", lower, upper)
	}
	return &RandomSaturation{lower: lower, upper: upper, prob: prob, rng: rng}, nil
}

// Apply implements Transform.
func (t *RandomSaturation) Apply(img gocv.Mat, labels [][]float32) (gocv.Mat, [][]float32, error) {
	if !Bernoulli(t.rng, t.prob) {
		return img.Clone(), common.CopyLabels(labels), nil
	}
	out, err := images.AdjustSaturation(img, float32(uniform(t.rng, t.lower, t.upper)))
	return out, common.CopyLabels(labels), err
}

// RandomHue shifts the hue channel of an HSV image by a delta drawn uniformly
// from [-MaxDelta, MaxDelta], with probability Prob. Hue is on the 0-180
// scale.
type RandomHue struct {
	maxDelta float64
	prob     float64
	rng      *rand.Rand
}

// NewRandomHue validates the delta bound.
func NewRandomHue(rng *rand.Rand, maxDelta, prob float64) (*RandomHue, error) {
	if maxDelta < 0 || maxDelta > 180 {
		return nil, errors.Wrapf(ErrConfig, "hue delta %v outside [0, 180]", maxDelta)
	}
	return &RandomHue{maxDelta: maxDelta, prob: prob, rng: rng}, nil
}

// Apply implements Transform.
func (t *RandomHue) Apply(img gocv.Mat, labels [][]float32) (gocv.Mat, [][]float32, error) {
	if !Bernoulli(t.rng, t.prob) {
		return img.Clone(), common.CopyLabels(labels), nil
	}
	out, err := images.AdjustHue(img, float32(uniform(t.rng, -t.maxDelta, t.maxDelta)))
	return out, common.CopyLabels(labels), err
}

// RandomChannelSwap reorders the color channels with one of the five
// non-identity permutations, chosen uniformly, with probability Prob.
type RandomChannelSwap struct {
	prob float64
	rng  *rand.Rand
}

// NewRandomChannelSwap builds the swap transform.
func NewRandomChannelSwap(rng *rand.Rand, prob float64) *RandomChannelSwap {
	return &RandomChannelSwap{prob: prob, rng: rng}
}

// Apply implements Transform.
func (t *RandomChannelSwap) Apply(img gocv.Mat, labels [][]float32) (gocv.Mat, [][]float32, error) {
	if !Bernoulli(t.rng, t.prob) {
		return img.Clone(), common.CopyLabels(labels), nil
	}
	perm := images.ChannelPerms[t.rng.Intn(len(images.ChannelPerms))]
	out, err := images.SwapChannels(img, perm)
	return out, common.CopyLabels(labels), err
}

// PhotometricConfig holds the distortion parameters of the published recipe.
// The zero value is not usable; DefaultPhotometricConfig supplies the
// published constants.
type PhotometricConfig struct {
	BrightnessDelta float64
	ContrastLower   float64
	ContrastUpper   float64
	SaturationLower float64
	SaturationUpper float64
	HueDelta        float64
	Prob            float64
	ChannelSwapProb float64
}

// DefaultPhotometricConfig returns the constants of the original SSD training
// recipe. Channel swapping is configured but disabled there.
func DefaultPhotometricConfig() PhotometricConfig {
	return PhotometricConfig{
		BrightnessDelta: 32,
		ContrastLower:   0.5,
		ContrastUpper:   1.5,
		SaturationLower: 0.5,
		SaturationUpper: 1.5,
		HueDelta:        18,
		Prob:            0.5,
		ChannelSwapProb: 0,
	}
}

// PhotometricDistort applies one of two fixed orderings of the photometric
// operations, chosen by a single coin flip per call. The orderings differ only
// in where the contrast adjustment sits, but the operations do not commute on
// pixel intensities, so both are kept exactly as published.
type PhotometricDistort struct {
	early *Chain // contrast before the HSV round trip
	late  *Chain // contrast after the HSV round trip
	rng   *rand.Rand
}

// NewPhotometricDistort builds both orderings from one config.
func NewPhotometricDistort(rng *rand.Rand, cfg PhotometricConfig) (*PhotometricDistort, error) {
	brightness, err := NewRandomBrightness(rng, -cfg.BrightnessDelta, cfg.BrightnessDelta, cfg.Prob)
	if err != nil {
		return nil, err
	}
	contrast, err := NewRandomContrast(rng, cfg.ContrastLower, cfg.ContrastUpper, cfg.Prob)
	if err != nil {
		return nil, err
	}
	saturation, err := NewRandomSaturation(rng, cfg.SaturationLower, cfg.SaturationUpper, cfg.Prob)
	if err != nil {
		return nil, err
	}
	hue, err := NewRandomHue(rng, cfg.HueDelta, cfg.Prob)
	if err != nil {
		return nil, err
	}
	swap := NewRandomChannelSwap(rng, cfg.ChannelSwapProb)

	early := NewChain(
		ToThreeChannels{},
		ToFloat32{},
		brightness,
		contrast,
		ToUint8{},
		ToHSV{},
		ToFloat32{},
		saturation,
		hue,
		ToUint8{},
		ToRGB{},
		swap,
	)
	late := NewChain(
		ToThreeChannels{},
		ToFloat32{},
		brightness,
		ToUint8{},
		ToHSV{},
		ToFloat32{},
		saturation,
		hue,
		ToUint8{},
		ToRGB{},
		ToFloat32{},
		contrast,
		ToUint8{},
		swap,
	)
	return &PhotometricDistort{early: early, late: late, rng: rng}, nil
}

// Apply implements Transform.
func (t *PhotometricDistort) Apply(img gocv.Mat, labels [][]float32) (gocv.Mat, [][]float32, error) {
	if Bernoulli(t.rng, 0.5) {
		return t.early.Apply(img, labels)
	}
	return t.late.Apply(img, labels)
}
