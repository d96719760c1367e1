package augment

import (
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

// TestPhotometricDistortGrayIdentity runs the distortion chain with every
// per-op probability at zero. On a neutral gray image the HSV round trip is
// lossless, so the output must equal the input pixel for pixel.
func TestPhotometricDistortGrayIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	cfg := DefaultPhotometricConfig()
	cfg.Prob = 0
	cfg.ChannelSwapProb = 0
	distort, err := NewPhotometricDistort(rng, cfg)
	require.NoError(t, err)

	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(100, 100, 100, 0), 8, 8, gocv.MatTypeCV8UC3)
	defer img.Close()

	out, _, err := distort.Apply(img, nil)
	require.NoError(t, err)
	defer out.Close()
	assert.Equal(t, img.ToBytes(), out.ToBytes(), "a gray image should pass through unchanged when every op is off")
}

// TestPhotometricDistortShape checks that the full default distortion keeps
// the image geometry and dtype: only pixel intensities may change.
func TestPhotometricDistortShape(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	distort, err := NewPhotometricDistort(rng, DefaultPhotometricConfig())
	require.NoError(t, err)

	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(30, 90, 200, 0), 16, 24, gocv.MatTypeCV8UC3)
	defer img.Close()
	labels := [][]float32{{1, 2, 3, 10, 12}}

	for i := 0; i < 50; i++ {
		out, outLabels, err := distort.Apply(img, labels)
		require.NoError(t, err)
		assert.Equal(t, 16, out.Rows(), "photometric ops should not change the height")
		assert.Equal(t, 24, out.Cols(), "photometric ops should not change the width")
		assert.Equal(t, gocv.MatTypeCV8UC3, out.Type(), "the chain should end back at 8-bit RGB")
		assert.Equal(t, labels, outLabels, "photometric ops should never touch labels")
		out.Close()
	}
}

// TestPhotometricDistortGrayInput checks that a single-channel image is
// promoted to three channels before the color ops run.
func TestPhotometricDistortGrayInput(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	distort, err := NewPhotometricDistort(rng, DefaultPhotometricConfig())
	require.NoError(t, err)

	gray := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(77, 0, 0, 0), 8, 8, gocv.MatTypeCV8UC1)
	defer gray.Close()

	out, _, err := distort.Apply(gray, nil)
	require.NoError(t, err)
	defer out.Close()
	assert.Equal(t, 3, out.Channels(), "gray input should come out as a 3-channel image")
}

// TestRandomOpConfigErrors checks construction-time validation of the
// individual photometric operations.
func TestRandomOpConfigErrors(t *testing.T) {
	rng := rand.New(rand.NewSource(4))

	_, err := NewRandomBrightness(rng, 32, -32, 0.5)
	assert.True(t, errors.Is(err, ErrConfig), "inverted brightness range should be an ErrConfig")

	_, err = NewRandomContrast(rng, 0, 1.5, 0.5)
	assert.True(t, errors.Is(err, ErrConfig), "zero contrast lower bound should be an ErrConfig")

	_, err = NewRandomSaturation(rng, 1.5, 0.5, 0.5)
	assert.True(t, errors.Is(err, ErrConfig), "inverted saturation range should be an ErrConfig")

	_, err = NewRandomHue(rng, 200, 0.5)
	assert.True(t, errors.Is(err, ErrConfig), "a hue delta past 180 should be an ErrConfig")
}

// TestRandomBrightnessApplies checks the value shift end to end through the
// Transform interface on a float image.
func TestRandomBrightnessApplies(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	op, err := NewRandomBrightness(rng, 10, 10, 1) // degenerate range pins the delta
	require.NoError(t, err)

	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(100, 0, 0, 0), 4, 4, gocv.MatTypeCV32F)
	defer img.Close()

	out, _, err := op.Apply(img, nil)
	require.NoError(t, err)
	defer out.Close()
	assert.InDelta(t, 110, out.GetFloatAt(0, 0), 1e-4, "the pinned delta should be added")
}
