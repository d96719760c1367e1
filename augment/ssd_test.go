package augment

import (
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"github.com/CZhihao/ssd-keras/common"
	imgops "github.com/CZhihao/ssd-keras/images"
)

// gradientMat builds a 3-channel test image with position-dependent pixels so
// geometric mistakes show up as value mismatches, not just size mismatches.
func gradientMat(t *testing.T, width, height int) gocv.Mat {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: uint8((x + y) % 256), A: 255})
		}
	}
	m, err := imgops.MatFromImage(img)
	require.NoError(t, err)
	return m
}

// TestSSDAugmentationEndToEnd runs the full pipeline on a 500x400 image with
// one box and checks the output contract for many seeds: a 300x300 3-channel
// image, at most one surviving box, and a surviving center inside the frame.
func TestSSDAugmentationEndToEnd(t *testing.T) {
	img := gradientMat(t, 500, 400)
	defer img.Close()
	labels := [][]float32{{1, 100, 50, 300, 250}}
	f := common.DefaultFormat

	for seed := int64(1); seed <= 25; seed++ {
		aug, err := NewSSDAugmentation(SSDConfig{Seed: seed})
		require.NoError(t, err)

		out, outLabels, err := aug.Apply(img, labels)
		require.NoError(t, err, "seed %d", seed)
		assert.Equal(t, 300, out.Rows(), "output height should be the SSD300 input size")
		assert.Equal(t, 300, out.Cols(), "output width should be the SSD300 input size")
		assert.Equal(t, 3, out.Channels(), "output should stay 3-channel")
		assert.Equal(t, gocv.MatTypeCV8UC3, out.Type(), "output should stay 8-bit")
		assert.LessOrEqual(t, len(outLabels), 1, "a single input box can yield at most one output box")

		for _, row := range outLabels {
			assert.LessOrEqual(t, row[f.XMin], row[f.XMax], "corner order invariant")
			assert.LessOrEqual(t, row[f.YMin], row[f.YMax], "corner order invariant")
			cx := (row[f.XMin] + row[f.XMax]) / 2
			cy := (row[f.YMin] + row[f.YMax]) / 2
			assert.GreaterOrEqual(t, cx, float32(0), "surviving center should be inside the output")
			assert.LessOrEqual(t, cx, float32(300), "surviving center should be inside the output")
			assert.GreaterOrEqual(t, cy, float32(0), "surviving center should be inside the output")
			assert.LessOrEqual(t, cy, float32(300), "surviving center should be inside the output")
		}
		out.Close()

		// The input pair must never be mutated by a run.
		assert.Equal(t, [][]float32{{1, 100, 50, 300, 250}}, labels, "input labels should be untouched")
	}
}

// TestSSDAugmentationDeterministic checks that two pipelines built from the
// same seed produce identical results, which is what makes augmentation bugs
// reproducible.
func TestSSDAugmentationDeterministic(t *testing.T) {
	img := gradientMat(t, 500, 400)
	defer img.Close()
	labels := [][]float32{{1, 100, 50, 300, 250}}

	first, err := NewSSDAugmentation(SSDConfig{Seed: 1234})
	require.NoError(t, err)
	second, err := NewSSDAugmentation(SSDConfig{Seed: 1234})
	require.NoError(t, err)

	outA, labelsA, err := first.Apply(img, labels)
	require.NoError(t, err)
	defer outA.Close()
	outB, labelsB, err := second.Apply(img, labels)
	require.NoError(t, err)
	defer outB.Close()

	assert.Equal(t, outA.ToBytes(), outB.ToBytes(), "same seed should give identical pixels")
	assert.Equal(t, labelsA, labelsB, "same seed should give identical labels")
}

// TestSSDAugmentationPartialSize checks that each output dimension defaults
// independently, so setting only one does not break construction.
func TestSSDAugmentationPartialSize(t *testing.T) {
	aug, err := NewSSDAugmentation(SSDConfig{Width: 512, Seed: 7})
	require.NoError(t, err, "a config with only one dimension set should construct")

	img := gradientMat(t, 200, 150)
	defer img.Close()

	out, _, err := aug.Apply(img, nil)
	require.NoError(t, err)
	defer out.Close()
	assert.Equal(t, 300, out.Rows(), "unset height should default")
	assert.Equal(t, 512, out.Cols(), "explicit width should be honored")
}

// TestSSDAugmentationSharedRNG checks the caller-owned random source path.
func TestSSDAugmentationSharedRNG(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	aug, err := NewSSDAugmentation(SSDConfig{RNG: rng})
	require.NoError(t, err)

	img := gradientMat(t, 120, 90)
	defer img.Close()

	out, outLabels, err := aug.Apply(img, nil)
	require.NoError(t, err)
	defer out.Close()
	assert.Equal(t, 300, out.Rows(), "empty label sets should still augment to the target size")
	assert.Empty(t, outLabels, "no boxes in means no boxes out")
}
