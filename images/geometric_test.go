package images

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

// TestResize checks target dimensions and argument validation.
func TestResize(t *testing.T) {
	m := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(7, 0, 0, 0), 40, 60, gocv.MatTypeCV8UC3)
	defer m.Close()

	for _, mode := range AllInterpolations {
		out, err := Resize(m, 30, 20, mode)
		require.NoError(t, err, "mode %d should resize", mode)
		assert.Equal(t, 20, out.Rows(), "height should match the target")
		assert.Equal(t, 30, out.Cols(), "width should match the target")
		out.Close()
	}

	_, err := Resize(m, 0, 20, InterpLinear)
	assert.Error(t, err, "zero width should be rejected")
	_, err = Resize(m, 30, 20, Interpolation(99))
	assert.Error(t, err, "unknown mode should be rejected")
}

// TestFlipHorizontal checks the pixel mirror on a marked image.
func TestFlipHorizontal(t *testing.T) {
	m := gocv.NewMatWithSize(2, 3, gocv.MatTypeCV8UC1)
	defer m.Close()
	m.SetUCharAt(0, 0, 9)

	out := FlipHorizontal(m)
	defer out.Close()
	assert.Equal(t, uint8(9), out.GetUCharAt(0, 2), "the marked pixel should move to the mirrored column")
	assert.Equal(t, uint8(0), out.GetUCharAt(0, 0), "the original column should be cleared")

	back := FlipHorizontal(out)
	defer back.Close()
	assert.Equal(t, m.ToBytes(), back.ToBytes(), "double flip should restore the original exactly")
}

// TestApplyPatchCrop checks the window case where the patch lies inside the
// image.
func TestApplyPatchCrop(t *testing.T) {
	m := gocv.NewMatWithSize(10, 10, gocv.MatTypeCV8UC1)
	defer m.Close()
	m.SetUCharAt(4, 5, 42)

	out, err := ApplyPatch(m, image.Rect(3, 2, 8, 9), Background{})
	require.NoError(t, err)
	defer out.Close()
	assert.Equal(t, 7, out.Rows(), "output height should be the patch height")
	assert.Equal(t, 5, out.Cols(), "output width should be the patch width")
	assert.Equal(t, uint8(42), out.GetUCharAt(2, 2), "the marked pixel should land at the patch-relative position")
}

// TestApplyPatchExpand checks the canvas case where the patch contains the
// image, with background fill outside the blitted region.
func TestApplyPatchExpand(t *testing.T) {
	m := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(200, 0, 0, 0), 4, 4, gocv.MatTypeCV8UC1)
	defer m.Close()

	out, err := ApplyPatch(m, image.Rect(-2, -3, 6, 5), Background{123, 0, 0})
	require.NoError(t, err)
	defer out.Close()
	assert.Equal(t, 8, out.Rows(), "canvas height should be the patch height")
	assert.Equal(t, 8, out.Cols(), "canvas width should be the patch width")
	assert.Equal(t, uint8(123), out.GetUCharAt(0, 0), "uncovered canvas should hold the background")
	assert.Equal(t, uint8(200), out.GetUCharAt(3, 2), "the source should be blitted at its offset")
	assert.Equal(t, uint8(123), out.GetUCharAt(7, 7), "pixels past the source should hold the background")
}

// TestApplyPatchDegenerate checks degenerate patches fail loudly.
func TestApplyPatchDegenerate(t *testing.T) {
	m := gocv.NewMatWithSize(4, 4, gocv.MatTypeCV8UC1)
	defer m.Close()
	_, err := ApplyPatch(m, image.Rect(2, 2, 2, 5), Background{})
	assert.Error(t, err, "a zero-width patch should be rejected")
}
