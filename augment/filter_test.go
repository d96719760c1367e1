package augment

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CZhihao/ssd-keras/common"
)

// TestBoxFilterCenterPoint pins the retention rule: a box survives iff its
// center lies within the patch, boundaries included.
func TestBoxFilterCenterPoint(t *testing.T) {
	filter, err := NewBoxFilter(BoxFilterConfig{Criterion: CriterionCenterPoint, Format: common.DefaultFormat})
	require.NoError(t, err)

	patch := image.Rect(0, 0, 100, 100)
	labels := [][]float32{
		{0, 10, 10, 30, 30},   // center (20, 20), inside
		{1, 90, 40, 110, 60},  // center (100, 50), exactly on the boundary
		{2, 95, 40, 125, 60},  // center (110, 50), outside
		{3, 40, 90, 60, 130},  // center (50, 110), outside
		{4, 40, 80, 60, 120},  // center (50, 100), exactly on the boundary
	}

	kept := filter.Filter(patch, labels)
	require.Len(t, kept, 3, "interior and boundary centers should survive")
	assert.Equal(t, float32(0), kept[0][0], "row order should be preserved")
	assert.Equal(t, float32(1), kept[1][0], "a center on the boundary should be kept")
	assert.Equal(t, float32(4), kept[2][0], "a center on the boundary should be kept")

	assert.Equal(t, float32(10), labels[0][1], "the input rows should not be modified")
}

// TestBoxFilterClip checks that clipped survivors land in the patch's own
// coordinate frame, within [0, patchW] x [0, patchH].
func TestBoxFilterClip(t *testing.T) {
	filter, err := NewBoxFilter(BoxFilterConfig{
		Criterion: CriterionCenterPoint,
		ClipBoxes: true,
		Format:    common.DefaultFormat,
	})
	require.NoError(t, err)

	patch := image.Rect(20, 10, 120, 90)
	labels := [][]float32{{0, 5, 5, 70, 95}} // center (37.5, 50), inside; extents stick out

	kept := filter.Filter(patch, labels)
	require.Len(t, kept, 1)
	row := kept[0]
	f := common.DefaultFormat
	assert.GreaterOrEqual(t, row[f.XMin], float32(0), "clipped xmin should be inside the patch frame")
	assert.GreaterOrEqual(t, row[f.YMin], float32(0), "clipped ymin should be inside the patch frame")
	assert.LessOrEqual(t, row[f.XMax], float32(patch.Dx()), "clipped xmax should be inside the patch frame")
	assert.LessOrEqual(t, row[f.YMax], float32(patch.Dy()), "clipped ymax should be inside the patch frame")
	assert.Equal(t, []float32{0, 0, 0, 50, 80}, row, "exact clipped coordinates")
}

// TestBoxFilterIoUBounds checks the IoU criterion against explicit bounds.
func TestBoxFilterIoUBounds(t *testing.T) {
	filter, err := NewBoxFilter(BoxFilterConfig{
		Criterion: CriterionIoU,
		Bounds:    Bounds{Lower: 0.5, Upper: 1},
		Format:    common.DefaultFormat,
	})
	require.NoError(t, err)

	patch := image.Rect(0, 0, 100, 100)
	labels := [][]float32{
		{0, 0, 0, 100, 100},  // IoU 1.0
		{1, 0, 0, 100, 50},   // IoU 0.5, on the bound
		{2, 0, 0, 30, 30},    // IoU 0.09
	}
	kept := filter.Filter(patch, labels)
	require.Len(t, kept, 2, "boxes at or above the IoU bound should survive")
	assert.Equal(t, float32(1), kept[1][0], "an IoU exactly on the bound should be kept")
}

// TestImageValidator checks acceptance counting and pins the empty-label-set
// behavior: no boxes means nothing can be lost, so the patch is valid.
func TestImageValidator(t *testing.T) {
	v := NewImageValidator(ImageValidatorConfig{Criterion: CriterionIoU, MinBoxes: 1, Format: common.DefaultFormat})
	patch := image.Rect(0, 0, 100, 100)

	assert.True(t, v.Validate(patch, nil, Bounds{Lower: 0.9, Upper: 1}),
		"an empty label set should always validate")

	labels := [][]float32{{0, 0, 0, 100, 50}} // IoU 0.5 with the patch
	assert.True(t, v.Validate(patch, labels, Bounds{Lower: 0.4, Upper: 1}), "a satisfying box should validate")
	assert.False(t, v.Validate(patch, labels, Bounds{Lower: 0.6, Upper: 1}), "a too-low IoU should not validate")
	assert.False(t, v.Validate(patch, labels, Bounds{Lower: 0, Upper: 0.4}),
		"an upper bound below the overlap should not validate")

	two := NewImageValidator(ImageValidatorConfig{Criterion: CriterionIoU, MinBoxes: 2, Format: common.DefaultFormat})
	assert.False(t, two.Validate(patch, labels, Unbounded), "one box cannot satisfy a two-box minimum")
	assert.Equal(t, [][]float32{{0, 0, 0, 100, 50}}, labels, "validation should never mutate labels")
}
