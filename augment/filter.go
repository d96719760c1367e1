package augment

import (
	"image"

	"github.com/CZhihao/ssd-keras/common"
)

// OverlapCriterion selects how a box's overlap with a patch is measured.
type OverlapCriterion int

const (
	// CriterionCenterPoint counts a box as inside a patch when the box center
	// lies within the patch, boundaries included.
	CriterionCenterPoint OverlapCriterion = iota
	// CriterionIoU measures intersection over union between box and patch.
	CriterionIoU
	// CriterionArea measures the fraction of the box area covered by the patch.
	CriterionArea
)

func patchBox(patch image.Rectangle) common.Box {
	return common.Box{
		XMin: float32(patch.Min.X),
		YMin: float32(patch.Min.Y),
		XMax: float32(patch.Max.X),
		YMax: float32(patch.Max.Y),
	}
}

func overlapSatisfied(box, patch common.Box, criterion OverlapCriterion, bounds Bounds) bool {
	switch criterion {
	case CriterionCenterPoint:
		return box.CenterInside(patch)
	case CriterionArea:
		return bounds.Contains(box.AreaFraction(patch))
	default:
		return bounds.Contains(box.IoU(patch))
	}
}

// BoxFilterConfig parameterizes box filtering against a sampled patch.
type BoxFilterConfig struct {
	Criterion OverlapCriterion
	// Bounds constrains the overlap value for the iou and area criteria.
	// Ignored by the center-point criterion. Zero value means unconstrained.
	Bounds Bounds
	// ClipBoxes clips surviving boxes to the patch boundary and re-expresses
	// them in the patch's own coordinate frame. When false, coordinates stay
	// in the original image frame and the caller performs any re-origin.
	ClipBoxes bool
	Format    common.BoxFormat
}

// BoxFilter decides which boxes survive a patch. Survivors keep their
// relative order; filtering removes rows, never reorders them.
type BoxFilter struct {
	cfg BoxFilterConfig
}

// NewBoxFilter validates the overlap bounds.
func NewBoxFilter(cfg BoxFilterConfig) (*BoxFilter, error) {
	if cfg.Bounds == (Bounds{}) {
		cfg.Bounds = Unbounded
	}
	if err := cfg.Bounds.validate(); err != nil {
		return nil, err
	}
	return &BoxFilter{cfg: cfg}, nil
}

// Clips reports whether surviving boxes are already re-expressed in the patch
// frame, so callers know not to translate them a second time.
func (f *BoxFilter) Clips() bool {
	return f.cfg.ClipBoxes
}

// Filter returns copies of the label rows that satisfy the overlap criterion
// against the patch. The input rows are never modified.
func (f *BoxFilter) Filter(patch image.Rectangle, labels [][]float32) [][]float32 {
	p := patchBox(patch)
	format := f.cfg.Format
	kept := make([][]float32, 0, len(labels))
	for _, row := range labels {
		if !overlapSatisfied(common.BoxFromRow(row, format), p, f.cfg.Criterion, f.cfg.Bounds) {
			continue
		}
		out := make([]float32, len(row))
		copy(out, row)
		kept = append(kept, out)
	}
	if f.cfg.ClipBoxes {
		common.ClipBoxesTo(kept, p.XMin, p.YMin, p.XMax, p.YMax, format)
		common.TranslateBoxes(kept, -p.XMin, -p.YMin, format)
	}
	return kept
}

// ImageValidatorConfig parameterizes patch acceptance.
type ImageValidatorConfig struct {
	Criterion OverlapCriterion
	// MinBoxes is the number of boxes that must satisfy the overlap
	// requirement for a patch to be accepted. Zero defaults to 1.
	MinBoxes int
	Format   common.BoxFormat
}

// ImageValidator decides whether a sampled patch is acceptable for a given
// label set. It never modifies labels.
type ImageValidator struct {
	cfg ImageValidatorConfig
}

// NewImageValidator applies the MinBoxes default.
func NewImageValidator(cfg ImageValidatorConfig) *ImageValidator {
	if cfg.MinBoxes <= 0 {
		cfg.MinBoxes = 1
	}
	return &ImageValidator{cfg: cfg}
}

// Validate accepts the patch when at least MinBoxes boxes have an overlap
// within bounds. An empty label set is always accepted: there are no boxes to
// lose, so rejecting would only make the sampler spin until its retry caps.
func (v *ImageValidator) Validate(patch image.Rectangle, labels [][]float32, bounds Bounds) bool {
	if len(labels) == 0 {
		return true
	}
	p := patchBox(patch)
	count := 0
	for _, row := range labels {
		if overlapSatisfied(common.BoxFromRow(row, v.cfg.Format), p, v.cfg.Criterion, bounds) {
			count++
			if count >= v.cfg.MinBoxes {
				return true
			}
		}
	}
	return false
}
