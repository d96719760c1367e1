package common

import "github.com/chewxy/math32"

// Box is an axis-aligned rectangle in absolute pixel coordinates. It is the
// unit the overlap predicates below operate on; label rows and sampled patches
// are both converted to it at the call site.
type Box struct {
	XMin, YMin, XMax, YMax float32
}

// BoxFromRow extracts the corner coordinates of a label row.
func BoxFromRow(row []float32, format BoxFormat) Box {
	return Box{
		XMin: row[format.XMin],
		YMin: row[format.YMin],
		XMax: row[format.XMax],
		YMax: row[format.YMax],
	}
}

// Area returns the box area, zero for degenerate boxes.
func (b Box) Area() float32 {
	w := b.XMax - b.XMin
	h := b.YMax - b.YMin
	if w <= 0 || h <= 0 {
		return 0
	}
	return w * h
}

// Intersection calculates the overlapping area between two boxes.
//
// The intersection corners are the maximum of the top-left corners and the
// minimum of the bottom-right corners. A zero or negative extent on either
// axis means the boxes do not overlap at all.
//
// Arguments:
//   - o: The other box.
//
// Returns:
//   - The intersection area, 0.0 when the boxes are disjoint.
func (b Box) Intersection(o Box) float32 {
	iw := math32.Min(b.XMax, o.XMax) - math32.Max(b.XMin, o.XMin)
	ih := math32.Min(b.YMax, o.YMax) - math32.Max(b.YMin, o.YMin)
	if iw <= 0 || ih <= 0 {
		return 0
	}
	return iw * ih
}

// IoU calculates the Intersection over Union between two boxes.
//
// Union area follows the inclusion-exclusion principle:
// Area(A) + Area(B) - Area(A intersect B).
//
// Returns:
//   - A value between 0.0 and 1.0; 0.0 when both boxes are degenerate.
func (b Box) IoU(o Box) float32 {
	inter := b.Intersection(o)
	union := b.Area() + o.Area() - inter
	if union <= 0 {
		return 0
	}
	return inter / union
}

// AreaFraction returns the fraction of this box's area that lies inside the
// other box. Used by the "area" overlap criterion, where a box counts as
// inside a patch once enough of it is covered.
func (b Box) AreaFraction(o Box) float32 {
	area := b.Area()
	if area <= 0 {
		return 0
	}
	return b.Intersection(o) / area
}

// CenterInside reports whether the center point of this box lies inside the
// other box. Both boundaries are inclusive, so a center sitting exactly on the
// patch edge still counts.
func (b Box) CenterInside(o Box) bool {
	cx := (b.XMin + b.XMax) / 2
	cy := (b.YMin + b.YMax) / 2
	return cx >= o.XMin && cx <= o.XMax && cy >= o.YMin && cy <= o.YMax
}
