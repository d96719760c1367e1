// Package common - ground truth label utilities shared by the augmentation stages.
package common

// BoxFormat maps the semantic fields of a ground truth box to the columns of a
// label row. All label operations take the format explicitly so datasets with
// different column orders can reuse them.
type BoxFormat struct {
	Class int
	XMin  int
	YMin  int
	XMax  int
	YMax  int
}

// DefaultFormat is the (class_id, xmin, ymin, xmax, ymax) column order used
// throughout this package unless a caller states otherwise.
var DefaultFormat = BoxFormat{Class: 0, XMin: 1, YMin: 2, XMax: 3, YMax: 4}

// CopyLabels deep-copies a label set so a stage can rewrite coordinates without
// the change being visible to earlier stages.
func CopyLabels(labels [][]float32) [][]float32 {
	if labels == nil {
		return nil
	}
	out := make([][]float32, len(labels))
	for i, row := range labels {
		out[i] = make([]float32, len(row))
		copy(out[i], row)
	}
	return out
}

// TranslateBoxes shifts all box coordinates by (dx, dy) in place.
//
// Arguments:
//   - labels: The label rows to shift.
//   - dx: Horizontal shift in pixels.
//   - dy: Vertical shift in pixels.
//   - format: The column mapping of the label rows.
func TranslateBoxes(labels [][]float32, dx, dy float32, format BoxFormat) {
	for _, row := range labels {
		row[format.XMin] += dx
		row[format.XMax] += dx
		row[format.YMin] += dy
		row[format.YMax] += dy
	}
}

// ScaleBoxes multiplies all box coordinates by (sx, sy) in place. Used by the
// resize stage to keep boxes aligned with the rescaled pixels.
func ScaleBoxes(labels [][]float32, sx, sy float32, format BoxFormat) {
	for _, row := range labels {
		row[format.XMin] *= sx
		row[format.XMax] *= sx
		row[format.YMin] *= sy
		row[format.YMax] *= sy
	}
}

// FlipBoxesHorizontal reflects all boxes across the vertical center line of an
// image of the given width, in place. The xmin/xmax roles swap so the invariant
// xmin <= xmax still holds afterwards.
func FlipBoxesHorizontal(labels [][]float32, width float32, format BoxFormat) {
	for _, row := range labels {
		xmin, xmax := row[format.XMin], row[format.XMax]
		row[format.XMin] = width - xmax
		row[format.XMax] = width - xmin
	}
}

// FlipBoxesVertical reflects all boxes across the horizontal center line of an
// image of the given height, in place.
func FlipBoxesVertical(labels [][]float32, height float32, format BoxFormat) {
	for _, row := range labels {
		ymin, ymax := row[format.YMin], row[format.YMax]
		row[format.YMin] = height - ymax
		row[format.YMax] = height - ymin
	}
}

// ClipBoxesTo clamps all box coordinates to the rectangle
// [xmin, xmax] x [ymin, ymax], in place.
func ClipBoxesTo(labels [][]float32, xmin, ymin, xmax, ymax float32, format BoxFormat) {
	for _, row := range labels {
		row[format.XMin] = clamp(row[format.XMin], xmin, xmax)
		row[format.XMax] = clamp(row[format.XMax], xmin, xmax)
		row[format.YMin] = clamp(row[format.YMin], ymin, ymax)
		row[format.YMax] = clamp(row[format.YMax], ymin, ymax)
	}
}

// ValidBoxes returns the rows whose corners are properly ordered
// (xmin <= xmax and ymin <= ymax). Row order is preserved.
func ValidBoxes(labels [][]float32, format BoxFormat) [][]float32 {
	out := make([][]float32, 0, len(labels))
	for _, row := range labels {
		if row[format.XMin] <= row[format.XMax] && row[format.YMin] <= row[format.YMax] {
			out = append(out, row)
		}
	}
	return out
}

// CornerToCenter rewrites rows from (xmin, ymin, xmax, ymax) corner coordinates
// to (cx, cy, w, h) center-size coordinates, reusing the same columns in the
// order (XMin->cx, YMin->cy, XMax->w, YMax->h). In place.
func CornerToCenter(labels [][]float32, format BoxFormat) {
	for _, row := range labels {
		xmin, ymin := row[format.XMin], row[format.YMin]
		xmax, ymax := row[format.XMax], row[format.YMax]
		row[format.XMin] = (xmin + xmax) / 2
		row[format.YMin] = (ymin + ymax) / 2
		row[format.XMax] = xmax - xmin
		row[format.YMax] = ymax - ymin
	}
}

// CenterToCorner is the inverse of CornerToCenter.
func CenterToCorner(labels [][]float32, format BoxFormat) {
	for _, row := range labels {
		cx, cy := row[format.XMin], row[format.YMin]
		w, h := row[format.XMax], row[format.YMax]
		row[format.XMin] = cx - w/2
		row[format.YMin] = cy - h/2
		row[format.XMax] = cx + w/2
		row[format.YMax] = cy + h/2
	}
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
