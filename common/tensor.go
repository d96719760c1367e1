package common

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

// LabelsToTensor packs a label set into a dense (numBoxes, rowLen) float32
// tensor for consumption by a training pipeline. The rows must all have the
// same length.
//
// Arguments:
//   - labels: The label rows to pack.
//
// Returns:
//   - A row-major *tensor.Dense backed by a fresh copy of the data.
//   - error if the rows are ragged or empty of columns.
func LabelsToTensor(labels [][]float32) (*tensor.Dense, error) {
	if len(labels) == 0 {
		// DefaultFormat row width; an empty set carries no format of its own.
		return tensor.New(tensor.WithShape(0, 5), tensor.Of(tensor.Float32)), nil
	}
	cols := len(labels[0])
	if cols == 0 {
		return nil, errors.New("label rows have no columns")
	}
	backing := make([]float32, 0, len(labels)*cols)
	for i, row := range labels {
		if len(row) != cols {
			return nil, errors.Errorf("ragged label set: row %d has %d columns, expected %d", i, len(row), cols)
		}
		backing = append(backing, row...)
	}
	return tensor.New(tensor.WithShape(len(labels), cols), tensor.WithBacking(backing)), nil
}
