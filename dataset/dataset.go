// Package dataset provides the immutable data view shared by trees and
// forests: a row-major float32 feature matrix paired with a binary label
// vector.
package dataset

import (
	"github.com/pkg/errors"

	"github.com/fantinsib/arboria"
)

// DataSet owns a flattened feature matrix X of shape (nRows, nCols) in
// row-major order and a label vector y of length nRows. Labels are float32
// but semantically binary in {0,1}. A DataSet is immutable after
// construction; the slices returned by X and Y must not be modified.
type DataSet struct {
	x     []float32
	y     []float32
	nRows int
	nCols int
}

// New builds a DataSet from a flattened feature buffer and a label vector.
// The element at (row, col) is x[col + row*nCols].
func New(x, y []float32, nRows, nCols int) (*DataSet, error) {
	if nRows < 0 || nCols < 0 {
		return nil, errors.Wrap(arboria.ErrInvalidArgument, "dataset: n_rows and n_cols must be non-negative")
	}
	if nRows*nCols != len(x) {
		return nil, errors.Wrap(arboria.ErrInvalidArgument, "dataset: n_rows and n_cols do not match the number of samples")
	}
	if nRows != len(y) {
		return nil, errors.Wrap(arboria.ErrInvalidArgument, "dataset: the size of y does not match the number of samples")
	}
	return &DataSet{x: x, y: y, nRows: nRows, nCols: nCols}, nil
}

// NRows returns the number of samples.
func (d *DataSet) NRows() int { return d.nRows }

// NCols returns the number of features per sample.
func (d *DataSet) NCols() int { return d.nCols }

// X returns the flattened feature matrix. The slice is shared, not copied.
func (d *DataSet) X() []float32 { return d.x }

// Y returns the label vector. The slice is shared, not copied.
func (d *DataSet) Y() []float32 { return d.y }

// IsEmpty reports whether the DataSet holds no samples.
func (d *DataSet) IsEmpty() bool { return d.nRows == 0 }

// At returns the value of feature col for sample row.
func (d *DataSet) At(row, col int) (float32, error) {
	if row < 0 || row >= d.nRows || col < 0 || col >= d.nCols {
		return 0, errors.Wrap(arboria.ErrOutOfRange, "dataset: At index out of bounds")
	}
	return d.x[col+row*d.nCols], nil
}

// Label returns the class label of sample row.
func (d *DataSet) Label(row int) (float32, error) {
	if row < 0 || row >= d.nRows {
		return 0, errors.Wrap(arboria.ErrOutOfRange, "dataset: Label index out of bounds")
	}
	return d.y[row], nil
}

// Subset returns a new DataSet holding copies of the requested rows, in the
// order given by idx. Row indices may repeat.
func (d *DataSet) Subset(idx []int) (*DataSet, error) {
	x := make([]float32, 0, len(idx)*d.nCols)
	y := make([]float32, 0, len(idx))

	for _, i := range idx {
		if i < 0 || i >= d.nRows {
			return nil, errors.Wrap(arboria.ErrOutOfRange, "dataset: Subset row index out of bounds")
		}
		x = append(x, d.x[i*d.nCols:(i+1)*d.nCols]...)
		y = append(y, d.y[i])
	}

	return New(x, y, len(idx), d.nCols)
}
