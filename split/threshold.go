package split

import (
	"github.com/pkg/errors"

	"github.com/fantinsib/arboria"
	"github.com/fantinsib/arboria/dataset"
)

// CartThresholds generates the candidate thresholds for one feature: the
// midpoint between each pair of consecutive distinct values, in ascending
// order. The indices in sortedIdx must already be sorted ascending by the
// feature's value; duplicate values are skipped, so the output may be empty
// when every value is equal.
func CartThresholds(sortedIdx []int, col int, data *dataset.DataSet) ([]float32, error) {
	if data.IsEmpty() {
		return nil, errors.Wrap(arboria.ErrInvalidArgument, "cart_threshold: dataset is empty")
	}
	if col < 0 || col >= data.NCols() {
		return nil, errors.Wrap(arboria.ErrInvalidArgument, "cart_threshold: no such column in the dataset")
	}
	if len(sortedIdx) < 2 {
		return nil, errors.Wrap(arboria.ErrInvalidArgument, "cart_threshold: the index span must reference at least two values")
	}

	xs := data.X()
	nCols := data.NCols()

	out := make([]float32, 0, len(sortedIdx)-1)
	for i := 0; i < len(sortedIdx)-1; i++ {
		a := xs[sortedIdx[i]*nCols+col]
		b := xs[sortedIdx[i+1]*nCols+col]
		if a == b {
			continue
		}
		out = append(out, (a+b)/2)
	}
	return out, nil
}
