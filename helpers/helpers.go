// Package helpers holds small shared routines: class counting over label
// vectors and index spans, prediction accuracy, and per-tree seed
// derivation.
package helpers

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"

	"github.com/fantinsib/arboria"
)

// labelEps is the tolerance used when matching float labels against {0,1}.
const labelEps = 1e-6

// CountClasses returns the number of positive (1) and negative (0) labels
// in y. Labels are matched within labelEps; anything else is a non-binary
// label and an error.
func CountClasses(y []float32) (pos, neg int, err error) {
	for _, v := range y {
		switch {
		case math32.Abs(v) < labelEps:
			neg++
		case math32.Abs(v-1) < labelEps:
			pos++
		default:
			return 0, 0, errors.Wrap(arboria.ErrInvalidArgument, "count_classes: non-binary label, not in {0,1}")
		}
	}
	return pos, neg, nil
}

// CountClassesIndex counts positive and negative labels among the rows of y
// referenced by idx.
func CountClassesIndex(idx []int, y []float32) (pos, neg int, err error) {
	for _, i := range idx {
		if i < 0 || i >= len(y) {
			return 0, 0, errors.Wrap(arboria.ErrOutOfRange, "count_classes: referenced index out of bounds for target vector")
		}
		switch {
		case math32.Abs(y[i]) < labelEps:
			neg++
		case math32.Abs(y[i]-1) < labelEps:
			pos++
		default:
			return 0, 0, errors.Wrap(arboria.ErrInvalidArgument, "count_classes: non-binary label, not in {0,1}")
		}
	}
	return pos, neg, nil
}

// Accuracy returns the fraction of positions where a and b agree.
func Accuracy(a, b []int) (float64, error) {
	if len(a) != len(b) {
		return 0, errors.Wrap(arboria.ErrInvalidArgument, "accuracy: passed arguments have different length")
	}
	if len(a) == 0 {
		return 0, errors.Wrap(arboria.ErrInvalidArgument, "accuracy: passed arguments are empty")
	}
	equal := 0
	for i := range a {
		if a[i] == b[i] {
			equal++
		}
	}
	return float64(equal) / float64(len(a)), nil
}

// DeriveSeed maps a master seed and a tree index to a per-tree seed. The
// golden-ratio multiply-add is enough to decorrelate the per-tree streams
// while keeping forest training bitwise reproducible from the master seed.
func DeriveSeed(master uint64, i int) uint64 {
	return master + 0x9E3779B97F4A7C15*uint64(i)
}
