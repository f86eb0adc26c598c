package split

import (
	"sort"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"

	"github.com/fantinsib/arboria"
	"github.com/fantinsib/arboria/dataset"
	"github.com/fantinsib/arboria/helpers"
)

// BestSplit searches the best split for the samples referenced by idx.
//
// For each candidate feature the rows are sorted by value once and swept
// left to right: every threshold moves the samples strictly below it from
// the right counts to the left counts, so each candidate is scored from
// incremental class counts rather than a full recount. A sample whose value
// equals the threshold stays on the right, matching the strict less-than
// routing used at predict time.
//
// With one sample or no distinct values there is nothing to split and the
// NoSplit sentinel is returned; that is a legal outcome, not an error. A
// perfect split (score 0) short-circuits the search.
func BestSplit(idx []int, data *dataset.DataSet, params Params, ctx *Context) (Result, error) {
	if data.IsEmpty() {
		return NoSplit(), errors.Wrap(arboria.ErrInvalidArgument, "best_split: dataset is empty")
	}
	if len(idx) == 0 {
		return NoSplit(), errors.Wrap(arboria.ErrInvalidArgument, "best_split: index span is empty")
	}
	if len(idx) <= 1 {
		return NoSplit(), nil
	}

	features, err := selectFeatures(params.Features, data.NCols(), ctx)
	if err != nil {
		return NoSplit(), err
	}

	pos, neg, err := helpers.CountClassesIndex(idx, data.Y())
	if err != nil {
		return NoSplit(), err
	}

	xs := data.X()
	ys := data.Y()
	nCols := data.NCols()
	best := NoSplit()

	sortedIdx := make([]int, len(idx))
	for _, col := range features {
		copy(sortedIdx, idx)
		sort.Slice(sortedIdx, func(i, j int) bool {
			return xs[sortedIdx[i]*nCols+col] < xs[sortedIdx[j]*nCols+col]
		})

		var thresholds []float32
		switch params.Threshold.(type) {
		case CART:
			thresholds, err = CartThresholds(sortedIdx, col, data)
			if err != nil {
				return NoSplit(), err
			}
		default:
			return NoSplit(), errors.Wrap(arboria.ErrLogic, "best_split: no threshold rule was passed")
		}

		// all samples start on the right; the cursor p moves them left as
		// the thresholds grow
		lPos, lNeg := 0, 0
		rPos, rNeg := pos, neg
		p := 0

		for _, t := range thresholds {
			for p < len(sortedIdx) && xs[sortedIdx[p]*nCols+col] < t {
				if math32.Abs(ys[sortedIdx[p]]-1) < 1e-6 {
					lPos++
					rPos--
				} else {
					lNeg++
					rNeg--
				}
				p++
			}

			if lPos+lNeg == 0 || rPos+rNeg == 0 {
				continue
			}

			score, err := WeightedImpurity(params.Criterion, Stats{LPos: lPos, LNeg: lNeg, RPos: rPos, RNeg: rNeg})
			if err != nil {
				return NoSplit(), err
			}

			if score < best.Score {
				best = Result{Feature: col, Threshold: t, Score: score}
				if score == 0 {
					return best, nil
				}
			}
		}
	}

	return best, nil
}
