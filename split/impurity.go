package split

import (
	"math"

	"github.com/pkg/errors"

	"github.com/fantinsib/arboria"
	"github.com/fantinsib/arboria/helpers"
)

// propEps is the tolerance accepted when checking that two proportions sum
// to one.
const propEps = 1e-6

// GiniProportions returns the Gini impurity 1 - p1² - p2² of a two-class
// node described by its class proportions.
func GiniProportions(p1, p2 float64) (float64, error) {
	if p1 < 0 || p2 < 0 || p1 > 1 || p2 > 1 {
		return 0, errors.Wrap(arboria.ErrInvalidArgument, "gini: proportions must be in [0,1]")
	}
	if math.Abs(p1+p2-1) > propEps {
		return 0, errors.Wrap(arboria.ErrInvalidArgument, "gini: sum of proportions does not add up to one")
	}
	return 1 - p1*p1 - p2*p2, nil
}

// GiniCounts computes Gini impurity from class counts.
func GiniCounts(n1, n2 int) (float64, error) {
	if n1 < 0 || n2 < 0 {
		return 0, errors.Wrap(arboria.ErrInvalidArgument, "gini: counts must be non-negative")
	}
	total := float64(n1 + n2)
	if total == 0 {
		return 0, errors.Wrap(arboria.ErrInvalidArgument, "gini: empty node")
	}
	return GiniProportions(float64(n1)/total, float64(n2)/total)
}

// GiniLabels computes Gini impurity from a vector of binary labels.
func GiniLabels(y []float32) (float64, error) {
	if len(y) == 0 {
		return 0, errors.Wrap(arboria.ErrInvalidArgument, "gini: the passed vector is empty")
	}
	pos, neg, err := helpers.CountClasses(y)
	if err != nil {
		return 0, err
	}
	return GiniCounts(pos, neg)
}

// GiniIndex computes Gini impurity over the rows of y referenced by idx.
func GiniIndex(idx []int, y []float32) (float64, error) {
	if len(idx) == 0 {
		return 0, errors.Wrap(arboria.ErrInvalidArgument, "gini: the passed index span is empty")
	}
	pos, neg, err := helpers.CountClassesIndex(idx, y)
	if err != nil {
		return 0, err
	}
	return GiniCounts(pos, neg)
}

// EntropyProportions returns the Shannon entropy -Σ pᵢ log₂ pᵢ of a
// two-class node, with the convention 0·log₂0 = 0.
func EntropyProportions(p1, p2 float64) (float64, error) {
	if p1 < 0 || p2 < 0 || p1 > 1 || p2 > 1 {
		return 0, errors.Wrap(arboria.ErrInvalidArgument, "entropy: proportions must be in [0,1]")
	}
	if math.Abs(p1+p2-1) > propEps {
		return 0, errors.Wrap(arboria.ErrInvalidArgument, "entropy: sum of proportions does not add up to one")
	}

	h := 0.0
	if p1 > 0 {
		h -= p1 * math.Log2(p1)
	}
	if p2 > 0 {
		h -= p2 * math.Log2(p2)
	}
	return h, nil
}

// EntropyCounts computes Shannon entropy from class counts.
func EntropyCounts(n1, n2 int) (float64, error) {
	if n1 < 0 || n2 < 0 {
		return 0, errors.Wrap(arboria.ErrInvalidArgument, "entropy: counts must be non-negative")
	}
	total := float64(n1 + n2)
	if total == 0 {
		return 0, errors.Wrap(arboria.ErrInvalidArgument, "entropy: empty node")
	}
	return EntropyProportions(float64(n1)/total, float64(n2)/total)
}

// EntropyLabels computes Shannon entropy from a vector of binary labels.
func EntropyLabels(y []float32) (float64, error) {
	if len(y) == 0 {
		return 0, errors.Wrap(arboria.ErrInvalidArgument, "entropy: the passed vector is empty")
	}
	pos, neg, err := helpers.CountClasses(y)
	if err != nil {
		return 0, err
	}
	return EntropyCounts(pos, neg)
}

// EntropyIndex computes Shannon entropy over the rows of y referenced by
// idx.
func EntropyIndex(idx []int, y []float32) (float64, error) {
	if len(idx) == 0 {
		return 0, errors.Wrap(arboria.ErrInvalidArgument, "entropy: the passed index span is empty")
	}
	pos, neg, err := helpers.CountClassesIndex(idx, y)
	if err != nil {
		return 0, err
	}
	return EntropyCounts(pos, neg)
}

// Impurity scores a single node's class counts under the given criterion.
func Impurity(c Criterion, pos, neg int) (float64, error) {
	switch c.(type) {
	case Gini:
		return GiniCounts(pos, neg)
	case Entropy:
		return EntropyCounts(pos, neg)
	}
	return 0, errors.Wrap(arboria.ErrLogic, "impurity: no scoring criterion was passed")
}

// WeightedImpurity scores a candidate split as the sample-weighted sum of
// the child impurities. An empty side contributes zero.
func WeightedImpurity(c Criterion, s Stats) (float64, error) {
	if s.LPos < 0 || s.LNeg < 0 || s.RPos < 0 || s.RNeg < 0 {
		return 0, errors.Wrap(arboria.ErrInvalidArgument, "weighted_impurity: counts must be non-negative")
	}

	lSize := float64(s.LPos + s.LNeg)
	rSize := float64(s.RPos + s.RNeg)
	total := lSize + rSize
	if total == 0 {
		return 0, errors.Wrap(arboria.ErrInvalidArgument, "weighted_impurity: no values were passed")
	}

	var left, right float64
	var err error
	if lSize > 0 {
		if left, err = Impurity(c, s.LPos, s.LNeg); err != nil {
			return 0, err
		}
	}
	if rSize > 0 {
		if right, err = Impurity(c, s.RPos, s.RNeg); err != nil {
			return 0, err
		}
	}

	return (lSize/total)*left + (rSize/total)*right, nil
}
