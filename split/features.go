package split

import (
	"math/rand"

	"github.com/pkg/errors"

	"github.com/fantinsib/arboria"
)

// SelectK returns mtry distinct feature indices drawn uniformly without
// replacement from pool, using a Fisher-Yates partial shuffle over a local
// copy: Algorithm P, Knuth, The Art of Computer Programming Vol. 2, p. 145.
// The pool itself is never modified.
func SelectK(pool []int, mtry int, rng *rand.Rand) ([]int, error) {
	if len(pool) == 0 || len(pool) < mtry {
		return nil, errors.Wrap(arboria.ErrInvalidArgument, "random_k: the number of passed features is invalid")
	}
	if mtry <= 0 {
		return nil, errors.Wrap(arboria.ErrInvalidArgument, "random_k: mtry must be strictly positive")
	}

	vec := make([]int, len(pool))
	copy(vec, pool)
	for i := 0; i < mtry; i++ {
		j := i + rng.Intn(len(vec)-i)
		vec[i], vec[j] = vec[j], vec[i]
	}
	return vec[:mtry:mtry], nil
}

// identity returns the identity permutation over [0, n).
func identity(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// selectFeatures materializes the candidate feature list for one split
// according to the policy's feature-selection variant.
func selectFeatures(fs FeatureSelection, nCols int, ctx *Context) ([]int, error) {
	switch f := fs.(type) {
	case AllFeatures:
		return identity(nCols), nil

	case RandomK:
		if ctx == nil {
			return nil, errors.Wrap(arboria.ErrInvalidArgument, "best_split: RandomK feature selection requires a context")
		}
		if f.Mtry < 1 || f.Mtry > nCols {
			return nil, errors.Wrap(arboria.ErrInvalidArgument, "best_split: mtry must be in [1, n_cols]")
		}
		return SelectK(identity(nCols), f.Mtry, ctx.Rng)
	}

	return nil, errors.Wrap(arboria.ErrLogic, "best_split: no feature-selection strategy was passed")
}
