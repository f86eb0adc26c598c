// Package sampling provides the two index-generation primitives used by
// bagged ensembles: bootstrap draws with replacement and subsample draws
// without replacement.
package sampling

import (
	"math/rand"

	"github.com/pkg/errors"

	"github.com/fantinsib/arboria"
)

// Bootstrap draws k independent uniform indices from [0, n), with
// replacement.
func Bootstrap(n, k int, rng *rand.Rand) ([]int, error) {
	if n <= 0 {
		return nil, errors.Wrap(arboria.ErrInvalidArgument, "bootstrap: population size must be strictly positive")
	}
	if k <= 0 {
		return nil, errors.Wrap(arboria.ErrInvalidArgument, "bootstrap: number of drawn samples must be strictly positive")
	}

	out := make([]int, k)
	for i := range out {
		out[i] = rng.Intn(n)
	}
	return out, nil
}

// Subsample draws k distinct indices from [0, n) without replacement using
// a Fisher-Yates partial shuffle: at step i a value is picked uniformly
// from [i, n) and swapped into position i; the first k positions are kept.
func Subsample(n, k int, rng *rand.Rand) ([]int, error) {
	if n <= 0 {
		return nil, errors.Wrap(arboria.ErrInvalidArgument, "subsample: population size must be strictly positive")
	}
	if k <= 0 || k > n {
		return nil, errors.Wrap(arboria.ErrInvalidArgument, "subsample: number of drawn samples must be strictly positive and at most the population size")
	}

	vec := make([]int, n)
	for i := range vec {
		vec[i] = i
	}
	for i := 0; i < k; i++ {
		j := i + rng.Intn(n-i)
		vec[i], vec[j] = vec[j], vec[i]
	}
	return vec[:k:k], nil
}
