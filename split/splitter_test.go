package split

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fantinsib/arboria"
	"github.com/fantinsib/arboria/dataset"
)

func classifParams(c Criterion) Params {
	return Params{
		Task:      Classification{},
		Criterion: c,
		Threshold: CART{},
		Features:  AllFeatures{},
	}
}

func identityIdx(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

func TestBestSplitPerfectlySeparable(t *testing.T) {
	// separable on feature 1 at 5.0
	d, err := dataset.New([]float32{
		1, 2, 12,
		2, 9, 6,
		1, 8, 12,
		0.5, 1, 6,
	}, []float32{0, 1, 1, 0}, 4, 3)
	require.NoError(t, err)

	res, err := BestSplit(identityIdx(4), d, classifParams(Gini{}), nil)
	require.NoError(t, err)

	assert.True(t, res.HasSplit())
	assert.Equal(t, 1, res.Feature)
	assert.Equal(t, float32(5.0), res.Threshold)
	assert.Zero(t, res.Score)
}

func TestBestSplitImperfectGini(t *testing.T) {
	d, err := dataset.New([]float32{
		1, 2, 11,
		1, 2, 11.1,
		1, 2, 10.9,
		1, 2, 6,
	}, []float32{1, 0, 1, 0}, 4, 3)
	require.NoError(t, err)

	res, err := BestSplit(identityIdx(4), d, classifParams(Gini{}), nil)
	require.NoError(t, err)

	assert.True(t, res.HasSplit())
	assert.Equal(t, 2, res.Feature)
	assert.InDelta(t, 1.0/3.0, res.Score, 1e-6)
}

func TestBestSplitImperfectEntropy(t *testing.T) {
	d, err := dataset.New([]float32{
		1, 2, 11,
		1, 2, 11.1,
		1, 2, 10.9,
		1, 2, 6,
	}, []float32{1, 0, 1, 0}, 4, 3)
	require.NoError(t, err)

	res, err := BestSplit(identityIdx(4), d, classifParams(Entropy{}), nil)
	require.NoError(t, err)

	assert.True(t, res.HasSplit())
	assert.Equal(t, 2, res.Feature)
	assert.InDelta(t, 0.6887, res.Score, 1e-3)
}

func TestBestSplitConstantFeatures(t *testing.T) {
	d, err := dataset.New([]float32{
		3, 3, 3,
		3, 3, 3,
		3, 3, 3,
		3, 3, 3,
	}, []float32{0, 1, 1, 0}, 4, 3)
	require.NoError(t, err)

	res, err := BestSplit(identityIdx(4), d, classifParams(Gini{}), nil)
	require.NoError(t, err)
	assert.False(t, res.HasSplit())
}

func TestBestSplitSingleSample(t *testing.T) {
	d, err := dataset.New([]float32{1, 2}, []float32{1}, 1, 2)
	require.NoError(t, err)

	// a single sample is a legal, non-erroneous no-split outcome
	res, err := BestSplit([]int{0}, d, classifParams(Gini{}), nil)
	require.NoError(t, err)
	assert.False(t, res.HasSplit())
}

func TestBestSplitPreconditions(t *testing.T) {
	empty, err := dataset.New(nil, nil, 0, 0)
	require.NoError(t, err)
	_, err = BestSplit([]int{0}, empty, classifParams(Gini{}), nil)
	assert.True(t, errors.Is(err, arboria.ErrInvalidArgument))

	d, err := dataset.New([]float32{1, 2}, []float32{0, 1}, 2, 1)
	require.NoError(t, err)

	_, err = BestSplit(nil, d, classifParams(Gini{}), nil)
	assert.True(t, errors.Is(err, arboria.ErrInvalidArgument))

	// RandomK without a context is a caller error
	p := classifParams(Gini{})
	p.Features = RandomK{Mtry: 1}
	_, err = BestSplit(identityIdx(2), d, p, nil)
	assert.True(t, errors.Is(err, arboria.ErrInvalidArgument))
}

func TestBestSplitRandomKDeterministic(t *testing.T) {
	d, err := dataset.New([]float32{
		1, 10, 5,
		2, 20, 5,
		3, 30, 5,
		4, 40, 5,
	}, []float32{0, 0, 1, 1}, 4, 3)
	require.NoError(t, err)

	p := classifParams(Gini{})
	p.Features = RandomK{Mtry: 2}

	a, err := BestSplit(identityIdx(4), d, p, NewContext(11))
	require.NoError(t, err)
	b, err := BestSplit(identityIdx(4), d, p, NewContext(11))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestBestSplitPerfectScoreShortCircuits(t *testing.T) {
	// the very first candidate on feature 0 already separates the classes
	d, err := dataset.New([]float32{1, 2, 3}, []float32{0, 1, 1}, 3, 1)
	require.NoError(t, err)

	res, err := BestSplit(identityIdx(3), d, classifParams(Gini{}), nil)
	require.NoError(t, err)

	assert.True(t, res.HasSplit())
	assert.Equal(t, 0, res.Feature)
	assert.Equal(t, float32(1.5), res.Threshold)
	assert.Zero(t, res.Score)
}

func TestBestSplitKeepsFirstSeenOnTie(t *testing.T) {
	// features 0 and 1 are identical, so they tie on every candidate; the
	// first-visited feature must win under strict improvement
	d, err := dataset.New([]float32{
		1, 1,
		2, 2,
		3, 3,
		4, 4,
	}, []float32{0, 0, 1, 0}, 4, 2)
	require.NoError(t, err)

	res, err := BestSplit(identityIdx(4), d, classifParams(Gini{}), nil)
	require.NoError(t, err)
	assert.True(t, res.HasSplit())
	assert.Equal(t, 0, res.Feature)
}
