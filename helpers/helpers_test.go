package helpers

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fantinsib/arboria"
)

func TestCountClasses(t *testing.T) {
	pos, neg, err := CountClasses([]float32{0, 1, 1, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, 3, pos)
	assert.Equal(t, 2, neg)

	pos, neg, err = CountClasses(nil)
	require.NoError(t, err)
	assert.Zero(t, pos)
	assert.Zero(t, neg)

	_, _, err = CountClasses([]float32{0, 0.5, 1})
	assert.True(t, errors.Is(err, arboria.ErrInvalidArgument))
}

func TestCountClassesIndex(t *testing.T) {
	y := []float32{0, 1, 1, 0}

	pos, neg, err := CountClassesIndex([]int{1, 2, 3}, y)
	require.NoError(t, err)
	assert.Equal(t, 2, pos)
	assert.Equal(t, 1, neg)

	_, _, err = CountClassesIndex([]int{4}, y)
	assert.True(t, errors.Is(err, arboria.ErrOutOfRange))

	_, _, err = CountClassesIndex([]int{-1}, y)
	assert.True(t, errors.Is(err, arboria.ErrOutOfRange))

	_, _, err = CountClassesIndex([]int{0}, []float32{2})
	assert.True(t, errors.Is(err, arboria.ErrInvalidArgument))
}

func TestAccuracy(t *testing.T) {
	acc, err := Accuracy([]int{0, 1, 1, 0}, []int{0, 1, 0, 0})
	require.NoError(t, err)
	assert.InDelta(t, 0.75, acc, 1e-9)

	_, err = Accuracy([]int{0}, []int{0, 1})
	assert.True(t, errors.Is(err, arboria.ErrInvalidArgument))

	_, err = Accuracy(nil, nil)
	assert.True(t, errors.Is(err, arboria.ErrInvalidArgument))
}

func TestDeriveSeed(t *testing.T) {
	const master = uint64(12345)

	assert.Equal(t, master, DeriveSeed(master, 0))
	assert.Equal(t, master+0x9E3779B97F4A7C15, DeriveSeed(master, 1))

	// deterministic and distinct per tree index
	seen := make(map[uint64]bool)
	for i := 0; i < 100; i++ {
		s := DeriveSeed(master, i)
		assert.Equal(t, s, DeriveSeed(master, i))
		assert.False(t, seen[s])
		seen[s] = true
	}
}
