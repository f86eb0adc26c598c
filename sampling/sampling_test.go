package sampling

import (
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fantinsib/arboria"
)

func TestBootstrap(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	idx, err := Bootstrap(10, 25, rng)
	require.NoError(t, err)
	assert.Len(t, idx, 25)
	for _, i := range idx {
		assert.GreaterOrEqual(t, i, 0)
		assert.Less(t, i, 10)
	}
}

func TestBootstrapRejectsEmpty(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	_, err := Bootstrap(0, 5, rng)
	assert.True(t, errors.Is(err, arboria.ErrInvalidArgument))

	_, err = Bootstrap(5, 0, rng)
	assert.True(t, errors.Is(err, arboria.ErrInvalidArgument))
}

func TestBootstrapDeterministic(t *testing.T) {
	a, err := Bootstrap(100, 50, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	b, err := Bootstrap(100, 50, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestSubsample(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	idx, err := Subsample(10, 6, rng)
	require.NoError(t, err)
	assert.Len(t, idx, 6)

	seen := make(map[int]bool)
	for _, i := range idx {
		assert.GreaterOrEqual(t, i, 0)
		assert.Less(t, i, 10)
		assert.False(t, seen[i], "subsample must not repeat indices")
		seen[i] = true
	}
}

func TestSubsampleFullPopulation(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	idx, err := Subsample(5, 5, rng)
	require.NoError(t, err)
	assert.Len(t, idx, 5)

	seen := make(map[int]bool)
	for _, i := range idx {
		seen[i] = true
	}
	assert.Len(t, seen, 5)
}

func TestSubsampleRejectsBadSizes(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	_, err := Subsample(0, 1, rng)
	assert.True(t, errors.Is(err, arboria.ErrInvalidArgument))

	_, err = Subsample(5, 0, rng)
	assert.True(t, errors.Is(err, arboria.ErrInvalidArgument))

	_, err = Subsample(5, 6, rng)
	assert.True(t, errors.Is(err, arboria.ErrInvalidArgument))
}
