package replay

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func example(v float64) Example {
	return Example{Board: []float64{v}, Policy: []float64{1}, Value: v}
}

func TestFIFOEviction(t *testing.T) {
	b := NewBuffer(3)
	for _, v := range []float64{1, 2, 3, 4} {
		b.Append(example(v))
	}

	got := b.Snapshot()
	require.Len(t, got, 3)
	assert.Equal(t, []Example{example(2), example(3), example(4)}, got)
}

func TestFIFOEvictionPastCapacity(t *testing.T) {
	const capacity, appended = 5, 12
	b := NewBuffer(capacity)
	for i := 0; i < appended; i++ {
		b.Append(example(float64(i)))
	}

	assert.Equal(t, capacity, b.Len())
	for i, ex := range b.Snapshot() {
		assert.Equal(t, float64(appended-capacity+i), ex.Value, "relative order must survive eviction")
	}
}

func TestBulkAppendLargerThanCapacity(t *testing.T) {
	b := NewBuffer(2)
	b.Append(example(1), example(2), example(3), example(4))

	assert.Equal(t, []Example{example(3), example(4)}, b.Snapshot())
}

func TestSampleEmptyBufferFails(t *testing.T) {
	b := NewBuffer(10)
	_, err := b.Sample(rand.New(rand.NewSource(1)), 4)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestSampleWithReplacement(t *testing.T) {
	b := NewBuffer(10)
	b.Append(example(7))

	batch, err := b.Sample(rand.New(rand.NewSource(1)), 5)
	require.NoError(t, err)
	require.Len(t, batch, 5)
	for _, ex := range batch {
		assert.Equal(t, 7.0, ex.Value)
	}
}

func TestSampleIsSeedReproducible(t *testing.T) {
	b := NewBuffer(100)
	for i := 0; i < 50; i++ {
		b.Append(example(float64(i)))
	}

	first, err := b.Sample(rand.New(rand.NewSource(42)), 16)
	require.NoError(t, err)
	second, err := b.Sample(rand.New(rand.NewSource(42)), 16)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
