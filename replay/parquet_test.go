package replay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShardRoundTrip(t *testing.T) {
	dir := t.TempDir()

	examples := []Example{
		{Board: []float64{0, 1, -1, 0}, Policy: []float64{0.5, 0, 0, 0.5}, Value: 1},
		{Board: []float64{1, -1, 0, 0}, Policy: []float64{0, 0.25, 0.25, 0.5}, Value: -1},
		{Board: []float64{0, 0, 0, 0}, Policy: []float64{0.25, 0.25, 0.25, 0.25}, Value: 0},
	}

	path, err := WriteShard(dir, 3, examples)
	require.NoError(t, err)
	assert.FileExists(t, path)

	loaded, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, loaded, len(examples))
	for i := range examples {
		assert.InDeltaSlice(t, examples[i].Board, loaded[i].Board, 1e-6)
		assert.InDeltaSlice(t, examples[i].Policy, loaded[i].Policy, 1e-6)
		assert.InDelta(t, examples[i].Value, loaded[i].Value, 1e-6)
	}
}

func TestLoadDirMissingIsEmpty(t *testing.T) {
	loaded, err := LoadDir(t.TempDir() + "/nope")
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
