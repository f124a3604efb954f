package train

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 400, cfg.NumMCTSSims)
	assert.Equal(t, 200000, cfg.MaxQueueLen)
	assert.Equal(t, 0.55, cfg.Threshold)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("board_size: 15\nnum_mcts_sims: 25\nmax_lr: 0.1\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 15, cfg.BoardSize)
	assert.Equal(t, 25, cfg.NumMCTSSims)
	assert.Equal(t, 0.1, cfg.MaxLR)
	// Untouched keys keep their defaults.
	assert.Equal(t, Default().NumEps, cfg.NumEps)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("board_size: 3\n"), 0o644))
	_, err := Load(bad)
	assert.Error(t, err)

	malformed := filepath.Join(dir, "malformed.yaml")
	require.NoError(t, os.WriteFile(malformed, []byte("{nope"), 0o644))
	_, err = Load(malformed)
	assert.Error(t, err)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
