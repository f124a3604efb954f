package train

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nagi-ovo/alphazero-gomoku/oracle"
	"github.com/Nagi-ovo/alphazero-gomoku/selfplay"
)

func smokeConfig(t *testing.T) Config {
	t.Helper()
	cfg := Default()
	cfg.BoardSize = 5
	cfg.NumIters = 1
	cfg.NumEps = 1
	cfg.NumMCTSSims = 4
	cfg.TempCutoff = 2
	cfg.Workers = 1
	cfg.Epochs = 1
	cfg.BatchSize = 8
	cfg.ArenaGames = 2
	cfg.MaxQueueLen = 1000
	cfg.DataDir = t.TempDir()
	cfg.CheckpointDir = t.TempDir()
	return cfg
}

func TestPipelineRunsOneIteration(t *testing.T) {
	if testing.Short() {
		t.Skip("full pipeline smoke test")
	}
	cfg := smokeConfig(t)

	p, err := NewPipeline(cfg, zerolog.Nop())
	require.NoError(t, err)

	var episodes int
	p.OnEpisode = func(selfplay.EpisodeUpdate) { episodes++ }

	require.NoError(t, p.Run())
	assert.Equal(t, cfg.NumEps, episodes)

	// A candidate snapshot is written regardless of the promotion outcome.
	assert.FileExists(t, oracle.CandidatePath(cfg.CheckpointDir, 1))

	// A shard was persisted and warms a fresh pipeline's buffer.
	entries, err := os.ReadDir(cfg.DataDir)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)

	p2, err := NewPipeline(cfg, zerolog.Nop())
	require.NoError(t, err)
	assert.Positive(t, p2.buf.Len())
}

func TestPipelineRejectsMismatchedCheckpoint(t *testing.T) {
	cfg := smokeConfig(t)

	other := oracle.New(oracle.DefaultConfig(9))
	require.NoError(t, other.Save(oracle.BestPath(cfg.CheckpointDir)))

	_, err := NewPipeline(cfg, zerolog.Nop())
	assert.Error(t, err)
}
