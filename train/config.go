package train

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config carries every tunable of the training pipeline. Zero values are
// filled from Default by Load.
type Config struct {
	BoardSize int `yaml:"board_size"`

	// Self-play.
	NumIters    int     `yaml:"num_iters"`
	NumEps      int     `yaml:"num_eps"`
	NumMCTSSims int     `yaml:"num_mcts_sims"`
	Cpuct       float64 `yaml:"cpuct"`
	TempTau     float64 `yaml:"temp_tau"`
	TempCutoff  int     `yaml:"temp_cutoff"`
	Workers     int     `yaml:"workers"`

	// Replay.
	MaxQueueLen int    `yaml:"maxlen_of_queue"`
	DataDir     string `yaml:"data_dir"`

	// Optimization.
	Epochs    int     `yaml:"epochs"`
	BatchSize int     `yaml:"batch_size"`
	MinLR     float64 `yaml:"min_lr"`
	MaxLR     float64 `yaml:"max_lr"`

	// Evaluation.
	ArenaGames int     `yaml:"arena_games"`
	Threshold  float64 `yaml:"threshold"`

	CheckpointDir string `yaml:"checkpoint_dir"`
	Seed          int64  `yaml:"seed"`
}

// Default returns the standard configuration.
func Default() Config {
	return Config{
		BoardSize:     9,
		NumIters:      50,
		NumEps:        100,
		NumMCTSSims:   400,
		Cpuct:         1.0,
		TempTau:       1.0,
		TempCutoff:    12,
		Workers:       4,
		MaxQueueLen:   200000,
		DataDir:       "data/selfplay",
		Epochs:        10,
		BatchSize:     64,
		MinLR:         1e-4,
		MaxLR:         1e-2,
		ArenaGames:    20,
		Threshold:     0.55,
		CheckpointDir: "checkpoints",
		Seed:          1,
	}
}

// Load reads a yaml config file over the defaults. A missing path returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	switch {
	case c.BoardSize < 5:
		return fmt.Errorf("board_size %d below win length", c.BoardSize)
	case c.NumMCTSSims < 1:
		return fmt.Errorf("num_mcts_sims must be positive")
	case c.BatchSize < 1:
		return fmt.Errorf("batch_size must be positive")
	case c.MaxQueueLen < 1:
		return fmt.Errorf("maxlen_of_queue must be positive")
	case c.MinLR <= 0 || c.MaxLR < c.MinLR:
		return fmt.Errorf("learning rate bounds %g..%g are invalid", c.MinLR, c.MaxLR)
	case c.Threshold < 0 || c.Threshold >= 1:
		return fmt.Errorf("threshold %g outside [0, 1)", c.Threshold)
	}
	return nil
}
