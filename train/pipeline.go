package train

import (
	"fmt"
	"math/rand"
	"os"

	"github.com/rs/zerolog"

	"github.com/Nagi-ovo/alphazero-gomoku/arena"
	"github.com/Nagi-ovo/alphazero-gomoku/game"
	"github.com/Nagi-ovo/alphazero-gomoku/oracle"
	"github.com/Nagi-ovo/alphazero-gomoku/replay"
	"github.com/Nagi-ovo/alphazero-gomoku/selfplay"
)

// Pipeline owns the long-lived training state: the incumbent network, the
// replay buffer, and the RNG. The buffer persists across iterations in
// process memory; checkpoints reach durable storage only at promotion
// points.
type Pipeline struct {
	cfg Config
	net *oracle.Network
	buf *replay.Buffer
	rng *rand.Rand
	log zerolog.Logger

	// OnEpisode observes finished self-play episodes (progress TUI).
	OnEpisode func(selfplay.EpisodeUpdate)
	// OnState observes live board states during self-play (viewer).
	OnState func(*game.State)
}

// NewPipeline loads the incumbent from the best checkpoint if one exists,
// otherwise starts from a fresh network. Previously generated shards warm
// the replay buffer so a restart does not train on an empty queue.
func NewPipeline(cfg Config, logger zerolog.Logger) (*Pipeline, error) {
	var net *oracle.Network
	bestPath := oracle.BestPath(cfg.CheckpointDir)
	if _, err := os.Stat(bestPath); err == nil {
		net, err = oracle.Load(bestPath)
		if err != nil {
			return nil, fmt.Errorf("load incumbent: %w", err)
		}
		if net.Config().BoardSize != cfg.BoardSize {
			return nil, fmt.Errorf("checkpoint board size %d does not match configured %d",
				net.Config().BoardSize, cfg.BoardSize)
		}
		logger.Info().Str("path", bestPath).Int("iteration", net.Iteration).Msg("resumed incumbent")
	} else {
		net = oracle.New(oracle.DefaultConfig(cfg.BoardSize))
		logger.Info().Msg("starting from a fresh network")
	}

	buf := replay.NewBuffer(cfg.MaxQueueLen)
	if warm, err := replay.LoadDir(cfg.DataDir); err != nil {
		logger.Warn().Err(err).Msg("could not warm replay buffer from shards")
	} else if len(warm) > 0 {
		buf.Append(warm...)
		logger.Info().Int("examples", len(warm)).Msg("warmed replay buffer from shards")
	}

	return &Pipeline{
		cfg: cfg,
		net: net,
		buf: buf,
		rng: rand.New(rand.NewSource(cfg.Seed)),
		log: logger,
	}, nil
}

// Best returns the current incumbent network.
func (p *Pipeline) Best() *oracle.Network { return p.net }

// Run executes the configured number of iterations of the standard
// alternating protocol: generate, then train, then evaluate.
func (p *Pipeline) Run() error {
	start := p.net.Iteration + 1
	for iter := start; iter < start+p.cfg.NumIters; iter++ {
		if err := p.runOnce(iter); err != nil {
			return fmt.Errorf("iteration %d: %w", iter, err)
		}
	}
	return nil
}

func (p *Pipeline) runOnce(iter int) error {
	p.log.Info().Int("iteration", iter).Msg("self-play")
	spCfg := selfplay.Config{
		BoardSize:   p.cfg.BoardSize,
		Simulations: p.cfg.NumMCTSSims,
		Cpuct:       p.cfg.Cpuct,
		Temperature: selfplay.Schedule{Tau: p.cfg.TempTau, CutoffPly: p.cfg.TempCutoff},
		OnState:     p.OnState,
	}
	examples, err := selfplay.Generate(p.net, spCfg, p.cfg.NumEps, p.cfg.Workers,
		p.cfg.Seed+int64(iter)*1_000_000, p.OnEpisode)
	if err != nil {
		return err
	}
	p.buf.Append(examples...)

	if path, err := replay.WriteShard(p.cfg.DataDir, iter, examples); err != nil {
		// Shards are an archive, not the training path; keep going.
		p.log.Warn().Err(err).Msg("could not persist shard")
	} else {
		p.log.Info().Str("path", path).Int("examples", len(examples)).Msg("persisted shard")
	}

	if p.buf.Len() < p.cfg.BatchSize {
		p.log.Warn().
			Int("have", p.buf.Len()).
			Int("want", p.cfg.BatchSize).
			Msg("deferring training until more self-play data exists")
		return nil
	}

	candidate := p.net.Clone()
	candidate.Iteration = iter
	sched := NewOneCycle(p.cfg.MinLR, p.cfg.MaxLR, TotalSteps(p.buf.Len(), p.cfg.Epochs, p.cfg.BatchSize))
	loss, err := RunIteration(p.buf, candidate, p.cfg.Epochs, p.cfg.BatchSize, sched, p.rng)
	if err != nil {
		return err
	}
	p.log.Info().Float64("loss", loss).Msg("trained candidate")

	tally, err := arena.Evaluate(
		&arena.SearchPlayer{Label: "candidate", Client: candidate, Simulations: p.cfg.NumMCTSSims, Cpuct: p.cfg.Cpuct},
		&arena.SearchPlayer{Label: "incumbent", Client: p.net, Simulations: p.cfg.NumMCTSSims, Cpuct: p.cfg.Cpuct},
		p.cfg.BoardSize, p.cfg.ArenaGames)
	if err != nil {
		return err
	}
	p.log.Info().
		Int("candidate_wins", tally.WinsA).
		Int("incumbent_wins", tally.WinsB).
		Int("draws", tally.Draws).
		Msg("arena finished")

	if err := candidate.Save(oracle.CandidatePath(p.cfg.CheckpointDir, iter)); err != nil {
		return err
	}

	if arena.Promoted(tally.WinsA, tally.WinsB, p.cfg.Threshold) {
		p.net = candidate
		if err := p.net.Save(oracle.BestPath(p.cfg.CheckpointDir)); err != nil {
			return err
		}
		p.log.Info().Int("iteration", iter).Msg("promoted candidate")
	} else {
		p.log.Info().Int("iteration", iter).Msg("rejected candidate, keeping incumbent")
	}
	return nil
}
