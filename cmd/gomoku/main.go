package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Nagi-ovo/alphazero-gomoku/arena"
	"github.com/Nagi-ovo/alphazero-gomoku/inference"
	"github.com/Nagi-ovo/alphazero-gomoku/mcts"
	"github.com/Nagi-ovo/alphazero-gomoku/oracle"
	"github.com/Nagi-ovo/alphazero-gomoku/train"
	"github.com/Nagi-ovo/alphazero-gomoku/viewer"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "train":
		err = runTrain(os.Args[2:])
	case "play":
		err = runPlay(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("exiting")
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: gomoku <train|play> [flags]")
	fmt.Fprintln(os.Stderr, "  train -config config.yaml [-tui] [-viewer :8090]")
	fmt.Fprintln(os.Stderr, "  play  -p1 human -p2 alphazero [-checkpoint checkpoints/best.json]")
}

func runTrain(args []string) error {
	fs := flag.NewFlagSet("train", flag.ExitOnError)
	configPath := fs.String("config", "", "YAML config file (defaults used when empty)")
	useTUI := fs.Bool("tui", false, "show a live progress TUI instead of log output")
	viewerAddr := fs.String("viewer", "", "serve a live board viewer on this address, e.g. :8090")
	verbose := fs.Bool("verbose", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	cfg, err := train.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := log.Logger
	if *useTUI {
		// Logs would corrupt the TUI frame.
		zerolog.SetGlobalLevel(zerolog.Disabled)
	}

	pipeline, err := train.NewPipeline(cfg, logger)
	if err != nil {
		return err
	}

	if *viewerAddr != "" {
		v := viewer.New(*viewerAddr)
		v.Start()
		pipeline.OnState = v.Publish
	}

	if *useTUI {
		return runTrainTUI(pipeline)
	}
	return pipeline.Run()
}

func runPlay(args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	p1 := fs.String("p1", "human", "first player: human, random, greedy, alphazero")
	p2 := fs.String("p2", "alphazero", "second player: human, random, greedy, alphazero")
	rounds := fs.Int("rounds", 1, "number of games (first mover alternates)")
	boardSize := fs.Int("board", 9, "board size")
	checkpoint := fs.String("checkpoint", "checkpoints/best.json", "network checkpoint for alphazero players")
	onnxModel := fs.String("onnx", "", "ONNX model path; overrides -checkpoint when set")
	sims := fs.Int("sims", 400, "search simulations per move for alphazero players")
	cpuct := fs.Float64("cpuct", 1.0, "exploration constant for alphazero players")
	seed := fs.Int64("seed", time.Now().UnixNano(), "RNG seed for random players")
	if err := fs.Parse(args); err != nil {
		return err
	}

	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	needsNet := *p1 == "alphazero" || *p2 == "alphazero"
	var client mcts.Predictor
	if needsNet {
		var err error
		client, err = loadPredictor(*onnxModel, *checkpoint, *boardSize)
		if err != nil {
			return err
		}
	}

	rng := rand.New(rand.NewSource(*seed))
	a, err := buildPlayer(*p1, client, *sims, *cpuct, rng)
	if err != nil {
		return err
	}
	b, err := buildPlayer(*p2, client, *sims, *cpuct, rng)
	if err != nil {
		return err
	}

	tally, err := arena.Evaluate(a, b, *boardSize, *rounds)
	if err != nil {
		return err
	}
	fmt.Printf("%s %d - %d %s (%d draws)\n", a.Name(), tally.WinsA, tally.WinsB, b.Name(), tally.Draws)
	return nil
}

func loadPredictor(onnxModel, checkpoint string, boardSize int) (mcts.Predictor, error) {
	if onnxModel != "" {
		return inference.NewClient(onnxModel, boardSize)
	}
	net, err := oracle.Load(checkpoint)
	if err != nil {
		return nil, fmt.Errorf("loading checkpoint %s: %w", checkpoint, err)
	}
	if net.Config().BoardSize != boardSize {
		return nil, fmt.Errorf("checkpoint board size %d does not match -board %d",
			net.Config().BoardSize, boardSize)
	}
	return net, nil
}

func buildPlayer(kind string, client mcts.Predictor, sims int, cpuct float64, rng *rand.Rand) (arena.Player, error) {
	switch kind {
	case "human":
		return &arena.HumanPlayer{In: os.Stdin, Out: os.Stdout}, nil
	case "random":
		return &arena.RandomPlayer{Rng: rng}, nil
	case "greedy":
		return arena.GreedyPlayer{}, nil
	case "alphazero":
		return &arena.SearchPlayer{Label: "alphazero", Client: client, Simulations: sims, Cpuct: cpuct}, nil
	default:
		return nil, fmt.Errorf("unknown player kind %q", kind)
	}
}
