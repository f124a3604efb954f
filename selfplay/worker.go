package selfplay

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/Nagi-ovo/alphazero-gomoku/mcts"
	"github.com/Nagi-ovo/alphazero-gomoku/replay"
)

// EpisodeUpdate reports one finished episode to progress observers.
type EpisodeUpdate struct {
	Worker   int
	Result   Result
	Examples int
}

// Generate plays episodes across a pool of workers and returns all produced
// examples. Episodes are mutually independent: each worker owns its game
// state and search tree, sharing only read access to the predictor. Worker
// RNGs derive deterministically from seed, so a fixed seed reproduces the
// same set of games (modulo completion order; returned examples are ordered
// by episode index).
func Generate(client mcts.Predictor, cfg Config, episodes, workers int, seed int64, onEpisode func(EpisodeUpdate)) ([]replay.Example, error) {
	if workers < 1 {
		workers = 1
	}
	if workers > episodes {
		workers = episodes
	}

	tasks := make(chan int, episodes)
	for i := 0; i < episodes; i++ {
		tasks <- i
	}
	close(tasks)

	perEpisode := make([][]replay.Example, episodes)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for idx := range tasks {
				rng := rand.New(rand.NewSource(seed + int64(idx)*1000003))
				examples, result, err := PlayEpisode(client, cfg, rng)
				if err != nil {
					errs[worker] = fmt.Errorf("episode %d: %w", idx, err)
					return
				}
				perEpisode[idx] = examples
				log.Debug().
					Int("worker", worker).
					Int("episode", idx).
					Stringer("winner", result.Winner).
					Int("plies", result.Plies).
					Int("examples", len(examples)).
					Msg("episode finished")
				if onEpisode != nil {
					onEpisode(EpisodeUpdate{Worker: worker, Result: result, Examples: len(examples)})
				}
			}
		}(w)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	var out []replay.Example
	for _, examples := range perEpisode {
		out = append(out, examples...)
	}
	return out, nil
}
