// Package selfplay generates training data by playing full games with
// search-guided move selection.
package selfplay

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/Nagi-ovo/alphazero-gomoku/game"
	"github.com/Nagi-ovo/alphazero-gomoku/mcts"
	"github.com/Nagi-ovo/alphazero-gomoku/replay"
)

// Schedule controls move-selection temperature over a game: tau applies
// before CutoffPly, after which selection sharpens to greedy argmax.
type Schedule struct {
	Tau       float64
	CutoffPly int
}

// TauAt returns the temperature for a given ply; zero means greedy.
func (s Schedule) TauAt(ply int) float64 {
	if ply < s.CutoffPly {
		return s.Tau
	}
	return 0
}

// Config holds per-episode parameters.
type Config struct {
	BoardSize   int
	Simulations int
	Cpuct       float64
	Temperature Schedule

	// OnState, when set, observes each position as the game advances.
	// Used by the live viewer.
	OnState func(*game.State)
}

// Result summarizes a finished episode. Winner is Empty for a draw.
type Result struct {
	Winner game.Cell
	Plies  int
}

// record is one pre-move snapshot awaiting its hindsight outcome.
type record struct {
	board  []float64
	policy []float64
	mover  game.Cell
}

// PlayEpisode drives one full game: at each ply it searches, stores the
// normalized visit distribution as the policy target, samples a move
// through the temperature schedule, and advances. After termination every
// recorded example is back-filled with the outcome relative to its mover
// and expanded through the board's symmetry group.
//
// The returned examples are not appended anywhere; buffer insertion is the
// caller's responsibility.
func PlayEpisode(client mcts.Predictor, cfg Config, rng *rand.Rand) ([]replay.Example, Result, error) {
	searcher := &mcts.MCTS{Config: mcts.Config{Cpuct: cfg.Cpuct}, Client: client}
	state := game.NewState(cfg.BoardSize)
	var records []record

	for {
		done, _ := state.Terminal()
		if done {
			break
		}

		visits, err := searcher.Search(state, cfg.Simulations)
		if err != nil {
			return nil, Result{}, fmt.Errorf("ply %d: %w", state.Ply, err)
		}

		records = append(records, record{
			board:  state.Encode(),
			policy: normalize(visits),
			mover:  state.ToMove,
		})

		action := selectAction(visits, cfg.Temperature.TauAt(state.Ply), rng)
		state, err = state.Play(action)
		if err != nil {
			return nil, Result{}, err
		}
		if cfg.OnState != nil {
			cfg.OnState(state)
		}
	}

	winner := state.Winner()
	examples := make([]replay.Example, 0, len(records)*8)
	for _, rec := range records {
		value := 0.0
		switch winner {
		case rec.mover:
			value = 1
		case game.Empty:
			value = 0
		default:
			value = -1
		}
		for _, pair := range game.Symmetries(cfg.BoardSize, rec.board, rec.policy) {
			examples = append(examples, replay.Example{
				Board:  pair.Board,
				Policy: pair.Policy,
				Value:  value,
			})
		}
	}

	return examples, Result{Winner: winner, Plies: state.Ply}, nil
}

// normalize converts raw visit counts into a probability distribution.
func normalize(visits []int) []float64 {
	total := 0
	for _, v := range visits {
		total += v
	}
	out := make([]float64, len(visits))
	if total == 0 {
		return out
	}
	for i, v := range visits {
		out[i] = float64(v) / float64(total)
	}
	return out
}

// selectAction samples an action from visit counts raised to 1/tau. A zero
// temperature degenerates to argmax with ties broken on the lowest index.
func selectAction(visits []int, tau float64, rng *rand.Rand) int {
	if tau == 0 {
		best, bestVisits := 0, -1
		for a, v := range visits {
			if v > bestVisits {
				best, bestVisits = a, v
			}
		}
		return best
	}

	weights := make([]float64, len(visits))
	total := 0.0
	for a, v := range visits {
		if v > 0 {
			weights[a] = math.Pow(float64(v), 1/tau)
			total += weights[a]
		}
	}

	r := rng.Float64() * total
	for a, w := range weights {
		r -= w
		if r < 0 {
			return a
		}
	}
	// Floating point slack: fall back to the last visited action.
	for a := len(visits) - 1; a >= 0; a-- {
		if visits[a] > 0 {
			return a
		}
	}
	return 0
}
