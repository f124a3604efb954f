// Package arena pits two players against each other and adjudicates model
// promotion.
package arena

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"

	"github.com/Nagi-ovo/alphazero-gomoku/game"
	"github.com/Nagi-ovo/alphazero-gomoku/mcts"
)

// Player chooses one action per turn. Implementations must return an action
// from the state's legal move set; anything else is treated as a contract
// violation and ends the game.
type Player interface {
	Name() string
	ChooseAction(state *game.State) (int, error)
}

// RandomPlayer picks uniformly among legal moves.
type RandomPlayer struct {
	Rng *rand.Rand
}

func (p *RandomPlayer) Name() string { return "random" }

func (p *RandomPlayer) ChooseAction(state *game.State) (int, error) {
	moves := state.LegalMoves()
	if len(moves) == 0 {
		return 0, fmt.Errorf("no legal moves at ply %d", state.Ply)
	}
	return moves[p.Rng.Intn(len(moves))], nil
}

// GreedyPlayer plays the move producing the longest immediate line for the
// mover, breaking ties on the lowest action index. Fully deterministic.
type GreedyPlayer struct{}

func (GreedyPlayer) Name() string { return "greedy" }

func (GreedyPlayer) ChooseAction(state *game.State) (int, error) {
	best, bestLine := -1, -1
	for _, a := range state.LegalMoves() {
		line, err := state.LineAfter(a)
		if err != nil {
			return 0, err
		}
		if line > bestLine {
			best, bestLine = a, line
		}
	}
	if best < 0 {
		return 0, fmt.Errorf("no legal moves at ply %d", state.Ply)
	}
	return best, nil
}

// SearchPlayer selects moves by running the search at evaluation strength:
// greedy over visit counts, no temperature.
type SearchPlayer struct {
	Label       string
	Client      mcts.Predictor
	Simulations int
	Cpuct       float64
}

func (p *SearchPlayer) Name() string { return p.Label }

func (p *SearchPlayer) ChooseAction(state *game.State) (int, error) {
	searcher := &mcts.MCTS{Config: mcts.Config{Cpuct: p.Cpuct}, Client: p.Client}
	visits, err := searcher.Search(state, p.Simulations)
	if err != nil {
		return 0, err
	}
	best, bestVisits := 0, -1
	for a, v := range visits {
		if v > bestVisits {
			best, bestVisits = a, v
		}
	}
	return best, nil
}

// HumanPlayer reads "row col" moves from an input stream, re-prompting on
// malformed or illegal input.
type HumanPlayer struct {
	In  io.Reader
	Out io.Writer

	scanner *bufio.Scanner
}

func (p *HumanPlayer) Name() string { return "human" }

func (p *HumanPlayer) ChooseAction(state *game.State) (int, error) {
	if p.scanner == nil {
		p.scanner = bufio.NewScanner(p.In)
	}
	fmt.Fprintln(p.Out, state.Render())
	for {
		fmt.Fprintf(p.Out, "%s to move (row col): ", state.ToMove)
		if !p.scanner.Scan() {
			if err := p.scanner.Err(); err != nil {
				return 0, err
			}
			return 0, io.EOF
		}
		var row, col int
		if _, err := fmt.Sscanf(p.scanner.Text(), "%d %d", &row, &col); err != nil {
			fmt.Fprintln(p.Out, "enter two numbers, e.g. 4 4")
			continue
		}
		if row < 0 || row >= state.Size || col < 0 || col >= state.Size || !state.Legal(state.Action(row, col)) {
			fmt.Fprintln(p.Out, "that cell is not open")
			continue
		}
		return state.Action(row, col), nil
	}
}
