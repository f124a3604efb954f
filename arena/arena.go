package arena

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Nagi-ovo/alphazero-gomoku/game"
)

// Tally is the head-to-head score of an evaluation run.
type Tally struct {
	WinsA int
	WinsB int
	Draws int
}

// Evaluate plays numGames between a and b, alternating which player moves
// first to cancel the first-move advantage: a opens even-indexed games, b
// opens odd-indexed ones. A player producing an illegal action is a fatal
// error; it signals a collaborator bug, not a recoverable condition.
func Evaluate(a, b Player, boardSize, numGames int) (Tally, error) {
	var tally Tally
	for i := 0; i < numGames; i++ {
		aIsFirst := i%2 == 0
		first, second := a, b
		if !aIsFirst {
			first, second = b, a
		}

		winner, err := playGame(first, second, boardSize)
		if err != nil {
			return tally, fmt.Errorf("game %d (%s vs %s): %w", i, first.Name(), second.Name(), err)
		}

		switch {
		case winner == game.Empty:
			tally.Draws++
		case (winner == game.Black) == aIsFirst:
			tally.WinsA++
		default:
			tally.WinsB++
		}
		log.Debug().
			Int("game", i).
			Str("first", first.Name()).
			Stringer("winner", winner).
			Msg("arena game finished")
	}
	return tally, nil
}

// playGame runs one game with first playing Black. Returns the winning
// color, or Empty on a draw.
func playGame(first, second Player, boardSize int) (game.Cell, error) {
	state := game.NewState(boardSize)
	players := map[game.Cell]Player{game.Black: first, game.White: second}

	for {
		if done, outcome := state.Terminal(); done {
			if outcome == game.OutcomeDraw {
				return game.Empty, nil
			}
			return state.Winner(), nil
		}

		current := players[state.ToMove]
		action, err := current.ChooseAction(state)
		if err != nil {
			return game.Empty, fmt.Errorf("%s: %w", current.Name(), err)
		}
		state, err = state.Play(action)
		if err != nil {
			// The player proposed an occupied or out-of-range cell.
			return game.Empty, fmt.Errorf("%s produced %w", current.Name(), err)
		}
	}
}

// Promoted applies the promotion policy: the candidate replaces the
// incumbent only when its share of decisive games exceeds the threshold.
// Draws are excluded; with no decisive games the incumbent is retained.
func Promoted(candidateWins, incumbentWins int, threshold float64) bool {
	decisive := candidateWins + incumbentWins
	if decisive == 0 {
		return false
	}
	return float64(candidateWins)/float64(decisive) > threshold
}
