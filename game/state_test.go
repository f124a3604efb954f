package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stateFrom builds a state from ASCII rows ('X', 'O', '.'). LastMove must be
// set by the caller when terminal detection matters.
func stateFrom(t *testing.T, rows []string, toMove Cell) *State {
	t.Helper()
	size := len(rows)
	s := NewState(size)
	s.ToMove = toMove
	for r, row := range rows {
		cells := strings.Fields(row)
		require.Len(t, cells, size, "row %d", r)
		for c, cell := range cells {
			switch cell {
			case "X":
				s.Cells[s.Action(r, c)] = Black
			case "O":
				s.Cells[s.Action(r, c)] = White
			default:
				continue
			}
			s.Ply++
		}
	}
	return s
}

func TestLegalMovesOnlyEmptyCells(t *testing.T) {
	s := NewState(5)
	var err error
	for _, a := range []int{0, 6, 12} {
		s, err = s.Play(a)
		require.NoError(t, err)
	}

	moves := s.LegalMoves()
	assert.Len(t, moves, 22)
	for _, a := range moves {
		assert.Equal(t, Empty, s.Cells[a], "legal move %d must target an empty cell", a)
	}
}

func TestPlayOccupiesCellForMover(t *testing.T) {
	s := NewState(5)
	next, err := s.Play(s.Action(2, 3))
	require.NoError(t, err)

	assert.Equal(t, Black, next.Cells[next.Action(2, 3)])
	assert.Equal(t, White, next.ToMove)
	assert.Equal(t, 1, next.Ply)
	// The original state is untouched.
	assert.Equal(t, Empty, s.Cells[s.Action(2, 3)])
	assert.Equal(t, Black, s.ToMove)
}

func TestPlayOccupiedCellFails(t *testing.T) {
	s := NewState(5)
	s, err := s.Play(7)
	require.NoError(t, err)

	_, err = s.Play(7)
	assert.ErrorIs(t, err, ErrIllegalMove)

	_, err = s.Play(-1)
	assert.ErrorIs(t, err, ErrIllegalMove)
	_, err = s.Play(25)
	assert.ErrorIs(t, err, ErrIllegalMove)
}

// Scripted sequence from an empty 9x9 board: Black builds five in a row
// horizontally while White never blocks. The fifth stone must end the game
// with a win for Black.
func TestScriptedHorizontalWin(t *testing.T) {
	s := NewState(9)
	blackMoves := []int{s.Action(4, 2), s.Action(4, 3), s.Action(4, 4), s.Action(4, 5), s.Action(4, 6)}
	whiteMoves := []int{s.Action(0, 0), s.Action(0, 1), s.Action(0, 2), s.Action(0, 3)}

	var err error
	for i := 0; i < 4; i++ {
		s, err = s.Play(blackMoves[i])
		require.NoError(t, err)
		done, _ := s.Terminal()
		require.False(t, done, "game must not end before the fifth stone\n%s", s.BoardString())

		s, err = s.Play(whiteMoves[i])
		require.NoError(t, err)
		done, _ = s.Terminal()
		require.False(t, done)
	}

	s, err = s.Play(blackMoves[4])
	require.NoError(t, err)

	done, outcome := s.Terminal()
	assert.True(t, done, "fifth stone must end the game\n%s", s.BoardString())
	assert.Equal(t, OutcomeWin, outcome)
	assert.Equal(t, Black, s.Winner())
	assert.Empty(t, func() []int {
		if done {
			return nil
		}
		return s.LegalMoves()
	}(), "terminal state must not offer legal moves to callers")
}

func TestVerticalAndDiagonalWins(t *testing.T) {
	cases := []struct {
		name string
		rows []string
		last [2]int
	}{
		{
			name: "vertical",
			rows: []string{
				"X O . . .",
				"X O . . .",
				"X O . . .",
				"X O . . .",
				"X . . . .",
			},
			last: [2]int{4, 0},
		},
		{
			name: "down-right diagonal",
			rows: []string{
				"X O . . .",
				"O X . . .",
				". . X . .",
				". O . X .",
				". O . . X",
			},
			last: [2]int{2, 2},
		},
		{
			name: "down-left diagonal",
			rows: []string{
				"O . . . X",
				". O . X .",
				". . X . .",
				". X . O .",
				"X . O . .",
			},
			last: [2]int{4, 0},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := stateFrom(t, tc.rows, White)
			s.LastMove = s.Action(tc.last[0], tc.last[1])
			done, outcome := s.Terminal()
			assert.True(t, done, "\n%s", s.BoardString())
			assert.Equal(t, OutcomeWin, outcome)
			assert.Equal(t, Black, s.Winner())
		})
	}
}

func TestFourInARowIsNotTerminal(t *testing.T) {
	s := stateFrom(t, []string{
		". . . . .",
		"X X X X .",
		"O O O . .",
		". . . . .",
		". . . . .",
	}, White)
	s.LastMove = s.Action(1, 3)

	done, outcome := s.Terminal()
	assert.False(t, done)
	assert.Equal(t, OutcomeNone, outcome)
	assert.Equal(t, Empty, s.Winner())
}

func TestFullBoardWithoutLineIsDraw(t *testing.T) {
	s := stateFrom(t, []string{
		"X X O O X",
		"O O X X O",
		"X X O O X",
		"O O X X O",
		"X X O O X",
	}, White)
	s.Ply = 25
	s.LastMove = s.Action(2, 2)

	done, outcome := s.Terminal()
	assert.True(t, done)
	assert.Equal(t, OutcomeDraw, outcome)
	assert.Equal(t, Empty, s.Winner())
}

func TestLineAfter(t *testing.T) {
	s := stateFrom(t, []string{
		". . . . .",
		". X X . .",
		". . . . .",
		". . . . .",
		". O . . .",
	}, Black)

	line, err := s.LineAfter(s.Action(1, 3))
	require.NoError(t, err)
	assert.Equal(t, 3, line)

	line, err = s.LineAfter(s.Action(0, 0))
	require.NoError(t, err)
	assert.Equal(t, 1, line)

	_, err = s.LineAfter(s.Action(1, 1))
	assert.ErrorIs(t, err, ErrIllegalMove)
}
