// Package game defines the Gomoku rules engine: board state, legal move
// enumeration, terminal detection, and the canonical encoding consumed by
// the policy-value network.
//
// States are immutable values. Play returns a fresh state and never mutates
// the receiver, so search trees can hold many states without defensive
// copying.
package game

import (
	"errors"
	"fmt"
)

// Cell holds the contents of one board intersection.
// Black moves first.
type Cell int8

const (
	Empty Cell = 0
	Black Cell = 1
	White Cell = -1
)

func (c Cell) String() string {
	switch c {
	case Black:
		return "X"
	case White:
		return "O"
	default:
		return "."
	}
}

// Outcome classifies a terminal state.
type Outcome int

const (
	// OutcomeNone means the game is still in progress.
	OutcomeNone Outcome = iota
	// OutcomeWin means the player who placed the last stone won.
	OutcomeWin
	// OutcomeDraw means the board filled without a five-in-a-row.
	OutcomeDraw
)

// WinLength is the number of contiguous stones required to win.
const WinLength = 5

// ErrIllegalMove reports an action outside the legal move set.
var ErrIllegalMove = errors.New("illegal move")

// State is one Gomoku position. Cells are stored row-major; the action index
// for (row, col) is row*Size + col.
type State struct {
	Size     int
	Cells    []Cell
	ToMove   Cell
	LastMove int // action index of the most recent stone, -1 before any move
	Ply      int
}

// NewState returns an empty board of the given size with Black to move.
func NewState(size int) *State {
	if size < WinLength {
		panic(fmt.Sprintf("board size %d smaller than win length %d", size, WinLength))
	}
	return &State{
		Size:     size,
		Cells:    make([]Cell, size*size),
		ToMove:   Black,
		LastMove: -1,
	}
}

// Clone performs a deep copy of the state.
func (s *State) Clone() *State {
	out := &State{
		Size:     s.Size,
		Cells:    make([]Cell, len(s.Cells)),
		ToMove:   s.ToMove,
		LastMove: s.LastMove,
		Ply:      s.Ply,
	}
	copy(out.Cells, s.Cells)
	return out
}

// ActionSize is the number of distinct actions on this board.
func (s *State) ActionSize() int { return s.Size * s.Size }

// Action converts (row, col) to an action index.
func (s *State) Action(row, col int) int { return row*s.Size + col }

// RowCol converts an action index back to (row, col).
func (s *State) RowCol(action int) (int, int) { return action / s.Size, action % s.Size }

// LegalMoves returns the indices of all empty cells in ascending order.
func (s *State) LegalMoves() []int {
	moves := make([]int, 0, len(s.Cells)-s.Ply)
	for a, c := range s.Cells {
		if c == Empty {
			moves = append(moves, a)
		}
	}
	return moves
}

// Legal reports whether the action targets an empty cell on the board.
func (s *State) Legal(action int) bool {
	return action >= 0 && action < len(s.Cells) && s.Cells[action] == Empty
}

// Play places the current player's stone on the given action and returns the
// resulting state. It wraps ErrIllegalMove when the cell is occupied or out
// of range.
func (s *State) Play(action int) (*State, error) {
	if !s.Legal(action) {
		return nil, fmt.Errorf("%w: action %d for %s", ErrIllegalMove, action, s.ToMove)
	}
	out := s.Clone()
	out.Cells[action] = s.ToMove
	out.ToMove = -s.ToMove
	out.LastMove = action
	out.Ply = s.Ply + 1
	return out, nil
}

// Terminal reports whether the game is over. OutcomeWin is always from the
// perspective of the player who placed the last stone. Only the four lines
// through the last move are scanned; any earlier five-in-a-row would have
// ended the game on the ply that completed it.
func (s *State) Terminal() (bool, Outcome) {
	if s.LastMove >= 0 && s.lineThrough(s.LastMove) >= WinLength {
		return true, OutcomeWin
	}
	if s.Ply == len(s.Cells) {
		return true, OutcomeDraw
	}
	return false, OutcomeNone
}

// Winner returns the winning color for a terminal win, or Empty for an
// ongoing game or draw.
func (s *State) Winner() Cell {
	if done, outcome := s.Terminal(); done && outcome == OutcomeWin {
		return -s.ToMove // the last mover
	}
	return Empty
}

var directions = [4][2]int{
	{0, 1},  // horizontal
	{1, 0},  // vertical
	{1, 1},  // down-right diagonal
	{1, -1}, // down-left diagonal
}

// lineThrough returns the longest contiguous run of same-colored stones
// passing through the given occupied cell.
func (s *State) lineThrough(action int) int {
	row, col := s.RowCol(action)
	color := s.Cells[action]
	best := 0
	for _, d := range directions {
		count := 1
		for _, sign := range [2]int{1, -1} {
			r, c := row+sign*d[0], col+sign*d[1]
			for r >= 0 && r < s.Size && c >= 0 && c < s.Size && s.Cells[s.Action(r, c)] == color {
				count++
				r += sign * d[0]
				c += sign * d[1]
			}
		}
		if count > best {
			best = count
		}
	}
	return best
}

// LineAfter returns the longest line the current player would own after
// playing the given action. Used by the greedy scripted player.
func (s *State) LineAfter(action int) (int, error) {
	next, err := s.Play(action)
	if err != nil {
		return 0, err
	}
	return next.lineThrough(action), nil
}
