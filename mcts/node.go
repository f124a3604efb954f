// Package mcts implements PUCT Monte Carlo Tree Search guided by a
// policy-value predictor.
package mcts

import (
	"errors"

	"github.com/Nagi-ovo/alphazero-gomoku/game"
)

// ErrTerminalState reports a search requested on a finished game. Callers
// must check State.Terminal before searching.
var ErrTerminalState = errors.New("search on terminal state")

// ErrOracleContract reports a malformed prediction: wrong policy length,
// NaN entries, or a value outside [-1, 1]. The search aborts immediately;
// continuing would corrupt the tree statistics.
var ErrOracleContract = errors.New("oracle contract violation")

// Predictor is the policy-value oracle contract. Given a canonical board
// encoding it returns an action-probability distribution over the full
// action space and a position value in [-1, 1] from the perspective of the
// player to move.
type Predictor interface {
	Predict(board []float64) (policy []float64, value float64, err error)
}

// Node is one search tree position. Child statistics are stored from the
// perspective of the player choosing at the parent: ValueSum accumulates
// outcomes for the player who moved into this node.
type Node struct {
	State      *game.State
	Prior      float64
	VisitCount int
	ValueSum   float64

	// Actions and Children are parallel, with Actions in ascending order so
	// selection ties break deterministically on the lowest action index.
	Actions  []int
	Children []*Node
	Expanded bool
}

// NewNode wraps a state reached through an edge with the given prior.
func NewNode(state *game.State, prior float64) *Node {
	return &Node{State: state, Prior: prior}
}

// Q is the mean value of this node from the perspective of the player who
// moved into it. Unvisited nodes score zero.
func (n *Node) Q() float64 {
	if n.VisitCount == 0 {
		return 0
	}
	return n.ValueSum / float64(n.VisitCount)
}
