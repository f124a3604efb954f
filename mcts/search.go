package mcts

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/Nagi-ovo/alphazero-gomoku/game"
)

// Config holds search parameters.
type Config struct {
	// Cpuct weighs prior-guided exploration against exploitation in the
	// PUCT formula.
	Cpuct float64
}

// MCTS runs searches against a fixed predictor. Simulation passes within one
// Search call are strictly sequential: each pass's selection depends on the
// statistics updated by the previous one.
type MCTS struct {
	Config Config
	Client Predictor
}

// Search runs the given number of simulation passes from rootState and
// returns per-action visit counts, indexed by action, summing to exactly
// simulations. Temperature scaling and sampling are the caller's concern.
func (m *MCTS) Search(rootState *game.State, simulations int) ([]int, error) {
	if done, _ := rootState.Terminal(); done {
		return nil, fmt.Errorf("%w: ply %d", ErrTerminalState, rootState.Ply)
	}
	if simulations < 1 {
		return nil, fmt.Errorf("simulations must be positive, got %d", simulations)
	}

	root := NewNode(rootState, 1)
	// Expanding the root is setup, not a counted pass: afterwards every pass
	// descends through at least one child, so the root's children account
	// for every simulation.
	if err := m.expand(root); err != nil {
		return nil, err
	}

	for i := 0; i < simulations; i++ {
		if err := m.simulate(root); err != nil {
			return nil, err
		}
	}

	visits := make([]int, rootState.ActionSize())
	for i, child := range root.Children {
		visits[root.Actions[i]] = child.VisitCount
	}
	return visits, nil
}

// simulate runs one pass: select down to an unexpanded or terminal node,
// evaluate it, and back the value up the path.
func (m *MCTS) simulate(root *Node) error {
	node := root
	path := []*Node{node}

	for node.Expanded {
		node = node.Children[m.selectChild(node)]
		path = append(path, node)
	}

	var value float64
	if done, outcome := node.State.Terminal(); done {
		// Rules-derived value from the perspective of the player to move:
		// the opponent just completed a line, so a win is a loss here.
		if outcome == game.OutcomeWin {
			value = -1
		}
	} else {
		var err error
		value, err = m.expandAndEvaluate(node)
		if err != nil {
			return err
		}
	}

	backup(path, value)
	return nil
}

// selectChild picks the child maximizing Q + cpuct * P * sqrt(N) / (1 + n).
// Strict inequality keeps the lowest action index on exact ties.
func (m *MCTS) selectChild(node *Node) int {
	sqrtN := math.Sqrt(float64(node.VisitCount))
	best := 0
	bestScore := math.Inf(-1)
	for i, child := range node.Children {
		u := child.Q() + m.Config.Cpuct*child.Prior*sqrtN/(1+float64(child.VisitCount))
		if u > bestScore {
			bestScore = u
			best = i
		}
	}
	return best
}

// expandAndEvaluate queries the predictor for the node's state, creates one
// child per legal move with priors masked to the legal set, and returns the
// predicted value.
func (m *MCTS) expandAndEvaluate(node *Node) (float64, error) {
	policy, value, err := m.Client.Predict(node.State.Encode())
	if err != nil {
		return 0, fmt.Errorf("predict: %w", err)
	}
	if err := validate(node.State, policy, value); err != nil {
		return 0, err
	}

	moves := node.State.LegalMoves()
	priors := make([]float64, len(moves))
	sum := 0.0
	for i, a := range moves {
		priors[i] = policy[a]
		sum += policy[a]
	}
	if sum > 0 {
		for i := range priors {
			priors[i] /= sum
		}
	} else {
		// All legal moves were masked out by the predictor. Fall back to a
		// uniform prior rather than aborting the search.
		log.Warn().Int("ply", node.State.Ply).Msg("predictor assigned zero mass to all legal moves")
		for i := range priors {
			priors[i] = 1 / float64(len(moves))
		}
	}

	node.Actions = moves
	node.Children = make([]*Node, len(moves))
	for i, a := range moves {
		next, err := node.State.Play(a)
		if err != nil {
			return 0, err
		}
		node.Children[i] = NewNode(next, priors[i])
	}
	node.Expanded = true
	return value, nil
}

// expand expands a node discarding the predicted value. Used for root setup.
func (m *MCTS) expand(node *Node) error {
	_, err := m.expandAndEvaluate(node)
	return err
}

// backup propagates the leaf value up the path, flipping the sign at each
// level of the zero-sum alternation. value is from the perspective of the
// player to move at the leaf; each node accumulates it from the perspective
// of the player who moved into the node.
func backup(path []*Node, value float64) {
	v := value
	for i := len(path) - 1; i >= 0; i-- {
		path[i].VisitCount++
		path[i].ValueSum -= v
		v = -v
	}
}

// validate enforces the predictor contract before its output touches the
// tree.
func validate(state *game.State, policy []float64, value float64) error {
	if len(policy) != state.ActionSize() {
		return fmt.Errorf("%w: policy length %d, want %d", ErrOracleContract, len(policy), state.ActionSize())
	}
	for a, p := range policy {
		if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
			return fmt.Errorf("%w: policy[%d] = %v", ErrOracleContract, a, p)
		}
	}
	if math.IsNaN(value) || value < -1 || value > 1 {
		return fmt.Errorf("%w: value %v outside [-1, 1]", ErrOracleContract, value)
	}
	return nil
}
