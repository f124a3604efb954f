// Package oracle implements the policy-value network behind the search.
//
// Two feed-forward go-deep networks share one board encoding: a policy head
// trained with cross-entropy against search-visit distributions, and a value
// head trained with mean-squared error against game outcomes. Everything
// outside this package depends only on the Predict/TrainStep/Save/Load
// contract, so the topology here can change freely.
package oracle

import (
	"fmt"
	"math"
	"sync"

	deep "github.com/patrikeh/go-deep"
	"github.com/patrikeh/go-deep/training"

	"github.com/Nagi-ovo/alphazero-gomoku/replay"
)

// Config describes the network topology.
type Config struct {
	BoardSize int   `yaml:"board_size"`
	Hidden    []int `yaml:"hidden"`
}

// DefaultConfig returns the topology used when no checkpoint exists yet.
func DefaultConfig(boardSize int) Config {
	return Config{
		BoardSize: boardSize,
		Hidden:    []int{128, 64},
	}
}

// Network is a policy-value oracle snapshot. Iteration gives snapshots a
// comparable identity for arena bookkeeping.
//
// go-deep's forward pass mutates neuron activations in place, so Predict is
// serialized by a mutex; concurrent episode workers share one Network safely
// but predictions are not parallel.
type Network struct {
	mu        sync.Mutex
	cfg       Config
	policy    *deep.Neural
	value     *deep.Neural
	Iteration int
}

// New creates a randomly initialized network.
func New(cfg Config) *Network {
	inputs := cfg.BoardSize * cfg.BoardSize
	return &Network{
		cfg:    cfg,
		policy: newNet(inputs, cfg.Hidden, inputs, deep.ModeMultiClass),
		value:  newNet(inputs, cfg.Hidden, 1, deep.ModeRegression),
	}
}

func newNet(inputs int, hidden []int, outputs int, mode deep.Mode) *deep.Neural {
	layout := append(append([]int{}, hidden...), outputs)
	return deep.NewNeural(&deep.Config{
		Inputs:     inputs,
		Layout:     layout,
		Activation: deep.ActivationReLU,
		Mode:       mode,
		Weight:     deep.NewNormal(0.5, 0.0),
		Bias:       true,
	})
}

// Config returns the network topology.
func (n *Network) Config() Config { return n.cfg }

// Predict returns the action-probability distribution and position value for
// a canonical board encoding.
func (n *Network) Predict(board []float64) ([]float64, float64, error) {
	if len(board) != n.cfg.BoardSize*n.cfg.BoardSize {
		return nil, 0, fmt.Errorf("board encoding length %d, want %d", len(board), n.cfg.BoardSize*n.cfg.BoardSize)
	}

	n.mu.Lock()
	policy := append([]float64(nil), n.policy.Predict(board)...)
	value := n.value.Predict(board)[0]
	n.mu.Unlock()

	// The value head is unbounded regression; clamp to the contract range.
	value = math.Max(-1, math.Min(1, value))
	return policy, value, nil
}

// TrainStep performs one optimization step on the batch at the given
// learning rate and returns the combined loss (policy cross-entropy plus
// value mean-squared error) measured after the update.
func (n *Network) TrainStep(batch []replay.Example, lr float64) (float64, error) {
	if len(batch) == 0 {
		return 0, fmt.Errorf("empty batch")
	}

	policyExamples := make(training.Examples, len(batch))
	valueExamples := make(training.Examples, len(batch))
	for i, ex := range batch {
		policyExamples[i] = training.Example{Input: ex.Board, Response: ex.Policy}
		valueExamples[i] = training.Example{Input: ex.Board, Response: []float64{ex.Value}}
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	trainer := training.NewTrainer(training.NewSGD(lr, 0.9, 1e-6, true), 0)
	trainer.Train(n.policy, policyExamples, nil, 1)
	trainer = training.NewTrainer(training.NewSGD(lr, 0.9, 1e-6, true), 0)
	trainer.Train(n.value, valueExamples, nil, 1)

	return n.loss(batch), nil
}

// loss computes policy cross-entropy plus value MSE averaged over the batch.
// Caller holds the mutex.
func (n *Network) loss(batch []replay.Example) float64 {
	const eps = 1e-8
	total := 0.0
	for _, ex := range batch {
		predicted := n.policy.Predict(ex.Board)
		ce := 0.0
		for i, target := range ex.Policy {
			if target > 0 {
				ce -= target * math.Log(predicted[i]+eps)
			}
		}
		v := n.value.Predict(ex.Board)[0]
		total += ce + (ex.Value-v)*(ex.Value-v)
	}
	return total / float64(len(batch))
}

// Clone returns an independent copy with the same weights, used as the
// training candidate while the incumbent keeps serving self-play and arena
// games.
func (n *Network) Clone() *Network {
	n.mu.Lock()
	defer n.mu.Unlock()

	return &Network{
		cfg:       n.cfg,
		policy:    deep.FromDump(n.policy.Dump()),
		value:     deep.FromDump(n.value.Dump()),
		Iteration: n.Iteration,
	}
}
