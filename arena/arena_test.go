package arena

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nagi-ovo/alphazero-gomoku/game"
)

// brokenPlayer always proposes the same cell, legal or not.
type brokenPlayer struct{ action int }

func (p brokenPlayer) Name() string { return "broken" }

func (p brokenPlayer) ChooseAction(*game.State) (int, error) { return p.action, nil }

func TestGreedyChoosesLongestLine(t *testing.T) {
	s := game.NewState(9)
	var err error
	// Black: three in a row on row 4. White: two on row 0.
	for _, a := range []int{s.Action(4, 2), s.Action(0, 0), s.Action(4, 3), s.Action(0, 1), s.Action(4, 4), s.Action(0, 2)} {
		s, err = s.Play(a)
		require.NoError(t, err)
	}
	require.Equal(t, game.Black, s.ToMove)

	action, err := GreedyPlayer{}.ChooseAction(s)
	require.NoError(t, err)
	// Both extensions make four; the lower index wins the tie.
	assert.Equal(t, s.Action(4, 1), action)
}

func TestGreedyOpeningIsLowestIndex(t *testing.T) {
	action, err := GreedyPlayer{}.ChooseAction(game.NewState(9))
	require.NoError(t, err)
	assert.Equal(t, 0, action, "every opening makes a line of one; index 0 wins the tie")
}

func TestRandomPlayerIsLegal(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	p := &RandomPlayer{Rng: rng}
	s := game.NewState(5)
	var err error
	for i := 0; i < 10; i++ {
		action, err2 := p.ChooseAction(s)
		require.NoError(t, err2)
		s, err = s.Play(action)
		require.NoError(t, err, "random player must only propose legal actions")
	}
}

func TestEvaluateDeterministicScriptedPlayers(t *testing.T) {
	first, err := Evaluate(GreedyPlayer{}, GreedyPlayer{}, 9, 6)
	require.NoError(t, err)
	assert.Equal(t, 6, first.WinsA+first.WinsB+first.Draws)

	second, err := Evaluate(GreedyPlayer{}, GreedyPlayer{}, 9, 6)
	require.NoError(t, err)
	assert.Equal(t, first, second, "deterministic players must reproduce the tally exactly")
}

func TestEvaluateSeededRandomIsReproducible(t *testing.T) {
	run := func(seed int64) (Tally, error) {
		return Evaluate(&RandomPlayer{Rng: rand.New(rand.NewSource(seed))}, GreedyPlayer{}, 9, 4)
	}

	first, err := run(11)
	require.NoError(t, err)
	second, err := run(11)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEvaluateAlternatesFirstMover(t *testing.T) {
	// Greedy beats random nearly always; played both ways the tally must
	// credit the greedy side regardless of who opened.
	tally, err := Evaluate(GreedyPlayer{}, &RandomPlayer{Rng: rand.New(rand.NewSource(2))}, 9, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, tally.WinsA+tally.WinsB+tally.Draws)
	assert.Greater(t, tally.WinsA, tally.WinsB)
}

func TestIllegalActionIsFatal(t *testing.T) {
	_, err := Evaluate(brokenPlayer{action: 0}, brokenPlayer{action: 0}, 5, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, game.ErrIllegalMove)
	assert.True(t, strings.Contains(err.Error(), "broken"))
}

func TestPromotionThreshold(t *testing.T) {
	cases := []struct {
		cand, inc int
		threshold float64
		want      bool
	}{
		{cand: 6, inc: 4, threshold: 0.55, want: true},
		{cand: 11, inc: 9, threshold: 0.55, want: false}, // exactly at threshold retains incumbent
		{cand: 5, inc: 5, threshold: 0.55, want: false},
		{cand: 0, inc: 0, threshold: 0.55, want: false}, // all draws retain incumbent
		{cand: 1, inc: 0, threshold: 0.55, want: true},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("%d-%d", tc.cand, tc.inc), func(t *testing.T) {
			assert.Equal(t, tc.want, Promoted(tc.cand, tc.inc, tc.threshold))
		})
	}
}
