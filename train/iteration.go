package train

import (
	"fmt"
	"math/rand"

	"github.com/rs/zerolog/log"

	"github.com/Nagi-ovo/alphazero-gomoku/replay"
)

// Stepper is the slice of the oracle contract the optimization loop needs:
// one gradient step on a batch at a given learning rate, applied by the
// collaborator, returning the combined policy/value loss.
type Stepper interface {
	TrainStep(batch []replay.Example, lr float64) (float64, error)
}

// RunIteration runs epochs passes of batched optimization over the buffer.
// The learning rate follows the schedule by global step count across the
// whole iteration. Returns the mean loss over all steps.
func RunIteration(buf *replay.Buffer, o Stepper, epochs, batchSize int, sched *OneCycle, rng *rand.Rand) (float64, error) {
	if buf.Len() < batchSize {
		return 0, fmt.Errorf("%w: have %d examples, want at least %d", replay.ErrInsufficientData, buf.Len(), batchSize)
	}

	stepsPerEpoch := buf.Len() / batchSize
	if stepsPerEpoch < 1 {
		stepsPerEpoch = 1
	}

	totalLoss := 0.0
	step := 0
	for epoch := 0; epoch < epochs; epoch++ {
		epochLoss := 0.0
		for i := 0; i < stepsPerEpoch; i++ {
			batch, err := buf.Sample(rng, batchSize)
			if err != nil {
				return 0, err
			}
			lr := sched.LR(step)
			loss, err := o.TrainStep(batch, lr)
			if err != nil {
				return 0, fmt.Errorf("train step %d: %w", step, err)
			}
			totalLoss += loss
			epochLoss += loss
			step++
		}
		log.Debug().
			Int("epoch", epoch).
			Float64("loss", epochLoss/float64(stepsPerEpoch)).
			Float64("lr", sched.LR(step-1)).
			Msg("epoch finished")
	}

	return totalLoss / float64(step), nil
}

// TotalSteps returns the number of optimization steps RunIteration will
// take, for sizing the schedule.
func TotalSteps(bufferLen, epochs, batchSize int) int {
	stepsPerEpoch := bufferLen / batchSize
	if stepsPerEpoch < 1 {
		stepsPerEpoch = 1
	}
	return stepsPerEpoch * epochs
}
