// Package train sequences optimization over replay data and orchestrates
// the generate / train / evaluate cycle.
package train

import "math"

// OneCycle is a cyclical learning-rate schedule: the rate rises linearly
// from Min to Max over the first half of the total steps, then decays back
// toward Min along a cosine over the second half. Position is a function of
// the global step across a whole iteration, never reset per epoch.
type OneCycle struct {
	Min        float64
	Max        float64
	TotalSteps int
}

// NewOneCycle builds a schedule over the given number of steps.
func NewOneCycle(min, max float64, totalSteps int) *OneCycle {
	if totalSteps < 1 {
		totalSteps = 1
	}
	return &OneCycle{Min: min, Max: max, TotalSteps: totalSteps}
}

// LR returns the learning rate for a zero-based global step. Steps past the
// end of the cycle stay at Min.
func (s *OneCycle) LR(step int) float64 {
	if step >= s.TotalSteps-1 {
		return s.Min
	}
	half := float64(s.TotalSteps-1) / 2
	pos := float64(step)
	if pos <= half {
		if half == 0 {
			return s.Max
		}
		return s.Min + (s.Max-s.Min)*(pos/half)
	}
	frac := (pos - half) / half
	return s.Min + (s.Max-s.Min)*(1+math.Cos(math.Pi*frac))/2
}
