// Package environment outlines the interfaces and sturcts needed to implement
// concrete environments
package environment

import (
	"github.com/Mugna0990/RL-Car-Navigation-from-scratch/timestep"
)

// Ender determines when an episode should end early, independently of
// the environment reaching a terminal state
type Ender interface {
	// End returns whether the episode should end at t, in which case
	// the StepType of t is set to timestep.Last
	End(t *timestep.TimeStep) bool
}

// Environment implements a simulated environment that agents interact
// with through a fixed-length feature vector, a discrete action index,
// and a scalar reward.
type Environment interface {
	// Reset starts a new episode and returns its first timestep
	Reset() timestep.TimeStep

	// Step applies the action and returns the resulting timestep. The
	// returned bool reports whether a terminal state was reached. An
	// episode may also end without reaching a terminal state, for
	// example at a step limit, in which case the returned timestep is
	// Last but the bool is false.
	Step(action int) (timestep.TimeStep, bool, error)

	ObservationSpec() Spec
	ActionSpec() Spec
}
