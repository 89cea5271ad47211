package timestep

import "fmt"

// Transition is a single (s, a, r, s', done) record of the
// agent-environment interaction. Transitions own their state slices:
// constructors and Clone copy the feature vectors so that a Transition
// is never aliased with environment or buffer storage.
type Transition struct {
	State     []float64
	Action    int
	Reward    float64
	NextState []float64
	Done      bool
}

// NewTransition returns a new Transition holding copies of state and
// nextState
func NewTransition(state []float64, action int, reward float64,
	nextState []float64, done bool) Transition {
	return Transition{
		State:     copyFloats(state),
		Action:    action,
		Reward:    reward,
		NextState: copyFloats(nextState),
		Done:      done,
	}
}

// Clone returns a deep copy of the Transition
func (t Transition) Clone() Transition {
	return NewTransition(t.State, t.Action, t.Reward, t.NextState, t.Done)
}

func (t Transition) String() string {
	return fmt.Sprintf("Transition | S: %v  |  A: %v  |  R: %.2f  |  S': %v"+
		"  |  Done: %v", t.State, t.Action, t.Reward, t.NextState, t.Done)
}

func copyFloats(in []float64) []float64 {
	if in == nil {
		return nil
	}
	out := make([]float64, len(in))
	copy(out, in)
	return out
}
