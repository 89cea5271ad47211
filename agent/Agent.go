// Package agent defines an agent interface
package agent

// Agent determines the implementation details of an agent or algorithm
//
// An Agent is composed of a Learner, which learns weights, and a Policy
// which chooses actions in each state. The Policy chooses which actions
// are taken, and the Learner uses these actions to update the Policy.
type Agent interface {
	Learner
	Policy
}

// Learner implements a learning algorithm that defines how weights are
// updated.
type Learner interface {
	// StoreTransition records the transition from state to nextState
	// under action for later learning
	StoreTransition(state []float64, action int, reward float64,
		nextState []float64, done bool)

	// Step performs a single update to the learner, returning the
	// training loss and whether an update was performed
	Step() (float64, bool)

	// EndEpisode performs bookkeeping at the end of an episode
	EndEpisode()
}

// Policy represents a policy that an agent can have.
//
// Policies determine how agents select actions from the feature vector
// of the current state.
type Policy interface {
	SelectAction(state []float64) int
	Eval()        // Set policy to evaluation mode
	Train()       // Set policy to training mode
	IsEval() bool // Indicates if in evaluation mode
}

// Saver is an Agent whose learned state can be saved to and loaded
// from a directory
type Saver interface {
	Agent
	Save(dir string) error
	Load(dir string) error
}

// TargetSyncer is an Agent with a target network that is synchronized
// with its online network on request
type TargetSyncer interface {
	Agent
	UpdateTargetNetwork()
}
