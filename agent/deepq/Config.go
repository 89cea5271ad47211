package deepq

import (
	"fmt"

	"github.com/Mugna0990/RL-Car-Navigation-from-scratch/agent"
	env "github.com/Mugna0990/RL-Car-Navigation-from-scratch/environment"
	"github.com/Mugna0990/RL-Car-Navigation-from-scratch/expreplay"
	"github.com/Mugna0990/RL-Car-Navigation-from-scratch/initwfn"
	"github.com/Mugna0990/RL-Car-Navigation-from-scratch/solver"
)

func init() {
	// Register Config type so that it can be typed using
	// agent.TypedConfig to help with serialization/deserialization.
	agent.Register(agent.EGreedyDeepQMLP, Config{})
}

// Config implements a configuration for a DeepQ agent
type Config struct {
	HiddenLayers []int          // Hidden layer sizes in the neural net
	Solver       *solver.Solver // Solver for learning weights

	// Initialization algorithm for weights
	InitWFn *initwfn.InitWFn

	// Behaviour policy epsilon, decayed once per episode by
	// EpsilonDecay down to MinEpsilon
	Epsilon      float64
	EpsilonDecay float64
	MinEpsilon   float64

	Discount float64

	// Experience replay parameters
	ExpReplay expreplay.Config
	BatchSize int
}

// DefaultConfig returns the default configuration of a DeepQ agent
func DefaultConfig() Config {
	s, err := solver.NewDefaultAdam(0.001)
	if err != nil {
		panic(fmt.Sprintf("defaultConfig: %v", err))
	}

	return Config{
		HiddenLayers: []int{128, 64},
		Solver:       s,
		InitWFn:      initwfn.NewDefaultHeN(),
		Epsilon:      1.0,
		EpsilonDecay: 0.999,
		MinEpsilon:   0.01,
		Discount:     0.99,
		ExpReplay:    expreplay.Config{Capacity: 10000},
		BatchSize:    32,
	}
}

// Type returns the type of the configuration
func (c Config) Type() agent.Type {
	return agent.EGreedyDeepQMLP
}

// Validate checks a Config to ensure it is a valid configuration of a
// DeepQ agent.
func (c Config) Validate() error {
	for i, size := range c.HiddenLayers {
		if size < 1 {
			return fmt.Errorf("validate: hidden layer %d must have at least "+
				"one unit\n\twant(>= 1)\n\thave(%v)", i, size)
		}
	}

	if c.Solver == nil {
		return fmt.Errorf("validate: no solver specified")
	}
	if err := c.Solver.Validate(); err != nil {
		return err
	}
	if c.InitWFn == nil {
		return fmt.Errorf("validate: no weight initializer specified")
	}

	if c.Epsilon < 0 || c.Epsilon > 1 {
		return fmt.Errorf("validate: epsilon out of range"+
			"\n\twant([0, 1])\n\thave(%v)", c.Epsilon)
	}
	if c.MinEpsilon < 0 || c.MinEpsilon > 1 {
		return fmt.Errorf("validate: minimum epsilon out of range"+
			"\n\twant([0, 1])\n\thave(%v)", c.MinEpsilon)
	}
	if c.EpsilonDecay <= 0 || c.EpsilonDecay > 1 {
		return fmt.Errorf("validate: epsilon decay out of range"+
			"\n\twant((0, 1])\n\thave(%v)", c.EpsilonDecay)
	}
	if c.Discount < 0 || c.Discount > 1 {
		return fmt.Errorf("validate: discount out of range"+
			"\n\twant([0, 1])\n\thave(%v)", c.Discount)
	}

	if err := c.ExpReplay.Validate(); err != nil {
		return err
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("validate: batch size must be positive"+
			"\n\twant(>= 1)\n\thave(%v)", c.BatchSize)
	}
	if c.BatchSize > c.ExpReplay.Capacity {
		return fmt.Errorf("validate: batch size larger than replay "+
			"capacity\n\twant(<= %v)\n\thave(%v)", c.ExpReplay.Capacity,
			c.BatchSize)
	}

	return nil
}

// ValidAgent returns whether the agent is valid for the configuration.
// That is, whether Agent a can be constructed with Config c.
func (c Config) ValidAgent(a agent.Agent) bool {
	_, ok := a.(*DeepQ)
	return ok
}

// CreateAgent creates a new DeepQ agent based on the configuration
func (c Config) CreateAgent(e env.Environment, seed uint64) (agent.Agent,
	error) {
	d, err := New(e, c, seed)
	if err != nil {
		return nil, err
	}
	return d, nil
}
