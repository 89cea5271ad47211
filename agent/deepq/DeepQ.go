// Package deepq implements a deep Q-learning agent with an epsilon
// greedy behaviour policy, an experience replay buffer, and a target
// network that is synchronized with the online network on request.
package deepq

import (
	"fmt"
	"log"
	"math"
	"path/filepath"

	env "github.com/Mugna0990/RL-Car-Navigation-from-scratch/environment"
	"github.com/Mugna0990/RL-Car-Navigation-from-scratch/expreplay"
	"github.com/Mugna0990/RL-Car-Navigation-from-scratch/network"
	ts "github.com/Mugna0990/RL-Car-Navigation-from-scratch/timestep"
	"github.com/Mugna0990/RL-Car-Navigation-from-scratch/utils/floatutils"
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Directories, relative to a save directory, holding each network
const (
	OnlineDir = "q_network"
	TargetDir = "target_q_network"
)

// DeepQ implements the deep Q-learning algorithm with the MSE loss.
//
// The online network selects actions and is trained on batches sampled
// from the replay buffer. The target network provides the update target
// r + γ * max_a' Q_target(s', a') and only changes when
// UpdateTargetNetwork copies the online network into it.
type DeepQ struct {
	online *network.Network
	target *network.Network
	replay *expreplay.Buffer

	epsilon      float64
	epsilonDecay float64
	minEpsilon   float64
	discount     float64
	numActions   int
	batchSize    int

	explore distuv.Bernoulli
	actions distuv.Categorical

	eval bool // Whether or not in evaluation mode
}

// seeds derives the seeds of the weight initializer, the replay
// sampler and the exploration policy from a single agent seed
func seeds(seed uint64) (initSeed, replaySeed, exploreSeed uint64) {
	rng := rand.New(rand.NewSource(seed))
	return rng.Uint64(), rng.Uint64(), rng.Uint64()
}

// New creates and returns a new DeepQ agent for environment e. The
// target network starts as an exact copy of the online network.
func New(e env.Environment, c Config, seed uint64) (*DeepQ, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	numActions, err := e.ActionSpec().NumActions()
	if err != nil {
		return nil, errors.Wrap(err, "new")
	}
	features := e.ObservationSpec().Features()

	sizes := make([]int, 0, len(c.HiddenLayers)+2)
	sizes = append(sizes, features)
	sizes = append(sizes, c.HiddenLayers...)
	sizes = append(sizes, numActions)

	initSeed, replaySeed, exploreSeed := seeds(seed)

	online, err := network.New(sizes, c.InitWFn, c.Solver, initSeed)
	if err != nil {
		return nil, errors.Wrap(err, "new: could not create online network")
	}

	replay, err := c.ExpReplay.Create(replaySeed)
	if err != nil {
		return nil, errors.Wrap(err, "new: could not create experience "+
			"replay buffer")
	}

	source := rand.NewSource(exploreSeed)
	weights := make([]float64, numActions)
	for i := range weights {
		weights[i] = 1.0
	}

	return &DeepQ{
		online:       online,
		target:       online.Clone(),
		replay:       replay,
		epsilon:      c.Epsilon,
		epsilonDecay: c.EpsilonDecay,
		minEpsilon:   c.MinEpsilon,
		discount:     c.Discount,
		numActions:   numActions,
		batchSize:    c.BatchSize,
		explore:      distuv.Bernoulli{P: c.Epsilon, Src: source},
		actions:      distuv.NewCategorical(weights, source),
	}, nil
}

// SelectAction returns an action for the state with feature vector
// state. With probability epsilon the action is chosen uniformly at
// random, otherwise the action with the largest online Q-value is
// chosen, breaking ties by the lowest index. In evaluation mode the
// greedy action is always returned.
func (d *DeepQ) SelectAction(state []float64) int {
	if !d.eval && d.explore.Rand() == 1 {
		return int(d.actions.Rand())
	}
	return d.Greedy(state)
}

// Greedy returns the action with the largest online Q-value in state
func (d *DeepQ) Greedy(state []float64) int {
	return floatutils.Argmax(d.online.Forward(state))
}

// StoreTransition adds a transition to the replay buffer
func (d *DeepQ) StoreTransition(state []float64, action int, reward float64,
	nextState []float64, done bool) {
	d.replay.Add(ts.NewTransition(state, action, reward, nextState, done))
}

// ExperienceReplay samples batchSize transitions from the replay buffer
// and performs a single learning step on the online network. If the
// buffer holds fewer than batchSize transitions nothing happens. The
// average batch loss and whether learning took place are returned.
func (d *DeepQ) ExperienceReplay(batchSize int) (float64, bool) {
	if batchSize < 1 || d.replay.Len() < batchSize {
		return 0, false
	}

	transitions, err := d.replay.Sample(batchSize)
	if err != nil {
		log.Printf("warning: experienceReplay: %v", err)
		return 0, false
	}

	batch := make([]network.Sample, len(transitions))
	for i, t := range transitions {
		batch[i] = network.Sample{
			Transition: t,
			Target:     d.tdTarget(t),
		}
	}

	return d.online.Learn(batch), true
}

// tdTarget returns r + γ * max_a' Q_target(s', a'), or r for terminal
// transitions
func (d *DeepQ) tdTarget(t ts.Transition) float64 {
	if t.Done {
		return t.Reward
	}
	return t.Reward + d.discount*floatutils.Max(d.target.Forward(t.NextState)...)
}

// Step performs a single experience replay step with the configured
// batch size
func (d *DeepQ) Step() (float64, bool) {
	return d.ExperienceReplay(d.batchSize)
}

// TdError calculates the TD error generated by the learner on some
// transition.
func (d *DeepQ) TdError(t ts.Transition) float64 {
	q := d.online.Forward(t.State)
	if t.Action < 0 || t.Action >= len(q) {
		return math.NaN()
	}
	return d.tdTarget(t) - q[t.Action]
}

// UpdateTargetNetwork overwrites the target network's weights, biases,
// and optimizer state with those of the online network
func (d *DeepQ) UpdateTargetNetwork() {
	if err := d.target.Set(d.online); err != nil {
		panic(fmt.Sprintf("updateTargetNetwork: %v", err))
	}
}

// Epsilon returns the current exploration rate
func (d *DeepQ) Epsilon() float64 {
	return d.epsilon
}

// SetEpsilon sets the exploration rate, clipped to [0, 1]
func (d *DeepQ) SetEpsilon(ε float64) {
	d.epsilon = floatutils.Clip(ε, 0, 1)
	d.explore.P = d.epsilon
}

// DecayEpsilon multiplies epsilon by the decay rate, never letting it
// fall below the minimum epsilon
func (d *DeepQ) DecayEpsilon() {
	d.SetEpsilon(math.Max(d.epsilon*d.epsilonDecay, d.minEpsilon))
}

// EndEpisode decays epsilon at the end of an episode
func (d *DeepQ) EndEpisode() {
	d.DecayEpsilon()
}

// Online returns the online network
func (d *DeepQ) Online() *network.Network {
	return d.online
}

// Target returns the target network
func (d *DeepQ) Target() *network.Network {
	return d.target
}

// Replay returns the experience replay buffer
func (d *DeepQ) Replay() *expreplay.Buffer {
	return d.replay
}

// Save saves the online and target networks into the q_network and
// target_q_network subdirectories of dir
func (d *DeepQ) Save(dir string) error {
	if err := d.online.Save(filepath.Join(dir, OnlineDir)); err != nil {
		return errors.Wrap(err, "save: online network")
	}
	if err := d.target.Save(filepath.Join(dir, TargetDir)); err != nil {
		return errors.Wrap(err, "save: target network")
	}
	return nil
}

// Load loads the online and target networks from dir. Both networks
// are always attempted; networks or layers that cannot be loaded keep
// their current values and the first error is returned.
func (d *DeepQ) Load(dir string) error {
	onlineErr := d.online.Load(filepath.Join(dir, OnlineDir))
	targetErr := d.target.Load(filepath.Join(dir, TargetDir))

	if onlineErr != nil {
		return errors.Wrap(onlineErr, "load: online network")
	}
	if targetErr != nil {
		return errors.Wrap(targetErr, "load: target network")
	}
	return nil
}

// Eval sets the agent into evaluation mode
func (d *DeepQ) Eval() {
	d.eval = true
}

// Train sets the agent into training mode
func (d *DeepQ) Train() {
	d.eval = false
}

// IsEval returns whether the agent is in evaluation mode
func (d *DeepQ) IsEval() bool {
	return d.eval
}

// String implements the fmt.Stringer interface
func (d *DeepQ) String() string {
	return fmt.Sprintf("DeepQ | Layers: %v  |  ε: %.4f  |  γ: %v  |  "+
		"Replay: %d/%d", d.online.Sizes(), d.epsilon, d.discount,
		d.replay.Len(), d.replay.Capacity())
}
