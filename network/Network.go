// Package network implements a multilayer feed forward neural network
// whose gradients are derived by hand and whose layers are trained
// one sample at a time with per layer Adam optimizers.
package network

import (
	"fmt"
	"log"
	"os"

	"github.com/Mugna0990/RL-Car-Navigation-from-scratch/initwfn"
	"github.com/Mugna0990/RL-Car-Navigation-from-scratch/solver"
	ts "github.com/Mugna0990/RL-Car-Navigation-from-scratch/timestep"
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
)

// Sample is a single training example for Learn: a transition together
// with the regression target for the Q-value of its action.
type Sample struct {
	ts.Transition
	Target float64
}

// Network implements a multilayer perceptron. All layers but the last
// use ReLU activations; the last layer is linear and produces one
// output per action.
type Network struct {
	layers []*Layer
}

// New returns a new Network whose layer widths are given by sizes, so
// that sizes[0] is the number of inputs and sizes[len(sizes)-1] the
// number of outputs. Weights are initialized using init seeded with
// seed and every layer receives its own optimizer described by s.
func New(sizes []int, init *initwfn.InitWFn, s *solver.Solver,
	seed uint64) (*Network, error) {
	if len(sizes) < 2 {
		return nil, fmt.Errorf("new: network needs input and output sizes"+
			"\n\twant(>= 2)\n\thave(%v)", len(sizes))
	}
	if err := s.Validate(); err != nil {
		return nil, errors.Wrap(err, "new")
	}

	initFn := init.InitWFn(rand.NewSource(seed))

	layers := make([]*Layer, len(sizes)-1)
	for i := range layers {
		outputLayer := i == len(layers)-1
		layer, err := NewLayer(i, sizes[i], sizes[i+1], outputLayer, initFn,
			s.Config)
		if err != nil {
			return nil, errors.Wrapf(err, "new: layer %d", i)
		}
		layers[i] = layer
	}

	return &Network{layers: layers}, nil
}

// Forward returns the outputs of the network for input
func (n *Network) Forward(input []float64) []float64 {
	out := input
	for _, layer := range n.layers {
		out = layer.Forward(out)
	}
	return out
}

// Learn performs a single learning step on batch. Gradients are reset,
// each sample is forwarded and back propagated in turn, and then every
// layer takes exactly one optimizer step. Samples whose action is out
// of range contribute nothing. The average squared error loss over the
// contributing samples is returned. An empty batch is a no-op.
func (n *Network) Learn(batch []Sample) float64 {
	if len(batch) == 0 {
		return 0
	}

	for _, layer := range n.layers {
		layer.ResetGradients()
	}

	last := len(n.layers) - 1
	var loss float64
	var count int
	for _, sample := range batch {
		q := n.Forward(sample.State)

		var lossDerivative float64
		if sample.Action >= 0 && sample.Action < len(q) {
			lossDerivative = q[sample.Action] - sample.Target
		}

		// Out of range actions are logged and skipped
		delta, ok := n.layers[last].outputLayerDelta(lossDerivative,
			sample.Action)
		if !ok {
			continue
		}
		for i := last - 1; i >= 0; i-- {
			delta = n.layers[i].HiddenLayerDelta(n.layers[i+1], delta)
		}

		loss += 0.5 * lossDerivative * lossDerivative
		count++
	}

	for _, layer := range n.layers {
		layer.Update()
	}

	if count == 0 {
		return 0
	}
	return loss / float64(count)
}

// Layers returns the layers of the network in order
func (n *Network) Layers() []*Layer {
	return n.layers
}

// Sizes returns the layer widths of the network, beginning with the
// number of inputs
func (n *Network) Sizes() []int {
	sizes := make([]int, 0, len(n.layers)+1)
	nIn, _ := n.layers[0].Dims()
	sizes = append(sizes, nIn)
	for _, layer := range n.layers {
		_, nOut := layer.Dims()
		sizes = append(sizes, nOut)
	}
	return sizes
}

// Outputs returns the number of outputs of the network
func (n *Network) Outputs() int {
	_, nOut := n.layers[len(n.layers)-1].Dims()
	return nOut
}

// Clone returns a deep copy of the network which shares no storage
// with n
func (n *Network) Clone() *Network {
	layers := make([]*Layer, len(n.layers))
	for i, layer := range n.layers {
		layers[i] = layer.Clone()
	}
	return &Network{layers: layers}
}

// Set overwrites all parameters and optimizer state of n with those of
// source. Both networks must have the same architecture.
func (n *Network) Set(source *Network) error {
	if !sameSizes(n.Sizes(), source.Sizes()) {
		return fmt.Errorf("set: architectures differ"+
			"\n\twant(%v)\n\thave(%v)", n.Sizes(), source.Sizes())
	}
	for i := range n.layers {
		if err := n.layers[i].Set(source.layers[i]); err != nil {
			return err
		}
	}
	return nil
}

func sameSizes(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Save saves every layer into dir, creating dir if needed. Failing to
// create dir is returned as an error. Failures to write an individual
// layer are logged and the remaining layers are still saved.
func (n *Network) Save(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "save")
	}

	for _, layer := range n.layers {
		if err := layer.Save(dir); err != nil {
			log.Printf("warning: %v", err)
		}
	}
	return nil
}

// Load loads every layer from dir. Layers that cannot be loaded are
// logged and keep their current values. The first error encountered is
// returned so that callers may report it, but the network is always
// left in a usable state.
func (n *Network) Load(dir string) error {
	if _, err := os.Stat(dir); err != nil {
		log.Printf("warning: load: %v", err)
		return errors.Wrap(err, "load")
	}

	var first error
	for _, layer := range n.layers {
		if err := layer.Load(dir); err != nil {
			log.Printf("warning: %v", err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}
