package network

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/Mugna0990/RL-Car-Navigation-from-scratch/initwfn"
	"github.com/Mugna0990/RL-Car-Navigation-from-scratch/solver"
	"github.com/Mugna0990/RL-Car-Navigation-from-scratch/utils/matutils"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Layer implements a fully connected layer of a feed forward neural
// network. Weights are stored as an nIn x nOut matrix where row i holds
// the weights leaving input i. Every Layer owns the Adam optimizer that
// updates its parameters.
//
// Gradients are accumulated over the samples of a batch by the
// OutputLayerDelta and HiddenLayerDelta methods and applied with Update.
type Layer struct {
	index int
	nIn   int
	nOut  int
	act   *Activation

	weights *mat.Dense
	biases  *mat.VecDense

	weightGrads *mat.Dense
	biasGrads   *mat.VecDense

	// Cached from the last forward pass
	input  *mat.VecDense
	output *mat.VecDense

	deltas []float64
	solver *solver.Adam
}

// NewLayer returns a new fully connected layer with nIn inputs and nOut
// outputs. Weights are initialized with init and biases are set to 0.
// Output layers use the identity activation, all others use ReLU. The
// index identifies the layer's files when saving and loading.
func NewLayer(index, nIn, nOut int, outputLayer bool, init initwfn.Fn,
	s solver.Config) (*Layer, error) {
	if nIn < 1 || nOut < 1 {
		return nil, fmt.Errorf("newLayer: layer dimensions must be positive"+
			"\n\twant(>= 1 x >= 1)\n\thave(%v x %v)", nIn, nOut)
	}

	weights := make([]float64, nIn*nOut)
	init(weights, nIn, nOut)

	act := ReLU()
	if outputLayer {
		act = Identity()
	}

	return &Layer{
		index:       index,
		nIn:         nIn,
		nOut:        nOut,
		act:         act,
		weights:     mat.NewDense(nIn, nOut, weights),
		biases:      mat.NewVecDense(nOut, nil),
		weightGrads: mat.NewDense(nIn, nOut, nil),
		biasGrads:   mat.NewVecDense(nOut, nil),
		input:       mat.NewVecDense(nIn, nil),
		output:      mat.NewVecDense(nOut, nil),
		deltas:      make([]float64, nOut),
		solver:      s.Create(nIn, nOut),
	}, nil
}

// Forward computes the output of the layer for input, caching both the
// input and output for the backward pass. The returned slice is a copy.
func (l *Layer) Forward(input []float64) []float64 {
	if len(input) != l.nIn {
		panic(fmt.Sprintf("forward: layer %d input size mismatch"+
			"\n\twant(%v)\n\thave(%v)", l.index, l.nIn, len(input)))
	}
	copy(l.input.RawVector().Data, input)

	l.output.MulVec(l.weights.T(), l.input)
	l.output.AddVec(l.output, l.biases)
	l.act.fwd(l.output.RawVector().Data)

	out := make([]float64, l.nOut)
	copy(out, l.output.RawVector().Data)
	return out
}

// OutputLayerDelta computes the error signal of the output layer when
// only the output at action contributed to the loss, and accumulates it
// into the gradients. The returned vector is zero everywhere except at
// action, where it equals lossDerivative. If action is out of range a
// warning is logged and a zero vector is returned without touching the
// gradients.
func (l *Layer) OutputLayerDelta(lossDerivative float64, action int) []float64 {
	delta, _ := l.outputLayerDelta(lossDerivative, action)
	return delta
}

func (l *Layer) outputLayerDelta(lossDerivative float64,
	action int) ([]float64, bool) {
	for i := range l.deltas {
		l.deltas[i] = 0
	}
	if action < 0 || action >= l.nOut {
		log.Printf("warning: outputLayerDelta: action %d out of range "+
			"[0, %d), sample skipped", action, l.nOut)
		return make([]float64, l.nOut), false
	}
	l.deltas[action] = lossDerivative

	l.biasGrads.SetVec(action, l.biasGrads.AtVec(action)+lossDerivative)
	for i := 0; i < l.nIn; i++ {
		g := l.weightGrads.At(i, action) + l.input.AtVec(i)*lossDerivative
		l.weightGrads.Set(i, action, g)
	}

	delta := make([]float64, l.nOut)
	copy(delta, l.deltas)
	return delta, true
}

// HiddenLayerDelta back propagates the error signal nextDeltas of the
// following layer next through this layer and accumulates the
// resulting gradients. The activation derivative is evaluated at the
// cached output of the last forward pass.
func (l *Layer) HiddenLayerDelta(next *Layer, nextDeltas []float64) []float64 {
	if next.nIn != l.nOut || len(nextDeltas) != next.nOut {
		panic(fmt.Sprintf("hiddenLayerDelta: layer %d cannot receive "+
			"deltas from layer %d", l.index, next.index))
	}

	deltas := mat.NewVecDense(l.nOut, l.deltas)
	deltas.MulVec(next.weights, mat.NewVecDense(len(nextDeltas), nextDeltas))
	for i := range l.deltas {
		l.deltas[i] *= l.act.Deriv(l.output.AtVec(i))
	}

	l.accumulate(deltas)

	delta := make([]float64, l.nOut)
	copy(delta, l.deltas)
	return delta
}

// accumulate adds the gradients generated by deltas to the gradient
// accumulators
func (l *Layer) accumulate(deltas *mat.VecDense) {
	l.biasGrads.AddVec(l.biasGrads, deltas)
	l.weightGrads.RankOne(l.weightGrads, 1.0, l.input, deltas)
}

// Update performs one optimizer step with the accumulated gradients and
// then zeroes them.
func (l *Layer) Update() {
	l.solver.Optimize(l.weights, l.biases, l.weightGrads, l.biasGrads)
	l.ResetGradients()
}

// ResetGradients zeroes the gradient accumulators
func (l *Layer) ResetGradients() {
	l.weightGrads.Zero()
	l.biasGrads.Zero()
}

// Weights returns the weights of the layer. The returned matrix shares
// storage with the layer.
func (l *Layer) Weights() *mat.Dense {
	return l.weights
}

// Biases returns the biases of the layer. The returned vector shares
// storage with the layer.
func (l *Layer) Biases() *mat.VecDense {
	return l.biases
}

// Gradients returns the accumulated weight and bias gradients
func (l *Layer) Gradients() (*mat.Dense, *mat.VecDense) {
	return l.weightGrads, l.biasGrads
}

// SetParams copies weights and biases into the layer
func (l *Layer) SetParams(weights *mat.Dense, biases *mat.VecDense) error {
	r, c := weights.Dims()
	if r != l.nIn || c != l.nOut || biases.Len() != l.nOut {
		return fmt.Errorf("setParams: parameter shape mismatch"+
			"\n\twant(%v x %v, %v)\n\thave(%v x %v, %v)", l.nIn, l.nOut,
			l.nOut, r, c, biases.Len())
	}
	l.weights.Copy(weights)
	l.biases.CopyVec(biases)
	return nil
}

// Solver returns the optimizer of the layer
func (l *Layer) Solver() *solver.Adam {
	return l.solver
}

// Dims returns the number of inputs and outputs of the layer
func (l *Layer) Dims() (int, int) {
	return l.nIn, l.nOut
}

// Activation returns the activation of the layer
func (l *Layer) Activation() *Activation {
	return l.act
}

// Clone returns a deep copy of the layer, including its optimizer state
func (l *Layer) Clone() *Layer {
	deltas := make([]float64, l.nOut)
	copy(deltas, l.deltas)

	return &Layer{
		index:       l.index,
		nIn:         l.nIn,
		nOut:        l.nOut,
		act:         l.act,
		weights:     mat.DenseCopyOf(l.weights),
		biases:      mat.VecDenseCopyOf(l.biases),
		weightGrads: mat.DenseCopyOf(l.weightGrads),
		biasGrads:   mat.VecDenseCopyOf(l.biasGrads),
		input:       mat.VecDenseCopyOf(l.input),
		output:      mat.VecDenseCopyOf(l.output),
		deltas:      deltas,
		solver:      l.solver.Clone(),
	}
}

// Set copies the parameters and optimizer state of source into l
func (l *Layer) Set(source *Layer) error {
	if err := l.SetParams(source.weights, source.biases); err != nil {
		return errors.Wrapf(err, "set: layer %d", l.index)
	}
	return l.solver.Set(source.solver)
}

func (l *Layer) paramsPath(dir string) string {
	return filepath.Join(dir, fmt.Sprintf("layer%d.txt", l.index))
}

func (l *Layer) solverPath(dir string) string {
	return filepath.Join(dir, fmt.Sprintf("layer%d_adam_state.txt", l.index))
}

// Save writes the weights and biases to layer<index>.txt in dir, one
// weight row per line followed by a line of biases, and the optimizer
// state to layer<index>_adam_state.txt.
func (l *Layer) Save(dir string) error {
	f, err := os.Create(l.paramsPath(dir))
	if err != nil {
		return errors.Wrapf(err, "save: layer %d", l.index)
	}
	defer f.Close()

	if err := matutils.WriteDense(f, l.weights); err != nil {
		return errors.Wrapf(err, "save: layer %d", l.index)
	}
	if err := matutils.WriteVec(f, l.biases); err != nil {
		return errors.Wrapf(err, "save: layer %d", l.index)
	}
	if err := f.Close(); err != nil {
		return errors.Wrapf(err, "save: layer %d", l.index)
	}

	return l.solver.Save(l.solverPath(dir))
}

// Load restores the layer saved in dir. A missing or malformed
// parameter file leaves the layer untouched and returns an error. If
// the parameters load but the optimizer state cannot be, the parameters
// are kept, the optimizer is left as it was and a warning is logged.
func (l *Layer) Load(dir string) error {
	f, err := os.Open(l.paramsPath(dir))
	if err != nil {
		return errors.Wrapf(err, "load: layer %d", l.index)
	}
	defer f.Close()

	reader := matutils.NewReader(f)
	weights, err := reader.Dense(l.nIn, l.nOut)
	if err != nil {
		return errors.Wrapf(err, "load: layer %d", l.index)
	}
	biases, err := reader.Vec(l.nOut)
	if err != nil {
		return errors.Wrapf(err, "load: layer %d", l.index)
	}
	if err := reader.EOF(); err != nil {
		return errors.Wrapf(err, "load: layer %d", l.index)
	}

	l.weights.Copy(weights)
	l.biases.CopyVec(biases)

	if err := l.solver.Load(l.solverPath(dir)); err != nil {
		log.Printf("warning: load: layer %d optimizer state not restored: %v",
			l.index, err)
	}
	return nil
}
