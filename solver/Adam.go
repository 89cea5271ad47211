package solver

import (
	"fmt"
	"math"
	"os"

	"github.com/Mugna0990/RL-Car-Navigation-from-scratch/utils/matutils"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// AdamConfig describes a configuration of the Adam solver
type AdamConfig struct {
	StepSize float64
	Epsilon  float64 // Smoothing factor
	Beta1    float64
	Beta2    float64
}

// NewDefaultAdam returns a new Adam Solver with default hyperparameters
func NewDefaultAdam(stepSize float64) (*Solver, error) {
	return NewAdam(stepSize, 1e-8, 0.9, 0.999)
}

// NewAdam returns a new Adam Solver
func NewAdam(stepSize, epsilon, beta1, beta2 float64) (*Solver, error) {
	adam := AdamConfig{
		StepSize: stepSize,
		Epsilon:  epsilon,
		Beta1:    beta1,
		Beta2:    beta2,
	}

	return newSolver(TypeAdam, adam)
}

// Create returns a new Adam optimizer for a layer with nIn inputs and
// nOut outputs
func (a AdamConfig) Create(nIn, nOut int) *Adam {
	return &Adam{
		config:   a,
		beta1Pow: 1.0,
		beta2Pow: 1.0,
		mW:       mat.NewDense(nIn, nOut, nil),
		vW:       mat.NewDense(nIn, nOut, nil),
		mB:       mat.NewVecDense(nOut, nil),
		vB:       mat.NewVecDense(nOut, nil),
	}
}

// ValidType returns if the given Solver type is a valid type to be
// created with this config.
func (a AdamConfig) ValidType(t Type) bool {
	return t == TypeAdam
}

// Validate checks that the hyperparameters describe a usable optimizer
func (a AdamConfig) Validate() error {
	if a.StepSize <= 0 {
		return fmt.Errorf("validate: step size must be positive"+
			"\n\twant(> 0)\n\thave(%v)", a.StepSize)
	}
	if a.Beta1 < 0 || a.Beta1 >= 1 {
		return fmt.Errorf("validate: beta1 out of range"+
			"\n\twant([0, 1))\n\thave(%v)", a.Beta1)
	}
	if a.Beta2 < 0 || a.Beta2 >= 1 {
		return fmt.Errorf("validate: beta2 out of range"+
			"\n\twant([0, 1))\n\thave(%v)", a.Beta2)
	}
	if a.Epsilon < 0 {
		return fmt.Errorf("validate: epsilon must be non-negative"+
			"\n\twant(>= 0)\n\thave(%v)", a.Epsilon)
	}
	return nil
}

// Adam implements the Adam optimizer for the weights and biases of a
// single fully connected layer. The decay powers beta1^t and beta2^t are
// updated incrementally on each step.
type Adam struct {
	config AdamConfig

	steps    int
	beta1Pow float64
	beta2Pow float64

	// Raw first (m) and second (v) moment estimates
	mW, vW *mat.Dense
	mB, vB *mat.VecDense
}

// Config returns the hyperparameters of the optimizer
func (a *Adam) Config() AdamConfig {
	return a.config
}

// Steps returns the number of updates the optimizer has performed
func (a *Adam) Steps() int {
	return a.steps
}

// Moments returns the first and second moment estimates of the weights
// and biases. The returned values share storage with the optimizer.
func (a *Adam) Moments() (mW, vW *mat.Dense, mB, vB *mat.VecDense) {
	return a.mW, a.vW, a.mB, a.vB
}

// Optimize performs a single Adam step, updating weights and biases in
// place using the gradients weightGrads and biasGrads.
func (a *Adam) Optimize(weights *mat.Dense, biases *mat.VecDense,
	weightGrads *mat.Dense, biasGrads *mat.VecDense) {
	r, c := a.mW.Dims()
	if wr, wc := weights.Dims(); wr != r || wc != c {
		panic(fmt.Sprintf("optimize: weight shape mismatch"+
			"\n\twant(%v x %v)\n\thave(%v x %v)", r, c, wr, wc))
	}
	if biases.Len() != a.mB.Len() {
		panic(fmt.Sprintf("optimize: bias shape mismatch"+
			"\n\twant(%v)\n\thave(%v)", a.mB.Len(), biases.Len()))
	}

	a.steps++
	a.beta1Pow *= a.config.Beta1
	a.beta2Pow *= a.config.Beta2

	a.step(weights.RawMatrix().Data, weightGrads.RawMatrix().Data,
		a.mW.RawMatrix().Data, a.vW.RawMatrix().Data)
	a.step(biases.RawVector().Data, biasGrads.RawVector().Data,
		a.mB.RawVector().Data, a.vB.RawVector().Data)
}

// step applies the bias corrected update to each parameter in params
func (a *Adam) step(params, grads, m, v []float64) {
	beta1, beta2 := a.config.Beta1, a.config.Beta2
	corr1, corr2 := 1-a.beta1Pow, 1-a.beta2Pow

	for i, g := range grads {
		m[i] = beta1*m[i] + (1-beta1)*g
		v[i] = beta2*v[i] + (1-beta2)*g*g

		mHat := m[i] / corr1
		vHat := v[i] / corr2
		params[i] -= a.config.StepSize * mHat / (math.Sqrt(vHat) +
			a.config.Epsilon)
	}
}

// Clone returns a deep copy of the optimizer
func (a *Adam) Clone() *Adam {
	clone := *a
	clone.mW = mat.DenseCopyOf(a.mW)
	clone.vW = mat.DenseCopyOf(a.vW)
	clone.mB = mat.VecDenseCopyOf(a.mB)
	clone.vB = mat.VecDenseCopyOf(a.vB)
	return &clone
}

// Set copies the full state of source into a. Both optimizers must
// belong to layers of the same shape.
func (a *Adam) Set(source *Adam) error {
	r, c := a.mW.Dims()
	sr, sc := source.mW.Dims()
	if r != sr || c != sc {
		return fmt.Errorf("set: cannot copy optimizer state between "+
			"shapes\n\twant(%v x %v)\n\thave(%v x %v)", r, c, sr, sc)
	}

	a.config = source.config
	a.steps = source.steps
	a.beta1Pow = source.beta1Pow
	a.beta2Pow = source.beta2Pow
	a.mW.Copy(source.mW)
	a.vW.Copy(source.vW)
	a.mB.CopyVec(source.mB)
	a.vB.CopyVec(source.vB)
	return nil
}

// Save writes the optimizer state to the file at path. The first line
// holds the hyperparameters, step count and decay powers, followed by
// the weight moments one row per line and finally the bias moments.
func (a *Adam) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "save")
	}
	defer f.Close()

	header := []float64{
		a.config.StepSize, a.config.Beta1, a.config.Beta2,
		a.config.Epsilon, float64(a.steps), a.beta1Pow, a.beta2Pow,
	}
	if err := matutils.WriteRow(f, header); err != nil {
		return errors.Wrap(err, "save")
	}
	for _, m := range []*mat.Dense{a.mW, a.vW} {
		if err := matutils.WriteDense(f, m); err != nil {
			return errors.Wrap(err, "save")
		}
	}
	for _, v := range []*mat.VecDense{a.mB, a.vB} {
		if err := matutils.WriteVec(f, v); err != nil {
			return errors.Wrap(err, "save")
		}
	}
	return f.Close()
}

// Load restores the optimizer state from the file at path. The file is
// parsed completely before any state is changed, so a missing or
// malformed file leaves the optimizer untouched.
func (a *Adam) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "load")
	}
	defer f.Close()

	r, c := a.mW.Dims()
	reader := matutils.NewReader(f)

	header, err := reader.Row(7)
	if err != nil {
		return errors.Wrapf(err, "load %v", path)
	}
	for _, v := range header {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Errorf("load %v: non-finite header value %v",
				path, v)
		}
	}
	config := AdamConfig{
		StepSize: header[0],
		Beta1:    header[1],
		Beta2:    header[2],
		Epsilon:  header[3],
	}
	if err := config.Validate(); err != nil {
		return errors.Wrapf(err, "load %v", path)
	}
	steps := int(header[4])
	if float64(steps) != header[4] || steps < 0 {
		return errors.Errorf("load %v: invalid step count %v", path,
			header[4])
	}
	// Decay powers underflow to 0 after enough steps
	for _, pow := range header[5:] {
		if !(pow >= 0 && pow <= 1) {
			return fmt.Errorf("load %v: decay power out of range"+
				"\n\twant([0, 1])\n\thave(%v)", path, pow)
		}
	}

	mW, err := reader.Dense(r, c)
	if err != nil {
		return errors.Wrapf(err, "load %v", path)
	}
	vW, err := reader.Dense(r, c)
	if err != nil {
		return errors.Wrapf(err, "load %v", path)
	}
	mB, err := reader.Vec(c)
	if err != nil {
		return errors.Wrapf(err, "load %v", path)
	}
	vB, err := reader.Vec(c)
	if err != nil {
		return errors.Wrapf(err, "load %v", path)
	}
	if err := reader.EOF(); err != nil {
		return errors.Wrapf(err, "load %v", path)
	}

	a.config = config
	a.steps = steps
	a.beta1Pow = header[5]
	a.beta2Pow = header[6]
	a.mW, a.vW, a.mB, a.vB = mW, vW, mB, vB
	return nil
}

// String implements the fmt.Stringer interface
func (a *Adam) String() string {
	return fmt.Sprintf("Adam{α: %v, β1: %v, β2: %v, ε: %v, steps: %v}",
		a.config.StepSize, a.config.Beta1, a.config.Beta2,
		a.config.Epsilon, a.steps)
}
