package network

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Mugna0990/RL-Car-Navigation-from-scratch/initwfn"
	"github.com/Mugna0990/RL-Car-Navigation-from-scratch/solver"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
)

func newTestNetwork(t testing.TB, sizes []int, seed uint64) *Network {
	s, err := solver.NewDefaultAdam(0.01)
	if err != nil {
		t.Fatal(err)
	}
	net, err := New(sizes, initwfn.NewDefaultHeN(), s, seed)
	if err != nil {
		t.Fatal(err)
	}
	return net
}

// newKnownNetwork returns a 2 -> 2 -> 1 network with fixed parameters
// whose hidden units are all active for knownInput
func newKnownNetwork(t *testing.T) *Network {
	net := newTestNetwork(t, []int{2, 2, 1}, 1)
	setParams(t, net, []float64{
		0.5, -0.3, 0.8, 0.2, // Layer 0 weights
		0.1, 0.4, // Layer 0 biases
		0.7, -0.6, // Layer 1 weights
		0.05, // Layer 1 biases
	})
	return net
}

var knownInput = []float64{1.0, 0.5}

// params flattens all weights and biases of net, layer by layer
func params(net *Network) []float64 {
	var theta []float64
	for _, layer := range net.Layers() {
		theta = append(theta, layer.Weights().RawMatrix().Data...)
		theta = append(theta, layer.Biases().RawVector().Data...)
	}
	return theta
}

// gradients flattens all accumulated gradients of net in the same order
// as params
func gradients(net *Network) []float64 {
	var grads []float64
	for _, layer := range net.Layers() {
		w, b := layer.Gradients()
		grads = append(grads, w.RawMatrix().Data...)
		grads = append(grads, b.RawVector().Data...)
	}
	return grads
}

func setParams(t testing.TB, net *Network, theta []float64) {
	offset := 0
	for _, layer := range net.Layers() {
		nIn, nOut := layer.Dims()
		w := mat.NewDense(nIn, nOut, nil)
		copy(w.RawMatrix().Data, theta[offset:offset+nIn*nOut])
		offset += nIn * nOut

		b := mat.NewVecDense(nOut, nil)
		copy(b.RawVector().Data, theta[offset:offset+nOut])
		offset += nOut

		if err := layer.SetParams(w, b); err != nil {
			t.Fatal(err)
		}
	}
}

func TestForwardKnownValues(t *testing.T) {
	net := newKnownNetwork(t)

	// h = relu([0.1 + 0.5 + 0.4, 0.4 - 0.3 + 0.1]) = [1.0, 0.2]
	// q = 0.05 + 0.7*1.0 - 0.6*0.2 = 0.63
	q := net.Forward(knownInput)
	if len(q) != 1 || !scalar.EqualWithinAbs(q[0], 0.63, 1e-12) {
		t.Errorf("forward\n\twant([0.63])\n\thave(%v)", q)
	}

	hidden := net.Layers()[0].Forward([]float64{-10, -10})
	if hidden[0] != 0 || hidden[1] != 0 {
		t.Errorf("relu did not clip negative outputs: %v", hidden)
	}
}

func TestForwardDeterminism(t *testing.T) {
	net := newTestNetwork(t, []int{4, 16, 8, 6}, 7)
	input := []float64{0.1, 0.9, 0.33, 0.75}

	first := net.Forward(input)
	for i := 0; i < 10; i++ {
		if got := net.Forward(input); !floats.Equal(got, first) {
			t.Fatalf("forward not deterministic\n\twant(%v)\n\thave(%v)",
				first, got)
		}
	}

	// Forward returns a copy that callers may modify
	first[0] += 100
	if got := net.Forward(input); floats.Equal(got, first) {
		t.Errorf("forward output aliases layer storage")
	}

	other := newTestNetwork(t, []int{4, 16, 8, 6}, 7)
	if got := other.Forward(input); !floats.Equal(got, net.Forward(input)) {
		t.Errorf("networks with equal seeds differ")
	}
}

func TestGradientFiniteDifference(t *testing.T) {
	net := newKnownNetwork(t)
	const target = 2.0
	const action = 0

	theta0 := params(net)
	loss := func(theta []float64) float64 {
		setParams(t, net, theta)
		q := net.Forward(knownInput)
		d := q[action] - target
		return 0.5 * d * d
	}

	numerical := fd.Gradient(nil, loss, theta0, &fd.Settings{
		Formula: fd.Central,
		Step:    1e-6,
	})

	setParams(t, net, theta0)
	for _, layer := range net.Layers() {
		layer.ResetGradients()
	}
	q := net.Forward(knownInput)
	layers := net.Layers()
	delta := layers[1].OutputLayerDelta(q[action]-target, action)
	layers[0].HiddenLayerDelta(layers[1], delta)
	analytic := gradients(net)

	for i := range analytic {
		if !scalar.EqualWithinAbsOrRel(numerical[i], analytic[i], 1e-8,
			1e-5) {
			t.Errorf("gradient of parameter %d\n\twant(%v)\n\thave(%v)", i,
				numerical[i], analytic[i])
		}
	}
}

func TestGradientsAccumulate(t *testing.T) {
	net := newKnownNetwork(t)
	layers := net.Layers()

	backward := func() {
		q := net.Forward(knownInput)
		delta := layers[1].OutputLayerDelta(q[0]-1.0, 0)
		layers[0].HiddenLayerDelta(layers[1], delta)
	}

	backward()
	once := gradients(net)
	backward()
	twice := gradients(net)

	for i := range once {
		if !scalar.EqualWithinAbs(twice[i], 2*once[i], 1e-12) {
			t.Errorf("gradient %d did not accumulate\n\twant(%v)\n\thave(%v)",
				i, 2*once[i], twice[i])
		}
	}

	for _, layer := range layers {
		layer.Update()
	}
	for i, g := range gradients(net) {
		if g != 0 {
			t.Errorf("gradient %d not reset after update: %v", i, g)
		}
	}
}

func TestOutputLayerDeltaOutOfRange(t *testing.T) {
	net := newTestNetwork(t, []int{2, 3}, 1)
	layer := net.Layers()[0]
	layer.Forward([]float64{1, 1})

	for _, action := range []int{-1, 3, 100} {
		delta := layer.OutputLayerDelta(5.0, action)
		if !floats.Equal(delta, []float64{0, 0, 0}) {
			t.Errorf("delta for action %d\n\twant([0 0 0])\n\thave(%v)",
				action, delta)
		}
	}
	for i, g := range gradients(net) {
		if g != 0 {
			t.Errorf("gradient %d changed by out of range action: %v", i, g)
		}
	}

	delta := layer.OutputLayerDelta(5.0, 1)
	if !floats.Equal(delta, []float64{0, 5, 0}) {
		t.Errorf("delta\n\twant([0 5 0])\n\thave(%v)", delta)
	}
	w, b := layer.Gradients()
	if b.AtVec(1) != 5 || w.At(0, 1) != 5 || w.At(0, 0) != 0 {
		t.Errorf("gradients not accumulated at the action column")
	}
}

func TestLayerLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	net := newTestNetwork(t, []int{2, 2}, 3)
	layer := net.Layers()[0]
	before := mat.DenseCopyOf(layer.Weights())

	if err := layer.Load(dir); err == nil {
		t.Errorf("expected error loading missing layer file")
	}

	bad := "0.1 0.2\n0.3\n0 0\n"
	if err := os.WriteFile(filepath.Join(dir, "layer0.txt"), []byte(bad),
		0644); err != nil {
		t.Fatal(err)
	}
	if err := layer.Load(dir); err == nil {
		t.Errorf("expected error loading malformed layer file")
	}
	if !mat.Equal(before, layer.Weights()) {
		t.Errorf("weights changed after failed load")
	}

	trailing := "0.1 0.2\n0.3 0.4\n0 0\n0.5 0.6\n"
	if err := os.WriteFile(filepath.Join(dir, "layer0.txt"),
		[]byte(trailing), 0644); err != nil {
		t.Fatal(err)
	}
	if err := layer.Load(dir); err == nil {
		t.Errorf("expected error loading layer file with trailing data")
	}
	if !mat.Equal(before, layer.Weights()) {
		t.Errorf("weights changed after failed load")
	}

	exact := "0.1 0.2\n0.3 0.4\n0 0\n\n"
	if err := os.WriteFile(filepath.Join(dir, "layer0.txt"),
		[]byte(exact), 0644); err != nil {
		t.Fatal(err)
	}
	if err := layer.Load(dir); err != nil {
		t.Errorf("trailing blank line rejected: %v", err)
	}
	want := mat.NewDense(2, 2, []float64{0.1, 0.2, 0.3, 0.4})
	if !mat.Equal(want, layer.Weights()) {
		t.Errorf("weights\n\twant(%v)\n\thave(%v)", want, layer.Weights())
	}
}

func TestNewLayerZeroBiases(t *testing.T) {
	s, err := solver.NewDefaultAdam(0.01)
	if err != nil {
		t.Fatal(err)
	}
	initFn := initwfn.NewDefaultHeN().InitWFn(rand.NewSource(1))

	for _, output := range []bool{false, true} {
		layer, err := NewLayer(0, 3, 4, output, initFn, s.Config)
		if err != nil {
			t.Fatal(err)
		}

		if !floats.Equal(layer.Biases().RawVector().Data, make([]float64, 4)) {
			t.Errorf("biases\n\twant(%v)\n\thave(%v)", make([]float64, 4),
				layer.Biases().RawVector().Data)
		}
		if floats.Norm(layer.Weights().RawMatrix().Data, 2) == 0 {
			t.Errorf("weights not initialized")
		}
		if nIn, nOut := layer.Dims(); nIn != 3 || nOut != 4 {
			t.Errorf("dims\n\twant(3 x 4)\n\thave(%v x %v)", nIn, nOut)
		}
	}

	if _, err := NewLayer(0, 0, 4, false, initFn, s.Config); err == nil {
		t.Errorf("expected error for empty layer")
	}
}

func BenchmarkLayerForward(b *testing.B) {
	net := newTestNetwork(b, []int{128, 64}, 1)
	layer := net.Layers()[0]
	input := make([]float64, 128)
	for i := range input {
		input[i] = float64(i) / 128
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		layer.Forward(input)
	}
}
