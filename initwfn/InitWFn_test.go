package initwfn

import (
	"encoding/json"
	"math"
	"testing"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	fanIn  = 50
	fanOut = 400
)

// draw fills a fanIn x fanOut weight matrix using wInit
func draw(t *testing.T, wInit *InitWFn, seed uint64) []float64 {
	weights := make([]float64, fanIn*fanOut)
	wInit.InitWFn(rand.NewSource(seed))(weights, fanIn, fanOut)
	return weights
}

func checkMoments(t *testing.T, name string, weights []float64, mean,
	variance float64) {
	m, v := stat.MeanVariance(weights, nil)
	if math.Abs(m-mean) > 0.02*math.Max(1, math.Abs(mean)) {
		t.Errorf("%v mean\n\twant(%v)\n\thave(%v)", name, mean, m)
	}
	if math.Abs(v-variance) > 0.1*variance {
		t.Errorf("%v variance\n\twant(%v)\n\thave(%v)", name, variance, v)
	}
}

func TestHeN(t *testing.T) {
	wInit := NewDefaultHeN()
	if wInit.Type != HeN {
		t.Fatalf("type\n\twant(%v)\n\thave(%v)", HeN, wInit.Type)
	}
	checkMoments(t, "HeN", draw(t, wInit, 1), 0, 2.0/fanIn)

	gained, err := NewHeN(1)
	if err != nil {
		t.Fatal(err)
	}
	checkMoments(t, "HeN gain 1", draw(t, gained, 1), 0, 1.0/fanIn)
}

func TestGlorot(t *testing.T) {
	normal, err := NewGlorotN(1)
	if err != nil {
		t.Fatal(err)
	}
	checkMoments(t, "GlorotN", draw(t, normal, 2), 0, 2.0/(fanIn+fanOut))

	uniform, err := NewGlorotU(1)
	if err != nil {
		t.Fatal(err)
	}
	limit := math.Sqrt(6.0 / (fanIn + fanOut))
	weights := draw(t, uniform, 3)
	if floats.Min(weights) < -limit || floats.Max(weights) > limit {
		t.Errorf("GlorotU weights outside [%v, %v]", -limit, limit)
	}
	checkMoments(t, "GlorotU", weights, 0, limit*limit/3)
}

func TestGaussianUniform(t *testing.T) {
	gaussian, err := NewGaussian(3, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	checkMoments(t, "Gaussian", draw(t, gaussian, 4), 3, 0.25)

	uniform, err := NewUniform(-0.5, 2)
	if err != nil {
		t.Fatal(err)
	}
	weights := draw(t, uniform, 5)
	if floats.Min(weights) < -0.5 || floats.Max(weights) > 2 {
		t.Errorf("Uniform weights outside [-0.5, 2]")
	}
	checkMoments(t, "Uniform", weights, 0.75, 2.5*2.5/12)
}

func TestConstant(t *testing.T) {
	zeroes, err := NewZeroes()
	if err != nil {
		t.Fatal(err)
	}
	for _, w := range draw(t, zeroes, 1) {
		if w != 0 {
			t.Fatalf("Zeroes weight %v", w)
		}
	}

	constant, err := NewConstant(0.25)
	if err != nil {
		t.Fatal(err)
	}
	for _, w := range draw(t, constant, 1) {
		if w != 0.25 {
			t.Fatalf("Constant weight\n\twant(0.25)\n\thave(%v)", w)
		}
	}
}

func TestSeeded(t *testing.T) {
	wInit := NewDefaultHeN()
	if !floats.Equal(draw(t, wInit, 7), draw(t, wInit, 7)) {
		t.Error("same seed produced different weights")
	}
	if floats.Equal(draw(t, wInit, 7), draw(t, wInit, 8)) {
		t.Error("different seeds produced identical weights")
	}
}

func TestJSON(t *testing.T) {
	var inits []*InitWFn
	for _, create := range []func() (*InitWFn, error){
		func() (*InitWFn, error) { return NewHeN(2) },
		func() (*InitWFn, error) { return NewGlorotU(1) },
		func() (*InitWFn, error) { return NewGlorotN(1) },
		func() (*InitWFn, error) { return NewGaussian(0, 0.1) },
		func() (*InitWFn, error) { return NewUniform(-1, 1) },
		NewZeroes,
		func() (*InitWFn, error) { return NewConstant(3) },
	} {
		wInit, err := create()
		if err != nil {
			t.Fatal(err)
		}
		inits = append(inits, wInit)
	}

	for _, wInit := range inits {
		data, err := json.Marshal(wInit)
		if err != nil {
			t.Fatal(err)
		}

		var decoded InitWFn
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("%v: %v", wInit.Type, err)
		}
		if decoded.Type != wInit.Type {
			t.Errorf("type\n\twant(%v)\n\thave(%v)", wInit.Type, decoded.Type)
		}
		if !floats.Equal(draw(t, wInit, 1), draw(t, &decoded, 1)) {
			t.Errorf("%v: decoded initializer draws different weights",
				wInit.Type)
		}
	}

	var bad InitWFn
	if err := json.Unmarshal([]byte(`{"Type": "Orthogonal"}`), &bad); err == nil {
		t.Error("unknown initializer accepted")
	}
}
