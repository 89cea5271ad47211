package initwfn

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// HeNConfig implements a configuration of the He normal
// initialization algorithm. Weights are drawn from a zero-mean Gaussian
// with standard deviation Gain / sqrt(fanIn). A gain of sqrt(2) gives
// variance 2 / fanIn, suited to rectified layers.
type HeNConfig struct {
	Gain float64
}

// NewHeN returns a new He normal weight initializer
func NewHeN(gain float64) (*InitWFn, error) {
	config := HeNConfig{
		Gain: gain,
	}

	return newInitWFn(config)
}

// NewDefaultHeN returns a He normal weight initializer with gain
// sqrt(2)
func NewDefaultHeN() *InitWFn {
	init, _ := NewHeN(math.Sqrt2)
	return init
}

// Type returns the type of initialization algorithm described by
// the configuration.
func (h HeNConfig) Type() Type {
	return HeN
}

// Create returns the weight initialization algorithm
func (h HeNConfig) Create(src rand.Source) Fn {
	return func(weights []float64, fanIn, fanOut int) {
		dist := distuv.Normal{
			Mu:    0,
			Sigma: h.Gain * math.Sqrt(1.0/float64(fanIn)),
			Src:   src,
		}
		fill(weights, dist.Rand)
	}
}

// fill sets every element of weights to a value drawn from sample
func fill(weights []float64, sample func() float64) {
	for i := range weights {
		weights[i] = sample()
	}
}
