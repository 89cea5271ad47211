package initwfn

import "golang.org/x/exp/rand"

// ZeroesConfig implements a configuration of a zero weight initializer
type ZeroesConfig struct{}

// NewZeroes returns a new zeroes weight intializer
func NewZeroes() (*InitWFn, error) {
	return newInitWFn(ZeroesConfig{})
}

// Type returns the type of the weight initializer created using this
// config
func (z ZeroesConfig) Type() Type {
	return Zeroes
}

// Create returns an initializer that sets all weights to 0
func (z ZeroesConfig) Create(rand.Source) Fn {
	return ConstantConfig{0}.Create(nil)
}

// ConstantConfig implements a configuration of a weight initializer
// that initializes all weights to a constant value.
type ConstantConfig struct {
	Value float64
}

// NewConstant returns a new constant weight intializer
func NewConstant(value float64) (*InitWFn, error) {
	return newInitWFn(ConstantConfig{value})
}

// Type returns the type of the weight initializer created using this
// config
func (c ConstantConfig) Type() Type {
	return Constant
}

// Create returns an initializer that sets all weights to c.Value
func (c ConstantConfig) Create(rand.Source) Fn {
	return func(weights []float64, _, _ int) {
		for i := range weights {
			weights[i] = c.Value
		}
	}
}
