package network

import "fmt"

type activationType string

const (
	relu     activationType = "relu"
	identity activationType = "identity"
)

// Activation represents an elementwise activation function together
// with its derivative. The derivative is evaluated at the activation's
// output rather than its input.
type Activation struct {
	activationType
	f  func(float64) float64
	df func(float64) float64
}

// fwd applies the activation to each element of x in place
func (a *Activation) fwd(x []float64) {
	for i := range x {
		x[i] = a.f(x[i])
	}
}

// Deriv returns the derivative of the activation at the output value y
func (a *Activation) Deriv(y float64) float64 {
	return a.df(y)
}

// String implements the Stringer interface
func (a *Activation) String() string {
	return string(a.activationType)
}

// IsIdentity returns whether or not the Activation is the identity
// function.
func (a *Activation) IsIdentity() bool {
	return a.activationType == identity
}

// GobEncode implements the GobEncoder interface
func (a *Activation) GobEncode() ([]byte, error) {
	return []byte(a.activationType), nil
}

// GobDecode implements the GobDecoder interface
func (a *Activation) GobDecode(encoded []byte) error {
	decoded := activationType(encoded)
	switch decoded {
	case relu:
		*a = *ReLU()
	case identity:
		*a = *Identity()
	default:
		return fmt.Errorf("gobdecode: unknown activation %v", decoded)
	}
	return nil
}

// ReLU returns a rectified linear unit activation
func ReLU() *Activation {
	return &Activation{
		activationType: relu,
		f: func(x float64) float64 {
			if x > 0 {
				return x
			}
			return 0
		},
		df: func(y float64) float64 {
			if y > 0 {
				return 1
			}
			return 0
		},
	}
}

// Identity returns an identity activation
func Identity() *Activation {
	return &Activation{
		activationType: identity,
		f:              func(x float64) float64 { return x },
		df:             func(float64) float64 { return 1 },
	}
}
