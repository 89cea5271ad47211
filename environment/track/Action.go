package track

import "fmt"

// Action is a discrete driving command
type Action int

// Available actions. The four steering actions set the heading of the
// car, or brake if they point against the current heading.
const (
	SteerUp Action = iota
	SteerRight
	SteerDown
	SteerLeft
	Accelerate
	Decelerate
)

// NumActions is the number of available actions
const NumActions = 6

// Valid returns whether a is a known action
func (a Action) Valid() bool {
	return a >= SteerUp && a <= Decelerate
}

// Apply applies the action to car
func (a Action) Apply(car *Car) error {
	switch a {
	case SteerUp:
		car.Steer(Up)
	case SteerRight:
		car.Steer(Right)
	case SteerDown:
		car.Steer(Down)
	case SteerLeft:
		car.Steer(Left)
	case Accelerate:
		car.Accelerate()
	case Decelerate:
		car.Decelerate()
	default:
		return fmt.Errorf("apply: unknown action"+
			"\n\twant([0, %d))\n\thave(%d)", NumActions, int(a))
	}
	return nil
}

func (a Action) String() string {
	switch a {
	case SteerUp:
		return "SteerUp"
	case SteerRight:
		return "SteerRight"
	case SteerDown:
		return "SteerDown"
	case SteerLeft:
		return "SteerLeft"
	case Accelerate:
		return "Accelerate"
	case Decelerate:
		return "Decelerate"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}
