// Package track implements a grid-world driving environment. A car
// starts on the start tile of a text map and must reach a goal tile
// without driving into a wall.
package track

import (
	"fmt"

	"github.com/Mugna0990/RL-Car-Navigation-from-scratch/environment"
	"github.com/Mugna0990/RL-Car-Navigation-from-scratch/timestep"
	"github.com/Mugna0990/RL-Car-Navigation-from-scratch/utils/intutils"
	"gonum.org/v1/gonum/mat"
)

// Track implements the environment.Environment interface
type Track struct {
	*Goal
	environment.Ender

	m              *Map
	startX, startY int
	maxX, maxY     int

	car         Car
	prevDist    int
	status      Status
	currentStep timestep.TimeStep
}

// New returns a new Track on map m and the first timestep of its first
// episode. Episodes end after the step limit factor times the shortest
// path distance from the start to the goal.
func New(m *Map, c Config) (*Track, timestep.TimeStep, error) {
	task, err := NewGoal(c)
	if err != nil {
		return nil, timestep.TimeStep{}, err
	}

	startX, startY, ok := m.Find(StartTile)
	if !ok {
		return nil, timestep.TimeStep{}, fmt.Errorf("new: map has no start")
	}
	dist := m.Distance(startX, startY)
	if dist < 0 {
		return nil, timestep.TimeStep{}, fmt.Errorf("new: goal is not " +
			"reachable from the start")
	}

	// Always allow at least one step, even for a start next to a goal
	steps := c.StepLimitFactor * dist
	if steps < 1 {
		steps = 1
	}

	width, height := m.Dims()
	t := &Track{
		Goal:   task,
		Ender:  environment.NewStepLimit(steps),
		m:      m,
		startX: startX,
		startY: startY,
		maxX:   intutils.Max(width-1, 1),
		maxY:   intutils.Max(height-1, 1),
	}

	return t, t.Reset(), nil
}

// Reset resets the car to the start tile and returns the first
// timestep of a new episode
func (t *Track) Reset() timestep.TimeStep {
	t.car = NewCar(t.startX, t.startY)
	t.prevDist = t.m.Distance(t.startX, t.startY)
	t.status = OK

	step := timestep.New(timestep.First, 0, t.observation(), 0)
	t.currentStep = step
	return step
}

// Step applies action to the car, moves it, and returns the resulting
// timestep. The returned bool reports whether the car reached the goal
// or collided with a wall.
func (t *Track) Step(action int) (timestep.TimeStep, bool, error) {
	if t.currentStep.Last() {
		return t.currentStep, t.Terminal(t.status), fmt.Errorf("step: " +
			"episode has ended, call Reset")
	}

	if err := Action(action).Apply(&t.car); err != nil {
		return t.currentStep, false, err
	}

	t.status = t.car.Move(t.m)
	newDist := t.m.Distance(t.car.X, t.car.Y)
	reward := t.GetReward(t.prevDist, newDist, t.status)
	t.prevDist = newDist

	terminal := t.Terminal(t.status)
	stepType := timestep.Mid
	if terminal {
		stepType = timestep.Last
	}

	step := timestep.New(stepType, reward, t.observation(),
		t.currentStep.Number+1)
	if !terminal {
		t.End(&step)
	}
	t.currentStep = step

	return step, terminal, nil
}

// observation returns the feature vector of the current car state
func (t *Track) observation() *mat.VecDense {
	return mat.NewVecDense(NumFeatures, t.car.State().Features(t.maxX,
		t.maxY))
}

// ObservationSpec returns the observation specification of the
// environment
func (t *Track) ObservationSpec() environment.Spec {
	shape := mat.NewVecDense(NumFeatures, nil)
	lower := mat.NewVecDense(NumFeatures, []float64{0, 0, 0, -0.25})
	upper := mat.NewVecDense(NumFeatures, []float64{1, 1, 1, 1})

	return environment.NewSpec(shape, environment.Observation, lower,
		upper, environment.Continuous)
}

// ActionSpec returns the action specification of the environment
func (t *Track) ActionSpec() environment.Spec {
	shape := mat.NewVecDense(1, nil)
	lower := mat.NewVecDense(1, []float64{0})
	upper := mat.NewVecDense(1, []float64{NumActions - 1})

	return environment.NewSpec(shape, environment.Action, lower, upper,
		environment.Discrete)
}

// Car returns the current car
func (t *Track) Car() Car {
	return t.car
}

// Status returns the outcome of the last step
func (t *Track) Status() Status {
	return t.status
}

// Distance returns the current shortest path distance to the goal
func (t *Track) Distance() int {
	return t.prevDist
}

// Map returns the map of the track
func (t *Track) Map() *Map {
	return t.m
}

// Render returns the map with the car drawn as 'C'
func (t *Track) Render() string {
	return t.m.Render(t.car.X, t.car.Y, 'C')
}

// String implements the fmt.Stringer interface
func (t *Track) String() string {
	return fmt.Sprintf("Track | %v  |  %v  |  Distance: %d", t.m, t.car,
		t.prevDist)
}
