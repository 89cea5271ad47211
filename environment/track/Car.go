package track

import (
	"fmt"

	"github.com/Mugna0990/RL-Car-Navigation-from-scratch/utils/intutils"
)

// Direction is the heading of a car
type Direction int

// Available headings
const (
	Up Direction = iota
	Right
	Down
	Left
)

// Opposite returns the direction opposite to d
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "Up"
	case Right:
		return "Right"
	case Down:
		return "Down"
	default:
		return "Left"
	}
}

// Speed limits of a car
const (
	MinSpeed     = 0
	MaxSpeed     = 5
	InitialSpeed = 1
)

// Status is the outcome of moving a car
type Status int

const (
	OK Status = iota
	Collision
	AtGoal
)

func (s Status) String() string {
	switch s {
	case Collision:
		return "Collision"
	case AtGoal:
		return "Goal"
	default:
		return "OK"
	}
}

// Car is a vehicle on a Map that moves Speed tiles per step in its
// heading
type Car struct {
	X, Y      int
	Speed     int
	Direction Direction
}

// NewCar returns a new Car at (x, y) heading up at the initial speed
func NewCar(x, y int) Car {
	return Car{X: x, Y: y, Speed: InitialSpeed, Direction: Up}
}

// Accelerate increases the speed by one up to MaxSpeed
func (c *Car) Accelerate() {
	c.Speed = intutils.Clamp(c.Speed+1, MinSpeed, MaxSpeed)
}

// Decelerate decreases the speed by one down to MinSpeed
func (c *Car) Decelerate() {
	c.Speed = intutils.Clamp(c.Speed-1, MinSpeed, MaxSpeed)
}

// Steer sets the heading of the car to d. Steering into the direction
// opposite to the current heading brakes instead.
func (c *Car) Steer(d Direction) {
	if d == c.Direction.Opposite() {
		c.Decelerate()
		return
	}
	c.Direction = d
}

// Move moves the car Speed tiles along its heading. Only the
// destination tile is checked: a wall there stops the car in place
// with zero speed, and a goal tile ends the drive.
func (c *Car) Move(m *Map) Status {
	nx, ny := c.X, c.Y
	switch c.Direction {
	case Up:
		ny -= c.Speed
	case Right:
		nx += c.Speed
	case Down:
		ny += c.Speed
	case Left:
		nx -= c.Speed
	}

	tile := m.Tile(nx, ny)
	if tile == WallTile {
		c.Speed = 0
		return Collision
	}

	c.X, c.Y = nx, ny
	if tile == GoalTile {
		return AtGoal
	}
	return OK
}

// State returns the state of the car
func (c Car) State() State {
	return State{X: c.X, Y: c.Y, Direction: c.Direction, Speed: c.Speed}
}

func (c Car) String() string {
	return fmt.Sprintf("Car | At: (%d, %d)  |  Speed: %d  |  Heading: %v",
		c.X, c.Y, c.Speed, c.Direction)
}
