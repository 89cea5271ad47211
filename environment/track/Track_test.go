package track

import (
	"path/filepath"
	"strings"
	"testing"

	"gonum.org/v1/gonum/floats"
)

// A straight road: the start is 4 road tiles below the goal
const straightMap = `#G#
#.#
#.#
#.#
#.#
#S#
`

func parse(t *testing.T, text string) *Map {
	m, err := ParseMap(strings.NewReader(text))
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestParseMap(t *testing.T) {
	m := parse(t, straightMap+"\n\n")

	if w, h := m.Dims(); w != 3 || h != 6 {
		t.Errorf("dims\n\twant(3, 6)\n\thave(%v, %v)", w, h)
	}
	if x, y, ok := m.Find(StartTile); !ok || x != 1 || y != 5 {
		t.Errorf("start\n\twant(1, 5)\n\thave(%v, %v)", x, y)
	}

	for _, pos := range [][2]int{{-1, 0}, {0, -1}, {3, 0}, {1, 6}} {
		if tile := m.Tile(pos[0], pos[1]); tile != WallTile {
			t.Errorf("tile out of bounds at %v\n\twant(#)\n\thave(%c)", pos,
				tile)
		}
	}

	invalid := map[string]string{
		"empty":      "",
		"no start":   "#G#\n#.#\n",
		"no goal":    "#S#\n#.#\n",
		"two starts": "SG\nS.\n",
	}
	for name, text := range invalid {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseMap(strings.NewReader(text)); err == nil {
				t.Errorf("expected error")
			}
		})
	}
}

func TestDistance(t *testing.T) {
	m := parse(t, straightMap)
	if d := m.Distance(1, 5); d != 4 {
		t.Errorf("distance from start\n\twant(4)\n\thave(%v)", d)
	}
	if d := m.Distance(1, 1); d != 0 {
		t.Errorf("distance next to goal\n\twant(0)\n\thave(%v)", d)
	}
	if d := m.Distance(1, 0); d != 0 {
		t.Errorf("distance at goal\n\twant(0)\n\thave(%v)", d)
	}

	walled := parse(t, "S#G\n")
	if d := walled.Distance(0, 0); d != -1 {
		t.Errorf("unreachable goal\n\twant(-1)\n\thave(%v)", d)
	}

	// The shortest of two routes is taken
	loop := parse(t, `.....
.###.
S...G
`)
	if d := loop.Distance(0, 2); d != 3 {
		t.Errorf("distance on loop\n\twant(3)\n\thave(%v)", d)
	}
}

func TestCarSteering(t *testing.T) {
	car := NewCar(0, 0)
	if car.Speed != InitialSpeed || car.Direction != Up {
		t.Fatalf("new car %v", car)
	}

	// Steering against the heading brakes
	SteerDown.Apply(&car)
	if car.Direction != Up || car.Speed != 0 {
		t.Errorf("steering against heading\n\twant(Up, 0)\n\thave(%v, %v)",
			car.Direction, car.Speed)
	}

	Decelerate.Apply(&car)
	if car.Speed != MinSpeed {
		t.Errorf("speed below minimum: %v", car.Speed)
	}

	for i := 0; i < 10; i++ {
		Accelerate.Apply(&car)
	}
	if car.Speed != MaxSpeed {
		t.Errorf("speed above maximum: %v", car.Speed)
	}

	SteerRight.Apply(&car)
	if car.Direction != Right || car.Speed != MaxSpeed {
		t.Errorf("steering right\n\twant(Right, 5)\n\thave(%v, %v)",
			car.Direction, car.Speed)
	}

	if err := Action(6).Apply(&car); err == nil {
		t.Errorf("expected error for unknown action")
	}
}

func TestCarMove(t *testing.T) {
	m := parse(t, straightMap)

	car := NewCar(1, 5)
	if status := car.Move(m); status != OK || car.Y != 4 {
		t.Errorf("move\n\twant(OK, y=4)\n\thave(%v, y=%v)", status, car.Y)
	}

	// Only the destination tile is checked, so the car jumps over the
	// road to the goal
	car.Speed = 4
	if status := car.Move(m); status != AtGoal || car.Y != 0 {
		t.Errorf("move to goal\n\twant(Goal, y=0)\n\thave(%v, y=%v)",
			status, car.Y)
	}

	car = NewCar(1, 5)
	car.Direction = Left
	if status := car.Move(m); status != Collision {
		t.Errorf("move into wall\n\twant(Collision)\n\thave(%v)", status)
	}
	if car.X != 1 || car.Y != 5 || car.Speed != 0 {
		t.Errorf("collision moved car: %v", car)
	}

	car = NewCar(1, 5)
	car.Direction = Down
	if status := car.Move(m); status != Collision {
		t.Errorf("move off the map\n\twant(Collision)\n\thave(%v)", status)
	}
}

func TestStateFeatures(t *testing.T) {
	s := State{X: 2, Y: 3, Direction: Down, Speed: 5}
	got := s.Features(4, 6)
	want := []float64{0.5, 0.5, 2.0 / 3.0, 1}
	if !floats.EqualApprox(got, want, 1e-12) {
		t.Errorf("features\n\twant(%v)\n\thave(%v)", want, got)
	}
}

func TestGoalReward(t *testing.T) {
	g, err := NewGoal(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		prev, new int
		status    Status
		want      float64
	}{
		{"progress", 4, 3, OK, 4},
		{"no progress", 4, 4, OK, -1},
		{"backwards", 3, 5, OK, -11},
		{"goal", 4, 0, AtGoal, 119},
		{"collision", 4, 4, Collision, -101},
		{"unreachable", -1, 3, OK, -1},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := g.GetReward(test.prev, test.new, test.status)
			if got != test.want {
				t.Errorf("reward\n\twant(%v)\n\thave(%v)", test.want, got)
			}
		})
	}

	c := DefaultConfig()
	c.RewardScale = 1000
	scaled, _ := NewGoal(c)
	if got := scaled.GetReward(4, 0, AtGoal); got != 0.119 {
		t.Errorf("scaled reward\n\twant(0.119)\n\thave(%v)", got)
	}

	c.RewardScale = 0
	if _, err := NewGoal(c); err == nil {
		t.Errorf("expected error for zero reward scale")
	}
}

func TestTrackEpisode(t *testing.T) {
	m := parse(t, straightMap)
	env, first, err := New(m, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	if !first.First() {
		t.Errorf("first timestep has type %v", first.StepType)
	}
	want := []float64{0.5, 1, 0, 0}
	if !floats.EqualApprox(first.Features(), want, 1e-12) {
		t.Errorf("first features\n\twant(%v)\n\thave(%v)", want,
			first.Features())
	}

	step, done, err := env.Step(int(Accelerate))
	if err != nil {
		t.Fatal(err)
	}
	// Speed 2 covers two road tiles
	if done || step.Reward != 9 || step.Number != 1 || !step.Mid() {
		t.Errorf("step\n\twant(mid, reward 9)\n\thave(%v, done %v)", step,
			done)
	}

	step, done, err = env.Step(int(Accelerate))
	if err != nil {
		t.Fatal(err)
	}
	// Speed 3 reaches the goal from y = 3
	if !done || !step.Last() || env.Status() != AtGoal {
		t.Errorf("expected goal, have %v %v", step, env.Status())
	}
	if step.Reward != 5*2-1+100 {
		t.Errorf("goal reward\n\twant(%v)\n\thave(%v)", 109, step.Reward)
	}

	if _, _, err := env.Step(0); err == nil {
		t.Errorf("expected error stepping a finished episode")
	}

	first = env.Reset()
	if !first.First() || env.Car().Y != 5 {
		t.Errorf("reset did not restore the start")
	}

	if _, _, err := env.Step(NumActions); err == nil {
		t.Errorf("expected error for invalid action")
	}
}

func TestTrackStepLimit(t *testing.T) {
	m := parse(t, straightMap)
	env, _, err := New(m, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	// Braking keeps the car in place until the step limit of 2 * 4
	var step = env.Reset()
	var done bool
	for i := 0; i < 8; i++ {
		if step.Last() {
			t.Fatalf("episode ended early at step %d", i)
		}
		step, done, err = env.Step(int(Decelerate))
		if err != nil {
			t.Fatal(err)
		}
		if done {
			t.Fatalf("step limit reported as terminal")
		}
	}
	if !step.Last() || step.Number != 8 {
		t.Errorf("expected last step at 8, have %v", step)
	}
}

func TestTrackSpecs(t *testing.T) {
	env, _, err := New(parse(t, straightMap), DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}

	n, err := env.ActionSpec().NumActions()
	if err != nil {
		t.Fatal(err)
	}
	if n != NumActions {
		t.Errorf("actions\n\twant(%v)\n\thave(%v)", NumActions, n)
	}
	if f := env.ObservationSpec().Features(); f != NumFeatures {
		t.Errorf("features\n\twant(%v)\n\thave(%v)", NumFeatures, f)
	}

	if _, err := env.ObservationSpec().NumActions(); err == nil {
		t.Errorf("expected error for actions of an observation spec")
	}
}

func TestBundledMap(t *testing.T) {
	m, err := LoadMap(filepath.Join("..", "..", "assets", "track.txt"))
	if err != nil {
		t.Fatal(err)
	}
	x, y, ok := m.Find(StartTile)
	if !ok {
		t.Fatal("no start tile")
	}
	if d := m.Distance(x, y); d <= 0 {
		t.Errorf("goal not reachable from start: distance %v", d)
	}

	if _, _, err := New(m, DefaultConfig()); err != nil {
		t.Error(err)
	}
}
