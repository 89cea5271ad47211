package tracker

import (
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	ts "github.com/Mugna0990/RL-Car-Navigation-from-scratch/timestep"
	"gonum.org/v1/gonum/floats"
)

// episode returns the timesteps of an episode with the given rewards
// after the first timestep
func episode(rewards ...float64) []ts.TimeStep {
	steps := []ts.TimeStep{ts.New(ts.First, 0, nil, 0)}
	for i, r := range rewards {
		t := ts.Mid
		if i == len(rewards)-1 {
			t = ts.Last
		}
		steps = append(steps, ts.New(t, r, nil, i+1))
	}
	return steps
}

func TestReturnAndLength(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "return.bin")
	lengthFile := filepath.Join(t.TempDir(), "length.bin")
	ret := NewReturn(filename)
	length := NewEpisodeLength(lengthFile)

	for _, ep := range [][]float64{{1, 2, 3}, {-1}, {4, 0.5}} {
		for _, step := range episode(ep...) {
			ret.Track(step)
			length.Track(step)
		}
	}
	// Unfinished episode
	ret.Track(ts.New(ts.First, 0, nil, 0))

	want := []float64{6, -1, 4.5}
	if !floats.Equal(ret.Returns(), want) {
		t.Errorf("returns\n\twant(%v)\n\thave(%v)", want, ret.Returns())
	}
	wantLengths := []float64{3, 1, 2}
	if !floats.Equal(length.Lengths(), wantLengths) {
		t.Errorf("lengths\n\twant(%v)\n\thave(%v)", wantLengths,
			length.Lengths())
	}

	if err := ret.Save(); err != nil {
		t.Fatal(err)
	}
	if err := length.Save(); err != nil {
		t.Fatal(err)
	}

	data, err := LoadData(filename)
	if err != nil {
		t.Fatal(err)
	}
	if !floats.Equal(data, want) {
		t.Errorf("loaded returns\n\twant(%v)\n\thave(%v)", want, data)
	}
	data, err = LoadData(lengthFile)
	if err != nil {
		t.Fatal(err)
	}
	if !floats.Equal(data, wantLengths) {
		t.Errorf("loaded lengths\n\twant(%v)\n\thave(%v)", wantLengths, data)
	}
}

func TestReturnNonSequential(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("non-sequential timesteps did not panic")
		}
	}()

	r := NewReturn("")
	r.Track(ts.New(ts.First, 0, nil, 0))
	r.Track(ts.New(ts.Mid, 0, nil, 2))
}

func TestLoadDataMissing(t *testing.T) {
	if _, err := LoadData(filepath.Join(t.TempDir(), "none")); err == nil {
		t.Error("loading missing file succeeded")
	}
}

func TestLossLog(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "training_loss.txt")

	l, err := NewLossLog(filename)
	if err != nil {
		t.Fatal(err)
	}
	for _, loss := range []float64{1, 2, 4.5} {
		if err := l.Log(loss); err != nil {
			t.Fatal(err)
		}
	}
	if m := l.Mean(); m != 2.5 {
		t.Errorf("mean\n\twant(2.5)\n\thave(%v)", m)
	}
	if err := l.Flush(); err != nil {
		t.Fatal(err)
	}
	if m := l.Mean(); m != 0 {
		t.Errorf("mean after flush\n\twant(0)\n\thave(%v)", m)
	}
	if err := l.Log(0.25); err != nil {
		t.Fatal(err)
	}
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	if c := l.Count(); c != 4 {
		t.Errorf("count\n\twant(4)\n\thave(%v)", c)
	}

	// Reopening appends
	l, err = NewLossLog(filename)
	if err != nil {
		t.Fatal(err)
	}
	l.Log(8)
	l.Close()

	data, err := ioutil.ReadFile(filename)
	if err != nil {
		t.Fatal(err)
	}
	want := "1\n2\n4.5\n0.25\n8\n"
	if got := string(data); got != want {
		t.Errorf("log file\n\twant(%q)\n\thave(%q)", want, got)
	}
	if lines := strings.Count(string(data), "\n"); lines != 5 {
		t.Errorf("lines\n\twant(5)\n\thave(%v)", lines)
	}
}

func TestLossLogUnwritable(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing", "training_loss.txt")
	if _, err := NewLossLog(dir); err == nil {
		t.Error("opened log in missing directory")
	}
}
