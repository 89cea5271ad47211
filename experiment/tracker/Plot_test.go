package tracker

import (
	"os"
	"path/filepath"
	"testing"

	"gonum.org/v1/gonum/floats"
)

func TestMovingAverage(t *testing.T) {
	data := []float64{2, 4, 6, 8, 10}

	want := []float64{2, 3, 4, 6, 8}
	if avg := MovingAverage(data, 3); !floats.Equal(avg, want) {
		t.Errorf("moving average\n\twant(%v)\n\thave(%v)", want, avg)
	}
	if avg := MovingAverage(data, 0); !floats.Equal(avg, data) {
		t.Errorf("window 0\n\twant(%v)\n\thave(%v)", data, avg)
	}
}

func TestPlot(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "returns.png")
	data := []float64{-100, -50, -20, 10, 50, 90, 100}

	if err := Plot(data, 3, "Training", "Return", filename); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(filename)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("empty plot file")
	}
}
