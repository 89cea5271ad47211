package tracker

import (
	"image/color"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// MovingAverage returns the mean of each window of data ending at each
// index. Windows at the start of data are truncated.
func MovingAverage(data []float64, window int) []float64 {
	if window < 1 {
		window = 1
	}

	avg := make([]float64, len(data))
	for i := range data {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		avg[i] = stat.Mean(data[start:i+1], nil)
	}
	return avg
}

// Plot saves a line plot of data against the episode number to
// filename, along with its moving average over window episodes. The
// image format is determined by the extension of filename.
func Plot(data []float64, window int, title, yLabel,
	filename string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Episode"
	p.Y.Label.Text = yLabel

	raw, err := plotter.NewLine(xys(data))
	if err != nil {
		return errors.Wrap(err, "plot: could not create line plotter")
	}
	raw.Color = color.Gray{Y: 160}
	raw.Width = vg.Points(0.5)

	smooth, err := plotter.NewLine(xys(MovingAverage(data, window)))
	if err != nil {
		return errors.Wrap(err, "plot: could not create line plotter")
	}
	smooth.Color = color.RGBA{R: 200, G: 30, B: 30, A: 255}
	smooth.Width = vg.Points(2)

	p.Add(raw, smooth, plotter.NewGrid())
	p.Legend.Add(yLabel, raw)
	p.Legend.Add("moving average", smooth)

	if err := p.Save(8*vg.Inch, 5*vg.Inch, filename); err != nil {
		return errors.Wrap(err, "plot: could not save plot")
	}
	return nil
}

// xys returns the points (i, data[i])
func xys(data []float64) plotter.XYs {
	pts := make(plotter.XYs, len(data))
	for i, y := range data {
		pts[i].X = float64(i)
		pts[i].Y = y
	}
	return pts
}
