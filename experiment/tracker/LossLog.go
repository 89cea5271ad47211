package tracker

import (
	"bufio"
	"os"

	"github.com/Mugna0990/RL-Car-Navigation-from-scratch/utils/matutils"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"
)

// LossLog appends the average loss of each learning step to a text
// file, one value per line. A LossLog must be closed to flush the file.
type LossLog struct {
	file   *os.File
	writer *bufio.Writer

	// Losses logged since the last call to Flush
	recent []float64
	count  int
}

// NewLossLog opens filename for appending and returns a LossLog that
// writes to it
func NewLossLog(filename string) (*LossLog, error) {
	file, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY,
		0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "newLossLog: could not open %v",
			filename)
	}

	return &LossLog{file: file, writer: bufio.NewWriter(file)}, nil
}

// Log records a single loss value
func (l *LossLog) Log(loss float64) error {
	l.recent = append(l.recent, loss)
	l.count++

	if _, err := l.writer.WriteString(matutils.FormatFloat(loss) +
		"\n"); err != nil {
		return errors.Wrap(err, "log")
	}
	return nil
}

// Count returns the total number of losses logged
func (l *LossLog) Count() int {
	return l.count
}

// Mean returns the mean of the losses logged since the last call to
// Flush, or 0 if none were logged
func (l *LossLog) Mean() float64 {
	if len(l.recent) == 0 {
		return 0
	}
	return stat.Mean(l.recent, nil)
}

// Flush writes buffered losses to the file and resets the running mean
func (l *LossLog) Flush() error {
	l.recent = l.recent[:0]
	return errors.Wrap(l.writer.Flush(), "flush")
}

// Close flushes and closes the underlying file
func (l *LossLog) Close() error {
	flushErr := l.writer.Flush()
	closeErr := l.file.Close()
	if flushErr != nil {
		return errors.Wrap(flushErr, "close")
	}
	return errors.Wrap(closeErr, "close")
}
