// Package matutils implements utility function for working with mat.Matrix
// structs, including the plain text format that layers and optimizers
// are persisted in.
package matutils

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Format formats a matrix for printing
func Format(X mat.Matrix) string {
	fa := mat.Formatted(X, mat.Prefix(""), mat.Squeeze())
	return fmt.Sprintf("%v", fa)
}

// FormatFloat formats a float so that parsing it back with
// strconv.ParseFloat reproduces the exact value
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WriteRow writes values to w as a single line of space separated
// floats
func WriteRow(w io.Writer, values []float64) error {
	fields := make([]string, len(values))
	for i, v := range values {
		fields[i] = FormatFloat(v)
	}
	_, err := fmt.Fprintln(w, strings.Join(fields, " "))
	return err
}

// WriteDense writes each row of X to w on its own line
func WriteDense(w io.Writer, X *mat.Dense) error {
	r, _ := X.Dims()
	for i := 0; i < r; i++ {
		if err := WriteRow(w, X.RawRowView(i)); err != nil {
			return err
		}
	}
	return nil
}

// WriteVec writes x to w as a single line
func WriteVec(w io.Writer, x *mat.VecDense) error {
	return WriteRow(w, x.RawVector().Data)
}

// Reader reads whitespace separated rows of floats line by line
type Reader struct {
	scanner *bufio.Scanner
	line    int
}

// NewReader returns a new Reader reading from r
func NewReader(r io.Reader) *Reader {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	return &Reader{scanner: scanner}
}

// Row reads the next line and parses exactly n floats from it
func (r *Reader) Row(n int) ([]float64, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return nil, errors.Wrapf(err, "row: line %d", r.line+1)
		}
		return nil, errors.Errorf("row: unexpected end of input at line %d",
			r.line+1)
	}
	r.line++

	fields := strings.Fields(r.scanner.Text())
	if len(fields) != n {
		return nil, fmt.Errorf("row: line %d has wrong number of values"+
			"\n\twant(%v)\n\thave(%v)", r.line, n, len(fields))
	}

	values := make([]float64, n)
	for i, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "row: line %d", r.line)
		}
		values[i] = v
	}
	return values, nil
}

// Dense reads rows lines of cols floats each into a new matrix
func (r *Reader) Dense(rows, cols int) (*mat.Dense, error) {
	data := make([]float64, 0, rows*cols)
	for i := 0; i < rows; i++ {
		row, err := r.Row(cols)
		if err != nil {
			return nil, err
		}
		data = append(data, row...)
	}
	return mat.NewDense(rows, cols, data), nil
}

// Vec reads a single line of n floats into a new vector
func (r *Reader) Vec(n int) (*mat.VecDense, error) {
	row, err := r.Row(n)
	if err != nil {
		return nil, err
	}
	return mat.NewVecDense(n, row), nil
}

// EOF returns an error if anything other than blank lines remains to be
// read
func (r *Reader) EOF() error {
	for r.scanner.Scan() {
		r.line++
		if strings.TrimSpace(r.scanner.Text()) != "" {
			return errors.Errorf("eof: unexpected data at line %d", r.line)
		}
	}
	if err := r.scanner.Err(); err != nil {
		return errors.Wrapf(err, "eof: line %d", r.line+1)
	}
	return nil
}
