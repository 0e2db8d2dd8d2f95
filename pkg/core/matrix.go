// Package core holds the matrix value type, its arithmetic, and the
// persistence contracts (codecs, repositories, the bulk I/O service).
package core

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"sync"
)

// Matrix is an immutable dense rows×cols matrix of float64 values stored in
// row-major order. Every constructor copies its input, so a Matrix never
// aliases caller-owned storage and may be shared freely between goroutines.
type Matrix struct {
	rows, cols int
	data       []float64

	hashOnce sync.Once
	hash     uint64
}

// New builds a matrix from a slice of rows. All rows must have the same length.
func New(values [][]float64) (*Matrix, error) {
	rows := len(values)
	if rows == 0 {
		return &Matrix{}, nil
	}
	cols := len(values[0])
	data := make([]float64, 0, rows*cols)
	for i, row := range values {
		if len(row) != cols {
			return nil, fmt.Errorf("row %d has %d entries, want %d: %w", i, len(row), cols, ErrBadShape)
		}
		data = append(data, row...)
	}
	return &Matrix{rows: rows, cols: cols, data: data}, nil
}

// MustNew is like New but panics on ragged input. Intended for fixtures.
func MustNew(values [][]float64) *Matrix {
	m, err := New(values)
	if err != nil {
		panic(err)
	}
	return m
}

// NewFromData builds a rows×cols matrix from a row-major slice.
func NewFromData(rows, cols int, data []float64) (*Matrix, error) {
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("%dx%d: %w", rows, cols, ErrBadShape)
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("%dx%d needs %d values, got %d: %w", rows, cols, rows*cols, len(data), ErrBadShape)
	}
	owned := make([]float64, len(data))
	copy(owned, data)
	return &Matrix{rows: rows, cols: cols, data: owned}, nil
}

// wrap takes ownership of data without copying. Only for buffers allocated
// inside this package.
func wrap(rows, cols int, data []float64) *Matrix {
	return &Matrix{rows: rows, cols: cols, data: data}
}

// Zero returns a rows×cols matrix of zeros. Negative dimensions panic.
func Zero(rows, cols int) *Matrix {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("matrixvault: negative dimensions %dx%d", rows, cols))
	}
	return wrap(rows, cols, make([]float64, rows*cols))
}

// ZeroSquare returns a size×size matrix of zeros.
func ZeroSquare(size int) *Matrix {
	return Zero(size, size)
}

// Identity returns the size×size identity matrix.
func Identity(size int) *Matrix {
	m := ZeroSquare(size)
	for i := 0; i < size; i++ {
		m.data[i*size+i] = 1
	}
	return m
}

// Random returns a rows×cols matrix with entries drawn uniformly from [-10, 10).
func Random(rows, cols int, rng *rand.Rand) *Matrix {
	m := Zero(rows, cols)
	for i := range m.data {
		m.data[i] = rng.Float64()*20 - 10
	}
	return m
}

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.cols }

// At returns the entry at (i, j) or ErrOutOfRange.
func (m *Matrix) At(i, j int) (float64, error) {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		return 0, fmt.Errorf("At(%d,%d) on %dx%d: %w", i, j, m.rows, m.cols, ErrOutOfRange)
	}
	return m.data[i*m.cols+j], nil
}

// Row returns a copy of row i.
func (m *Matrix) Row(i int) ([]float64, error) {
	if i < 0 || i >= m.rows {
		return nil, fmt.Errorf("Row(%d) on %dx%d: %w", i, m.rows, m.cols, ErrOutOfRange)
	}
	out := make([]float64, m.cols)
	copy(out, m.data[i*m.cols:(i+1)*m.cols])
	return out, nil
}

// Values returns a copy of the matrix as a slice of rows.
func (m *Matrix) Values() [][]float64 {
	out := make([][]float64, m.rows)
	for i := range out {
		out[i] = make([]float64, m.cols)
		copy(out[i], m.data[i*m.cols:(i+1)*m.cols])
	}
	return out
}

// Data returns a copy of the row-major backing values.
func (m *Matrix) Data() []float64 {
	out := make([]float64, len(m.data))
	copy(out, m.data)
	return out
}

// row is a read-only view into the backing slice.
func (m *Matrix) row(i int) []float64 {
	return m.data[i*m.cols : (i+1)*m.cols]
}

// Transpose returns a new matrix with rows and columns swapped.
func (m *Matrix) Transpose() *Matrix {
	return Transpose(m)
}

// Equals reports structural equality: identical shape and every entry equal
// under IEEE-754 comparison (NaN is never equal to anything).
func (m *Matrix) Equals(other *Matrix) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.rows != other.rows || m.cols != other.cols {
		return false
	}
	for i, v := range m.data {
		if v != other.data[i] {
			return false
		}
	}
	return true
}

// HashCode returns a hash of the shape and entries. It is computed once and
// cached; equal matrices always hash equally.
func (m *Matrix) HashCode() uint64 {
	m.hashOnce.Do(func() {
		h := fnv.New64a()
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], uint64(m.rows))
		h.Write(buf[:])
		binary.LittleEndian.PutUint64(buf[:], uint64(m.cols))
		h.Write(buf[:])
		for _, v := range m.data {
			if v == 0 {
				v = 0 // -0 == +0, so they must hash alike
			}
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			h.Write(buf[:])
		}
		m.hash = h.Sum64()
	})
	return m.hash
}

// String renders one line per row with entries separated by ", ".
func (m *Matrix) String() string {
	var sb strings.Builder
	for i := 0; i < m.rows; i++ {
		for j, v := range m.row(i) {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
