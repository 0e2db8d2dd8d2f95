package core

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// parallelThreshold is the number of scalar operations below which kernels
// run on the calling goroutine.
const parallelThreshold = 1 << 14

// parallelRows runs fn over [0, n) split into contiguous row ranges, one
// goroutine per range. fn must only write output rows inside its range.
// cost is the approximate work per row and decides whether to fan out.
// A panic inside fn is returned as an error once every range has stopped.
func parallelRows(n, cost int, fn func(lo, hi int)) error {
	if n == 0 {
		return nil
	}
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	if workers <= 1 || n*cost < parallelThreshold {
		return runRange(fn, 0, n)
	}

	var g errgroup.Group
	g.SetLimit(workers)
	chunk := (n + workers - 1) / workers
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		g.Go(func() error {
			return runRange(fn, lo, hi)
		})
	}
	return g.Wait()
}

func runRange(fn func(lo, hi int), lo, hi int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("rows [%d,%d): kernel panic: %v", lo, hi, r)
		}
	}()
	fn(lo, hi)
	return nil
}

// mustRows is parallelRows for kernels that cannot fail on valid operands.
func mustRows(n, cost int, fn func(lo, hi int)) {
	if err := parallelRows(n, cost, fn); err != nil {
		panic(err)
	}
}

// Add returns a + b.
func Add(a, b *Matrix) (*Matrix, error) {
	return elementwise("add", a, b, func(x, y float64) float64 { return x + y })
}

// Subtract returns a - b.
func Subtract(a, b *Matrix) (*Matrix, error) {
	return elementwise("subtract", a, b, func(x, y float64) float64 { return x - y })
}

func elementwise(op string, a, b *Matrix, f func(x, y float64) float64) (*Matrix, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrNilMatrix)
	}
	if a.rows != b.rows || a.cols != b.cols {
		return nil, shapeErrorf(op, a, b)
	}
	out := make([]float64, len(a.data))
	c := a.cols
	err := parallelRows(a.rows, c, func(lo, hi int) {
		for k := lo * c; k < hi*c; k++ {
			out[k] = f(a.data[k], b.data[k])
		}
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return wrap(a.rows, a.cols, out), nil
}

// Multiply returns the matrix product a·b. a.Cols() must equal b.Rows().
func Multiply(a, b *Matrix) (*Matrix, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("multiply: %w", ErrNilMatrix)
	}
	if a.cols != b.rows {
		return nil, shapeErrorf("multiply", a, b)
	}
	n, inner, p := a.rows, a.cols, b.cols
	out := make([]float64, n*p)
	err := parallelRows(n, inner*p, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			ai := a.row(i)
			oi := out[i*p : (i+1)*p]
			for j := 0; j < p; j++ {
				var sum float64
				for k := 0; k < inner; k++ {
					sum += ai[k] * b.data[k*p+j]
				}
				oi[j] = sum
			}
		}
	})
	if err != nil {
		return nil, fmt.Errorf("multiply: %w", err)
	}
	return wrap(n, p, out), nil
}

// Scale returns every entry of a multiplied by s.
func Scale(a *Matrix, s float64) *Matrix {
	out := make([]float64, len(a.data))
	c := a.cols
	mustRows(a.rows, c, func(lo, hi int) {
		for k := lo * c; k < hi*c; k++ {
			out[k] = a.data[k] * s
		}
	})
	return wrap(a.rows, a.cols, out)
}

// ScaleLeft is the commuted form s·a.
func ScaleLeft(s float64, a *Matrix) *Matrix {
	return Scale(a, s)
}

// Negate returns -a.
func Negate(a *Matrix) *Matrix {
	return Scale(a, -1)
}

// Transpose returns aᵀ.
func Transpose(a *Matrix) *Matrix {
	rows, cols := a.cols, a.rows
	out := make([]float64, rows*cols)
	mustRows(rows, cols, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			for j := 0; j < cols; j++ {
				out[i*cols+j] = a.data[j*a.cols+i]
			}
		}
	})
	return wrap(rows, cols, out)
}

// MultiplyAlternately multiplies a by b and then by a again, once per row of b,
// starting from a. Both operands must be square with the same size.
func MultiplyAlternately(a, b *Matrix) (*Matrix, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("multiply alternately: %w", ErrNilMatrix)
	}
	if a.rows != b.rows || a.cols != b.cols {
		return nil, shapeErrorf("multiply alternately", a, b)
	}
	result := a
	for i := 0; i < b.rows; i++ {
		var err error
		if result, err = Multiply(result, b); err != nil {
			return nil, err
		}
		if result, err = Multiply(result, a); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// ScalarProductSum returns the sum of a·b taken b.Rows() times.
func ScalarProductSum(a, b *Matrix) (*Matrix, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("scalar product: %w", ErrNilMatrix)
	}
	if a.rows != b.rows || a.cols != b.cols {
		return nil, shapeErrorf("scalar product", a, b)
	}
	product, err := Multiply(a, b)
	if err != nil {
		return nil, err
	}
	result := product
	for i := 1; i < b.rows; i++ {
		if result, err = Add(result, product); err != nil {
			return nil, err
		}
	}
	return result, nil
}
