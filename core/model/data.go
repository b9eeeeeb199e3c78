package model

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/modelselect/pkg/errors"
)

// CheckObservations verifies that X and y can be paired.
func CheckObservations(op string, X mat.Matrix, y []float64) error {
	if X == nil {
		return errors.NewModelError(op, "nil observations", errors.ErrEmptyData)
	}
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError(op, "empty observations", errors.ErrEmptyData)
	}
	if r != len(y) {
		return errors.NewDimensionError(op, r, len(y), 0)
	}
	return nil
}

// Rows copies the given rows of X into a new matrix, in index order.
func Rows(X mat.Matrix, indices []int) *mat.Dense {
	if len(indices) == 0 {
		return &mat.Dense{}
	}
	_, c := X.Dims()
	out := mat.NewDense(len(indices), c, nil)
	for i, idx := range indices {
		for j := 0; j < c; j++ {
			out.Set(i, j, X.At(idx, j))
		}
	}
	return out
}

// Targets copies the given entries of y, in index order.
func Targets(y []float64, indices []int) []float64 {
	out := make([]float64, len(indices))
	for i, idx := range indices {
		out[i] = y[idx]
	}
	return out
}

// ColumnVector wraps a copy of y as an n×1 matrix.
func ColumnVector(y []float64) *mat.Dense {
	data := make([]float64, len(y))
	copy(data, y)
	return mat.NewDense(len(y), 1, data)
}

// Column copies column j of m.
func Column(m mat.Matrix, j int) []float64 {
	r, _ := m.Dims()
	out := make([]float64, r)
	for i := range out {
		out[i] = m.At(i, j)
	}
	return out
}
