// Package matutils implements utility function for working with mat.Matrix
// structs
package matutils

import (
	"gonum.org/v1/gonum/mat"
)

// MaxVec finds and returns the index of the maximum value in a vector.
// If multiple equal max values exist, only the first one is returned.
func MaxVec(values mat.Vector) int {
	max, idx := values.AtVec(0), 0
	for i := 1; i < values.Len(); i++ {
		if values.AtVec(i) > max {
			max = values.AtVec(i)
			idx = i
		}
	}
	return idx
}

// SumCols returns the sum of the columns of a matrix at the given
// column indices, which are stored as floats. Repeated indices are
// summed repeatedly.
func SumCols(m mat.Matrix, cols []float64) *mat.VecDense {
	r, _ := m.Dims()
	sum := mat.NewVecDense(r, nil)
	for _, col := range cols {
		for i := 0; i < r; i++ {
			sum.SetVec(i, sum.AtVec(i)+m.At(i, int(col)))
		}
	}
	return sum
}
