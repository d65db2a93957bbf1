package matutils

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestMaxVec(t *testing.T) {
	tests := []struct {
		values []float64
		want   int
	}{
		{[]float64{1}, 0},
		{[]float64{-3, -1, -2}, 1},
		{[]float64{0, 4, 4, 1}, 1},
		{[]float64{5, 4, 3}, 0},
	}
	for _, test := range tests {
		v := mat.NewVecDense(len(test.values), test.values)
		if got := MaxVec(v); got != test.want {
			t.Errorf("MaxVec(%v) = %d, want %d", test.values, got, test.want)
		}
	}
}

func TestSumCols(t *testing.T) {
	m := mat.NewDense(2, 3, []float64{
		1, 2, 3,
		4, 5, 6,
	})
	sum := SumCols(m, []float64{0, 2})
	if sum.AtVec(0) != 4 || sum.AtVec(1) != 10 {
		t.Errorf("SumCols = %v, want [4 10]", mat.Formatted(sum.T()))
	}

	if empty := SumCols(m, nil); empty.AtVec(0) != 0 || empty.AtVec(1) != 0 {
		t.Errorf("SumCols of no columns is not zero")
	}
}
