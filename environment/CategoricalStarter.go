package environment

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// CategoricalStarter samples starting indices (e.g. of a starting
// stage in a catalog of stages) from a categorical distribution over
// (0, 1, 2, ... N-1).
//
// The random source is shared, not copied: reseeding the source
// passed to NewCategoricalStarter reseeds the starter.
type CategoricalStarter struct {
	n    int
	rand distuv.Categorical
}

// NewCategoricalStarter returns a new CategoricalStarter, sampling
// index i with probability proportional to weights[i]
func NewCategoricalStarter(weights []float64,
	source rand.Source) (CategoricalStarter, error) {
	if len(weights) == 0 {
		return CategoricalStarter{}, fmt.Errorf("newCategoricalStarter: " +
			"at least one weight is required")
	}

	var total float64
	for i, w := range weights {
		if w < 0 {
			return CategoricalStarter{}, fmt.Errorf("newCategoricalStarter: "+
				"weight %d is negative: %v", i, w)
		}
		total += w
	}
	if total == 0 {
		return CategoricalStarter{}, fmt.Errorf("newCategoricalStarter: " +
			"weights sum to zero")
	}

	dist := distuv.NewCategorical(weights, source)
	return CategoricalStarter{len(weights), dist}, nil
}

// NewUniformStarter returns a new CategoricalStarter sampling each of
// (0, 1, 2, ... n-1) with equal probability
func NewUniformStarter(n int, source rand.Source) (CategoricalStarter,
	error) {
	weights := make([]float64, n)
	for i := range weights {
		weights[i] = 1.0
	}

	return NewCategoricalStarter(weights, source)
}

// Start returns a starting index
func (c CategoricalStarter) Start() int {
	return int(c.rand.Rand())
}

// Len returns the number of categories
func (c CategoricalStarter) Len() int {
	return c.n
}
