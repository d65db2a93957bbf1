package environment

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

// SpecType determines what kind of specification a Spec is. A Spec can
// specify the layout of an acion, an observation, or a reward
type SpecType int

const (
	Action SpecType = iota
	Observation
	Reward
)

// Cardinality determines the cardinality of a number (discrete or continuous)
type Cardinality string

const (
	Continuous Cardinality = "Continuous"
	Discrete   Cardinality = "Discrete"
)

// Spec implements an environment specification, which tells the type,
// shape, and bounds of an action, observation, or reward in an
// environment.
//
// Bounds hold either one value per dimension of Shape, or a single
// value which applies to every element.
type Spec struct {
	Shape      tensor.Shape
	Type       SpecType
	LowerBound mat.Vector
	UpperBound mat.Vector
	Cardinality
}

// NewSpec constructs a new environment specification
// The shape argument outlines the shape of the data described by the
// specification. The argument t outlines what the specification is
// describing (e.g. actions, observations, etc.). The cardinality
// arguments describes whether the values that the spec describes are
// continuous or discrete.
func NewSpec(shape tensor.Shape, t SpecType, lowerBound,
	upperBound mat.Vector, cardinality Cardinality) Spec {
	if lowerBound.Len() != upperBound.Len() {
		panic(fmt.Sprintf("lower bounds length %v must match upper "+
			"bounds length %v", lowerBound.Len(), upperBound.Len()))
	}
	if lowerBound.Len() != 1 && lowerBound.Len() != shape.TotalSize() {
		panic(fmt.Sprintf("bounds length %v must be 1 or match shape %v",
			lowerBound.Len(), shape))
	}
	return Spec{shape, t, lowerBound, upperBound, cardinality}
}

// Scalar returns a Spec describing a single value in [min, max]
func Scalar(t SpecType, min, max float64, cardinality Cardinality) Spec {
	lower := mat.NewVecDense(1, []float64{min})
	upper := mat.NewVecDense(1, []float64{max})

	return NewSpec(tensor.Shape{1}, t, lower, upper, cardinality)
}
