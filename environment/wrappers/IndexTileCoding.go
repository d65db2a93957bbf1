package wrappers

import (
	"fmt"
	"io"

	"github.com/samuelfneumann/gomario/environment"
	ts "github.com/samuelfneumann/gomario/timestep"
	"github.com/samuelfneumann/gomario/utils/matutils/tilecoder"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

// IndexTileCoding wraps an environment and returns as observations
// of the environment states a vector of indices of non-zero components
// of the tile-coded representation of the environmental observation.
// For example, if the tile-coded representation of some environment
// state is [1 0 1 0 0 0 1], then this struct would return the vector
// [0 2 6] as the state observation.
//
// Observations of the wrapped environment must be vectors of float64.
// All tile-coded representations contain a bias unit as the first
// feature.
type IndexTileCoding struct {
	environment.Environment
	coder           *tilecoder.TileCoder
	currentTimeStep ts.TimeStep
}

// NewIndexTileCoding creates and returns a new IndexTileCoding
// environment wrapping env, as well as the tile-coded current TimeStep
// of env. Tilings are placed over the observation bounds of env.
//
// The bins parameter specifies both how many tilings to use as well
// as the number of tiles per tiling. The length of the outer-slice is
// the number of tilings. The lengths of the inner-slices are the
// number of bins per dimension for that tiling.
//
// See tilecoder.TileCoder for more details.
func NewIndexTileCoding(env environment.Environment, bins [][]int,
	seed uint64) (*IndexTileCoding, ts.TimeStep, error) {
	spec := env.ObservationSpec()
	if len(spec.Shape) != 1 {
		return nil, ts.TimeStep{}, fmt.Errorf("newIndexTileCoding: "+
			"cannot tile code observations of shape %v", spec.Shape)
	}
	if spec.LowerBound.Len() != spec.Shape.TotalSize() {
		return nil, ts.TimeStep{}, fmt.Errorf("newIndexTileCoding: "+
			"observation bounds must be given per dimension")
	}
	for _, tiling := range bins {
		if len(tiling) != spec.Shape.TotalSize() {
			return nil, ts.TimeStep{}, fmt.Errorf("newIndexTileCoding: "+
				"tiling %v does not match observation shape %v", tiling,
				spec.Shape)
		}
	}
	if len(bins) == 0 {
		return nil, ts.TimeStep{}, fmt.Errorf("newIndexTileCoding: " +
			"no tilings")
	}

	coder := tilecoder.New(spec.LowerBound, spec.UpperBound, bins, seed,
		true)
	t := &IndexTileCoding{Environment: env, coder: coder}

	step, err := t.encode(env.CurrentTimeStep())
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("newIndexTileCoding: %w", err)
	}
	t.currentTimeStep = step
	return t, step, nil
}

// Reset resets the environment to some starting state
func (t *IndexTileCoding) Reset() (ts.TimeStep, error) {
	step, err := t.Environment.Reset()
	if err != nil {
		return ts.TimeStep{}, err
	}

	step, err = t.encode(step)
	if err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: %w", err)
	}
	t.currentTimeStep = step
	return step, nil
}

// Step takes one environmental step given action a and returns the next
// state as a timestep.TimeStep and a bool indicating whether or not the
// episode has ended
func (t *IndexTileCoding) Step(a *mat.VecDense) (ts.TimeStep, bool, error) {
	step, last, err := t.Environment.Step(a)
	if err != nil {
		return ts.TimeStep{}, false, err
	}

	step, err = t.encode(step)
	if err != nil {
		return ts.TimeStep{}, false, fmt.Errorf("step: %w", err)
	}
	t.currentTimeStep = step
	return step, last, nil
}

// CurrentTimeStep returns the last TimeStep returned by the wrapper
func (t *IndexTileCoding) CurrentTimeStep() ts.TimeStep {
	return t.currentTimeStep
}

// ObservationSpec returns the observation specification of the
// environment. Each observation holds one index per tiling plus the
// bias index, each in [0, VecLength).
func (t *IndexTileCoding) ObservationSpec() environment.Spec {
	return environment.NewSpec(tensor.Shape{t.coder.NumIndices()},
		environment.Observation, mat.NewVecDense(1, []float64{0}),
		mat.NewVecDense(1, []float64{float64(t.coder.VecLength() - 1)}),
		environment.Discrete)
}

// VecLength returns the number of features in the tile-coded
// representation
func (t *IndexTileCoding) VecLength() int {
	return t.coder.VecLength()
}

// Close closes the wrapped environment if it holds resources
func (t *IndexTileCoding) Close() error {
	if closer, ok := t.Environment.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// String returns a string representation of the IndexTileCoding environment
func (t *IndexTileCoding) String() string {
	return fmt.Sprintf("IndexTileCoding(%v): %v", t.coder, t.Environment)
}

func (t *IndexTileCoding) encode(step ts.TimeStep) (ts.TimeStep, error) {
	if step.Observation == nil {
		return ts.TimeStep{}, fmt.Errorf("timestep %d has no observation",
			step.Number)
	}
	data, ok := step.Observation.Data().([]float64)
	if !ok {
		return ts.TimeStep{}, fmt.Errorf("observation has type %v, "+
			"expected float64", step.Observation.Dtype())
	}

	indices := t.coder.EncodeIndices(mat.NewVecDense(len(data), data))
	step.Observation = tensor.New(tensor.WithShape(len(indices)),
		tensor.WithBacking(indices))
	return step, nil
}
