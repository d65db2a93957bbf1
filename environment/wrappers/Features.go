package wrappers

import (
	"fmt"
	"io"

	"github.com/samuelfneumann/gomario/environment"
	ts "github.com/samuelfneumann/gomario/timestep"
	"github.com/samuelfneumann/gomario/utils/floatutils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gorgonia.org/tensor"
)

// Feature names a numeric field of the Info of a TimeStep and the
// interval it is clipped to
type Feature struct {
	Name   string
	Bounds r1.Interval
}

// MarioFeatures are the position and velocity fields of the Info of
// Super Mario Bros. environments
var MarioFeatures = []Feature{
	{Name: "x_pos", Bounds: r1.Interval{Min: 0, Max: 3300}},
	{Name: "y_pos", Bounds: r1.Interval{Min: -200, Max: 255}},
	{Name: "x_speed", Bounds: r1.Interval{Min: -5, Max: 5}},
	{Name: "y_speed", Bounds: r1.Interval{Min: -8, Max: 8}},
}

// Features wraps an environment and replaces its observations with a
// vector of fields of the Info of each TimeStep. Each field is clipped
// to its Feature bounds. Fields may be ints, floats or bools.
//
// Features itself implements the environment.Environment interface and
// is therefore itself an Environment.
type Features struct {
	environment.Environment
	features        []Feature
	currentTimeStep ts.TimeStep
}

// NewFeatures returns a new Features environment wrapper. The current
// TimeStep of the wrapped environment is converted immediately, so
// that the wrapper may be used without being reset.
func NewFeatures(env environment.Environment, features []Feature) (*Features,
	error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("newFeatures: no features")
	}
	for _, f := range features {
		if f.Bounds.Min >= f.Bounds.Max {
			return nil, fmt.Errorf("newFeatures: feature %v has empty "+
				"bounds %v", f.Name, f.Bounds)
		}
	}

	f := &Features{Environment: env, features: features}
	step, err := f.convert(env.CurrentTimeStep())
	if err != nil {
		return nil, fmt.Errorf("newFeatures: %w", err)
	}
	f.currentTimeStep = step
	return f, nil
}

// Reset resets the environment to some starting state
func (f *Features) Reset() (ts.TimeStep, error) {
	step, err := f.Environment.Reset()
	if err != nil {
		return ts.TimeStep{}, err
	}

	step, err = f.convert(step)
	if err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: %w", err)
	}
	f.currentTimeStep = step
	return step, nil
}

// Step takes one environmental step given action a and returns the
// next TimeStep and whether or not the episode has ended
func (f *Features) Step(a *mat.VecDense) (ts.TimeStep, bool, error) {
	step, last, err := f.Environment.Step(a)
	if err != nil {
		return ts.TimeStep{}, false, err
	}

	step, err = f.convert(step)
	if err != nil {
		return ts.TimeStep{}, false, fmt.Errorf("step: %w", err)
	}
	f.currentTimeStep = step
	return step, last, nil
}

// CurrentTimeStep returns the last TimeStep returned by the wrapper
func (f *Features) CurrentTimeStep() ts.TimeStep {
	return f.currentTimeStep
}

// ObservationSpec returns the observation specification of the
// environment
func (f *Features) ObservationSpec() environment.Spec {
	lower := mat.NewVecDense(len(f.features), nil)
	upper := mat.NewVecDense(len(f.features), nil)
	for i, feature := range f.features {
		lower.SetVec(i, feature.Bounds.Min)
		upper.SetVec(i, feature.Bounds.Max)
	}

	return environment.NewSpec(tensor.Shape{len(f.features)},
		environment.Observation, lower, upper, environment.Continuous)
}

// Close closes the wrapped environment if it holds resources
func (f *Features) Close() error {
	if closer, ok := f.Environment.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// String returns a string representation of the Features environment
func (f *Features) String() string {
	return fmt.Sprintf("Features: %v", f.Environment)
}

// convert replaces the observation of step with its features
func (f *Features) convert(step ts.TimeStep) (ts.TimeStep, error) {
	if step.Info == nil {
		return ts.TimeStep{}, fmt.Errorf("timestep %d has no info",
			step.Number)
	}
	info := step.Info.Map()

	values := make([]float64, len(f.features))
	for i, feature := range f.features {
		var value float64
		switch v := info[feature.Name].(type) {
		case int:
			value = float64(v)
		case float64:
			value = v
		case bool:
			if v {
				value = 1
			}
		default:
			return ts.TimeStep{}, fmt.Errorf("info field %v has "+
				"non-numeric value %v", feature.Name, v)
		}
		values[i] = floatutils.ClipInterval(value, feature.Bounds)
	}

	step.Observation = tensor.New(tensor.WithShape(len(values)),
		tensor.WithBacking(values))
	return step, nil
}
