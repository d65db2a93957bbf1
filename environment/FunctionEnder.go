package environment

import (
	"github.com/samuelfneumann/gomario/timestep"
)

// FunctionEnder ends an episode whenever a function of the current
// TimeStep returns true.
type FunctionEnder struct {
	end     func(*timestep.TimeStep) (bool, error)
	endType timestep.EndType
}

// NewFunctionEnder returns a new FunctionEnder which ends episodes with
// end type endType when f returns true.
func NewFunctionEnder(f func(*timestep.TimeStep) (bool, error),
	endType timestep.EndType) Ender {
	return &FunctionEnder{f, endType}
}

// End determines whether or not the current episode should be ended,
// returning a boolean to indicate episode termination. If the episode
// should be ended, End() will modify the timestep so that its StepType
// field is timestep.Last and its EndType is the appropriate ending
// type. Errors returned by the function are returned unchanged, and
// the timestep is left unmodified.
func (f *FunctionEnder) End(t *timestep.TimeStep) (bool, error) {
	end, err := f.end(t)
	if err != nil {
		return false, err
	}
	if end {
		t.SetEnd(f.endType)
		return true, nil
	}
	return false, nil
}
