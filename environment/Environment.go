// Package environment outlines the interfaces and structs needed to
// implement concrete environments
package environment

import (
	"github.com/samuelfneumann/gomario/timestep"
	"gonum.org/v1/gonum/mat"
)

// Ender determines when an episode should be ended. If End returns
// true, it has already modified the argument TimeStep so that it is the
// last in the episode with the appropriate timestep.EndType.
type Ender interface {
	End(t *timestep.TimeStep) (bool, error)
}

// Environment implements a simulated environment which agents act in
type Environment interface {
	// Reset begins a new episode and returns its first TimeStep
	Reset() (timestep.TimeStep, error)

	// Step takes one environmental step given action a and returns the
	// next TimeStep and whether or not it is the last in the episode
	Step(a *mat.VecDense) (timestep.TimeStep, bool, error)

	// CurrentTimeStep returns the most recent TimeStep
	CurrentTimeStep() timestep.TimeStep

	RewardSpec() Spec
	ObservationSpec() Spec
	ActionSpec() Spec
}

// Closer is an Environment holding resources that must be released
type Closer interface {
	Environment
	Close() error
}
