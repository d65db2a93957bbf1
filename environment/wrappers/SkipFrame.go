// Package wrappers provides wrappers for environments
package wrappers

import (
	"fmt"
	"io"

	"github.com/samuelfneumann/gomario/environment"
	"github.com/samuelfneumann/gomario/timestep"
	"gonum.org/v1/gonum/mat"
)

// SkipFrame wraps an environment and repeats each action for a fixed
// number of steps of the wrapped environment, returning the sum of the
// rewards. Repetition stops early if the episode ends.
//
// Returned TimeSteps keep the step numbers of the wrapped environment,
// so step limits of the wrapped environment count repeated steps.
//
// SkipFrame itself implements the environment.Environment interface,
// and is therefore itself an Environment.
type SkipFrame struct {
	environment.Environment
	skip     int
	lastStep timestep.TimeStep
}

// NewSkipFrame creates and returns a new SkipFrame Environment wrapper
// which repeats each action skip times
func NewSkipFrame(env environment.Environment, skip int) (*SkipFrame,
	error) {
	if skip < 1 {
		return nil, fmt.Errorf("newSkipFrame: skip %d < 1", skip)
	}
	return &SkipFrame{env, skip, env.CurrentTimeStep()}, nil
}

// Skip returns the number of times each action is repeated
func (s *SkipFrame) Skip() int {
	return s.skip
}

// Reset resets the environment and returns the first TimeStep of the
// new episode
func (s *SkipFrame) Reset() (timestep.TimeStep, error) {
	step, err := s.Environment.Reset()
	if err != nil {
		return timestep.TimeStep{}, fmt.Errorf("reset: %w", err)
	}
	s.lastStep = step
	return step, nil
}

// Step takes skip environmental steps given action a and returns the
// last TimeStep, carrying the summed reward, and whether or not the
// episode has ended.
func (s *SkipFrame) Step(a *mat.VecDense) (timestep.TimeStep, bool, error) {
	var step timestep.TimeStep
	var total float64

	for i := 0; i < s.skip; i++ {
		var last bool
		var err error
		step, last, err = s.Environment.Step(a)
		if err != nil {
			return timestep.TimeStep{}, false, err
		}

		total += step.Reward
		if last {
			break
		}
	}

	step.Reward = total
	s.lastStep = step
	return step, step.Last(), nil
}

// CurrentTimeStep returns the last TimeStep returned by the wrapper
func (s *SkipFrame) CurrentTimeStep() timestep.TimeStep {
	return s.lastStep
}

// RewardSpec returns the reward specification for the environment.
// The bounds of the wrapped environment are scaled by the number of
// repeated steps.
func (s *SkipFrame) RewardSpec() environment.Spec {
	rewardSpec := s.Environment.RewardSpec()

	lower := mat.VecDenseCopyOf(rewardSpec.LowerBound)
	lower.ScaleVec(float64(s.skip), lower)
	upper := mat.VecDenseCopyOf(rewardSpec.UpperBound)
	upper.ScaleVec(float64(s.skip), upper)

	rewardSpec.LowerBound = lower
	rewardSpec.UpperBound = upper
	return rewardSpec
}

// Close closes the wrapped environment if it holds resources
func (s *SkipFrame) Close() error {
	if closer, ok := s.Environment.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// String returns a string representation of the SkipFrame environment
func (s *SkipFrame) String() string {
	return fmt.Sprintf("SkipFrame(%d): %v", s.skip, s.Environment)
}
