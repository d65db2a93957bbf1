package environment

import "github.com/samuelfneumann/gomario/timestep"

// StepLimit implements the Ender interface to truncate episodes at
// specific timestep limits. A limit of 0 never ends an episode.
type StepLimit struct {
	episodeSteps int
}

// NewStepLimit creates and returns a new step limit
func NewStepLimit(episodeSteps int) StepLimit {
	return StepLimit{episodeSteps}
}

// Steps returns the step limit
func (s StepLimit) Steps() int {
	return s.episodeSteps
}

// End determines whether or not the current episode should be ended,
// returning a boolean to indicate episode truncation. If the episode
// should be ended End() will modify the timestep so that its StepType
// field is timestep.Last and its EndType is timestep.Truncated
func (s StepLimit) End(t *timestep.TimeStep) (bool, error) {
	if s.episodeSteps > 0 && t.Number >= s.episodeSteps {
		t.SetEnd(timestep.Truncated)
		return true, nil
	}
	return false, nil
}
