// Package timestep implements timesteps of the agent-environment interaction
package timestep

import (
	"fmt"

	"gorgonia.org/tensor"
)

// StepType denotes the type of step that a TimeStep can be, either  first
// environmental step, a middle step, or a last step
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	default:
		return "Mid"
	}
}

// EndType describes why an episode ended. Only the last TimeStep of
// an episode has an EndType other than NotEnded.
type EndType int

const (
	NotEnded EndType = iota

	// Terminated episodes ended naturally, as defined by the game
	Terminated

	// Truncated episodes were cut short by a step limit or by a
	// user-supplied predicate
	Truncated
)

func (e EndType) String() string {
	switch e {
	case Terminated:
		return "Terminated"
	case Truncated:
		return "Truncated"
	default:
		return "NotEnded"
	}
}

// Info is auxiliary diagnostic information attached to a TimeStep
type Info interface {
	Map() map[string]interface{}
}

// TimeStep packages together a single timestep in an environment
type TimeStep struct {
	StepType
	EndType
	Reward      float64
	Observation *tensor.Dense
	Info        Info
	Number      int
}

// New returns a new TimeStep
func New(t StepType, r float64, o *tensor.Dense, info Info, n int) TimeStep {
	return TimeStep{
		StepType:    t,
		Reward:      r,
		Observation: o,
		Info:        info,
		Number:      n,
	}
}

// First returns whether a TimeStep is the first in an environment
func (t *TimeStep) First() bool {
	return t.StepType == First
}

// Mid returns whether a TimeStep is a middle step in an environment
func (t *TimeStep) Mid() bool {
	return t.StepType == Mid
}

// Last returns whether a TimeStep is the last step in an environment
func (t *TimeStep) Last() bool {
	return t.StepType == Last
}

// SetEnd marks the TimeStep as the last in its episode with the given
// ending type
func (t *TimeStep) SetEnd(e EndType) {
	t.StepType = Last
	t.EndType = e
}

// Terminated returns whether the episode ended naturally on this
// TimeStep
func (t *TimeStep) Terminated() bool {
	return t.EndType == Terminated
}

// Truncated returns whether the episode was cut short on this TimeStep
func (t *TimeStep) Truncated() bool {
	return t.EndType == Truncated
}

func (t TimeStep) String() string {
	str := "TimeStep | Type: %v  |  End: %v  |  Reward:  %.2f  |  " +
		"Step Number:  %v"

	return fmt.Sprintf(str, t.StepType, t.EndType, t.Reward, t.Number)
}
