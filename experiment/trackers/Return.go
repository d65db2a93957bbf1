// Package trackers implements Trackers of episode data
package trackers

import (
	"fmt"

	"github.com/samuelfneumann/gomario/experiment/tracker"
	ts "github.com/samuelfneumann/gomario/timestep"
)

// Return tracks and saves the episodic return in an experiment. When
// an environment returns a TimeStep, this Tracker will extract the
// reward and accumulate the return for each episode in the experiment.
//
// Note: If an environment is wrapped by some environment wrapper
// which modifies rewards, then this Tracker tracks the modified rewards
// returned by the wrapper.
//
// Note: An episode must finish for this Tracker to save its data.
// If the last episode in an experiment does not finish, that episode's
// return will not be saved.
type Return struct {
	lastTimeStep   int
	currentReturn  float64
	episodeReturns []float64
	filename       string
}

// NewReturn creates and returns a new *Return Tracker
func NewReturn(filename string) *Return {
	return &Return{lastTimeStep: -1, filename: filename}
}

// Track tracks the rewards seen on a timestep. A First TimeStep starts
// accumulating the return of a new episode.
//
// Track panics if the TimeSteps of an episode are tracked out of
// order.
func (r *Return) Track(step ts.TimeStep) {
	if step.First() {
		r.currentReturn = 0
		r.lastTimeStep = step.Number
		return
	}

	if step.Number <= r.lastTimeStep {
		panic(fmt.Sprintf("track: timesteps tracked out of order: "+
			"timestep %v --> timestep %v", r.lastTimeStep, step.Number))
	}
	r.lastTimeStep = step.Number
	r.currentReturn += step.Reward

	if step.Last() {
		r.episodeReturns = append(r.episodeReturns, r.currentReturn)
		r.currentReturn = 0
		r.lastTimeStep = -1
	}
}

// Returns returns the returns of the finished episodes
func (r *Return) Returns() []float64 {
	return r.episodeReturns
}

// Save saves the data tracked by the Return Tracker to disk
func (r *Return) Save() error {
	if err := tracker.SaveData(r.filename, r.episodeReturns); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

