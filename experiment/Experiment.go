// Package experiment implements functionality for running an experiment
package experiment

import (
	"context"

	"github.com/samuelfneumann/gomario/experiment/tracker"
)

// Interface Experiment outlines structs that can run experiments.
// Experiments track environment TimeSteps by sending each TimeStep to
// Trackers, which cache the data they need and save it to disk when
// Save is called. Run runs episodes until the step limit is reached or
// the context is cancelled, and RunEpisode runs a single episode.
type Experiment interface {
	Run(ctx context.Context) error

	// RunEpisode runs one episode and returns whether or not the step
	// limit of the experiment was reached
	RunEpisode(ctx context.Context) (bool, error)

	// Save all tracked data
	Save() error

	// Adds a new tracker.Tracker to the (possibly already running)
	// experiment
	Register(t tracker.Tracker)
}
