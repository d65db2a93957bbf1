package experiment

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/samuelfneumann/gomario/agent"
	env "github.com/samuelfneumann/gomario/environment"
	"github.com/samuelfneumann/gomario/experiment/tracker"
	ts "github.com/samuelfneumann/gomario/timestep"
)

// Online is an Experiment that runs an agent online only. No offline
// evaluation is performed.
type Online struct {
	env.Environment
	agent.Agent
	maxSteps     int
	currentSteps int
	episodes     int
	trackers     []tracker.Tracker
	logger       *log.Logger

	// OnStep, if set, is called after every step of the experiment
	OnStep func(step ts.TimeStep)
}

// NewOnline creates and returns a new online experiment on a given
// environment with a given agent. The steps parameter determines how
// many timesteps the experiment is run for, and the t parameter
// is a slice of tracker.Tracker which determine what data is saved.
func NewOnline(e env.Environment, a agent.Agent, steps int,
	logger *log.Logger, t ...tracker.Tracker) (*Online, error) {
	if steps < 1 {
		return nil, fmt.Errorf("newOnline: steps %d < 1", steps)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Online{
		Environment: e,
		Agent:       a,
		maxSteps:    steps,
		trackers:    t,
		logger:      logger,
	}, nil
}

// Register registers a tracker.Tracker with an Experiment so that data
// generated during the experiment can be tracked and saved
func (o *Online) Register(t tracker.Tracker) {
	o.trackers = append(o.trackers, t)
}

// Steps returns the number of steps run so far
func (o *Online) Steps() int {
	return o.currentSteps
}

// Episodes returns the number of episodes started so far
func (o *Online) Episodes() int {
	return o.episodes
}

// RunEpisode runs a single episode of the experiment and returns
// whether or not the step limit has been reached. If the step limit is
// reached mid-episode, the episode is left unfinished.
func (o *Online) RunEpisode(ctx context.Context) (bool, error) {
	step, err := o.Environment.Reset()
	if err != nil {
		return false, fmt.Errorf("runEpisode: %w", err)
	}
	if err := o.Agent.ObserveFirst(step); err != nil {
		return false, fmt.Errorf("runEpisode: %w", err)
	}
	o.episodes++
	o.track(step)

	for !step.Last() && o.currentSteps < o.maxSteps {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		o.currentSteps++

		action := o.Agent.SelectAction(step)
		step, _, err = o.Environment.Step(action)
		if err != nil {
			return false, fmt.Errorf("runEpisode: %w", err)
		}
		o.track(step)
		if o.OnStep != nil {
			o.OnStep(step)
		}

		if err := o.Agent.Observe(action, step); err != nil {
			return false, fmt.Errorf("runEpisode: %w", err)
		}
		if err := o.Agent.Step(); err != nil {
			return false, fmt.Errorf("runEpisode: %w", err)
		}
	}

	if step.Last() {
		o.Agent.EndEpisode()
		o.logger.Debug("episode finished", "episode", o.episodes,
			"steps", step.Number, "end", step.EndType)
	}
	return o.currentSteps >= o.maxSteps, nil
}

// Run runs the entire experiment for all timesteps
func (o *Online) Run(ctx context.Context) error {
	for {
		done, err := o.RunEpisode(ctx)
		if err != nil {
			return err
		}
		if done {
			o.logger.Info("experiment finished", "steps", o.currentSteps,
				"episodes", o.episodes)
			return nil
		}
	}
}

// Save saves all the data cached by the Trackers, returning every
// error encountered
func (o *Online) Save() error {
	var errs []error
	for _, t := range o.trackers {
		if err := t.Save(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// track tracks the current timestep by caching its data in each Tracker
func (o *Online) track(t ts.TimeStep) {
	for _, tr := range o.trackers {
		tr.Track(t)
	}
}
