// Package smb implements Super Mario Bros. and Super Mario Bros.: The
// Lost Levels as reinforcement learning environments.
//
// An Env drives an NES console (see package nes) one frame per step.
// After each step it decodes the game state from the console's RAM,
// computes a reward from the change in state since the previous step,
// and decides whether the episode ended naturally (terminated) or was
// cut short (truncated).
//
// Rewards reward moving right, penalize the in-game clock ticking, and
// penalize dying, and are clipped into [-15, 15). Episodes which play
// the full game terminate when no lives remain or a flag is reached.
// Episodes which play a single stage, or a randomly sampled stage,
// additionally terminate as soon as the player dies.
//
// Sequences of the game which ignore input, such as cut-scenes and the
// lives screen, are skipped inside of Step: the console is advanced
// with no buttons held until the sequence ends. This wait has no
// timeout and cannot be cancelled.
//
// Env is not safe for concurrent use. Each Env must own its consoles
// and is the only user of its random source.
package smb

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/samuelfneumann/gomario/environment"
	"github.com/samuelfneumann/gomario/environment/nes"
	ts "github.com/samuelfneumann/gomario/timestep"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

// Phase is the phase of the current episode
type Phase int

const (
	Running Phase = iota

	// Blocked while the console plays a sequence which ignores input
	Blocked

	Terminated
	Truncated
)

func (p Phase) String() string {
	switch p {
	case Running:
		return "Running"
	case Blocked:
		return "Blocked"
	case Terminated:
		return "Terminated"
	case Truncated:
		return "Truncated"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// ResetOptions configures a call to ResetWithOptions
type ResetOptions struct {
	// Seed reseeds the environment before the stage is sampled
	Seed *uint64

	// Stages replaces the subset of stages sampled in random stage
	// mode, for this and all later episodes
	Stages *StageSubset
}

type backupKey struct {
	variant Variant
	target  Stage
}

// Env is a Super Mario Bros. environment. Env implements the
// environment.Environment interface.
type Env struct {
	config  Config
	loader  Loader
	actions []nes.Buttons
	logger  *log.Logger

	consoles map[Variant]nes.Console
	backups  map[backupKey][]byte

	source  rand.Source
	seeded  bool
	sampler *Sampler

	stepLimit environment.StepLimit
	truncate  environment.Ender

	// Current episode
	console  nes.Console
	variant  Variant
	target   *Stage
	phase    Phase
	stall    error
	baseline State
	previous State
	lastStep ts.TimeStep
}

// New creates a new Env which plays consoles created by loader, resets
// it, and returns the first TimeStep of the first episode.
func New(loader Loader, c Config) (*Env, ts.TimeStep, error) {
	if err := c.Validate(); err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: %w", err)
	}

	actions := c.Actions
	if actions == nil {
		actions = SimpleMovement
	}
	if len(actions) == 0 {
		return nil, ts.TimeStep{}, fmt.Errorf("new: no actions")
	}

	logger := c.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	e := &Env{
		config:    c,
		loader:    loader,
		actions:   actions,
		logger:    logger,
		consoles:  make(map[Variant]nes.Console),
		backups:   make(map[backupKey][]byte),
		source:    rand.NewSource(0),
		stepLimit: environment.NewStepLimit(c.MaxEpisodeSteps),
		variant:   c.Variant(),
		target:    c.Target,
	}

	if c.RandomMode != None {
		sampler, err := NewSampler(c.RandomMode, c.Stages, e.source)
		if err != nil {
			return nil, ts.TimeStep{}, fmt.Errorf("new: %w", err)
		}
		e.sampler = sampler
	}

	if c.TruncateFunc != nil {
		e.truncate = environment.NewFunctionEnder(e.truncateStep,
			ts.Truncated)
	}

	step, err := e.Reset()
	if err != nil {
		e.Close()
		return nil, ts.TimeStep{}, fmt.Errorf("new: %w", err)
	}
	return e, step, nil
}

// Seed reinitializes the random source used to sample stages. Later
// resets continue drawing from the reseeded source.
func (e *Env) Seed(seed uint64) {
	e.source.Seed(seed)
	e.seeded = true
}

// Reset resets the environment to the start of a new episode and
// returns the first TimeStep of the episode
func (e *Env) Reset() (ts.TimeStep, error) {
	return e.ResetWithOptions(ResetOptions{})
}

// ResetWithOptions resets the environment to the start of a new
// episode, first applying opts, and returns the first TimeStep of the
// episode.
//
// If the environment was never seeded, it is seeded from the clock.
func (e *Env) ResetWithOptions(opts ResetOptions) (ts.TimeStep, error) {
	if opts.Stages != nil {
		if e.sampler == nil {
			return ts.TimeStep{}, &Error{"reset", fmt.Errorf("stage "+
				"subsets require a random stage mode, have %v",
				e.config.RandomMode)}
		}
		if err := e.sampler.SetSubset(*opts.Stages); err != nil {
			return ts.TimeStep{}, fmt.Errorf("reset: %w", err)
		}
	}

	if opts.Seed != nil {
		e.Seed(*opts.Seed)
	} else if !e.seeded {
		e.Seed(uint64(time.Now().UnixNano()))
	}

	variant, target := e.config.Variant(), e.config.Target
	if e.sampler != nil {
		v, stage := e.sampler.Select()
		variant, target = v, &stage
	}

	console, err := e.consoleFor(variant)
	if err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: %w", err)
	}
	if err := e.start(console, variant, target); err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: %w", err)
	}

	state, err := Decode(console)
	if err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: %w", err)
	}
	obs, err := observation(console)
	if err != nil {
		return ts.TimeStep{}, fmt.Errorf("reset: %w", err)
	}

	e.console = console
	e.variant = variant
	e.target = target
	e.baseline = state
	e.previous = state
	e.phase = Running
	e.stall = nil
	e.lastStep = ts.New(ts.First, 0, obs, NewInfo(state, Delta{}), 0)

	e.logger.Debug("reset", "variant", variant, "world", state.World,
		"stage", state.Stage)

	return e.lastStep, nil
}

// Step takes one environmental step given action a and returns the
// next TimeStep and whether or not the episode has ended. Actions are
// 1-dimensional and discrete, indexing the configured action set.
//
// Calling Step after the episode has ended returns an error reporting
// ErrEpisodeOver; Reset must be called first. If the console could not
// be read while it played a blocking sequence, Step keeps reporting
// that failure until Reset.
func (e *Env) Step(a *mat.VecDense) (ts.TimeStep, bool, error) {
	if e.phase == Blocked {
		return ts.TimeStep{}, false, &Error{"step", fmt.Errorf("console "+
			"stalled in a blocking sequence, call Reset: %w", e.stall)}
	}
	if e.phase != Running {
		return ts.TimeStep{}, true, &Error{"step", fmt.Errorf("%w: "+
			"episode %v", ErrEpisodeOver, e.phase)}
	}

	if a.Len() != 1 {
		return ts.TimeStep{}, false, fmt.Errorf("step: actions should be "+
			"1-dimensional, have %d dimensions", a.Len())
	}
	action := int(a.AtVec(0))
	if action < 0 || action >= len(e.actions) {
		return ts.TimeStep{}, false, fmt.Errorf("step: illegal action "+
			"%v ∉ [0, %d]", action, len(e.actions)-1)
	}

	e.console.Apply(e.actions[action])
	if err := e.skip(); err != nil {
		return ts.TimeStep{}, false, fmt.Errorf("step: %w", err)
	}

	current, err := Decode(e.console)
	if err != nil {
		return ts.TimeStep{}, false, fmt.Errorf("step: %w", err)
	}
	obs, err := observation(e.console)
	if err != nil {
		return ts.TimeStep{}, false, fmt.Errorf("step: %w", err)
	}

	singleStage := e.target != nil
	delta := NewDelta(e.baseline, current)
	dead := deathTransition(e.baseline, current, singleStage)
	reward := Reward(delta.XSpeed, delta.ClockDelta, dead)

	// Enders see the new state through View, so it is committed now and
	// rolled back if an ender fails
	previous, baseline := e.previous, e.baseline
	e.previous, e.baseline = e.baseline, current

	step := ts.New(ts.Mid, reward, obs, NewInfo(current, delta),
		e.lastStep.Number+1)

	switch {
	case e.terminal(current, singleStage):
		step.SetEnd(ts.Terminated)
		e.phase = Terminated

	default:
		truncated, err := e.stepLimit.End(&step)
		if !truncated && err == nil && e.truncate != nil {
			truncated, err = e.truncate.End(&step)
		}
		if err != nil {
			e.previous, e.baseline = previous, baseline
			return ts.TimeStep{}, false, err
		}
		if truncated {
			e.phase = Truncated
		}
	}

	e.lastStep = step
	if step.Last() {
		e.logger.Info("episode over", "end", step.EndType, "steps",
			step.Number, "world", current.World, "stage", current.Stage,
			"x", current.XPos, "flag", current.FlagGet)
	}

	return step, step.Last(), nil
}

// terminal returns whether the episode ends naturally in state s
func (e *Env) terminal(s State, singleStage bool) bool {
	if s.GameOver() || s.FlagGet {
		return true
	}
	return singleStage && (s.Dying || s.Dead)
}

// skip runs the console through sequences which ignore input, leaving
// it at the first frame which accepts input
func (e *Env) skip() error {
	c := e.console
	w, writable := c.(nes.MemoryWriter)

	if writable {
		s, err := Decode(c)
		if err != nil {
			return err
		}
		if s.Dying {
			killPlayer(c, w)
		}
	}
	if e.target == nil {
		if err := skipEndOfWorld(c); err != nil {
			return err
		}
	}
	if writable {
		skipChangeArea(c, w)
	}

	s, err := Decode(c)
	if err != nil {
		return err
	}
	for c.Blocking() || s.InBlockingSequence {
		e.phase = Blocked
		if writable {
			runoutPrelevelTimer(w)
		}
		c.Apply(nes.NOOP)

		if s, err = Decode(c); err != nil {
			e.stall = err
			return err
		}
	}
	e.phase = Running

	return nil
}

// truncateStep calls the configured TruncateFunc on a TimeStep
func (e *Env) truncateStep(t *ts.TimeStep) (bool, error) {
	info, _ := t.Info.(Info)
	view := e.View()
	view.Steps = t.Number

	return e.config.TruncateFunc(view, t.Reward, info)
}

// consoleFor returns the console which plays variant v, loading it on
// first use
func (e *Env) consoleFor(v Variant) (nes.Console, error) {
	if c, ok := e.consoles[v]; ok {
		return c, nil
	}

	c, err := e.loader.Load(v, e.config.ROMMode)
	if err != nil {
		return nil, fmt.Errorf("could not load %v %v: %w", v,
			e.config.ROMMode, err)
	}
	e.consoles[v] = c
	return c, nil
}

// start brings the console to the first playable frame of target, or
// of the game if target is nil. Consoles which can save their state
// restore a backup made the first time target was started.
func (e *Env) start(c nes.Console, v Variant, target *Stage) error {
	key := backupKey{variant: v}
	if target != nil {
		key.target = *target
	}

	saver, canSave := c.(nes.SaveStater)
	if data, ok := e.backups[key]; ok && canSave {
		return saver.Deserialize(data)
	}

	if _, writable := c.(nes.MemoryWriter); target != nil && !writable {
		return fmt.Errorf("console cannot select stage %v: memory is "+
			"not writable", *target)
	}

	if err := c.Reset(); err != nil {
		return fmt.Errorf("could not reset console: %w", err)
	}
	if err := skipStartScreen(c, v, target); err != nil {
		return err
	}

	if canSave {
		data, err := saver.Serialize()
		if err != nil {
			return fmt.Errorf("could not back up console: %w", err)
		}
		e.backups[key] = data
	}
	return nil
}

// observation returns the console's screen as a (height, width, RGB)
// tensor
func observation(c nes.Console) (*tensor.Dense, error) {
	screen := c.Screen()
	size := nes.ScreenHeight * nes.ScreenWidth * nes.ScreenDepth
	if len(screen) != size {
		return nil, fmt.Errorf("screen has %d bytes, expected %d",
			len(screen), size)
	}

	pixels := make([]byte, size)
	copy(pixels, screen)

	return tensor.New(
		tensor.WithShape(nes.ScreenHeight, nes.ScreenWidth, nes.ScreenDepth),
		tensor.WithBacking(pixels),
	), nil
}

// View returns a read-only snapshot of the environment
func (e *Env) View() View {
	var target *Stage
	if e.target != nil {
		t := *e.target
		target = &t
	}

	return View{
		Steps:    e.lastStep.Number,
		Variant:  e.variant,
		Target:   target,
		Previous: e.previous,
		Current:  e.baseline,
	}
}

// Phase returns the phase of the current episode
func (e *Env) Phase() Phase {
	return e.phase
}

// State returns the most recently decoded game state
func (e *Env) State() State {
	return e.baseline
}

// Variant returns the variant played in the current episode
func (e *Env) Variant() Variant {
	return e.variant
}

// Target returns the stage played in the current episode and whether
// the episode plays a single stage
func (e *Env) Target() (Stage, bool) {
	if e.target == nil {
		return Stage{}, false
	}
	return *e.target, true
}

// Actions returns the buttons held by each action
func (e *Env) Actions() []nes.Buttons {
	return e.actions
}

// CurrentTimeStep returns the current timestep in the environment
func (e *Env) CurrentTimeStep() ts.TimeStep {
	return e.lastStep
}

// ActionSpec returns the action specification of the environment
func (e *Env) ActionSpec() environment.Spec {
	return environment.Scalar(environment.Action, 0,
		float64(len(e.actions)-1), environment.Discrete)
}

// ObservationSpec returns the observation specification of the
// environment
func (e *Env) ObservationSpec() environment.Spec {
	shape := tensor.Shape{nes.ScreenHeight, nes.ScreenWidth, nes.ScreenDepth}
	lowerBound := mat.NewVecDense(1, []float64{0})
	upperBound := mat.NewVecDense(1, []float64{255})

	return environment.NewSpec(shape, environment.Observation, lowerBound,
		upperBound, environment.Discrete)
}

// RewardSpec returns the reward specification of the environment. The
// upper bound is exclusive.
func (e *Env) RewardSpec() environment.Spec {
	return environment.Scalar(environment.Reward, RewardRange.Min,
		RewardRange.Max, environment.Continuous)
}

// Close releases the environment's consoles
func (e *Env) Close() error {
	var firstErr error
	for v, c := range e.consoles {
		if closer, ok := c.(io.Closer); ok {
			if err := closer.Close(); err != nil && firstErr == nil {
				firstErr = fmt.Errorf("close: %v: %w", v, err)
			}
		}
		delete(e.consoles, v)
	}
	return firstErr
}

// String returns a string representation of the environment
func (e *Env) String() string {
	str := "%v  |  %v  |  Step: %d  |  %v"
	return fmt.Sprintf(str, e.variant, e.phase, e.lastStep.Number,
		e.baseline)
}
