// Package envconfig provides configuration for creating Super Mario
// Bros. environments by ID. Environment configurations in this package
// are YAML and JSON serializable.
package envconfig

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/samuelfneumann/gomario/environment"
	"github.com/samuelfneumann/gomario/environment/nes"
	"github.com/samuelfneumann/gomario/environment/smb"
	"github.com/samuelfneumann/gomario/environment/wrappers"
	ts "github.com/samuelfneumann/gomario/timestep"
	"gopkg.in/yaml.v3"
)

// Config implements a specific configuration of an environment
type Config struct {
	// ID names the registered environment, e.g. SuperMarioBros-1-1-Vanilla
	ID string `yaml:"id" json:"id"`

	MaxEpisodeSteps int `yaml:"max_episode_steps" json:"max_episode_steps"`

	// Actions names an action set of package smb. Ignored if
	// CustomActions is set.
	Actions string `yaml:"actions" json:"actions"`

	// CustomActions lists the names of the buttons held by each action
	CustomActions [][]string `yaml:"custom_actions" json:"custom_actions"`

	Stages smb.StageSubset `yaml:"stages" json:"stages"`

	// Seed seeds the first episode. If nil, the clock is used.
	Seed *uint64 `yaml:"seed" json:"seed"`

	// SkipFrames repeats each action this many times. Values below 2
	// do not repeat actions.
	SkipFrames int `yaml:"skip_frames" json:"skip_frames"`
}

// LoadFile reads a Config from a YAML file
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("loadFile: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("loadFile: %v: %w", path, err)
	}
	return c, nil
}

// Save writes the Config to a YAML file
func (c Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return nil
}

// ActionSet returns the buttons held by each action
func (c Config) ActionSet() ([]nes.Buttons, error) {
	if len(c.CustomActions) > 0 {
		actions := make([]nes.Buttons, len(c.CustomActions))
		for i, names := range c.CustomActions {
			buttons, err := nes.ParseButtons(names)
			if err != nil {
				return nil, fmt.Errorf("actionSet: action %d: %w", i, err)
			}
			actions[i] = buttons
		}
		return actions, nil
	}

	if c.Actions == "" {
		return smb.SimpleMovement, nil
	}
	actions, ok := smb.ActionSets[c.Actions]
	if !ok {
		return nil, fmt.Errorf("actionSet: no such action set %q", c.Actions)
	}
	return actions, nil
}

// Options returns the Registry options described by the Config
func (c Config) Options() ([]Option, error) {
	actions, err := c.ActionSet()
	if err != nil {
		return nil, fmt.Errorf("options: %w", err)
	}
	if err := c.Stages.Validate(); err != nil {
		return nil, fmt.Errorf("options: %w", err)
	}

	return []Option{
		WithMaxEpisodeSteps(c.MaxEpisodeSteps),
		WithActions(actions),
		WithStages(c.Stages),
	}, nil
}

// Create returns the environment described by the Config as well as
// the first timestep of the environment. Additional options are
// applied after those of the Config.
func (c Config) Create(r *Registry, loader smb.Loader,
	logger *log.Logger, opts ...Option) (environment.Closer, ts.TimeStep,
	error) {
	options, err := c.Options()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %w", err)
	}
	if logger != nil {
		options = append(options, WithLogger(logger))
	}
	options = append(options, opts...)

	env, step, err := r.Make(c.ID, loader, options...)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %w", err)
	}

	if c.Seed != nil {
		step, err = env.ResetWithOptions(smb.ResetOptions{Seed: c.Seed})
		if err != nil {
			env.Close()
			return nil, ts.TimeStep{}, fmt.Errorf("create: %w", err)
		}
	}

	if c.SkipFrames < 2 {
		return env, step, nil
	}
	skip, err := wrappers.NewSkipFrame(env, c.SkipFrames)
	if err != nil {
		env.Close()
		return nil, ts.TimeStep{}, fmt.Errorf("create: %w", err)
	}
	return skip, step, nil
}
