package envconfig

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/samuelfneumann/gomario/environment/nes"
	"github.com/samuelfneumann/gomario/environment/smb"
	ts "github.com/samuelfneumann/gomario/timestep"
)

// Option modifies the configuration of an environment created by a
// Registry
type Option func(*smb.Config)

// WithMaxEpisodeSteps truncates episodes after n steps
func WithMaxEpisodeSteps(n int) Option {
	return func(c *smb.Config) { c.MaxEpisodeSteps = n }
}

// WithActions sets the buttons held by each discrete action
func WithActions(actions []nes.Buttons) Option {
	return func(c *smb.Config) { c.Actions = actions }
}

// WithStages restricts the stages sampled by random stage environments
func WithStages(stages smb.StageSubset) Option {
	return func(c *smb.Config) { c.Stages = stages }
}

// WithTruncateFunc truncates episodes when f returns true
func WithTruncateFunc(f smb.TruncateFunc) Option {
	return func(c *smb.Config) { c.TruncateFunc = f }
}

// WithLogger sets the logger of the environment
func WithLogger(logger *log.Logger) Option {
	return func(c *smb.Config) { c.Logger = logger }
}

// Registry maps environment IDs to the environments they create
type Registry struct {
	ids map[string]ID
}

// NewRegistry returns a Registry holding every valid environment ID
func NewRegistry() *Registry {
	r := &Registry{ids: make(map[string]ID)}

	modes := []smb.ROMMode{smb.Vanilla, smb.Downsample, smb.Pixel,
		smb.Rectangle}

	for _, mode := range modes {
		for _, v := range smb.Variants {
			r.Register(ID{Variant: v, ROMMode: mode})
			for _, stage := range smb.Catalog(v) {
				stage := stage
				r.Register(ID{Variant: v, ROMMode: mode, Target: &stage})
			}
		}

		for _, random := range []smb.RandomMode{smb.SmbOnly,
			smb.LostLevelsOnly, smb.Both} {
			variant := smb.SuperMarioBros
			if random == smb.LostLevelsOnly {
				variant = smb.LostLevels
			}
			r.Register(ID{Variant: variant, ROMMode: mode,
				RandomMode: random})
		}
	}
	return r
}

// Register adds an ID to the registry. IDs naming environments which
// do not exist are not added.
func (r *Registry) Register(id ID) error {
	if err := id.Validate(); err != nil {
		return fmt.Errorf("register: %v: %w", id, err)
	}
	r.ids[id.String()] = id
	return nil
}

// IDs returns the registered IDs in sorted order
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.ids))
	for id := range r.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Lookup returns the ID registered under name
func (r *Registry) Lookup(name string) (ID, bool) {
	id, ok := r.ids[name]
	return id, ok
}

// Make creates the environment registered under name, playing consoles
// created by loader, and returns it with its first TimeStep
func (r *Registry) Make(name string, loader smb.Loader,
	opts ...Option) (*smb.Env, ts.TimeStep, error) {
	id, ok := r.Lookup(name)
	if !ok {
		return nil, ts.TimeStep{}, fmt.Errorf("make: no such environment "+
			"%q", name)
	}

	c := id.Config()
	for _, opt := range opts {
		opt(&c)
	}

	env, step, err := smb.New(loader, c)
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("make: %v: %w", name, err)
	}
	return env, step, nil
}
