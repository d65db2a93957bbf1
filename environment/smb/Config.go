package smb

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/samuelfneumann/gomario/environment/nes"
)

// Loader creates the console which plays a game variant from the ROM
// of the given mode
type Loader interface {
	Load(v Variant, mode ROMMode) (nes.Console, error)
}

// LoaderFunc adapts a function to the Loader interface
type LoaderFunc func(v Variant, mode ROMMode) (nes.Console, error)

// Load calls f(v, mode)
func (f LoaderFunc) Load(v Variant, mode ROMMode) (nes.Console, error) {
	return f(v, mode)
}

// View is a read-only snapshot of an environment, passed to
// TruncateFuncs
type View struct {
	Steps   int
	Variant Variant

	// Target is the stage being played, or nil when playing the full
	// game
	Target *Stage

	// Previous and Current are the game states before and after the
	// most recent step
	Previous State
	Current  State
}

// TruncateFunc decides whether an episode should be truncated after a
// step. It is called once per step while the episode is running, with
// the step's reward and info. Errors are returned from Step unchanged.
type TruncateFunc func(v View, reward float64, info Info) (bool, error)

// Config configures a Super Mario Bros. environment
type Config struct {
	ROMMode    ROMMode
	RandomMode RandomMode

	// LostLevels selects the variant played when RandomMode is None
	LostLevels bool

	// Target is the single stage played when RandomMode is None. If
	// nil, the full game is played.
	Target *Stage

	// Stages restricts the stages sampled when RandomMode is not None
	Stages StageSubset

	// MaxEpisodeSteps truncates episodes after this many steps. Zero
	// never truncates.
	MaxEpisodeSteps int

	TruncateFunc TruncateFunc

	// Actions maps discrete actions to the buttons they hold. Defaults
	// to SimpleMovement.
	Actions []nes.Buttons

	Logger *log.Logger
}

// Variant returns the variant played when RandomMode is None
func (c Config) Variant() Variant {
	if c.LostLevels {
		return LostLevels
	}
	return SuperMarioBros
}

// Validate returns an error describing why the Config is invalid, or
// nil if it is valid
func (c Config) Validate() error {
	if c.MaxEpisodeSteps < 0 {
		return fmt.Errorf("validate: max episode steps %d < 0",
			c.MaxEpisodeSteps)
	}

	if c.RandomMode == None {
		v := c.Variant()
		if !c.ROMMode.Supports(v) {
			return fmt.Errorf("validate: %v has no %v ROM", v, c.ROMMode)
		}
		if c.Target != nil {
			if err := c.Target.Validate(v); err != nil {
				return err
			}
		}
		return c.Stages.Validate()
	}

	if c.RandomMode < None || c.RandomMode > Both {
		return fmt.Errorf("validate: no such random mode %v", c.RandomMode)
	}
	if c.Target != nil {
		return fmt.Errorf("validate: target stage %v cannot be used with "+
			"random mode %v", *c.Target, c.RandomMode)
	}
	for _, v := range Variants {
		if c.RandomMode.Uses(v) && !c.ROMMode.Supports(v) {
			return fmt.Errorf("validate: %v has no %v ROM", v, c.ROMMode)
		}
	}
	return c.Stages.Validate()
}
