package envconfig

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/samuelfneumann/gomario/environment/smb"
)

// RandomStagesName is the name of random stage environments
const RandomStagesName = "SuperMarioBrosRandomStages"

// ID identifies a registered environment. IDs are written as one of:
//
//	SuperMarioBros-<ROMMode>
//	SuperMarioBros2-<ROMMode>
//	SuperMarioBros-<World>-<Stage>-<ROMMode>
//	SuperMarioBros2-<World>-<Stage>-<ROMMode>
//	SuperMarioBrosRandomStages-<ROMMode>-<RandomMode>
type ID struct {
	Variant    smb.Variant
	ROMMode    smb.ROMMode
	RandomMode smb.RandomMode

	// Target is the single stage played, or nil for the full game or
	// random stages
	Target *smb.Stage
}

// ParseID parses and validates an environment ID
func ParseID(id string) (ID, error) {
	parts := strings.Split(id, "-")

	var parsed ID
	var err error
	switch parts[0] {
	case smb.SuperMarioBros.String(), smb.LostLevels.String():
		parsed, err = parseGame(parts)

	case RandomStagesName:
		parsed, err = parseRandomStages(parts)

	default:
		err = fmt.Errorf("no such game %q", parts[0])
	}
	if err != nil {
		return ID{}, fmt.Errorf("parseID: %v: %w", id, err)
	}

	if err := parsed.Validate(); err != nil {
		return ID{}, fmt.Errorf("parseID: %v: %w", id, err)
	}
	return parsed, nil
}

func parseGame(parts []string) (ID, error) {
	var parsed ID
	if parts[0] == smb.LostLevels.String() {
		parsed.Variant = smb.LostLevels
	}

	switch len(parts) {
	case 2:
	case 4:
		world, err := strconv.Atoi(parts[1])
		if err != nil {
			return ID{}, fmt.Errorf("world %q: %v", parts[1], err)
		}
		stage, err := strconv.Atoi(parts[2])
		if err != nil {
			return ID{}, fmt.Errorf("stage %q: %v", parts[2], err)
		}
		parsed.Target = &smb.Stage{World: world, Stage: stage}

	default:
		return ID{}, fmt.Errorf("expected 2 or 4 fields, have %d",
			len(parts))
	}

	mode, err := smb.ParseROMMode(parts[len(parts)-1])
	if err != nil {
		return ID{}, err
	}
	parsed.ROMMode = mode
	return parsed, nil
}

func parseRandomStages(parts []string) (ID, error) {
	if len(parts) != 3 {
		return ID{}, fmt.Errorf("expected 3 fields, have %d", len(parts))
	}

	mode, err := smb.ParseROMMode(parts[1])
	if err != nil {
		return ID{}, err
	}
	random, err := smb.ParseRandomMode(parts[2])
	if err != nil {
		return ID{}, err
	}
	if random == smb.None {
		return ID{}, fmt.Errorf("random stages need a random mode, have %v",
			random)
	}

	variant := smb.SuperMarioBros
	if random == smb.LostLevelsOnly {
		variant = smb.LostLevels
	}
	return ID{Variant: variant, ROMMode: mode, RandomMode: random}, nil
}

// Validate returns an error if the ID names an environment which does
// not exist
func (i ID) Validate() error {
	return i.Config().Validate()
}

// Config returns the environment configuration of the ID
func (i ID) Config() smb.Config {
	c := smb.Config{
		ROMMode:    i.ROMMode,
		RandomMode: i.RandomMode,
	}
	if i.RandomMode == smb.None {
		c.LostLevels = i.Variant == smb.LostLevels
		if i.Target != nil {
			target := *i.Target
			c.Target = &target
		}
	}
	return c
}

func (i ID) String() string {
	if i.RandomMode != smb.None {
		return fmt.Sprintf("%s-%v-%v", RandomStagesName, i.ROMMode,
			i.RandomMode)
	}
	if i.Target != nil {
		return fmt.Sprintf("%v-%d-%d-%v", i.Variant, i.Target.World,
			i.Target.Stage, i.ROMMode)
	}
	return fmt.Sprintf("%v-%v", i.Variant, i.ROMMode)
}
