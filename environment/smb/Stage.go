package smb

import "fmt"

const (
	StagesPerWorld = 4
)

// Stage is one playable level, addressed by its (world, stage) pair
type Stage struct {
	World int `yaml:"world" json:"world"`
	Stage int `yaml:"stage" json:"stage"`
}

func (s Stage) String() string {
	return fmt.Sprintf("%d-%d", s.World, s.Stage)
}

// Validate returns an error if the stage does not exist in variant v.
// Worlds above 4 of Lost Levels are not available.
func (s Stage) Validate(v Variant) error {
	if s.World < 1 || s.World > v.MaxWorld() {
		return &Error{"validate", fmt.Errorf("%w: %v world %d ∉ [1, %d]",
			ErrInvalidStage, v, s.World, v.MaxWorld())}
	}
	if s.Stage < 1 || s.Stage > StagesPerWorld {
		return &Error{"validate", fmt.Errorf("%w: %v stage %d ∉ [1, %d]",
			ErrInvalidStage, v, s.Stage, StagesPerWorld)}
	}
	return nil
}

// Area returns the area number (1 to 5) the game loads for the stage.
// Stages which begin with a pipe intro are preceded by an extra area.
func (s Stage) Area(v Variant) int {
	area := s.Stage
	if s.Stage < 2 {
		return area
	}

	switch v {
	case LostLevels:
		if s.World == 1 || s.World == 3 {
			area++
		}
	default:
		switch s.World {
		case 1, 2, 4, 7:
			area++
		}
	}
	return area
}

// Catalog returns every stage available in variant v in world major
// order
func Catalog(v Variant) []Stage {
	stages := make([]Stage, 0, v.MaxWorld()*StagesPerWorld)
	for world := 1; world <= v.MaxWorld(); world++ {
		for stage := 1; stage <= StagesPerWorld; stage++ {
			stages = append(stages, Stage{world, stage})
		}
	}
	return stages
}

// StageSubset restricts the stages sampled in random stage mode. An
// empty sequence makes every stage of that variant eligible.
type StageSubset struct {
	SuperMarioBros []Stage `yaml:"smb" json:"smb"`
	LostLevels     []Stage `yaml:"lost_levels" json:"lost_levels"`
}

// For returns the stages of the subset for variant v
func (s StageSubset) For(v Variant) []Stage {
	if v == LostLevels {
		return s.LostLevels
	}
	return s.SuperMarioBros
}

// Eligible returns the stages which may be sampled for variant v
func (s StageSubset) Eligible(v Variant) []Stage {
	stages := s.For(v)
	if len(stages) == 0 {
		return Catalog(v)
	}
	return stages
}

// Validate returns an error if any stage of the subset does not exist
// in its variant
func (s StageSubset) Validate() error {
	for _, v := range Variants {
		for _, stage := range s.For(v) {
			if err := stage.Validate(v); err != nil {
				return err
			}
		}
	}
	return nil
}
