package smb

import "fmt"

// Variant is a game variant. Each variant is played from its own ROM.
type Variant int

const (
	SuperMarioBros Variant = iota
	LostLevels
)

// Variants lists all game variants
var Variants = []Variant{SuperMarioBros, LostLevels}

func (v Variant) String() string {
	switch v {
	case SuperMarioBros:
		return "SuperMarioBros"
	case LostLevels:
		return "SuperMarioBros2"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// MaxWorld returns the largest world currently playable in the variant
func (v Variant) MaxWorld() int {
	if v == LostLevels {
		return 4
	}
	return 8
}

// ROMMode selects which version of a game's ROM is loaded
type ROMMode int

const (
	Vanilla ROMMode = iota
	Downsample
	Pixel
	Rectangle
)

var romModeNames = []string{"Vanilla", "Downsample", "Pixel", "Rectangle"}

func (r ROMMode) String() string {
	if r < 0 || int(r) >= len(romModeNames) {
		return fmt.Sprintf("ROMMode(%d)", int(r))
	}
	return romModeNames[r]
}

// Supports returns whether the ROM mode is available for a variant.
// Lost Levels only ships Vanilla and Downsample ROMs.
func (r ROMMode) Supports(v Variant) bool {
	if r < Vanilla || r > Rectangle {
		return false
	}
	if v == LostLevels {
		return r == Vanilla || r == Downsample
	}
	return true
}

// ParseROMMode returns the ROMMode with the given name
func ParseROMMode(name string) (ROMMode, error) {
	for i, n := range romModeNames {
		if n == name {
			return ROMMode(i), nil
		}
	}
	return 0, fmt.Errorf("parseROMMode: no such rom mode %q", name)
}

// MarshalText implements encoding.TextMarshaler
func (r ROMMode) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (r *ROMMode) UnmarshalText(text []byte) error {
	mode, err := ParseROMMode(string(text))
	if err != nil {
		return err
	}
	*r = mode
	return nil
}

// RandomMode determines which variants stages are sampled from on
// each reset
type RandomMode int

const (
	// None plays a fixed target stage or the full game
	None RandomMode = iota
	SmbOnly
	LostLevelsOnly
	Both
)

var randomModeNames = []string{"None", "SmbOnly", "LostLevelsOnly", "Both"}

func (r RandomMode) String() string {
	if r < 0 || int(r) >= len(randomModeNames) {
		return fmt.Sprintf("RandomMode(%d)", int(r))
	}
	return randomModeNames[r]
}

// Uses returns whether stages of variant v can be sampled
func (r RandomMode) Uses(v Variant) bool {
	switch r {
	case SmbOnly:
		return v == SuperMarioBros
	case LostLevelsOnly:
		return v == LostLevels
	case Both:
		return true
	}
	return false
}

// ParseRandomMode returns the RandomMode with the given name
func ParseRandomMode(name string) (RandomMode, error) {
	for i, n := range randomModeNames {
		if n == name {
			return RandomMode(i), nil
		}
	}
	return 0, fmt.Errorf("parseRandomMode: no such random mode %q", name)
}

// MarshalText implements encoding.TextMarshaler
func (r RandomMode) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (r *RandomMode) UnmarshalText(text []byte) error {
	mode, err := ParseRandomMode(string(text))
	if err != nil {
		return err
	}
	*r = mode
	return nil
}
