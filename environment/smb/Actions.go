package smb

import "github.com/samuelfneumann/gomario/environment/nes"

// RightOnly only moves right
var RightOnly = []nes.Buttons{
	nes.NOOP,
	nes.ButtonRight,
	nes.ButtonRight | nes.ButtonA,
	nes.ButtonRight | nes.ButtonB,
	nes.ButtonRight | nes.ButtonA | nes.ButtonB,
}

// SimpleMovement adds jumping in place and walking left to RightOnly
var SimpleMovement = []nes.Buttons{
	nes.NOOP,
	nes.ButtonRight,
	nes.ButtonRight | nes.ButtonA,
	nes.ButtonRight | nes.ButtonB,
	nes.ButtonRight | nes.ButtonA | nes.ButtonB,
	nes.ButtonA,
	nes.ButtonLeft,
}

// ComplexMovement covers running and jumping in both directions and
// ducking and climbing
var ComplexMovement = []nes.Buttons{
	nes.NOOP,
	nes.ButtonRight,
	nes.ButtonRight | nes.ButtonA,
	nes.ButtonRight | nes.ButtonB,
	nes.ButtonRight | nes.ButtonA | nes.ButtonB,
	nes.ButtonA,
	nes.ButtonLeft,
	nes.ButtonLeft | nes.ButtonA,
	nes.ButtonLeft | nes.ButtonB,
	nes.ButtonLeft | nes.ButtonA | nes.ButtonB,
	nes.ButtonDown,
	nes.ButtonUp,
}

// ActionSets maps names of the action sets to the sets
var ActionSets = map[string][]nes.Buttons{
	"RightOnly":       RightOnly,
	"SimpleMovement":  SimpleMovement,
	"ComplexMovement": ComplexMovement,
}
