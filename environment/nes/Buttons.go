package nes

import (
	"fmt"
	"strings"
)

// Buttons is a bitmask of the buttons held on the first controller
type Buttons uint8

const (
	ButtonA Buttons = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

// NOOP holds no buttons
const NOOP Buttons = 0

var buttonNames = map[string]Buttons{
	"A":      ButtonA,
	"B":      ButtonB,
	"select": ButtonSelect,
	"start":  ButtonStart,
	"up":     ButtonUp,
	"down":   ButtonDown,
	"left":   ButtonLeft,
	"right":  ButtonRight,
	"NOOP":   NOOP,
}

// ParseButtons returns the bitmask of a combination of button names,
// e.g. []string{"right", "A", "B"}
func ParseButtons(names []string) (Buttons, error) {
	var b Buttons
	for _, name := range names {
		button, ok := buttonNames[name]
		if !ok {
			return 0, fmt.Errorf("parseButtons: no such button %q", name)
		}
		b |= button
	}
	return b, nil
}

// Held returns whether every button in other is held in b
func (b Buttons) Held(other Buttons) bool {
	return b&other == other
}

func (b Buttons) String() string {
	if b == NOOP {
		return "NOOP"
	}

	order := []string{"right", "left", "down", "up", "start", "select",
		"B", "A"}
	var held []string
	for _, name := range order {
		if b.Held(buttonNames[name]) {
			held = append(held, name)
		}
	}
	return strings.Join(held, "+")
}
