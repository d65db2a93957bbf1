package smb

import "fmt"

// Status is the power-up status of the player
type Status int

const (
	Small Status = iota
	Tall
	Fireball
)

func (s Status) String() string {
	switch s {
	case Small:
		return "small"
	case Tall:
		return "tall"
	default:
		return "fireball"
	}
}

// State is a snapshot of the semantic game state decoded from RAM
// after one step
type State struct {
	XPos  int
	YPos  int
	Time  int
	Coins int
	Score int

	// Life is the lives counter. The game counts 2, 1, 0 for three
	// lives and underflows to -1 once no lives remain.
	Life int

	World  int
	Stage  int
	Area   int
	Status Status

	FlagGet bool

	// InBlockingSequence is set while the game is busy with a sequence
	// which ignores input, e.g. a pipe transition or the lives screen
	InBlockingSequence bool

	Dying     bool
	Dead      bool
	WorldOver bool
}

// GameOver returns whether no lives remain
func (s State) GameOver() bool {
	return s.Life < 0
}

func (s State) String() string {
	str := "World %d-%d  |  x: %d  |  y: %d  |  Time: %d  |  Life: %d  |  " +
		"Status: %v"
	return fmt.Sprintf(str, s.World, s.Stage, s.XPos, s.YPos, s.Time, s.Life,
		s.Status)
}
