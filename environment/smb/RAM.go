package smb

import (
	"fmt"

	"github.com/samuelfneumann/gomario/environment/nes"
)

// RAM addresses of Super Mario Bros. and Lost Levels game state
const (
	AddrPlayerState  = 0x000E
	AddrEnemyTypes   = 0x0016 // five consecutive slots
	AddrFloatState   = 0x001D
	AddrXPage        = 0x006D
	AddrXScreen      = 0x0086
	AddrYViewport    = 0x00B5
	AddrYPixel       = 0x03B8
	AddrChangeArea   = 0x06DE
	AddrStatus       = 0x0756
	AddrLife         = 0x075A
	AddrStage        = 0x075C
	AddrWorld        = 0x075F
	AddrArea         = 0x0760
	AddrGameplayMode = 0x0770
	AddrPrelevel     = 0x07A0
	AddrScore        = 0x07DE // six decimal digits
	AddrCoins        = 0x07ED // two decimal digits
	AddrTime         = 0x07F8 // three decimal digits
)

// Player states stored at AddrPlayerState
const (
	StateLeftmost    = 0x00
	StateVine        = 0x01
	StateReversePipe = 0x02
	StateDownPipe    = 0x03
	StateAutoWalk    = 0x04
	StateAutoWalk2   = 0x05
	StateDead        = 0x06
	StateEntering    = 0x07
	StateNormal      = 0x08
	StateFrozen      = 0x09
	StateDying       = 0x0B
	StatePalette     = 0x0C
)

// Enemy types which mark the end of a stage: Bowser and the flagpole
const (
	EnemyBowser   = 0x2D
	EnemyFlagpole = 0x31
)

const (
	numEnemySlots  = 5
	floatFlagSlide = 3
	modeWorldOver  = 2
)

var busyStates = map[byte]bool{
	StateLeftmost:    true,
	StateVine:        true,
	StateReversePipe: true,
	StateDownPipe:    true,
	StateAutoWalk:    true,
	StateAutoWalk2:   true,
	StateEntering:    true,
}

// Decode reads the console's work RAM and decodes the game state
func Decode(m nes.Memory) (State, error) {
	ram := make([]byte, nes.RAMSize)
	if n := m.ReadMemory(0, ram); int(n) < len(ram) {
		return State{}, &Error{"decode", fmt.Errorf("%w: read %d of %d "+
			"bytes", ErrDecode, n, len(ram))}
	}
	return DecodeRAM(ram)
}

// DecodeRAM decodes the game state from a view of the work RAM. The
// view is not modified.
func DecodeRAM(ram []byte) (State, error) {
	if len(ram) < nes.RAMSize {
		return State{}, &Error{"decode", fmt.Errorf("%w: RAM view has %d "+
			"of %d bytes", ErrDecode, len(ram), nes.RAMSize)}
	}

	playerState := ram[AddrPlayerState]
	viewport := ram[AddrYViewport]
	worldOver := ram[AddrGameplayMode] == modeWorldOver

	s := State{
		XPos:      int(ram[AddrXPage])*0x100 + int(ram[AddrXScreen]),
		YPos:      yPosition(viewport, ram[AddrYPixel]),
		Time:      digits(ram[AddrTime : AddrTime+3]),
		Coins:     digits(ram[AddrCoins : AddrCoins+2]),
		Score:     digits(ram[AddrScore : AddrScore+6]),
		Life:      int(int8(ram[AddrLife])),
		World:     int(ram[AddrWorld]) + 1,
		Stage:     int(ram[AddrStage]) + 1,
		Area:      int(ram[AddrArea]) + 1,
		Status:    status(ram[AddrStatus]),
		FlagGet:   worldOver || stageOver(ram),
		Dying:     playerState == StateDying || viewport > 1,
		Dead:      playerState == StateDead,
		WorldOver: worldOver,
	}
	s.InBlockingSequence = busyStates[playerState] || worldOver

	return s, nil
}

// digits reads a number stored as one decimal digit per byte
func digits(ram []byte) int {
	value := 0
	for _, digit := range ram {
		value = value*10 + int(digit)
	}
	return value
}

// yPosition returns the height of the player above the bottom of the
// screen. Above the viewport (the score board) the height continues
// past 255; below it (falling into a pit) it is negative.
func yPosition(viewport, pixel byte) int {
	switch {
	case viewport < 1:
		return 255 + (255 - int(pixel))
	case viewport > 1:
		return -int(pixel) - 1
	}
	return 255 - int(pixel)
}

func status(b byte) Status {
	switch b {
	case 0:
		return Small
	case 1:
		return Tall
	}
	return Fireball
}

// stageOver returns whether the player is sliding down the flagpole
// or has reached Bowser. Climbing a vine also sets the float state, so
// the float state only counts when a stage ending enemy is loaded.
func stageOver(ram []byte) bool {
	for i := 0; i < numEnemySlots; i++ {
		enemy := ram[AddrEnemyTypes+i]
		if enemy == EnemyBowser || enemy == EnemyFlagpole {
			return ram[AddrFloatState] == floatFlagSlide
		}
	}
	return false
}
