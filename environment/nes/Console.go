// Package nes defines the capabilities an NES emulator must expose to
// be driven by an environment: flat reads of work RAM, one frame of
// controller input at a time, the current screen, and whether the
// game is in a sequence that ignores input.
//
// Optional capabilities (RAM writes and save states) are discovered
// with type assertions on the Console.
package nes

const (
	// RAMSize is the size of the NES work RAM in bytes
	RAMSize = 0x0800

	ScreenHeight = 240
	ScreenWidth  = 256
	ScreenDepth  = 3
)

// Memory enables flat address-based reads of console memory
type Memory interface {
	// ReadMemory reads from a flat address into buf and returns the
	// number of bytes read. Fewer bytes than len(buf) are returned
	// when the addresses are not backed by memory.
	ReadMemory(addr uint32, buf []byte) uint32
}

// Console is an NES emulator exclusively owned by one environment
type Console interface {
	Memory

	// Apply holds the buttons in b for exactly one frame and runs the
	// frame
	Apply(b Buttons)

	// Blocking reports whether the game is in an unskippable sequence
	// (cut-scene, transition) during which input has no effect
	Blocking() bool

	// Screen returns the current frame as packed RGB bytes in row
	// major order, ScreenHeight * ScreenWidth * ScreenDepth long
	Screen() []byte

	// Reset power cycles the console
	Reset() error
}

// MemoryWriter enables flat address-based writes to console memory
type MemoryWriter interface {
	// WriteMemory writes data starting at a flat address and returns
	// the number of bytes written
	WriteMemory(addr uint32, data []byte) uint32
}

// SaveStater enables saving and restoring the complete console state
type SaveStater interface {
	Serialize() ([]byte, error)
	Deserialize(data []byte) error
}
